// Package store keeps packed clips in a bbolt resource file.
package store

import (
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/milk9111/spriteclip/assets"
	"github.com/milk9111/spriteclip/clip"
	bolt "go.etcd.io/bbolt"
	"gopkg.in/yaml.v3"
)

var (
	clipsBucket = []byte("clips")
	tagsBucket  = []byte("tags")
)

var ErrNotFound = errors.New("store: not found")

// Store is a resource file of encoded clips plus a tag index. Clips resolved
// through ResolveClip are cached so sub-clip references share one instance.
type Store struct {
	db    *bolt.DB
	cache map[string]*clip.Clip
}

func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o666, nil)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{clipsBucket, tagsBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: init %s: %w", path, err)
	}
	return &Store{db: db, cache: make(map[string]*clip.Clip)}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// PutClip encodes c and stores it under name, replacing any previous record.
func (s *Store) PutClip(name string, c *clip.Clip) error {
	data, err := assets.Encode(c)
	if err != nil {
		return err
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(clipsBucket).Put([]byte(name), data)
	})
	if err != nil {
		return fmt.Errorf("store: put %s: %w", name, err)
	}
	delete(s.cache, name)
	return nil
}

// GetClip decodes the clip stored under name. Every call returns a new
// instance at the stored version.
func (s *Store) GetClip(name string) (*clip.Clip, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(clipsBucket).Get([]byte(name))
		if v == nil {
			return fmt.Errorf("%w: clip %q", ErrNotFound, name)
		}
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	c, err := assets.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", name, err)
	}
	return c, nil
}

func (s *Store) DeleteClip(name string) error {
	delete(s.cache, name)
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(clipsBucket).Delete([]byte(name))
	})
}

// ClipNames lists stored clips in key order.
func (s *Store) ClipNames() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(clipsBucket).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

// PutTag records the clip names belonging to tag.
func (s *Store) PutTag(tag string, names []string) error {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	data, err := yaml.Marshal(sorted)
	if err != nil {
		return fmt.Errorf("store: encode tag %s: %w", tag, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(tagsBucket).Put([]byte(tag), data)
	})
}

func (s *Store) Tag(tag string) ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(tagsBucket).Get([]byte(tag))
		if v == nil {
			return fmt.Errorf("%w: tag %q", ErrNotFound, tag)
		}
		return yaml.Unmarshal(v, &names)
	})
	return names, err
}

// ResolveClip loads a referenced sub-clip. It lets a Store act as the
// resolver for clip.Upgrade; the upgrade itself migrates what is returned.
func (s *Store) ResolveClip(ref string) (*clip.Clip, bool) {
	if c, ok := s.cache[ref]; ok {
		return c, true
	}
	c, err := s.GetClip(ref)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("store: resolve %q: %v", ref, err)
		}
		return nil, false
	}
	s.cache[ref] = c
	return c, true
}
