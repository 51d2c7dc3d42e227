package common

import "hash/fnv"

// PathHash returns the lookup key for a component path. The value is persisted
// alongside clip data, so the algorithm (32-bit FNV-1a) must never change.
func PathHash(path string) int32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(path))
	return int32(h.Sum32())
}
