package clip

import (
	"fmt"
	"slices"
	"sort"
)

// Event fires when playback reaches Frame. Time is always derived from the
// frame and the clip's tick; it is never persisted.
type Event struct {
	Frame   int
	Name    string
	Payload string
	Time    float64
}

// Events returns a copy of the event list ordered by frame.
func (c *Clip) Events() []Event {
	return slices.Clone(c.events)
}

// SetEvents replaces the event list. The input is copied, stably sorted by
// frame and given derived times.
func (c *Clip) SetEvents(events []Event) {
	c.events = slices.Clone(events)
	sortEvents(c.events)
	c.deriveEventTimes()
}

// UpdateEvent overwrites the event at position i. When the frame changes the
// list is stably re-sorted, so the event may move to another position.
func (c *Clip) UpdateEvent(i int, e Event) error {
	if i < 0 || i >= len(c.events) {
		return fmt.Errorf("%w: %d", ErrEventIndex, i)
	}
	moved := c.events[i].Frame != e.Frame
	e.Time = float64(e.Frame) * c.tick
	c.events[i] = e
	if moved {
		sortEvents(c.events)
	}
	return nil
}

// EventAt returns the first event placed on frame.
func (c *Clip) EventAt(frame int) (Event, bool) {
	for _, e := range c.events {
		if e.Frame == frame {
			return e, true
		}
	}
	return Event{}, false
}

func (c *Clip) deriveEventTimes() {
	for i := range c.events {
		c.events[i].Time = float64(c.events[i].Frame) * c.tick
	}
}

func sortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Frame < events[j].Frame
	})
}
