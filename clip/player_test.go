package clip

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/milk9111/spriteclip/curve"
)

func playerClip(t *testing.T, mode curve.WrapMode) (*Player, *[]string) {
	t.Helper()
	c := heroClip(t)
	c.SetWrapMode(mode)
	c.SetEvents([]Event{
		{Frame: 0, Name: "start"},
		{Frame: 2, Name: "step"},
		{Frame: 5, Name: "end"},
	})
	var fired []string
	p := NewPlayer(c)
	p.Handlers = append(p.Handlers, func(_ *Player, frame int, e Event) {
		if e.Frame != frame {
			t.Errorf("event %q for frame %d delivered on frame %d", e.Name, e.Frame, frame)
		}
		fired = append(fired, e.Name)
	})
	return p, &fired
}

func TestPlayerModes(t *testing.T) {
	cases := []struct {
		mode   curve.WrapMode
		frames []int
		fired  []string
		done   bool
	}{
		{
			mode:   curve.Loop,
			frames: []int{1, 2, 3, 4, 5, 0, 1, 2},
			fired:  []string{"start", "step", "end", "start", "step"},
		},
		{
			mode:   curve.PingPong,
			frames: []int{1, 2, 3, 4, 5, 4, 3, 2, 1, 0, 1},
			fired:  []string{"start", "step", "end", "step", "start"},
		},
		{
			mode:   curve.Once,
			frames: []int{1, 2, 3, 4, 5, 5, 5},
			fired:  []string{"start", "step", "end"},
			done:   true,
		},
		{
			mode:   curve.ClampForever,
			frames: []int{1, 2, 3, 4, 5, 5},
			fired:  []string{"start", "step", "end"},
			done:   true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.mode.String(), func(t *testing.T) {
			p, fired := playerClip(t, tc.mode)
			p.Update(0)

			var got []int
			for range tc.frames {
				p.Update(0.25)
				got = append(got, p.Frame())
			}
			if diff := cmp.Diff(tc.frames, got); diff != "" {
				t.Fatalf("frames mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.fired, *fired); diff != "" {
				t.Fatalf("events mismatch (-want +got):\n%s", diff)
			}
			if p.Done() != tc.done {
				t.Fatalf("Done = %v, want %v", p.Done(), tc.done)
			}
		})
	}
}

func TestPlayerLargeStep(t *testing.T) {
	p, fired := playerClip(t, curve.Loop)
	p.Update(0)
	p.Update(100)

	if p.Frame() != 4 {
		t.Fatalf("frame = %d, want 4", p.Frame())
	}
	if len(*fired) != 4 {
		t.Fatalf("a long step should replay at most one cycle, fired %v", *fired)
	}
}

func TestPlayerSetFrameAndReset(t *testing.T) {
	p, fired := playerClip(t, curve.Once)
	armL := mustFind(t, p.Clip(), "/body/armL")

	p.SetFrame(99)
	if p.Frame() != 5 || p.Elapsed() != 1.25 {
		t.Fatalf("SetFrame clamped to %d at %v", p.Frame(), p.Elapsed())
	}
	if k, ok := p.Sample(armL); !ok || k.Ref != "arm_5" {
		t.Fatalf("Sample = %q, %v", k.Ref, ok)
	}
	if len(*fired) != 0 {
		t.Fatalf("SetFrame fired %v", *fired)
	}

	p.Update(0.25)
	if !p.Done() {
		t.Fatalf("last frame shown for a tick should finish playback")
	}
	p.Update(0.25)
	if p.Frame() != 5 || len(*fired) != 0 {
		t.Fatalf("finished player moved to %d and fired %v", p.Frame(), *fired)
	}

	p.Reset()
	if p.Done() || p.Frame() != 0 {
		t.Fatalf("Reset left frame %d done %v", p.Frame(), p.Done())
	}
	p.Update(0)
	if diff := cmp.Diff([]string{"start"}, *fired); diff != "" {
		t.Fatalf("frame 0 events after reset (-want +got):\n%s", diff)
	}
}

func TestPlayerEmptyClip(t *testing.T) {
	c := New("empty", 4)
	c.SetWrapMode(curve.Loop)
	p := NewPlayer(c)
	for i := 0; i < 5; i++ {
		p.Update(0.25)
	}
	if p.Frame() != 0 {
		t.Fatalf("empty clip frame = %d", p.Frame())
	}
}
