package curve

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestLinearTimeCurveBoundaries(t *testing.T) {
	const r = 10.0
	cases := []struct {
		name string
		mode WrapMode
		at   float64
		want float64
	}{
		{"once_start", Once, 0, 5},
		{"once_end", Once, r, 100},
		{"once_unclamped", Once, 2 * r, 195},
		{"clamp_start", Clamp, 0, 5},
		{"clamp_end", Clamp, r, 100},
		{"default_end", Default, r, 100},
		{"clamp_forever_past_end", ClampForever, 3 * r, 100},
		{"clamp_forever_before_start", ClampForever, -r, 5},
		{"loop_start", Loop, 0, 5},
		{"loop_wraps_at_range", Loop, r, 5},
		{"ping_pong_end", PingPong, r, 100},
		{"ping_pong_back_to_start", PingPong, 2 * r, 5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			curve := New(0, 5, r, 100, c.mode)
			if got := curve.Evaluate(c.at); got != c.want {
				t.Fatalf("Evaluate(%v) = %v, want %v", c.at, got, c.want)
			}
		})
	}
}

func TestLoopEvaluatesModuloRange(t *testing.T) {
	a := New(0, 0, 10, 100, Loop)
	b := New(0, 0, 10, 100, Loop)
	if got, want := a.Evaluate(15), b.Evaluate(5); got != want {
		t.Fatalf("Evaluate(15) = %v, Evaluate(5) = %v", got, want)
	}
	if got := a.Evaluate(15); got != 50 {
		t.Fatalf("Evaluate(15) = %v, want 50", got)
	}
}

func TestPingPongFoldsBack(t *testing.T) {
	c := New(0, 0, 10, 100, PingPong)
	if got := c.Evaluate(15); got != 50 {
		t.Fatalf("Evaluate(15) = %v, want 50", got)
	}
	if got := c.Evaluate(-5); got != 50 {
		t.Fatalf("Evaluate(-5) = %v, want 50", got)
	}
}

func TestInvalidRangeIsConstant(t *testing.T) {
	for _, r := range []float64{0, -3} {
		c := New(0, 7, r, 100, Loop)
		if c.Valid() {
			t.Fatalf("range %v should be invalid", r)
		}
		for _, at := range []float64{-1, 0, 1, 50} {
			if got := c.Evaluate(at); got != 7 {
				t.Fatalf("Evaluate(%v) = %v, want start value 7", at, got)
			}
			if p := c.Progress(at); p != 0 {
				t.Fatalf("Progress(%v) = %v, want 0", at, p)
			}
		}
	}
}

func TestWrapModeYAML(t *testing.T) {
	type doc struct {
		Mode WrapMode `yaml:"mode"`
	}
	var d doc
	if err := yaml.Unmarshal([]byte("mode: Ping-Pong\n"), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.Mode != PingPong {
		t.Fatalf("mode = %v, want ping_pong", d.Mode)
	}
	out, err := yaml.Marshal(doc{Mode: ClampForever})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "mode: clamp_forever\n" {
		t.Fatalf("marshal = %q", out)
	}
	if err := yaml.Unmarshal([]byte("mode: sideways\n"), &d); err == nil {
		t.Fatalf("expected error for unknown wrap mode")
	}
}
