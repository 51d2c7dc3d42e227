package common

import "testing"

func TestPathHashStable(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want int32
	}{
		{"empty", "", -2128831035},
		{"single_byte", "a", -468965076},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := PathHash(c.in); got != c.want {
				t.Fatalf("PathHash(%q) = %d, want %d", c.in, got, c.want)
			}
		})
	}

	if PathHash("/root/torso") == PathHash("/root/torsO") {
		t.Fatalf("expected distinct hashes for distinct paths")
	}
	if PathHash("/root/torso/armL") != PathHash("/root/torso/armL") {
		t.Fatalf("hash must be deterministic")
	}
}

func TestClamp01(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{-1, 0},
		{0, 0},
		{0.25, 0.25},
		{1, 1},
		{3, 1},
	}
	for _, c := range cases {
		if got := Clamp01(c.in); got != c.want {
			t.Fatalf("Clamp01(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestPingPong(t *testing.T) {
	cases := []struct {
		v, want float64
	}{
		{0, 0},
		{5, 5},
		{10, 10},
		{15, 5},
		{20, 0},
		{-5, 5},
	}
	for _, c := range cases {
		if got := PingPong(c.v, 10); got != c.want {
			t.Fatalf("PingPong(%v, 10) = %v, want %v", c.v, got, c.want)
		}
	}
}
