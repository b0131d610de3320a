package core

import "testing"

func TestRNGDeterministic(t *testing.T) {
	a, b := NewRNG(7), NewRNG(7)
	for i := 0; i < 100; i++ {
		if a.IntRange(0, 1000) != b.IntRange(0, 1000) {
			t.Fatalf("draw %d diverged for equal seeds", i)
		}
	}
}

func TestIntRangeBounds(t *testing.T) {
	r := NewRNG(1)
	for i := 0; i < 500; i++ {
		v := r.IntRange(3, 5)
		if v < 3 || v > 5 {
			t.Fatalf("value %d outside [3,5]", v)
		}
	}
	if got := r.IntRange(9, 2); got != 9 {
		t.Fatalf("inverted range returned %d want 9", got)
	}
}

func TestScatterDensity(t *testing.T) {
	r := NewRNG(3)
	buf := make([]uint8, 64)
	if n := r.Scatter(buf, 0, 1); n != 0 {
		t.Fatalf("zero density wrote %d cells", n)
	}
	n := r.Scatter(buf, 1, 2)
	if n != len(buf) {
		t.Fatalf("full density wrote %d cells want %d", n, len(buf))
	}
	for i, v := range buf {
		if v != 2 {
			t.Fatalf("cell %d=%d want 2", i, v)
		}
	}
}
