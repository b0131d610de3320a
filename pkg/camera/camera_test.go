package camera

import (
	"errors"
	"math"
	"testing"
)

func TestEncodeDecodeCamera(t *testing.T) {
	c := New(1.5, 2, 3, 4)
	got, err := Decode(c.Encode())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if *got != *c {
		t.Fatalf("decoded %+v want %+v", *got, *c)
	}
	if _, err := Decode([]float64{1, 2, 3}); !errors.Is(err, ErrEncodingLength) {
		t.Fatalf("expected ErrEncodingLength, got %v", err)
	}
}

func TestEncodeMultiOrder(t *testing.T) {
	cams := []*Camera{New(0.1, 1, 2, 1), New(0.2, 3, 4, 2)}
	buf := EncodeMulti(cams)
	want := []float64{0.1, 1, 2, 1, 0.2, 3, 4, 2}
	if len(buf) != len(want) {
		t.Fatalf("len=%d want %d", len(buf), len(want))
	}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("buf[%d]=%f want %f", i, buf[i], want[i])
		}
	}
	back, err := DecodeMulti(buf)
	if err != nil {
		t.Fatalf("decode multi: %v", err)
	}
	if len(back) != 2 || *back[1] != *cams[1] {
		t.Fatalf("decoded %+v", back)
	}
	if _, err := DecodeMulti(buf[:5]); !errors.Is(err, ErrEncodingLength) {
		t.Fatalf("expected ErrEncodingLength, got %v", err)
	}
}

func TestNormalizeRadians(t *testing.T) {
	cases := map[float64]float64{
		0:               0,
		-math.Pi / 2:    3 * math.Pi / 2,
		5 * math.Pi / 2: math.Pi / 2,
		2 * math.Pi:     0,
	}
	for in, want := range cases {
		if got := NormalizeRadians(in); math.Abs(got-want) > 1e-9 {
			t.Fatalf("normalize(%f)=%f want %f", in, got, want)
		}
	}
}
