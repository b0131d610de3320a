package camera

import (
	"errors"
	"fmt"
	"math"
)

// ErrEncodingLength is returned when a flat buffer has the wrong length.
var ErrEncodingLength = errors.New("camera: encoded buffer has wrong length")

// EncodedLen is the number of floats used to encode one camera.
const EncodedLen = 4

// Camera is a pose over a grid. R is in radians, X and Y are grid units
// and Z is the zoom factor (> 0).
type Camera struct {
	R float64
	X float64
	Y float64
	Z float64
}

// New returns a camera with the provided pose.
func New(r, x, y, z float64) *Camera {
	return &Camera{R: r, X: x, Y: y, Z: z}
}

// Encode returns the pose as [r, x, y, z].
func (c *Camera) Encode() []float64 {
	return []float64{c.R, c.X, c.Y, c.Z}
}

// Decode reads a pose previously produced by Encode.
func Decode(buf []float64) (*Camera, error) {
	if len(buf) != EncodedLen {
		return nil, fmt.Errorf("decode camera from %d floats: %w", len(buf), ErrEncodingLength)
	}
	return &Camera{R: buf[0], X: buf[1], Y: buf[2], Z: buf[3]}, nil
}

// EncodeMulti packs cameras back to back, four floats each.
func EncodeMulti(cams []*Camera) []float64 {
	out := make([]float64, 0, len(cams)*EncodedLen)
	for _, c := range cams {
		out = append(out, c.R, c.X, c.Y, c.Z)
	}
	return out
}

// DecodeMulti unpacks a buffer produced by EncodeMulti.
func DecodeMulti(buf []float64) ([]*Camera, error) {
	if len(buf)%EncodedLen != 0 {
		return nil, fmt.Errorf("decode cameras from %d floats: %w", len(buf), ErrEncodingLength)
	}
	cams := make([]*Camera, 0, len(buf)/EncodedLen)
	for i := 0; i < len(buf); i += EncodedLen {
		cams = append(cams, &Camera{R: buf[i], X: buf[i+1], Y: buf[i+2], Z: buf[i+3]})
	}
	return cams, nil
}

// NormalizeRadians wraps r into [0, 2π).
func NormalizeRadians(r float64) float64 {
	r = math.Mod(r, 2*math.Pi)
	if r < 0 {
		r += 2 * math.Pi
	}
	if r >= 2*math.Pi {
		r = 0
	}
	return r
}
