// Package stream broadcasts camera and viewport encodings to websocket
// clients and accepts move commands from them.
package stream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Kind tags the payload of a binary frame.
type Kind byte

const (
	KindCameras  Kind = 1
	KindViewport Kind = 2
	KindGrid     Kind = 3
	KindVisible  Kind = 4
)

// ErrShortFrame is returned for frames too small to hold their payload.
var ErrShortFrame = errors.New("stream: short frame")

// EncodeFrame packs values as little-endian float64 after a one-byte kind.
func EncodeFrame(kind Kind, values []float64) []byte {
	buf := make([]byte, 1+8*len(values))
	buf[0] = byte(kind)
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[1+8*i:], math.Float64bits(v))
	}
	return buf
}

// DecodeFrame reverses EncodeFrame.
func DecodeFrame(buf []byte) (Kind, []float64, error) {
	if len(buf) < 1 || (len(buf)-1)%8 != 0 {
		return 0, nil, fmt.Errorf("frame of %d bytes: %w", len(buf), ErrShortFrame)
	}
	values := make([]float64, (len(buf)-1)/8)
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[1+8*i:]))
	}
	return Kind(buf[0]), values, nil
}

// EncodeGrid packs a grid as its kind byte followed by the raw cells.
func EncodeGrid(cells []uint8) []byte {
	buf := make([]byte, 1+len(cells))
	buf[0] = byte(KindGrid)
	copy(buf[1:], cells)
	return buf
}
