// Package reading decodes the revolution periods reported by the sensor
// firmware.
//
// The firmware answers every request with its last measured period (high
// plus low pulse time) as a little-endian 32-bit unsigned integer of
// microseconds. A zero period means no pulse arrived before the pulseIn
// timeout, i.e. the roller is stopped.
package reading

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// FrameSize is the width of one period on the wire.
const FrameSize = 4

var ErrShortFrame = errors.New("reading: truncated frame")

type Decoder struct {
	r   io.Reader
	buf [FrameSize]byte
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Next returns the next period. It returns io.EOF at a clean end of
// input and ErrShortFrame if the input stops mid-frame.
func (d *Decoder) Next() (uint32, error) {
	n, err := io.ReadFull(d.r, d.buf[:])
	switch {
	case err == io.EOF:
		return 0, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		return 0, fmt.Errorf("%w: got %d of %d bytes", ErrShortFrame, n, FrameSize)
	case err != nil:
		return 0, err
	}
	return binary.LittleEndian.Uint32(d.buf[:]), nil
}

// DecodeAll reads periods until the end of r.
func DecodeAll(r io.Reader) ([]uint32, error) {
	d := NewDecoder(r)
	out := make([]uint32, 0, 64)
	for {
		v, err := d.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

// Encode writes periods in the firmware wire format.
func Encode(w io.Writer, micros []uint32) error {
	var buf [FrameSize]byte
	for _, m := range micros {
		binary.LittleEndian.PutUint32(buf[:], m)
		if _, err := w.Write(buf[:]); err != nil {
			return err
		}
	}
	return nil
}

// ParseText reads one decimal period per line, as copied from the serial
// monitor. Blank lines and lines starting with '#' are skipped.
func ParseText(r io.Reader) ([]uint32, error) {
	sc := bufio.NewScanner(r)
	out := make([]uint32, 0, 64)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		v, err := strconv.ParseUint(text, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("reading: line %d: %w", line, err)
		}
		out = append(out, uint32(v))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
