package reading

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestDecodeLittleEndian(t *testing.T) {
	// 1_000_000 = 0x000F4240
	data := []byte{0x40, 0x42, 0x0F, 0x00, 0x00, 0x00, 0x00, 0x00}

	got, err := DecodeAll(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != 1_000_000 || got[1] != 0 {
		t.Errorf("expected [1000000 0], got %v", got)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := []uint32{25_000, 0, 1_000_000, 4294967295}

	var buf bytes.Buffer
	if err := Encode(&buf, in); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != len(in)*FrameSize {
		t.Fatalf("expected %d bytes, got %d", len(in)*FrameSize, buf.Len())
	}

	out, err := DecodeAll(&buf)
	if err != nil {
		t.Fatal(err)
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("frame %d: expected %d, got %d", i, in[i], out[i])
		}
	}
}

func TestDecodeShortFrame(t *testing.T) {
	d := NewDecoder(bytes.NewReader([]byte{1, 0, 0, 0, 7, 7}))

	v, err := d.Next()
	if err != nil || v != 1 {
		t.Fatalf("expected 1, got %d (%v)", v, err)
	}

	_, err = d.Next()
	if !errors.Is(err, ErrShortFrame) {
		t.Errorf("expected ErrShortFrame, got %v", err)
	}

	if _, err := DecodeAll(bytes.NewReader([]byte{1, 2})); !errors.Is(err, ErrShortFrame) {
		t.Errorf("expected ErrShortFrame from DecodeAll, got %v", err)
	}
}

func TestDecodeEmpty(t *testing.T) {
	d := NewDecoder(bytes.NewReader(nil))
	if _, err := d.Next(); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestParseText(t *testing.T) {
	input := "# session 1\n25000\n\n  30000  \n0\n"
	got, err := ParseText(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	want := []uint32{25000, 30000, 0}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: expected %d, got %d", i, want[i], got[i])
		}
	}

	if _, err := ParseText(strings.NewReader("12\nabc\n")); err == nil {
		t.Error("expected parse error")
	} else if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("expected line number in error, got %v", err)
	}
}
