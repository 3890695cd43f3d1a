package security

import (
	"bytes"
	"testing"
)

func TestConstantTimeEqual_Equal(t *testing.T) {
	testCases := [][]byte{
		nil,
		{},
		[]byte("a"),
		[]byte("abcdefgh"),
		bytes.Repeat([]byte{0xff}, 64),
	}
	for _, a := range testCases {
		if !ConstantTimeEqual(a, a) {
			t.Errorf("ConstantTimeEqual(%v, same) = false, want true", a)
		}
		b := append([]byte(nil), a...)
		if !ConstantTimeEqual(a, b) {
			t.Errorf("ConstantTimeEqual(%v, copy) = false, want true", a)
		}
	}
}

func TestConstantTimeEqual_LengthMismatch(t *testing.T) {
	if ConstantTimeEqual([]byte("abc"), []byte("abcd")) {
		t.Error("different lengths should compare false")
	}
	if ConstantTimeEqual([]byte("abc"), nil) {
		t.Error("non-empty vs nil should compare false")
	}
}

func TestConstantTimeEqual_Mismatch(t *testing.T) {
	// Full mismatch and a single-bit difference go through the identical code
	// path: every byte pair is XORed and folded into the accumulator.
	a := bytes.Repeat([]byte{0x00}, 32)
	full := bytes.Repeat([]byte{0xff}, 32)
	oneBit := append([]byte(nil), a...)
	oneBit[31] ^= 0x01

	if ConstantTimeEqual(a, full) {
		t.Error("fully mismatched buffers should compare false")
	}
	if ConstantTimeEqual(a, oneBit) {
		t.Error("one-bit difference should compare false")
	}
}

func TestConstantTimeEqual_FirstByteDiffers(t *testing.T) {
	a := []byte("0123456789abcdef")
	b := append([]byte(nil), a...)
	b[0] ^= 0x80
	if ConstantTimeEqual(a, b) {
		t.Error("first-byte difference should compare false")
	}
}
