package wasm_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/wippyai/wasm96/wasm"
)

func TestLEB128Unsigned(t *testing.T) {
	tests := []struct {
		encoded []byte
		value   uint32
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x7f}, 127},
		{[]byte{0x80, 0x01}, 128},
		{[]byte{0xff, 0x01}, 255},
		{[]byte{0x80, 0x80, 0x01}, 16384},
		{[]byte{0xe5, 0x8e, 0x26}, 624485},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0x0f}, 0xFFFFFFFF},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			enc := wasm.AppendLEB128u(nil, uint64(tt.value))
			if !bytes.Equal(enc, tt.encoded) {
				t.Errorf("encode %d: got %v, want %v", tt.value, enc, tt.encoded)
			}

			got, err := wasm.ReadLEB128u(bytes.NewReader(tt.encoded))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got != tt.value {
				t.Errorf("decode: got %d, want %d", got, tt.value)
			}
		})
	}
}

func TestLEB128Signed(t *testing.T) {
	tests := []struct {
		encoded []byte
		value   int64
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x7f}, -1},
		{[]byte{0x3f}, 63},
		{[]byte{0xc0, 0x00}, 64},
		{[]byte{0x40}, -64},
		{[]byte{0x80, 0x7f}, -128},
	}

	for _, tt := range tests {
		enc := wasm.AppendLEB128s(nil, tt.value)
		if !bytes.Equal(enc, tt.encoded) {
			t.Errorf("encode %d: got %v, want %v", tt.value, enc, tt.encoded)
		}
	}
}

func TestLEB128Overflow(t *testing.T) {
	_, err := wasm.ReadLEB128u(bytes.NewReader([]byte{0xff, 0xff, 0xff, 0xff, 0x7f}))
	if !errors.Is(err, wasm.ErrOverflow) {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
}
