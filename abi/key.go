package abi

// FNV-1a 64-bit parameters
const (
	fnvOffset64 uint64 = 0xcbf29ce484222325
	fnvPrime64  uint64 = 0x100000001b3
)

// Key addresses a keyed resource. String keys passed by the guest are
// normalized with HashKey so u64-keyed calls reach the same entry.
type Key uint64

// HashKey returns the FNV-1a 64 hash of a resource key string
func HashKey(s string) Key {
	h := fnvOffset64
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= fnvPrime64
	}
	return Key(h)
}

// HashKeyBytes is HashKey over raw guest bytes
func HashKeyBytes(b []byte) Key {
	h := fnvOffset64
	for _, c := range b {
		h ^= uint64(c)
		h *= fnvPrime64
	}
	return Key(h)
}

// BuiltinFontKey is the reserved font key of the built-in font
const BuiltinFontKey = "spleen"

// PackU64 packs two 32-bit values as (hi<<32)|lo
func PackU64(hi, lo uint32) uint64 {
	return uint64(hi)<<32 | uint64(lo)
}

// Bool converts a Go bool to an i32 ABI boolean
func Bool(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
