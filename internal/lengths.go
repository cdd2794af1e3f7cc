package internal

// Variable-length payloads carry a 4-byte little-endian length that counts
// the payload bytes after the length field itself.

const (
	LenSize   = 4
	CountSize = 4
	HashSize  = 8
	CodeSize  = 1
	MaxLen    = 1<<32 - 1
)

// CheckLen reports whether n fits the uint32 length field.
func CheckLen(n int) error {
	if n < 0 || uint64(n) > MaxLen {
		return Errorf(ErrInvalidLength, 0, "length %d out of range", n)
	}
	return nil
}

// VarSize is the encoded size of a variable-length value with a payload of
// n bytes: tag, length field, payload.
func VarSize(n int) int { return CodeSize + LenSize + n }

// FixedSize is the encoded size of a fixed-length value with code c.
func FixedSize(c TypeCode) int { return CodeSize + c.Length() }
