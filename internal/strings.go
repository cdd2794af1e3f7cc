package internal

import "unicode/utf16"

// Strings travel as UTF-16 little-endian code units; the length field
// counts bytes, so it is always even.

// UTF16Len returns the number of code units s encodes to.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// PutUTF16 writes s as UTF-16LE code units.
func PutUTF16(w *Writer, s string) error {
	for _, u := range utf16.Encode([]rune(s)) {
		if err := w.WriteUint16(u); err != nil {
			return err
		}
	}
	return nil
}

// GetUTF16 reads n bytes of UTF-16LE and returns the decoded string.
// Unpaired surrogates decode to U+FFFD.
func GetUTF16(r *Reader, n int) (string, error) {
	if n%2 != 0 {
		return "", Errorf(ErrBadDataLength, r.Offset(), "odd string byte length %d", n)
	}
	b, err := r.ReadBytes(n)
	if err != nil {
		return "", err
	}
	units := make([]uint16, n/2)
	for i := range units {
		units[i] = le.Uint16(b[2*i:])
	}
	return string(utf16.Decode(units)), nil
}
