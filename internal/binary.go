package internal

import (
	"encoding/binary"
	"math"
)

var le = binary.LittleEndian

// Writer is a bounds-checked cursor over a buffer sized in advance by the
// size pass. Writing past the end fails with ErrBufferOverflow.
type Writer struct {
	buf []byte
	off int
}

func NewWriter(buf []byte) *Writer { return &Writer{buf: buf} }

// Bytes returns the written prefix of the buffer.
func (w *Writer) Bytes() []byte { return w.buf[:w.off] }

func (w *Writer) Offset() int { return w.off }

// Available returns the unwritten capacity.
func (w *Writer) Available() int { return len(w.buf) - w.off }

func (w *Writer) grab(n int) ([]byte, error) {
	if n < 0 || w.off+n > len(w.buf) {
		return nil, Errorf(ErrBufferOverflow, w.off, "need %d bytes, have %d", n, len(w.buf)-w.off)
	}
	b := w.buf[w.off : w.off+n]
	w.off += n
	return b, nil
}

func (w *Writer) WriteCode(c TypeCode) error { return w.WriteUint8(byte(c)) }

func (w *Writer) WriteUint8(v uint8) error {
	b, err := w.grab(1)
	if err != nil {
		return err
	}
	b[0] = v
	return nil
}

func (w *Writer) WriteUint16(v uint16) error {
	b, err := w.grab(2)
	if err != nil {
		return err
	}
	le.PutUint16(b, v)
	return nil
}

func (w *Writer) WriteUint32(v uint32) error {
	b, err := w.grab(4)
	if err != nil {
		return err
	}
	le.PutUint32(b, v)
	return nil
}

func (w *Writer) WriteUint64(v uint64) error {
	b, err := w.grab(8)
	if err != nil {
		return err
	}
	le.PutUint64(b, v)
	return nil
}

func (w *Writer) WriteFloat32(v float32) error { return w.WriteUint32(math.Float32bits(v)) }
func (w *Writer) WriteFloat64(v float64) error { return w.WriteUint64(math.Float64bits(v)) }

func (w *Writer) WriteBytes(p []byte) error {
	b, err := w.grab(len(p))
	if err != nil {
		return err
	}
	copy(b, p)
	return nil
}

// Reserve skips n bytes and returns their offset so the caller can patch
// them once the payload length is known.
func (w *Writer) Reserve(n int) (int, error) {
	at := w.off
	if _, err := w.grab(n); err != nil {
		return 0, err
	}
	return at, nil
}

// PatchUint32 overwrites four previously reserved bytes.
func (w *Writer) PatchUint32(at int, v uint32) error {
	if at < 0 || at+4 > w.off {
		return Errorf(ErrBufferOverflow, at, "patch outside written region")
	}
	le.PutUint32(w.buf[at:], v)
	return nil
}

// BeginLen reserves a length prefix; EndLen fills it with the number of
// bytes written since.
func (w *Writer) BeginLen() (int, error) { return w.Reserve(LenSize) }

func (w *Writer) EndLen(at int) error {
	n := w.off - at - LenSize
	if err := CheckLen(n); err != nil {
		return err
	}
	return w.PatchUint32(at, uint32(n))
}

// Reader is a bounds-checked cursor over an encoded buffer.
type Reader struct {
	buf []byte
	off int
	// skipped is one past the offset of the tag most recently skipped by
	// SkipPayload, or 0.
	skipped int
}

func NewReader(buf []byte) *Reader { return &Reader{buf: buf} }

func (r *Reader) Offset() int { return r.off }

// Len returns the number of unread bytes.
func (r *Reader) Len() int { return len(r.buf) - r.off }

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || n > len(r.buf)-r.off {
		return nil, Errorf(ErrUnexpectedEOF, r.off, "need %d bytes, have %d", n, len(r.buf)-r.off)
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

// PeekCode returns the next tag without consuming it.
func (r *Reader) PeekCode() (TypeCode, error) {
	if r.off >= len(r.buf) {
		return 0, Errorf(ErrUnexpectedEOF, r.off, "missing type code")
	}
	c := TypeCode(r.buf[r.off])
	if !c.Valid() {
		return c, Errorf(ErrUnknownTypeCode, r.off, "type code %d", byte(c))
	}
	return c, nil
}

// ReadCode consumes and validates the next tag.
func (r *Reader) ReadCode() (TypeCode, error) {
	c, err := r.PeekCode()
	if err != nil {
		return c, err
	}
	r.off++
	return c, nil
}

func (r *Reader) ReadUint8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) ReadUint16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return le.Uint16(b), nil
}

func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return le.Uint32(b), nil
}

func (r *Reader) ReadUint64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return le.Uint64(b), nil
}

func (r *Reader) ReadFloat32() (float32, error) {
	u, err := r.ReadUint32()
	return math.Float32frombits(u), err
}

func (r *Reader) ReadFloat64() (float64, error) {
	u, err := r.ReadUint64()
	return math.Float64frombits(u), err
}

// ReadBytes returns a view of the next n bytes; the slice aliases the input.
func (r *Reader) ReadBytes(n int) ([]byte, error) { return r.take(n) }

func (r *Reader) Skip(n int) error {
	_, err := r.take(n)
	return err
}

// ReadLen reads a uint32 length prefix and checks it against the remaining
// input.
func (r *Reader) ReadLen() (int, error) {
	at := r.off
	u, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	if uint64(u) > uint64(r.Len()) {
		return 0, Errorf(ErrUnexpectedEOF, at, "length %d exceeds remaining %d", u, r.Len())
	}
	return int(u), nil
}

// ReadCount reads an element count and rejects counts that cannot fit in
// the remaining bytes, given at least minElem bytes per element.
func (r *Reader) ReadCount(minElem int) (int, error) {
	at := r.off
	u, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	if minElem < 1 {
		minElem = 1
	}
	if uint64(u)*uint64(minElem) > uint64(r.Len()) {
		return 0, Errorf(ErrInvalidLength, at, "count %d exceeds remaining %d bytes", u, r.Len())
	}
	return int(u), nil
}

// SkipPayload skips the payload of a value whose tag was already consumed.
func (r *Reader) SkipPayload(c TypeCode) error {
	r.skipped = r.off
	if n := c.Length(); n >= 0 {
		return r.Skip(n)
	}
	n, err := r.ReadLen()
	if err != nil {
		return err
	}
	return r.Skip(n)
}

// Skipped reports whether the value whose tag starts at offset at was
// skipped instead of decoded.
func (r *Reader) Skipped(at int) bool { return r.skipped == at+1 }

// SkipValue consumes one complete value using only the tag table.
func (r *Reader) SkipValue() error {
	c, err := r.ReadCode()
	if err != nil {
		return err
	}
	return r.SkipPayload(c)
}

// Expect fails with ErrBadDataLength unless the cursor sits exactly at end.
func (r *Reader) Expect(end int) error {
	if r.off != end {
		return Errorf(ErrBadDataLength, r.off, "payload ended at %d, declared end %d", r.off, end)
	}
	return nil
}
