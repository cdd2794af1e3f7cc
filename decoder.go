package tagwire

import (
	"encoding/binary"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/dadrian/tagwire/internal"
)

// DefaultMaxFrame bounds the payload length a Decoder accepts for one value.
const DefaultMaxFrame = 64 << 20

// Decoder reads a stream of encoded values from an io.Reader. Each value is
// framed with the skip rule before it is decoded.
type Decoder struct {
	r        io.Reader
	s        *Serializer
	offset   int64
	maxFrame int
}

// NewDecoder returns a Decoder that uses the default Serializer.
func NewDecoder(r io.Reader) *Decoder { return defaultSerializer().NewDecoder(r) }

func (s *Serializer) NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r, s: s, maxFrame: DefaultMaxFrame}
}

// SetMaxFrame changes the largest payload length accepted.
func (d *Decoder) SetMaxFrame(n int) { d.maxFrame = n }

// Offset returns the number of bytes consumed so far.
func (d *Decoder) Offset() int64 { return d.offset }

// Decode reads the next value into ptr. It returns io.EOF when the stream
// ends cleanly between values.
func (d *Decoder) Decode(ptr any) error {
	frame, err := d.Next()
	if err != nil {
		return err
	}
	return d.s.Unmarshal(frame, ptr)
}

// Next returns the raw bytes of the next value without decoding them.
func (d *Decoder) Next() ([]byte, error) {
	var head [1 + internal.LenSize]byte
	if _, err := io.ReadFull(d.r, head[:1]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, errors.WithStack(err)
	}
	c := TypeCode(head[0])
	if !c.Valid() {
		return nil, internal.Errorf(ErrUnknownTypeCode, int(d.offset), "tag %#02x", head[0])
	}
	var frame []byte
	if c.Fixed() {
		frame = make([]byte, 1+c.Length())
		frame[0] = head[0]
		if err := d.fill(frame[1:]); err != nil {
			return nil, err
		}
	} else {
		if err := d.fill(head[1:]); err != nil {
			return nil, err
		}
		n := binary.LittleEndian.Uint32(head[1:])
		if uint64(n) > uint64(d.maxFrame) {
			return nil, internal.Errorf(ErrInvalidLength, int(d.offset), "%v payload of %d bytes exceeds limit %d", c, n, d.maxFrame)
		}
		frame = make([]byte, len(head)+int(n))
		copy(frame, head[:])
		if err := d.fill(frame[len(head):]); err != nil {
			return nil, err
		}
	}
	d.offset += int64(len(frame))
	return frame, nil
}

func (d *Decoder) fill(p []byte) error {
	if _, err := io.ReadFull(d.r, p); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return internal.Errorf(ErrUnexpectedEOF, int(d.offset), "stream ended inside a value")
		}
		return errors.WithStack(err)
	}
	return nil
}
