package tagwire

import (
	"encoding/binary"
	"reflect"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/dadrian/tagwire/decimal"
	"github.com/dadrian/tagwire/internal"
)

// decimalUnit writes the four 32-bit words of a decimal.Decimal: flags, hi,
// lo, mid. It also reads any numeric or boolean scalar.
type decimalUnit struct{}

func (decimalUnit) Size(reflect.Value) int { return internal.FixedSize(TypeDecimal) }

func (decimalUnit) Write(w *Writer, v reflect.Value) error {
	flags, hi, lo, mid := v.Interface().(decimal.Decimal).Parts()
	if err := w.WriteCode(TypeDecimal); err != nil {
		return err
	}
	for _, word := range [...]uint32{flags, hi, lo, mid} {
		if err := w.WriteUint32(word); err != nil {
			return err
		}
	}
	return nil
}

func (decimalUnit) Read(r *Reader, v reflect.Value) error {
	c, err := r.ReadCode()
	if err != nil {
		return err
	}
	switch {
	case c == TypeDecimal:
		at := r.Offset()
		var words [4]uint32
		for i := range words {
			if words[i], err = r.ReadUint32(); err != nil {
				return err
			}
		}
		d, err := decimal.FromParts(words[0], words[1], words[2], words[3])
		if err != nil {
			var e *internal.Error
			if errors.As(err, &e) {
				e.Offset = at
			}
			return err
		}
		v.Set(reflect.ValueOf(d))
		return nil
	case c == TypeEmpty:
		v.SetZero()
		return nil
	case c.IsScalar():
		at := r.Offset()
		val, err := internal.ReadScalar(r, c)
		if err != nil {
			return err
		}
		d, err := widenDecimal(val)
		if err != nil {
			return internal.Errorf(ErrInvalidValue, at, "%v", err)
		}
		v.Set(reflect.ValueOf(d))
		return nil
	}
	return r.SkipPayload(c)
}

func widenDecimal(val any) (decimal.Decimal, error) {
	switch x := val.(type) {
	case bool:
		if x {
			return decimal.One, nil
		}
		return decimal.Zero, nil
	case float32:
		return decimal.FromFloat64(float64(x))
	case float64:
		return decimal.FromFloat64(x)
	}
	rv := reflect.ValueOf(val)
	if rv.CanInt() {
		return decimal.FromInt64(rv.Int()), nil
	}
	return decimal.FromUint64(rv.Uint()), nil
}

// timeUnit writes time.Time as DateTime ticks.
type timeUnit struct{}

func (timeUnit) Size(reflect.Value) int { return internal.FixedSize(TypeDateTime) }

func (timeUnit) Write(w *Writer, v reflect.Value) error {
	if err := w.WriteCode(TypeDateTime); err != nil {
		return err
	}
	return w.WriteUint64(EncodeDateTime(v.Interface().(time.Time)))
}

func (timeUnit) Read(r *Reader, v reflect.Value) error {
	ok, err := begin(r, v, TypeDateTime)
	if !ok || err != nil {
		return err
	}
	raw, err := r.ReadUint64()
	if err != nil {
		return err
	}
	v.Set(reflect.ValueOf(TimeFromTicks(DecodeDateTime(raw))))
	return nil
}

// guidUnit writes uuid.UUID as its low then high 64 bits, each little
// endian. The UUID's bytes are the big-endian high and low halves.
type guidUnit struct{}

func (guidUnit) Size(reflect.Value) int { return internal.FixedSize(TypeGuid) }

func (guidUnit) Write(w *Writer, v reflect.Value) error {
	id := v.Interface().(uuid.UUID)
	if err := w.WriteCode(TypeGuid); err != nil {
		return err
	}
	if err := w.WriteUint64(binary.BigEndian.Uint64(id[8:])); err != nil {
		return err
	}
	return w.WriteUint64(binary.BigEndian.Uint64(id[:8]))
}

func (guidUnit) Read(r *Reader, v reflect.Value) error {
	ok, err := begin(r, v, TypeGuid)
	if !ok || err != nil {
		return err
	}
	lo, err := r.ReadUint64()
	if err != nil {
		return err
	}
	hi, err := r.ReadUint64()
	if err != nil {
		return err
	}
	var id uuid.UUID
	binary.BigEndian.PutUint64(id[:8], hi)
	binary.BigEndian.PutUint64(id[8:], lo)
	v.Set(reflect.ValueOf(id))
	return nil
}

// convertUnit serves a named type defined from an interop type through
// the interop type's own unit.
type convertUnit struct {
	t    reflect.Type
	base Unit
	to   reflect.Type
}

func (u *convertUnit) wire(deps []Unit) error {
	u.base = deps[0]
	return nil
}

func (u *convertUnit) Size(v reflect.Value) int { return u.base.Size(v.Convert(u.to)) }

func (u *convertUnit) Write(w *Writer, v reflect.Value) error {
	return u.base.Write(w, v.Convert(u.to))
}

func (u *convertUnit) Read(r *Reader, v reflect.Value) error {
	tmp := reflect.New(u.to).Elem()
	tmp.Set(v.Convert(u.to))
	if err := u.base.Read(r, tmp); err != nil {
		return err
	}
	v.Set(tmp.Convert(u.t))
	return nil
}
