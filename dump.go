package tagwire

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/dadrian/tagwire/decimal"
	"github.com/dadrian/tagwire/internal"
)

// Dumper prints the structure of an encoding without knowing the types
// that produced it.
type Dumper struct {
	// Names labels field and enum hashes, typically built with
	// fieldhash.Hash over candidate names.
	Names map[uint64]string
	// MaxElems limits the elements printed per packed array; 0 means 16.
	MaxElems int
}

// Dump prints every value in data to w, one line per value.
func Dump(w io.Writer, data []byte) error { return Dumper{}.Dump(w, data) }

func (d Dumper) Dump(w io.Writer, data []byte) error {
	p := &dumpState{Dumper: d, w: w, r: internal.NewReader(data)}
	if p.MaxElems <= 0 {
		p.MaxElems = 16
	}
	for p.r.Len() > 0 {
		if err := p.value(0, ""); err != nil {
			return err
		}
	}
	return p.err
}

type dumpState struct {
	Dumper
	w   io.Writer
	r   *internal.Reader
	err error
}

func (p *dumpState) line(depth int, label, format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s%s%s\n", strings.Repeat("  ", depth), label, fmt.Sprintf(format, args...))
}

func (p *dumpState) hashLabel(h uint64) string {
	if name, ok := p.Names[h]; ok {
		return fmt.Sprintf("%#016x (%s)", h, name)
	}
	return fmt.Sprintf("%#016x", h)
}

func (p *dumpState) value(depth int, label string) error {
	c, err := p.r.ReadCode()
	if err != nil {
		return err
	}
	if c.IsScalar() {
		v, err := internal.ReadScalar(p.r, c)
		if err != nil {
			return err
		}
		p.line(depth, label, "%v %v", c, v)
		return nil
	}
	switch c {
	case TypeEmpty:
		p.line(depth, label, "Empty")
		return nil
	case TypeEnum:
		h, err := p.r.ReadUint64()
		if err != nil {
			return err
		}
		p.line(depth, label, "Enum %s", p.hashLabel(h))
		return nil
	case TypeDecimal:
		var words [4]uint32
		for i := range words {
			if words[i], err = p.r.ReadUint32(); err != nil {
				return err
			}
		}
		d, err := decimal.FromParts(words[0], words[1], words[2], words[3])
		if err != nil {
			return err
		}
		p.line(depth, label, "Decimal %s", d)
		return nil
	case TypeGuid:
		lo, err := p.r.ReadUint64()
		if err != nil {
			return err
		}
		hi, err := p.r.ReadUint64()
		if err != nil {
			return err
		}
		var id uuid.UUID
		for i := 0; i < 8; i++ {
			id[7-i] = byte(hi >> (8 * i))
			id[15-i] = byte(lo >> (8 * i))
		}
		p.line(depth, label, "Guid %s", id)
		return nil
	case TypeDateTime:
		raw, err := p.r.ReadUint64()
		if err != nil {
			return err
		}
		p.line(depth, label, "DateTime %s", TimeFromTicks(DecodeDateTime(raw)).Format("2006-01-02T15:04:05.0000000Z07:00"))
		return nil
	}

	n, err := p.r.ReadLen()
	if err != nil {
		return err
	}
	end := p.r.Offset() + n
	switch c {
	case TypeString:
		s, err := internal.GetUTF16(p.r, n)
		if err != nil {
			return err
		}
		p.line(depth, label, "String %q", s)
	case TypeObject:
		p.line(depth, label, "Object len=%d", n)
		for p.r.Offset() < end {
			h, err := p.r.ReadUint64()
			if err != nil {
				return err
			}
			if err := p.value(depth+1, p.hashLabel(h)+": "); err != nil {
				return err
			}
		}
	case TypeArray:
		count, err := p.r.ReadCount(1)
		if err != nil {
			return err
		}
		p.line(depth, label, "Array len=%d count=%d", n, count)
		for i := 0; i < count; i++ {
			if err := p.value(depth+1, fmt.Sprintf("[%d] ", i)); err != nil {
				return err
			}
		}
	case TypeDictionary:
		count, err := p.r.ReadCount(2)
		if err != nil {
			return err
		}
		p.line(depth, label, "Dictionary len=%d count=%d", n, count)
		for i := 0; i < count; i++ {
			if err := p.value(depth+1, fmt.Sprintf("key[%d] ", i)); err != nil {
				return err
			}
			if err := p.value(depth+1, fmt.Sprintf("val[%d] ", i)); err != nil {
				return err
			}
		}
	case TypeTuple:
		p.line(depth, label, "Tuple len=%d", n)
		for i := 1; p.r.Offset() < end; i++ {
			if err := p.value(depth+1, fmt.Sprintf("Item%d: ", i)); err != nil {
				return err
			}
		}
	case TypeCustomData:
		b, err := p.r.ReadBytes(n)
		if err != nil {
			return err
		}
		p.line(depth, label, "CustomData len=%d %s", n, hex.EncodeToString(b[:min(len(b), 4*p.MaxElems)]))
	default:
		elem, _ := internal.ElemOf(c)
		if err := p.packed(depth, label, c, elem, n); err != nil {
			return err
		}
	}
	return p.r.Expect(end)
}

func (p *dumpState) packed(depth int, label string, c, elem TypeCode, n int) error {
	width := elem.Length()
	if n%width != 0 {
		return internal.Errorf(ErrBadDataLength, p.r.Offset(), "%v payload of %d bytes", c, n)
	}
	count := n / width
	vals := make([]string, 0, min(count, p.MaxElems))
	for i := 0; i < count; i++ {
		if i >= p.MaxElems {
			if err := p.r.Skip((count - i) * width); err != nil {
				return err
			}
			vals = append(vals, "...")
			break
		}
		v, err := internal.ReadScalar(p.r, elem)
		if err != nil {
			return err
		}
		vals = append(vals, fmt.Sprint(v))
	}
	p.line(depth, label, "%v count=%d [%s]", c, count, strings.Join(vals, " "))
	return nil
}
