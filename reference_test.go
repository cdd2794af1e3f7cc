package tagwire

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dadrian/tagwire/decimal"
	"github.com/dadrian/tagwire/fieldhash"
)

// assertRoundtrip decodes b as a T and re-encodes expected. Both must
// succeed and match.
func assertRoundtrip[T any](t *testing.T, expected T, b []byte) {
	t.Helper()
	s := New()

	got, err := Deserialize[T](s, b)
	require.NoError(t, err, "decode")
	assert.Equal(t, expected, got, "decoded value")

	enc, err := Serialize(s, expected)
	require.NoError(t, err, "encode")
	assert.Equal(t, b, enc, "encoded bytes")

	n, err := Size(s, expected)
	require.NoError(t, err)
	assert.Equal(t, len(b), n, "measured size")
}

func ptr[T any](v T) *T { return &v }

func hashOf(t *testing.T, name string) uint64 {
	t.Helper()
	h, err := fieldhash.Hash(name)
	require.NoError(t, err)
	return h
}

func le64(v uint64) []byte { return binary.LittleEndian.AppendUint64(nil, v) }

type Color int

const (
	Red Color = iota
	Green
	Blue
)

func (Color) EnumMembers() []EnumMember {
	return []EnumMember{{"Red", int64(Red)}, {"Green", int64(Green)}, {"Blue", int64(Blue)}}
}

func TestSimpleRecord(t *testing.T) {
	type Simple struct {
		Value uint32
	}
	assertRoundtrip(t, Simple{Value: 42}, []byte{
		0x01, 0x0d, 0x00, 0x00, 0x00, 0x95, 0x12, 0x3d, 0x3b, 0x00, 0xc6, 0x51,
		0x48, 0x08, 0x2a, 0x00, 0x00, 0x00,
	})
}

func TestMultipleFields(t *testing.T) {
	type MultiField struct {
		A    uint32
		Name string
		Id   bool
	}
	assertRoundtrip(t, MultiField{A: 42, Name: "hi", Id: true}, []byte{
		0x01, 0x28, 0x00, 0x00, 0x00, 0x5a, 0xc9, 0x39, 0xc3, 0x6a, 0x8b, 0x60,
		0x88, 0x08, 0x2a, 0x00, 0x00, 0x00, 0x1a, 0x4b, 0x52, 0x97, 0x62, 0x89,
		0xc9, 0x81, 0x0e, 0x04, 0x00, 0x00, 0x00, 0x68, 0x00, 0x69, 0x00, 0x98,
		0x0a, 0x63, 0x4e, 0x44, 0x35, 0x91, 0x47, 0x11, 0x01,
	})
}

func TestNullFieldsAreOmitted(t *testing.T) {
	type WithOption struct {
		A    uint32
		Name *string
	}
	assertRoundtrip(t, WithOption{A: 10, Name: ptr("hi")}, []byte{
		0x01, 0x1e, 0x00, 0x00, 0x00, 0x5a, 0xc9, 0x39, 0xc3, 0x6a, 0x8b, 0x60,
		0x88, 0x08, 0x0a, 0x00, 0x00, 0x00, 0x1a, 0x4b, 0x52, 0x97, 0x62, 0x89,
		0xc9, 0x81, 0x0e, 0x04, 0x00, 0x00, 0x00, 0x68, 0x00, 0x69, 0x00,
	})
	assertRoundtrip(t, WithOption{A: 10}, []byte{
		0x01, 0x0d, 0x00, 0x00, 0x00, 0x5a, 0xc9, 0x39, 0xc3, 0x6a, 0x8b, 0x60,
		0x88, 0x08, 0x0a, 0x00, 0x00, 0x00,
	})
}

func TestFieldTags(t *testing.T) {
	type Renamed struct {
		X int32 `tagwire:"Id"`
	}
	assertRoundtrip(t, Renamed{X: 7}, []byte{
		0x01, 0x0d, 0x00, 0x00, 0x00, 0x98, 0x0a, 0x63, 0x4e, 0x44, 0x35, 0x91,
		0x47, 0x07, 0x07, 0x00, 0x00, 0x00,
	})

	type Pinned struct {
		X int32 `tagwire:",id=0x10"`
	}
	assertRoundtrip(t, Pinned{X: 7}, []byte{
		0x01, 0x0d, 0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x07, 0x07, 0x00, 0x00, 0x00,
	})

	type WithSkip struct {
		Value   uint32
		Skipped string `tagwire:"-"`
		hidden  int
	}
	assertRoundtrip(t, WithSkip{Value: 42}, []byte{
		0x01, 0x0d, 0x00, 0x00, 0x00, 0x95, 0x12, 0x3d, 0x3b, 0x00, 0xc6, 0x51,
		0x48, 0x08, 0x2a, 0x00, 0x00, 0x00,
	})
}

func TestSkipFieldPreservesExisting(t *testing.T) {
	type WithSkip struct {
		Value   uint32
		Skipped string `tagwire:"-"`
	}
	v := WithSkip{Skipped: "preserve me"}
	data := []byte{
		0x01, 0x0d, 0x00, 0x00, 0x00, 0x95, 0x12, 0x3d, 0x3b, 0x00, 0xc6, 0x51,
		0x48, 0x08, 0x2a, 0x00, 0x00, 0x00,
	}
	require.NoError(t, Unmarshal(data, &v))
	assert.Equal(t, uint32(42), v.Value)
	assert.Equal(t, "preserve me", v.Skipped)
}

func TestEmptyRecord(t *testing.T) {
	type Empty struct{}
	assertRoundtrip(t, Empty{}, []byte{0x01, 0x00, 0x00, 0x00, 0x00})
}

func TestStrings(t *testing.T) {
	assertRoundtrip(t, "Größe", []byte{
		0x0e, 0x0a, 0x00, 0x00, 0x00, 0x47, 0x00, 0x72, 0x00, 0xf6, 0x00, 0xdf,
		0x00, 0x65, 0x00,
	})
	// Outside the BMP: one surrogate pair.
	assertRoundtrip(t, "😀", []byte{0x0e, 0x04, 0x00, 0x00, 0x00, 0x3d, 0xd8, 0x00, 0xde})
}

func TestSequences(t *testing.T) {
	assertRoundtrip(t, []int32{1, -1}, []byte{
		0x17, 0x08, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0xff, 0xff, 0xff,
		0xff,
	})
	assertRoundtrip(t, []bool{true, false, true}, []byte{0x1d, 0x03, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01})
	assertRoundtrip(t, []string{"a"}, []byte{
		0x02, 0x0b, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x0e, 0x02, 0x00,
		0x00, 0x00, 0x61, 0x00,
	})
	assertRoundtrip(t, map[string]int32{"k": 1}, []byte{
		0x1e, 0x10, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x0e, 0x02, 0x00,
		0x00, 0x00, 0x6b, 0x00, 0x07, 0x01, 0x00, 0x00, 0x00,
	})
	assertRoundtrip(t, []byte(nil), []byte{0x00})
	assertRoundtrip(t, [2]uint8{1, 2}, []byte{0x14, 0x02, 0x00, 0x00, 0x00, 0x01, 0x02})
}

func TestEnumVector(t *testing.T) {
	assertRoundtrip(t, Green, []byte{0x10, 0x69, 0xd9, 0x10, 0x59, 0x9b, 0xab, 0x0f, 0x0e})
	assertRoundtrip(t, Red, []byte{0x10, 0x7e, 0x8f, 0x38, 0x8b, 0xaa, 0xb8, 0x92, 0x71})
	// A value that is not a member is written as Empty.
	data, err := Marshal(Color(42))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00}, data)
}

func TestTupleVector(t *testing.T) {
	assertRoundtrip(t, MakeTuple2(int32(1), "x"), []byte{
		0x22, 0x0c, 0x00, 0x00, 0x00, 0x07, 0x01, 0x00, 0x00, 0x00, 0x0e, 0x02,
		0x00, 0x00, 0x00, 0x78, 0x00,
	})
}

func TestGuidVector(t *testing.T) {
	id := uuid.MustParse("00112233-4455-6677-8899-aabbccddeeff")
	assertRoundtrip(t, id, []byte{
		0x0f,
		0xff, 0xee, 0xdd, 0xcc, 0xbb, 0xaa, 0x99, 0x88,
		0x77, 0x66, 0x55, 0x44, 0x33, 0x22, 0x11, 0x00,
	})
}

func TestDecimalVector(t *testing.T) {
	assertRoundtrip(t, decimal.MustParse("1234.5678"), []byte{
		0x0d,
		0x00, 0x00, 0x04, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x4e, 0x61, 0xbc, 0x00,
		0x00, 0x00, 0x00, 0x00,
	})
}

func TestDateTimeVectors(t *testing.T) {
	s := New()
	cases := []struct {
		name   string
		data   []byte
		millis int64
	}{
		{"utc", []byte{0x1f, 0x00, 0x00, 0x7c, 0x8b, 0x4d, 0x8e, 0xd7, 0x48}, 1577836800000},
		{"local", []byte{0x1f, 0x00, 0x00, 0x7c, 0x8b, 0x4d, 0x8e, 0xd7, 0x88}, 1577836800000},
		{"legacy local", []byte{0x1f, 0x00, 0x98, 0x3b, 0x9e, 0xf7, 0xff, 0xff, 0xbf}, -62135600400000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Deserialize[time.Time](s, tc.data)
			require.NoError(t, err)
			assert.Equal(t, tc.millis, got.UnixMilli())
			assert.Equal(t, time.UTC, got.Location())
			ticks := DecodeDateTime(binary.LittleEndian.Uint64(tc.data[1:]))
			assert.Equal(t, tc.millis, UnixMilliFromTicks(ticks))
		})
	}

	data, err := s.Marshal(time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, cases[0].data, data)
}
