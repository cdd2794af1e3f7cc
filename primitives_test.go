package tagwire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeCodes(t *testing.T) {
	// Tag values are part of the wire contract.
	want := map[TypeCode]byte{
		TypeEmpty: 0, TypeObject: 1, TypeArray: 2,
		TypeInt8: 3, TypeUInt8: 4, TypeInt16: 5, TypeUInt16: 6,
		TypeInt32: 7, TypeUInt32: 8, TypeInt64: 9, TypeUInt64: 10,
		TypeSingle: 11, TypeDouble: 12, TypeDecimal: 13, TypeString: 14,
		TypeGuid: 15, TypeEnum: 16, TypeBoolean: 17,
		TypeInt8Array: 19, TypeUInt8Array: 20, TypeInt16Array: 21, TypeUInt16Array: 22,
		TypeInt32Array: 23, TypeUInt32Array: 24, TypeInt64Array: 25, TypeUInt64Array: 26,
		TypeSingleArray: 27, TypeDoubleArray: 28, TypeBooleanArray: 29,
		TypeDictionary: 30, TypeDateTime: 31, TypeTuple: 34, TypeCustomData: 35,
	}
	for c, b := range want {
		assert.Equal(t, b, byte(c), "%v", c)
		assert.True(t, c.Valid(), "%v", c)
	}
	for _, b := range []byte{18, 32, 33, 36, 0xFF} {
		assert.False(t, TypeCode(b).Valid(), "tag %d", b)
	}
}

func TestPrimitiveVectors(t *testing.T) {
	s := New()
	cases := []struct {
		in   any
		want []byte
	}{
		{true, []byte{0x11, 0x01}},
		{int8(-1), []byte{0x03, 0xFF}},
		{uint8(7), []byte{0x04, 0x07}},
		{int16(-2), []byte{0x05, 0xFE, 0xFF}},
		{uint16(0x1234), []byte{0x06, 0x34, 0x12}},
		{int32(42), []byte{0x07, 0x2A, 0x00, 0x00, 0x00}},
		{uint32(1), []byte{0x08, 0x01, 0x00, 0x00, 0x00}},
		{int64(-1), []byte{0x09, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}},
		{int(3), []byte{0x09, 0x03, 0, 0, 0, 0, 0, 0, 0}},
		{uint(3), []byte{0x0A, 0x03, 0, 0, 0, 0, 0, 0, 0}},
		{float32(1), []byte{0x0B, 0x00, 0x00, 0x80, 0x3F}},
		{float64(1), []byte{0x0C, 0, 0, 0, 0, 0, 0, 0xF0, 0x3F}},
		{"", []byte{0x0E, 0, 0, 0, 0}},
	}
	for _, tc := range cases {
		got, err := s.Marshal(tc.in)
		require.NoError(t, err, "%T", tc.in)
		assert.Equal(t, tc.want, got, "%T(%v)", tc.in, tc.in)
		n, err := s.Size(tc.in)
		require.NoError(t, err)
		assert.Equal(t, len(tc.want), n, "%T", tc.in)
	}
}

func TestEmptyDecodesToZero(t *testing.T) {
	s := New()
	empty := []byte{byte(TypeEmpty)}

	i, err := Deserialize[int32](s, empty)
	require.NoError(t, err)
	assert.Zero(t, i)

	f, err := Deserialize[float64](s, empty)
	require.NoError(t, err)
	assert.Zero(t, f)

	str, err := Deserialize[string](s, empty)
	require.NoError(t, err)
	assert.Empty(t, str)

	b := true
	require.NoError(t, s.Unmarshal(empty, &b))
	assert.False(t, b)
}

func TestMismatchedTagKeepsValue(t *testing.T) {
	s := New()
	data, err := s.Marshal("not a number")
	require.NoError(t, err)

	v := int32(99)
	require.NoError(t, s.Unmarshal(data, &v))
	assert.Equal(t, int32(99), v)
}

func TestBooleanNonZeroIsTrue(t *testing.T) {
	var b bool
	require.NoError(t, Unmarshal([]byte{0x11, 0x7F}, &b))
	assert.True(t, b)
}

func TestMismatchedTagKeepsPointer(t *testing.T) {
	s := New()
	data, err := s.Marshal(struct{ X string }{"hello"})
	require.NoError(t, err)

	var nilTarget struct{ X *int32 }
	require.NoError(t, s.Unmarshal(data, &nilTarget))
	assert.Nil(t, nilTarget.X)

	setTarget := struct{ X *int32 }{X: ptr(int32(7))}
	require.NoError(t, s.Unmarshal(data, &setTarget))
	assert.Equal(t, ptr(int32(7)), setTarget.X)

	var nested struct{ X **int32 }
	require.NoError(t, s.Unmarshal(data, &nested))
	assert.Nil(t, nested.X)

	type inner struct{ A int32 }
	var rec struct{ X *inner }
	require.NoError(t, s.Unmarshal(data, &rec))
	assert.Nil(t, rec.X)

	// A matching tag still allocates.
	data, err = s.Marshal(struct{ X int32 }{5})
	require.NoError(t, err)
	require.NoError(t, s.Unmarshal(data, &nilTarget))
	assert.Equal(t, ptr(int32(5)), nilTarget.X)
}

func TestEmptyClearsReferences(t *testing.T) {
	s := New()
	empty := []byte{byte(TypeEmpty)}

	p := ptr(int32(3))
	require.NoError(t, s.Unmarshal(empty, &p))
	assert.Nil(t, p)

	set := map[string]struct{}{"a": {}}
	require.NoError(t, s.Unmarshal(empty, &set))
	assert.Nil(t, set)

	sorted := NewSortedSet("a", "b")
	require.NoError(t, s.Unmarshal(empty, sorted))
	assert.Zero(t, sorted.Len())
}
