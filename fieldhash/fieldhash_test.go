package fieldhash

import (
	"strings"
	"sync"
	"testing"
	"unicode/utf16"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dadrian/tagwire/internal"
)

// Reference values shared with other implementations of the format.
var vectors = []struct {
	name string
	hash uint64
}{
	{"", 0},
	{"A", 0x88608b6ac339c95a},
	{"Id", 0x479135444e630a98},
	{"Name", 0x81c9896297524b1a},
	{"Value", 0x4851c6003b3d1295},
	{"Left", 0x944b5ae5e56615ff},
	{"Right", 0x1e67c009c3549998},
	{"Item1", 0x8c254c64b7ad1df8},
	{"Children", 0x11171770a01f4db7},
	{"Amount", 0x23c60baf6ef95f16},
	{"Red", 0x7192b8aa8b388f7e},
	{"Green", 0x0e0fab9b5910d969},
	{"Blue", 0x58e38a82e79848bc},
	{"Größe", 0xee4a877e867811ba},
	{"😀", 0x99989ad3e4d6aa0f},
}

func TestHashVectors(t *testing.T) {
	for _, v := range vectors {
		got, err := Hash(v.name)
		require.NoError(t, err, v.name)
		assert.Equalf(t, v.hash, got, "Hash(%q) = %#016x", v.name, got)
	}
}

func TestTableCells(t *testing.T) {
	tableOnce.Do(buildTable)
	assert.Equal(t, uint64(0xac680e8629730504), table[0][0])
	assert.Equal(t, uint64(0xff445e64f4c015ac), table[0][1])
	assert.Equal(t, uint64(0xebd8b203f9910087), table[1][0])
}

func TestHashMaxLength(t *testing.T) {
	got, err := Hash(strings.Repeat("a", MaxNameLength))
	require.NoError(t, err)
	assert.Equal(t, uint64(0xf9a1c7c67a3566d2), got)

	_, err = Hash(strings.Repeat("a", MaxNameLength+1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, internal.ErrNameTooLong))

	// 500 surrogate pairs are 1000 code units.
	_, err = Hash(strings.Repeat("😀", 500))
	require.NoError(t, err)
	_, err = Hash(strings.Repeat("😀", 501))
	assert.True(t, errors.Is(err, internal.ErrNameTooLong))
}

func TestHashUnitsMatchesHash(t *testing.T) {
	for _, v := range vectors {
		got, err := HashUnits(utf16.Encode([]rune(v.name)))
		require.NoError(t, err)
		assert.Equal(t, v.hash, got)
	}
}

func TestHashOrderSensitive(t *testing.T) {
	assert.NotEqual(t, MustHash("ab"), MustHash("ba"))
	assert.Panics(t, func() { MustHash(strings.Repeat("x", 2000)) })
}

func TestHashConcurrentFirstUse(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]uint64, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = MustHash("Value")
		}(i)
	}
	wg.Wait()
	for _, h := range results {
		assert.Equal(t, uint64(0x4851c6003b3d1295), h)
	}
}

func TestGeneratorSequence(t *testing.T) {
	// First raw outputs of the seeded generator.
	g := newGenerator(Seed)
	for _, want := range []int32{964854390, 121836673, 215364663} {
		assert.Equal(t, want, g.sample())
	}
}
