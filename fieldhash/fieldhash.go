// Package fieldhash computes the 64-bit tags that identify record fields
// and enum members on the wire.
//
// The hash is a tabulation hash over UTF-16 code units. The table is filled
// from a seeded subtractive lagged-Fibonacci generator so that every
// implementation of the format derives the same tags for the same names.
package fieldhash

import (
	"sync"
	"unicode/utf16"

	"github.com/cockroachdb/errors"

	"github.com/dadrian/tagwire/internal"
)

const (
	// MaxNameLength is the longest name, in UTF-16 code units, that can be
	// hashed.
	MaxNameLength = 1000
	// Seed is the fixed generator seed shared by all peers.
	Seed = 314159265
)

var (
	tableOnce sync.Once
	table     *[2 * MaxNameLength][256]uint64
)

func buildTable() {
	t := new([2 * MaxNameLength][256]uint64)
	g := newGenerator(Seed)
	for row := range t {
		for col := range t[row] {
			d0 := g.next24()
			d1 := g.next24()
			d2 := g.next24()
			t[row][col] = d0 | d1<<24 | d2<<48
		}
	}
	table = t
}

// Hash returns the tag for name. Names longer than MaxNameLength code
// units fail with ErrNameTooLong.
func Hash(name string) (uint64, error) {
	units := utf16.Encode([]rune(name))
	h, err := HashUnits(units)
	if err != nil {
		return 0, errors.Wrapf(err, "hash %.32q", name)
	}
	return h, nil
}

// MustHash is like Hash but panics on error.
func MustHash(name string) uint64 {
	h, err := Hash(name)
	if err != nil {
		panic(err)
	}
	return h
}

// HashUnits hashes a name already held as UTF-16 code units.
func HashUnits(units []uint16) (uint64, error) {
	if len(units) > MaxNameLength {
		return 0, internal.Errorf(internal.ErrNameTooLong, 0, "%d code units, max %d", len(units), MaxNameLength)
	}
	tableOnce.Do(buildTable)
	var h uint64
	for i, u := range units {
		h ^= table[2*i][u&0xFF] ^ table[2*i+1][u>>8]
	}
	return h, nil
}
