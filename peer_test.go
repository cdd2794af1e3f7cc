package tagwire

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dadrian/tagwire/decimal"
)

type peerLine struct {
	Sku      string
	Quantity int32
	Price    decimal.Decimal
}

type peerOrder struct {
	Id       int64
	Customer string
	Total    decimal.Decimal
	Placed   time.Time
	Ratings  []*int32
	Flags    []*bool
	Lines    []peerLine
	Status   Color
	Parent   *peerOrder
}

// peerOrderHex was assembled by hand, field by field, from the wire table
// and the field hashes, laid out the way a peer writer lays out an order.
// Its fields are in a different order from peerOrder, it carries an
// unknown "Legacy" record and it writes the null Parent explicitly as Empty.
const peerOrderHex = "0172010000a001e0fa7a0ca35510bc4898e7828ae358ee40a32938e680020280" +
	"0000000200000001390000009a0c70138ba7462c0e0600000041002d00310087" +
	"f80ab826b4ab3f070200000032b85d839d2fc9770d0000020000000000e70300" +
	"0000000000013900000032b85d839d2fc9770d00000280000000000500000000" +
	"0000009a0c70138ba7462c0e06000000a9032d00370087f80ab826b4ab3f0701" +
	"000000c3b0683d4c2b0b700128000000dab2982cc189f4980e060000006f006c" +
	"00640011b320642071c36f17080000000100000002000000980a634e44359147" +
	"0962600100000000005adad9d963f390ff0e1e0000005a006f00eb002000c500" +
	"6e006700730074007200f6006d0020003dd800de8ce2a607b59ccb31020f0000" +
	"000300000007050000000007fdffffff3d6fa7903a19320b0d00000400000000" +
	"004e61bc0000000000a531fbbfd80e52341f00007c8b4d8ed7482535d7746060" +
	"0f36020700000002000000110100a27063bc10550a2e00"

func TestPeerBuffer(t *testing.T) {
	data, err := hex.DecodeString(peerOrderHex)
	require.NoError(t, err)
	require.Len(t, data, 375)

	s := New()
	got, err := Deserialize[peerOrder](s, data)
	require.NoError(t, err)

	assert.Equal(t, int64(90210), got.Id)
	assert.Equal(t, "Zoë Ångström 😀", got.Customer)
	assert.Equal(t, "1234.5678", got.Total.String())
	assert.True(t, got.Placed.Equal(time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)), "placed %v", got.Placed)
	assert.Equal(t, []*int32{ptr(int32(5)), nil, ptr(int32(-3))}, got.Ratings)
	assert.Equal(t, []*bool{ptr(true), nil}, got.Flags)
	assert.Equal(t, []peerLine{
		{Sku: "A-1", Quantity: 2, Price: decimal.MustParse("9.99")},
		{Sku: "Ω-7", Quantity: 1, Price: decimal.MustParse("-0.05")},
	}, got.Lines)
	assert.Equal(t, Blue, got.Status)
	assert.Nil(t, got.Parent)

	// Re-encoding drops the unknown field and the explicit null but keeps
	// every value.
	again, err := Serialize(s, got)
	require.NoError(t, err)
	assert.Less(t, len(again), len(data))
	back, err := Deserialize[peerOrder](s, again)
	require.NoError(t, err)
	assert.True(t, back.Placed.Equal(got.Placed))
	back.Placed = got.Placed
	assert.Equal(t, got, back)
}
