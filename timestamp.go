package tagwire

import "time"

// DateTime payloads count 100ns ticks since 0001-01-01T00:00:00Z. The two
// top bits carry a kind: UTC or local.
const (
	TicksPerSecond = 10_000_000
	// UnixEpochTicks is the tick value of 1970-01-01T00:00:00Z.
	UnixEpochTicks = 621_355_968_000_000_000
	// MaxTicks is the tick value of 9999-12-31T23:59:59.9999999Z.
	MaxTicks = 3_155_378_975_999_999_999

	ticksPerDay     = 864_000_000_000
	ticksPerMilli   = 10_000
	kindUTC         = uint64(1) << 62
	kindLocal       = uint64(1) << 63
	ticksMask       = kindUTC - 1
	localTicksLimit = int64(1) << 62
)

var (
	minTime = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	maxTime = TimeFromTicks(MaxTicks)
)

// TicksFromTime converts t to ticks, clamped to [0, MaxTicks].
func TicksFromTime(t time.Time) int64 {
	if t.Before(minTime) {
		return 0
	}
	if t.After(maxTime) {
		return MaxTicks
	}
	return t.Unix()*TicksPerSecond + int64(t.Nanosecond()/100) + UnixEpochTicks
}

// TimeFromTicks returns the UTC time ticks denotes. Negative ticks are
// accepted; they appear after decoding legacy local values.
func TimeFromTicks(ticks int64) time.Time {
	sec, rem := floorDiv(ticks-UnixEpochTicks, TicksPerSecond)
	return time.Unix(sec, rem*100).UTC()
}

// UnixMilliFromTicks returns milliseconds since the Unix epoch, rounding
// toward negative infinity.
func UnixMilliFromTicks(ticks int64) int64 {
	ms, _ := floorDiv(ticks-UnixEpochTicks, ticksPerMilli)
	return ms
}

// EncodeDateTime returns the DateTime payload for t. The UTC kind bit is
// always set.
func EncodeDateTime(t time.Time) uint64 {
	return uint64(TicksFromTime(t)) | kindUTC
}

// DecodeDateTime returns the ticks in a DateTime payload. Local values in
// the last day below 2^62 ticks are a legacy encoding of small negative
// offsets and are shifted back below zero.
func DecodeDateTime(raw uint64) int64 {
	ticks := int64(raw & ticksMask)
	if raw&kindLocal != 0 && ticks > localTicksLimit-ticksPerDay {
		ticks -= localTicksLimit
	}
	return ticks
}

func floorDiv(a, b int64) (q, r int64) {
	q, r = a/b, a%b
	if r < 0 {
		q--
		r += b
	}
	return q, r
}
