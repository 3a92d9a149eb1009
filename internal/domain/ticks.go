package domain

import "time"

// Ticks are 100ns intervals since 0001-01-01T00:00:00Z, the unit the
// persisted document uses for every timestamp.
const (
	ticksPerSecond = int64(10_000_000)
	nanosPerTick   = int64(100)
	// unixEpochSeconds is the number of seconds between 0001-01-01 and 1970-01-01.
	unixEpochSeconds = int64(62_135_596_800)
)

// ToTicks converts t to ticks. The zero time maps to 0.
func ToTicks(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return (t.Unix()+unixEpochSeconds)*ticksPerSecond + int64(t.Nanosecond())/nanosPerTick
}

// FromTicks converts ticks back to a UTC time. 0 maps to the zero time.
func FromTicks(ticks int64) time.Time {
	if ticks == 0 {
		return time.Time{}
	}
	secs := ticks/ticksPerSecond - unixEpochSeconds
	nanos := (ticks % ticksPerSecond) * nanosPerTick
	return time.Unix(secs, nanos).UTC()
}

// TicksOrNow converts ticks, treating 0 as "unset" and returning now instead.
func TicksOrNow(ticks int64, now time.Time) time.Time {
	if ticks == 0 {
		return now
	}
	return FromTicks(ticks)
}
