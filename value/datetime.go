// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/duckvec/duckvec/internal/base"
)

const (
	microsPerSecond = 1_000_000
	microsPerDay    = 86_400 * microsPerSecond
	nanosPerSecond  = 1_000_000_000
	nanosPerDay     = 86_400 * nanosPerSecond
	secondsPerDay   = 86_400
)

// Date is a count of days since 1970-01-01.
type Date struct {
	Days int32
}

// Date infinities.
var (
	DatePosInf = Date{Days: math.MaxInt32}
	DateNegInf = Date{Days: -math.MaxInt32}
)

// DateFromTime returns the date of t in t's location.
func DateFromTime(t time.Time) Date {
	y, m, d := t.Date()
	u := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix()
	return Date{Days: int32(floorDiv(u, secondsPerDay))}
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Unix(int64(d.Days)*secondsPerDay, 0).UTC()
}

func (d Date) String() string {
	switch d {
	case DatePosInf:
		return "infinity"
	case DateNegInf:
		return "-infinity"
	}
	return formatDate(int64(d.Days))
}

// Time is a count of microseconds since midnight.
type Time struct {
	Micros int64
}

func (t Time) String() string {
	return formatTimeOfDay(uint64(t.Micros), 6)
}

// TimeTZ is a time of day with a UTC offset in seconds.
type TimeTZ struct {
	Micros uint64
	Offset int32
}

// TIME_TZ limits.
const (
	// MaxOffset is 15:59:59 in seconds.
	MaxOffset = 16*60*60 - 1
	MinOffset = -MaxOffset
	MaxMicros = microsPerDay
)

const (
	timeTZOffsetBits = 24
	timeTZMicrosBits = 40
)

// Check returns an error if t is outside the representable range.
func (t TimeTZ) Check() error {
	if t.Micros > MaxMicros {
		return base.OutOfRangef("TIME_TZ micros %d not in [0, %d]", t.Micros, uint64(MaxMicros))
	}
	if t.Offset < MinOffset || t.Offset > MaxOffset {
		return base.OutOfRangef("TIME_TZ offset %d not in [%d, %d]", t.Offset, MinOffset, MaxOffset)
	}
	return nil
}

// Bits returns the packed 64-bit representation: the microseconds in the
// high 40 bits and MaxOffset-Offset in the low 24 bits, so that raw
// comparison orders by UTC instant.
func (t TimeTZ) Bits() uint64 {
	micros := t.Micros & (1<<timeTZMicrosBits - 1)
	off := uint64(MaxOffset-int64(t.Offset)) & (1<<timeTZOffsetBits - 1)
	return micros<<timeTZOffsetBits | off
}

// TimeTZFromBits unpacks a TIME_TZ word.
func TimeTZFromBits(bits uint64) TimeTZ {
	return TimeTZ{
		Micros: bits >> timeTZOffsetBits,
		Offset: int32(MaxOffset - int64(bits&(1<<timeTZOffsetBits-1))),
	}
}

func (t TimeTZ) String() string {
	var sb strings.Builder
	sb.WriteString(formatTimeOfDay(t.Micros, 6))
	off := t.Offset
	if off < 0 {
		sb.WriteByte('-')
		off = -off
	} else {
		sb.WriteByte('+')
	}
	h, m, s := off/3600, off/60%60, off%60
	fmt.Fprintf(&sb, "%02d", h)
	if m != 0 || s != 0 {
		fmt.Fprintf(&sb, ":%02d", m)
	}
	if s != 0 {
		fmt.Fprintf(&sb, ":%02d", s)
	}
	return sb.String()
}

// Timestamp infinities, shared by TIMESTAMP and TIMESTAMP WITH TIME ZONE.
const (
	TimestampPosInf = math.MaxInt64
	TimestampNegInf = -math.MaxInt64
)

// Timestamp is a count of microseconds since the epoch.
type Timestamp struct {
	Micros int64
}

// TimestampFromTime converts t, truncating to microseconds.
func TimestampFromTime(t time.Time) Timestamp {
	return Timestamp{Micros: t.UnixMicro()}
}

// Time returns ts as a UTC time.Time.
func (ts Timestamp) Time() time.Time {
	return time.UnixMicro(ts.Micros).UTC()
}

func (ts Timestamp) String() string {
	return formatTimestampMicros(ts.Micros)
}

// TimestampTZ is a count of microseconds since the epoch, displayed in UTC.
type TimestampTZ struct {
	Micros int64
}

// TimestampTZFromTime converts t, truncating to microseconds.
func TimestampTZFromTime(t time.Time) TimestampTZ {
	return TimestampTZ{Micros: t.UnixMicro()}
}

// Time returns ts as a UTC time.Time.
func (ts TimestampTZ) Time() time.Time {
	return time.UnixMicro(ts.Micros).UTC()
}

func (ts TimestampTZ) String() string {
	s := formatTimestampMicros(ts.Micros)
	if ts.Micros == TimestampPosInf || ts.Micros == TimestampNegInf {
		return s
	}
	return s + "+00"
}

// TimestampS is a count of seconds since the epoch.
type TimestampS struct {
	Seconds int64
}

func (ts TimestampS) String() string {
	days := floorDiv(ts.Seconds, secondsPerDay)
	rem := ts.Seconds - days*secondsPerDay
	return formatDate(days) + " " + formatTimeOfDay(uint64(rem)*microsPerSecond, 6)
}

// TimestampMS is a count of milliseconds since the epoch.
type TimestampMS struct {
	Millis int64
}

func (ts TimestampMS) String() string {
	const millisPerDay = secondsPerDay * 1000
	days := floorDiv(ts.Millis, millisPerDay)
	rem := ts.Millis - days*millisPerDay
	return formatDate(days) + " " + formatTimeOfDay(uint64(rem)*1000, 6)
}

// TimestampNS is a count of nanoseconds since the epoch.
type TimestampNS struct {
	Nanos int64
}

// Time returns ts as a UTC time.Time.
func (ts TimestampNS) Time() time.Time {
	return time.Unix(0, ts.Nanos).UTC()
}

func (ts TimestampNS) String() string {
	days := floorDiv(ts.Nanos, nanosPerDay)
	rem := ts.Nanos - days*nanosPerDay
	return formatDate(days) + " " + formatTimeOfDay(uint64(rem), 9)
}

// Interval is a calendar interval. Months and days are kept separate from
// micros since their length in micros varies.
type Interval struct {
	Months int32
	Days   int32
	Micros int64
}

func (iv Interval) String() string {
	var parts []string
	if iv.Months != 0 {
		years, months := iv.Months/12, iv.Months%12
		if years != 0 {
			parts = append(parts, plural(int64(years), "year"))
		}
		if months != 0 {
			parts = append(parts, plural(int64(months), "month"))
		}
	}
	if iv.Days != 0 {
		parts = append(parts, plural(int64(iv.Days), "day"))
	}
	if iv.Micros != 0 {
		if iv.Micros < 0 {
			parts = append(parts, "-"+formatTimeOfDay(uint64(-iv.Micros), 6))
		} else {
			parts = append(parts, formatTimeOfDay(uint64(iv.Micros), 6))
		}
	}
	if len(parts) == 0 {
		return "00:00:00"
	}
	return strings.Join(parts, " ")
}

func plural(n int64, unit string) string {
	if n == 1 || n == -1 {
		return strconv.FormatInt(n, 10) + " " + unit
	}
	return strconv.FormatInt(n, 10) + " " + unit + "s"
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// formatDate formats a day count as YYYY-MM-DD, with a " (BC)" suffix for
// years before 1 AD.
func formatDate(days int64) string {
	y, m, d := time.Unix(days*secondsPerDay, 0).UTC().Date()
	if y <= 0 {
		return fmt.Sprintf("%04d-%02d-%02d (BC)", 1-y, int(m), d)
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, int(m), d)
}

// formatTimeOfDay formats a count of sub-second units (10^-digits seconds)
// as HH:MM:SS with trailing fractional zeros trimmed.
func formatTimeOfDay(units uint64, digits int) string {
	perSecond := uint64(microsPerSecond)
	if digits == 9 {
		perSecond = nanosPerSecond
	}
	frac := units % perSecond
	secs := units / perSecond
	s := fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs/60%60, secs%60)
	if frac != 0 {
		f := fmt.Sprintf("%0*d", digits, frac)
		s += "." + strings.TrimRight(f, "0")
	}
	return s
}

func formatTimestampMicros(micros int64) string {
	switch micros {
	case TimestampPosInf:
		return "infinity"
	case TimestampNegInf:
		return "-infinity"
	}
	days := floorDiv(micros, microsPerDay)
	rem := micros - days*microsPerDay
	return formatDate(days) + " " + formatTimeOfDay(uint64(rem), 6)
}
