// Package age derives age labels and age buckets from birth dates.
//
// Everything here is pure: the reference time is always passed in.
package age

import (
	"fmt"
	"regexp"
	"time"
)

// Unit is the magnitude an age label is expressed in.
type Unit string

const (
	UnitHours  Unit = "hours"
	UnitDays   Unit = "days"
	UnitMonths Unit = "months"
	UnitYears  Unit = "years"
)

// Unknown is the rendering of a label without a usable birth date.
const Unknown = "unknown"

// LabelPattern is the only accepted shape of a stored dependent age.
var LabelPattern = regexp.MustCompile(`^\d+ (hours|days|months|years) old$`)

// ValidLabel reports whether s matches LabelPattern.
func ValidLabel(s string) bool {
	return LabelPattern.MatchString(s)
}

// Label is a computed age.
type Label struct {
	Known bool
	Value int
	Unit  Unit
}

func (l Label) String() string {
	if !l.Known {
		return Unknown
	}
	return fmt.Sprintf("%d %s old", l.Value, l.Unit)
}

// Compute returns the coarsest unit that does not round to zero: hours under a
// day, days under 30 days, months under a year, whole years otherwise.
// A nil or future birth date yields an unknown label.
func Compute(birthDate *time.Time, ref time.Time) Label {
	if birthDate == nil || birthDate.After(ref) {
		return Label{}
	}
	elapsed := ref.Sub(*birthDate)
	if elapsed < 24*time.Hour {
		return Label{Known: true, Value: int(elapsed / time.Hour), Unit: UnitHours}
	}
	days := int(elapsed / (24 * time.Hour))
	months := fullMonths(*birthDate, ref)
	if days < 30 || months == 0 {
		return Label{Known: true, Value: days, Unit: UnitDays}
	}
	if months < 12 {
		return Label{Known: true, Value: months, Unit: UnitMonths}
	}
	return Label{Known: true, Value: months / 12, Unit: UnitYears}
}

// ComputeLabel is Compute rendered as a string.
func ComputeLabel(birthDate *time.Time, ref time.Time) string {
	return Compute(birthDate, ref).String()
}

// Years returns completed calendar years. ok is false for nil or future dates.
func Years(birthDate *time.Time, ref time.Time) (years int, ok bool) {
	if birthDate == nil || birthDate.After(ref) {
		return 0, false
	}
	return fullMonths(*birthDate, ref) / 12, true
}

// fullMonths counts completed calendar months between from and to, anchored
// on the day of month and time of day of from.
func fullMonths(from, to time.Time) int {
	to = to.In(from.Location())
	months := (to.Year()-from.Year())*12 + int(to.Month()-from.Month())
	if months <= 0 {
		return 0
	}
	if anniversary(from, months).After(to) {
		months--
	}
	return months
}

// anniversary returns from shifted by n months, clamping the day to the end
// of the target month so that Jan 31 + 1 month is the last day of February.
func anniversary(from time.Time, n int) time.Time {
	y, m, d := from.Date()
	first := time.Date(y, m+time.Month(n), 1, from.Hour(), from.Minute(), from.Second(), from.Nanosecond(), from.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, from.Hour(), from.Minute(), from.Second(), from.Nanosecond(), from.Location())
}
