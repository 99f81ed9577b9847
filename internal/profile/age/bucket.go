package age

import "time"

// Bucket is a coarse age classification used by dashboards and reporting.
type Bucket string

const (
	BucketUnknown Bucket = "unknown"
	BucketChild   Bucket = "child"
	BucketAdult   Bucket = "adult"
	BucketSenior  Bucket = "senior"
)

const (
	AdultAge  = 18
	SeniorAge = 60
)

// Classify buckets by whole years, independent of the label Compute prints.
func Classify(birthDate *time.Time, ref time.Time) Bucket {
	years, ok := Years(birthDate, ref)
	if !ok {
		return BucketUnknown
	}
	switch {
	case years < AdultAge:
		return BucketChild
	case years < SeniorAge:
		return BucketAdult
	default:
		return BucketSenior
	}
}
