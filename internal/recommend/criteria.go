// Package recommend implements the recommendation scoring and ranking engine:
// it compiles weighted tag/length/date criteria into a single scored catalog
// query and returns a ranked, deduplicated list of recordings.
package recommend

import "fmt"

// Condition selects how a numeric constraint behaves: "range" excludes rows
// outside the bounds, "center" keeps every row but deducts score per unit of
// distance from the target.
type Condition string

const (
	ConditionRange  Condition = "range"
	ConditionCenter Condition = "center"
)

// MaxLimit is the hard cap on distinct recordings returned per call. Larger
// requested limits are clamped silently.
const MaxLimit = 100

// Constraint describes a length or date criterion. Length values are seconds,
// date values are years, regardless of how the columns are stored.
type Constraint struct {
	Condition Condition `json:"condition"`

	// range
	Lower float64  `json:"lower"`
	Upper *float64 `json:"upper"` // nil disables the upper bound

	// center
	Center    float64 `json:"center"`
	PointsPer float64 `json:"points_per"` // score deducted per second/year of distance
}

// Weights holds the per-category multipliers. A nil category means the
// category contributes nothing and its tag tables are never consulted.
type Weights struct {
	ArtistTags    *float64 `json:"artist_tags"`
	RecordingTags *float64 `json:"recording_tags"`
}

// Criteria is the validated in-memory form of one recommendation request.
// Unknown tag names are fine: they never match and contribute zero.
type Criteria struct {
	ArtistTags    map[string]float64 `json:"artist_tags"`
	RecordingTags map[string]float64 `json:"recording_tags"`
	Weights       Weights            `json:"weights"`
	Length        *Constraint        `json:"recording_length"`
	Date          *Constraint        `json:"recording_date"`
	ReleaseStatus string             `json:"release_status"`
	Randomness    float64            `json:"randomness"`
	Limit         int                `json:"limit"`
}

// ConfigError reports criteria that cannot be compiled into a query. It is
// the caller's bug, never a backend condition.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid criteria: %s: %s", e.Field, e.Reason)
}

// Validate fails fast on criteria the builder cannot compile. It never
// rejects unknown tags or an over-large limit; those are handled downstream.
func (c *Criteria) Validate() error {
	if err := c.Length.validate("recording_length"); err != nil {
		return err
	}
	if err := c.Date.validate("recording_date"); err != nil {
		return err
	}
	if c.Randomness < 0 {
		return &ConfigError{Field: "randomness", Reason: "must not be negative"}
	}
	return nil
}

func (ct *Constraint) validate(field string) error {
	if ct == nil {
		return nil
	}
	switch ct.Condition {
	case ConditionRange:
		if ct.Upper != nil && ct.Lower > *ct.Upper {
			return &ConfigError{
				Field:  field,
				Reason: fmt.Sprintf("range lower bound %v exceeds upper bound %v", ct.Lower, *ct.Upper),
			}
		}
	case ConditionCenter:
		if ct.PointsPer < 0 {
			return &ConfigError{Field: field, Reason: "points_per must not be negative"}
		}
	case "":
		return &ConfigError{Field: field, Reason: "missing condition"}
	default:
		return &ConfigError{
			Field:  field,
			Reason: fmt.Sprintf("unknown condition %q (want %q or %q)", ct.Condition, ConditionRange, ConditionCenter),
		}
	}
	return nil
}

// EffectiveLimit is the row cap actually applied after clamping, for callers
// that echo the limit back.
func (c *Criteria) EffectiveLimit() int {
	return c.clampedLimit()
}

// clampedLimit applies the hard result cap. Non-positive limits yield zero
// rows rather than an error.
func (c *Criteria) clampedLimit() int {
	if c.Limit <= 0 {
		return 0
	}
	if c.Limit > MaxLimit {
		return MaxLimit
	}
	return c.Limit
}
