package recommend

import (
	"sort"
	"strings"
)

// Predicate is one hard filter: rows failing it never enter the candidate set.
type Predicate struct {
	SQL  string
	Args []interface{}
}

// Plan is the immutable compiled form of one Criteria: the additive score
// expression, the jittered ordering expression, the hard filters and the row
// cap. It holds no connection state and can be built and inspected without a
// live database.
type Plan struct {
	ScoreSQL        string
	ScoreArgs       []interface{}
	FilterScoreSQL  string
	FilterScoreArgs []interface{}
	Where           []Predicate
	Limit           int
}

// Length is stored in milliseconds; criteria speak seconds.
const lengthSeconds = "recordings.length / 1000.0"

// BuildPlan compiles criteria into a Plan for the given gorm dialect
// ("postgres" or "sqlite"). The dialect only affects the uniform random term.
//
// Each tag category is scored by a correlated subquery that sums the weights
// of every matching tag for the recording, so a recording with three tagged
// artists scores all three matches while still producing a single candidate
// row. That keeps the candidate set free of join fan-out and makes the
// ordered LIMIT exact.
func BuildPlan(c *Criteria, dialect string) (*Plan, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	score := strings.Builder{}
	score.WriteString("0.0")
	args := make([]interface{}, 0, 2*(len(c.ArtistTags)+len(c.RecordingTags))+6)

	if c.Weights.ArtistTags != nil && len(c.ArtistTags) > 0 {
		sub, subArgs := tagCaseSQL("artist_tags.tag", c.ArtistTags)
		score.WriteString(" + (SELECT COALESCE(SUM(" + sub + "), 0)" +
			" FROM artist_tags" +
			" JOIN artist_recordings ON artist_recordings.artist_mbid = artist_tags.artist_mbid" +
			" WHERE artist_recordings.recording_mbid = recordings.mbid) * ?")
		args = append(args, subArgs...)
		args = append(args, *c.Weights.ArtistTags)
	}

	if c.Weights.RecordingTags != nil && len(c.RecordingTags) > 0 {
		sub, subArgs := tagCaseSQL("recording_tags.tag", c.RecordingTags)
		score.WriteString(" + (SELECT COALESCE(SUM(" + sub + "), 0)" +
			" FROM recording_tags" +
			" WHERE recording_tags.recording_mbid = recordings.mbid) * ?")
		args = append(args, subArgs...)
		args = append(args, *c.Weights.RecordingTags)
	}

	if c.Length != nil && c.Length.Condition == ConditionCenter {
		score.WriteString(" - ? * ABS(" + lengthSeconds + " - ?)")
		args = append(args, c.Length.PointsPer, c.Length.Center)
	}
	if c.Date != nil && c.Date.Condition == ConditionCenter {
		score.WriteString(" - ? * ABS(recordings.year - ?)")
		args = append(args, c.Date.PointsPer, c.Date.Center)
	}

	plan := &Plan{
		ScoreSQL:        score.String(),
		ScoreArgs:       args,
		FilterScoreSQL:  score.String(),
		FilterScoreArgs: append([]interface{}{}, args...),
		Limit:           c.clampedLimit(),
	}

	if c.Randomness > 0 {
		plan.FilterScoreSQL += " + ? * " + uniformRandomSQL(dialect)
		plan.FilterScoreArgs = append(plan.FilterScoreArgs, c.Randomness)
	}

	plan.Where = buildPredicates(c)

	return plan, nil
}

// tagCaseSQL renders the per-tag weight lookup as a CASE expression. Tags are
// emitted in sorted order so identical criteria always compile to identical
// SQL.
func tagCaseSQL(column string, weights map[string]float64) (string, []interface{}) {
	tags := make([]string, 0, len(weights))
	for tag := range weights {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	sql := strings.Builder{}
	sql.WriteString("CASE " + column)
	args := make([]interface{}, 0, 2*len(tags))
	for _, tag := range tags {
		sql.WriteString(" WHEN ? THEN ?")
		args = append(args, tag, weights[tag])
	}
	sql.WriteString(" END")
	return sql.String(), args
}

func buildPredicates(c *Criteria) []Predicate {
	var where []Predicate

	if c.Length != nil && c.Length.Condition == ConditionRange {
		where = append(where, Predicate{SQL: lengthSeconds + " >= ?", Args: []interface{}{c.Length.Lower}})
		if c.Length.Upper != nil {
			where = append(where, Predicate{SQL: lengthSeconds + " <= ?", Args: []interface{}{*c.Length.Upper}})
		}
	}

	if c.Date != nil && c.Date.Condition == ConditionRange {
		where = append(where, Predicate{SQL: "recordings.year >= ?", Args: []interface{}{c.Date.Lower}})
		if c.Date.Upper != nil {
			where = append(where, Predicate{SQL: "recordings.year <= ?", Args: []interface{}{*c.Date.Upper}})
		}
	}

	if c.ReleaseStatus != "" {
		where = append(where, Predicate{SQL: "recordings.release_status = ?", Args: []interface{}{c.ReleaseStatus}})
	}

	return where
}

// uniformRandomSQL returns a per-row uniform value in [0, 1).
//
// Postgres random() already is one. SQLite random() is a signed 64-bit
// integer, so it is scaled by 2^64 and shifted into [0, 1).
func uniformRandomSQL(dialect string) string {
	if dialect == "postgres" {
		return "random()"
	}
	return "(random() / 18446744073709551616.0 + 0.5)"
}
