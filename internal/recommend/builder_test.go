package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPlanEmptyCriteria(t *testing.T) {
	plan, err := BuildPlan(&Criteria{Limit: 10}, "sqlite")
	require.NoError(t, err)

	assert.Equal(t, "0.0", plan.ScoreSQL)
	assert.Empty(t, plan.ScoreArgs)
	assert.Empty(t, plan.Where)
	assert.Equal(t, 10, plan.Limit)
	// No randomness: ordering is purely the deterministic score.
	assert.Equal(t, plan.ScoreSQL, plan.FilterScoreSQL)
}

func TestBuildPlanSkipsCategoryWithoutWeight(t *testing.T) {
	// Tags present but no category weight: the tag tables must not be
	// consulted at all.
	plan, err := BuildPlan(&Criteria{
		ArtistTags:    map[string]float64{"jazz": 1.0},
		RecordingTags: map[string]float64{"live": 2.0},
		Limit:         10,
	}, "sqlite")
	require.NoError(t, err)

	assert.NotContains(t, plan.ScoreSQL, "artist_tags")
	assert.NotContains(t, plan.ScoreSQL, "recording_tags")
}

func TestBuildPlanTagSubqueries(t *testing.T) {
	plan, err := BuildPlan(&Criteria{
		ArtistTags:    map[string]float64{"jazz": 1.0, "blues": 0.5},
		RecordingTags: map[string]float64{"live": 2.0},
		Weights: Weights{
			ArtistTags:    floatPtr(1.0),
			RecordingTags: floatPtr(3.0),
		},
		Limit: 10,
	}, "sqlite")
	require.NoError(t, err)

	assert.Contains(t, plan.ScoreSQL, "FROM artist_tags")
	assert.Contains(t, plan.ScoreSQL, "JOIN artist_recordings")
	assert.Contains(t, plan.ScoreSQL, "FROM recording_tags")

	// Tags sorted, then the category multiplier:
	// blues, 0.5, jazz, 1.0, 1.0(cat) | live, 2.0, 3.0(cat)
	assert.Equal(t, []interface{}{"blues", 0.5, "jazz", 1.0, 1.0, "live", 2.0, 3.0}, plan.ScoreArgs)
}

func TestBuildPlanDeterministicTagOrder(t *testing.T) {
	criteria := Criteria{
		ArtistTags: map[string]float64{"rock": 1, "ambient": 2, "noise": 3},
		Weights:    Weights{ArtistTags: floatPtr(1)},
		Limit:      5,
	}

	first, err := BuildPlan(&criteria, "sqlite")
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := BuildPlan(&criteria, "sqlite")
		require.NoError(t, err)
		assert.Equal(t, first.ScoreSQL, again.ScoreSQL)
		assert.Equal(t, first.ScoreArgs, again.ScoreArgs)
	}
}

func TestBuildPlanCenterPenalties(t *testing.T) {
	plan, err := BuildPlan(&Criteria{
		Length: &Constraint{Condition: ConditionCenter, Center: 180, PointsPer: 0.1},
		Date:   &Constraint{Condition: ConditionCenter, Center: 1990, PointsPer: 2},
		Limit:  10,
	}, "sqlite")
	require.NoError(t, err)

	assert.Contains(t, plan.ScoreSQL, "ABS(recordings.length / 1000.0 - ?)")
	assert.Contains(t, plan.ScoreSQL, "ABS(recordings.year - ?)")
	assert.Equal(t, []interface{}{0.1, 180.0, 2.0, 1990.0}, plan.ScoreArgs)
	// Center constraints are soft: no hard filters.
	assert.Empty(t, plan.Where)
}

func TestBuildPlanRangePredicates(t *testing.T) {
	plan, err := BuildPlan(&Criteria{
		Length:        &Constraint{Condition: ConditionRange, Lower: 60, Upper: floatPtr(240)},
		Date:          &Constraint{Condition: ConditionRange, Lower: 1980},
		ReleaseStatus: "Official",
		Limit:         10,
	}, "sqlite")
	require.NoError(t, err)

	require.Len(t, plan.Where, 4)
	assert.Equal(t, "recordings.length / 1000.0 >= ?", plan.Where[0].SQL)
	assert.Equal(t, "recordings.length / 1000.0 <= ?", plan.Where[1].SQL)
	assert.Equal(t, "recordings.year >= ?", plan.Where[2].SQL)
	assert.Equal(t, "recordings.release_status = ?", plan.Where[3].SQL)
	// Range constraints never show up in the score.
	assert.Equal(t, "0.0", plan.ScoreSQL)
}

func TestBuildPlanRangeWithoutUpper(t *testing.T) {
	plan, err := BuildPlan(&Criteria{
		Length: &Constraint{Condition: ConditionRange, Lower: 60},
		Limit:  10,
	}, "sqlite")
	require.NoError(t, err)

	require.Len(t, plan.Where, 1)
	assert.Equal(t, "recordings.length / 1000.0 >= ?", plan.Where[0].SQL)
}

func TestBuildPlanRandomTermPerDialect(t *testing.T) {
	criteria := Criteria{Randomness: 0.5, Limit: 10}

	pg, err := BuildPlan(&criteria, "postgres")
	require.NoError(t, err)
	assert.Contains(t, pg.FilterScoreSQL, "random()")
	assert.NotContains(t, pg.FilterScoreSQL, "18446744073709551616")

	lite, err := BuildPlan(&criteria, "sqlite")
	require.NoError(t, err)
	assert.Contains(t, lite.FilterScoreSQL, "18446744073709551616")

	assert.Equal(t, []interface{}{0.5}, pg.FilterScoreArgs)
}

func TestBuildPlanRejectsInvalidCriteria(t *testing.T) {
	_, err := BuildPlan(&Criteria{
		Length: &Constraint{Condition: "between"},
		Limit:  10,
	}, "sqlite")

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestBuildPlanClampsLimit(t *testing.T) {
	plan, err := BuildPlan(&Criteria{Limit: 1000}, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, MaxLimit, plan.Limit)
}
