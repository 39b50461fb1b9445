package recommend

import (
	"context"
	"fmt"

	"github.com/special-song-search/backend/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EntityType selects which tag vocabulary the Tag Catalog Accessor reads.
type EntityType string

const (
	EntityArtist    EntityType = "artist"
	EntityRecording EntityType = "recording"
)

// Recommendation is one scored result. Score is the deterministic relevance
// value; FilterScore adds the random jitter that ordered the results and is
// exposed only for transparency.
type Recommendation struct {
	Recording     models.Recording      `json:"recording"`
	Artists       []models.Artist       `json:"artists"`
	RecordingTags []models.RecordingTag `json:"recording_tags"`
	Score         float64               `json:"score"`
	FilterScore   float64               `json:"filter_score"`
}

// Engine runs recommendation queries against the catalog. It holds no
// per-call state, so a single Engine is safe for concurrent use; randomness
// is sampled per row inside the store, never shared between calls.
type Engine struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewEngine creates an engine over an initialized catalog database.
func NewEngine(db *gorm.DB, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{db: db, log: log}
}

// scoredRow is the raw query row: the recording columns plus the two computed
// score columns.
type scoredRow struct {
	models.Recording
	Score       float64 `gorm:"column:score"`
	FilterScore float64 `gorm:"column:filter_score"`
}

// Recommend compiles the criteria and returns up to min(limit, 100) distinct
// recordings ordered by filter score. An empty catalog match is a valid empty
// slice; only invalid criteria or a storage failure produce an error.
func (e *Engine) Recommend(ctx context.Context, criteria Criteria) ([]Recommendation, error) {
	plan, err := BuildPlan(&criteria, e.db.Dialector.Name())
	if err != nil {
		return nil, err
	}
	if plan.Limit == 0 {
		return []Recommendation{}, nil
	}

	rows, err := e.executePlan(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("recommendation query failed: %w", err)
	}

	// Dedup by recording identity, first seen wins. The ordering key
	// (filter_score DESC, mbid ASC) is fixed by the query, so "first seen"
	// is deterministic up to the sampled jitter.
	distinct := make([]scoredRow, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.MBID]; ok {
			continue
		}
		seen[row.MBID] = struct{}{}
		distinct = append(distinct, row)
		if len(distinct) == plan.Limit {
			break
		}
	}

	recs, err := e.shape(ctx, distinct)
	if err != nil {
		return nil, fmt.Errorf("recommendation shaping failed: %w", err)
	}

	e.log.Debug("recommendation call finished",
		zap.Int("candidate_rows", len(rows)),
		zap.Int("distinct_recordings", len(recs)),
		zap.Int("limit", plan.Limit),
	)

	return recs, nil
}

// executePlan issues the single bounded catalog query: score and filter score
// as computed columns, hard filters as WHERE clauses, ordered by filter score
// with the recording id as tie-break.
func (e *Engine) executePlan(ctx context.Context, plan *Plan) ([]scoredRow, error) {
	selectSQL := "recordings.*, (" + plan.ScoreSQL + ") AS score, (" + plan.FilterScoreSQL + ") AS filter_score"
	selectArgs := append(append([]interface{}{}, plan.ScoreArgs...), plan.FilterScoreArgs...)

	q := e.db.WithContext(ctx).
		Model(&models.Recording{}).
		Select(selectSQL, selectArgs...)

	for _, p := range plan.Where {
		q = q.Where(p.SQL, p.Args...)
	}

	var rows []scoredRow
	err := q.Order("filter_score DESC, recordings.mbid ASC").
		Limit(plan.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// shape attaches the associated artists and recording tags with two batched
// lookups and materializes the output records.
func (e *Engine) shape(ctx context.Context, rows []scoredRow) ([]Recommendation, error) {
	recs := make([]Recommendation, 0, len(rows))
	if len(rows) == 0 {
		return recs, nil
	}

	mbids := make([]string, 0, len(rows))
	for _, row := range rows {
		mbids = append(mbids, row.MBID)
	}

	artistsByRecording, err := e.loadArtists(ctx, mbids)
	if err != nil {
		return nil, err
	}

	var tags []models.RecordingTag
	if err := e.db.WithContext(ctx).
		Where("recording_mbid IN ?", mbids).
		Order("tag ASC").
		Find(&tags).Error; err != nil {
		return nil, err
	}
	tagsByRecording := make(map[string][]models.RecordingTag, len(mbids))
	for _, tag := range tags {
		tagsByRecording[tag.RecordingMBID] = append(tagsByRecording[tag.RecordingMBID], tag)
	}

	for _, row := range rows {
		recs = append(recs, Recommendation{
			Recording:     row.Recording,
			Artists:       artistsByRecording[row.MBID],
			RecordingTags: tagsByRecording[row.MBID],
			Score:         row.Score,
			FilterScore:   row.FilterScore,
		})
	}
	return recs, nil
}

// loadArtists resolves the many-to-many link for a batch of recordings.
func (e *Engine) loadArtists(ctx context.Context, mbids []string) (map[string][]models.Artist, error) {
	type link struct {
		ArtistMBID    string `gorm:"column:artist_mbid"`
		RecordingMBID string `gorm:"column:recording_mbid"`
	}
	var links []link
	if err := e.db.WithContext(ctx).
		Table("artist_recordings").
		Where("recording_mbid IN ?", mbids).
		Order("artist_mbid ASC").
		Find(&links).Error; err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return map[string][]models.Artist{}, nil
	}

	artistMBIDs := make([]string, 0, len(links))
	for _, l := range links {
		artistMBIDs = append(artistMBIDs, l.ArtistMBID)
	}

	var artists []models.Artist
	if err := e.db.WithContext(ctx).
		Where("mbid IN ?", artistMBIDs).
		Find(&artists).Error; err != nil {
		return nil, err
	}
	byMBID := make(map[string]models.Artist, len(artists))
	for _, artist := range artists {
		byMBID[artist.MBID] = artist
	}

	result := make(map[string][]models.Artist, len(mbids))
	for _, l := range links {
		if artist, ok := byMBID[l.ArtistMBID]; ok {
			result[l.RecordingMBID] = append(result[l.RecordingMBID], artist)
		}
	}
	return result, nil
}

// TagOptions returns the distinct tag vocabulary for one entity class, for
// populating criteria choices. Every returned string is usable as a weight
// map key.
func (e *Engine) TagOptions(ctx context.Context, entity EntityType) ([]string, error) {
	var table string
	switch entity {
	case EntityArtist:
		table = "artist_tags"
	case EntityRecording:
		table = "recording_tags"
	default:
		return nil, &ConfigError{Field: "entity", Reason: fmt.Sprintf("unknown entity type %q", entity)}
	}

	var tags []string
	err := e.db.WithContext(ctx).
		Table(table).
		Distinct().
		Order("tag ASC").
		Pluck("tag", &tags).Error
	if err != nil {
		return nil, fmt.Errorf("tag options query failed: %w", err)
	}
	return tags, nil
}
