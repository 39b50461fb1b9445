// Package catalog fills the relational catalog from MusicBrainz: artists for
// a country, their tags, their recordings with tags, and the many-to-many
// link between them. The recommendation engine only ever reads what this
// package writes.
package catalog

import (
	"context"
	"fmt"

	"github.com/special-song-search/backend/internal/metrics"
	"github.com/special-song-search/backend/internal/models"
	"github.com/special-song-search/backend/internal/musicbrainz"
	"github.com/special-song-search/backend/internal/util"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MetadataSource is the slice of the MusicBrainz client the ingester uses.
type MetadataSource interface {
	SearchArtists(ctx context.Context, countryCode string, offset, n int) ([]musicbrainz.Artist, error)
	ArtistRecordings(ctx context.Context, artistMBID string, n int) ([]musicbrainz.Recording, error)
}

// Ingester writes catalog entities pulled from a metadata source.
type Ingester struct {
	db     *gorm.DB
	source MetadataSource
	log    *zap.Logger
}

// NewIngester creates an ingester over an initialized catalog database.
func NewIngester(db *gorm.DB, source MetadataSource, log *zap.Logger) *Ingester {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ingester{db: db, source: source, log: log}
}

// Fill ingests nArtists artists from countryCode and up to nRecordings
// recordings per artist (negative means all). Artists already ingested for
// the country are skipped by offsetting the search, so repeated runs extend
// the catalog instead of re-fetching it.
func (i *Ingester) Fill(ctx context.Context, countryCode string, nArtists, nRecordings int) error {
	var offset int64
	if err := i.db.WithContext(ctx).
		Model(&models.Artist{}).
		Where("country = ?", countryCode).
		Count(&offset).Error; err != nil {
		return fmt.Errorf("failed to count existing artists: %w", err)
	}

	i.log.Info("filling artists",
		zap.String("country", countryCode),
		zap.Int("requested", nArtists),
		zap.Int64("offset", offset),
	)

	artists, err := i.source.SearchArtists(ctx, countryCode, int(offset), nArtists)
	if err != nil {
		return fmt.Errorf("artist fetch failed: %w", err)
	}

	for _, artist := range artists {
		if err := i.ingestArtist(ctx, artist); err != nil {
			return err
		}
		if err := i.fillArtistRecordings(ctx, artist.ID, nRecordings); err != nil {
			return err
		}
	}

	return nil
}

func (i *Ingester) ingestArtist(ctx context.Context, artist musicbrainz.Artist) error {
	row := models.Artist{
		MBID:           artist.ID,
		Name:           artist.Name,
		Disambiguation: artist.Disambiguation,
		Type:           artist.Type,
		Gender:         artist.Gender,
		Country:        artist.Country,
		LifeSpanBegin:  artist.LifeSpan.Begin,
		LifeSpanEnd:    artist.LifeSpan.End,
		RatingVotes:    artist.Rating.VotesCount,
		Rating:         artist.Rating.Value,
	}

	if err := i.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error; err != nil {
		return fmt.Errorf("failed to store artist %s: %w", artist.ID, err)
	}
	metrics.Get().IngestedArtistsTotal.Inc()

	for _, tag := range artist.Tags {
		tagRow := models.ArtistTag{ArtistMBID: artist.ID, Tag: tag.Name, TagVotes: tag.Count}
		if err := i.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&tagRow).Error; err != nil {
			return fmt.Errorf("failed to store artist tag: %w", err)
		}
	}
	return nil
}

// fillArtistRecordings ingests an artist's recordings and links them. A
// recording already ingested through another artist is linked to this one as
// well, which is how collaborations end up attached to every participant.
func (i *Ingester) fillArtistRecordings(ctx context.Context, artistMBID string, n int) error {
	recordings, err := i.source.ArtistRecordings(ctx, artistMBID, n)
	if err != nil {
		return fmt.Errorf("recording fetch for artist %s failed: %w", artistMBID, err)
	}

	i.log.Info("filling recordings",
		zap.String("artist", artistMBID),
		zap.Int("count", len(recordings)),
	)

	for _, recording := range recordings {
		row := models.Recording{
			MBID:           recording.ID,
			Title:          recording.Title,
			Disambiguation: recording.Disambiguation,
			Length:         recording.Length,
			Date:           recording.FirstReleaseDate,
			Year:           util.ParseYear(recording.FirstReleaseDate),
			RatingVotes:    recording.Rating.VotesCount,
			Rating:         recording.Rating.Value,
			ReleaseStatus:  recording.ReleaseStatus(),
		}

		if err := i.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&row).Error; err != nil {
			return fmt.Errorf("failed to store recording %s: %w", recording.ID, err)
		}
		metrics.Get().IngestedRecordingsTotal.Inc()

		for _, tag := range recording.Tags {
			tagRow := models.RecordingTag{RecordingMBID: recording.ID, Tag: tag.Name, TagVotes: tag.Count}
			if err := i.db.WithContext(ctx).
				Clauses(clause.OnConflict{DoNothing: true}).
				Create(&tagRow).Error; err != nil {
				return fmt.Errorf("failed to store recording tag: %w", err)
			}
		}

		if err := i.db.WithContext(ctx).Exec(
			"INSERT INTO artist_recordings (artist_mbid, recording_mbid) VALUES (?, ?) ON CONFLICT DO NOTHING",
			artistMBID, recording.ID,
		).Error; err != nil {
			return fmt.Errorf("failed to link recording %s to artist %s: %w", recording.ID, artistMBID, err)
		}
	}

	return nil
}
