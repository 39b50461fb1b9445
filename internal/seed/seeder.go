package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/special-song-search/backend/internal/logger"
	"github.com/special-song-search/backend/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Seeder fills a development catalog with plausible fake data so the
// recommendation engine can be exercised without hitting MusicBrainz.
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	_ = gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db}
}

var genrePool = []string{
	"jazz", "blues", "rock", "pop", "folk", "ambient", "electronic",
	"classical", "hip hop", "soul", "funk", "country", "metal", "punk",
	"live", "instrumental", "acoustic", "experimental",
}

var releaseStatuses = []string{"Official", "Official", "Official", "Bootleg", "Promotion"}

// SeedDev creates nArtists fake artists with up to recordingsPerArtist
// recordings each, tagged from a fixed genre pool. A handful of recordings
// get a second artist so join fan-out paths have data.
func (s *Seeder) SeedDev(nArtists, recordingsPerArtist int) error {
	logger.Log.Info("Seeding development catalog",
		zap.Int("artists", nArtists),
		zap.Int("recordings_per_artist", recordingsPerArtist),
	)

	artists := make([]*models.Artist, 0, nArtists)
	for i := 0; i < nArtists; i++ {
		artist := &models.Artist{
			MBID:    uuid.New().String(),
			Name:    gofakeit.Name(),
			Type:    "Person",
			Country: gofakeit.CountryAbr(),
			Rating:  float64(rand.Intn(50)) / 10,
		}
		if err := s.db.Create(artist).Error; err != nil {
			return fmt.Errorf("failed to seed artist: %w", err)
		}

		for _, genre := range pickGenres(2 + rand.Intn(3)) {
			tag := models.ArtistTag{
				ArtistMBID: artist.MBID,
				Tag:        genre,
				TagVotes:   1 + rand.Intn(20),
			}
			if err := s.db.Create(&tag).Error; err != nil {
				return fmt.Errorf("failed to seed artist tag: %w", err)
			}
		}
		artists = append(artists, artist)
	}

	for _, artist := range artists {
		n := 1 + rand.Intn(recordingsPerArtist)
		for i := 0; i < n; i++ {
			if err := s.seedRecording(artist, artists); err != nil {
				return err
			}
		}
	}

	logger.Log.Info("Development catalog seeded")
	return nil
}

func (s *Seeder) seedRecording(artist *models.Artist, all []*models.Artist) error {
	year := 1950 + rand.Intn(75)
	recording := &models.Recording{
		MBID:          uuid.New().String(),
		Title:         gofakeit.Song().Name,
		Length:        (60 + rand.Intn(540)) * 1000, // 1 to 10 minutes, ms
		Date:          fmt.Sprintf("%d", year),
		Year:          year,
		ReleaseStatus: releaseStatuses[rand.Intn(len(releaseStatuses))],
	}
	if err := s.db.Create(recording).Error; err != nil {
		return fmt.Errorf("failed to seed recording: %w", err)
	}

	for _, genre := range pickGenres(1 + rand.Intn(3)) {
		tag := models.RecordingTag{
			RecordingMBID: recording.MBID,
			Tag:           genre,
			TagVotes:      1 + rand.Intn(10),
		}
		if err := s.db.Create(&tag).Error; err != nil {
			return fmt.Errorf("failed to seed recording tag: %w", err)
		}
	}

	if err := s.link(artist.MBID, recording.MBID); err != nil {
		return err
	}

	// Roughly one in ten recordings is a collaboration
	if rand.Intn(10) == 0 && len(all) > 1 {
		other := all[rand.Intn(len(all))]
		if other.MBID != artist.MBID {
			if err := s.link(other.MBID, recording.MBID); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *Seeder) link(artistMBID, recordingMBID string) error {
	err := s.db.Exec(
		"INSERT INTO artist_recordings (artist_mbid, recording_mbid) VALUES (?, ?) ON CONFLICT DO NOTHING",
		artistMBID, recordingMBID,
	).Error
	if err != nil {
		return fmt.Errorf("failed to link artist and recording: %w", err)
	}
	return nil
}

// Clean removes all catalog data. Link rows go first so foreign keys
// never dangle mid-clean.
func (s *Seeder) Clean() error {
	statements := []string{
		"DELETE FROM artist_recordings",
		"DELETE FROM recording_tags",
		"DELETE FROM artist_tags",
		"DELETE FROM recordings",
		"DELETE FROM artists",
	}
	for _, stmt := range statements {
		if err := s.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to clean catalog: %w", err)
		}
	}
	return nil
}

func pickGenres(n int) []string {
	picked := make(map[string]struct{}, n)
	for len(picked) < n && len(picked) < len(genrePool) {
		picked[genrePool[rand.Intn(len(genrePool))]] = struct{}{}
	}
	genres := make([]string, 0, len(picked))
	for genre := range picked {
		genres = append(genres, genre)
	}
	return genres
}
