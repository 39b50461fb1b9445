package catalog

import (
	"context"
	"testing"

	"github.com/special-song-search/backend/internal/models"
	"github.com/special-song-search/backend/internal/musicbrainz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeSource serves canned MusicBrainz responses.
type fakeSource struct {
	artists       []musicbrainz.Artist
	recordings    map[string][]musicbrainz.Recording
	searchOffsets []int
}

func (f *fakeSource) SearchArtists(_ context.Context, _ string, offset, n int) ([]musicbrainz.Artist, error) {
	f.searchOffsets = append(f.searchOffsets, offset)
	if offset >= len(f.artists) {
		return nil, nil
	}
	end := offset + n
	if end > len(f.artists) {
		end = len(f.artists)
	}
	return f.artists[offset:end], nil
}

func (f *fakeSource) ArtistRecordings(_ context.Context, artistMBID string, _ int) ([]musicbrainz.Recording, error) {
	return f.recordings[artistMBID], nil
}

func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Artist{},
		&models.ArtistTag{},
		&models.Recording{},
		&models.RecordingTag{},
		&models.ArtistRecording{},
	))
	return db
}

func sampleSource() *fakeSource {
	return &fakeSource{
		artists: []musicbrainz.Artist{
			{
				ID:      "a1",
				Name:    "Ella Fitzgerald",
				Country: "US",
				LifeSpan: musicbrainz.LifeSpan{
					Begin: "1917-04-25",
					End:   "1996-06-15",
				},
				Tags: []musicbrainz.Tag{{Name: "jazz", Count: 12}},
			},
			{
				ID:      "a2",
				Name:    "Duke Ellington",
				Country: "US",
				Tags:    []musicbrainz.Tag{{Name: "jazz", Count: 9}, {Name: "big band", Count: 3}},
			},
		},
		recordings: map[string][]musicbrainz.Recording{
			"a1": {
				{
					ID:               "r1",
					Title:            "Dream a Little Dream",
					Length:           187000,
					FirstReleaseDate: "1950-06",
					Tags:             []musicbrainz.Tag{{Name: "vocal", Count: 2}},
					Releases:         []musicbrainz.Release{{Status: "Official"}},
				},
			},
			"a2": {
				// Same recording through a second artist: a collaboration.
				{
					ID:               "r1",
					Title:            "Dream a Little Dream",
					Length:           187000,
					FirstReleaseDate: "1950-06",
					Releases:         []musicbrainz.Release{{Status: "Official"}},
				},
				{
					ID:               "r2",
					Title:            "Take the A Train",
					Length:           175000,
					FirstReleaseDate: "1941",
				},
			},
		},
	}
}

func TestFillIngestsCatalog(t *testing.T) {
	db := newTestDB(t)
	source := sampleSource()
	ingester := NewIngester(db, source, nil)

	require.NoError(t, ingester.Fill(context.Background(), "US", 2, -1))

	var artistCount, recordingCount, artistTagCount, recordingTagCount, linkCount int64
	db.Model(&models.Artist{}).Count(&artistCount)
	db.Model(&models.Recording{}).Count(&recordingCount)
	db.Model(&models.ArtistTag{}).Count(&artistTagCount)
	db.Model(&models.RecordingTag{}).Count(&recordingTagCount)
	db.Table("artist_recordings").Count(&linkCount)

	assert.EqualValues(t, 2, artistCount)
	assert.EqualValues(t, 2, recordingCount) // r1 deduplicated across artists
	assert.EqualValues(t, 3, artistTagCount)
	assert.EqualValues(t, 1, recordingTagCount)
	assert.EqualValues(t, 3, linkCount) // a1-r1, a2-r1, a2-r2

	var recording models.Recording
	require.NoError(t, db.First(&recording, "mbid = ?", "r1").Error)
	assert.Equal(t, "1950-06", recording.Date)
	assert.Equal(t, 1950, recording.Year)
	assert.Equal(t, "Official", recording.ReleaseStatus)

	var artist models.Artist
	require.NoError(t, db.First(&artist, "mbid = ?", "a1").Error)
	assert.Equal(t, "1917-04-25", artist.LifeSpanBegin)
}

func TestFillOffsetsBeyondExistingArtists(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&models.Artist{MBID: "existing", Name: "Seeded", Country: "US"}).Error)

	source := sampleSource()
	ingester := NewIngester(db, source, nil)

	require.NoError(t, ingester.Fill(context.Background(), "US", 1, -1))

	require.Len(t, source.searchOffsets, 1)
	assert.Equal(t, 1, source.searchOffsets[0])
}

func TestFillIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	source := sampleSource()
	ingester := NewIngester(db, source, nil)

	require.NoError(t, ingester.Fill(context.Background(), "US", 2, -1))

	// A second run re-sees the same artists (the fake ignores pagination
	// beyond its data) and must not duplicate rows or links.
	source.searchOffsets = nil
	sourceAgain := sampleSource()
	ingesterAgain := NewIngester(db, sourceAgain, nil)
	// Offset is now 2, past the fake's two artists, so nothing new arrives.
	require.NoError(t, ingesterAgain.Fill(context.Background(), "US", 2, -1))

	var linkCount int64
	db.Table("artist_recordings").Count(&linkCount)
	assert.EqualValues(t, 3, linkCount)
}

func TestYearNormalization(t *testing.T) {
	db := newTestDB(t)
	source := &fakeSource{
		artists: []musicbrainz.Artist{{ID: "a1", Name: "Solo", Country: "US"}},
		recordings: map[string][]musicbrainz.Recording{
			"a1": {
				{ID: "r1", Title: "Dated", FirstReleaseDate: "1969-01-12"},
				{ID: "r2", Title: "Year Only", FirstReleaseDate: "1984"},
				{ID: "r3", Title: "Undated"},
			},
		},
	}

	require.NoError(t, NewIngester(db, source, nil).Fill(context.Background(), "US", 1, -1))

	years := map[string]int{}
	var recordings []models.Recording
	require.NoError(t, db.Find(&recordings).Error)
	for _, r := range recordings {
		years[r.MBID] = r.Year
	}
	assert.Equal(t, 1969, years["r1"])
	assert.Equal(t, 1984, years["r2"])
	assert.Equal(t, 0, years["r3"])
}
