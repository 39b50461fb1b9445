package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func migratedDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&Artist{},
		&ArtistTag{},
		&Recording{},
		&RecordingTag{},
		&ArtistRecording{},
	))
	return db
}

// The scoring and link SQL addresses MBID columns by name, so the migrated
// schema must keep the initialism fused instead of the default "mb_id" split.
func TestMigratedMBIDColumnNames(t *testing.T) {
	db := migratedDB(t)

	assert.True(t, db.Migrator().HasColumn(&Artist{}, "mbid"))
	assert.True(t, db.Migrator().HasColumn(&Recording{}, "mbid"))
	assert.True(t, db.Migrator().HasColumn(&ArtistTag{}, "artist_mbid"))
	assert.True(t, db.Migrator().HasColumn(&RecordingTag{}, "recording_mbid"))
	assert.True(t, db.Migrator().HasColumn(&ArtistRecording{}, "artist_mbid"))
	assert.True(t, db.Migrator().HasColumn(&ArtistRecording{}, "recording_mbid"))

	assert.False(t, db.Migrator().HasColumn(&Recording{}, "mb_id"))
	assert.False(t, db.Migrator().HasColumn(&ArtistRecording{}, "artist_mb_id"))
}

// The link insert and the ordered candidate query are the two raw statements
// most sensitive to column naming; both must run against the migrated schema.
func TestRawCatalogSQLMatchesSchema(t *testing.T) {
	db := migratedDB(t)

	require.NoError(t, db.Create(&Artist{MBID: "a1", Name: "Ella"}).Error)
	require.NoError(t, db.Create(&Recording{MBID: "r1", Title: "Night Session"}).Error)
	require.NoError(t, db.Exec(
		"INSERT INTO artist_recordings (artist_mbid, recording_mbid) VALUES (?, ?) ON CONFLICT DO NOTHING",
		"a1", "r1",
	).Error)

	var mbids []string
	require.NoError(t, db.Raw(
		"SELECT recordings.mbid FROM recordings ORDER BY recordings.mbid ASC",
	).Scan(&mbids).Error)
	assert.Equal(t, []string{"r1"}, mbids)

	var links int64
	require.NoError(t, db.Table("artist_recordings").
		Where("artist_mbid = ? AND recording_mbid = ?", "a1", "r1").
		Count(&links).Error)
	assert.EqualValues(t, 1, links)
}
