package models

// Catalog entities mirror the MusicBrainz shapes the ingester pulls down.
// The engine treats all of them as read-only; only internal/catalog writes.
//
// Column names are pinned on every MBID field: the default naming strategy
// would split the initialism into "mb_id", and the scoring SQL addresses
// these columns by name.

// Artist is a catalog artist keyed by its MusicBrainz identifier.
type Artist struct {
	MBID           string  `gorm:"column:mbid;primaryKey;type:varchar(40)" json:"mbid"`
	Name           string  `json:"name"`
	Disambiguation string  `json:"disambiguation,omitempty"`
	Type           string  `json:"type,omitempty"`
	Gender         string  `json:"gender,omitempty"`
	Country        string  `gorm:"index" json:"country,omitempty"`
	LifeSpanBegin  string  `json:"life_span_begin,omitempty"`
	LifeSpanEnd    string  `json:"life_span_end,omitempty"`
	RatingVotes    int     `json:"rating_votes,omitempty"`
	Rating         float64 `json:"rating,omitempty"`

	Tags []ArtistTag `gorm:"foreignKey:ArtistMBID" json:"tags,omitempty"`
}

// Recording is a catalog recording keyed by its MusicBrainz identifier.
// Length is stored in milliseconds (the MusicBrainz unit). Date keeps the raw
// string from the API; Year is the normalized year-resolution value the
// recommendation engine filters and scores on.
type Recording struct {
	MBID           string  `gorm:"column:mbid;primaryKey;type:varchar(40)" json:"mbid"`
	Title          string  `json:"title"`
	Disambiguation string  `json:"disambiguation,omitempty"`
	Length         int     `gorm:"index" json:"length,omitempty"`
	Date           string  `json:"date,omitempty"`
	Year           int     `gorm:"index" json:"year,omitempty"`
	RatingVotes    int     `json:"rating_votes,omitempty"`
	Rating         float64 `json:"rating,omitempty"`
	ReleaseStatus  string  `gorm:"index" json:"release_status,omitempty"`

	Tags []RecordingTag `gorm:"foreignKey:RecordingMBID" json:"tags,omitempty"`
}

// ArtistRecording links artists to recordings. Collaborations produce one row
// per participating artist.
type ArtistRecording struct {
	ArtistMBID    string `gorm:"column:artist_mbid;primaryKey;type:varchar(40)" json:"artist_mbid"`
	RecordingMBID string `gorm:"column:recording_mbid;primaryKey;type:varchar(40)" json:"recording_mbid"`
}

// TableName keeps the link table name stable for the raw SQL that reads it.
func (ArtistRecording) TableName() string {
	return "artist_recordings"
}

// ArtistTag is one genre/folksonomy tag on an artist. The (artist, tag) pair is
// the natural key; TagVotes is carried for display but scoring only checks
// presence.
type ArtistTag struct {
	ArtistMBID string `gorm:"column:artist_mbid;primaryKey;type:varchar(40)" json:"artist_mbid"`
	Tag        string `gorm:"primaryKey;type:varchar(255);index" json:"tag"`
	TagVotes   int    `json:"tag_votes"`
}

// RecordingTag is one tag on a recording, same key shape as ArtistTag.
type RecordingTag struct {
	RecordingMBID string `gorm:"column:recording_mbid;primaryKey;type:varchar(40)" json:"recording_mbid"`
	Tag           string `gorm:"primaryKey;type:varchar(255);index" json:"tag"`
	TagVotes      int    `json:"tag_votes"`
}
