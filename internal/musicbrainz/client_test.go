package musicbrainz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchArtists(t *testing.T) {
	var gotQuery, gotFmt, gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/artist", r.URL.Path)
		gotQuery = r.URL.Query().Get("query")
		gotFmt = r.URL.Query().Get("fmt")
		gotUA = r.Header.Get("User-Agent")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"count": 2,
			"offset": 0,
			"artists": [
				{
					"id": "a1",
					"name": "Ella Fitzgerald",
					"type": "Person",
					"country": "US",
					"life-span": {"begin": "1917-04-25", "end": "1996-06-15"},
					"tags": [{"name": "jazz", "count": 12}, {"name": "swing", "count": 4}]
				},
				{"id": "a2", "name": "Unknown Artist", "country": "US"}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	artists, err := client.SearchArtists(context.Background(), "US", 0, 2)
	require.NoError(t, err)

	assert.Equal(t, "country:US", gotQuery)
	assert.Equal(t, "json", gotFmt)
	assert.NotEmpty(t, gotUA)

	require.Len(t, artists, 2)
	assert.Equal(t, "a1", artists[0].ID)
	assert.Equal(t, "Ella Fitzgerald", artists[0].Name)
	assert.Equal(t, "1917-04-25", artists[0].LifeSpan.Begin)
	require.Len(t, artists[0].Tags, 2)
	assert.Equal(t, "jazz", artists[0].Tags[0].Name)
	assert.Equal(t, 12, artists[0].Tags[0].Count)
	assert.Empty(t, artists[1].Tags)
}

func TestSearchArtistsStopsOnEmptyPage(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"count": 0, "offset": 0, "artists": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	artists, err := client.SearchArtists(context.Background(), "US", 0, 50)
	require.NoError(t, err)
	assert.Empty(t, artists)
	assert.Equal(t, 1, calls)
}

func TestArtistRecordings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/recording", r.URL.Path)
		assert.Equal(t, "a1", r.URL.Query().Get("artist"))
		assert.Equal(t, "tags+ratings+releases", r.URL.Query().Get("inc"))

		w.Write([]byte(`{
			"recording-count": 1,
			"recording-offset": 0,
			"recordings": [
				{
					"id": "r1",
					"title": "Night Session",
					"length": 180000,
					"first-release-date": "2020-03-01",
					"tags": [{"name": "live", "count": 3}],
					"rating": {"votes-count": 7, "value": 4.5},
					"releases": [{"status": "Official"}]
				}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	recordings, err := client.ArtistRecordings(context.Background(), "a1", -1)
	require.NoError(t, err)

	require.Len(t, recordings, 1)
	rec := recordings[0]
	assert.Equal(t, "r1", rec.ID)
	assert.Equal(t, 180000, rec.Length)
	assert.Equal(t, "2020-03-01", rec.FirstReleaseDate)
	assert.Equal(t, "Official", rec.ReleaseStatus())
	assert.Equal(t, 4.5, rec.Rating.Value)
}

func TestAPIErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.SearchArtists(context.Background(), "US", 0, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}
