package main

import (
	"fmt"

	"github.com/special-song-search/backend/internal/catalog"
	"github.com/special-song-search/backend/internal/database"
	"github.com/special-song-search/backend/internal/logger"
	"github.com/special-song-search/backend/internal/models"
	"github.com/special-song-search/backend/internal/musicbrainz"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest artists and their recordings from MusicBrainz",
	Long: `Fetch artists for a country from the MusicBrainz web service and store
them with their recordings, tags, and ratings.

Requests are rate limited to one per second per the MusicBrainz API rules.
Set MBUA_APP, MBUA_VERSION, and MBUA_CONTACT so requests carry a proper
User-Agent.

Examples:
  songsearch ingest --country US --artists 50
  songsearch ingest --country SE --artists 10 --recordings 200`,
	RunE: func(cmd *cobra.Command, args []string) error {
		country, _ := cmd.Flags().GetString("country")
		nArtists, _ := cmd.Flags().GetInt("artists")
		nRecordings, _ := cmd.Flags().GetInt("recordings")

		if country == "" {
			return fmt.Errorf("--country is required (two-letter ISO code, e.g. US)")
		}

		client := musicbrainz.NewClient("")
		ingester := catalog.NewIngester(database.DB, client, logger.Log)

		if err := ingester.Fill(cmd.Context(), country, nArtists, nRecordings); err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}

		var artistCount, recordingCount int64
		database.DB.Model(&models.Artist{}).Where("country = ?", country).Count(&artistCount)
		database.DB.Model(&models.Recording{}).Count(&recordingCount)
		fmt.Printf("Catalog now holds %d artists for %s and %d recordings total\n",
			artistCount, country, recordingCount)
		return nil
	},
}

func init() {
	ingestCmd.Flags().String("country", "", "Two-letter country code to ingest artists for")
	ingestCmd.Flags().Int("artists", 25, "Number of artists to ingest")
	ingestCmd.Flags().Int("recordings", -1, "Recordings to fetch per artist (-1 for all)")
}
