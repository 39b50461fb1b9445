package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/special-song-search/backend/internal/database"
	"github.com/special-song-search/backend/internal/logger"
	"github.com/special-song-search/backend/internal/recommend"
	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Run a recommendation query against the catalog",
	Long: `Run a recommendation query from a JSON criteria file and print the
ranked recordings.

Examples:
  songsearch recommend --criteria criteria.json
  songsearch recommend --criteria criteria.json --output json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("criteria")
		if path == "" {
			return fmt.Errorf("--criteria is required")
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read criteria file: %w", err)
		}

		var criteria recommend.Criteria
		if err := json.Unmarshal(data, &criteria); err != nil {
			return fmt.Errorf("failed to parse criteria file: %w", err)
		}

		engine := recommend.NewEngine(database.DB, logger.Log)
		recs, err := engine.Recommend(cmd.Context(), criteria)
		if err != nil {
			return err
		}

		if output == "json" {
			payload, err := json.MarshalIndent(recs, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(payload))
			return nil
		}

		printRecommendations(recs)
		return nil
	},
}

func init() {
	recommendCmd.Flags().StringP("criteria", "c", "", "Path to a JSON criteria file")
}

func printRecommendations(recs []recommend.Recommendation) {
	if len(recs) == 0 {
		fmt.Println("No recordings matched the criteria")
		return
	}

	for i, rec := range recs {
		names := make([]string, 0, len(rec.Artists))
		for _, artist := range rec.Artists {
			names = append(names, artist.Name)
		}

		fmt.Printf("%3d. %s", i+1, rec.Recording.Title)
		if len(names) > 0 {
			fmt.Printf(" by %s", strings.Join(names, ", "))
		}
		fmt.Printf("\n     score=%.3f filter=%.3f", rec.Score, rec.FilterScore)
		if rec.Recording.Length > 0 {
			fmt.Printf(" length=%ds", rec.Recording.Length/1000)
		}
		if rec.Recording.Year > 0 {
			fmt.Printf(" year=%d", rec.Recording.Year)
		}
		fmt.Printf("\n")
	}
}
