package main

import (
	"encoding/json"
	"fmt"

	"github.com/special-song-search/backend/internal/database"
	"github.com/special-song-search/backend/internal/logger"
	"github.com/special-song-search/backend/internal/recommend"
	"github.com/spf13/cobra"
)

var tagsCmd = &cobra.Command{
	Use:   "tags <artist|recording>",
	Short: "List the distinct tag vocabulary for an entity class",
	Long: `List every distinct tag stored for artists or recordings. These are
the usable keys for the tag weight maps in a criteria file.

Examples:
  songsearch tags artist
  songsearch tags recording --output json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine := recommend.NewEngine(database.DB, logger.Log)
		tags, err := engine.TagOptions(cmd.Context(), recommend.EntityType(args[0]))
		if err != nil {
			return err
		}

		if output == "json" {
			payload, err := json.Marshal(tags)
			if err != nil {
				return err
			}
			fmt.Println(string(payload))
			return nil
		}

		for _, tag := range tags {
			fmt.Println(tag)
		}
		fmt.Printf("\n%d tags\n", len(tags))
		return nil
	},
}
