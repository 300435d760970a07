package cli

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rcliao/recall/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "review <item-id> <rating>",
		Short: "Grade an item and persist its next review date",
		Long: "Grade one review. Rating is 1-4 or again, hard, good, easy.\n" +
			"The update is applied under the store lock and written atomically.",
		Args: cobra.ExactArgs(2),
		Run:  runReview,
	}

	cmd.Flags().String("date", "", "Review date, YYYY-MM-DD (default today)")

	RootCmd.AddCommand(cmd)
}

func runReview(cmd *cobra.Command, args []string) {
	rating, err := model.ParseRating(args[1])
	if err != nil {
		exitErr("review", err)
	}
	at := dateFlag(cmd, "date")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	rec, err := s.UpdateAndSave(cmd.Context(), args[0], rating, at)
	if err != nil {
		exitErr("review", err)
	}

	log.Info().
		Str("item", rec.ItemID).
		Stringer("rating", rating).
		Int("interval", rec.Interval).
		Stringer("next_review", rec.NextReview).
		Msg("reviewed")

	printJSON(cmd, rec)
}
