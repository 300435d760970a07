package cli

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/rcliao/recall/internal/fsrs"
	"github.com/rcliao/recall/internal/model"
)

type prediction struct {
	ItemID      string  `json:"item_id"`
	DomainTag   string  `json:"domain_tag,omitempty"`
	Date        string  `json:"date"`
	ElapsedDays int     `json:"elapsed_days"`
	Retention   float64 `json:"retention"`
	NextReview  string  `json:"next_review"`
}

func init() {
	cmd := &cobra.Command{
		Use:   "predict [item-id]",
		Short: "Predict recall probability on a date",
		Long: "Predict the probability of recall on --on (default today) or --days after\n" +
			"today. Without an id, lists every reviewed item, weakest first.",
		Args: cobra.MaximumNArgs(1),
		Run:  runPredict,
	}

	cmd.Flags().String("on", "", "Target date, YYYY-MM-DD (default today)")
	cmd.Flags().Int("days", 0, "Days after the target date")
	cmd.Flags().StringP("domain", "d", "", "Filter by domain (list mode)")

	RootCmd.AddCommand(cmd)
}

func runPredict(cmd *cobra.Command, args []string) {
	days, _ := cmd.Flags().GetInt("days")
	domain, _ := cmd.Flags().GetString("domain")
	on := dateFlag(cmd, "on").AddDays(days)

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	m := s.Scheduler().Model

	if len(args) == 1 {
		rec, err := s.Get(cmd.Context(), args[0])
		if err != nil {
			exitErr("predict", err)
		}
		printJSON(cmd, predict(m, *rec, on))
		return
	}

	recs, err := s.ExportAll(cmd.Context(), domain)
	if err != nil {
		exitErr("predict", err)
	}
	out := []prediction{}
	for _, rec := range recs {
		if rec.IsNew() {
			continue
		}
		out = append(out, predict(m, rec, on))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Retention < out[j].Retention
	})
	printJSON(cmd, out)
}

func predict(m *fsrs.Model, rec model.Record, on model.Date) prediction {
	p := prediction{
		ItemID:     rec.ItemID,
		DomainTag:  rec.DomainTag,
		Date:       on.String(),
		Retention:  predictOn(m, rec.MemoryState, on),
		NextReview: rec.NextReview.String(),
	}
	if rec.LastReview != nil {
		p.ElapsedDays = on.DaysSince(*rec.LastReview)
	}
	return p
}

// predictOn returns the retrievability of st on the given day.
func predictOn(m *fsrs.Model, st model.MemoryState, on model.Date) float64 {
	if st.LastReview == nil {
		return 0
	}
	return m.PredictRetention(st, on.DaysSince(*st.LastReview))
}
