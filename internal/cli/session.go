package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rcliao/recall/internal/session"
)

func init() {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Build today's review session",
		Long: "Select due items, group related ones into clusters using the relation\n" +
			"graph, order clusters by urgency and density, and cap the batch.",
		Run: runSession,
	}

	cmd.Flags().String("today", "", "Session date, YYYY-MM-DD (default today)")
	cmd.Flags().IntP("limit", "l", 0, "Max items (default: session.limit from config)")
	cmd.Flags().StringP("domain", "d", "", "Only items in this domain")
	cmd.Flags().StringP("graph", "g", "", "Relation graph (.json or .db; default: session.graph from config)")
	cmd.Flags().StringSliceP("rel", "r", nil, "Only follow these relation types")

	RootCmd.AddCommand(cmd)
}

func runSession(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	domain, _ := cmd.Flags().GetString("domain")
	rels, _ := cmd.Flags().GetStringSlice("rel")
	today := dateFlag(cmd, "today")

	if limit <= 0 {
		limit = cfg.Session.Limit
	}
	if len(rels) == 0 {
		rels = cfg.Session.RelationTypes
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	sched, err := s.Load(cmd.Context())
	if err != nil {
		exitErr("load schedule", err)
	}
	g, err := loadGraph(cmd)
	if err != nil {
		exitErr("load graph", err)
	}

	sess, err := session.Build(sched.Records(), g, session.Options{
		Today:         today,
		Limit:         limit,
		Domain:        domain,
		RelationTypes: rels,
	})
	if err != nil {
		exitErr("session", err)
	}

	log.Debug().
		Str("session", sess.ID).
		Int("due", sess.TotalDue).
		Int("clusters", len(sess.Clusters)).
		Msg("session built")

	if textOutput() {
		w := cmd.OutOrStdout()
		for _, c := range sess.Clusters {
			fmt.Fprintf(w, "cluster %d (%d edges)\n", c.ID, c.Edges)
			for _, id := range c.Items {
				fmt.Fprintf(w, "  %s\n", id)
			}
		}
		if sess.HasMore {
			fmt.Fprintf(w, "%d more due\n", sess.Remaining)
		}
		return
	}
	printJSON(cmd, sess)
}
