package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/recall/internal/graph"
)

func init() {
	cmd := &cobra.Command{
		Use:   "relations <item-id>",
		Short: "Show an item's relations from the graph",
		Args:  cobra.ExactArgs(1),
		Run:   runRelations,
	}

	cmd.Flags().StringP("graph", "g", "", "Relation graph (.json or .db; default: session.graph from config)")
	cmd.Flags().StringSliceP("rel", "r", nil, "Only these relation types in neighbors")

	RootCmd.AddCommand(cmd)
}

func runRelations(cmd *cobra.Command, args []string) {
	rels, _ := cmd.Flags().GetStringSlice("rel")

	g, err := loadGraph(cmd)
	if err != nil {
		exitErr("load graph", err)
	}

	var types map[string]bool
	if len(rels) > 0 {
		types = make(map[string]bool, len(rels))
		for _, r := range rels {
			types[r] = true
		}
	}

	rel := g.Relations(args[0])
	if rel.Outgoing == nil {
		rel.Outgoing = []graph.Neighbor{}
	}
	if rel.Incoming == nil {
		rel.Incoming = []graph.Neighbor{}
	}
	neighbors := g.Neighbors(args[0], types)
	if neighbors == nil {
		neighbors = []string{}
	}

	printJSON(cmd, map[string]any{
		"item_id":   args[0],
		"outgoing":  rel.Outgoing,
		"incoming":  rel.Incoming,
		"neighbors": neighbors,
	})
}
