package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/recall/internal/model"
	"github.com/rcliao/recall/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "add [item-id...]",
		Short: "Add never-reviewed items to the schedule",
		Long: "Add items by id, due on --due (default today). With no ids, reads a JSON\n" +
			"array of {item_id, domain_tag, title} from stdin. Existing ids are left alone.",
		Run: runAdd,
	}

	cmd.Flags().StringP("domain", "d", "", "Domain tag for the given ids")
	cmd.Flags().StringP("title", "t", "", "Title (only with a single id)")
	cmd.Flags().String("due", "", "First due date, YYYY-MM-DD (default today)")

	RootCmd.AddCommand(cmd)
}

func runAdd(cmd *cobra.Command, args []string) {
	domain, _ := cmd.Flags().GetString("domain")
	title, _ := cmd.Flags().GetString("title")
	due := dateFlag(cmd, "due")

	items, err := newItems(args, domain, title, stdinIfPiped(cmd))
	if err != nil {
		exitErr("add", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	added, err := s.Register(cmd.Context(), due, items...)
	if err != nil {
		exitErr("add", err)
	}

	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ItemID
	}
	printJSON(cmd, map[string]any{
		"ok":      true,
		"added":   added,
		"skipped": len(items) - added,
		"due":     due.String(),
		"ids":     ids,
	})
}

// stdinIfPiped returns the command's input unless it is an interactive
// terminal.
func stdinIfPiped(cmd *cobra.Command) io.Reader {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil || stat.Mode()&os.ModeCharDevice != 0 {
			return nil
		}
	}
	return in
}

// newItems builds the items to register from ids, or from a JSON array on
// in when no ids are given. Bad input wraps a model sentinel.
func newItems(ids []string, domain, title string, in io.Reader) ([]store.NewItem, error) {
	var items []store.NewItem
	if len(ids) > 0 {
		if title != "" && len(ids) > 1 {
			return nil, fmt.Errorf("%w: --title needs exactly one item id", model.ErrInvalidItemID)
		}
		for _, id := range ids {
			items = append(items, store.NewItem{ItemID: id, DomainTag: domain, Title: title})
		}
		return items, nil
	}

	if in != nil {
		b, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		if len(bytes.TrimSpace(b)) > 0 {
			if err := json.Unmarshal(b, &items); err != nil {
				return nil, fmt.Errorf("%w: parse json: %v", model.ErrInvalidState, err)
			}
		}
		for i := range items {
			if items[i].DomainTag == "" {
				items[i].DomainTag = domain
			}
		}
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: at least one item id is required (args or stdin)", model.ErrInvalidItemID)
	}
	return items, nil
}
