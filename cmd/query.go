package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/libsearch/internal/resource"
)

var (
	queryURL     string
	queryJSON    bool
	queryTimeout time.Duration
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Faint(true)
)

var queryCmd = &cobra.Command{
	Use:       "query <libs|repos>",
	Short:     "Fetch a collection from a running libsearch server",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"libs", "repos"},
	RunE: func(cmd *cobra.Command, args []string) error {
		base := queryURL
		if base == "" {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			base = cfg.ResolvedAPIBaseURL()
		}

		opts := []resource.Option{resource.WithLogger(logger.Named("resource"))}
		client := resource.Libs(base, opts...)
		if args[0] == "repos" {
			client = resource.Repos(base, opts...)
		}

		ctx := cmd.Context()
		if queryTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, queryTimeout)
			defer cancel()
		}

		items, err := client.Fetch(ctx)
		if err != nil {
			return err
		}

		if queryJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		}
		printItems(cmd.OutOrStdout(), args[0], items)
		return nil
	},
}

func printItems(w io.Writer, kind string, items []resource.Item) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%d %s", len(items), kind)))
	for _, it := range items {
		line := "• " + titleStyle.Render(displayName(it))
		if desc, ok := it["description"].(string); ok && desc != "" {
			line += "  " + mutedStyle.Render(desc)
		}
		fmt.Fprintln(w, line)
	}
}

func displayName(it resource.Item) string {
	for _, k := range []string{"name", "full_name", "title", "id"} {
		if v, ok := it[k]; ok && v != nil {
			return fmt.Sprint(v)
		}
	}
	return "(untitled)"
}

func init() {
	queryCmd.Flags().StringVar(&queryURL, "url", "", "API base URL (default: api_base_url from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "print raw JSON")
	queryCmd.Flags().DurationVar(&queryTimeout, "timeout", 0, "give up after this long (0 waits forever)")
	rootCmd.AddCommand(queryCmd)
}
