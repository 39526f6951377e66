package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	murmur "github.com/kailas-cloud/murmur/pkg/sdk"
)

const snippetRunes = 60

func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search posts and statuses offline",
		Long: heredoc.Doc(`
			Ranks the configured post and status directories without a running
			server. A single character matches tags and status names only;
			/pattern/flags runs a regular expression over the full text.
		`),
		Example: heredoc.Doc(`
			murmur search golang
			murmur search --limit 5 --json "release notes"
			murmur search '/deploy(ed|ing)/i'
		`),
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum results (0 for all)")
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("all", false, "Ignore the view time limit")
	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")
	all, _ := cmd.Flags().GetBool("all")
	if limit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}

	cfg, _, err := loadConfig(configFlags(cmd))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	window := cfg.Content.ViewTimeLimitDays
	if all {
		window = 0
	}
	client, err := murmur.New(
		murmur.WithContentDirs(cfg.Content.PostsDir, cfg.Content.StatusesDir),
		murmur.WithSegmenter(cfg.Search.Segmenter),
		murmur.WithViewTimeLimit(window),
	)
	if err != nil {
		return err
	}

	res, err := client.Search(cmd.Context(), args[0], limit)
	if err != nil {
		return err
	}

	if asJSON {
		return outputSearchJSON(cmd.OutOrStdout(), res)
	}
	return outputSearchTable(cmd.OutOrStdout(), res)
}

type searchItemJSON struct {
	Type     string         `json:"type"`
	ID       string         `json:"id"`
	Filename string         `json:"filename"`
	Meta     map[string]any `json:"meta"`
	Raw      string         `json:"raw"`
}

func outputSearchJSON(w io.Writer, res murmur.SearchResult) error {
	items := make([]searchItemJSON, len(res.Items))
	for i, e := range res.Items {
		items[i] = searchItemJSON{Type: e.Type, ID: e.ID, Filename: e.Filename, Meta: e.Meta, Raw: e.Raw}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"query": res.Query,
		"count": res.Count,
		"items": items,
	})
}

func outputSearchTable(w io.Writer, res murmur.SearchResult) error {
	if res.Count == 0 {
		_, err := fmt.Fprintf(w, "no results for %q\n", res.Query)
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, e := range res.Items {
		when := ""
		if t, ok := e.Meta["time"].(string); ok {
			when = t
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", when, e.Type, e.ID, label(e), snippet(e.Raw))
	}
	return tw.Flush()
}

// label is the status name or the post's tags.
func label(e murmur.Entry) string {
	if e.Type == "status" {
		name, _ := e.Meta["name"].(string)
		return name
	}
	tags, _ := e.Meta["tags"].([]string)
	if len(tags) == 0 {
		return "-"
	}
	return "#" + strings.Join(tags, " #")
}

func snippet(raw string) string {
	line := strings.Join(strings.Fields(raw), " ")
	runes := []rune(line)
	if len(runes) <= snippetRunes {
		return line
	}
	return string(runes[:snippetRunes-1]) + "…"
}
