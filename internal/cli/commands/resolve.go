package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dougwollison/index-pages/internal/cli/ui"
	"github.com/dougwollison/index-pages/internal/query"
	"github.com/dougwollison/index-pages/internal/web/request"
	"github.com/dougwollison/index-pages/internal/web/router"
)

func newResolveCommand(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "resolve <path>",
		Short: "Show how a request path is routed",
		Long: `Resolve a path the way the front controller does and print the
rewrite outcome, the final query vars and the current index page.

Example:
  indexpages resolve /articles/page/2
  indexpages resolve '/articles/2024/05?s=jazz'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := url.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid path %q: %w", args[0], err)
			}

			ctx := cmd.Context()
			a, err := opts.openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			reg, err := a.LoadRegistry(ctx)
			if err != nil {
				fmt.Fprint(cmd.ErrOrStderr(), ui.Warning("serving with partial index page bindings: "+err.Error(), opts.noColor))
			}

			req := request.ResolvePath(u.Path, query.FromURL(u.Query()))
			view, status := router.NewHandlers(a).View(reg, req)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}

			kv := ui.NewKeyValueTable(out, color.NoColor)
			kv.AddRow("status", fmt.Sprintf("%d %s", status, http.StatusText(status)))
			kv.AddRow("outcome", view.Outcome.String())
			if view.Title != "" {
				kv.AddRow("title", view.Title)
			}
			if view.IndexPage != nil {
				kv.AddRow("index page", fmt.Sprintf("%d %s", view.IndexPage.ID, view.IndexPage.Title))
			}
			if view.ArchiveLink != "" {
				kv.AddRow("archive link", view.ArchiveLink)
			}
			if view.DateLink != "" {
				kv.AddRow("date link", view.DateLink)
			}
			kv.AddRow("flags", strings.Join(sortedFlags(view.Flags), " "))
			kv.Render()

			table := ui.NewTable(out, []string{"VAR", "VALUE"}, color.NoColor)
			for _, name := range sortedKeys(view.Vars) {
				table.AddRow(name, formatVar(view.Vars[name]))
			}
			fmt.Fprintln(out)
			table.Render()
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func sortedFlags(flags map[string]bool) []string {
	names := make([]string, 0, len(flags))
	for name := range flags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedKeys(vars query.Vars) []string {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// formatVar prints scalars as is and everything else as JSON
func formatVar(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
