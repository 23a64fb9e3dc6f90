package commands

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dougwollison/index-pages/internal/app"
	"github.com/dougwollison/index-pages/internal/cli/ui"
	"github.com/dougwollison/index-pages/internal/content"
	"github.com/dougwollison/index-pages/internal/registry"
)

func newLookupCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Look up index page bindings",
	}

	cmd.AddCommand(newLookupIndexPageCommand(opts))
	cmd.AddCommand(newLookupTermPageCommand(opts))
	cmd.AddCommand(newLookupIsIndexCommand(opts))
	cmd.AddCommand(newLookupIsTermCommand(opts))
	cmd.AddCommand(newLookupBindingsCommand(opts))
	return cmd
}

// withRegistry opens the app, loads a registry and runs fn. A storage
// failure while loading is reported as a warning; fn still runs on the
// partial bindings.
func withRegistry(cmd *cobra.Command, opts *rootOptions, fn func(a *app.App, reg *registry.Registry) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := opts.openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck

	reg, err := a.LoadRegistry(ctx)
	if err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), ui.Warning("partial index page bindings: "+err.Error(), opts.noColor))
	}
	return fn(a, reg)
}

func newLookupIndexPageCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "index-page <post-type>",
		Short: "Show the page bound to a post type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			postType := args[0]
			return withRegistry(cmd, opts, func(a *app.App, reg *registry.Registry) error {
				if !reg.IsPostTypeSupported(postType) {
					return unsupportedPostType(a.Site, postType, opts.noColor)
				}
				pageID, ok := reg.GetIndexPage(postType)
				if !ok {
					return notBound("post type '"+postType+"'", opts.noColor)
				}
				printPage(cmd, a.Site, pageID)
				return nil
			})
		},
	}
}

func newLookupTermPageCommand(opts *rootOptions) *cobra.Command {
	var taxonomy string

	cmd := &cobra.Command{
		Use:   "term-page <term-id|slug>",
		Short: "Show the page bound to a term",
		Long: `Show the page bound to a term. Terms can be named by id, or by
slug together with --taxonomy.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ref registry.TermRef
			if id, err := strconv.Atoi(args[0]); err == nil {
				ref = registry.TermID(id)
			} else if taxonomy == "" {
				return fmt.Errorf("--taxonomy is required when looking up term %q by slug", args[0])
			} else {
				ref = registry.TermSlug(args[0])
			}

			return withRegistry(cmd, opts, func(a *app.App, reg *registry.Registry) error {
				pageID, ok := reg.GetTermPage(ref, taxonomy)
				if !ok {
					return notBound("term '"+args[0]+"'", opts.noColor)
				}
				printPage(cmd, a.Site, pageID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&taxonomy, "taxonomy", "t", "", "taxonomy of the term")
	return cmd
}

func newLookupIsIndexCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "is-index <page-id>",
		Short: "Show the post types a page is the index page for",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pageID, err := parsePageID(args[0])
			if err != nil {
				return err
			}
			return withRegistry(cmd, opts, func(a *app.App, reg *registry.Registry) error {
				postTypes := reg.IndexPostTypes(pageID)
				if len(postTypes) == 0 {
					return notBound(fmt.Sprintf("page %d", pageID), opts.noColor)
				}
				table := ui.NewTable(cmd.OutOrStdout(), []string{"POST TYPE", "ARCHIVE"}, color.NoColor)
				for _, pt := range postTypes {
					link, _ := a.Site.ArchiveLink(pt)
					table.AddRow(pt, link)
				}
				table.Render()
				return nil
			})
		},
	}
}

func newLookupIsTermCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "is-term <page-id>",
		Short: "Show the terms a page is the index page for",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pageID, err := parsePageID(args[0])
			if err != nil {
				return err
			}
			return withRegistry(cmd, opts, func(a *app.App, reg *registry.Registry) error {
				terms := reg.TermPages(pageID)
				if len(terms) == 0 {
					return notBound(fmt.Sprintf("page %d", pageID), opts.noColor)
				}
				table := ui.NewTable(cmd.OutOrStdout(), []string{"TERM", "TAXONOMY", "SLUG", "NAME"}, color.NoColor)
				for _, term := range terms {
					table.AddRow(strconv.Itoa(term.ID), term.Taxonomy, term.Slug, term.Name)
				}
				table.Render()
				return nil
			})
		},
	}
}

func newLookupBindingsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "bindings",
		Short: "List every stored binding",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRegistry(cmd, opts, func(a *app.App, reg *registry.Registry) error {
				b := reg.Bindings()
				out := cmd.OutOrStdout()

				postTypes := make([]string, 0, len(b.PostTypes()))
				for pt := range b.PostTypes() {
					postTypes = append(postTypes, pt)
				}
				sort.Strings(postTypes)

				table := ui.NewTable(out, []string{"POST TYPE", "PAGE", "SUPPORTED"}, color.NoColor)
				for _, pt := range postTypes {
					table.AddRow(pt, strconv.Itoa(b.PostTypes()[pt]), strconv.FormatBool(reg.IsPostTypeSupported(pt)))
				}
				table.Render()
				fmt.Fprintln(out)

				termIDs := make([]int, 0, len(b.Terms()))
				for id := range b.Terms() {
					termIDs = append(termIDs, id)
				}
				sort.Ints(termIDs)

				table = ui.NewTable(out, []string{"TERM", "TAXONOMY", "PAGE"}, color.NoColor)
				for _, id := range termIDs {
					taxonomy := "-"
					if term, ok := a.Site.Term(id); ok {
						taxonomy = term.Taxonomy
					}
					table.AddRow(strconv.Itoa(id), taxonomy, strconv.Itoa(b.Terms()[id]))
				}
				table.Render()
				fmt.Fprintln(out)

				kv := ui.NewKeyValueTable(out, color.NoColor)
				kv.AddRow("taxonomies", fmt.Sprint(b.SupportedTaxonomies()))
				kv.Render()
				return nil
			})
		},
	}
}

func printPage(cmd *cobra.Command, site *content.Site, pageID int) {
	kv := ui.NewKeyValueTable(cmd.OutOrStdout(), color.NoColor)
	kv.AddRow("page", strconv.Itoa(pageID))
	if page, ok := site.Page(pageID); ok {
		kv.AddRow("title", page.Title)
	}
	if link, ok := site.Permalink(pageID); ok {
		kv.AddRow("url", link)
	}
	kv.Render()
}

func notBound(subject string, noColor bool) error {
	return &displayError{message: ui.FormatError(ui.ErrorOptions{
		Context:      "not bound",
		Problem:      "No index page is bound to " + subject + ".",
		HelpCommands: []string{"See stored bindings: indexpages lookup bindings"},
		NoColor:      noColor,
	})}
}

func parsePageID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid page id %q", arg)
	}
	return id, nil
}

func postTypeNames(site *content.Site) []string {
	types := site.PostTypes()
	names := make([]string, 0, len(types))
	for _, pt := range types {
		names = append(names, pt.Name)
	}
	return names
}

// unsupportedPostType explains why a post type cannot have an index page
func unsupportedPostType(site *content.Site, postType string, noColor bool) error {
	if _, ok := site.PostType(postType); !ok {
		return &displayError{message: ui.NotFoundError("post type", postType, postTypeNames(site), noColor)}
	}
	return &displayError{message: ui.FormatError(ui.ErrorOptions{
		Context:     "unsupported post type",
		Problem:     fmt.Sprintf("Post type '%s' has no archive and does not support index pages.", postType),
		Consequence: "Enable has_archive or add index-page to its supports list in the site file.",
		NoColor:     noColor,
	})}
}
