package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dougwollison/index-pages/internal/app"
	"github.com/dougwollison/index-pages/internal/cli/ui"
	"github.com/dougwollison/index-pages/internal/content"
	"github.com/dougwollison/index-pages/internal/options"
	"github.com/dougwollison/index-pages/internal/registry"
)

func newBindCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bind",
		Short: "Bind a page to a post type or a term",
		Long: `Bind a page to a post type or a term. Binding page 0 removes the
binding.`,
	}

	cmd.AddCommand(newBindPostTypeCommand(opts))
	cmd.AddCommand(newBindTermCommand(opts))
	return cmd
}

func newUnbindCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unbind",
		Short: "Remove the page bound to a post type or a term",
	}

	postType := &cobra.Command{
		Use:   "post-type <post-type>",
		Short: "Remove the page bound to a post type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return bindPostType(cmd, opts, args[0], 0)
		},
	}

	var taxonomy string
	term := &cobra.Command{
		Use:   "term <term-id|slug>",
		Short: "Remove the page bound to a term",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return bindTerm(cmd, opts, args[0], taxonomy, 0)
		},
	}
	term.Flags().StringVarP(&taxonomy, "taxonomy", "t", "", "taxonomy of the term")

	cmd.AddCommand(postType, term)
	return cmd
}

func newBindPostTypeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "post-type <post-type> <page-id>",
		Short: "Bind a page to a post type",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pageID, err := parsePageID(args[1])
			if err != nil {
				return err
			}
			return bindPostType(cmd, opts, args[0], pageID)
		},
	}
}

func newBindTermCommand(opts *rootOptions) *cobra.Command {
	var taxonomy string

	cmd := &cobra.Command{
		Use:   "term <term-id|slug> <page-id>",
		Short: "Bind a page to a term",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pageID, err := parsePageID(args[1])
			if err != nil {
				return err
			}
			return bindTerm(cmd, opts, args[0], taxonomy, pageID)
		},
	}

	cmd.Flags().StringVarP(&taxonomy, "taxonomy", "t", "", "taxonomy of the term")
	return cmd
}

func bindPostType(cmd *cobra.Command, opts *rootOptions, postType string, pageID int) error {
	return withRegistry(cmd, opts, func(a *app.App, reg *registry.Registry) error {
		if !reg.IsPostTypeSupported(postType) {
			return unsupportedPostType(a.Site, postType, opts.noColor)
		}
		if err := checkPage(a.Site, pageID); err != nil {
			return err
		}
		if err := writeBinding(cmd.Context(), a.Store, options.PostTypeOption(postType), pageID); err != nil {
			return &displayError{message: ui.StorageError(err.Error(), opts.noColor)}
		}
		ui.WriteSuccess(cmd.OutOrStdout(), bindingMessage("post type '"+postType+"'", pageID), opts.noColor)
		return nil
	})
}

func bindTerm(cmd *cobra.Command, opts *rootOptions, ref, taxonomy string, pageID int) error {
	return withRegistry(cmd, opts, func(a *app.App, reg *registry.Registry) error {
		term, err := findTerm(a.Site, ref, taxonomy, opts.noColor)
		if err != nil {
			return err
		}
		if err := checkPage(a.Site, pageID); err != nil {
			return err
		}
		if pageID > 0 && !reg.IsTaxonomySupported(term.Taxonomy) {
			fmt.Fprint(cmd.ErrOrStderr(), ui.Warning(fmt.Sprintf(
				"taxonomy '%s' is not enabled for term pages; run: indexpages taxonomies add %s",
				term.Taxonomy, term.Taxonomy), opts.noColor))
		}
		if err := writeBinding(cmd.Context(), a.Store, options.TermOption(term.ID), pageID); err != nil {
			return &displayError{message: ui.StorageError(err.Error(), opts.noColor)}
		}
		ui.WriteSuccess(cmd.OutOrStdout(), bindingMessage(fmt.Sprintf("%s '%s'", term.Taxonomy, term.Slug), pageID), opts.noColor)
		return nil
	})
}

// writeBinding stores a binding. Page 0 deletes the row.
func writeBinding(ctx context.Context, store options.Writer, name string, pageID int) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if pageID == 0 {
		if err := store.Delete(ctx, name); err != nil && !errors.Is(err, options.ErrNotFound) {
			return err
		}
		return nil
	}
	return store.Set(ctx, name, strconv.Itoa(pageID))
}

func checkPage(site *content.Site, pageID int) error {
	if pageID == 0 {
		return nil
	}
	if _, ok := site.Page(pageID); !ok {
		return fmt.Errorf("page %d does not exist", pageID)
	}
	return nil
}

func findTerm(site *content.Site, ref, taxonomy string, noColor bool) (*content.Term, error) {
	if id, err := strconv.Atoi(ref); err == nil {
		term, ok := site.Term(id)
		if !ok || (taxonomy != "" && term.Taxonomy != taxonomy) {
			return nil, &displayError{message: ui.NotFoundError("term", ref, nil, noColor)}
		}
		return term, nil
	}

	if taxonomy == "" {
		return nil, fmt.Errorf("--taxonomy is required when naming term %q by slug", ref)
	}
	if _, ok := site.Taxonomy(taxonomy); !ok {
		return nil, &displayError{message: ui.NotFoundError("taxonomy", taxonomy, site.Taxonomies(), noColor)}
	}
	term, ok := site.TermBySlug(ref, taxonomy)
	if !ok {
		return nil, &displayError{message: ui.NotFoundError("term", ref, nil, noColor)}
	}
	return term, nil
}

func bindingMessage(subject string, pageID int) string {
	if pageID == 0 {
		return "Removed the index page of " + subject
	}
	return fmt.Sprintf("Bound page %d to %s", pageID, subject)
}
