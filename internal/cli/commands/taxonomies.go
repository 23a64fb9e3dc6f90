package commands

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dougwollison/index-pages/internal/app"
	"github.com/dougwollison/index-pages/internal/cli/ui"
	"github.com/dougwollison/index-pages/internal/options"
	"github.com/dougwollison/index-pages/internal/registry"
)

func newTaxonomiesCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taxonomies",
		Short: "Manage the taxonomies enabled for term pages",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered taxonomies and whether term pages are enabled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRegistry(cmd, opts, func(a *app.App, reg *registry.Registry) error {
				enabled := make(map[string]bool)
				for _, tax := range reg.SupportedTaxonomies() {
					enabled[tax] = true
				}

				table := ui.NewTable(cmd.OutOrStdout(), []string{"TAXONOMY", "PUBLIC", "ENABLED", "SUPPORTED"}, color.NoColor)
				for _, name := range a.Site.Taxonomies() {
					tax, _ := a.Site.Taxonomy(name)
					table.AddRow(name,
						strconv.FormatBool(tax.Public),
						strconv.FormatBool(enabled[name]),
						strconv.FormatBool(reg.IsTaxonomySupported(name)),
					)
				}
				table.Render()
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <taxonomy>...",
		Short: "Enable term pages for taxonomies",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateTaxonomies(cmd, opts, func(reg *registry.Registry) { reg.AddTaxonomies(args...) }, args, true)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <taxonomy>...",
		Short: "Disable term pages for taxonomies",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateTaxonomies(cmd, opts, func(reg *registry.Registry) { reg.RemoveTaxonomies(args...) }, args, false)
		},
	})

	return cmd
}

// updateTaxonomies applies change to the loaded list and stores the result
func updateTaxonomies(cmd *cobra.Command, opts *rootOptions, change func(*registry.Registry), names []string, adding bool) error {
	return withRegistry(cmd, opts, func(a *app.App, reg *registry.Registry) error {
		if adding {
			for _, name := range names {
				if _, ok := a.Site.Taxonomy(name); !ok {
					return &displayError{message: ui.NotFoundError("taxonomy", name, a.Site.Taxonomies(), opts.noColor)}
				}
			}
		}

		change(reg)
		list := reg.SupportedTaxonomies()
		if err := a.Store.Set(cmd.Context(), options.SupportedTaxList, options.EncodeList(list)); err != nil {
			return &displayError{message: ui.StorageError(err.Error(), opts.noColor)}
		}

		if adding {
			for _, name := range names {
				if tax, _ := a.Site.Taxonomy(name); !tax.Public {
					fmt.Fprint(cmd.ErrOrStderr(), ui.Warning(fmt.Sprintf("taxonomy '%s' is not public; its terms cannot have index pages", name), opts.noColor))
				}
			}
		}

		ui.WriteSuccess(cmd.OutOrStdout(), fmt.Sprintf("Term pages enabled for %v", list), opts.noColor)
		return nil
	})
}
