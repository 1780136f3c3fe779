package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/fswrangler/fswrangler/pkg/classify"
	"github.com/fswrangler/fswrangler/pkg/manifest"
)

// newListCmd creates the list command for browsing manifest packages.
func newListCmd(manifestFlag *string) *cobra.Command {
	var (
		source   string
		sim      string
		category string
		status   string
		search   string
		names    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List packages in the content manifest",
		Long: `List reads the content manifest and prints the installed packages with
their activation status, category, vendor, and simulator generation.
Filters combine with AND; --search matches names fuzzily.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			env, err := newAppEnv(ctx, *manifestFlag)
			if err != nil {
				return err
			}

			col, err := env.repo().Load(ctx)
			if err != nil {
				return err
			}
			env.rememberManifest(ctx)

			q, err := buildQuery(source, sim, category, status, search)
			if err != nil {
				return err
			}
			indices := q.Filter(col)

			if names {
				for _, i := range indices {
					fmt.Println(col.Get(i).Name)
				}
				return nil
			}

			printPackageTable(col, indices)
			printNewline()
			printCounts(col, indices)
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "filter by source (official, community)")
	cmd.Flags().StringVar(&sim, "sim", "", "filter by simulator generation (fs20, fs24)")
	cmd.Flags().StringVar(&category, "category", "", "filter by category (e.g. Aircraft, Airport)")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (Activated, UserDisabled, SystemDisabled)")
	cmd.Flags().StringVarP(&search, "search", "s", "", "fuzzy search over package names")
	cmd.Flags().BoolVar(&names, "names", false, "print bare package names only (for scripting)")

	return cmd
}

// buildQuery validates the filter flags and assembles a manifest query.
func buildQuery(source, sim, category, status, search string) (manifest.Query, error) {
	q := manifest.Query{Category: category, Search: search}

	switch source {
	case "":
	case "official":
		q.Source = classify.SourceOfficial
	case "community":
		q.Source = classify.SourceCommunity
	default:
		return q, fmt.Errorf("unknown source %q (want official or community)", source)
	}

	switch sim {
	case "":
	case "fs20":
		q.Sim = classify.SimFS20
	case "fs24":
		q.Sim = classify.SimFS24
	default:
		return q, fmt.Errorf("unknown sim %q (want fs20 or fs24)", sim)
	}

	if status != "" {
		s := manifest.Status(status)
		if !s.Valid() {
			return q, fmt.Errorf("unknown status %q", status)
		}
		q.Status = s
	}

	return q, nil
}

// printPackageTable renders the selected records as an aligned table.
func printPackageTable(col *manifest.Collection, indices []int) {
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return StyleTitle.PaddingRight(2)
			}
			return lipgloss.NewStyle().PaddingRight(2)
		}).
		Headers("NAME", "STATUS", "CATEGORY", "VENDOR", "SIM", "SOURCE")

	for _, i := range indices {
		rec := col.Get(i)
		t.Row(
			rec.Name,
			statusStyle(rec.Status).Render(statusLabel(rec.Status)),
			rec.Category,
			rec.Vendor,
			string(rec.Sim),
			string(rec.Source),
		)
	}

	fmt.Println(t)
}

// printCounts prints a one-line summary of the listed selection.
func printCounts(col *manifest.Collection, indices []int) {
	var enabled, disabled, system int
	for _, i := range indices {
		switch col.Get(i).Status {
		case manifest.Activated:
			enabled++
		case manifest.UserDisabled:
			disabled++
		case manifest.SystemDisabled:
			system++
		}
	}
	printDetail("%d packages · %d enabled · %d disabled · %d system", len(indices), enabled, disabled, system)
}
