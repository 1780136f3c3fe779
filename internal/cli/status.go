package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fswrangler/fswrangler/pkg/errors"
	"github.com/fswrangler/fswrangler/pkg/manifest"
)

// newEnableCmd creates the enable command.
func newEnableCmd(manifestFlag *string) *cobra.Command {
	var (
		dryRun bool
		search string
	)

	cmd := &cobra.Command{
		Use:   "enable [package...]",
		Short: "Activate packages in the content manifest",
		Long: `Enable sets the given packages to Activated and writes the manifest
back atomically, creating a backup first. Pass package names as
arguments, or select them with --search.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetStatus(cmd.Context(), *manifestFlag, args, search, manifest.Activated, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would change without writing")
	cmd.Flags().StringVarP(&search, "search", "s", "", "select packages by fuzzy name match instead of exact names")

	return cmd
}

// newDisableCmd creates the disable command.
func newDisableCmd(manifestFlag *string) *cobra.Command {
	var (
		dryRun bool
		search string
	)

	cmd := &cobra.Command{
		Use:   "disable [package...]",
		Short: "Deactivate packages in the content manifest",
		Long: `Disable sets the given packages to UserDisabled and writes the manifest
back atomically, creating a backup first. Packages the simulator itself
disabled stay read-only and are skipped with a warning.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetStatus(cmd.Context(), *manifestFlag, args, search, manifest.UserDisabled, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would change without writing")
	cmd.Flags().StringVarP(&search, "search", "s", "", "select packages by fuzzy name match instead of exact names")

	return cmd
}

// runSetStatus is the shared core of enable and disable: select targets,
// flip their status in memory, report the diff, and save unless dry-run.
func runSetStatus(ctx context.Context, manifestFlag string, names []string, search string, target manifest.Status, dryRun bool) error {
	logger := loggerFromContext(ctx)

	if len(names) == 0 && search == "" {
		return errors.New(errors.ErrCodeInvalidInput, "no packages selected; pass names or --search")
	}

	env, err := newAppEnv(ctx, manifestFlag)
	if err != nil {
		return err
	}
	repo := env.repo()

	col, err := repo.Load(ctx)
	if err != nil {
		return err
	}
	env.rememberManifest(ctx)

	// Resolve the selection into record indices.
	var indices []int
	if search != "" {
		indices = manifest.Query{Search: search}.Filter(col)
		if len(indices) == 0 {
			return errors.New(errors.ErrCodeFileNotFound, "no packages match %q", search)
		}
	}
	for _, name := range names {
		i := col.ByName(name)
		if i < 0 {
			return errors.New(errors.ErrCodeFileNotFound, "package %q not in manifest", name)
		}
		indices = append(indices, i)
	}

	for _, i := range indices {
		rec := col.Get(i)
		if rec.ReadOnly() {
			printWarning("%s is managed by the simulator; skipping", rec.Name)
			continue
		}
		col.SetStatus(i, target)
	}

	changes := col.DirtyChanges()
	if len(changes) == 0 {
		printInfo("Nothing to change")
		return nil
	}

	for _, rec := range changes {
		printDetail("%s: %s %s %s", rec.Name,
			statusLabel(rec.OriginalStatus), iconArrow, statusStyle(rec.Status).Render(statusLabel(rec.Status)))
	}

	if dryRun {
		printInfo("Dry run: %d changes not written", len(changes))
		return nil
	}

	prog := newProgress(logger)
	if _, err := repo.Save(ctx, col, false); err != nil {
		return err
	}
	col.ClearDirty()
	prog.done("Saved manifest")

	verb := "Enabled"
	if target == manifest.UserDisabled {
		verb = "Disabled"
	}
	printSuccess("%s %d packages", verb, len(changes))
	return nil
}
