package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/fswrangler/fswrangler/pkg/manifest"
)

// newSaveCmd creates the save command, which rewrites the manifest in
// place. Without status changes this is a no-op unless pruning removes
// legacy entries, so save is mainly the "clean my manifest" command.
func newSaveCmd(manifestFlag *string) *cobra.Command {
	var (
		prune   bool
		noPrune bool
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Rewrite the manifest, optionally pruning legacy FS2020 entries",
		Long: `Save re-reads the manifest and writes it back atomically after taking a
backup. With pruning enabled (the default from config), stale community
entries left over from FS2020 are removed. A save with nothing to prune
leaves the file byte-for-byte unchanged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			env, err := newAppEnv(ctx, *manifestFlag)
			if err != nil {
				return err
			}

			doPrune := env.cfg.CleanLegacyFS20
			if cmd.Flags().Changed("prune") {
				doPrune = prune
			}
			if noPrune {
				doPrune = false
			}

			repo := env.repo()
			col, err := repo.Load(ctx)
			if err != nil {
				return err
			}
			env.rememberManifest(ctx)

			if dryRun {
				n := countLegacy(col)
				if !doPrune || n == 0 {
					printInfo("Nothing to prune")
					return nil
				}
				printInfo("Dry run: would prune %d legacy entries", n)
				return nil
			}

			prog := newProgress(logger)
			pruned, err := repo.Save(ctx, col, doPrune)
			if err != nil {
				return err
			}
			col.ClearDirty()
			prog.done("Saved manifest")

			if pruned > 0 {
				printSuccess("Pruned %d legacy FS2020 entries", pruned)
			} else {
				printSuccess("Manifest saved")
			}
			printFile(env.manifest)
			return nil
		},
	}

	cmd.Flags().BoolVar(&prune, "prune", false, "remove legacy FS2020 community entries")
	cmd.Flags().BoolVar(&noPrune, "no-prune", false, "keep legacy entries even if config enables pruning")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be pruned without writing")

	return cmd
}

// countLegacy counts records carrying the legacy FS2020 community prefix.
func countLegacy(col *manifest.Collection) int {
	n := 0
	for i := 0; i < col.Len(); i++ {
		if strings.HasPrefix(strings.ToLower(col.Get(i).Name), manifest.LegacyCommunityPrefix) {
			n++
		}
	}
	return n
}
