package cli

import (
	"github.com/spf13/cobra"

	"github.com/fswrangler/fswrangler/pkg/config"
	"github.com/fswrangler/fswrangler/pkg/errors"
	"github.com/fswrangler/fswrangler/pkg/manifest"
)

// newLocateCmd creates the locate command for manifest discovery.
func newLocateCmd() *cobra.Command {
	var remember bool

	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Discover the simulator's content manifest on this machine",
		Long: `Locate searches the simulator's local application data for Content.xml
and prints its path. With --remember the path is stored in the config
file and used by later commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			path, ok := manifest.Locate()
			if !ok {
				return errors.New(errors.ErrCodeManifestNotFound,
					"no content manifest found; is the simulator installed?")
			}

			printSuccess("Found content manifest")
			printFile(path)

			if !remember {
				printNextStep("Use it", appName+" list --manifest "+path)
				return nil
			}

			cfgPath, err := config.DefaultPath()
			if err != nil {
				return err
			}
			cfg, err := config.Load(cfgPath)
			if err != nil {
				loggerFromContext(ctx).Debugf("Starting from default configuration: %v", err)
			}
			cfg.ManifestPath = path
			if err := cfg.Save(cfgPath); err != nil {
				return err
			}
			printInfo("Stored as default manifest")
			return nil
		},
	}

	cmd.Flags().BoolVar(&remember, "remember", false, "store the discovered path in the config file")

	return cmd
}
