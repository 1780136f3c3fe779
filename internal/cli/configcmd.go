package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fswrangler/fswrangler/pkg/config"
	"github.com/fswrangler/fswrangler/pkg/errors"
)

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and change fswrangler settings",
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigSetCmd())

	return cmd
}

// newConfigShowCmd creates the config show command.
func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the active configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.DefaultPath()
			if err != nil {
				return err
			}
			cfg, err := config.Load(path)
			if err != nil {
				printDetail("using defaults (%s not loaded)", path)
			} else {
				printDetail("loaded from %s", path)
			}
			printNewline()

			printKeyValue("theme", cfg.Theme)
			printKeyValue("thumbnails", strconv.FormatBool(cfg.ShowThumbnails))
			printKeyValue("clean-fs20", strconv.FormatBool(cfg.CleanLegacyFS20))
			printKeyValue("manifest", cfg.ManifestPath)
			return nil
		},
	}
}

// newConfigSetCmd creates the config set command.
func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting and persist it",
		Long: `Set updates a single configuration key. Keys: theme (dark|light),
thumbnails (bool), clean-fs20 (bool), manifest (path).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			path, err := config.DefaultPath()
			if err != nil {
				return err
			}
			cfg, err := config.Load(path)
			if err != nil {
				loggerFromContext(cmd.Context()).Debugf("Starting from default configuration: %v", err)
			}

			if err := applySetting(&cfg, key, value); err != nil {
				return err
			}
			if err := cfg.Save(path); err != nil {
				return err
			}

			printSuccess("Set %s = %s", key, value)
			printFile(path)
			return nil
		},
	}
}

// applySetting updates one config field from its string form.
func applySetting(cfg *config.Config, key, value string) error {
	switch key {
	case "theme":
		if value != "dark" && value != "light" {
			return errors.New(errors.ErrCodeConfig, "theme must be dark or light, got %q", value)
		}
		cfg.Theme = value
	case "thumbnails":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errors.New(errors.ErrCodeConfig, "thumbnails must be a boolean, got %q", value)
		}
		cfg.ShowThumbnails = b
	case "clean-fs20":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errors.New(errors.ErrCodeConfig, "clean-fs20 must be a boolean, got %q", value)
		}
		cfg.CleanLegacyFS20 = b
	case "manifest":
		cfg.ManifestPath = value
	default:
		return errors.New(errors.ErrCodeConfig, "unknown key %q (want theme, thumbnails, clean-fs20, or manifest)", key)
	}
	return nil
}
