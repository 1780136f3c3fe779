package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fswrangler/fswrangler/pkg/thumbs"
)

// newThumbsCmd creates the thumbs command group for the thumbnail cache.
func newThumbsCmd(manifestFlag *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "thumbs",
		Short: "Manage the package thumbnail cache",
		Long: `fswrangler locates thumbnail images inside installed package folders
and memoizes the results in a JSON cache, including misses, so package
browsing stays fast. These commands warm, inspect, and reset that cache.`,
	}

	cmd.AddCommand(newThumbsScanCmd(manifestFlag))
	cmd.AddCommand(newThumbsClearCmd())
	cmd.AddCommand(newThumbsPathCmd())

	return cmd
}

// newThumbsScanCmd creates the thumbs scan command.
func newThumbsScanCmd(manifestFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Resolve thumbnails for every package in the manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			env, err := newAppEnv(ctx, *manifestFlag)
			if err != nil {
				return err
			}

			col, err := env.repo().Load(ctx)
			if err != nil {
				return err
			}
			env.rememberManifest(ctx)

			cachePath, err := thumbCachePath()
			if err != nil {
				return err
			}
			cache, err := thumbs.NewCache(cachePath)
			if err != nil {
				return err
			}

			reqs := make([]thumbs.Request, 0, col.Len())
			for i := 0; i < col.Len(); i++ {
				rec := col.Get(i)
				reqs = append(reqs, thumbs.Request{Name: rec.Name, Source: rec.Source, Sim: rec.Sim})
			}

			scanner := thumbs.NewScanner(cache, thumbs.RootsFor(env.manifest))

			prog := newProgress(logger)
			found, err := scanner.ScanAll(ctx, reqs)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Scanned %d packages", len(reqs)))

			printSuccess("Thumbnails found for %d of %d packages", found, len(reqs))
			printFile(cachePath)
			return nil
		},
	}
}

// newThumbsClearCmd creates the thumbs clear command.
func newThumbsClearCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Reset the thumbnail cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cachePath, err := thumbCachePath()
			if err != nil {
				return err
			}
			cache, err := thumbs.NewCache(cachePath)
			if err != nil {
				return err
			}

			if name != "" {
				if err := cache.Forget(name); err != nil {
					return err
				}
				printSuccess("Forgot cached thumbnail for %s", name)
				return nil
			}

			n := cache.Len()
			if err := cache.ClearAll(); err != nil {
				return err
			}
			printSuccess("Cleared %d cached entries", n)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "forget a single package instead of the whole cache")

	return cmd
}

// newThumbsPathCmd creates the thumbs path command.
func newThumbsPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the thumbnail cache location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := thumbCachePath()
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
}
