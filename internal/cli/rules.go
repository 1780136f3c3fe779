package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fswrangler/fswrangler/pkg/classify"
	"github.com/fswrangler/fswrangler/pkg/errors"
)

// newRulesCmd creates the rules command group for the categorization
// ruleset.
func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage the package categorization ruleset",
		Long: `Rules control how package names map to display categories. The ruleset
is a JSON file; fswrangler falls back to its built-in rules when the
file is absent or unreadable.`,
	}

	cmd.AddCommand(newRulesShowCmd())
	cmd.AddCommand(newRulesInitCmd())
	cmd.AddCommand(newRulesPathCmd())

	return cmd
}

// newRulesShowCmd creates the rules show command.
func newRulesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the active categorization rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := rulesPath()
			if err != nil {
				return err
			}
			rs, err := classify.LoadRules(path)
			if err != nil {
				printDetail("using built-in rules (%s not loaded)", path)
			} else {
				printDetail("loaded from %s", path)
			}
			printNewline()

			for _, rule := range rs.Categories {
				fmt.Println(StyleHighlight.Render(rule.Name))
				printDetail("%s", strings.Join(rule.Patterns, ", "))
			}
			printNewline()
			printKeyValue("default", rs.DefaultCategory)
			return nil
		},
	}
}

// newRulesInitCmd creates the rules init command.
func newRulesInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the built-in ruleset to the config directory for editing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := rulesPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errors.New(errors.ErrCodeConfig,
					"ruleset already exists at %s (use --force to overwrite)", path)
			}
			if err := classify.SaveRules(path, classify.DefaultRuleset()); err != nil {
				return err
			}
			printSuccess("Wrote default ruleset")
			printFile(path)
			printNextStep("Edit it, then verify", appName+" rules show")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing ruleset")

	return cmd
}

// newRulesPathCmd creates the rules path command.
func newRulesPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the ruleset file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := rulesPath()
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
}
