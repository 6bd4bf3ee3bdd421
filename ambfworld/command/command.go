// Package command provides the command line interface of the world tools.
package command

import (
	"log/slog"

	"github.com/smell-of-curry/ambf-world/ambfworld"
	"github.com/smell-of-curry/ambf-world/ambfworld/world"
	"github.com/spf13/cobra"
)

// NewRoot returns the root command with every subcommand attached. The loader
// flags default to the loader options of conf, or to the built-in defaults when
// those do not parse.
func NewRoot(log *slog.Logger, conf ambfworld.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "ambf-world",
		Short:         "Load, check and serve AMBF world descriptors",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	opts, err := conf.LoaderOptions()
	if err != nil {
		log.Warn("invalid loader configuration, using defaults", "error", err)
		opts = world.Options{}
	}
	root.PersistentFlags().String("duplicates", opts.Duplicates.String(), `duplicate key policy: "last", "first" or "reject"`)
	root.PersistentFlags().Bool("advisory", opts.Advisory, "report invalid values as warnings instead of failing")

	root.AddCommand(
		newValidate(log),
		newFmt(log),
		newServe(log, conf),
	)
	return root
}

// loaderFrom builds a loader from the persistent flags of cmd.
func loaderFrom(log *slog.Logger, cmd *cobra.Command) (*world.Loader, error) {
	dup, err := cmd.Flags().GetString("duplicates")
	if err != nil {
		return nil, err
	}
	policy, err := world.ParseDuplicatePolicy(dup)
	if err != nil {
		return nil, err
	}
	advisory, err := cmd.Flags().GetBool("advisory")
	if err != nil {
		return nil, err
	}
	return world.NewLoader(log, world.Options{Duplicates: policy, Advisory: advisory}), nil
}
