package command

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/smell-of-curry/ambf-world/ambfworld/world"
	"github.com/spf13/cobra"
)

// newFmt returns the fmt command, which rewrites a descriptor in its
// normalised form.
func newFmt(log *slog.Logger) *cobra.Command {
	var (
		output string
		yes    bool
	)
	cmd := &cobra.Command{
		Use:   "fmt <file>",
		Short: "Print a world descriptor in normalised form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := loaderFrom(log, cmd)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			w, _, err := loader.Load(data)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", args[0], err)
			}
			out, err := world.Marshal(w)
			if err != nil {
				return err
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if !yes {
				ok, err := confirmOverwrite(output)
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}
			if err = os.WriteFile(output, out, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			log.Info("Wrote world descriptor", "path", output, "lights", len(w.Lights), "cameras", len(w.Cameras))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "overwrite the output file without asking")
	return cmd
}

// confirmOverwrite asks before replacing an existing file. It returns true
// without asking when path does not exist.
func confirmOverwrite(path string) (bool, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return true, nil
	} else if err != nil {
		return false, err
	}

	overwrite := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("%s already exists. Overwrite it?", path),
		Default: false,
	}
	if err := survey.AskOne(prompt, &overwrite); err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return overwrite, nil
}
