package command

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/smell-of-curry/ambf-world/ambfworld/catalog"
	"github.com/smell-of-curry/ambf-world/ambfworld/report"
	"github.com/smell-of-curry/ambf-world/ambfworld/world"
	"github.com/spf13/cobra"
)

// newValidate returns the validate command. It loads every file given, and
// every descriptor below every directory given, and fails if any of them does
// not load.
func newValidate(log *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file|dir>...",
		Short: "Load world descriptors and report problems",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := loaderFrom(log, cmd)
			if err != nil {
				return err
			}

			var entries []catalog.Entry
			for _, arg := range args {
				e, err := collect(cmd, loader, arg)
				if err != nil {
					return err
				}
				entries = append(entries, e...)
			}

			failed := 0
			out := cmd.OutOrStdout()
			for _, e := range entries {
				printEntry(out, e)
				if !e.OK() {
					failed++
					report.LoadFailure(e.Path, e.Err)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d descriptors failed to load", failed, len(entries))
			}
			return nil
		},
	}
}

// collect loads arg, which is either a descriptor file or a directory of them.
func collect(cmd *cobra.Command, loader *world.Loader, arg string) ([]catalog.Entry, error) {
	info, err := os.Stat(arg)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		data, err := os.ReadFile(arg)
		if err != nil {
			return nil, err
		}
		w, warnings, err := loader.Load(data)
		return []catalog.Entry{{Path: arg, World: w, Warnings: warnings, Err: err}}, nil
	}

	bar := progressbar.NewOptions(1,
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription("Loading "+arg),
		progressbar.OptionClearOnFinish(),
	)
	c, err := catalog.ReadAll(os.DirFS(arg), ".", loader, bar)
	if err != nil {
		return nil, err
	}
	entries := c.Entries()
	for i := range entries {
		entries[i].Path = filepath.Join(arg, filepath.FromSlash(entries[i].Path))
	}
	return entries, nil
}

// printEntry writes a one line result for e followed by its warnings.
func printEntry(w io.Writer, e catalog.Entry) {
	if !e.OK() {
		_, _ = fmt.Fprintf(w, "FAIL %s (%s): %v\n", e.Path, world.Kind(e.Err), e.Err)
		return
	}
	_, _ = fmt.Fprintf(w, "ok   %s (%d lights, %d cameras)\n", e.Path, len(e.World.Lights), len(e.World.Cameras))
	for _, warn := range e.Warnings {
		_, _ = fmt.Fprintf(w, "warn %s: %v\n", e.Path, warn)
	}
}
