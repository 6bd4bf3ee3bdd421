package command

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/smell-of-curry/ambf-world/ambfworld"
	"github.com/smell-of-curry/ambf-world/ambfworld/service"
	"github.com/spf13/cobra"
)

// newServe returns the serve command, which runs the inspection service until
// the process is interrupted.
func newServe(log *slog.Logger, conf ambfworld.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the configured world directory over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loader, err := loaderFrom(log, cmd)
			if err != nil {
				return err
			}
			s := service.New(log, loader, os.DirFS(conf.Service.WorldPath), ".", conf.Service.AuthorizationKey)

			c := make(chan os.Signal, 1)
			signal.Notify(c, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(c)
			go func() {
				if _, ok := <-c; ok {
					log.Info("Shutting down world service")
					if err := s.Close(); err != nil {
						log.Error("failed to close world service", "error", err)
					}
				}
			}()

			return s.Start(conf.Service.GinAddress, conf.Service.ReloadInterval.Std())
		},
	}
}
