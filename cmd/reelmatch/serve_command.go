package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"reelmatch/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string
	var noMetadata bool
	var refresh bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the recommendation page and JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			sess, err := ctx.openSession(runCtx, sessionOptions{refresh: refresh, metadata: !noMetadata})
			if err != nil {
				return err
			}
			if strings.TrimSpace(bind) == "" {
				bind = sess.cfg.Paths.Bind
			}

			srv, err := server.New(sess.svc, server.Options{Bind: bind}, sess.logger)
			if err != nil {
				return err
			}
			if err := srv.Start(runCtx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Serving %d titles on http://%s\n", sess.set.Catalog.Len(), srv.Addr())

			<-runCtx.Done()
			srv.Stop()
			return nil
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (defaults to paths.bind)")
	cmd.Flags().BoolVar(&noMetadata, "no-metadata", false, "Serve without OMDb lookups")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Re-download remote artifacts even when cached")
	return cmd
}
