package cmd

import (
	"time"

	"github.com/abhisek/mathmood/internal/api"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve quiz sessions over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}
		ttl, _ := cmd.Flags().GetDuration("idle-ttl")

		log, err := newLogger(false)
		if err != nil {
			return err
		}
		defer log.Sync()

		svc, err := buildServices(cmd, log)
		if err != nil {
			return err
		}
		defer svc.Close()

		ctx := cmd.Context()
		sessions := api.NewRegistry()
		sessions.StartSweeper(ctx, time.Minute, ttl, log)

		return api.NewServer(svc.engine, sessions, svc.store, log).ListenAndServe(ctx, cfg.Addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides MATHMOOD_ADDR, default :8080)")
	serveCmd.Flags().Duration("idle-ttl", 30*time.Minute, "Drop sessions idle for longer than this")
}
