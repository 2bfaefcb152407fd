package main

import (
	"github.com/spf13/cobra"

	"github.com/Deepak-ai-93/instapost/pkg/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			gen, err := a.generator(ctx)
			if err != nil {
				return err
			}

			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			srv := server.New(gen, server.Options{
				MaxBodyBytes:    a.cfg.Server.MaxBodyBytes,
				RateLimit:       a.cfg.Server.RateLimit,
				RateBurst:       a.cfg.Server.RateBurst,
				ReadTimeout:     a.cfg.GetReadTimeout(),
				WriteTimeout:    a.cfg.GetWriteTimeout(),
				ShutdownTimeout: a.cfg.GetShutdownTimeout(),
			})
			return srv.Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: server.addr from config)")
	return cmd
}
