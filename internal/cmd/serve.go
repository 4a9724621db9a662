package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yuzeguitarist/qrgen/internal/artifact"
	"github.com/yuzeguitarist/qrgen/internal/netutil"
	"github.com/yuzeguitarist/qrgen/internal/web"
)

func (c *cli) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the QR code web form (foreground)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg
			if !netutil.TCPAddrAvailable(cfg.Listen) {
				return fmt.Errorf("listen address %s is already in use", cfg.Listen)
			}
			store, err := artifact.NewStore(cfg.QRDir)
			if err != nil {
				return err
			}
			srv, err := web.NewServer(cfg, store)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.WithFields(log.Fields{
				"listen": cfg.Listen,
				"url":    netutil.DisplayURL(cfg.Listen),
				"qr_dir": store.Dir(),
				"csrf":   cfg.CSRFKey != "",
				"audit":  cfg.AuditLog != "",
			}).Info("serving qr code form")

			if err := srv.ListenAndServe(ctx, cfg.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			log.Info("server stopped")
			return nil
		},
	}
	cmd.Flags().String("listen", "", "listen address (default 127.0.0.1:5000)")
	cmd.Flags().String("qr-dir", "", "directory for generated images (default static/qr_codes)")
	cmd.Flags().Bool("unique", false, "append a content hash to filenames so different inputs never collide")
	cmd.Flags().String("csrf-key", "", "enable CSRF protection with this 32-byte key")
	cmd.Flags().String("audit-log", "", "append generate/download events to this JSON-lines file")
	return cmd
}
