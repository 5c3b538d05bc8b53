package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/toa-engine/internal/artifact"
	"github.com/pdiddy/toa-engine/internal/server"
	"github.com/pdiddy/toa-engine/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scanning API over HTTP",
	Long: `Serve starts the HTTP API: scanning page maps or text, rendering
tables, planning TA/TOA annotations, and browsing the scan history.
The server stops gracefully on SIGINT or SIGTERM.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	serveCmd.Flags().Bool("no-history", false, "disable the scan history routes")
	serveCmd.Flags().Bool("no-publish", false, "disable publishing rendered tables")

	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if logrus.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []server.Option{server.WithLogger(logrus.StandardLogger())}
	if noHistory, _ := cmd.Flags().GetBool("no-history"); !noHistory {
		st, err := store.Open(cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()
		logrus.Infof("scan history in %s", cfg.Store.DataDir)
		opts = append(opts, server.WithStore(st))
	}
	if noPublish, _ := cmd.Flags().GetBool("no-publish"); !noPublish {
		a, err := artifact.New(ctx, cfg.Artifact)
		if err != nil {
			return err
		}
		logrus.Infof("publishing tables to %s storage", cfg.Artifact.Type)
		opts = append(opts, server.WithArtifacts(a))
	}

	srv, err := server.New(cfg, opts...)
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx)
}
