package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/cardpress/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the upload endpoint over HTTP",
	Long: `Serve starts an HTTP server. POST a .docx or .pdf as the multipart field
"file" to /process and the response is the card document. /healthz reports
liveness, /metrics exposes Prometheus metrics, and the static directory, when
it exists, is served at /.

SIGINT or SIGTERM shuts the server down gracefully.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		p, closeFn, err := newPipeline(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeFn()

		srv := server.New(cfg.Server, p)
		if dir, _ := cmd.Flags().GetString("temp-dir"); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			srv.SetTempDir(dir)
		}
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	f := serveCmd.Flags()
	f.String("addr", ":8000", "listen address")
	f.String("static-dir", "static", "directory served at /")
	f.Int64("max-upload-mb", 25, "largest accepted upload in MiB")
	f.String("temp-dir", "", "directory for staged uploads (default: the system temp dir)")

	_ = viper.BindPFlag("server.addr", f.Lookup("addr"))
	_ = viper.BindPFlag("server.static_dir", f.Lookup("static-dir"))
	_ = viper.BindPFlag("server.max_upload_mb", f.Lookup("max-upload-mb"))

	rootCmd.AddCommand(serveCmd)
}
