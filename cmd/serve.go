package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kamal-hamza/extrude-cli/internal/adapters/httpapi"
	"github.com/kamal-hamza/extrude-cli/pkg/ui"
)

var (
	serveAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog and GLB models over HTTP",
	Long: `Serve processed models for a storefront or local preview.

Routes:
  GET /api/models/catalog         catalog.json
  GET /api/models?id=<id>&lod=    GLB bytes (lod defaults to medium)
  GET /healthz                    liveness
  GET /metrics                    Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "Listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := getContext(cmd)

	addr := appConfig.Serve.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	router := httpapi.NewRouter(appWorkspace, appConfig.Serve.PublicDir, appLogger, appMetrics)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Println(ui.FormatRocket("Serving models on http://" + addr))
	fmt.Println(ui.FormatMuted("Workspace: " + appWorkspace.RootPath))
	fmt.Println(ui.FormatMuted("Press Ctrl+C to stop"))

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Warn("shutdown", zap.Error(err))
	}
	fmt.Println(ui.FormatMuted("Server stopped"))
	return nil
}
