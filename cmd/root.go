package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kamal-hamza/extrude-cli/internal/adapters/archive"
	"github.com/kamal-hamza/extrude-cli/internal/adapters/blender"
	"github.com/kamal-hamza/extrude-cli/internal/adapters/freecad"
	"github.com/kamal-hamza/extrude-cli/internal/adapters/repository"
	"github.com/kamal-hamza/extrude-cli/internal/adapters/runner"
	"github.com/kamal-hamza/extrude-cli/internal/core/services"
	"github.com/kamal-hamza/extrude-cli/pkg/config"
	"github.com/kamal-hamza/extrude-cli/pkg/logging"
	"github.com/kamal-hamza/extrude-cli/pkg/metrics"
	"github.com/kamal-hamza/extrude-cli/pkg/objmesh"
	"github.com/kamal-hamza/extrude-cli/pkg/ui"
	"github.com/kamal-hamza/extrude-cli/pkg/workspace"
)

var (
	// Global flags
	configPath    string
	workspaceFlag string
	logLevelFlag  string
	logFormatFlag string

	// Application state
	appConfig    *config.Config
	appWorkspace *workspace.Workspace
	appLogger    *zap.Logger
	appMetrics   *metrics.Metrics

	// Adapters
	execRunner    *runner.ExecRunner
	blenderEngine *blender.Engine
	metadataRepo  *repository.MetadataRepository

	// Services
	meshService    *services.MeshService
	exportService  *services.ExportService
	catalogService *services.CatalogService
	batchService   *services.BatchService
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "extrude",
	Short: "Extrude - STEP to web-ready 3D model converter",
	Long: ui.StyleTitle.Render("Extrude") + " - STEP to GLB conversion pipeline\n\n" +
		"Converts CAD extrusion profiles (STEP) into OBJ meshes with FreeCAD and\n" +
		"into normalized, optionally Draco-compressed GLB models with Blender,\n" +
		"writing a metadata record for every exported model.",
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: finalizeApp,
	SilenceErrors:      true,
	SilenceUsage:       true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// Every failure exits with status 1.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if appLogger != nil {
		_ = appLogger.Sync()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.FormatError(err.Error()))
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/extrude/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&workspaceFlag, "workspace", "w", "", "Workspace directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Log format: console or json")

	// Add subcommands
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(glbCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// skipInit lists commands that run without wiring adapters
func skipInit(cmd *cobra.Command) bool {
	switch cmd.CommandPath() {
	case "extrude version", "extrude help", "extrude config path", "extrude config init":
		return true
	}
	return false
}

// initializeApp loads config and wires adapters and services
func initializeApp(cmd *cobra.Command, args []string) error {
	if skipInit(cmd) {
		return nil
	}

	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if workspaceFlag != "" {
		cfg.Workspace = workspaceFlag
	}
	if logLevelFlag != "" {
		cfg.Log.Level = logLevelFlag
	}
	if logFormatFlag != "" {
		cfg.Log.Format = logFormatFlag
	}
	appConfig = cfg

	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}, logOutput)
	if err != nil {
		return err
	}
	appLogger = logger

	ws, err := workspace.New(cfg.Workspace)
	if err != nil {
		return err
	}
	appWorkspace = ws

	appMetrics = metrics.New()

	// Adapters
	execRunner = runner.NewExecRunner(logger)
	blenderEngine = blender.NewEngine(execRunner, blender.Options{
		Executable: cfg.Blender.Executable,
		Timeout:    cfg.Blender.Timeout,
	}, logger)
	metadataRepo = repository.NewMetadataRepository()

	strategies := cfg.FreeCAD.Strategies
	if len(strategies) == 0 {
		strategies = freecad.DefaultStrategies()
	}

	// Services
	meshService = services.NewMeshService(execRunner, freecad.NewScripter(), objmesh.Verifier{}, services.MeshOptions{
		Strategies: strategies,
		Timeout:    cfg.FreeCAD.Timeout,
	}, logger, appMetrics)
	exportService = services.NewExportService(blenderEngine, metadataRepo, logger, appMetrics)
	catalogService = services.NewCatalogService(metadataRepo, ws, logger)
	batchService = services.NewBatchService(meshService, exportService, catalogService,
		archive.NewExtractor(logger), ws, logger, appMetrics)

	return nil
}

// finalizeApp writes the metrics textfile when configured
func finalizeApp(cmd *cobra.Command, args []string) error {
	if appConfig == nil || appConfig.MetricsFile == "" || appMetrics == nil {
		return nil
	}
	if err := appMetrics.WriteTextfile(appConfig.MetricsFile); err != nil {
		appLogger.Warn("failed to write metrics", zap.String("path", appConfig.MetricsFile), zap.Error(err))
	}
	return nil
}

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return workspace.DefaultConfigPath()
}

// getContext returns the command context, cancelled on interrupt
func getContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
