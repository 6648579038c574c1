package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/extrude-cli/internal/adapters/storage"
	"github.com/kamal-hamza/extrude-cli/internal/core/services"
	"github.com/kamal-hamza/extrude-cli/pkg/ui"
)

var (
	publishDir    string
	publishPrefix string
	publishDryRun bool
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Upload the prepared models to S3-compatible storage",
	Long: `Upload every file of the public directory (see 'extrude catalog prepare')
to the bucket configured under storage. The bucket is created when missing.

Examples:
  extrude publish
  extrude publish --dir ./public --prefix v2 --dry-run`,
	Args: cobra.NoArgs,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringVarP(&publishDir, "dir", "d", "", "Directory to upload (default workspace public dir)")
	publishCmd.Flags().StringVar(&publishPrefix, "prefix", "", "Key prefix below the configured storage prefix")
	publishCmd.Flags().BoolVar(&publishDryRun, "dry-run", false, "List the uploads without sending anything")
}

func runPublish(cmd *cobra.Command, args []string) error {
	ctx := getContext(cmd)

	dir := publishDir
	if dir == "" {
		dir = appWorkspace.PublicPath
	}

	cfg := appConfig.Storage
	store, err := storage.NewMinioStore(storage.Options{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
		Prefix:    cfg.Prefix,
		UseSSL:    cfg.UseSSL,
	}, appLogger)
	if err != nil {
		return err
	}

	svc := services.NewPublishService(store, appLogger, appMetrics)
	var resp *services.PublishResponse
	err = runWithSpinner("Uploading "+dir, func() error {
		var err error
		resp, err = svc.Execute(ctx, services.PublishRequest{
			Dir:    dir,
			Prefix: publishPrefix,
			DryRun: publishDryRun,
		})
		return err
	})
	if resp != nil && publishDryRun {
		fmt.Print(ui.RenderSimpleList(resp.Uploaded))
	}
	if resp != nil {
		for _, key := range resp.Failed {
			fmt.Println(ui.FormatError("Upload failed: " + key))
		}
	}
	if err != nil {
		return err
	}

	verb := "Uploaded"
	if publishDryRun {
		verb = "Would upload"
	}
	fmt.Println(ui.FormatSuccess(fmt.Sprintf("%s %d files (%s) to %s", verb, len(resp.Uploaded), ui.FormatBytes(resp.Bytes), cfg.Bucket)))
	return nil
}
