package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jzhengTT/compatibility-matrix/internal/app"
	"github.com/jzhengTT/compatibility-matrix/internal/common"
	"github.com/jzhengTT/compatibility-matrix/internal/interfaces"
	"github.com/jzhengTT/compatibility-matrix/internal/services/converter"
	"github.com/jzhengTT/compatibility-matrix/internal/services/registry"
	"github.com/jzhengTT/compatibility-matrix/internal/services/s3"
	storagebadger "github.com/jzhengTT/compatibility-matrix/internal/storage/badger"
)

var (
	flagSource string
	flagUpload bool
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Run the conversion pipeline once",
	Long: `Fetch benchmark records from the configured source, build the
compatibility document, write it locally, and optionally upload it to S3.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("source") {
			cfg.Source.Type = flagSource
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
		}
		if cmd.Flags().Changed("upload") {
			cfg.S3.Enabled = flagUpload
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
		}
		return runConvert(cmd.Context())
	},
}

func init() {
	convertCmd.Flags().StringVar(&flagSource, "source", "database", "record source (database or excel)")
	convertCmd.Flags().BoolVar(&flagUpload, "upload", false, "upload the document to S3 after conversion")
}

func runConvert(ctx context.Context) error {
	common.PrintBanner()
	logger := common.GetLogger()

	reg, err := registry.Load(cfg.Registry.Path, logger)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	source, closer, err := app.NewSource(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize record source: %w", err)
	}
	if closer != nil {
		defer closer.Close()
	}

	var uploader interfaces.Uploader
	if cfg.S3.Enabled {
		client, err := s3.NewClient(ctx, cfg.S3, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		uploader = client
	}

	var runs interfaces.RunStorage
	if cfg.Storage.Badger.Enabled {
		store, err := storagebadger.Open(cfg.Storage.Badger.Path)
		if err != nil {
			return fmt.Errorf("failed to open run store: %w", err)
		}
		runStorage := storagebadger.NewRunStorage(store)
		defer runStorage.Close()
		runs = runStorage
	}

	pipeline := converter.NewService(cfg, logger, reg, source, uploader, runs)
	summary, err := pipeline.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Run %s complete: %d records, %d supported, %d not supported\n",
		summary.ID, summary.Records, summary.Supported, summary.NotSupported)
	if len(summary.NewModels) > 0 || len(summary.NewDevices) > 0 {
		fmt.Printf("New entries detected (%d models, %d devices); see %s\n",
			len(summary.NewModels), len(summary.NewDevices), cfg.Registry.ReportPath)
	}
	if summary.Error != "" {
		fmt.Printf("Run degraded: %s\n", summary.Error)
	}

	return nil
}
