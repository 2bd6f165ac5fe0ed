package converter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/jzhengTT/compatibility-matrix/internal/common"
	"github.com/jzhengTT/compatibility-matrix/internal/interfaces"
	"github.com/jzhengTT/compatibility-matrix/internal/models"
	"github.com/jzhengTT/compatibility-matrix/internal/services/registry"
)

// Service orchestrates one conversion run: fetch, detect, report, aggregate,
// write, upload, record. Fetch and upload failures degrade the run (empty
// document / skipped upload) while serialization and write failures abort it.
type Service struct {
	config   *common.Config
	logger   arbor.ILogger
	registry *registry.Service
	source   interfaces.RecordSource
	uploader interfaces.Uploader
	runs     interfaces.RunStorage
	now      func() time.Time
}

// NewService wires a conversion pipeline. uploader and runs may be nil when
// S3 upload or run history are disabled.
func NewService(cfg *common.Config, logger arbor.ILogger, reg *registry.Service, source interfaces.RecordSource, uploader interfaces.Uploader, runs interfaces.RunStorage) *Service {
	return &Service{
		config:   cfg,
		logger:   logger,
		registry: reg,
		source:   source,
		uploader: uploader,
		runs:     runs,
		now:      time.Now,
	}
}

// Run executes the pipeline once and returns the run summary. A non-nil error
// means no document was produced; degraded runs (fetch or upload failure)
// return a summary with the Error field set instead.
func (s *Service) Run(ctx context.Context) (*models.RunSummary, error) {
	started := s.now()
	summary := &models.RunSummary{
		ID:        uuid.New().String(),
		Source:    s.source.Name(),
		StartedAt: started.UTC(),
	}

	s.logger.Info().
		Str("run_id", summary.ID).
		Str("source", summary.Source).
		Msg("Starting conversion run")

	records, err := s.source.Fetch(ctx)
	if err != nil {
		// A failed fetch still produces a complete document with every
		// pair marked Not Supported, so consumers always get a valid
		// artifact.
		s.logger.Warn().Err(err).Str("source", summary.Source).
			Msg("Source fetch failed; emitting document without upstream data")
		summary.Error = fmt.Sprintf("source fetch: %v", err)
		records = nil
	}
	summary.Records = len(records)

	newModels, newDevices := DetectUnknown(records, s.registry)
	summary.NewModels = newModels
	summary.NewDevices = newDevices

	if err := WriteNewEntriesReport(s.config.Registry.ReportPath, newModels, newDevices, started); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to write new-entries report")
	}
	if s.config.Registry.AutoAppend && (len(newModels) > 0 || len(newDevices) > 0) {
		if err := s.registry.AppendEntries(newModels, newDevices); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to append new entries to registry")
		}
	}

	doc, totals := Aggregate(records, s.registry, summary.Source, started)
	summary.Supported = totals.Supported
	summary.NotSupported = totals.NotSupported

	if err := WriteFile(doc, s.config.Output.Path); err != nil {
		summary.Error = err.Error()
		s.finish(ctx, summary)
		return summary, err
	}
	summary.OutputPath = s.config.Output.Path

	if s.uploader != nil && s.config.S3.Enabled {
		if err := s.uploader.Upload(ctx, s.config.Output.Path); err != nil {
			s.logger.Warn().Err(err).Msg("Upload failed; local artifact retained")
			if summary.Error == "" {
				summary.Error = fmt.Sprintf("upload: %v", err)
			}
		} else {
			summary.Uploaded = true
		}
	}

	s.finish(ctx, summary)

	s.logger.Info().
		Str("run_id", summary.ID).
		Int("records", summary.Records).
		Int("supported", summary.Supported).
		Int("not_supported", summary.NotSupported).
		Int("new_models", len(newModels)).
		Int("new_devices", len(newDevices)).
		Bool("uploaded", summary.Uploaded).
		Msg("Conversion run complete")

	return summary, nil
}

func (s *Service) finish(ctx context.Context, summary *models.RunSummary) {
	summary.CompletedAt = s.now().UTC()
	if s.runs == nil {
		return
	}
	if err := s.runs.SaveRun(ctx, summary); err != nil {
		s.logger.Warn().Err(err).Str("run_id", summary.ID).Msg("Failed to persist run summary")
	}
}
