// =============================================================================
// donorlens - Pipeline Orchestration
// =============================================================================
//
// This package wires the core packages into the runnable pipeline stages the
// CLI exposes. Each stage is one method on Pipeline:
//
//   Search     : contribution rows -> resolved donor files (donors-*.csv)
//   Aggregate  : donor files -> per-candidate per-party tables
//   Duplicates : per-party tables -> cross-file duplicate reports
//   Dedupe     : strip known-partisan donors from non-partisan tables
//   Splits     : per-party tables -> party percentage splits
//   Totals     : raw exports -> per-candidate contribution totals
//   Tidy       : raw exports deduped and date-sorted in place
//
// Stages are sequential end to end. The two stages that talk to external
// services take their client as an interface so tests can run the full stage
// against a stub.
//
// =============================================================================

package pipeline

import (
	"time"

	"go.uber.org/zap"

	"github.com/civicsignal/donorlens/internal/config"
	"github.com/civicsignal/donorlens/pkg/utils"
)

// Pipeline runs the donorlens stages against one configuration.
type Pipeline struct {
	cfg   *config.Config
	log   *zap.Logger
	runID string
}

// New builds a pipeline. The run identifier ties the stage's summary file to
// the log lines of the same invocation.
func New(cfg *config.Config, log *zap.Logger, runID string) *Pipeline {
	return &Pipeline{cfg: cfg, log: log, runID: runID}
}

// writeSummary records the outcome of one stage run at the output root. A
// summary that cannot be written is logged and dropped; it never fails the
// stage that produced it.
func (p *Pipeline) writeSummary(command string, start time.Time, files, rows int, notes []string) {
	path, err := utils.WriteSummaryLog(utils.RunSummary{
		RunID:          p.runID,
		Command:        command,
		StartTime:      start,
		EndTime:        time.Now(),
		FilesProcessed: files,
		RowsRead:       rows,
		Notes:          notes,
	}, p.cfg.ByDonorDir)
	if err != nil {
		p.log.Warn("failed to write run summary", zap.Error(err))
		return
	}
	p.log.Info("wrote run summary", zap.String("path", path))
}
