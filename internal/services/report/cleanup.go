package report

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/medela/internal/common"
)

// Sweeper deletes expired report files on a cron schedule. Report files are
// the only cross-request artifact, so the sweep bounds disk use.
type Sweeper struct {
	reportsDir string
	retention  time.Duration
	schedule   string
	cron       *cron.Cron
	logger     arbor.ILogger
}

// NewSweeper creates a report file sweeper from configuration
func NewSweeper(service *Service, config *common.Config, logger arbor.ILogger) *Sweeper {
	return &Sweeper{
		reportsDir: service.Dir(),
		retention:  config.ReportRetention(),
		schedule:   config.Reports.CleanupSchedule,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger,
	}
}

// Start registers the sweep job and starts the scheduler.
// An immediate sweep clears leftovers from a previous run.
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.Sweep); err != nil {
		return err
	}

	s.cron.Start()
	s.Sweep()

	s.logger.Info().
		Str("schedule", s.schedule).
		Dur("retention", s.retention).
		Msg("Report sweeper started")

	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info().Msg("Report sweeper stopped")
}

// Sweep deletes report files older than the retention window
func (s *Sweeper) Sweep() {
	cutoff := time.Now().Add(-s.retention)

	entries, err := os.ReadDir(s.reportsDir)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to read reports directory")
		return
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "rpt_") || !strings.HasSuffix(entry.Name(), ".pdf") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			path := filepath.Join(s.reportsDir, entry.Name())
			if err := os.Remove(path); err != nil {
				s.logger.Warn().Err(err).Str("file", entry.Name()).Msg("Failed to remove expired report")
				continue
			}
			removed++
		}
	}

	if removed > 0 {
		s.logger.Info().Int("removed", removed).Msg("Expired reports swept")
	}
}
