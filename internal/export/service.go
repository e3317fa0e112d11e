package export

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"cardpress/internal/config"
	"cardpress/internal/jobs"
	"cardpress/internal/logging"
	"cardpress/internal/notifications"
	"cardpress/internal/services"
)

// Service runs exports end to end: it drives the orchestrator, writes the
// deliverable to the output directory, records history, and sends
// notifications. The store and notifier are optional.
type Service struct {
	cfg          *config.Config
	orchestrator *Orchestrator
	store        *jobs.Store
	notifier     notifications.Service
	logger       *slog.Logger
}

// NewService assembles the export service.
func NewService(cfg *config.Config, orchestrator *Orchestrator, store *jobs.Store, notifier notifications.Service, logger *slog.Logger) *Service {
	return &Service{
		cfg:          cfg,
		orchestrator: orchestrator,
		store:        store,
		notifier:     notifier,
		logger:       logging.NewComponentLogger(logger, "export-service"),
	}
}

// Export runs one request and delivers its artifact to the output directory.
// Job history and notifications are best-effort: their failures are logged,
// never surfaced.
func (s *Service) Export(ctx context.Context, req Request, hooks Hooks) (Result, error) {
	job := s.createJob(ctx, req)
	s.notifyStarted(ctx, req)

	trackedHooks := hooks
	trackedHooks.OnProgress = func(percent int) {
		s.recordProgress(ctx, job, percent)
		hooks.progress(percent)
	}

	result, err := s.orchestrator.Export(ctx, req, trackedHooks)

	// Terminal bookkeeping must survive a cancelled request context.
	finishCtx := context.WithoutCancel(ctx)
	if err != nil {
		s.finishJob(finishCtx, job, result, err)
		s.notifyError(finishCtx, req, err)
		return result, err
	}

	if result.Delivered() {
		path, writeErr := s.writeDeliverable(result)
		if writeErr != nil {
			result.Status = StatusFailed
			s.finishJob(finishCtx, job, result, writeErr)
			s.notifyError(finishCtx, req, writeErr)
			return result, writeErr
		}
		result.OutputPath = path
	}

	s.finishJob(finishCtx, job, result, nil)
	switch result.Status {
	case StatusDelivered:
		if result.Delivered() && s.notifier != nil {
			if notifyErr := s.notifier.NotifyExportDelivered(finishCtx, result.Filename, result.Artifact.Pages, result.Elapsed); notifyErr != nil {
				s.logger.Warn("delivery notification failed", logging.Error(notifyErr))
			}
		}
	case StatusCancelled:
		if s.notifier != nil {
			if notifyErr := s.notifier.NotifyExportCancelled(finishCtx, string(req.Mode)); notifyErr != nil {
				s.logger.Warn("cancellation notification failed", logging.Error(notifyErr))
			}
		}
	}
	return result, nil
}

func (s *Service) writeDeliverable(result Result) (string, error) {
	if err := s.cfg.EnsureDirectories(); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "export", "deliver", "ensure output directory", err)
	}
	path := filepath.Join(s.cfg.Paths.OutputDir, result.Filename)
	if err := os.WriteFile(path, result.Artifact.Data, 0o644); err != nil {
		return "", services.Wrap(services.ErrTransient, "export", "deliver", "write deliverable", err)
	}
	s.logger.Info("deliverable written",
		logging.String("path", path),
		logging.Int("pages", result.Artifact.Pages),
	)
	return path, nil
}

func (s *Service) createJob(ctx context.Context, req Request) *jobs.Job {
	if s.store == nil {
		return nil
	}
	job, err := s.store.Create(ctx, string(req.Mode), len(req.Fronts), "")
	if err != nil {
		s.logger.Warn("job history insert failed", logging.Error(err))
		return nil
	}
	return job
}

func (s *Service) recordProgress(ctx context.Context, job *jobs.Job, percent int) {
	if s.store == nil || job == nil {
		return
	}
	job.ProgressPercent = float64(percent)
	if err := s.store.Update(ctx, job); err != nil {
		s.logger.Warn("job progress update failed", logging.Error(err))
	}
}

func (s *Service) finishJob(ctx context.Context, job *jobs.Job, result Result, err error) {
	if s.store == nil || job == nil {
		return
	}
	switch result.Status {
	case StatusDelivered:
		job.Status = jobs.StatusDelivered
		job.ProgressPercent = 100
	case StatusCancelled:
		job.Status = jobs.StatusCancelled
	default:
		job.Status = jobs.StatusFailed
	}
	job.Batches = result.Batches
	job.Pages = result.Artifact.Pages
	job.Filename = result.Filename
	job.OutputPath = result.OutputPath
	job.RequestID = result.RequestID
	if err != nil {
		job.ErrorMessage = services.Details(err).Message
	}
	if updateErr := s.store.Update(ctx, job); updateErr != nil {
		s.logger.Warn("job history update failed", logging.Error(updateErr))
	}
}

func (s *Service) notifyStarted(ctx context.Context, req Request) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyExportStarted(ctx, string(req.Mode), len(req.Fronts)); err != nil {
		s.logger.Warn("start notification failed", logging.Error(err))
	}
}

func (s *Service) notifyError(ctx context.Context, req Request, err error) {
	if s.notifier == nil || err == nil {
		return
	}
	if notifyErr := s.notifier.NotifyError(ctx, err, string(req.Mode)+" export"); notifyErr != nil {
		s.logger.Warn("error notification failed", logging.Error(notifyErr))
	}
}
