package export_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cardpress/internal/config"
	"cardpress/internal/export"
	"cardpress/internal/jobs"
	"cardpress/internal/plan"
)

type fakeNotifier struct {
	started   []string
	delivered []string
	cancelled []string
	errors    []string
}

func (f *fakeNotifier) NotifyExportStarted(_ context.Context, mode string, _ int) error {
	f.started = append(f.started, mode)
	return nil
}

func (f *fakeNotifier) NotifyExportDelivered(_ context.Context, filename string, _ int, _ time.Duration) error {
	f.delivered = append(f.delivered, filename)
	return nil
}

func (f *fakeNotifier) NotifyExportCancelled(_ context.Context, mode string) error {
	f.cancelled = append(f.cancelled, mode)
	return nil
}

func (f *fakeNotifier) NotifyError(_ context.Context, err error, _ string) error {
	f.errors = append(f.errors, err.Error())
	return nil
}

func (f *fakeNotifier) TestNotification(context.Context) error { return nil }

func serviceFixture(t *testing.T, renderer *stubRenderer) (*export.Service, *config.Config, *jobs.Store, *fakeNotifier) {
	t.Helper()

	cfg := config.Default()
	cfg.Paths.OutputDir = t.TempDir()
	cfg.Paths.StagingDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()

	store, err := jobs.OpenPath(filepath.Join(cfg.Paths.LogDir, "jobs.db"))
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	notifier := &fakeNotifier{}
	orchestrator := export.NewOrchestrator(nil, renderer, &stubMerger{}, cfg.Output.FilePrefix, nil)
	svc := export.NewService(&cfg, orchestrator, store, notifier, nil)
	return svc, &cfg, store, notifier
}

func TestServiceDeliversAndRecords(t *testing.T) {
	svc, cfg, store, notifier := serviceFixture(t, &stubRenderer{})
	ctx := context.Background()

	result, err := svc.Export(ctx, export.Request{
		Mode:     plan.ModeFrontsOnly,
		Fronts:   fronts(20),
		Geometry: grid3x3(),
	}, export.Hooks{})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if result.Status != export.StatusDelivered {
		t.Fatalf("status = %s", result.Status)
	}
	if result.OutputPath == "" {
		t.Fatal("expected output path")
	}
	if filepath.Dir(result.OutputPath) != cfg.Paths.OutputDir {
		t.Fatalf("deliverable written to %q, want %q", result.OutputPath, cfg.Paths.OutputDir)
	}
	if _, statErr := os.Stat(result.OutputPath); statErr != nil {
		t.Fatalf("deliverable missing: %v", statErr)
	}

	recorded, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recorded) != 1 {
		t.Fatalf("jobs = %d, want 1", len(recorded))
	}
	job := recorded[0]
	if job.Status != jobs.StatusDelivered {
		t.Fatalf("job status = %s", job.Status)
	}
	if job.Pages != 3 || job.ProgressPercent != 100 {
		t.Fatalf("job pages/progress = %d/%f", job.Pages, job.ProgressPercent)
	}
	if job.OutputPath != result.OutputPath {
		t.Fatalf("job output path = %q", job.OutputPath)
	}

	if len(notifier.started) != 1 || len(notifier.delivered) != 1 {
		t.Fatalf("notifications = %+v", notifier)
	}
	if notifier.delivered[0] != result.Filename {
		t.Fatalf("delivered notification names %q, want %q", notifier.delivered[0], result.Filename)
	}
}

func TestServiceRecordsFailure(t *testing.T) {
	svc, _, store, notifier := serviceFixture(t, &stubRenderer{failAt: 1})
	ctx := context.Background()

	_, err := svc.Export(ctx, export.Request{
		Mode:     plan.ModeFrontsOnly,
		Fronts:   fronts(5),
		Geometry: grid3x3(),
	}, export.Hooks{})
	if err == nil {
		t.Fatal("expected render failure")
	}

	recorded, listErr := store.List(ctx, jobs.StatusFailed)
	if listErr != nil {
		t.Fatalf("List: %v", listErr)
	}
	if len(recorded) != 1 {
		t.Fatalf("failed jobs = %d, want 1", len(recorded))
	}
	if recorded[0].ErrorMessage == "" {
		t.Fatal("expected error message on failed job")
	}
	if len(notifier.errors) != 1 {
		t.Fatalf("error notifications = %d, want 1", len(notifier.errors))
	}
	if len(notifier.delivered) != 0 {
		t.Fatal("no delivery notification on failure")
	}
}

func TestServiceRecordsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc, cfg, store, notifier := serviceFixture(t, &stubRenderer{cancelAt: 1, cancel: cancel})

	result, err := svc.Export(ctx, export.Request{
		Mode:     plan.ModeFrontsOnly,
		Fronts:   fronts(20),
		Geometry: grid3x3(),
	}, export.Hooks{})
	if err != nil {
		t.Fatalf("cancellation must not surface as an error, got %v", err)
	}
	if result.Status != export.StatusCancelled {
		t.Fatalf("status = %s", result.Status)
	}

	entries, readErr := os.ReadDir(cfg.Paths.OutputDir)
	if readErr != nil {
		t.Fatalf("ReadDir: %v", readErr)
	}
	if len(entries) != 0 {
		t.Fatal("cancelled export must not write a deliverable")
	}

	recorded, listErr := store.List(context.Background(), jobs.StatusCancelled)
	if listErr != nil {
		t.Fatalf("List: %v", listErr)
	}
	if len(recorded) != 1 {
		t.Fatalf("cancelled jobs = %d, want 1", len(recorded))
	}
	if len(notifier.cancelled) != 1 {
		t.Fatalf("cancellation notifications = %d, want 1", len(notifier.cancelled))
	}
}
