package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"cardpress/internal/services"
)

func TestWrapTagsSentinel(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "compositor", "render", "batch 2", base)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool sentinel, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped base error, got %v", err)
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "merge", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient sentinel, got %v", err)
	}
}

func TestDetailsStripsSentinelPrefix(t *testing.T) {
	err := services.Wrap(services.ErrConfiguration, "plan", "mirror", "columns must be positive", nil)
	details := services.Details(err)
	want := "plan: mirror: columns must be positive"
	if details.Message != want {
		t.Fatalf("details message: got %q want %q", details.Message, want)
	}
}

func TestDetailsNilError(t *testing.T) {
	if msg := services.Details(nil).Message; msg != "" {
		t.Fatalf("expected empty message, got %q", msg)
	}
}

func TestIsCancelled(t *testing.T) {
	if !services.IsCancelled(context.Canceled) {
		t.Fatal("context.Canceled should classify as cancelled")
	}
	if !services.IsCancelled(fmt.Errorf("render batch: %w", context.Canceled)) {
		t.Fatal("wrapped cancellation should classify as cancelled")
	}
	if services.IsCancelled(errors.New("boom")) {
		t.Fatal("generic error must not classify as cancelled")
	}
}
