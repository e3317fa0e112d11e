package compositor

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var commandContext = exec.CommandContext

// ProgressUpdate captures one progress line from the compositing service.
type ProgressUpdate struct {
	Page    int
	Pages   int
	Percent float64
	Message string
}

// FaceSpec describes one card face for the compositing service.
type FaceSpec struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Image string `json:"image,omitempty"`
	Blank bool   `json:"blank,omitempty"`
}

// RenderSpec is the batch description handed to the compositing service.
// RightAligned asks the service to place an incomplete final row in the
// rightmost grid cells so duplex backs line up under their fronts.
type RenderSpec struct {
	Columns      int        `json:"columns"`
	Rows         int        `json:"rows"`
	PageWidthPx  int        `json:"page_width_px"`
	PageHeightPx int        `json:"page_height_px"`
	RightAligned bool       `json:"right_aligned,omitempty"`
	Faces        []FaceSpec `json:"faces"`
}

// Client defines compositing behaviour: render one batch spec into a PDF at
// outputPath, reporting page-by-page progress.
type Client interface {
	Render(ctx context.Context, specPath, outputPath string, progress func(ProgressUpdate)) error
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI wraps the cardcomp command-line compositor.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "cardcomp"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Render launches cardcomp for one batch. The service completes its current
// page before honouring cancellation; when the context is cancelled the error
// surfaces as the context's error, never a generic tool failure.
func (c *CLI) Render(ctx context.Context, specPath, outputPath string, progress func(ProgressUpdate)) error {
	if strings.TrimSpace(specPath) == "" {
		return errors.New("spec path required")
	}
	if strings.TrimSpace(outputPath) == "" {
		return errors.New("output path required")
	}

	args := []string{"render", "--spec", specPath, "--output", outputPath, "--progress-json"}
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start compositor: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := scanner.Bytes()
		var payload struct {
			Page    int     `json:"page"`
			Pages   int     `json:"pages"`
			Percent float64 `json:"percent"`
			Message string  `json:"message"`
		}
		if err := json.Unmarshal(line, &payload); err != nil {
			continue
		}
		if progress != nil {
			progress(ProgressUpdate{Page: payload.Page, Pages: payload.Pages, Percent: payload.Percent, Message: payload.Message})
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read compositor output: %w", err)
	}

	if err := cmd.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("compositor render failed: %w", err)
	}

	return nil
}

var _ Client = (*CLI)(nil)
