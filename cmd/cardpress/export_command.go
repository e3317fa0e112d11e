package main

import (
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"cardpress/internal/cards"
	"cardpress/internal/deck"
	"cardpress/internal/export"
	"cardpress/internal/jobs"
	"cardpress/internal/layout"
	"cardpress/internal/logging"
	"cardpress/internal/notifications"
	"cardpress/internal/plan"
	"cardpress/internal/preflight"
	"cardpress/internal/services/compositor"
)

func newExportCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		deckPath    string
		modeFlag    string
		columns     int
		rows        int
		pageWidth   int
		pageHeight  int
		pixelBudget int64
		skipChecks  bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a deck manifest to a print-ready PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			mode, ok := plan.ParseMode(modeFlag)
			if !ok {
				return fmt.Errorf("unknown export mode %q (see `cardpress modes`)", modeFlag)
			}

			manifest, err := deck.Load(strings.TrimSpace(deckPath))
			if err != nil {
				return err
			}

			if !skipChecks {
				results := preflight.RunAll(cmd.Context(), cfg)
				if !preflight.Passed(results) {
					printPreflight(cmd.OutOrStdout(), results)
					return errors.New("preflight checks failed; fix the issues above or rerun with --skip-checks")
				}
			}

			lock := flock.New(filepath.Join(cfg.Paths.LogDir, "cardpress.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire export lock: %w", err)
			}
			if !locked {
				return errors.New("another cardpress export is already running")
			}
			defer func() { _ = lock.Unlock() }()

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			store, err := jobs.Open(cfg)
			if err != nil {
				return fmt.Errorf("open job history: %w", err)
			}
			defer store.Close()

			geometry := layout.Geometry{
				Columns:      pick(columns, cfg.Output.Columns),
				Rows:         pick(rows, cfg.Output.Rows),
				PageWidthPx:  pick(pageWidth, cfg.Output.PageWidthPx),
				PageHeightPx: pick(pageHeight, cfg.Output.PageHeightPx),
			}
			budget := pixelBudget
			if budget <= 0 {
				budget = cfg.Output.PixelBudget
			}

			client := compositor.NewCLI(compositor.WithBinary(cfg.CompositorBinary()))
			renderer := compositor.NewRenderer(client, cfg.Paths.StagingDir, logger)
			resolver := cards.NewResolver(manifest.Lookup(), logger)
			orchestrator := export.NewOrchestrator(resolver, renderer, nil, cfg.Output.FilePrefix, logger)
			svc := export.NewService(cfg, orchestrator, store, notifications.NewService(cfg), logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			fronts := manifest.Fronts()
			fmt.Fprintf(out, "Exporting %d cards (%s)\n", len(fronts), mode)

			interactive := shouldColorize(out)
			hooks := export.Hooks{
				OnProgress: func(percent int) {
					if interactive {
						fmt.Fprintf(out, "\r%3d%%", percent)
					} else {
						fmt.Fprintf(out, "%d%%\n", percent)
					}
				},
			}

			result, err := svc.Export(ctx, export.Request{
				Mode:        mode,
				Fronts:      fronts,
				Geometry:    geometry,
				PixelBudget: budget,
			}, hooks)
			if interactive {
				fmt.Fprintln(out)
			}
			if err != nil {
				return err
			}

			switch result.Status {
			case export.StatusCancelled:
				fmt.Fprintln(out, "Export cancelled; nothing was delivered")
			case export.StatusDelivered:
				if result.Delivered() {
					fmt.Fprintf(out, "Delivered %s (%d pages, %d batches, %s)\n",
						result.OutputPath, result.Artifact.Pages, result.Batches, result.Elapsed.Round(time.Second))
				} else {
					fmt.Fprintln(out, "Deck produced no pages; nothing was delivered")
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&deckPath, "deck", "d", "", "Path to the deck manifest (TOML)")
	cmd.Flags().StringVarP(&modeFlag, "mode", "m", string(plan.ModeDuplex), "Export mode (see `cardpress modes`)")
	cmd.Flags().IntVar(&columns, "columns", 0, "Grid columns per page (overrides config)")
	cmd.Flags().IntVar(&rows, "rows", 0, "Grid rows per page (overrides config)")
	cmd.Flags().IntVar(&pageWidth, "page-width", 0, "Page width in pixels (overrides config)")
	cmd.Flags().IntVar(&pageHeight, "page-height", 0, "Page height in pixels (overrides config)")
	cmd.Flags().Int64Var(&pixelBudget, "pixel-budget", 0, "Pixel ceiling per intermediate artifact (overrides config)")
	cmd.Flags().BoolVar(&skipChecks, "skip-checks", false, "Skip preflight checks")
	_ = cmd.MarkFlagRequired("deck")

	return cmd
}

func pick(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return configValue
}
