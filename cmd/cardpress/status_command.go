package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"cardpress/internal/preflight"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
)

func newStatusCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the export environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			results := preflight.RunAll(cmd.Context(), cfg)
			printPreflight(out, results)

			if !preflight.Passed(results) {
				return fmt.Errorf("environment not ready")
			}
			fmt.Fprintln(out, "Ready to export")
			return nil
		},
	}
}

func printPreflight(out io.Writer, results []preflight.Result) {
	colorize := shouldColorize(out)
	for _, result := range results {
		fmt.Fprintln(out, renderCheckLine(result, colorize))
	}
}

func renderCheckLine(result preflight.Result, colorize bool) string {
	label := "FAIL"
	color := ansiRed
	if result.Passed {
		label = "OK"
		color = ansiGreen
	}
	line := fmt.Sprintf("  %-22s [%s] %s", result.Name+":", label, result.Detail)
	if colorize {
		return color + line + ansiReset
	}
	return line
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
