package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"cardpress/internal/plan"
)

func newModesCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "modes",
		Short:       "List export modes",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(plan.AllModes()))
			for _, mode := range plan.AllModes() {
				rows = append(rows, []string{
					string(mode),
					modeLabel(mode),
					mode.Description(),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Mode", "Label", "Description"}, rows))
			return nil
		},
	}
}

func modeLabel(mode plan.Mode) string {
	label := strings.ReplaceAll(string(mode), "-", " ")
	return cases.Title(language.Und).String(label)
}
