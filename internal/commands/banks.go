package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/csvledger/csvledger/internal/importer"
)

func newBanksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "banks",
		Short: "List supported institutions and the columns they require",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBanks(cmd.OutOrStdout())
		},
	}
}

func runBanks(out io.Writer) error {
	tagStyle := lipgloss.NewStyle().Bold(true).Width(10)
	dimStyle := lipgloss.NewStyle().Faint(true)

	for _, inst := range importer.Institutions() {
		a, err := importer.New(inst)
		if err != nil {
			return err
		}
		cols := make([]string, 0, len(a.Columns()))
		for _, c := range a.Columns() {
			name := c.Name
			if c.Contains {
				name = "*" + name + "*"
			}
			cols = append(cols, name)
		}
		fmt.Fprintf(out, "%s %s %s\n",
			tagStyle.Render(inst.Tag()),
			dimStyle.Render(fmt.Sprintf("delimiter %q", a.Delimiter())),
			strings.Join(cols, ", "),
		)
	}
	return nil
}
