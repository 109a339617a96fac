package commands

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(hoursCmd)
}

var hoursCmd = &cobra.Command{
	Use:   "hours",
	Short: "Prints the periods of the timetable grid.",
	Run: func(cmd *cobra.Command, args []string) {
		agenda := createAgenda(cmd.Context())

		hours, err := agenda.Hours(cmd.Context())
		if err != nil {
			fatal("failed to fetch hours", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"ID", "Start", "End", "Title"})

		for _, hour := range hours {
			t.AppendRow(table.Row{hour.HourID, hour.Start, hour.End, hour.Title})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
