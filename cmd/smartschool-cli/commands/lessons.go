package commands

import (
	"os"
	"smartschool-api/lib/timezone"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(lessonsCmd)
}

var lessonsCmd = &cobra.Command{
	Use:   "lessons",
	Short: "Prints the lessons of the coming 5 days.",
	Run: func(cmd *cobra.Command, args []string) {
		agenda := createAgenda(cmd.Context())

		lessons, err := agenda.Lessons(cmd.Context())
		if err != nil {
			fatal("failed to fetch lessons", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Date", "Hour", "Course", "Classroom", "Teacher", "Subject"})

		for _, lesson := range lessons {
			t.AppendRow(table.Row{
				timezone.FormatDate(lesson.Date),
				lesson.Hour,
				lesson.Course,
				lesson.Classroom,
				lesson.Teacher,
				lesson.Subject,
			})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
