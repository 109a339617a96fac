package commands

import (
	"os"
	"smartschool-api/lib/timezone"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(tasksCmd)
}

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Prints upcoming tasks and materials per course.",
	Run: func(cmd *cobra.Command, args []string) {
		agenda := createAgenda(cmd.Context())

		days, err := agenda.FutureTasks(cmd.Context())
		if err != nil {
			fatal("failed to fetch future tasks", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Date", "Course", "Kind", "Description"})

		for _, day := range days {
			for _, course := range day.Courses {
				for _, task := range course.Items.Tasks {
					t.AppendRow(table.Row{
						timezone.FormatDate(day.Date),
						course.CourseTitle,
						"task",
						task.Description,
					})
				}
				for _, material := range course.Items.Materials {
					t.AppendRow(table.Row{
						timezone.FormatDate(day.Date),
						course.CourseTitle,
						"material",
						material.Description,
					})
				}
			}
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
