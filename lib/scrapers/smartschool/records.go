package smartschool

import "time"

// one lesson block as the agenda grid returns it. everything passes
// through as the portal's strings except the declared date field.
type AgendaLesson struct {
	MomentID            string    `mapstructure:"momentID"`
	LessonID            string    `mapstructure:"lessonID"`
	HourID              string    `mapstructure:"hourID"`
	Date                time.Time `mapstructure:"date"`
	Subject             string    `mapstructure:"subject,omitempty"`
	Course              string    `mapstructure:"course"`
	CourseTitle         string    `mapstructure:"courseTitle,omitempty"`
	Classroom           string    `mapstructure:"classroom,omitempty"`
	ClassroomTitle      string    `mapstructure:"classroomTitle,omitempty"`
	Teacher             string    `mapstructure:"teacher,omitempty"`
	TeacherTitle        string    `mapstructure:"teacherTitle,omitempty"`
	Klassen             string    `mapstructure:"klassen,omitempty"`
	KlassenTitle        string    `mapstructure:"klassenTitle,omitempty"`
	ClassIDs            string    `mapstructure:"classIDs,omitempty"`
	BothStartStatus     string    `mapstructure:"bothStartStatus,omitempty"`
	AssignmentEndStatus string    `mapstructure:"assignmentEndStatus,omitempty"`
	TestDeadlineStatus  string    `mapstructure:"testDeadlineStatus,omitempty"`
	NoteStatus          string    `mapstructure:"noteStatus,omitempty"`
	Note                string    `mapstructure:"note,omitempty"`
	DateListview        string    `mapstructure:"date_listview,omitempty"`
	Hour                string    `mapstructure:"hour,omitempty"`
	Activity            string    `mapstructure:"activity,omitempty"`
	ActivityID          string    `mapstructure:"activityID,omitempty"`
	Color               string    `mapstructure:"color,omitempty"`
	HourValue           string    `mapstructure:"hourValue,omitempty"`
	ComponentsHidden    string    `mapstructure:"components_hidden,omitempty"`
	FreedayIcon         string    `mapstructure:"freedayIcon,omitempty"`
	SomeSubjectsEmpty   string    `mapstructure:"someSubjectsEmpty,omitempty"`
}

// one period of the timetable grid
type AgendaHour struct {
	HourID string `mapstructure:"hourID"`
	Start  string `mapstructure:"start"`
	End    string `mapstructure:"end"`
	Title  string `mapstructure:"title"`
}

// the per-class detail behind a moment (the book symbol in the
// agenda), assignments come pre-flattened by the endpoint's
// post-processing
type AgendaMomentInfo struct {
	ClassName   string             `mapstructure:"className"`
	Title       string             `mapstructure:"title,omitempty"`
	Teacher     string             `mapstructure:"teacher,omitempty"`
	Course      string             `mapstructure:"course,omitempty"`
	Note        string             `mapstructure:"note,omitempty"`
	Assignments []MomentAssignment `mapstructure:"assignments"`
}

type MomentAssignment struct {
	AssignmentID  string `mapstructure:"assignmentID,omitempty"`
	Type          string `mapstructure:"type,omitempty"`
	Description   string `mapstructure:"description,omitempty"`
	AtDescription string `mapstructure:"atdescription,omitempty"`
}
