package smartschool

import (
	"context"
	"fmt"
	"smartschool-api/lib/timezone"
	"time"

	"github.com/tidwall/gjson"
)

// the future-tasks panel is one of the few agenda endpoints answering
// JSON instead of the dispatcher's XML

type FutureTask struct {
	Label        string
	AssignmentID string
	Description  string
}

type FutureTaskItems struct {
	Materials []FutureTask
	Tasks     []FutureTask
}

type FutureTaskCourse struct {
	LessonID    string
	HourID      string
	ClassID     string
	CourseTitle string
	Items       FutureTaskItems
}

type FutureTaskDay struct {
	Date    time.Time
	Courses []FutureTaskCourse
}

func (a *Agenda) FutureTasks(ctx context.Context) ([]FutureTaskDay, error) {
	days, err := a.cache.getOrFetch(ctx, "futuretasks", timezone.FormatDate(a.now()), func() (any, error) {
		raw, err := a.session.PostJSON(ctx, "/Agenda/Futuretasks/getFuturetasks", map[string]string{
			"lastDate":         "",
			"lastAssignmentID": "0",
			"filterType":       "false",
			"filterID":         "false",
		})
		if err != nil {
			return nil, err
		}
		return parseFutureTasks(raw)
	})
	if err != nil {
		return nil, err
	}
	return days.([]FutureTaskDay), nil
}

func parseFutureTasks(raw []byte) ([]FutureTaskDay, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: invalid json", MalformedResponse)
	}
	dayList := gjson.GetBytes(raw, "days")
	if !dayList.Exists() || !dayList.IsArray() {
		return nil, fmt.Errorf("%w: missing days list", MalformedResponse)
	}

	out := []FutureTaskDay{}
	var parseErr error
	dayList.ForEach(func(_, day gjson.Result) bool {
		date, err := time.ParseInLocation(time.DateOnly, day.Get("date").String(), timezone.Location)
		if err != nil {
			parseErr = fmt.Errorf("%w: bad day date %q", MalformedResponse, day.Get("date").String())
			return false
		}

		parsed := FutureTaskDay{Date: date}
		day.Get("courses").ForEach(func(_, course gjson.Result) bool {
			parsed.Courses = append(parsed.Courses, FutureTaskCourse{
				LessonID:    course.Get("lessonID").String(),
				HourID:      course.Get("hourID").String(),
				ClassID:     course.Get("classID").String(),
				CourseTitle: course.Get("course_title").String(),
				Items: FutureTaskItems{
					Materials: parseFutureTaskList(course.Get("items.materials")),
					Tasks:     parseFutureTaskList(course.Get("items.tasks")),
				},
			})
			return true
		})
		out = append(out, parsed)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return out, nil
}

func parseFutureTaskList(list gjson.Result) []FutureTask {
	// an empty panel decodes to an empty list, not nil
	out := []FutureTask{}
	list.ForEach(func(_, item gjson.Result) bool {
		out = append(out, FutureTask{
			Label:        item.Get("label").String(),
			AssignmentID: item.Get("assignmentID").String(),
			Description:  item.Get("description").String(),
		})
		return true
	})
	return out
}
