package smartschool

import (
	"context"
	"fmt"
	"smartschool-api/lib/timezone"
	"strconv"
	"strings"
	"time"
)

// one logical XHR endpoint behind the dispatcher. params gets the
// current wall clock, post is the optional element rewrite applied
// before record binding.
type endpoint struct {
	name      string
	subsystem string
	action    string
	selector  string
	params    func(now time.Time) map[string]string
	post      func(RawElement) error
}

// typed access to the agenda XHR endpoints. results memoize per
// endpoint and date for the lifetime of the Agenda value, adapters
// hold no other state between calls.
type Agenda struct {
	session *Client
	cache   *resultCache
	now     func() time.Time
}

type AgendaOptions struct {
	// overrides the wall clock used for request windows and cache
	// keys, nil means timezone.Now
	Now func() time.Time
}

func NewAgenda(session *Client, opts AgendaOptions) *Agenda {
	now := opts.Now
	if now == nil {
		now = timezone.Now
	}
	return &Agenda{
		session: session,
		cache:   newResultCache(),
		now:     now,
	}
}

// drops every memoized result list, the next fetch per endpoint hits
// the network again
func (a *Agenda) ClearCaches() {
	a.cache.Clear()
}

func fetchRecords[T any](ctx context.Context, a *Agenda, ep endpoint, key string) ([]T, error) {
	records, err := a.cache.getOrFetch(ctx, ep.name, key, func() (any, error) {
		raw, err := a.session.PostCommand(ctx, ep.subsystem, ep.action, ep.params(a.now()))
		if err != nil {
			return nil, err
		}
		els, err := parseElements(raw, ep.selector)
		if err != nil {
			return nil, err
		}
		return mapRecords[T](els, ep.post)
	})
	if err != nil {
		return nil, err
	}
	return records.([]T), nil
}

var lessonsEndpoint = endpoint{
	name:      "lessons",
	subsystem: "agenda",
	action:    "get lessons",
	selector:  ".//lesson",
	params: func(now time.Time) map[string]string {
		start := now.Unix()
		end := now.Add(5 * 24 * time.Hour).Unix()

		return map[string]string{
			"startDateTimestamp":  strconv.FormatInt(start, 10),
			"endDateTimestamp":    strconv.FormatInt(end, 10),
			"filterType":          "false",
			"filterID":            "false",
			"gridType":            "1",
			"classID":             "0",
			"endDateTimestampOld": strconv.FormatInt(end, 10),
			"forcedTeacher":       "0",
			"forcedClass":         "0",
			"forcedClassroom":     "0",
			"assignmentTypeID":    "1",
		}
	},
}

// the lessons of the 5-day window starting today, in document order
func (a *Agenda) Lessons(ctx context.Context) ([]AgendaLesson, error) {
	return a.LessonsOn(ctx, a.now())
}

// Lessons with an explicit day for the memoization key
func (a *Agenda) LessonsOn(ctx context.Context, day time.Time) ([]AgendaLesson, error) {
	return fetchRecords[AgendaLesson](ctx, a, lessonsEndpoint, timezone.FormatDate(day))
}

var hoursEndpoint = endpoint{
	name:      "hours",
	subsystem: "grid",
	action:    "get hours",
	selector:  ".//hour",
	params: func(now time.Time) map[string]string {
		return map[string]string{
			"date": strconv.FormatInt(now.Unix(), 10),
		}
	},
}

// the periods of the timetable grid ("hours" in smartschool)
func (a *Agenda) Hours(ctx context.Context) ([]AgendaHour, error) {
	return a.HoursOn(ctx, a.now())
}

// Hours with an explicit day for the memoization key
func (a *Agenda) HoursOn(ctx context.Context, day time.Time) ([]AgendaHour, error) {
	return fetchRecords[AgendaHour](ctx, a, hoursEndpoint, timezone.FormatDate(day))
}

// linear scan over Hours, returns the first period whose hourID
// matches, NotFound carries the searched id
func (a *Agenda) HourByID(ctx context.Context, hourID string) (AgendaHour, error) {
	hours, err := a.Hours(ctx)
	if err != nil {
		return AgendaHour{}, err
	}
	for _, hour := range hours {
		if hour.HourID == hourID {
			return hour, nil
		}
	}
	return AgendaHour{}, fmt.Errorf("%w: hourID %q", NotFound, hourID)
}

// the moment detail adapter is bound to one momentID at construction
type MomentInfo struct {
	agenda   *Agenda
	momentID string
}

func (a *Agenda) MomentInfo(momentID string) (*MomentInfo, error) {
	momentID = strings.TrimSpace(momentID)
	if momentID == "" {
		return nil, fmt.Errorf("%w: momentID must not be empty", InvalidArgument)
	}
	return &MomentInfo{agenda: a, momentID: momentID}, nil
}

func (m *MomentInfo) endpoint() endpoint {
	return endpoint{
		name:      "momentinfo",
		subsystem: "agenda",
		action:    "get moment info",
		selector:  ".//class",
		params: func(time.Time) map[string]string {
			return map[string]string{
				"momentID":      m.momentID,
				"dateID":        "",
				"assignmentIDs": "",
				"activityID":    "0",
			}
		},
		post: normalizeAssignments,
	}
}

func (m *MomentInfo) Fetch(ctx context.Context) ([]AgendaMomentInfo, error) {
	return fetchRecords[AgendaMomentInfo](ctx, m.agenda, m.endpoint(), m.momentID)
}

// the response nests assignments.assignment, a single mapping for one
// assignment and a list for several. flatten both shapes (and the
// empty tag) into a uniform list under "assignments" so the record
// gets one consistent field.
func normalizeAssignments(el RawElement) error {
	nested, ok := el["assignments"].(RawElement)
	if !ok {
		el["assignments"] = []any{}
		return nil
	}
	switch assignment := nested["assignment"].(type) {
	case []any:
		el["assignments"] = assignment
	case nil:
		el["assignments"] = []any{}
	default:
		el["assignments"] = []any{assignment}
	}
	return nil
}
