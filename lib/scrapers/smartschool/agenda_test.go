package smartschool

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"smartschool-api/lib/telemetry"
	"smartschool-api/lib/timezone"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var subsystemRegex = regexp.MustCompile("<subsystem>(.*?)</subsystem>")
var actionRegex = regexp.MustCompile("<action>(.*?)</action>")

// serves testdata fixtures the way the portal's dispatcher would,
// keyed on the subsystem/action found in the posted command envelope
type fixtureServer struct {
	*httptest.Server

	mu        sync.Mutex
	calls     map[string]int
	commands  map[string]string
	overrides map[string]string
}

func newFixtureServer(t testing.TB) *fixtureServer {
	fx := &fixtureServer{
		calls:     map[string]int{},
		commands:  map[string]string{},
		overrides: map[string]string{},
	}
	fx.Server = httptest.NewServer(http.HandlerFunc(fx.handle))
	t.Cleanup(fx.Close)
	return fx
}

func (fx *fixtureServer) override(subsystem, action, filename string) {
	fx.mu.Lock()
	defer fx.mu.Unlock()
	fx.overrides[subsystem+"/"+action] = filename
}

func (fx *fixtureServer) callCount(key string) int {
	fx.mu.Lock()
	defer fx.mu.Unlock()
	return fx.calls[key]
}

func (fx *fixtureServer) lastCommand(key string) string {
	fx.mu.Lock()
	defer fx.mu.Unlock()
	return fx.commands[key]
}

func (fx *fixtureServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" && r.URL.Query().Get("file") == "dispatcher" {
		err := r.ParseForm()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		command := r.PostForm.Get("command")

		subsystem := subsystemRegex.FindStringSubmatch(command)
		action := actionRegex.FindStringSubmatch(command)
		if subsystem == nil || action == nil {
			http.Error(w, "command envelope missing subsystem/action", http.StatusBadRequest)
			return
		}
		key := subsystem[1] + "/" + action[1]

		fx.mu.Lock()
		fx.calls[key]++
		fx.commands[key] = command
		filename, overridden := fx.overrides[key]
		fx.mu.Unlock()

		if !overridden {
			filename = strings.ReplaceAll(subsystem[1]+"_"+action[1], " ", "_") + ".xml"
		}
		contents, err := os.ReadFile(filepath.Join("testdata", filename))
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		w.Write(contents)
		return
	}

	if r.URL.Path == "/Agenda/Futuretasks/getFuturetasks" {
		fx.mu.Lock()
		fx.calls["futuretasks"]++
		fx.mu.Unlock()
		http.ServeFile(w, r, filepath.Join("testdata", "futuretasks.json"))
		return
	}

	http.NotFound(w, r)
}

// thursday 2023-11-16, matching the fixtures
func fixedNow() time.Time {
	return time.Date(2023, time.November, 16, 10, 0, 0, 0, timezone.Location)
}

func setupAgenda(t testing.TB) (*Agenda, *fixtureServer) {
	cleanup := telemetry.SetupForTesting("scrapers/smartschool")
	t.Cleanup(cleanup)

	fx := newFixtureServer(t)
	client, err := NewClient(context.Background(), ClientOptions{BaseUrl: fx.URL})
	require.NoError(t, err)

	return NewAgenda(client, AgendaOptions{Now: fixedNow}), fx
}

func TestLessons(t *testing.T) {
	agenda, fx := setupAgenda(t)
	ctx := context.Background()

	lessons, err := agenda.Lessons(ctx)
	require.NoError(t, err)
	require.Len(t, lessons, 2)

	first := lessons[0]
	require.Equal(t, "3789340", first.MomentID)
	require.Equal(t, "2233", first.LessonID)
	require.Equal(t, "318", first.HourID)
	require.Equal(t, time.Date(2023, time.November, 16, 0, 0, 0, 0, time.UTC), first.Date)
	require.Equal(t, "AAR1", first.Course)
	require.Equal(t, "2 - AAR1, Lotte Peeters", first.CourseTitle)
	require.Equal(t, "Peeters L.", first.Teacher)
	require.Equal(t, "A1.08", first.Classroom)

	// document order is preserved
	require.Equal(t, "3789341", lessons[1].MomentID)
	require.Equal(t, "NED", lessons[1].Course)

	// the request window starts now and looks 5 days ahead
	command := fx.lastCommand("agenda/get lessons")
	require.Contains(t, command, `name="startDateTimestamp"`)
	require.Contains(t, command, `name="endDateTimestamp"`)
}

func TestLessonsCached(t *testing.T) {
	agenda, fx := setupAgenda(t)
	ctx := context.Background()

	first, err := agenda.Lessons(ctx)
	require.NoError(t, err)
	second, err := agenda.Lessons(ctx)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 1, fx.callCount("agenda/get lessons"))

	agenda.ClearCaches()

	_, err = agenda.Lessons(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, fx.callCount("agenda/get lessons"))
}

func TestLessonsOnExplicitDay(t *testing.T) {
	agenda, fx := setupAgenda(t)
	ctx := context.Background()

	_, err := agenda.Lessons(ctx)
	require.NoError(t, err)

	// same day as the injected clock, memoized under the same key
	_, err = agenda.LessonsOn(ctx, fixedNow())
	require.NoError(t, err)
	require.Equal(t, 1, fx.callCount("agenda/get lessons"))

	// a different day is a different key
	_, err = agenda.LessonsOn(ctx, fixedNow().AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Equal(t, 2, fx.callCount("agenda/get lessons"))
}

func TestHours(t *testing.T) {
	agenda, fx := setupAgenda(t)
	ctx := context.Background()

	hours, err := agenda.Hours(ctx)
	require.NoError(t, err)
	require.Len(t, hours, 3)
	require.Equal(t, AgendaHour{
		HourID: "318",
		Start:  "08:25",
		End:    "09:15",
		Title:  "1",
	}, hours[0])

	require.Equal(t, 1, fx.callCount("grid/get hours"))
}

func TestHourByID(t *testing.T) {
	agenda, fx := setupAgenda(t)
	ctx := context.Background()

	hour, err := agenda.HourByID(ctx, "319")
	require.NoError(t, err)
	require.Equal(t, "09:15", hour.Start)

	_, err = agenda.HourByID(ctx, "999")
	require.ErrorIs(t, err, NotFound)
	require.Contains(t, err.Error(), "999")

	// both lookups share one memoized fetch
	require.Equal(t, 1, fx.callCount("grid/get hours"))
}

func TestMomentInfoValidation(t *testing.T) {
	agenda, _ := setupAgenda(t)

	_, err := agenda.MomentInfo("")
	require.ErrorIs(t, err, InvalidArgument)

	_, err = agenda.MomentInfo("   ")
	require.ErrorIs(t, err, InvalidArgument)

	moment, err := agenda.MomentInfo("12345")
	require.NoError(t, err)
	require.NotNil(t, moment)
}

func TestMomentInfoParams(t *testing.T) {
	agenda, fx := setupAgenda(t)
	ctx := context.Background()

	moment, err := agenda.MomentInfo("12345")
	require.NoError(t, err)

	_, err = moment.Fetch(ctx)
	require.NoError(t, err)

	command := fx.lastCommand("agenda/get moment info")
	require.Contains(t, command, `name="momentID"`)
	require.Contains(t, command, "12345")
}

func TestMomentInfoAssignments(t *testing.T) {
	cases := []struct {
		name    string
		fixture string
		expect  []MomentAssignment
	}{
		{
			name:    "single assignment becomes a one-element list",
			fixture: "agenda_get_moment_info.xml",
			expect: []MomentAssignment{
				{
					AssignmentID: "549556",
					Type:         "Toets",
					Description:  "Toets 3. De koolstofcyclus in het systeem aarde pagina 42 - 47",
				},
			},
		},
		{
			name:    "multiple assignments stay a list",
			fixture: "moment_info_multiple_assignments.xml",
			expect: []MomentAssignment{
				{
					AssignmentID: "549556",
					Type:         "Toets",
					Description:  "Toets 3. De koolstofcyclus in het systeem aarde pagina 42 - 47",
				},
				{
					AssignmentID: "549557",
					Type:         "Taak",
					Description:  "Oefeningen pagina 48",
				},
			},
		},
		{
			name:    "empty assignments tag becomes an empty list",
			fixture: "moment_info_no_assignments.xml",
			expect:  []MomentAssignment{},
		},
	}

	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			agenda, fx := setupAgenda(t)
			fx.override("agenda", "get moment info", test.fixture)

			moment, err := agenda.MomentInfo("12345")
			require.NoError(t, err)

			infos, err := moment.Fetch(context.Background())
			require.NoError(t, err)
			require.Len(t, infos, 1)
			require.Equal(t, "2A", infos[0].ClassName)
			require.Len(t, infos[0].Assignments, len(test.expect))
			for i, expect := range test.expect {
				require.Equal(t, expect, infos[0].Assignments[i])
			}
		})
	}
}

func TestFetchErrorIsNotCached(t *testing.T) {
	agenda, fx := setupAgenda(t)
	ctx := context.Background()

	fx.override("agenda", "get lessons", "does_not_exist.xml")

	_, err := agenda.Lessons(ctx)
	require.ErrorIs(t, err, MalformedResponse)
	require.Equal(t, 1, fx.callCount("agenda/get lessons"))

	// no poisoned entry: the next call retries the network
	fx.override("agenda", "get lessons", "agenda_get_lessons.xml")

	lessons, err := agenda.Lessons(ctx)
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	require.Equal(t, 2, fx.callCount("agenda/get lessons"))
}

func TestFutureTasks(t *testing.T) {
	agenda, fx := setupAgenda(t)
	ctx := context.Background()

	days, err := agenda.FutureTasks(ctx)
	require.NoError(t, err)
	require.Len(t, days, 1)

	day := days[0]
	require.Equal(t, time.Date(2023, time.November, 16, 0, 0, 0, 0, timezone.Location), day.Date)
	require.Len(t, day.Courses, 1)

	course := day.Courses[0]
	require.Equal(t, "2 - AAR1, Lotte Peeters", course.CourseTitle)
	require.Empty(t, course.Items.Materials)
	require.Len(t, course.Items.Tasks, 1)
	require.Equal(t, "549556", course.Items.Tasks[0].AssignmentID)
	require.Equal(t,
		"Toets 3. De koolstofcyclus in het systeem aarde pagina 42 - 47",
		course.Items.Tasks[0].Description,
	)

	_, err = agenda.FutureTasks(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, fx.callCount("futuretasks"))
}
