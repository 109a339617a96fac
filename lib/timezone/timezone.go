package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Europe/Brussels")
	if err != nil {
		panic(err)
	}
}

// force the timezone to the one smartschool runs in, the portal keys
// everything on Belgian calendar dates and a host in another timezone
// would shift agenda days around midnight
func Now() time.Time {
	return time.Now().In(Location)
}

// the YYYY-mm-dd form the portal uses for agenda dates
func FormatDate(t time.Time) string {
	return t.In(Location).Format(time.DateOnly)
}
