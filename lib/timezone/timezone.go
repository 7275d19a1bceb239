package timezone

import (
	_ "embed"
	"strings"
	"sync"
	"time"
	_ "time/tzdata"
)

//go:embed zones.tsv
var zonesTable string

var (
	zonesOnce sync.Once
	zones     map[string][]string
)

func loadZones() {
	zones = map[string][]string{}
	for _, line := range strings.Split(zonesTable, "\n") {
		code, list, ok := strings.Cut(strings.TrimSpace(line), "\t")
		if !ok {
			continue
		}
		zones[code] = strings.Split(list, ",")
	}
}

// ForCountry returns the IANA zones of an ISO 3166 alpha-2 country code,
// the most populated zone comes first.
func ForCountry(code string) []string {
	zonesOnce.Do(loadZones)
	return zones[strings.ToUpper(code)]
}

// Location loads the first zone of a country.
func Location(code string) (*time.Location, error) {
	list := ForCountry(code)
	if len(list) == 0 {
		return nil, ErrUnknownCountry
	}
	return time.LoadLocation(list[0])
}

// Clock is the human formatted local time of a zone.
type Clock struct {
	Time    string
	Date    string
	Weekday string
}

func FormatClock(now time.Time) Clock {
	return Clock{
		Time:    now.Format("03:04:05 PM"),
		Date:    now.Format("02 Jan, 2006"),
		Weekday: now.Format("Monday"),
	}
}
