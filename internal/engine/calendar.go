package engine

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-ageflow/internal/config"
)

// BuildCalendar renders the user's birthday as an iCalendar feed with one
// all-day event for the previous, current and next year, so calendar
// clients scrolling around "now" see the neighbouring occurrences.
// Years before the birth year are skipped.
func BuildCalendar(birth, now time.Time) ([]byte, error) {
	cal := ical.NewCalendar()

	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	// RFC 7986: Suggest a refresh interval
	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	// The birthday is a local calendar day, not a UTC instant.
	loc := now.Location()
	birthYear := birth.Year()

	for _, y := range []int{now.Year() - 1, now.Year(), now.Year() + 1} {
		if y < birthYear {
			continue
		}

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.ICalEventUID, y, config.ICalDomain))

		age := y - birthYear
		summary := fmt.Sprintf(config.ICalSummary, age)
		if age == 0 {
			summary = config.ICalBirthSumm
		}
		event.Props.SetText(config.PropSummary, summary)

		// Go's time.Date normalizes Feb 29 to March 1st in non-leap years.
		eventDate := time.Date(y, birth.Month(), birth.Day(), 0, 0, 0, 0, loc)
		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(eventDate)
		event.Props.Set(dtStartProp)
		event.Props.Set(dtStampProp)

		cal.Children = append(cal.Children, event.Component)
	}

	if len(cal.Children) == 0 {
		// go-ical refuses to encode a calendar without components.
		return []byte(stubCalendar), nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Debug(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeySizeBytes, buf.Len())

	return buf.Bytes(), nil
}

const stubCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + config.ICalProdid + "\r\nEND:VCALENDAR\r\n"
