package engine

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-phonebook/internal/config"
	"github.com/tartampluch/go-phonebook/internal/phonebook"
)

// CalendarOptions tunes the generated birthday feed.
type CalendarOptions struct {
	// Reminder is an ISO8601 duration (e.g. "-P1D"). Empty disables alarms.
	Reminder string

	// FormatSummary lets the UI inject localized event titles.
	FormatSummary func(name string, age int) string
}

// BuildCalendar renders every recorded birthday as iCalendar events for the
// previous, current and next year.
func (b *Book) BuildCalendar(opts CalendarOptions) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	now := b.Clock.Now()
	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	withBirthday := 0
	for _, rec := range b.Dir.All() {
		if !rec.Birthday.IsSet() {
			continue
		}
		withBirthday++
		for _, e := range birthdayEvents(rec, now, opts) {
			e.Props.Set(dtStampProp)
			cal.Children = append(cal.Children, e.Component)
		}
	}

	if len(cal.Children) == 0 {
		return []byte(config.StubVCalendar), nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Debug(config.MsgCalendarBuilt,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyCount, withBirthday,
		config.LogKeySizeBytes, buf.Len(),
	)
	return buf.Bytes(), nil
}

// birthdayEvents skips years before the person was born.
func birthdayEvents(rec *phonebook.Record, now time.Time, opts CalendarOptions) []*ical.Event {
	month, day := rec.Birthday.MonthDay()
	born := rec.Birthday.Year()
	currentYear := now.Year()

	var events []*ical.Event
	for _, y := range []int{currentYear - 1, currentYear, currentYear + 1} {
		if y < born {
			continue
		}

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, rec.UID, y, config.ICalDomain))

		age := y - born
		summary := fmt.Sprintf(config.FallbackSummaryAge, rec.Name, age)
		if opts.FormatSummary != nil {
			summary = opts.FormatSummary(string(rec.Name), age)
		}
		event.Props.SetText(config.PropSummary, summary)

		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(time.Date(y, month, day, 0, 0, 0, 0, now.Location()))
		event.Props.Set(dtStartProp)

		if opts.Reminder != "" {
			addAlarm(event, opts.Reminder, summary)
		}
		events = append(events, event)
	}
	return events
}

// addAlarm appends a DISPLAY alarm to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set the value directly so no VALUE=TEXT parameter is emitted.
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}
