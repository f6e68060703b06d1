package reports

import (
	"fmt"
	"regexp"
	"time"

	"laportal/internal/domain/earnings"
)

const (
	longDate  = "January 2, 2006"
	shortDate = "Jan 2, 2006"
	monthYear = "January 2006"
	dayMonth  = "Jan 2"
)

// Period is an inclusive calendar-day range with its report title.
type Period struct {
	Start time.Time
	End   time.Time
	Title string
}

// ResolvePeriod uses start and end when both are set and falls back to the
// calendar month of now otherwise.
func ResolvePeriod(start, end *time.Time, now time.Time) (Period, error) {
	if start == nil || end == nil {
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		last := first.AddDate(0, 1, -1)
		return Period{Start: first, End: last, Title: "Monthly Report - " + first.Format(monthYear)}, nil
	}
	from := earnings.CalendarDay(*start)
	to := earnings.CalendarDay(*end)
	if to.Before(from) {
		return Period{}, &earnings.ValidationError{Field: "endDate", Reason: "must not be before startDate"}
	}
	return Period{Start: from, End: to, Title: PeriodTitle(from, to)}, nil
}

// PeriodTitle names a report range. Weeks start on Sunday.
func PeriodTitle(start, end time.Time) string {
	start = earnings.CalendarDay(start)
	end = earnings.CalendarDay(end)
	switch {
	case start.Equal(end):
		return "Daily Report - " + start.Format(longDate)
	case weekStart(start).Equal(weekStart(end)):
		return fmt.Sprintf("Weekly Report - %s to %s", start.Format(dayMonth), end.Format(shortDate))
	case start.Year() == end.Year() && start.Month() == end.Month():
		return "Monthly Report - " + start.Format(monthYear)
	}
	return fmt.Sprintf("Report - %s to %s", start.Format(shortDate), end.Format(shortDate))
}

// ListTitle names an audit list export from its raw filter values.
func ListTitle(start, end *time.Time, search string) string {
	title := "Audit Report"
	switch {
	case start != nil && end != nil:
		if earnings.CalendarDay(*start).Equal(earnings.CalendarDay(*end)) {
			title = "Daily Audit Report - " + start.Format(longDate)
		} else {
			title = fmt.Sprintf("Audit Report - %s to %s", start.Format(shortDate), end.Format(shortDate))
		}
	case start != nil:
		title = "Audit Report from " + start.Format(shortDate)
	case end != nil:
		title = "Audit Report until " + end.Format(shortDate)
	}
	if search != "" {
		title += fmt.Sprintf(" (Search: %q)", search)
	}
	return title
}

var unsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Filename turns a title into an attachment name stamped with the render time.
func Filename(title string, at time.Time, ext string) string {
	return fmt.Sprintf("%s-%s.%s", unsafeFilename.ReplaceAllString(title, "-"), at.Format("2006-01-02-1504"), ext)
}

func weekStart(day time.Time) time.Time {
	return day.AddDate(0, 0, -int(day.Weekday()))
}
