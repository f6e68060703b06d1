package audits

import (
	"fmt"
	"strings"
	"time"

	"laportal/internal/domain/earnings"
)

// ListFilter is a resolved list query. A nil Courier slice means every
// courier; Start and End are inclusive calendar days.
type ListFilter struct {
	Couriers []earnings.Courier
	Start    *time.Time
	End      *time.Time
	Search   Search
}

// Search is the parsed free-text term. A term containing commas is treated as
// a list of seller ids.
type Search struct {
	Term      string
	SellerIDs []string
}

func (s Search) Empty() bool {
	return s.Term == ""
}

func ParseSearch(raw string) Search {
	term := strings.TrimSpace(raw)
	if term == "" {
		return Search{}
	}
	out := Search{Term: term}
	if !strings.Contains(term, ",") {
		return out
	}
	for _, part := range strings.Split(term, ",") {
		if id := strings.TrimSpace(part); id != "" {
			out.SellerIDs = append(out.SellerIDs, id)
		}
	}
	return out
}

// ParseCourierFilter maps the list "type" parameter. Empty means all.
func ParseCourierFilter(raw string) ([]earnings.Courier, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", CourierFilterAll:
		return nil, nil
	case CourierFilterSPX:
		return []earnings.Courier{earnings.CourierSPX}, nil
	case CourierFilterFlash:
		return []earnings.Courier{earnings.CourierFlash}, nil
	}
	return nil, &earnings.ValidationError{Field: "type", Reason: "must be spx, flash or all"}
}

// BuildFilter resolves raw list parameters. When only one bound is given the
// other defaults to the start or end of now's year; with neither there is no
// date restriction.
func BuildFilter(courier string, start, end *time.Time, search string, now time.Time) (ListFilter, error) {
	couriers, err := ParseCourierFilter(courier)
	if err != nil {
		return ListFilter{}, err
	}
	filter := ListFilter{Couriers: couriers, Search: ParseSearch(search)}
	if start == nil && end == nil {
		return filter, nil
	}

	from := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	if start != nil {
		from = earnings.CalendarDay(*start)
	}
	if end != nil {
		to = earnings.CalendarDay(*end)
	}
	if to.Before(from) {
		return ListFilter{}, &earnings.ValidationError{Field: "endDate", Reason: "must not be before startDate"}
	}
	filter.Start = &from
	filter.End = &to
	return filter, nil
}

// CourierLabel is the filter echo value of the courier restriction.
func (f ListFilter) CourierLabel() string {
	if len(f.Couriers) != 1 {
		return CourierFilterAll
	}
	return f.Couriers[0].Slug()
}

func (f ListFilter) Echo() FilterEcho {
	echo := FilterEcho{Type: f.CourierLabel(), Search: f.Search.Term}
	if f.Start != nil {
		echo.StartDate = f.Start.Format("2006-01-02")
	}
	if f.End != nil {
		echo.EndDate = f.End.Format("2006-01-02")
	}
	return echo
}

// where renders the filter as a SQL condition over courier_audits aliased a.
func (f ListFilter) where() (string, []any) {
	var clauses []string
	var args []any
	next := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(f.Couriers) > 0 {
		names := make([]string, 0, len(f.Couriers))
		for _, c := range f.Couriers {
			names = append(names, string(c))
		}
		clauses = append(clauses, "a.courier = ANY("+next(names)+")")
	}
	if f.Start != nil {
		clauses = append(clauses, "a.audit_date >= "+next(*f.Start))
	}
	if f.End != nil {
		clauses = append(clauses, "a.audit_date <= "+next(*f.End))
	}
	if !f.Search.Empty() {
		pattern := next("%" + escapeLike(f.Search.Term) + "%")
		if len(f.Search.SellerIDs) > 0 {
			ids := next(f.Search.SellerIDs)
			clauses = append(clauses, fmt.Sprintf("(a.seller_id = ANY(%s) OR a.shop_name ILIKE %s OR a.task_id ILIKE %s OR a.notes ILIKE %s)", ids, pattern, pattern, pattern))
		} else {
			clauses = append(clauses, fmt.Sprintf("(a.seller_id ILIKE %s OR a.shop_id ILIKE %s OR a.shop_name ILIKE %s OR a.task_id ILIKE %s OR a.notes ILIKE %s)", pattern, pattern, pattern, pattern, pattern))
		}
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func escapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}
