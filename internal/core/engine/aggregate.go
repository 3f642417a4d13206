package engine

import (
	"sort"

	"github.com/sgk-rpa/rpa-dashboard/internal/core/domain"
	"github.com/sgk-rpa/rpa-dashboard/internal/core/labels"
)

const (
	// MonthlyWorkingSeconds is one FTE month: 8 hours a day, 22 days a month.
	MonthlyWorkingSeconds = 8 * 22 * 3600

	// DaysPerMonth is the mean month length used for tenure.
	DaysPerMonth = 30.44

	// UnknownWorkplace groups records without a workplace.
	UnknownWorkplace = "UNKNOWN"

	secondsPerDay = 86400
)

// Aggregate computes everything a dashboard shows for a filtered view.
// It never fails: malformed values degrade to zero or empty results.
func Aggregate(records []domain.Record, v domain.Variant) domain.AggregateResult {
	res := domain.AggregateResult{
		KPIs:      computeKPIs(records, v),
		Groupings: make([]domain.Grouping, 0, len(v.Groupings)),
		Trend:     Trend(records, v.TrendWindow),
		Hourly:    Hourly(records),
	}
	for _, g := range v.Groupings {
		res.Groupings = append(res.Groupings, Group(records, g))
	}
	if v.Employment.Enabled {
		emp := Employment(records, v.Employment.MinRecords, v.Employment.Limit)
		res.Employment = &emp
	}
	if v.TimelineLimit > 0 {
		res.Timeline = WorkplaceTimeline(records, v.TimelineLimit)
	}
	return res
}

func computeKPIs(records []domain.Record, v domain.Variant) domain.KPIs {
	k := domain.KPIs{Total: len(records)}

	durations := make([]int, 0, len(records))
	days := make(map[string]struct{})
	for i := range records {
		r := &records[i]
		switch {
		case r.IsCompleted():
			k.Completed++
			if r.DurationSec > 0 {
				k.CompletedDurationSec += r.DurationSec
			}
		case r.IsError():
			k.Error++
			if r.DurationSec > 0 {
				k.ErrorDurationSec += r.DurationSec
			}
		default:
			k.Unclassified++
		}
		durations = append(durations, r.DurationSec)
		if r.DateKey != "" {
			days[r.DateKey] = struct{}{}
		}
	}

	if k.Total > 0 {
		k.SuccessRate = float64(k.Completed) / float64(k.Total)
	}

	positive, sum := positiveDurations(durations)
	k.TotalDurationSec = sum
	k.TimedRecords = len(positive)
	if len(positive) > 0 {
		k.AvgDurationSec = float64(sum) / float64(len(positive))
		k.MedianDurationSec = Percentile(positive, 0.5)
		k.P95DurationSec = Percentile(positive, 0.95)
	}

	k.DayCount = len(days)
	k.DailyAverage = float64(k.Total) / float64(max(k.DayCount, 1))

	k.ManualTotalSec = k.Total * manualSeconds(v)
	k.SavedTimeSec = k.ManualTotalSec - sum
	k.FTESaved = float64(k.SavedTimeSec) / MonthlyWorkingSeconds
	return k
}

func manualSeconds(v domain.Variant) int {
	if v.ManualSecondsPerRecord > 0 {
		return v.ManualSecondsPerRecord
	}
	return domain.DefaultManualSecondsPerRecord
}

// GroupLabel maps a record to its label under key. ok is false when the
// record has no place in the grouping, e.g. an hour grouping without a
// parseable start time.
func GroupLabel(r *domain.Record, key domain.GroupingKey) (label string, ok bool) {
	switch key {
	case domain.GroupByDepartment:
		return orUnknown(r.DepartmentClean), true
	case domain.GroupByPosition:
		return orUnknown(r.PositionClean), true
	case domain.GroupByWorkplace:
		if r.Workplace == "" {
			return UnknownWorkplace, true
		}
		return r.Workplace, true
	case domain.GroupByExitReason:
		return labels.ExitReasonLabel(r.ExitReason), true
	case domain.GroupByErrorLabel:
		return labels.ErrorLabel(r.ErrorComment), true
	case domain.GroupByGender:
		return orUnknown(r.Gender), true
	case domain.GroupByHour:
		h, ok := labels.HourOfDay(r.StartDate)
		if !ok {
			return "", false
		}
		return labels.HourLabel(h), true
	}
	return "", false
}

func orUnknown(s string) string {
	if s == "" {
		return labels.UnknownLabel
	}
	return s
}

// Group counts records per label and orders the groups by descending count.
// Equal counts keep the order in which their labels were first seen.
func Group(records []domain.Record, spec domain.GroupingSpec) domain.Grouping {
	c := newCounter()
	for i := range records {
		r := &records[i]
		if spec.Status != "" && r.Status != spec.Status {
			continue
		}
		if label, ok := GroupLabel(r, spec.Key); ok {
			c.add(label, 1)
		}
	}
	return domain.Grouping{
		Name:     spec.Name,
		Key:      spec.Key,
		Items:    c.top(spec.Limit),
		Distinct: len(c.order),
	}
}

// counter is an insertion-ordered label count.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(label string, n int) {
	if _, seen := c.counts[label]; !seen {
		c.order = append(c.order, label)
	}
	c.counts[label] += n
}

// top returns up to limit groups with a positive count; limit <= 0 means all.
func (c *counter) top(limit int) []domain.GroupCount {
	items := make([]domain.GroupCount, 0, len(c.order))
	for _, label := range c.order {
		if n := c.counts[label]; n > 0 {
			items = append(items, domain.GroupCount{Label: label, Count: n})
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Count > items[j].Count
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// Trend counts records per date key, ascending. A positive window keeps only
// the most recent entries.
func Trend(records []domain.Record, window int) []domain.TrendPoint {
	byDate := make(map[string]*domain.TrendPoint)
	for i := range records {
		r := &records[i]
		if r.DateKey == "" {
			continue
		}
		p, ok := byDate[r.DateKey]
		if !ok {
			p = &domain.TrendPoint{Date: r.DateKey}
			byDate[r.DateKey] = p
		}
		p.Total++
		switch {
		case r.IsCompleted():
			p.Completed++
		case r.IsError():
			p.Error++
		}
	}

	trend := make([]domain.TrendPoint, 0, len(byDate))
	for _, p := range byDate {
		p.OK = p.Total - p.Error
		trend = append(trend, *p)
	}
	sort.Slice(trend, func(i, j int) bool {
		return trend[i].Date < trend[j].Date
	})
	if window > 0 && len(trend) > window {
		trend = trend[len(trend)-window:]
	}
	return trend
}

// Hourly is the histogram of start hours.
func Hourly(records []domain.Record) [domain.HoursPerDay]int {
	var hist [domain.HoursPerDay]int
	for i := range records {
		if h, ok := labels.HourOfDay(records[i].StartDate); ok {
			hist[h]++
		}
	}
	return hist
}

// Employment averages tenure in months per cleaned position. Only records
// whose exit strictly follows the hire date count; positions with fewer than
// minRecords such records are ignored. The limit positions with the most
// records are selected, then also presented longest tenure first.
func Employment(records []domain.Record, minRecords, limit int) domain.EmploymentStats {
	type acc struct {
		count  int
		months float64
	}
	order := make([]string, 0)
	groups := make(map[string]*acc)

	for i := range records {
		r := &records[i]
		hire, ok := labels.ParseCalendarDate(r.HireDate)
		if !ok {
			continue
		}
		exit, ok := labels.ParseCalendarDate(r.ExitDate)
		if !ok || !exit.After(hire) {
			continue
		}
		months := exit.Sub(hire).Seconds() / (DaysPerMonth * secondsPerDay)

		pos := orUnknown(r.PositionClean)
		g, seen := groups[pos]
		if !seen {
			g = &acc{}
			groups[pos] = g
			order = append(order, pos)
		}
		g.count++
		g.months += months
	}

	byCount := make([]domain.PositionTenure, 0, len(order))
	for _, pos := range order {
		g := groups[pos]
		if g.count < minRecords {
			continue
		}
		byCount = append(byCount, domain.PositionTenure{
			Position:  pos,
			Count:     g.count,
			AvgMonths: g.months / float64(g.count),
		})
	}
	sort.SliceStable(byCount, func(i, j int) bool {
		return byCount[i].Count > byCount[j].Count
	})
	if limit > 0 && len(byCount) > limit {
		byCount = byCount[:limit]
	}

	byAverage := make([]domain.PositionTenure, len(byCount))
	copy(byAverage, byCount)
	sort.SliceStable(byAverage, func(i, j int) bool {
		return byAverage[i].AvgMonths > byAverage[j].AvgMonths
	})

	return domain.EmploymentStats{ByCount: byCount, ByAverage: byAverage}
}

// WorkplaceTimeline ranks workplaces by cumulative record count as of each
// date key. Each frame holds at most limit workplaces.
func WorkplaceTimeline(records []domain.Record, limit int) []domain.TimelineFrame {
	perDay := make(map[string]*counter)
	for i := range records {
		r := &records[i]
		if r.DateKey == "" {
			continue
		}
		c, ok := perDay[r.DateKey]
		if !ok {
			c = newCounter()
			perDay[r.DateKey] = c
		}
		label, _ := GroupLabel(r, domain.GroupByWorkplace)
		c.add(label, 1)
	}

	dates := make([]string, 0, len(perDay))
	for d := range perDay {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	running := newCounter()
	frames := make([]domain.TimelineFrame, 0, len(dates))
	for _, d := range dates {
		day := perDay[d]
		for _, label := range day.order {
			running.add(label, day.counts[label])
		}
		frames = append(frames, domain.TimelineFrame{Date: d, Top: running.top(limit)})
	}
	return frames
}
