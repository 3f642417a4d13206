package domain

// HoursPerDay is the size of the hourly distribution.
const HoursPerDay = 24

// KPIs are the scalar figures of a dashboard header.
type KPIs struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Error     int `json:"error"`
	// Unclassified counts records whose status is neither COMPLETED nor ERROR.
	Unclassified int `json:"unclassified"`
	// SuccessRate is Completed/Total in [0,1]; zero for an empty view.
	SuccessRate float64 `json:"successRate"`

	TotalDurationSec     int     `json:"totalDurationSec"`
	TimedRecords         int     `json:"timedRecords"`
	AvgDurationSec       float64 `json:"avgDurationSec"`
	MedianDurationSec    float64 `json:"medianDurationSec"`
	P95DurationSec       float64 `json:"p95DurationSec"`
	CompletedDurationSec int     `json:"completedDurationSec"`
	ErrorDurationSec     int     `json:"errorDurationSec"`

	DayCount     int     `json:"dayCount"`
	DailyAverage float64 `json:"dailyAverage"`

	ManualTotalSec int `json:"manualTotalSec"`
	// SavedTimeSec may be negative when robots are slower than clerks.
	SavedTimeSec int     `json:"savedTimeSec"`
	FTESaved     float64 `json:"fteSaved"`
}

// GroupCount is one bar of a top-N breakdown.
type GroupCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Grouping is a named top-N breakdown ordered by descending count.
type Grouping struct {
	Name  string       `json:"name"`
	Key   GroupingKey  `json:"key"`
	Items []GroupCount `json:"items"`
	// Distinct is the number of groups before truncation.
	Distinct int `json:"distinct"`
}

// Top returns the largest group.
func (g Grouping) Top() (GroupCount, bool) {
	if len(g.Items) == 0 {
		return GroupCount{}, false
	}
	return g.Items[0], true
}

// TrendPoint is one calendar day of the daily trend.
type TrendPoint struct {
	Date      string `json:"date"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Error     int    `json:"error"`
	// OK is Total minus Error.
	OK int `json:"ok"`
}

// PositionTenure is the average employment length for one position.
type PositionTenure struct {
	Position  string  `json:"position"`
	Count     int     `json:"count"`
	AvgMonths float64 `json:"avgMonths"`
}

// EmploymentStats holds the tenure selection in both orders: ByCount is the
// selection (most records first), ByAverage is the same set longest first.
type EmploymentStats struct {
	ByCount   []PositionTenure `json:"byCount"`
	ByAverage []PositionTenure `json:"byAverage"`
}

// TimelineFrame is the cumulative workplace ranking as of one date.
type TimelineFrame struct {
	Date string       `json:"date"`
	Top  []GroupCount `json:"top"`
}

// AggregateResult is everything a dashboard renders for one filtered view.
type AggregateResult struct {
	KPIs       KPIs             `json:"kpis"`
	Groupings  []Grouping       `json:"groupings"`
	Trend      []TrendPoint     `json:"trend"`
	Hourly     [HoursPerDay]int `json:"hourly"`
	Employment *EmploymentStats `json:"employment,omitempty"`
	Timeline   []TimelineFrame  `json:"timeline"`
}

// Grouping returns a breakdown by name.
func (a *AggregateResult) Grouping(name string) (Grouping, bool) {
	for _, g := range a.Groupings {
		if g.Name == name {
			return g, true
		}
	}
	return Grouping{}, false
}

// CodeLabel pairs a raw code with its display label.
type CodeLabel struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// FilterOptions are the dropdown values of a dashboard.
type FilterOptions struct {
	Dates       []string    `json:"dates"`
	DateMin     string      `json:"dateMin,omitempty"`
	DateMax     string      `json:"dateMax,omitempty"`
	Workplaces  []string    `json:"workplaces"`
	Departments []string    `json:"departments"`
	ExitReasons []CodeLabel `json:"exitReasons"`
	Statuses    []Status    `json:"statuses"`
}

// ExportTable is the input of a CSV writer: a header row and string cells.
// Quoting is left to the writer.
type ExportTable struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}
