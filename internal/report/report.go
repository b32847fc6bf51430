// Package report groups time entries and renders per-entry exports.
package report

import (
	"strconv"
	"strings"

	"hourglass/internal/models"
)

const Unknown = "Unknown"

const (
	GroupByUser    = "user"
	GroupByProject = "project"
	GroupByTask    = "task"
	GroupByDate    = "date"
)

// Hours converts seconds to hours rounded to two decimals. Rounding works on
// the exact binary value of seconds/3600, so 54s is 0.01 and not 0.02.
func Hours(seconds int64) float64 {
	hours, _ := strconv.ParseFloat(strconv.FormatFloat(float64(seconds)/3600, 'f', 2, 64), 64)
	return hours
}

// FormatHours prints hours with at least one decimal: 1.5, 2.0, 0.25.
func FormatHours(hours float64) string {
	s := strconv.FormatFloat(hours, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Lookup maps ids to display names. Missing ids render as Unknown.
type Lookup struct {
	Users    map[string]string
	Projects map[string]string
	Tasks    map[string]string
}

func NewLookup(users []models.User, projects []models.Project, tasks []models.Task) Lookup {
	l := Lookup{
		Users:    make(map[string]string, len(users)),
		Projects: make(map[string]string, len(projects)),
		Tasks:    make(map[string]string, len(tasks)),
	}
	for _, u := range users {
		l.Users[u.ID] = u.Name
	}
	for _, p := range projects {
		l.Projects[p.ID] = p.Name
	}
	for _, t := range tasks {
		l.Tasks[t.ID] = t.Name
	}
	return l
}

func name(names map[string]string, id string) string {
	if n, ok := names[id]; ok {
		return n
	}
	return Unknown
}

func (l Lookup) User(id string) string    { return name(l.Users, id) }
func (l Lookup) Project(id string) string { return name(l.Projects, id) }
func (l Lookup) Task(id string) string    { return name(l.Tasks, id) }

type Group struct {
	ID           string  `json:"id"`
	Label        string  `json:"label"`
	TotalSeconds int64   `json:"total_seconds"`
	TotalHours   float64 `json:"total_hours"`
	EntryCount   int     `json:"entry_count"`
}

type Summary struct {
	TotalSeconds int64   `json:"total_seconds"`
	TotalHours   float64 `json:"total_hours"`
	TotalEntries int     `json:"total_entries"`
}

type Report struct {
	Data    []Group `json:"data"`
	Summary Summary `json:"summary"`
}

// Build groups entries by groupBy, keeping groups in first-seen order. Any
// other groupBy value folds everything into a single "All" group.
func Build(entries []models.TimeEntry, groupBy string, lookup Lookup) Report {
	index := make(map[string]int)
	out := Report{Data: []Group{}}

	for _, e := range entries {
		key, label := groupKey(e, groupBy, lookup)
		i, ok := index[key]
		if !ok {
			i = len(out.Data)
			index[key] = i
			out.Data = append(out.Data, Group{ID: key, Label: label})
		}
		out.Data[i].TotalSeconds += e.Duration
		out.Data[i].EntryCount++

		out.Summary.TotalSeconds += e.Duration
		out.Summary.TotalEntries++
	}

	for i := range out.Data {
		out.Data[i].TotalHours = Hours(out.Data[i].TotalSeconds)
	}
	out.Summary.TotalHours = Hours(out.Summary.TotalSeconds)
	return out
}

func groupKey(e models.TimeEntry, groupBy string, lookup Lookup) (string, string) {
	switch groupBy {
	case GroupByUser:
		return e.UserID, lookup.User(e.UserID)
	case GroupByProject:
		return e.ProjectID, lookup.Project(e.ProjectID)
	case GroupByTask:
		return e.TaskID, lookup.Task(e.TaskID)
	case GroupByDate:
		return e.Date, e.Date
	default:
		return "all", "All"
	}
}

// Row is one raw entry as it appears in an export.
type Row struct {
	Date     string
	Employee string
	Project  string
	Task     string
	Seconds  int64
}

func (r Row) Hours() string {
	return FormatHours(Hours(r.Seconds))
}

// Export is the per-entry table behind every file format.
type Export struct {
	StartDate string
	EndDate   string
	Rows      []Row
}

func NewExport(startDate, endDate string, entries []models.TimeEntry, lookup Lookup) Export {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, Row{
			Date:     e.Date,
			Employee: lookup.User(e.UserID),
			Project:  lookup.Project(e.ProjectID),
			Task:     lookup.Task(e.TaskID),
			Seconds:  e.Duration,
		})
	}
	return Export{StartDate: startDate, EndDate: endDate, Rows: rows}
}

func (e Export) TotalSeconds() int64 {
	var total int64
	for _, r := range e.Rows {
		total += r.Seconds
	}
	return total
}

func (e Export) Title() string {
	return "Time Report (" + e.StartDate + " to " + e.EndDate + ")"
}
