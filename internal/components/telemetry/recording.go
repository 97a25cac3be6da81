package telemetry

import (
	"strings"
	"sync"
)

type Level int

const (
	LevelDebug Level = iota
	LevelWarning
	LevelBroken
	LevelCount
)

// Report is a single call made against a RecordingAPI.
type Report struct {
	Level  Level
	ID     string
	Params []any
	Count  int64
}

// RecordingAPI keeps every report in memory so tests can make assertions on
// the diagnostics a component produces.
type RecordingAPI struct {
	mutex   sync.Mutex
	reports []Report
}

func NewRecordingAPI() *RecordingAPI {
	return &RecordingAPI{}
}

func (r *RecordingAPI) record(report Report) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.reports = append(r.reports, report)
}

func (r *RecordingAPI) ReportBroken(id string, params ...any) {
	r.record(Report{Level: LevelBroken, ID: id, Params: params})
}

func (r *RecordingAPI) ReportWarning(id string, params ...any) {
	r.record(Report{Level: LevelWarning, ID: id, Params: params})
}

func (r *RecordingAPI) ReportDebug(msg string, params ...any) {
	r.record(Report{Level: LevelDebug, ID: msg, Params: params})
}

func (r *RecordingAPI) ReportCount(id string, count int64) {
	r.record(Report{Level: LevelCount, ID: id, Count: count})
}

// Reports returns a copy of every report at the given level.
func (r *RecordingAPI) Reports(level Level) []Report {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var out []Report
	for _, report := range r.reports {
		if report.Level == level {
			out = append(out, report)
		}
	}
	return out
}

// Matching returns the reports at the given level whose id ends with suffix,
// ScopedAPI prefixes are ignored this way.
func (r *RecordingAPI) Matching(level Level, suffix string) []Report {
	var out []Report
	for _, report := range r.Reports(level) {
		if strings.HasSuffix(report.ID, suffix) {
			out = append(out, report)
		}
	}
	return out
}
