package telemetry

import "sync"

// Report is a single call made against a Recorder.
type Report struct {
	Kind   string
	ID     string
	Params []any
}

// Recorder is an API that keeps every report in memory so tests can assert
// on what a component reported.
type Recorder struct {
	mutex   sync.Mutex
	reports []Report
}

func (r *Recorder) add(kind, id string, params []any) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.reports = append(r.reports, Report{Kind: kind, ID: id, Params: params})
}

func (r *Recorder) ReportBroken(id string, params ...any)  { r.add("broken", id, params) }
func (r *Recorder) ReportWarning(id string, params ...any) { r.add("warning", id, params) }
func (r *Recorder) ReportDebug(msg string, params ...any)  { r.add("debug", msg, params) }

func (r *Recorder) ReportCount(id string, count int64) {
	r.add("count", id, []any{count})
}

// Find returns every report of the given kind and id.
func (r *Recorder) Find(kind, id string) []Report {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var out []Report
	for _, report := range r.reports {
		if report.Kind == kind && report.ID == id {
			out = append(out, report)
		}
	}
	return out
}
