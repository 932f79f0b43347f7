package main

import (
	"database/sql"
	"html/template"
	"log"
	"net/http"
	"sync"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// dashboardView is the ViewSink the HTTP server renders from. The controller
// pushes full replacements; a failed load replaces only the error fields, so
// the page keeps showing the last good charts and table alongside the panel.
type dashboardView struct {
	mu      sync.Mutex
	summary *Summary
	detail  *Detail
	errPath string
	errMsg  string
}

func (v *dashboardView) BeginLoad(path string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errPath, v.errMsg = "", ""
}

func (v *dashboardView) RenderCharts(s Summary) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.summary = &s
}

func (v *dashboardView) RenderTable(d Detail) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.detail = &d
}

func (v *dashboardView) RenderError(path string, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errPath = path
	v.errMsg = err.Error()
}

func (v *dashboardView) snapshot() (Summary, Detail, string, string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.summary == nil || v.detail == nil {
		return Summary{}, Detail{}, v.errPath, v.errMsg, false
	}
	return *v.summary, *v.detail, v.errPath, v.errMsg, true
}

type Server struct {
	cfg  Config
	ctrl *Controller
	view *dashboardView
	db   *sql.DB
	tmpl *template.Template
	mux  *http.ServeMux
}

func NewServer(cfg Config, ctrl *Controller, view *dashboardView, db *sql.DB) *Server {
	s := &Server{
		cfg:  cfg,
		ctrl: ctrl,
		view: view,
		db:   db,
		tmpl: template.Must(template.New("dashboard").Parse(dashboardTemplate)),
		mux:  http.NewServeMux(),
	}
	s.mux.HandleFunc("/", s.handleDashboard)
	s.mux.HandleFunc("/charts", s.handleCharts)
	s.mux.HandleFunc("/trend", s.handleTrend)
	s.mux.HandleFunc("/export", s.handleExport)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// remediationChecklist is the fixed guidance shown under every load error.
var remediationChecklist = []string{
	"Check that the manifest exists at the configured manifest_source and is valid JSON.",
	"Check that the manifest is a list of filenames or an object with a \"files\" list.",
	"Check that every weekly data file the manifest lists is present under the data source.",
	"Fix the data, then pick a week again; the dashboard recovers without a restart.",
}

type groupRow struct {
	Date          string
	Associate     string
	MetricType    string
	MetricSubtype string
	Status        string
	Label         string
}

type groupView struct {
	Associate string
	Subtotal  int
	Rows      []groupRow
}

type dashboardPage struct {
	Datasets    []Dataset
	Selected    Dataset
	HasData     bool
	Summary     Summary
	Groups      []groupView
	GrandTotal  int
	ErrPath     string
	ErrMsg      string
	Remediation []string
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if week := r.URL.Query().Get("week"); week != "" {
		if err := s.ctrl.SelectWeek(week); err == nil {
			s.archiveSelected()
		}
	}

	summary, detail, errPath, errMsg, hasData := s.view.snapshot()
	page := dashboardPage{
		Datasets:    s.ctrl.Datasets(),
		HasData:     hasData,
		Summary:     summary,
		GrandTotal:  detail.GrandTotal,
		ErrPath:     errPath,
		ErrMsg:      errMsg,
		Remediation: remediationChecklist,
	}
	if ds, _, _, ok := s.ctrl.Selected(); ok {
		page.Selected = ds
	}
	for _, g := range detail.Groups {
		gv := groupView{Associate: g.Associate, Subtotal: g.Subtotal}
		for _, rec := range g.Records {
			status := rec.ReviewStatus()
			gv.Rows = append(gv.Rows, groupRow{
				Date:          rec.Date,
				Associate:     g.Associate,
				MetricType:    rec.Metric(),
				MetricSubtype: rec.MetricSubtype,
				Status:        status,
				Label:         ReviewLabel(status),
			})
		}
		page.Groups = append(page.Groups, gv)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, page); err != nil {
		log.Printf("dashboard render error: %v", err)
	}
}

// archiveSelected snapshots the active week's summary into the archive.
// Best effort: a failed snapshot never blocks the page.
func (s *Server) archiveSelected() {
	if s.db == nil {
		return
	}
	ds, summary, _, ok := s.ctrl.Selected()
	if !ok {
		return
	}
	if err := InsertWeekSummary(s.db, ds, summary); err != nil {
		log.Printf("week summary archive error: %v", err)
	}
}

// violationBar builds one of the two dashboard bar charts. Bars are sorted
// alphabetically by category label.
func violationBar(title string, counts map[string]int) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(opts.Initialization{Width: "560px", Height: "360px"}),
	)
	labels := sortedKeys(counts)
	data := make([]opts.BarData, 0, len(labels))
	for _, label := range labels {
		data = append(data, opts.BarData{Value: counts[label]})
	}
	bar.SetXAxis(labels).AddSeries("Violations", data)
	return bar
}

// handleCharts renders the two violation bar charts for the selected week.
// The dashboard page embeds this route, keeping the chart library out of the
// main template.
func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	_, summary, _, ok := s.ctrl.Selected()
	if !ok {
		http.Error(w, "no week loaded", http.StatusNotFound)
		return
	}
	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(
		violationBar("Violations by Associate", summary.PerAssociate),
		violationBar("Violations by Metric Type", summary.PerMetricType),
	)
	if err := page.Render(w); err != nil {
		log.Printf("charts render error: %v", err)
	}
}

// handleTrend renders the archived violations-per-week trend.
func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	points, err := GetWeekTrend(s.db)
	if err != nil {
		log.Printf("trend query error: %v", err)
		http.Error(w, "trend unavailable", http.StatusInternalServerError)
		return
	}
	if len(points) == 0 {
		http.Error(w, "no weeks archived yet", http.StatusNotFound)
		return
	}

	labels := make([]string, 0, len(points))
	violations := make([]opts.BarData, 0, len(points))
	totals := make([]opts.BarData, 0, len(points))
	for _, p := range points {
		labels = append(labels, p.Label)
		violations = append(violations, opts.BarData{Value: p.Violations})
		totals = append(totals, opts.BarData{Value: p.Total})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Violations per Week"}),
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "420px"}),
	)
	bar.SetXAxis(labels).
		AddSeries("Violations", violations).
		AddSeries("Total events", totals)

	page := components.NewPage()
	page.AddCharts(bar)
	if err := page.Render(w); err != nil {
		log.Printf("trend render error: %v", err)
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if week := r.URL.Query().Get("week"); week != "" {
		if ds, _, _, ok := s.ctrl.Selected(); !ok || ds.File != week {
			if err := s.ctrl.SelectWeek(week); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			s.archiveSelected()
		}
	}
	ds, summary, detail, ok := s.ctrl.Selected()
	if !ok {
		http.Error(w, "no week loaded", http.StatusNotFound)
		return
	}

	f, err := BuildExportWorkbook(ds, summary, detail)
	if err != nil {
		log.Printf("export build error: %v", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	if err := f.Write(w); err != nil {
		log.Printf("export write error: %v", err)
	}
}

const dashboardTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Weekly Safety Violations</title>
<style>
body { font-family: Arial, Helvetica, sans-serif; margin: 24px; color: #1f1f1f; }
.summary span { margin-right: 24px; }
.error-panel { background: #fdecea; border: 1px solid #c0392b; padding: 12px 16px; margin: 16px 0; }
.charts iframe { border: none; width: 100%; height: 420px; }
table { border-collapse: collapse; width: 100%; margin-top: 8px; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; }
.subtotal td { font-weight: bold; background: #f4f6f6; }
.grand-total td { font-weight: bold; background: #eaecee; }
details { margin: 6px 0; }
summary { cursor: pointer; font-weight: bold; }
</style>
</head>
<body>
<h1>Weekly Safety Violations</h1>

<form method="get" action="/">
<label for="week">Week:</label>
<select id="week" name="week" onchange="this.form.submit()">
{{range .Datasets}}<option value="{{.File}}"{{if eq .File $.Selected.File}} selected{{end}}>{{.Label}}</option>
{{end}}</select>
<noscript><button type="submit">Load</button></noscript>
</form>

{{if .ErrMsg}}
<div class="error-panel">
<strong>Failed to load {{.ErrPath}}</strong>
<p>{{.ErrMsg}}</p>
<ul>
{{range .Remediation}}<li>{{.}}</li>
{{end}}</ul>
</div>
{{end}}

{{if .HasData}}
<div class="summary">
<span>Total: {{.Summary.Total}}</span>
<span>Violations: {{.Summary.Violations}}</span>
<span>Non-violations: {{.Summary.NonViolations}}</span>
</div>

<div class="charts">
<iframe src="/charts"></iframe>
</div>

<p>
<button type="button" onclick="setAll(true)">Expand all</button>
<button type="button" onclick="setAll(false)">Collapse all</button>
<a href="/export?week={{.Selected.File}}">Export to spreadsheet</a>
<a href="/trend">Trend</a>
</p>

{{range .Groups}}
<details open>
<summary>{{.Associate}} ({{.Subtotal}} violations)</summary>
<table>
<tr><th>Date</th><th>Delivery Associate</th><th>Metric Type</th><th>Metric Subtype</th><th>Review Details</th><th>Violation</th></tr>
{{range .Rows}}<tr><td>{{.Date}}</td><td>{{.Associate}}</td><td>{{.MetricType}}</td><td>{{.MetricSubtype}}</td><td>{{.Status}}</td><td>{{.Label}}</td></tr>
{{end}}<tr class="subtotal"><td colspan="5">Subtotal</td><td>{{.Subtotal}}</td></tr>
</table>
</details>
{{end}}

<table>
<tr class="grand-total"><td>Grand Total</td><td>{{.GrandTotal}}</td></tr>
</table>
{{end}}

<script>
function setAll(open) {
  document.querySelectorAll('details').forEach(function (d) { d.open = open; });
}
</script>
</body>
</html>
`
