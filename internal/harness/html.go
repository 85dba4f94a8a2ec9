// ABOUTME: HTML rendering of a run report
// ABOUTME: Summary cards and a detail table, with no logic beyond formatting

package harness

import (
	"html/template"
	"io"
)

// goodPassRate is the threshold above which the rate is shown as healthy
const goodPassRate = 80

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>API Test Report</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem auto; max-width: 960px; color: #222; }
.summary { display: flex; gap: 1rem; margin-bottom: 2rem; }
.card { flex: 1; border: 1px solid #ddd; border-radius: 6px; padding: 1rem; text-align: center; }
.card .value { font-size: 2.5rem; font-weight: bold; }
.good { color: #1e8e3e; }
.bad { color: #d93025; }
table { width: 100%; border-collapse: collapse; }
th, td { border: 1px solid #ddd; padding: .5rem; text-align: left; }
tr.pass { background: #e6f4ea; }
tr.fail { background: #fce8e6; }
</style>
</head>
<body>
<h1>API Test Report</h1>
<div class="summary">
  <div class="card"><div>Total tests</div><div class="value">{{.TotalTests}}</div></div>
  <div class="card"><div>Passed</div><div class="value good">{{.PassedTests}}</div></div>
  <div class="card"><div>Pass rate</div><div class="value {{if .Healthy}}good{{else}}bad{{end}}">{{.Rate}}%</div></div>
</div>
<table>
<thead><tr><th>ID</th><th>Test</th><th>Status</th><th>Error</th></tr></thead>
<tbody>
{{- range .Details}}
<tr class="{{if .Passed}}pass{{else}}fail{{end}}">
  <td>{{.ID}}</td>
  <td>{{.Name}}</td>
  <td>{{if .Passed}}Passed{{else}}Failed{{end}}</td>
  <td>{{if .ErrorMessage}}{{.ErrorMessage}}{{else}}-{{end}}</td>
</tr>
{{- end}}
</tbody>
</table>
</body>
</html>
`))

// WriteHTML renders the report as a standalone HTML page
func WriteHTML(w io.Writer, r *Report) error {
	return reportTemplate.Execute(w, struct {
		*Report
		Rate    string
		Healthy bool
	}{
		Report:  r,
		Rate:    r.FormattedPassRate(),
		Healthy: r.PassRate >= goodPassRate,
	})
}
