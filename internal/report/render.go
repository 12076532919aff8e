package report

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"time"

	"slurmeff/internal/util"
)

// dailyPage is the data fed to the daily report template.
type dailyPage struct {
	Summary   Summary
	QOSNames  []string
	Generated string
}

var dailyFuncs = template.FuncMap{
	"seconds": util.FormatSeconds,
	"pct":     func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"num":     func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"qosName": func(q string) string {
		if q == "" {
			return "(no QOS)"
		}
		return q
	},
}

// Plain HTML with inline CSS so the report can be sent by mail as-is.
var dailyTemplate = template.Must(template.New("daily").Funcs(dailyFuncs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Cluster efficiency report - {{.Summary.Date}}</title>
<style>
body { font-family: Arial, sans-serif; max-width: 1200px; margin: 0 auto; padding: 20px; background-color: #f5f5f5; }
h1, h2 { color: #333; }
table { width: 100%; border-collapse: collapse; margin: 20px 0; background-color: white; box-shadow: 0 1px 3px rgba(0,0,0,0.1); }
th, td { padding: 12px; text-align: left; border-bottom: 1px solid #ddd; }
th { background-color: #4CAF50; color: white; }
tr:hover { background-color: #f5f5f5; }
.summary { background-color: white; padding: 20px; border-radius: 5px; box-shadow: 0 1px 3px rgba(0,0,0,0.1); margin-bottom: 20px; }
</style>
</head>
<body>
<h1>Cluster efficiency report</h1>
<h2>{{.Summary.Date}}</h2>

<div class="summary">
<h3>Cluster-wide</h3>
<table>
<tr><th>Metric</th><th>Value</th></tr>
<tr><td>Jobs</td><td>{{.Summary.Global.JobCount}}</td></tr>
<tr><td>CPU hours</td><td>{{num .Summary.Global.CPUHours}}</td></tr>
<tr><td>CPU utilization</td><td>{{pct .Summary.Global.CPUUtilizationPct}}%</td></tr>
<tr><td>Memory GB&middot;seconds</td><td>{{num .Summary.Global.GBSeconds}}</td></tr>
<tr><td>RAM occupancy</td><td>{{pct .Summary.Global.MemOccupancyPct}}%</td></tr>
<tr><td>Queue wait (min)</td><td>{{seconds .Summary.Global.WaitMinSeconds}}</td></tr>
<tr><td>Queue wait (median)</td><td>{{seconds .Summary.Global.WaitMedianSeconds}}</td></tr>
<tr><td>Queue wait (mean)</td><td>{{seconds .Summary.Global.WaitMeanSeconds}}</td></tr>
<tr><td>Queue wait (max)</td><td>{{seconds .Summary.Global.WaitMaxSeconds}}</td></tr>
</table>
</div>

{{if .QOSNames}}
<div class="summary">
<h3>Per QOS</h3>
<table>
<tr><th>QOS</th><th>Jobs</th><th>CPU hours</th><th>CPU util %</th><th>RAM occupancy %</th><th>Wait median</th><th>Wait mean</th><th>Wait max</th></tr>
{{range $q := .QOSNames}}{{with index $.Summary.QOS $q}}
<tr><td>{{qosName $q}}</td><td>{{.JobCount}}</td><td>{{num .CPUHours}}</td><td>{{pct .CPUUtilizationPct}}</td><td>{{pct .MemOccupancyPct}}</td><td>{{seconds .WaitMedianSeconds}}</td><td>{{seconds .WaitMeanSeconds}}</td><td>{{seconds .WaitMaxSeconds}}</td></tr>
{{end}}{{end}}
</table>
</div>
{{end}}

<footer><p><em>Generated {{.Generated}}</em></p></footer>
</body>
</html>
`))

// RenderDaily renders the HTML report for one daily summary. The generation
// timestamp is a parameter so callers (and tests) control it; the JSON
// summary, not the HTML, carries the byte-stability guarantee.
func RenderDaily(summary Summary, generated time.Time) ([]byte, error) {
	names := make([]string, 0, len(summary.QOS))
	for q := range summary.QOS {
		names = append(names, q)
	}
	sort.Strings(names)

	page := dailyPage{
		Summary:   summary,
		QOSNames:  names,
		Generated: generated.Format("2006-01-02 15:04:05"),
	}

	var buf bytes.Buffer
	if err := dailyTemplate.Execute(&buf, page); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
