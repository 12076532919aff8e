package calendar

import (
	"bytes"
	"fmt"
	"html/template"

	"slurmeff/internal/util"
)

var calendarFuncs = template.FuncMap{
	"seconds": util.FormatSeconds,
	"pct":     func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"num":     func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"color":   func(c string) template.CSS { return template.CSS("background-color: " + c) },
}

var calendarTemplate = template.Must(template.New("calendar").Funcs(calendarFuncs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Cluster efficiency calendar {{.From}} to {{.To}}</title>
<style>
body { font-family: Arial, sans-serif; max-width: 1200px; margin: 0 auto; padding: 20px; background-color: #f5f5f5; }
h1, h2 { color: #333; }
table.month { border-collapse: collapse; margin: 20px 0; background-color: white; box-shadow: 0 1px 3px rgba(0,0,0,0.1); }
table.month th { background-color: #4CAF50; color: white; padding: 8px 12px; }
table.month td { width: 110px; height: 70px; vertical-align: top; border: 1px solid #ddd; padding: 4px; }
td.day .n { font-weight: bold; }
td.day .m { font-size: 0.8em; color: white; }
td.no-data { background-color: #e0e0e0; color: #888; }
td.pad { background-color: #f5f5f5; border: none; }
table.period { width: 100%; border-collapse: collapse; margin: 20px 0; background-color: white; }
table.period th { background-color: #4CAF50; color: white; padding: 10px; text-align: left; }
table.period td { padding: 10px; border-bottom: 1px solid #ddd; }
</style>
</head>
<body>
<h1>Cluster efficiency calendar</h1>
<p>{{.From}} to {{.To}}</p>

{{range .Months}}
<h2>{{.Title}}</h2>
<table class="month">
<tr><th>Mon</th><th>Tue</th><th>Wed</th><th>Thu</th><th>Fri</th><th>Sat</th><th>Sun</th></tr>
{{range .Weeks}}
<tr>
{{range .}}{{if .Pad}}<td class="pad">{{if .Day}}{{.Day}}{{end}}</td>{{else if .HasData}}<td class="day" style="{{color .Color}}"><span class="n">{{.Day}}</span><br><span class="m">{{.Jobs}} jobs<br>RAM {{pct .MemPct}}%<br>CPU {{pct .CPUPct}}%</span></td>{{else}}<td class="no-data"><span class="n">{{.Day}}</span><br>no data</td>{{end}}{{end}}
</tr>
{{end}}
</table>
{{end}}

{{if .Days}}
<h2>Per day</h2>
<table class="period">
<tr><th>Date</th><th>Jobs</th><th>CPU util %</th><th>RAM occupancy %</th><th>Mean wait</th></tr>
{{range .Days}}
<tr><td>{{.Date}}</td><td>{{.Jobs}}</td><td>{{pct .CPUPct}}</td><td>{{pct .MemPct}}</td><td>{{seconds .MeanWait}}</td></tr>
{{end}}
</table>
{{end}}

<h2>Period summary</h2>
<table class="period">
<tr><th>Metric</th><th>Value</th></tr>
<tr><td>Days with data</td><td>{{.Period.DaysWithData}}</td></tr>
<tr><td>Days without data</td><td>{{.Period.DaysMissing}}</td></tr>
<tr><td>Total jobs</td><td>{{.Period.TotalJobs}}</td></tr>
<tr><td>Average jobs per day</td><td>{{num .Period.AvgJobsPerDay}}</td></tr>
<tr><td>CPU hours</td><td>{{num .Period.CPUHours}}</td></tr>
<tr><td>Mean queue wait</td><td>{{seconds .Period.MeanWaitSeconds}}</td></tr>
</table>

<footer><p><em>Generated {{.Generated}}</em></p></footer>
</body>
</html>
`))

func render(page calendarPage) ([]byte, error) {
	var buf bytes.Buffer
	if err := calendarTemplate.Execute(&buf, page); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
