package web

import "html/template"

// Server-rendered pages. Every page goes through the layout template;
// the per-page templates only fill the body.
const layoutTmpl = `{{define "layout"}}<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}} — EWU Timetable</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<link rel="stylesheet" type="text/css" href="https://cdn.jsdelivr.net/npm/@picocss/pico@2/css/pico.fluid.classless.min.css">
</head>
<body>
<header>
<nav>
<ul><li><strong><a href="/">EWU Timetable</a></strong></li></ul>
<ul>{{if .Logout}}<li><a href="/logout">Logout</a></li>{{end}}</ul>
</nav>
<h1>{{.Title}}</h1>
</header>
<main>
{{template "body" .}}
</main>
</body>
</html>{{end}}`

const loginTmpl = `{{define "body"}}
{{if .Data.Message}}<p><mark>{{.Data.Message}}</mark></p>{{end}}
<form action="/" method="post">
<input type="text" name="username" placeholder="Student ID" required>
<br>
<input type="password" name="password" placeholder="Password" required>
<br>
<input type="submit" value="Login">
</form>
{{end}}`

const dashboardTmpl = `{{define "body"}}
<div>
<h2>Fetch timetable</h2>
<form action="/dashboard/timetable" method="post">
<label for="semester">Select Semester</label>
<select id="semester" name="semester">
{{range .Data.Semesters}}<option value="{{.ID}} {{.Name}}">{{.Name}}</option>
{{end}}</select>
<br>
<input type="submit" value="Fetch">
</form>
</div>
{{end}}`

const timetableTmpl = `{{define "body"}}
<table>
<tr><th>Course Code</th><th>Section</th><th>Lecturer</th><th>Periods</th></tr>
{{range .Data.Courses}}<tr>
<td>{{.Code}}</td>
<td>{{.Section}}</td>
<td>{{.Lecturer}}</td>
<td><ul>{{range .Periods}}<li>{{.Weekday}} {{.Start}}–{{.End}} @ {{.Room}}</li>{{end}}</ul></td>
</tr>
{{end}}</table>
<article>
<h2>Generate timetable calendar</h2>
<form action="/dashboard/timetable/generate" method="post">
<input type="hidden" name="semester_id" value="{{.Data.SemesterID}}">
<label for="semester_name">Semester Name</label>
<input type="text" name="semester_name" value="{{.Data.SemesterName}}">
<br>
<label for="start_date">Semester Start Date</label>
<input type="date" name="start_date" required>
<br>
<label for="end_date">Semester End Date</label>
<input type="date" name="end_date" required>
<br>
<input type="submit" value="Generate Calendar">
</form>
</article>
{{end}}`

const generatedTmpl = `{{define "body"}}
<p>Calendar for timetable generated successfully.</p>
<article>
Semester ID: {{.Data.SemesterID}}<br>
Semester Name: {{.Data.SemesterName}}<br>
Start Date: {{.Data.StartDate}}<br>
End Date: {{.Data.EndDate}}
</article>
<p>Note: Links will expire after {{.Data.TTLMinutes}} minutes</p>
<p><a href="{{.Data.GoogleURL}}" target="_blank">Add to Google Calendar</a></p>
<p><a href="{{.Data.DownloadPath}}">Download as iCal</a></p>
{{if .Data.Upcoming}}
<article>
<h2>Sessions in the next 7 days</h2>
<ul>
{{range .Data.Upcoming}}<li>{{.When}} — {{.Summary}} @ {{.Room}}</li>
{{end}}</ul>
</article>
{{end}}
{{end}}`

func parsePage(body string) *template.Template {
	return template.Must(template.Must(template.New("page").Parse(layoutTmpl)).Parse(body))
}
