package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/xavierca1/agency-backoffice/internal/entity"
)

const (
	templateWelcome   = "welcome"
	templateLeadAlert = "lead_alert"
	templateDigest    = "stale_digest"
)

type welcomeData struct {
	Agency string
	Email  string
}

type leadAlertData struct {
	Agency string
	Lead   entity.Lead
}

type digestData struct {
	Agency string
	Age    string
	Leads  []entity.Lead
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string { return t.Format("02 Jan 2006 15:04 MST") },
}

var templates = map[string]*template.Template{
	templateWelcome: template.Must(template.New(templateWelcome).Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Helvetica, Arial, sans-serif; color: #1f2937;">
<h2>Thanks for subscribing!</h2>
<p>You're now on the {{.Agency}} newsletter. Expect case studies, growth ideas and the occasional behind-the-scenes note, no more than twice a month.</p>
<p style="font-size: 12px; color: #6b7280;">You signed up as {{.Email}}. Reply to this email if that wasn't you.</p>
</body>
</html>
`)),

	templateLeadAlert: template.Must(template.New(templateLeadAlert).Funcs(funcs).Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Helvetica, Arial, sans-serif; color: #1f2937;">
<h2>New lead: {{.Lead.Name}}</h2>
<table cellpadding="4">
<tr><td><b>Email</b></td><td>{{.Lead.Email}}</td></tr>
{{- with .Lead.Phone}}<tr><td><b>Phone</b></td><td>{{.}}</td></tr>{{end}}
{{- with .Lead.Company}}<tr><td><b>Company</b></td><td>{{.}}</td></tr>{{end}}
{{- with .Lead.Service}}<tr><td><b>Service</b></td><td>{{.}}</td></tr>{{end}}
{{- with .Lead.Budget}}<tr><td><b>Budget</b></td><td>{{.}}</td></tr>{{end}}
{{- with .Lead.Timeline}}<tr><td><b>Timeline</b></td><td>{{.}}</td></tr>{{end}}
<tr><td><b>Source</b></td><td>{{.Lead.Source}}</td></tr>
<tr><td><b>Received</b></td><td>{{date .Lead.CreatedAt}}</td></tr>
</table>
{{with .Lead.Message}}<p><b>Message</b></p><p>{{.}}</p>{{end}}
<p style="font-size: 12px; color: #6b7280;">{{.Agency}} back office</p>
</body>
</html>
`)),

	templateDigest: template.Must(template.New(templateDigest).Funcs(funcs).Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Helvetica, Arial, sans-serif; color: #1f2937;">
<h2>{{len .Leads}} lead(s) waiting more than {{.Age}}</h2>
<p>These leads are still marked new. Reach out or update their status.</p>
<ul>
{{- range .Leads}}
<li><b>{{.Name}}</b> &lt;{{.Email}}&gt;{{with .Company}}, {{.}}{{end}} (since {{date .CreatedAt}})</li>
{{- end}}
</ul>
<p style="font-size: 12px; color: #6b7280;">{{.Agency}} back office</p>
</body>
</html>
`)),
}

func render(name string, data any) (string, error) {
	t, ok := templates[name]
	if !ok {
		return "", fmt.Errorf("mail template %q not found", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
