package usecase

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"sort"
	"strings"
	texttemplate "text/template"

	"github.com/xavierca1/agency-backoffice/internal/entity"
)

const (
	TemplateIntroduction = "introduction"
	TemplateFollowUp1    = "followUp1"
	TemplateFollowUp2    = "followUp2"
)

const (
	fallbackName    = "there"
	fallbackCompany = "your company"
)

// OutreachData is what every outreach template is rendered with.
type OutreachData struct {
	Name    string
	Company string
	Agency  string
	Sender  string
}

type outreachTemplate struct {
	subject *texttemplate.Template
	body    *htmltemplate.Template
}

func (t outreachTemplate) render(data OutreachData) (string, string, error) {
	var subject, body bytes.Buffer
	if err := t.subject.Execute(&subject, data); err != nil {
		return "", "", fmt.Errorf("render subject: %w", err)
	}
	if err := t.body.Execute(&body, data); err != nil {
		return "", "", fmt.Errorf("render body: %w", err)
	}
	return strings.TrimSpace(subject.String()), body.String(), nil
}

func mustOutreachTemplate(name, subject, body string) outreachTemplate {
	return outreachTemplate{
		subject: texttemplate.Must(texttemplate.New(name + ".subject").Parse(subject)),
		body:    htmltemplate.Must(htmltemplate.New(name + ".body").Parse(body)),
	}
}

var outreachTemplates = map[string]outreachTemplate{
	TemplateIntroduction: mustOutreachTemplate(TemplateIntroduction,
		`{{.Company}} + {{.Agency}}: a few ideas for your growth`,
		`<p>Hi {{.Name}},</p>
<p>I'm {{.Sender}} from {{.Agency}}. We help teams like {{.Company}} turn their website into a steady source of qualified leads through design, SEO and paid campaigns.</p>
<p>I put together a couple of quick ideas specific to {{.Company}}. Would you be open to a 15-minute call this week to walk through them?</p>
<p>Best regards,<br>{{.Sender}}<br>{{.Agency}}</p>`),
	TemplateFollowUp1: mustOutreachTemplate(TemplateFollowUp1,
		`Following up on my note to {{.Company}}`,
		`<p>Hi {{.Name}},</p>
<p>Just bringing my previous message back to the top of your inbox. We recently helped a similar business double its inbound enquiries in three months, and I think {{.Company}} could see comparable results.</p>
<p>Is there a good time for a short conversation?</p>
<p>Best,<br>{{.Sender}}<br>{{.Agency}}</p>`),
	TemplateFollowUp2: mustOutreachTemplate(TemplateFollowUp2,
		`Last note from {{.Agency}}`,
		`<p>Hi {{.Name}},</p>
<p>I don't want to crowd your inbox, so this will be my last message. If growing {{.Company}}'s online presence becomes a priority, just reply to this email and we'll pick it up from there.</p>
<p>Wishing you a great quarter,<br>{{.Sender}}<br>{{.Agency}}</p>`),
}

// OutreachTemplateNames lists the recognised template names, sorted.
func OutreachTemplateNames() []string {
	names := make([]string, 0, len(outreachTemplates))
	for name := range outreachTemplates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupOutreachTemplate(name string) (outreachTemplate, error) {
	t, ok := outreachTemplates[name]
	if !ok {
		return outreachTemplate{}, &DomainError{
			Code:    "INVALID_TEMPLATE",
			Message: fmt.Sprintf("unknown template %q (expected one of %s)", name, strings.Join(OutreachTemplateNames(), ", ")),
			Err:     entity.ErrInvalidTemplate,
		}
	}
	return t, nil
}
