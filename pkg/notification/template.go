package notification

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/rsvp-platform/event-manager/pkg/model"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var templatesYAML []byte

var templates = mustParseTemplates(templatesYAML)

type messageTemplate struct {
	subject *template.Template
	text    *template.Template
}

type templateData struct {
	EventName string
	When      string
	Role      model.Role
}

func mustParseTemplates(data []byte) map[Kind]messageTemplate {
	parsed, err := parseTemplates(data)
	if err != nil {
		panic(err)
	}
	return parsed
}

// parseTemplates parses a YAML document mapping each kind to the subject and text of its email.
func parseTemplates(data []byte) (map[Kind]messageTemplate, error) {
	var raw map[Kind]struct {
		Subject string `yaml:"subject"`
		Text    string `yaml:"text"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse notification templates: %v", err)
	}

	parsed := make(map[Kind]messageTemplate, len(raw))
	for kind, t := range raw {
		subject, err := template.New(string(kind) + "-subject").Option("missingkey=error").Parse(t.Subject)
		if err != nil {
			return nil, fmt.Errorf("failed to parse subject of %q: %v", kind, err)
		}
		text, err := template.New(string(kind) + "-text").Option("missingkey=error").Parse(t.Text)
		if err != nil {
			return nil, fmt.Errorf("failed to parse text of %q: %v", kind, err)
		}
		parsed[kind] = messageTemplate{subject: subject, text: text}
	}
	return parsed, nil
}

func content(n Notification) (string, string, error) {
	t, ok := templates[n.Kind]
	if !ok {
		return "", "", fmt.Errorf("unknown notification kind %q", n.Kind)
	}

	data := templateData{
		EventName: n.EventName,
		When:      n.StartTime.UTC().Format("Mon, 02 Jan 2006 15:04 MST"),
		Role:      n.Role,
	}

	var subject, text strings.Builder
	if err := t.subject.Execute(&subject, data); err != nil {
		return "", "", err
	}
	if err := t.text.Execute(&text, data); err != nil {
		return "", "", err
	}
	return subject.String(), text.String(), nil
}
