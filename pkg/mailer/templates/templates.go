package templates

import (
	"bytes"
	"embed"
	htmpl "html/template"
	"strings"
	"sync"
	ttmpl "text/template"

	"github.com/samber/oops"
)

//go:embed *.tmpl
var FS embed.FS

// LoginNotification is sent after each successful teacher login.
const LoginNotification = "login_notification"

// EmailData is what the templates can reference.
type EmailData struct {
	Type       string
	Name       string
	Email      string
	AppName    string
	SupportURL string
	IP         string
	UserAgent  string
	Time       string
}

// ToMap flattens d for a queued job, which carries data as a JSON object.
func ToMap(d EmailData) map[string]any {
	return map[string]any{
		"Type":       d.Type,
		"Name":       d.Name,
		"Email":      d.Email,
		"AppName":    d.AppName,
		"SupportURL": d.SupportURL,
		"IP":         d.IP,
		"UserAgent":  d.UserAgent,
		"Time":       d.Time,
	}
}

// orDefault backs {{ .Value | default "Fallback" }}.
func orDefault(fallback, value any) any {
	if value == nil {
		return fallback
	}
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return fallback
	}
	return value
}

var (
	loadOnce sync.Once
	textSet  *ttmpl.Template
	htmlSet  *htmpl.Template
	loadErr  error
)

// load parses every embedded template once. Subject and text files go to the
// text set, html files to the escaping html set.
func load() error {
	loadOnce.Do(func() {
		fn := map[string]any{"default": orDefault}
		textSet, loadErr = ttmpl.New("text").Funcs(fn).ParseFS(FS, "*.subject.tmpl", "*.text.tmpl")
		if loadErr != nil {
			loadErr = oops.Code("TEMPLATE_PARSE").Wrap(loadErr)
			return
		}
		htmlSet, loadErr = htmpl.New("html").Funcs(fn).ParseFS(FS, "*.html.tmpl")
		if loadErr != nil {
			loadErr = oops.Code("TEMPLATE_PARSE").Wrap(loadErr)
		}
	})
	return loadErr
}

func exec(file string, run func(*bytes.Buffer) error) (string, error) {
	var buf bytes.Buffer
	if err := run(&buf); err != nil {
		return "", oops.Code("TEMPLATE_EXEC").With("template", file).Wrap(err)
	}
	return buf.String(), nil
}

// Render produces the subject, plain text and html bodies of template name.
// Each name needs <name>.subject.tmpl, <name>.text.tmpl and <name>.html.tmpl.
func Render(name string, data any) (subject, text, html string, err error) {
	if err = load(); err != nil {
		return "", "", "", err
	}
	for _, f := range []string{".subject.tmpl", ".text.tmpl"} {
		if textSet.Lookup(name+f) == nil {
			return "", "", "", oops.Code("TEMPLATE_UNKNOWN").With("template", name).Errorf("no template %s%s", name, f)
		}
	}
	if htmlSet.Lookup(name+".html.tmpl") == nil {
		return "", "", "", oops.Code("TEMPLATE_UNKNOWN").With("template", name).Errorf("no template %s.html.tmpl", name)
	}

	if subject, err = exec(name+".subject.tmpl", func(b *bytes.Buffer) error {
		return textSet.ExecuteTemplate(b, name+".subject.tmpl", data)
	}); err != nil {
		return "", "", "", err
	}
	if text, err = exec(name+".text.tmpl", func(b *bytes.Buffer) error {
		return textSet.ExecuteTemplate(b, name+".text.tmpl", data)
	}); err != nil {
		return "", "", "", err
	}
	if html, err = exec(name+".html.tmpl", func(b *bytes.Buffer) error {
		return htmlSet.ExecuteTemplate(b, name+".html.tmpl", data)
	}); err != nil {
		return "", "", "", err
	}
	return strings.TrimSpace(subject), text, html, nil
}
