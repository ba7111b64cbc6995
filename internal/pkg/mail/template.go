package mail

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var ErrTemplateNotFound = errors.New("mail: template not found")

// Renderer executes the embedded templates by id, the file name without
// ".html" (for example "user-activation-mail").
type Renderer struct {
	tpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tpl, err := template.New("mail").Option("missingkey=zero").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Renderer{tpl: tpl}, nil
}

// Render executes template id with vars.
func (r *Renderer) Render(id string, vars map[string]any) (string, error) {
	t := r.tpl.Lookup(strings.TrimSuffix(id, ".html") + ".html")
	if t == nil {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, vars); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// TemplateVars copies vars and adds the footer fields every template uses.
func TemplateVars(vars map[string]string, companyName string, now time.Time) map[string]any {
	out := make(map[string]any, len(vars)+2)
	for k, v := range vars {
		out[k] = v
	}
	out["Year"] = now.Year()
	out["CompanyName"] = companyName

	return out
}
