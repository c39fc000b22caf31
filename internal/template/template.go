// Package template fills the built-in contract templates with caller
// parameters and renders them as plain text.
package template

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"maps"
	"strings"
	"text/template"
	"time"
)

//go:embed templates/*.tmpl
var files embed.FS

// ErrUnknownTemplate is returned for a template name that does not exist.
var ErrUnknownTemplate = errors.New("unknown template")

// DateLayout formats start_date.
const DateLayout = "02 January, 2006"

// Template describes one built-in contract.
type Template struct {
	Name   string   `json:"name"`
	Title  string   `json:"title"`
	Params []string `json:"params"`
}

// Document is a rendered template.
type Document struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

var catalog = []Template{
	{Name: "employment", Title: "Employment Agreement",
		Params: []string{"company_name", "employee_name", "start_date", "duration", "compensation", "confidentiality_period", "jurisdiction"}},
	{Name: "vendor", Title: "Vendor Supply Agreement",
		Params: []string{"company_name", "vendor_name", "start_date", "duration", "confidentiality_period", "jurisdiction"}},
	{Name: "lease", Title: "Commercial Lease Agreement",
		Params: []string{"company_name", "property_address", "start_date", "duration", "compensation", "jurisdiction"}},
	{Name: "partnership", Title: "Partnership Deed",
		Params: []string{"company_name", "partner_names", "start_date", "jurisdiction"}},
	{Name: "service", Title: "Service Agreement",
		Params: []string{"company_name", "service_description", "start_date", "duration", "compensation", "confidentiality_period", "jurisdiction"}},
	{Name: "nda", Title: "Non-Disclosure Agreement",
		Params: []string{"company_name", "start_date", "duration", "confidentiality_period", "jurisdiction"}},
	{Name: "consultancy", Title: "Consultancy Agreement",
		Params: []string{"company_name", "start_date", "duration", "compensation", "confidentiality_period", "jurisdiction"}},
}

// Generator renders the embedded templates. It is safe for concurrent use.
type Generator struct {
	tmpl *template.Template
	now  func() time.Time
}

// New parses the embedded templates.
func New() (*Generator, error) {
	funcs := template.FuncMap{
		"add":   func(a, b int) int { return a + b },
		"split": splitList,
	}
	tmpl, err := template.New("contracts").Funcs(funcs).Option("missingkey=zero").ParseFS(files, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Generator{tmpl: tmpl, now: time.Now}, nil
}

// List returns every template in a stable order.
func (g *Generator) List() []Template {
	out := make([]Template, len(catalog))
	for i, t := range catalog {
		t.Params = append([]string(nil), t.Params...)
		out[i] = t
	}
	return out
}

// Defaults returns the parameter values used when the caller sets none.
func (g *Generator) Defaults() map[string]string {
	return map[string]string{
		"company_name":           "ABC Enterprises",
		"employee_name":          "John Doe",
		"vendor_name":            "XYZ Suppliers",
		"property_address":       "123 Business Street, Mumbai",
		"partner_names":          "Partner A, Partner B",
		"service_description":    "Digital Marketing Services",
		"start_date":             g.now().Format(DateLayout),
		"duration":               "12 months",
		"compensation":           "₹50,000 per month",
		"jurisdiction":           "Mumbai, Maharashtra",
		"confidentiality_period": "3 years",
	}
}

// Render fills the named template. params override the defaults key by key.
func (g *Generator) Render(name string, params map[string]string) (*Document, error) {
	t, ok := lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}

	values := g.Defaults()
	maps.Copy(values, params)

	var buf bytes.Buffer
	if err := g.tmpl.ExecuteTemplate(&buf, name+".tmpl", values); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return &Document{
		Name:  t.Name,
		Title: t.Title,
		Body:  strings.TrimSpace(buf.String()) + "\n",
	}, nil
}

// WriteText writes doc as plain text.
func WriteText(w io.Writer, doc *Document) error {
	_, err := io.WriteString(w, doc.Body)
	return err
}

func lookup(name string) (Template, bool) {
	for _, t := range catalog {
		if t.Name == name {
			return t, true
		}
	}
	return Template{}, false
}

// splitList parses a comma-separated list parameter.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
