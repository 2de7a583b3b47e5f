package web

import (
	_ "embed"
	"html/template"
	"strings"
)

const (
	DefaultFontFamily = "monospace"
	DefaultTitle      = "Pico W HTTP Server"
)

//go:embed page.html
var pageHTML string

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"deref": func(b *bool) bool { return *b },
}).Parse(pageHTML))

// PageParams is everything the page depends on.
type PageParams struct {
	FontFamily template.CSS
	Title      string

	// LED, when set, adds a line with the current LED state.
	LED *bool
}

// DefaultPage returns the stock page parameters.
func DefaultPage() PageParams {
	return PageParams{
		FontFamily: DefaultFontFamily,
		Title:      DefaultTitle,
	}
}

// Render produces the control page. It has no side effects.
func Render(p PageParams) (string, error) {
	var sb strings.Builder
	if err := pageTemplate.Execute(&sb, p); err != nil {
		return "", err
	}
	return sb.String(), nil
}
