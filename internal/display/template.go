package display

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// templateFuncs is sprig's text function map plus the helpers below.
var templateFuncs = func() template.FuncMap {
	fm := sprig.TxtFuncMap()
	fm["bar"] = Bar
	return fm
}()

// Render expands a template string using the provided data.
func Render(tmplStr string, data any) (string, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}

	return buf.String(), nil
}

// Bar draws a fixed-width meter such as [#####-----] for cur out of max.
func Bar(cur, max float64, width int) string {
	if width <= 0 {
		return "[]"
	}
	filled := 0
	if max > 0 && cur > 0 {
		filled = int(math.Round(cur / max * float64(width)))
	}
	filled = min(filled, width)
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}
