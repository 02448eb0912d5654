package template

import (
	"strings"
	"text/template"
)

// CustomFuncMap returns the custom template functions available in
// fixture command templates.
func CustomFuncMap() template.FuncMap {
	return template.FuncMap{
		"toLower":   strings.ToLower,
		"toUpper":   strings.ToUpper,
		"replace":   strings.ReplaceAll,
		"trimSpace": strings.TrimSpace,
		"hasPrefix": strings.HasPrefix,
		"hasSuffix": strings.HasSuffix,
		"join":      strings.Join,
		"snake": func(s string) string {
			return strings.ReplaceAll(s, "-", "_")
		},
	}
}
