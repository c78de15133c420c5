package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates 编译内嵌的页面模板
func Templates() *template.Template {
	funcs := template.FuncMap{
		"add": func(a, b int) int { return a + b },
	}
	return template.Must(template.New("quiz").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}
