package httpserver

import (
	"bytes"
	"embed"
	"html/template"
	"log"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

var views = template.Must(template.New("").Funcs(template.FuncMap{
	"scoreBand": scoreBand,
}).ParseFS(templateFS, "templates/*.html"))

func scoreBand(score int) string {
	switch {
	case score >= 75:
		return "high"
	case score >= 50:
		return "mid"
	}
	return "low"
}

// renderHTML executes into a buffer first so a template error never sends a partial page.
func renderHTML(w http.ResponseWriter, code int, name string, data any) {
	var buf bytes.Buffer
	if err := views.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("render failed template=%s err=%v", name, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}
