package server

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strconv"

	"reelmatch/internal/api"
	"reelmatch/internal/logging"
)

//go:embed templates/index.html
var templateFS embed.FS

type page struct {
	tmpl *template.Template
}

type pageData struct {
	Titles   []string
	Selected string
	K        int
	Response *api.RecommendationResponse
	Error    string
}

func newPage() (*page, error) {
	tmpl, err := template.New("index.html").Funcs(template.FuncMap{
		"score": formatScore,
	}).ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, err
	}
	return &page{tmpl: tmpl}, nil
}

func formatScore(score *float64) string {
	if score == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*score, 'f', 3, 64)
}

func (s *Server) handleIndex(p *page) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		data := pageData{
			Titles:   s.svc.Titles("", 0).Titles,
			Selected: query.Get("title"),
		}

		if data.Selected != "" {
			k, err := intParam(query.Get("k"), "k")
			if err != nil {
				data.Error = err.Error()
			} else {
				resp, err := s.svc.Recommend(r.Context(), data.Selected, k)
				if err != nil {
					data.Error = err.Error()
				} else {
					data.Response = &resp
					data.K = resp.K
				}
			}
		}
		if data.K == 0 {
			data.K = s.svc.ClampK(0)
		}

		var buf bytes.Buffer
		if err := p.tmpl.Execute(&buf, data); err != nil {
			logging.ErrorWithContext(logging.WithContext(r.Context(), s.logger), "render page failed", "page_render_failed", logging.Error(err))
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = buf.WriteTo(w)
	}
}
