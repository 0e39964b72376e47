package httpapi

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/rs/zerolog"

	"imgclassd/internal/pipeline"
)

const pageTitle = "AI Object Classifier"

type pageData struct {
	Title       string
	ModelID     string
	TopK        int
	Source      string
	Bars        template.HTML
	ReportURL   string
	ReportError string
	Error       string
}

var pageTmpl = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 720px; margin: 2rem auto; color: #222; }
h1 { text-align: center; }
form { margin: 1rem 0; }
.predictions { margin-top: 1rem; }
.prediction-row { display: flex; align-items: center; gap: .75rem; margin: .4rem 0; }
.prediction-row .label { width: 14rem; overflow: hidden; text-overflow: ellipsis; white-space: nowrap; }
.bar { flex: 1; height: .9rem; background: #eee; border-radius: .45rem; }
.fill { height: 100%; background: #3b82f6; border-radius: .45rem; }
.value { width: 4.5rem; text-align: right; font-variant-numeric: tabular-nums; }
.error { color: #b91c1c; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>Upload an image to see the top {{.TopK}} predictions from {{.ModelID}}.</p>
<form method="post" action="/ui" enctype="multipart/form-data">
  <input type="file" name="file" accept="image/*">
  <button type="submit">Classify</button>
</form>
<form method="post" action="/ui/clear">
  <button type="submit">Clear</button>
</form>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
{{if .Bars}}<section id="result">
  {{if .Source}}<h2>{{.Source}}</h2>{{end}}
  {{.Bars}}
  {{if .ReportURL}}<p><a id="report" href="{{.ReportURL}}">Download report</a></p>{{end}}
  {{if .ReportError}}<p class="error">Report unavailable: {{.ReportError}}</p>{{end}}
</section>{{end}}
</body>
</html>
`))

func (h *handlers) page() pageData {
	st := h.svc.Status()
	return pageData{Title: pageTitle, ModelID: st.ModelID, TopK: st.TopK}
}

func renderPage(w http.ResponseWriter, status int, d pageData) {
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, d); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	renderPage(w, http.StatusOK, h.page())
}

// uiSubmit classifies an upload from the browser form. Submitting without a
// file re-renders the empty page.
func (h *handlers) uiSubmit(w http.ResponseWriter, r *http.Request) {
	rl := newReqLog(r, "ui")
	d := h.page()
	up, err := readUpload(w, r)
	if err != nil {
		code := statusFor(err)
		d.Error = err.Error()
		renderPage(w, code, d)
		rl.end(code, err)
		return
	}
	rl.begin(func(ev *zerolog.Event) *zerolog.Event { return ev.Bool("has_file", up != nil) })
	ctx, cancel := workContext(r)
	defer cancel()
	res, err := h.svc.Submit(ctx, up, pipeline.SubmitOptions{})
	if err != nil {
		if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
			return
		}
		code := statusFor(err)
		if code == http.StatusTooManyRequests {
			backpressureTotal.WithLabelValues(r.URL.Path).Inc()
		}
		d.Error = err.Error()
		renderPage(w, code, d)
		rl.end(code, err)
		return
	}
	if !res.Empty {
		d.Source = up.Name
		d.Bars = res.HTML
		d.ReportURL = reportURL(res.ReportPath)
		if res.ReportErr != nil {
			d.ReportError = res.ReportErr.Error()
		}
	}
	renderPage(w, http.StatusOK, d)
	rl.end(http.StatusOK, nil)
}

func (h *handlers) uiClear(w http.ResponseWriter, r *http.Request) {
	h.svc.Clear()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
