package server

import (
	"html/template"
	"net/http"

	"github.com/dl/narrsearch/internal/matcher"
	"github.com/dl/narrsearch/internal/output"
	"github.com/dl/narrsearch/internal/permalink"
	"github.com/dl/narrsearch/internal/search"
)

type option struct {
	Label    string
	Selected bool
}

type row struct {
	Index int
	Text  string
	HTML  template.HTML
	Match bool
}

type resultBlock struct {
	Heading string
	Rows    []row
}

type pageData struct {
	Request     search.Request
	Modes       []option
	Granularity []option
	Engines     []option
	Error       string
	Notice      string
	Permalink   string
	Results     []resultBlock
	Lines       []row
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Narrative search</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 1.5em; }
td { padding: 0.1em 0.6em; }
td.num { color: #777; text-align: right; }
tr.match { background: #fff6d5; }
.result { font-weight: bold; }
.term { color: #c00; font-weight: bold; }
.error { color: #c00; }
</style>
</head>
<body>
<h1>Narrative search</h1>
<form method="get" action="/">
<label>Mode <select name="mode">{{range .Modes}}<option{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}</select></label>
<label>Engine <select name="engine">{{range .Engines}}<option{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}</select></label>
<label>Match <select name="match_mode">{{range .Granularity}}<option{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}</select></label>
<label>Term <input type="text" name="term" value="{{.Request.Term}}"></label>
<label>Context <input type="number" name="context" min="0" max="100" value="{{.Request.ContextRadius}}"></label>
<label>Max results <input type="number" name="ndisp" min="1" value="{{.Request.MaxResults}}"></label>
<label><input type="checkbox" name="normalize" value="true"{{if .Request.Normalize}} checked{{end}}> Normalize</label>
<button type="submit">Search</button>
</form>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
{{if .Permalink}}<p><a href="{{.Permalink}}">Permalink</a></p>{{end}}
{{if .Notice}}<p>{{.Notice}}</p>{{end}}
{{range .Results}}
<h3>{{.Heading}}</h3>
<table>
<tr><th>Line number</th><th>Line</th></tr>
{{range .Rows}}<tr{{if .Match}} class="match"{{end}}><td class="num">{{.Index}}</td><td>{{if .Match}}{{.HTML}}{{else}}{{.Text}}{{end}}</td></tr>
{{end}}</table>
{{end}}
{{if .Lines}}<table>
<tr><th>Line number</th><th>Line</th></tr>
{{range .Lines}}<tr><td class="num">{{.Index}}</td><td>{{.Text}}</td></tr>
{{end}}</table>{{end}}
</body>
</html>
`))

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	req, err := permalink.Decode(r.URL.Query())
	data := pageData{}
	status := http.StatusOK

	if err != nil {
		data.Error = err.Error()
		status = http.StatusBadRequest
	} else if out, err := s.searcher.Search(s.store.Load(), req); err != nil {
		status, data.Error = errorStatus(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("search failed", "term", req.Term, "err", err)
		}
	} else {
		data.fill(out)
		data.Permalink = "/?" + permalink.Query(req)
	}

	data.Request = req
	data.Modes = modeOptions(req.Mode)
	data.Granularity = granularityOptions(req.Granularity)
	data.Engines = engineOptions(req.Engine)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTmpl.Execute(w, data); err != nil {
		s.logger.Warn("render page", "err", err)
	}
}

func (d *pageData) fill(out search.Outcome) {
	if out.Unfiltered {
		for _, line := range out.Corpus.Lines() {
			d.Lines = append(d.Lines, row{Index: line.Index, Text: line.Text})
		}
		return
	}
	if out.Total == 0 {
		d.Notice = output.NoResults(out.Term)
		return
	}

	d.Results = make([]resultBlock, 0, len(out.Results))
	for _, res := range out.Results {
		block := resultBlock{Heading: output.Heading(res, out.Total)}
		for _, line := range out.Corpus.Range(res.ContextStart, res.ContextEnd) {
			rw := row{Index: line.Index, Text: line.Text}
			if line.Index == res.LineIndex {
				rw.Match = true
				// Highlighted was escaped by the HTML markers.
				rw.HTML = template.HTML(res.Highlighted)
			}
			block.Rows = append(block.Rows, rw)
		}
		d.Results = append(d.Results, block)
	}
}

func modeOptions(cur matcher.Mode) []option {
	var opts []option
	for _, m := range matcher.Modes() {
		opts = append(opts, option{Label: m.String(), Selected: m == cur})
	}
	return opts
}

func granularityOptions(cur matcher.Granularity) []option {
	var opts []option
	for _, g := range matcher.Granularities() {
		opts = append(opts, option{Label: g.String(), Selected: g == cur})
	}
	return opts
}

func engineOptions(cur matcher.Engine) []option {
	var opts []option
	for _, e := range matcher.Engines() {
		opts = append(opts, option{Label: e.String(), Selected: e == cur})
	}
	return opts
}
