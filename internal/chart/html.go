package chart

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
)

// The emitted page is self-contained apart from the plotly.js script tag,
// so a downloaded chart opens in any browser.
var pageTmpl = template.Must(template.New("chart").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="https://cdn.plot.ly/plotly-2.32.0.min.js"></script>
<style>body{font-family:sans-serif;margin:0}div.chart{width:100%;height:520px}</style>
</head>
<body>
{{range .Figures}}<div class="chart" id="{{.ID}}"></div>
{{end}}<script>
{{range .Figures}}Plotly.newPlot({{.ID}}, {{.JSON}});
{{end}}</script>
</body>
</html>
`))

type pageFigure struct {
	ID   string
	JSON template.JS
}

type pageData struct {
	Title   string
	Figures []pageFigure
}

// WriteHTML writes the figure as one interactive HTML page.
func (f *Figure) WriteHTML(w io.Writer) error {
	return WritePage(w, f.Layout.Title, f)
}

// WritePage writes one or more figures into a single HTML page, one chart
// div per figure.
func WritePage(w io.Writer, title string, figs ...*Figure) error {
	data := pageData{Title: title}
	for i, f := range figs {
		b, err := json.Marshal(f)
		if err != nil {
			return fmt.Errorf("encode figure: %w", err)
		}
		data.Figures = append(data.Figures, pageFigure{
			ID:   fmt.Sprintf("chart-%d", i),
			JSON: template.JS(b),
		})
	}
	if err := pageTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render chart page: %w", err)
	}
	return nil
}
