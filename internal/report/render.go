package report

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"MarketBoard/internal/calculator"
	"MarketBoard/internal/model"
)

//go:embed template.html
var pageHTML string

var pageTmpl = template.Must(template.New("dashboard").Parse(pageHTML))

// page is the fully formatted template input. All numbers arrive as
// display strings and all chart payloads as marshaled JSON, so the
// template itself stays dumb.
type page struct {
	Title          string
	Source         string
	AsOf           string
	SummaryHeading string
	Rows           []row
	CumData        template.JS
	CumLayout      template.JS
	VolData        template.JS
	VolLayout      template.JS
}

type row struct {
	Ticker string
	Ret    string
	Vol    string
}

// Plotly figure pieces, marshaled into the page's inline script.
type trace struct {
	X            []string  `json:"x"`
	Y            []float64 `json:"y"`
	Type         string    `json:"type"`
	Mode         string    `json:"mode,omitempty"`
	Name         string    `json:"name,omitempty"`
	Text         []string  `json:"text,omitempty"`
	TextPosition string    `json:"textposition,omitempty"`
}

type axis struct {
	Title string `json:"title"`
}

type legend struct {
	Orientation string `json:"orientation"`
}

type margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

type layout struct {
	Title  string  `json:"title"`
	XAxis  axis    `json:"xaxis"`
	YAxis  axis    `json:"yaxis"`
	Legend *legend `json:"legend,omitempty"`
	Margin margin  `json:"margin"`
	Height int     `json:"height"`
}

// Render produces the self-contained dashboard document. It is a pure
// function of the Dashboard: chart data is inlined as JSON, so the page
// needs no data fetches at view time (only the charting runtime comes from
// a CDN).
func Render(d *model.Dashboard) ([]byte, error) {
	if d.Index == nil || d.Index.Len() == 0 {
		return nil, errors.New("render: no index data")
	}
	if len(d.Summaries) == 0 {
		return nil, errors.New("render: no summaries")
	}

	heading := "Summary (last ~1Y)"
	if d.WindowDays != calculator.TradingDaysPerYear {
		heading = fmt.Sprintf("Summary (last %d trading days)", d.WindowDays)
	}

	p := &page{
		Title:          d.Title,
		Source:         sourceLabel(d.Source),
		AsOf:           d.AsOf.Format("2006-01-02"),
		SummaryHeading: heading,
	}
	for _, s := range d.Summaries {
		p.Rows = append(p.Rows, row{
			Ticker: s.Ticker,
			Ret:    fmt.Sprintf("%.2f%%", s.TotalReturn*100),
			Vol:    fmt.Sprintf("%.2f%%", s.AnnualizedVol*100),
		})
	}

	cumData, cumLayout := cumFigure(d.Index)
	volData, volLayout := volFigure(d.Summaries)
	var err error
	if p.CumData, err = marshalJS(cumData); err != nil {
		return nil, fmt.Errorf("marshal cumulative chart: %w", err)
	}
	if p.CumLayout, err = marshalJS(cumLayout); err != nil {
		return nil, fmt.Errorf("marshal cumulative layout: %w", err)
	}
	if p.VolData, err = marshalJS(volData); err != nil {
		return nil, fmt.Errorf("marshal volatility chart: %w", err)
	}
	if p.VolLayout, err = marshalJS(volLayout); err != nil {
		return nil, fmt.Errorf("marshal volatility layout: %w", err)
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, p); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile renders the dashboard and writes it to path, creating the
// parent directory if needed. Rendering happens before any filesystem
// write, and the document is staged to a sibling file and renamed into
// place, so readers of path never observe a partial or torn file.
func WriteFile(path string, d *model.Dashboard) error {
	out, err := Render(d)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		return fmt.Errorf("stage dashboard: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write dashboard: %w", err)
	}
	return nil
}

// cumFigure builds the per-ticker cumulative index line chart.
func cumFigure(idx *model.IndexTable) ([]trace, layout) {
	dates := make([]string, len(idx.Dates))
	for i, d := range idx.Dates {
		dates[i] = d.Format("2006-01-02")
	}
	traces := make([]trace, 0, len(idx.Tickers))
	for _, t := range idx.Tickers {
		traces = append(traces, trace{
			X:    dates,
			Y:    idx.Levels[t],
			Type: "scatter",
			Mode: "lines",
			Name: t,
		})
	}
	lay := layout{
		Title:  "Cumulative Returns (base = 100)",
		XAxis:  axis{Title: "Date"},
		YAxis:  axis{Title: "Index Level"},
		Legend: &legend{Orientation: "h"},
		Margin: margin{L: 50, R: 20, T: 50, B: 40},
		Height: 520,
	}
	return traces, lay
}

// volFigure builds the annualized volatility bar chart with value labels.
func volFigure(summaries []model.TickerSummary) ([]trace, layout) {
	tickers := make([]string, 0, len(summaries))
	vols := make([]float64, 0, len(summaries))
	labels := make([]string, 0, len(summaries))
	for _, s := range summaries {
		tickers = append(tickers, s.Ticker)
		vols = append(vols, s.AnnualizedVol)
		labels = append(labels, fmt.Sprintf("%.2f%%", s.AnnualizedVol*100))
	}
	traces := []trace{{
		X:            tickers,
		Y:            vols,
		Type:         "bar",
		Text:         labels,
		TextPosition: "auto",
	}}
	lay := layout{
		Title:  "Annualized Volatility (last ~1Y)",
		XAxis:  axis{Title: "Ticker"},
		YAxis:  axis{Title: "Volatility"},
		Margin: margin{L: 50, R: 20, T: 50, B: 60},
		Height: 520,
	}
	return traces, lay
}

func marshalJS(v interface{}) (template.JS, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return template.JS(b), nil
}

// sourceLabel maps a fetcher name to the attribution shown on the page.
func sourceLabel(name string) string {
	switch name {
	case "polygon":
		return "Polygon.io"
	case "yahoo":
		return "Yahoo Finance"
	case "mock":
		return "Mock"
	default:
		return name
	}
}
