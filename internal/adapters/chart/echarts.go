package chart

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kamal-hamza/bobina/internal/core/domain"
	"github.com/kamal-hamza/bobina/internal/core/ports"
)

// Series names shared by both charts
const (
	SeriesSaldo    = "Saldo"
	SeriesCompleta = "Completa"
)

// EChartsRenderer writes the history as a standalone HTML page
type EChartsRenderer struct {
	title string
}

// NewEChartsRenderer creates a renderer; an empty title uses a default
func NewEChartsRenderer(title string) *EChartsRenderer {
	if title == "" {
		title = "Historial de bobinas"
	}
	return &EChartsRenderer{title: title}
}

// Ensure it implements the interface
var _ ports.ChartRenderer = (*EChartsRenderer)(nil)

// Render draws a daily line chart followed by a monthly averages bar chart
func (r *EChartsRenderer) Render(w io.Writer, history *domain.History) error {
	if history == nil {
		return fmt.Errorf("no history to render")
	}

	page := components.NewPage()
	page.PageTitle = r.title
	page.AddCharts(r.dailyChart(history.Days), r.monthlyChart(history.Months))

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func (r *EChartsRenderer) dailyChart(days []domain.DailyMetric) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    r.title,
			Subtitle: fmt.Sprintf("Último archivo de cada día (%d días)", len(days)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	xAxis := make([]string, len(days))
	saldo := make([]opts.LineData, len(days))
	completa := make([]opts.LineData, len(days))
	for i, day := range days {
		xAxis[i] = day.DateLabel
		saldo[i] = opts.LineData{Value: day.Saldo, Name: day.FullDateLabel}
		completa[i] = opts.LineData{Value: day.Completa, Name: day.FullDateLabel}
	}

	line.SetXAxis(xAxis).
		AddSeries(SeriesSaldo, saldo).
		AddSeries(SeriesCompleta, completa)

	return line
}

func (r *EChartsRenderer) monthlyChart(months []domain.MonthlyStat) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Promedio mensual"}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	xAxis := make([]string, len(months))
	saldo := make([]opts.BarData, len(months))
	completa := make([]opts.BarData, len(months))
	for i, m := range months {
		xAxis[i] = m.Label
		saldo[i] = opts.BarData{Value: m.SaldoAvg.Round(1).InexactFloat64()}
		completa[i] = opts.BarData{Value: m.CompletaAvg.Round(1).InexactFloat64()}
	}

	bar.SetXAxis(xAxis).
		AddSeries(SeriesSaldo, saldo).
		AddSeries(SeriesCompleta, completa)

	return bar
}
