// Package tui renders a termui dashboard of ring composition while a
// scenario runs, the terminal-only visualization counterpart to the
// sibling client harness's connection-pool dashboard.
package tui

import (
	"fmt"
	"time"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
	"github.com/pior/ringhash"
	"github.com/pior/ringhash/tests/metrics"
)

const refreshRate = 250 * time.Millisecond

// Dashboard manages the TUI display for one ring + collector pair.
type Dashboard struct {
	ring      *ringhash.Ring
	collector *metrics.Collector

	header      *widgets.Paragraph
	scenarioBox *widgets.Paragraph
	pointsChart *widgets.Plot
	serverTable *widgets.Table
	logsList    *widgets.List

	pointsHistory []float64
	maxDataPoints int

	scenarioName string
	scenarioDesc string
	logs         []string
}

// NewDashboard creates a dashboard over ring, sampled via collector.
func NewDashboard(ring *ringhash.Ring, collector *metrics.Collector) *Dashboard {
	return &Dashboard{
		ring:          ring,
		collector:     collector,
		pointsHistory: make([]float64, 0, 100),
		maxDataPoints: 60,
	}
}

// SetScenario updates the header's scenario status text.
func (d *Dashboard) SetScenario(name, description string) {
	d.scenarioName = name
	d.scenarioDesc = description
	if d.scenarioBox != nil {
		d.scenarioBox.Text = fmt.Sprintf("[%s]\n%s", name, description)
	}
}

// Log appends a line to the dashboard's log panel.
func (d *Dashboard) Log(line string) {
	d.logs = append(d.logs, line)
	if len(d.logs) > 200 {
		d.logs = d.logs[len(d.logs)-200:]
	}
}

// Init creates and lays out the dashboard's widgets.
func (d *Dashboard) Init() error {
	if err := ui.Init(); err != nil {
		return fmt.Errorf("failed to initialize termui: %w", err)
	}

	d.header = widgets.NewParagraph()
	d.header.Title = "ringhash churn dashboard"
	d.header.Text = "Press 'q' to quit"
	d.header.BorderStyle.Fg = ui.ColorCyan

	d.scenarioBox = widgets.NewParagraph()
	d.scenarioBox.Title = "Scenario"
	d.scenarioBox.Text = "No active scenario"
	d.scenarioBox.BorderStyle.Fg = ui.ColorYellow

	d.pointsChart = widgets.NewPlot()
	d.pointsChart.Title = "Total ring points"
	d.pointsChart.Data = [][]float64{{0, 0}}
	d.pointsChart.LineColors[0] = ui.ColorGreen
	d.pointsChart.AxesColor = ui.ColorWhite
	d.pointsChart.BorderStyle.Fg = ui.ColorGreen
	d.pointsChart.Marker = widgets.MarkerBraille

	d.serverTable = widgets.NewTable()
	d.serverTable.Title = "Servers"
	d.serverTable.Rows = [][]string{{"Name", "Weight", "Configured", "Effective", "Points"}}
	d.serverTable.TextStyle = ui.NewStyle(ui.ColorWhite)
	d.serverTable.BorderStyle.Fg = ui.ColorMagenta
	d.serverTable.RowStyles[0] = ui.NewStyle(ui.ColorWhite, ui.ColorClear, ui.ModifierBold)

	d.logsList = widgets.NewList()
	d.logsList.Title = "Events"
	d.logsList.Rows = []string{"Waiting for events..."}
	d.logsList.TextStyle = ui.NewStyle(ui.ColorWhite)
	d.logsList.BorderStyle.Fg = ui.ColorCyan

	d.layout()
	return nil
}

func (d *Dashboard) layout() {
	w, h := ui.TerminalDimensions()

	d.header.SetRect(0, 0, w, 3)
	d.scenarioBox.SetRect(0, 3, w, 6)
	d.pointsChart.SetRect(0, 6, w, 16)
	d.serverTable.SetRect(0, 16, w, h-10)
	d.logsList.SetRect(0, h-10, w, h)

	chartWidth := w - 10
	if chartWidth < 10 {
		chartWidth = 10
	}
	d.maxDataPoints = chartWidth
}

// Run renders the dashboard until ctx's done channel fires or 'q' is
// pressed, whichever comes first.
func (d *Dashboard) Run(done <-chan struct{}) {
	defer ui.Close()

	ticker := time.NewTicker(refreshRate)
	defer ticker.Stop()

	events := ui.PollEvents()

	for {
		select {
		case <-done:
			return
		case e := <-events:
			switch e.ID {
			case "q", "<C-c>":
				return
			case "<Resize>":
				d.layout()
				ui.Render(d.header, d.scenarioBox, d.pointsChart, d.serverTable, d.logsList)
			}
		case <-ticker.C:
			d.refresh()
		}
	}
}

func (d *Dashboard) refresh() {
	snap, ok := d.collector.Latest()
	if ok {
		d.pointsHistory = append(d.pointsHistory, float64(snap.Stats.TotalPoints))
		if len(d.pointsHistory) > d.maxDataPoints {
			d.pointsHistory = d.pointsHistory[len(d.pointsHistory)-d.maxDataPoints:]
		}
		if len(d.pointsHistory) >= 2 {
			d.pointsChart.Data[0] = d.pointsHistory
		}
	}

	rows := [][]string{{"Name", "Weight", "Configured", "Effective", "Points"}}
	for _, item := range d.ring.Servers() {
		rows = append(rows, []string{
			item.Name(),
			fmt.Sprintf("%d", item.Weight()),
			item.AliveAsConfigured().String(),
			item.Alive().String(),
			fmt.Sprintf("%d", item.UsedPoints()),
		})
	}
	d.serverTable.Rows = rows

	if n := len(d.logs); n > 0 {
		start := 0
		if n > 15 {
			start = n - 15
		}
		d.logsList.Rows = d.logs[start:]
	}

	if d.scenarioName != "" {
		d.scenarioBox.Text = fmt.Sprintf("[%s]\n%s", d.scenarioName, d.scenarioDesc)
	}

	ui.Render(d.header, d.scenarioBox, d.pointsChart, d.serverTable, d.logsList)
}
