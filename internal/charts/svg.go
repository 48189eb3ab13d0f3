// Package charts renders time-series data as standalone SVG documents.
//
// The renderer is deliberately small: axes, gridlines, one polyline per
// series, and a legend. It exists so the dashboard has no client-side
// chart dependency.
package charts

import (
	"fmt"
	"html"
	"math"
	"strings"
	"time"

	"github.com/nodepulse/nodepulse/internal/query"
)

// Default chart dimensions.
const (
	DefaultWidth  = 800
	DefaultHeight = 400

	marginLeft   = 60
	marginRight  = 140
	marginTop    = 40
	marginBottom = 40
)

// palette holds the stroke colors assigned to series in order.
var palette = []string{
	"#2563eb", "#dc2626", "#16a34a", "#d97706",
	"#9333ea", "#0891b2", "#db2777", "#65a30d",
}

// Series is one named line on a chart.
type Series struct {
	Name   string
	Unit   string
	Points []query.SeriesPoint
}

// ChartData is everything needed to render one chart.
type ChartData struct {
	Title  string
	XLabel string
	YLabel string
	Series []Series
}

// Render produces an SVG document for the chart. Charts with no plottable
// points render as a labeled empty state rather than failing.
func Render(data ChartData) string {
	return render(data, DefaultWidth, DefaultHeight)
}

// RenderMessage produces an SVG placeholder carrying a single message,
// used for "no data yet" and query failures on chart endpoints.
func RenderMessage(msg string) string {
	return fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`+
			`<rect width="100%%" height="100%%" fill="#f8fafc"/>`+
			`<text x="50%%" y="50%%" text-anchor="middle" fill="#64748b" font-family="sans-serif" font-size="16">%s</text>`+
			`</svg>`,
		DefaultWidth, DefaultHeight, html.EscapeString(msg))
}

func render(data ChartData, width, height int) string {
	minX, maxX, minY, maxY, total := bounds(data)
	if total == 0 {
		return RenderMessage("No data available")
	}

	plotW := float64(width - marginLeft - marginRight)
	plotH := float64(height - marginTop - marginBottom)

	x := func(ts int64) float64 {
		return float64(marginLeft) + float64(ts-minX)/float64(maxX-minX)*plotW
	}
	y := func(v float64) float64 {
		return float64(marginTop) + (1-(v-minY)/(maxY-minY))*plotH
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" font-family="sans-serif">`, width, height)
	b.WriteString(`<rect width="100%" height="100%" fill="#ffffff"/>`)

	// Title
	fmt.Fprintf(&b, `<text x="%d" y="24" font-size="16" fill="#0f172a">%s</text>`,
		marginLeft, html.EscapeString(data.Title))

	// Horizontal gridlines with y-axis tick labels.
	for i := 0; i <= 4; i++ {
		v := minY + (maxY-minY)*float64(i)/4
		gy := y(v)
		fmt.Fprintf(&b, `<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="#e2e8f0"/>`,
			marginLeft, gy, width-marginRight, gy)
		fmt.Fprintf(&b, `<text x="%d" y="%.1f" font-size="11" fill="#64748b" text-anchor="end">%s</text>`,
			marginLeft-6, gy+4, formatValue(v))
	}

	// X-axis tick labels at the window edges and midpoint.
	for _, ts := range []int64{minX, (minX + maxX) / 2, maxX} {
		fmt.Fprintf(&b, `<text x="%.1f" y="%d" font-size="11" fill="#64748b" text-anchor="middle">%s</text>`,
			x(ts), height-marginBottom+16, time.Unix(ts, 0).UTC().Format("15:04"))
	}

	// Axes
	fmt.Fprintf(&b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#94a3b8"/>`,
		marginLeft, marginTop, marginLeft, height-marginBottom)
	fmt.Fprintf(&b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#94a3b8"/>`,
		marginLeft, height-marginBottom, width-marginRight, height-marginBottom)

	// Series polylines and legend.
	for i, s := range data.Series {
		if len(s.Points) == 0 {
			continue
		}
		color := palette[i%len(palette)]

		var pts strings.Builder
		for j, p := range s.Points {
			if j > 0 {
				pts.WriteByte(' ')
			}
			fmt.Fprintf(&pts, "%.1f,%.1f", x(p.Timestamp), y(p.Value))
		}
		fmt.Fprintf(&b, `<polyline fill="none" stroke="%s" stroke-width="2" points="%s"/>`,
			color, pts.String())

		legendY := marginTop + 16*i
		fmt.Fprintf(&b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="3"/>`,
			width-marginRight+10, legendY, width-marginRight+30, legendY, color)
		fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="11" fill="#0f172a">%s</text>`,
			width-marginRight+36, legendY+4, html.EscapeString(s.Name))
	}

	b.WriteString(`</svg>`)
	return b.String()
}

// bounds computes the plot range across all series, padding degenerate
// ranges so a flat line or single point still renders.
func bounds(data ChartData) (minX, maxX int64, minY, maxY float64, total int) {
	minY, maxY = math.Inf(1), math.Inf(-1)
	minX, maxX = math.MaxInt64, math.MinInt64

	for _, s := range data.Series {
		for _, p := range s.Points {
			total++
			if p.Timestamp < minX {
				minX = p.Timestamp
			}
			if p.Timestamp > maxX {
				maxX = p.Timestamp
			}
			if p.Value < minY {
				minY = p.Value
			}
			if p.Value > maxY {
				maxY = p.Value
			}
		}
	}

	if total == 0 {
		return 0, 0, 0, 0, 0
	}
	if minX == maxX {
		maxX = minX + 60
	}
	if minY == maxY {
		minY -= 1
		maxY += 1
	}
	return minX, maxX, minY, maxY, total
}

func formatValue(v float64) string {
	if math.Abs(v) >= 100 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
