package report

import (
	"math"
	"time"

	"github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"

	"github.com/i474232898/surf-report/internal/tides"
)

const chartSamples = 96

// tideChart draws the tide curve in feet. It returns "" when the curve is too
// short to draw.
func tideChart(curve tides.Spline, loc *time.Location, width, height int) string {
	if len(curve) == 0 {
		return ""
	}
	start := curve[0].Start
	end := curve[len(curve)-1].End
	if !end.After(start) {
		return ""
	}

	heights := tides.Discrete(curve, chartSamples)
	step := end.Sub(start) / time.Duration(chartSamples-1)

	minV, maxV := math.Inf(1), math.Inf(-1)
	for i := range heights {
		heights[i] = MetersToFeet(heights[i])
		minV = math.Min(minV, heights[i])
		maxV = math.Max(maxV, heights[i])
	}
	if minV == maxV {
		maxV += 0.1
		minV -= 0.1
	}

	lc := timeserieslinechart.New(width, height)
	lc.SetTimeRange(start.In(loc), end.In(loc))
	lc.SetViewTimeAndYRange(start.In(loc), end.In(loc), minV, maxV)

	hours := int(end.Sub(start).Hours())
	xStep := 1
	if hours > 0 && hours < lc.GraphWidth() {
		xStep = lc.GraphWidth() / hours
	}
	lc.SetXStep(xStep)
	lc.Model.XLabelFormatter = func(i int, v float64) string {
		return time.Unix(int64(v), 0).In(loc).Format("15:04")
	}

	for i, h := range heights {
		if math.IsNaN(h) {
			continue
		}
		lc.Push(timeserieslinechart.TimePoint{Time: start.Add(step * time.Duration(i)).In(loc), Value: h})
	}
	lc.DrawBraille()
	return lc.View()
}
