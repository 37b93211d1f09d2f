package present

import "time"

// Point is one (date, price) observation.
type Point struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// Chart is a single line chart of prices over time.
type Chart struct {
	Title  string  `json:"title"`
	XLabel string  `json:"x_label"`
	YLabel string  `json:"y_label"`
	Points []Point `json:"points"`
}

// PriceChart builds a "Price Movement for <name>" chart.
func PriceChart(name string, points []Point) Chart {
	return Chart{
		Title:  "Price Movement for " + name,
		XLabel: "Date",
		YLabel: "Price",
		Points: points,
	}
}
