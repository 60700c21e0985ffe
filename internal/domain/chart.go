package domain

// ChartType enumerates the renderable chart shapes.
type ChartType string

const (
	ChartLine ChartType = "line"
	ChartBar  ChartType = "bar"
	ChartPie  ChartType = "pie"
)

// ChartSpec describes a chart to render. A nil *ChartSpec means the selector
// abstained and the answer is text-only.
type ChartSpec struct {
	Type   ChartType
	XAxis  string
	YAxis  string
	Title  string
	XTitle string
	YTitle string
	Width  int
	Height int
}

// Answer is the final user-facing output of one pipeline invocation.
type Answer struct {
	Markdown  string
	ChartPath string // empty when no chart was rendered
}
