package renderer

import "math"

// ScrollbarWidth is the horizontal space reserved for the viewport scrollbar.
const ScrollbarWidth = 14

// Minimum grid produced by a successful fit.
const (
	MinCols = 2
	MinRows = 1
)

// Fitter sizes a Headless renderer to the element that contains it.
type Fitter struct {
	r          *Headless
	cellWidth  int
	cellHeight int
	disposed   bool
}

// NewFitter creates a fitter with cell metrics derived from fontSize.
func NewFitter(r *Headless, fontSize int) *Fitter {
	if fontSize <= 0 {
		fontSize = 13
	}
	w, h := CellSize(fontSize)
	return &Fitter{r: r, cellWidth: w, cellHeight: h}
}

// CellSize returns the pixel size of one character cell for a monospace
// font of the given size.
func CellSize(fontSize int) (width, height int) {
	width = int(math.Round(0.6 * float64(fontSize)))
	height = int(math.Round(1.2 * float64(fontSize)))
	return max(width, 1), max(height, 1)
}

// Proposed returns the grid that fits the container without resizing.
func (f *Fitter) Proposed() (cols, rows int, ok bool) {
	if f.disposed || f.r == nil || f.r.Disposed() {
		return 0, 0, false
	}
	parent := f.r.Element().Parent()
	if parent == nil || !parent.Visible() {
		return 0, 0, false
	}

	width, height := parent.Size()
	if width <= 0 || height <= 0 {
		return 0, 0, false
	}

	cols = max((width-ScrollbarWidth)/f.cellWidth, MinCols)
	rows = max(height/f.cellHeight, MinRows)
	return cols, rows, true
}

// Fit resizes the renderer to the proposed grid.
func (f *Fitter) Fit() (cols, rows int, ok bool) {
	cols, rows, ok = f.Proposed()
	if !ok {
		return 0, 0, false
	}
	if cols != f.r.Cols() || rows != f.r.Rows() {
		f.r.Resize(cols, rows)
	}
	return cols, rows, true
}

// Dispose stops the fitter from resizing.
func (f *Fitter) Dispose() {
	f.disposed = true
}
