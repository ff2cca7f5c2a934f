package diffusion

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Shape lists the extent of each grid axis, slowest-varying first.
type Shape []int

// Dims returns the number of axes.
func (s Shape) Dims() int { return len(s) }

// Size returns the total number of cells.
func (s Shape) Size() int {
	if len(s) == 0 {
		return 0
	}
	n := 1
	for _, e := range s {
		n *= e
	}
	return n
}

func (s Shape) String() string {
	switch len(s) {
	case 1:
		return fmt.Sprintf("(%d)", s[0])
	case 2:
		return fmt.Sprintf("(%d, %d)", s[0], s[1])
	}
	return fmt.Sprintf("%v", []int(s))
}

func (s Shape) validate() error {
	if len(s) != 1 && len(s) != 2 {
		return &ShapeError{Want: "1 or 2 axes", Got: fmt.Sprintf("%d axes", len(s))}
	}
	for _, e := range s {
		if e < 1 {
			return &ShapeError{Want: "extent >= 1 on every axis", Got: s.String()}
		}
	}
	return nil
}

// Field is a scalar grid with uniform spacing. Values are stored row-major.
type Field struct {
	shape   Shape
	strides []int
	dx      float64
	values  []float64
	spare   []float64
}

// NewField copies values into a grid of the given shape.
func NewField(shape Shape, dx float64, values []float64) (*Field, error) {
	if err := shape.validate(); err != nil {
		return nil, err
	}
	if len(values) != shape.Size() {
		return nil, &ShapeError{
			Want: fmt.Sprintf("%s = %d values", shape, shape.Size()),
			Got:  fmt.Sprintf("%d values", len(values)),
		}
	}
	if err := positive("dx", dx); err != nil {
		return nil, err
	}

	sh := append(Shape(nil), shape...)
	strides := make([]int, len(sh))
	stride := 1
	for a := len(sh) - 1; a >= 0; a-- {
		strides[a] = stride
		stride *= sh[a]
	}

	v := make([]float64, len(values))
	copy(v, values)

	return &Field{
		shape:   sh,
		strides: strides,
		dx:      dx,
		values:  v,
	}, nil
}

// NewField1D builds a ring of len(values) cells.
func NewField1D(dx float64, values []float64) (*Field, error) {
	return NewField(Shape{len(values)}, dx, values)
}

// NewField2D builds a torus from rows; every row must have the same length.
func NewField2D(dx float64, rows [][]float64) (*Field, error) {
	if len(rows) == 0 {
		return nil, &ShapeError{Want: "at least one row", Got: "0 rows"}
	}
	cols := len(rows[0])
	flat := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, &ShapeError{
				Want: fmt.Sprintf("%d columns in every row", cols),
				Got:  fmt.Sprintf("%d columns in row %d", len(row), i),
			}
		}
		flat = append(flat, row...)
	}
	return NewField(Shape{len(rows), cols}, dx, flat)
}

func (f *Field) Shape() Shape { return append(Shape(nil), f.shape...) }
func (f *Field) Dims() int    { return len(f.shape) }
func (f *Field) Dx() float64  { return f.dx }
func (f *Field) Len() int     { return len(f.values) }

// Read returns a read-only view of the current values.
func (f *Field) Read() View {
	return View{shape: f.shape, values: f.values}
}

// WriteInPlace replaces every cell at once. The field takes ownership of
// next; the previous buffer is kept as scratch for the following update.
func (f *Field) WriteInPlace(next []float64) error {
	if len(next) != len(f.values) {
		return &ShapeError{
			Want: fmt.Sprintf("%d values", len(f.values)),
			Got:  fmt.Sprintf("%d values", len(next)),
		}
	}
	f.values, f.spare = next, f.values
	return nil
}

func (f *Field) scratch() []float64 {
	if len(f.spare) != len(f.values) {
		f.spare = make([]float64, len(f.values))
	}
	return f.spare
}

// View is a read-only window onto a field state. It aliases the field's
// storage and stays valid until the next WriteInPlace; use Copy to keep it.
type View struct {
	shape  Shape
	values []float64
}

func (v View) Shape() Shape { return append(Shape(nil), v.shape...) }
func (v View) Len() int     { return len(v.values) }

// At returns the value of flat cell i.
func (v View) At(i int) float64 { return v.values[i] }

// At2 returns the value at row i, column j of a 2D view.
func (v View) At2(i, j int) float64 {
	return v.values[i*v.shape[len(v.shape)-1]+j]
}

func (v View) Sum() float64 {
	return floats.Sum(v.values)
}

// MaxAbs returns the largest magnitude in the view.
func (v View) MaxAbs() float64 {
	return floats.Norm(v.values, math.Inf(1))
}

// Copy returns an independent flat copy of the values.
func (v View) Copy() []float64 {
	c := make([]float64, len(v.values))
	copy(c, v.values)
	return c
}

// Rows returns an independent copy shaped as rows. A 1D view yields one row.
func (v View) Rows() [][]float64 {
	cols := v.shape[len(v.shape)-1]
	rows := make([][]float64, 0, len(v.values)/cols)
	for i := 0; i < len(v.values); i += cols {
		row := make([]float64, cols)
		copy(row, v.values[i:i+cols])
		rows = append(rows, row)
	}
	return rows
}

func isInf(v float64) bool { return math.IsInf(v, 0) }
