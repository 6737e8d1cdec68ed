package draft

import "strings"

// Matrix is a rectangular boolean grid indexed [row][col].
type Matrix [][]bool

func newMatrix(rows, cols int) Matrix {
	m := make(Matrix, rows)
	for i := range m {
		m[i] = make([]bool, cols)
	}
	return m
}

func (m Matrix) Rows() int { return len(m) }

func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// At reports false for any index outside the grid.
func (m Matrix) At(r, c int) bool {
	if r < 0 || r >= len(m) || c < 0 || c >= len(m[r]) {
		return false
	}
	return m[r][c]
}

// Set reports whether (r, c) was inside the grid.
func (m Matrix) Set(r, c int, v bool) bool {
	if r < 0 || r >= len(m) || c < 0 || c >= len(m[r]) {
		return false
	}
	m[r][c] = v
	return true
}

// Count returns the number of true cells.
func (m Matrix) Count() int {
	n := 0
	for _, row := range m {
		for _, v := range row {
			if v {
				n++
			}
		}
	}
	return n
}

// String renders '#' for set cells and '.' otherwise, one row per line.
func (m Matrix) String() string {
	var b strings.Builder
	for _, row := range m {
		for _, v := range row {
			if v {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
