package draft

// Derive computes the drawdown of shape [treadling rows][threading cols].
// A cell is true when the warp thread is raised on that pick: some shaft
// carries the thread and is lifted by a treadle pressed on the pick.
//
// The three matrices are not assumed to agree on their shared dimensions;
// every lookup goes through Matrix.At, so an index missing from one of them
// reads as "not raised".
func Derive(threading, tieup, treadling Matrix) Matrix {
	picks := treadling.Rows()
	threads := threading.Cols()
	shafts := threading.Rows()

	out := newMatrix(picks, threads)
	for i := 0; i < picks; i++ {
		lifted := liftedShafts(tieup, treadling[i], shafts)
		for j := 0; j < threads; j++ {
			for _, s := range lifted {
				if threading.At(s, j) {
					out[i][j] = true
					break
				}
			}
		}
	}
	return out
}

// liftedShafts lists the shafts raised by the treadles pressed in one pick.
func liftedShafts(tieup Matrix, pressed []bool, shafts int) []int {
	var lifted []int
	for s := 0; s < shafts; s++ {
		for t, down := range pressed {
			if down && tieup.At(s, t) {
				lifted = append(lifted, s)
				break
			}
		}
	}
	return lifted
}

func (d *Draft) Drawdown() Matrix {
	return Derive(d.Threading, d.TieUp, d.Treadling)
}

// ColoredDrawdown shows the warp color where the thread is raised and the
// weft color elsewhere.
func (d *Draft) ColoredDrawdown() [][]RGB {
	dd := d.Drawdown()
	out := make([][]RGB, len(dd))
	for i, row := range dd {
		out[i] = make([]RGB, len(row))
		for j, raised := range row {
			if raised {
				out[i][j] = colorAt(d.ThreadColors, j)
			} else {
				out[i][j] = colorAt(d.RowColors, i)
			}
		}
	}
	return out
}

func colorAt(colors []RGB, i int) RGB {
	if i < 0 || i >= len(colors) {
		return Fallback
	}
	return colors[i]
}
