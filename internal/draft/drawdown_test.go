package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerive_StraightDraw(t *testing.T) {
	threading := Matrix{{true, false}, {false, true}}
	tieup := Matrix{{true, false}, {false, true}}
	treadling := Matrix{{true, false}, {false, true}}

	dd := Derive(threading, tieup, treadling)

	require.Equal(t, 2, dd.Rows())
	require.Equal(t, 2, dd.Cols())
	assert.True(t, dd[0][0])
	assert.False(t, dd[0][1])
	assert.False(t, dd[1][0])
	assert.True(t, dd[1][1])
}

func TestDerive_Shape(t *testing.T) {
	threading := newMatrix(3, 7)
	tieup := newMatrix(3, 2)
	treadling := newMatrix(5, 2)

	dd := Derive(threading, tieup, treadling)

	assert.Equal(t, 5, dd.Rows())
	assert.Equal(t, 7, dd.Cols())
	assert.Equal(t, 0, dd.Count())
}

func TestDerive_InconsistentDimensions(t *testing.T) {
	threading := Matrix{{true, true, true}, {false, false, true}}
	tieup := Matrix{{true}}                                // shaft 2 missing from the tie-up
	treadling := Matrix{{true, true, true}, {false, true}} // ragged, treadles beyond tie-up

	dd := Derive(threading, tieup, treadling)

	assert.Equal(t, []bool{true, true, true}, []bool(dd[0]))
	assert.Equal(t, []bool{false, false, false}, []bool(dd[1]))
}

func TestDerive_MultipleTreadles(t *testing.T) {
	// Two treadles pressed together lift the union of their shafts.
	threading := Matrix{{true, false, false}, {false, true, false}, {false, false, true}}
	tieup := Matrix{{true, false}, {false, true}, {false, false}}
	treadling := Matrix{{true, true}}

	dd := Derive(threading, tieup, treadling)

	assert.Equal(t, []bool{true, true, false}, []bool(dd[0]))
}

func TestColoredDrawdown(t *testing.T) {
	warp := RGB{10, 20, 30}
	weft := RGB{200, 100, 0}
	d := &Draft{
		Threading:    Matrix{{true, false}, {false, true}},
		TieUp:        Matrix{{true, false}, {false, true}},
		Treadling:    Matrix{{true, false}, {false, true}, {false, false}},
		ThreadColors: []RGB{warp, warp},
		RowColors:    []RGB{weft, weft},
	}

	cd := d.ColoredDrawdown()

	require.Len(t, cd, 3)
	assert.Equal(t, warp, cd[0][0])
	assert.Equal(t, weft, cd[0][1])
	assert.Equal(t, Fallback, cd[2][0], "pick without a weft color")
}
