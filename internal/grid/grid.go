// Package grid builds the disparity candidate grid (C6): a coarse
// per-cell set of disparities gathered from nearby support points,
// dilated by one cell in every direction, that narrows the dense
// matcher's search space.
package grid

import "github.com/cwbudde/goelas/internal/support"

// Grid holds, for every cell, the sorted set of candidate disparities
// surviving 3x3 dilation. Cells is laid out row-major: cell (gx,gy) is
// at index gy*CellsX+gx.
type Grid struct {
	CellsX, CellsY int
	CellSize       int
	DispMax        int32
	Cells          [][]int32
}

// At returns the candidate disparity list for the grid cell covering
// image position (u,v).
func (g *Grid) At(u, v int) []int32 {
	gx := u / g.CellSize
	gy := v / g.CellSize
	if gx < 0 {
		gx = 0
	}
	if gx >= g.CellsX {
		gx = g.CellsX - 1
	}
	if gy < 0 {
		gy = 0
	}
	if gy >= g.CellsY {
		gy = g.CellsY - 1
	}
	return g.Cells[gy*g.CellsX+gx]
}

// Build scatters each support's disparity (and its two neighbours)
// into its grid cell's bitmap, then dilates by a 3x3 logical-OR over
// (gx,gy) before enumerating set bits back into sorted candidate
// lists. rightView selects the u-d cell mapping used for the right
// reference grid.
func Build(pts []support.Point, width, height int, gridSize int, dispMax int32, rightView bool) *Grid {
	cellsX := ceilDiv(width, gridSize)
	cellsY := ceilDiv(height, gridSize)
	nbits := int(dispMax) + 1

	bitmaps := make([][]bool, cellsX*cellsY)
	for i := range bitmaps {
		bitmaps[i] = make([]bool, nbits)
	}

	for _, p := range pts {
		u := int(p.U)
		if rightView {
			u -= int(p.D)
		}
		gx := u / gridSize
		gy := int(p.V) / gridSize
		if gx < 0 || gx >= cellsX || gy < 0 || gy >= cellsY {
			continue
		}
		cell := bitmaps[gy*cellsX+gx]
		for _, d := range []int32{p.D - 1, p.D, p.D + 1} {
			if d < 0 || d > dispMax {
				continue
			}
			cell[d] = true
		}
	}

	dilated := make([][]bool, cellsX*cellsY)
	for gy := 0; gy < cellsY; gy++ {
		for gx := 0; gx < cellsX; gx++ {
			out := make([]bool, nbits)
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := gx+dx, gy+dy
					if nx < 0 || nx >= cellsX || ny < 0 || ny >= cellsY {
						continue
					}
					src := bitmaps[ny*cellsX+nx]
					for d := 0; d < nbits; d++ {
						if src[d] {
							out[d] = true
						}
					}
				}
			}
			dilated[gy*cellsX+gx] = out
		}
	}

	cells := make([][]int32, cellsX*cellsY)
	for i, bm := range dilated {
		var list []int32
		for d := 0; d < nbits; d++ {
			if bm[d] {
				list = append(list, int32(d))
			}
		}
		cells[i] = list
	}

	return &Grid{CellsX: cellsX, CellsY: cellsY, CellSize: gridSize, DispMax: dispMax, Cells: cells}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
