// Package speckle removes small isolated disparity segments from a
// dense disparity map (C9) by 4-connected flood fill.
package speckle

import "math"

// Remove flood-fills every unvisited pixel with valid disparity (d >= 0).
// A neighbour joins the current segment when it is valid and within
// simThreshold of the segment pixel it is reached from. Segments smaller
// than minSize (adjusted by the caller for half-resolution maps) have
// every member set to -10.
func Remove(d []float32, width, height int, simThreshold float32, minSize int) {
	visited := make([]bool, width*height)
	var stack []int

	for start := 0; start < width*height; start++ {
		if visited[start] || d[start] < 0 {
			continue
		}
		stack = stack[:0]
		stack = append(stack, start)
		visited[start] = true
		members := []int{start}

		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			u := idx % width
			v := idx / width
			cur := d[idx]

			for _, n := range neighbours4(u, v, width, height) {
				if visited[n] || d[n] < 0 {
					continue
				}
				if absf32(d[n]-cur) > simThreshold {
					continue
				}
				visited[n] = true
				members = append(members, n)
				stack = append(stack, n)
			}
		}

		if len(members) < minSize {
			for _, idx := range members {
				d[idx] = -10
			}
		}
	}
}

// HalfResMinSize adjusts the full-resolution size threshold for a
// half-resolution disparity map: 2*sqrt(speckle_size).
func HalfResMinSize(minSize int) int {
	return int(math.Round(2 * math.Sqrt(float64(minSize))))
}

func neighbours4(u, v, width, height int) []int {
	var out []int
	if u > 0 {
		out = append(out, v*width+u-1)
	}
	if u < width-1 {
		out = append(out, v*width+u+1)
	}
	if v > 0 {
		out = append(out, (v-1)*width+u)
	}
	if v < height-1 {
		out = append(out, (v+1)*width+u)
	}
	return out
}

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
