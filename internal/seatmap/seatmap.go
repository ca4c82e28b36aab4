// Package seatmap derives sellable seat identifiers for a flight. The grid is
// synthetic: six columns A-F per row, rows numbered from 1, independent of the
// aircraft's actual cabin layout.
package seatmap

import "strconv"

var columns = []string{"A", "B", "C", "D", "E", "F"}

// All returns the first capacity seat identifiers in row-major order
// (1A, 1B, ... 1F, 2A, ...). Rows extend past 30 for capacities above 180.
func All(capacity int) []string {
	if capacity <= 0 {
		return nil
	}
	seats := make([]string, 0, capacity)
	for row := 1; len(seats) < capacity; row++ {
		for _, col := range columns {
			seats = append(seats, strconv.Itoa(row)+col)
			if len(seats) == capacity {
				break
			}
		}
	}
	return seats
}

// Available returns the seats from All(capacity) not present in taken,
// preserving order. Taken seats outside the capacity pool are ignored.
func Available(capacity int, taken []string) []string {
	occupied := make(map[string]struct{}, len(taken))
	for _, s := range taken {
		occupied[s] = struct{}{}
	}

	free := make([]string, 0, capacity)
	for _, s := range All(capacity) {
		if _, ok := occupied[s]; !ok {
			free = append(free, s)
		}
	}
	return free
}
