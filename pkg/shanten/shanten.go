// Package shanten computes a hand's distance to readiness: the minimum
// number of tile exchanges before the hand is one tile from winning.
//
// Tiles use the game service's notation: "1m".."9m", "1p".."9p", "1s".."9s"
// for the suits, "1z".."7z" for honors, and "0m"/"0p"/"0s" for red fives.
// The result is the minimum over the standard form, seven pairs, and
// thirteen orphans; -1 means the hand is already complete.
package shanten

import "fmt"

const tileKinds = 34

// Calculate returns the shanten number for a 13- or 14-tile hand
func Calculate(tiles []string) (int, error) {
	if len(tiles) != 13 && len(tiles) != 14 {
		return 0, fmt.Errorf("hand has %d tiles, want 13 or 14", len(tiles))
	}

	var counts [tileKinds]int
	for _, t := range tiles {
		idx, err := tileIndex(t)
		if err != nil {
			return 0, err
		}
		counts[idx]++
		if counts[idx] > 4 {
			return 0, fmt.Errorf("more than four copies of %s", t)
		}
	}

	best := standard(&counts)
	if s := sevenPairs(&counts); s < best {
		best = s
	}
	if s := thirteenOrphans(&counts); s < best {
		best = s
	}
	return best, nil
}

// tileIndex maps a tile string onto 0..33 (man 0-8, pin 9-17, sou 18-26,
// honors 27-33); red fives count as ordinary fives
func tileIndex(t string) (int, error) {
	if len(t) != 2 || t[0] < '0' || t[0] > '9' {
		return 0, fmt.Errorf("malformed tile %q", t)
	}
	rank := int(t[0] - '0')
	if rank == 0 {
		rank = 5
	}
	switch t[1] {
	case 'm':
		return rank - 1, nil
	case 'p':
		return 9 + rank - 1, nil
	case 's':
		return 18 + rank - 1, nil
	case 'z':
		if rank < 1 || rank > 7 {
			return 0, fmt.Errorf("malformed honor tile %q", t)
		}
		return 27 + rank - 1, nil
	}
	return 0, fmt.Errorf("malformed tile %q", t)
}

// standard searches every decomposition into melds, partial sets, and a pair
func standard(counts *[tileKinds]int) int {
	best := 8
	var walk func(idx, melds, partials, pairs int)
	walk = func(idx, melds, partials, pairs int) {
		for idx < tileKinds && counts[idx] == 0 {
			idx++
		}
		if idx >= tileKinds {
			if s := 8 - 2*melds - partials - pairs; s < best {
				best = s
			}
			return
		}

		// complete triplet
		if counts[idx] >= 3 {
			counts[idx] -= 3
			walk(idx, melds+1, partials, pairs)
			counts[idx] += 3
		}
		// complete sequence
		if idx < 27 && idx%9 <= 6 && counts[idx+1] > 0 && counts[idx+2] > 0 {
			counts[idx]--
			counts[idx+1]--
			counts[idx+2]--
			walk(idx, melds+1, partials, pairs)
			counts[idx]++
			counts[idx+1]++
			counts[idx+2]++
		}
		if counts[idx] >= 2 {
			// the pair
			if pairs == 0 {
				counts[idx] -= 2
				walk(idx, melds, partials, 1)
				counts[idx] += 2
			}
			// pair waiting to become a triplet
			if melds+partials < 4 {
				counts[idx] -= 2
				walk(idx, melds, partials+1, pairs)
				counts[idx] += 2
			}
		}
		if idx < 27 && melds+partials < 4 {
			// adjacent partial sequence
			if idx%9 <= 7 && counts[idx+1] > 0 {
				counts[idx]--
				counts[idx+1]--
				walk(idx, melds, partials+1, pairs)
				counts[idx]++
				counts[idx+1]++
			}
			// gapped partial sequence
			if idx%9 <= 6 && counts[idx+2] > 0 {
				counts[idx]--
				counts[idx+2]--
				walk(idx, melds, partials+1, pairs)
				counts[idx]++
				counts[idx+2]++
			}
		}
		// leave every copy of this tile floating
		saved := counts[idx]
		counts[idx] = 0
		walk(idx+1, melds, partials, pairs)
		counts[idx] = saved
	}
	walk(0, 0, 0, 0)
	return best
}

// sevenPairs: 6 - pairs, penalized when distinct kinds fall short of seven
func sevenPairs(counts *[tileKinds]int) int {
	pairs, kinds := 0, 0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		kinds++
		if c >= 2 {
			pairs++
		}
	}
	s := 6 - pairs
	if kinds < 7 {
		s += 7 - kinds
	}
	return s
}

// thirteenOrphans: 13 - held terminal/honor kinds, minus one for a pair
func thirteenOrphans(counts *[tileKinds]int) int {
	kinds, pair := 0, 0
	for idx, c := range counts {
		if !isOrphan(idx) || c == 0 {
			continue
		}
		kinds++
		if c >= 2 {
			pair = 1
		}
	}
	return 13 - kinds - pair
}

func isOrphan(idx int) bool {
	if idx >= 27 {
		return true
	}
	return idx%9 == 0 || idx%9 == 8
}
