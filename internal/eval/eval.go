// Package eval implements the pattern-based static evaluator:
// per-cell threat scoring plus combination bonuses, full and
// incremental position scoring.
package eval

import (
	"github.com/kigster/gomoku/internal/board"
)

// Threat is a directional pattern category, ordered here roughly by
// severity though callers should use the Score table, not ordinal
// comparison, to rank categories.
type Threat int

const (
	None Threat = iota
	Two
	BrokenThree
	Three
	BrokenFour
	Four
	StraightFour
	Five
)

// Win is the absolute score returned the instant a five-in-a-row
// exists for a side; it always short-circuits position scoring.
const Win = 1_000_000

// Score gives the fixed, test-visible base cost of each threat
// category.
var Score = map[Threat]int{
	None:         0,
	Two:          10,
	BrokenThree:  100,
	Three:        1_000,
	BrokenFour:   1_000,
	Four:         10_000,
	StraightFour: 100_000,
	Five:         Win,
}

// NearEnemy is awarded when a direction has no same-side run at all
// but an opposing stone sits adjacent — contested ground is worth
// slightly more than empty space.
const NearEnemy = 1

// comboKey canonicalizes an unordered pair of threats for bonus lookup.
type comboKey struct{ a, b Threat }

func pairKey(a, b Threat) comboKey {
	if a > b {
		a, b = b, a
	}
	return comboKey{a, b}
}

var comboBonus = map[comboKey]int{
	pairKey(Three, Four):        200_000,
	pairKey(Three, Three):       50_000,
	pairKey(Three, BrokenThree): 10_000,
}

// RIntEval is R_EVAL: the Chebyshev radius around the last move that
// incremental evaluation sums over.
const RIntEval = 3

// window reads the 11 cells centered on pos along dir (offsets -5..5),
// with offset 0 forced to side regardless of the board's actual
// occupant there so the same routine serves both real stones
// (position scoring) and hypothetical placements (move ordering, the
// fast-threat estimate). Out-of-bounds offsets read as Empty, same as
// board.At, so a run stopped by the edge of the board classifies the
// same way as one stopped by empty space.
func window(b *board.Board, pos board.Pos, dir board.Dir, side board.Cell) [11]board.Cell {
	var w [11]board.Cell
	for i := -5; i <= 5; i++ {
		if i == 0 {
			w[i+5] = side
			continue
		}
		w[i+5] = b.At(pos.X+dir.DX*i, pos.Y+dir.DY*i)
	}
	return w
}

// classify categorizes the pattern a (possibly hypothetical) side
// stone at pos forms along dir.
func classify(w [11]board.Cell, side board.Cell) Threat {
	const c = 5 // index of offset 0 in the 11-wide window

	// Longest contiguous run of side through the center.
	forward := 0
	for i := c + 1; i < len(w) && w[i] == side; i++ {
		forward++
	}
	backward := 0
	for i := c - 1; i >= 0 && w[i] == side; i-- {
		backward++
	}
	run := 1 + forward + backward

	openEnd := func(idx int) bool {
		return idx >= 0 && idx < len(w) && w[idx] == board.Empty
	}
	frontOpen := openEnd(c + forward + 1)
	backOpen := openEnd(c - backward - 1)

	best := None

	switch {
	case run >= 5:
		return Five
	case run == 4:
		switch {
		case frontOpen && backOpen:
			best = StraightFour
		case frontOpen || backOpen:
			best = Four
		}
	case run == 3:
		switch {
		case frontOpen && backOpen:
			best = Three
		case frontOpen || backOpen:
			best = BrokenThree
		}
	case run == 2:
		if frontOpen || backOpen {
			best = Two
		}
	}

	// Broken patterns: a short span containing the center with exactly
	// one interior gap. These can coexist with (and exceed) the
	// contiguous-run classification above, so always check and keep
	// the higher-scoring result.
	if g := bestGapped(w, side, 5, c); g > best {
		best = g
	}
	if g := bestGapped(w, side, 4, c); g > best {
		best = g
	}

	return best
}

// bestGapped scans every span of length spanLen covering the center
// index for a pattern with exactly one Empty "gap" at an interior
// position (not the first or last cell of the span) and every other
// cell equal to side. spanLen 5 with 4 stones yields a BrokenFour
// (e.g. oo_oo); spanLen 4 with 3 stones yields a BrokenThree
// (e.g. o_oo). Returns None if no such span exists.
func bestGapped(w [11]board.Cell, side board.Cell, spanLen, center int) Threat {
	want := Threat(None)
	switch spanLen {
	case 5:
		want = BrokenFour
	case 4:
		want = BrokenThree
	default:
		return None
	}
	for start := center - spanLen + 1; start <= center; start++ {
		end := start + spanLen - 1
		if start < 0 || end >= len(w) {
			continue
		}
		if start > center || end < center {
			continue
		}
		gapIdx := -1
		ok := true
		for i := start; i <= end; i++ {
			if w[i] == side {
				continue
			}
			if w[i] == board.Empty && gapIdx == -1 {
				gapIdx = i
				continue
			}
			ok = false
			break
		}
		if !ok || gapIdx == -1 {
			continue
		}
		// Gap must be interior: not the first or last cell of the span.
		if gapIdx == start || gapIdx == end {
			continue
		}
		return want
	}
	return None
}

// CellScore evaluates the four directions through pos as if side had
// (or has) a stone there, sums each direction's base cost, and adds a
// combination bonus for every unordered pair of the four directional
// threats.
func CellScore(b *board.Board, pos board.Pos, side board.Cell) int {
	var cats [4]Threat
	total := 0
	for i, dir := range board.Directions {
		w := window(b, pos, dir, side)
		cats[i] = classify(w, side)
		total += Score[cats[i]]
		if cats[i] == None && (w[4] == side.Opponent() || w[6] == side.Opponent()) {
			total += NearEnemy
		}
	}

	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			if bonus, ok := comboBonus[pairKey(cats[i], cats[j])]; ok {
				total += bonus
			}
		}
	}
	return total
}

// PositionScore sums CellScore for every stone on the board from the
// perspective of side: side's own stones add, the opponent's subtract.
// A five-in-a-row for either side short-circuits to +-Win.
func PositionScore(b *board.Board, side board.Cell) int {
	if b.HasFive(side) {
		return Win
	}
	opp := side.Opponent()
	if b.HasFive(opp) {
		return -Win
	}

	var total int64
	size := b.Size()
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			cell := b.At(x, y)
			if cell == board.Empty {
				continue
			}
			pos := board.Pos{X: x, Y: y}
			score := int64(CellScore(b, pos, cell))
			if cell == side {
				total += score
			} else {
				total -= score
			}
		}
	}
	return clampInt32(total)
}

// PositionScoreIncremental is the evaluator used at search leaves: it
// only sums cells within Chebyshev distance RIntEval of lastMove,
// since placing a stone can only change threats in that neighborhood.
func PositionScoreIncremental(b *board.Board, side board.Cell, lastMove board.Pos) int {
	if b.HasFive(side) {
		return Win
	}
	opp := side.Opponent()
	if b.HasFive(opp) {
		return -Win
	}

	var total int64
	size := b.Size()
	minX, maxX := clamp(lastMove.X-RIntEval, 0, size-1), clamp(lastMove.X+RIntEval, 0, size-1)
	minY, maxY := clamp(lastMove.Y-RIntEval, 0, size-1), clamp(lastMove.Y+RIntEval, 0, size-1)
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			cell := b.At(x, y)
			if cell == board.Empty {
				continue
			}
			pos := board.Pos{X: x, Y: y}
			score := int64(CellScore(b, pos, cell))
			if cell == side {
				total += score
			} else {
				total -= score
			}
		}
	}
	return clampInt32(total)
}

// FastThreatEstimate is used only for move ordering, never as a true
// evaluation: it treats pos as filled by side and returns the maximum
// categorical score among Five/Four/Three/Two, on a coarser scale than
// CellScore so callers can threshold it cheaply.
func FastThreatEstimate(b *board.Board, pos board.Pos, side board.Cell) int {
	best := 0
	for _, dir := range board.Directions {
		w := window(b, pos, dir, side)
		switch classify(w, side) {
		case Five:
			return 100_000
		case StraightFour, Four, BrokenFour:
			if 10_000 > best {
				best = 10_000
			}
		case Three, BrokenThree:
			if 1_000 > best {
				best = 1_000
			}
		case Two:
			if 100 > best {
				best = 100
			}
		}
	}
	return best
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt32(v int64) int {
	const maxV = int64(1)<<31 - 1
	if v > maxV {
		return int(maxV)
	}
	if v < -maxV-1 {
		return int(-maxV - 1)
	}
	return int(v)
}
