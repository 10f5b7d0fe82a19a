package layout

import (
	"github.com/atthecodeface/diagramc/pkg/errors"
)

// interval is the space between two consecutive grid lines on one axis.
type interval struct {
	line    int     // index of the line this interval follows
	min     float64 // resolved minimum size
	weight  float64 // expansion weight; 0 = not expansion-eligible
	literal bool    // min came from an explicit minx/miny constraint
	size    float64 // final size after expansion
	pos     float64 // absolute position of the interval's starting line
}

// cellReq is one child's lower bound on the intervals it spans.
type cellReq struct {
	start, end int // grid lines, end > start
	size       float64
}

// dimension solves one axis of one grid: lines run 1..last, giving last-1
// intervals. A dimension with fewer than two lines has no intervals and
// zero size.
type dimension struct {
	last      int
	intervals []interval
}

// newDimension creates a dimension with lines 1..last.
func newDimension(last int) *dimension {
	d := &dimension{last: last}
	if last >= 2 {
		d.intervals = make([]interval, last-1)
		for i := range d.intervals {
			d.intervals[i].line = i + 1
		}
	}
	return d
}

// at returns the interval following the given line, or nil when the line
// is outside the grid.
func (d *dimension) at(line int) *interval {
	idx := line - 1
	if idx < 0 || idx >= len(d.intervals) {
		return nil
	}
	return &d.intervals[idx]
}

// setLiteral records an explicit minimum for the interval following line.
func (d *dimension) setLiteral(line int, size float64) {
	if iv := d.at(line); iv != nil {
		if size > iv.min {
			iv.min = size
		}
		iv.literal = true
	}
}

// setWeight marks the interval following line as expansion-eligible with
// the given weight. The interval's baseline minimum is unchanged.
func (d *dimension) setWeight(line int, w float64) {
	if iv := d.at(line); iv != nil && w > 0 {
		iv.weight = w
	}
}

// applyContent raises interval minimums to accommodate the given cell
// requirements: single-interval cells first, then spans in declaration
// order. A span whose intervals are all explicitly constrained and still
// too small is unsatisfiable.
func (d *dimension) applyContent(cells []cellReq) error {
	for _, c := range cells {
		if c.end != c.start+1 {
			continue
		}
		if iv := d.at(c.start); iv != nil && c.size > iv.min {
			iv.min = c.size
		}
	}
	for _, c := range cells {
		if c.end <= c.start+1 {
			continue
		}
		if err := d.applySpan(c); err != nil {
			return err
		}
	}
	return nil
}

// applySpan enforces that the intervals spanned by c sum to at least
// c.size. Any deficit goes entirely to the spanned intervals without an
// explicit literal constraint, split evenly among them.
func (d *dimension) applySpan(c cellReq) error {
	var sum float64
	var free []*interval
	for line := c.start; line < c.end; line++ {
		iv := d.at(line)
		if iv == nil {
			continue
		}
		sum += iv.min
		if !iv.literal {
			free = append(free, iv)
		}
	}
	deficit := c.size - sum
	if deficit <= 0 {
		return nil
	}
	if len(free) == 0 {
		return errors.New(errors.ErrCodeOverconstrainedLayout,
			"span %d..%d needs %.6g but explicit minimums only allow %.6g",
			c.start, c.end, c.size, sum)
	}
	share := deficit / float64(len(free))
	for _, iv := range free {
		iv.min += share
	}
	return nil
}

// minSum returns the sum of interval minimums: the grid's natural size on
// this axis.
func (d *dimension) minSum() float64 {
	var sum float64
	for i := range d.intervals {
		sum += d.intervals[i].min
	}
	return sum
}

// totalWeight returns the sum of expansion weights.
func (d *dimension) totalWeight() float64 {
	var sum float64
	for i := range d.intervals {
		sum += d.intervals[i].weight
	}
	return sum
}

// place fixes the absolute positions of the grid lines. The grid starts
// at origin and has the given assigned size. If expand is set and any
// interval is expansion-eligible, slack is distributed proportional to
// weight; otherwise slack is left unused and the content is anchored
// within it (-1 start, 0 centre, 1 end).
func (d *dimension) place(origin, assigned float64, expand bool, anchor float64) {
	natural := d.minSum()
	slack := assigned - natural
	wsum := d.totalWeight()

	for i := range d.intervals {
		iv := &d.intervals[i]
		iv.size = iv.min
		if expand && slack > 0 && wsum > 0 {
			iv.size += slack * iv.weight / wsum
		}
	}
	if slack > 0 && !(expand && wsum > 0) {
		origin += slack * (anchor + 1) / 2
	}

	pos := origin
	for i := range d.intervals {
		d.intervals[i].pos = pos
		pos += d.intervals[i].size
	}
}

// linePos returns the absolute position of a grid line after place.
func (d *dimension) linePos(line int) float64 {
	if len(d.intervals) == 0 {
		return 0
	}
	if iv := d.at(line); iv != nil {
		return iv.pos
	}
	if line < 1 {
		return d.intervals[0].pos
	}
	lastIv := d.intervals[len(d.intervals)-1]
	return lastIv.pos + lastIv.size
}

// spanRange returns the absolute extent between two grid lines.
func (d *dimension) spanRange(start, end int) (float64, float64) {
	return d.linePos(start), d.linePos(end)
}
