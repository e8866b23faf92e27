// Package sampling holds the sub-pixel jitter patterns used to supersample
// the escape-time image. Hardware multisampling only smooths geometry edges,
// the boundaries of the set are inside a single full screen quad.
package sampling

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// Pattern is a list of pixel offsets evaluated and averaged for every
// output pixel. The offsets of every pattern sum to zero.
type Pattern []mgl32.Vec2

func (p Pattern) Sum() mgl32.Vec2 {
	var s mgl32.Vec2
	for _, o := range p {
		s = s.Add(o)
	}
	return s
}

// Flatten returns the offsets as x,y pairs padded with zeros to size
// entries, the layout of the shader's offset uniform array.
func (p Pattern) Flatten(size int) []float32 {
	if size < len(p) {
		size = len(p)
	}
	f := make([]float32, 2*size)
	for i, o := range p {
		f[2*i] = o[0]
		f[2*i+1] = o[1]
	}
	return f
}

const third = float32(1.0 / 3.0)

// Table maps a sample count to its pattern. It is immutable after NewTable
// and safe to share.
type Table struct {
	patterns map[int]Pattern
	tiers    []int
}

func NewTable() *Table {
	t := &Table{
		patterns: map[int]Pattern{
			1: {{0, 0}},
			2: {{0.25, 0.25}, {-0.25, -0.25}},
			4: {{0.25, 0}, {-0.25, 0}, {0, 0.25}, {0, -0.25}},
			8: {
				{0.25, 0}, {-0.25, 0},
				{-third, third}, {0, third}, {third, third},
				{-third, -third}, {0, -third}, {third, -third},
			},
			16: grid(4),
		},
	}
	for n := range t.patterns {
		t.tiers = append(t.tiers, n)
	}
	sort.Ints(t.tiers)
	return t
}

// grid is an n×n pattern of cell centers inside the unit pixel.
func grid(n int) Pattern {
	p := make(Pattern, 0, n*n)
	step := float32(1) / float32(n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			p = append(p, mgl32.Vec2{
				-0.5 + step*(float32(x)+0.5),
				0.5 - step*(float32(y)+0.5),
			})
		}
	}
	return p
}

// Default is the table shared by the shader and the render loop.
var Default = NewTable()

// Tiers returns the defined sample counts in ascending order.
func (t *Table) Tiers() []int {
	return append([]int(nil), t.tiers...)
}

func (t *Table) Max() int {
	return t.tiers[len(t.tiers)-1]
}

func (t *Table) Pattern(n int) (Pattern, bool) {
	p, ok := t.patterns[n]
	return p, ok
}

// Floor returns the largest defined tier not above n, or the smallest tier
// when n is below all of them. exact reports whether n itself is a tier.
func (t *Table) Floor(n int) (tier int, exact bool) {
	if _, ok := t.patterns[n]; ok {
		return n, true
	}
	tier = t.tiers[0]
	for _, v := range t.tiers {
		if v > n {
			break
		}
		tier = v
	}
	return tier, false
}
