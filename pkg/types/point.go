package types

type Pointf64 struct {
	X float64
	Y float64
}

func (p Pointf64) Add(q Pointf64) Pointf64 {
	return Pointf64{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Pointf64) Sub(q Pointf64) Pointf64 {
	return Pointf64{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Pointf64) Scale(s float64) Pointf64 {
	return Pointf64{X: p.X * s, Y: p.Y * s}
}

// floating point precision used by the escape-time iteration on the GPU
type Precision int

const (
	PrecisionStandard Precision = iota // 32 bit
	PrecisionExtended                  // 64 bit, needs GL 4.0
)

func (p Precision) String() string {
	switch p {
	case PrecisionStandard:
		return "standard"
	case PrecisionExtended:
		return "extended"
	}
	return "unknown"
}
