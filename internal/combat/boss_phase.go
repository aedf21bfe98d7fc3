package combat

// HealthGate reports, once, the first time an entity drops below a fraction
// of its maximum health.
type HealthGate struct {
	Threshold float64
	crossed   bool
}

func NewHealthGate(threshold float64) *HealthGate {
	return &HealthGate{Threshold: threshold}
}

func (g *HealthGate) Crossed() bool { return g.crossed }

// Tick returns true only on the first call where e is below the threshold.
func (g *HealthGate) Tick(e *Entity) bool {
	if g.crossed {
		return false
	}
	if e.Health < e.MaxHealth*g.Threshold {
		g.crossed = true
		return true
	}
	return false
}
