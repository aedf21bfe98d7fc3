package combat

// ApplyDamageWithShield is the only way allies take damage. The shield absorbs
// first; any overflow reduces health, which stops at zero.
func ApplyDamageWithShield(e *Entity, raw float64) (absorbed, dealt float64) {
	if raw <= 0 {
		return 0, 0
	}
	if e.Shield >= raw {
		e.Shield -= raw
		return raw, 0
	}
	absorbed = max(e.Shield, 0)
	overflow := raw - absorbed
	e.Shield = 0
	dealt = min(overflow, e.Health)
	e.Health = max(e.Health-overflow, 0)
	return absorbed, dealt
}

// takeHit subtracts health directly. Enemies never carry a shield.
func (e *Entity) takeHit(raw float64) float64 {
	if raw <= 0 {
		return 0
	}
	dealt := min(raw, e.Health)
	e.Health = max(e.Health-raw, 0)
	return dealt
}

// heal restores health up to the maximum; the dead stay dead.
func (e *Entity) heal(amount float64) float64 {
	if !e.Alive() || amount <= 0 {
		return 0
	}
	before := e.Health
	e.Health = min(e.Health+amount, e.MaxHealth)
	return e.Health - before
}
