package combat

import (
	"math/rand"

	"bossbalance/internal/config"
)

// Battle is the mutable state of one simulation run. It is never shared
// between runs.
type Battle struct {
	Allies  Roster
	Enemies []*Entity
	Turn    int

	rng            *rand.Rand
	buffStrength   float64
	debuffStrength float64
	record         bool
	events         []Event
}

// NewBattle sets up a fresh encounter: allies at full health, the boss at
// full health with its CC immunity.
func NewBattle(bal config.Balance, rng *rand.Rand, record bool) *Battle {
	return &Battle{
		Allies:         NewParty(bal),
		Enemies:        NewBoss(bal.Boss),
		rng:            rng,
		buffStrength:   bal.BuffStrength,
		debuffStrength: bal.DebuffStrength,
		record:         record,
	}
}

func (b *Battle) Events() []Event { return b.events }

func (b *Battle) emit(typ string, payload map[string]any) {
	if !b.record {
		return
	}
	b.events = append(b.events, Event{Turn: b.Turn, Type: typ, Payload: payload})
}

// allyStrength scales every ally's damage and healing. It keys off the
// warrior's flag alone.
func (b *Battle) allyStrength() float64 {
	if b.Allies[Warrior].Buffed {
		return 1 + b.buffStrength
	}
	return 1
}

func (b *Battle) bossStrength(boss *Entity) float64 {
	if boss.Debuffed {
		return 1 - b.debuffStrength
	}
	return 1
}

// cast applies an ability; against an empty enemy group it is a no-op.
func (b *Battle) cast(ab Ability, caster *Entity) {
	if len(b.Enemies) == 0 {
		return
	}
	ab.Apply(b, caster)
}

func (b *Battle) hitEnemy(source string, caster *Entity, i int, dmg float64) {
	target := b.Enemies[i]
	dealt := target.takeHit(dmg)
	b.emit("Hit", map[string]any{
		"source": source, "caster": caster.Name, "target": target.Name,
		"dmg": dealt, "hp": target.Health,
	})
}

func (b *Battle) damageAlly(source string, id AllyID, dmg float64) {
	target := b.Allies[id]
	absorbed, dealt := ApplyDamageWithShield(target, dmg)
	b.emit("BossHit", map[string]any{
		"source": source, "target": target.Name,
		"dmg": dealt, "absorbed": absorbed, "hp": target.Health, "shield": target.Shield,
	})
}

func (b *Battle) healAlly(source string, id AllyID, amount float64) {
	target := b.Allies[id]
	if !target.Alive() {
		return
	}
	healed := target.heal(amount)
	b.emit("Heal", map[string]any{
		"source": source, "target": target.Name, "amount": healed, "hp": target.Health,
	})
}

func (b *Battle) buff(source string, id AllyID) {
	b.Allies[id].Buffed = true
	b.emit("Buff", map[string]any{"source": source, "target": b.Allies[id].Name})
}

func (b *Battle) stun(source string, i int) {
	target := b.Enemies[i]
	if target.CCImmune {
		b.emit("StunResisted", map[string]any{"source": source, "target": target.Name})
		return
	}
	target.Stunned = true
	b.emit("Stun", map[string]any{"source": source, "target": target.Name})
}

// cleanup ends single-turn effects. Calling it twice is harmless.
func (b *Battle) cleanup() {
	for _, a := range b.Allies {
		a.Buffed = false
		a.Shield = 0
	}
	for _, e := range b.Enemies {
		e.Debuffed = false
	}
}

func (b *Battle) enemiesDefeated() bool { return countAlive(b.Enemies) == 0 }

func (b *Battle) partyDefeated() bool { return b.Allies.TotalHealth() <= 0 }

// bossHealth is the health of the lead enemy, as seen by ally policies.
func (b *Battle) bossHealth() float64 {
	if len(b.Enemies) == 0 {
		return 0
	}
	return b.Enemies[0].Health
}
