package combat

import (
	"errors"
	"fmt"

	"bossbalance/internal/config"
)

// ErrInvalidAbility means a policy picked an index the caster's kit lacks.
var ErrInvalidAbility = errors.New("invalid ability index")

// AbilityIndex is the 1-based slot of an ability within a kit.
type AbilityIndex int

type Ability interface {
	Name() string
	Apply(b *Battle, caster *Entity)
}

type Kit struct {
	Owner     string
	Abilities []Ability
}

func (k Kit) Ability(i AbilityIndex) (Ability, error) {
	if i < 1 || int(i) > len(k.Abilities) {
		return nil, fmt.Errorf("%w: %s has no ability %d (1..%d)", ErrInvalidAbility, k.Owner, i, len(k.Abilities))
	}
	return k.Abilities[i-1], nil
}

// NewAllyKits builds the three-ability kit of every roster slot. Abilities
// carry no mutable state, so the kits can be shared by concurrent runs.
func NewAllyKits(bal config.Balance) [allyCount]Kit {
	w, m, r, h := bal.Allies.Warrior, bal.Allies.Mystic, bal.Allies.Ranger, bal.Allies.Healer
	var kits [allyCount]Kit
	kits[Warrior] = Kit{Owner: Warrior.String(), Abilities: []Ability{
		strikeNearest{name: "warrior.strike", base: w.Strike},
		rally{name: "warrior.rally", reach: w.Rally},
		strikeRandom{name: "warrior.cleave", base: w.Cleave, minTargets: 1, maxTargets: 3},
	}}
	kits[Mystic] = Kit{Owner: Mystic.String(), Abilities: []Ability{
		strikeRandom{name: "mystic.shock", base: m.Shock, minTargets: 2, maxTargets: 3, stun: true},
		strikeRandom{name: "mystic.jolt", base: m.Jolt, minTargets: 1, maxTargets: 1, stun: true},
		pulse{name: "mystic.pulse", amount: m.Pulse},
	}}
	kits[Ranger] = Kit{Owner: Ranger.String(), Abilities: []Ability{
		strikeRandom{name: "ranger.volley", base: r.Volley, minTargets: 2, maxTargets: 3},
		strikeNearest{name: "ranger.snipe", base: r.Snipe},
		strikeRandom{name: "ranger.barrage", base: r.Barrage, minTargets: 2, maxTargets: 3},
	}}
	kits[Healer] = Kit{Owner: Healer.String(), Abilities: []Ability{
		triage{name: "healer.triage", heal: h.Heal, contact: h.Contact, threshold: h.TriageThreshold},
		hex{name: "healer.hex", base: h.Hex},
		ward{name: "healer.ward", amount: h.Shield},
	}}
	return kits
}

// strikeNearest hits the earliest living enemy.
type strikeNearest struct {
	name string
	base float64
}

func (a strikeNearest) Name() string { return a.name }

func (a strikeNearest) Apply(b *Battle, caster *Entity) {
	for _, i := range SelectTargets(b.Enemies, 1, false, b.rng) {
		b.hitEnemy(a.name, caster, i, a.base*b.allyStrength())
	}
}

// strikeRandom hits a random number of distinct random living enemies.
type strikeRandom struct {
	name       string
	base       float64
	minTargets int
	maxTargets int
	stun       bool
}

func (a strikeRandom) Name() string { return a.name }

func (a strikeRandom) Apply(b *Battle, caster *Entity) {
	n := a.minTargets
	if a.maxTargets > a.minTargets {
		n += b.rng.Intn(a.maxTargets - a.minTargets + 1)
	}
	dmg := a.base * b.allyStrength()
	for _, i := range SelectTargets(b.Enemies, n, true, b.rng) {
		b.hitEnemy(a.name, caster, i, dmg)
		if a.stun {
			b.stun(a.name, i)
		}
	}
}

// rally always buffs the warrior. One draw decides which other allies are in
// reach; the buff only matters through the warrior's flag.
type rally struct {
	name  string
	reach config.RallyReach
}

func (a rally) Name() string { return a.name }

func (a rally) Apply(b *Battle, caster *Entity) {
	b.buff(a.name, Warrior)
	d := b.rng.Float64()
	if d < a.reach.Ranger {
		b.buff(a.name, Ranger)
	}
	if d < a.reach.Mystic {
		b.buff(a.name, Mystic)
	}
	if d < a.reach.Healer {
		b.buff(a.name, Healer)
	}
}

// pulse hits every enemy, living or not, and heals every living ally by the
// same amount.
type pulse struct {
	name   string
	amount float64
}

func (a pulse) Name() string { return a.name }

func (a pulse) Apply(b *Battle, caster *Entity) {
	amount := a.amount * b.allyStrength()
	for i := range b.Enemies {
		b.hitEnemy(a.name, caster, i, amount)
	}
	for _, id := range AllyIDs() {
		b.healAlly(a.name, id, amount)
	}
}

// triage heals the warrior and ranger when the warrior is below threshold,
// striking the nearest enemy on the way in; otherwise it tops up the mystic.
type triage struct {
	name      string
	heal      float64
	contact   float64
	threshold float64
}

func (a triage) Name() string { return a.name }

func (a triage) Apply(b *Battle, caster *Entity) {
	strength := b.allyStrength()
	tank := b.Allies[Warrior]
	if tank.Health < tank.MaxHealth*a.threshold {
		b.healAlly(a.name, Warrior, a.heal*strength)
		b.healAlly(a.name, Ranger, a.heal*strength)
		for _, i := range SelectTargets(b.Enemies, 1, false, b.rng) {
			b.hitEnemy(a.name, caster, i, a.contact*strength)
		}
		return
	}
	b.healAlly(a.name, Mystic, a.heal*strength)
}

// hex strikes one random enemy and weakens its next attack.
type hex struct {
	name string
	base float64
}

func (a hex) Name() string { return a.name }

func (a hex) Apply(b *Battle, caster *Entity) {
	for _, i := range SelectTargets(b.Enemies, 1, true, b.rng) {
		b.hitEnemy(a.name, caster, i, a.base*b.allyStrength())
		b.Enemies[i].Debuffed = true
		b.emit("Debuff", map[string]any{"source": a.name, "target": b.Enemies[i].Name})
	}
}

// ward shields all four allies, fallen ones included.
type ward struct {
	name   string
	amount float64
}

func (a ward) Name() string { return a.name }

func (a ward) Apply(b *Battle, caster *Entity) {
	for _, id := range AllyIDs() {
		b.Allies[id].Shield = a.amount
		b.emit("Shield", map[string]any{"source": a.name, "target": b.Allies[id].Name, "shield": a.amount})
	}
}
