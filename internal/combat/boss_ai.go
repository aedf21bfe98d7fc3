package combat

import "bossbalance/internal/config"

const (
	BossStrike   AbilityIndex = 1
	BossUltimate AbilityIndex = 2
)

func NewBossKit(cfg config.BossConfig) Kit {
	return Kit{Owner: "boss", Abilities: []Ability{
		bossStrike{name: "boss.strike", base: cfg.Strike},
		bossUltimate{name: "boss.ultimate", amount: cfg.Ultimate},
	}}
}

// bossStrike hits the earliest living ally; a debuff weakens it.
type bossStrike struct {
	name string
	base float64
}

func (a bossStrike) Name() string { return a.name }

func (a bossStrike) Apply(b *Battle, caster *Entity) {
	dmg := a.base * b.bossStrength(caster)
	for _, i := range SelectTargets(b.Allies.Group(), 1, false, b.rng) {
		b.damageAlly(a.name, AllyID(i), dmg)
	}
}

// bossUltimate hits all four allies for a flat amount, fallen ones included.
type bossUltimate struct {
	name   string
	amount float64
}

func (a bossUltimate) Name() string { return a.name }

func (a bossUltimate) Apply(b *Battle, caster *Entity) {
	for _, id := range AllyIDs() {
		b.damageAlly(a.name, id, a.amount)
	}
}
