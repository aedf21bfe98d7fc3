package combat

import (
	"fmt"

	"bossbalance/internal/config"
)

// BossController decides the boss's action each turn. The ultimate opens the
// fight and answers the first drop below the health threshold, as long as
// charges remain.
type BossController struct {
	kit     Kit
	charges int
	used    int
	gate    *HealthGate
}

func NewBossController(kit Kit, cfg config.BossConfig) *BossController {
	return &BossController{
		kit:     kit,
		charges: cfg.UltimateCharges,
		gate:    NewHealthGate(cfg.UltimateThreshold),
	}
}

// Charges is the number of ultimates left.
func (bc *BossController) Charges() int { return bc.charges }

// Used is the number of ultimates fired so far.
func (bc *BossController) Used() int { return bc.used }

// ThresholdCrossed reports whether the boss has already dropped below its
// ultimate threshold once.
func (bc *BossController) ThresholdCrossed() bool { return bc.gate.Crossed() }

// Choose picks the ability for this turn. The health gate is ticked on every
// call so the crossing is consumed even when no charge is left.
func (bc *BossController) Choose(turn int, boss *Entity) AbilityIndex {
	firstBelow := bc.gate.Tick(boss)
	if bc.charges > 0 && (turn == 0 || firstBelow) {
		return BossUltimate
	}
	return BossStrike
}

// Act resolves the boss's turn and returns the ability it used.
func (bc *BossController) Act(b *Battle, boss *Entity) (AbilityIndex, error) {
	idx := bc.Choose(b.Turn, boss)
	ab, err := bc.kit.Ability(idx)
	if err != nil {
		return 0, fmt.Errorf("boss turn %d: %w", b.Turn, err)
	}
	if idx == BossUltimate {
		bc.charges--
		bc.used++
	}
	b.emit("BossCast", map[string]any{
		"caster": boss.Name, "ability": ab.Name(), "index": int(idx), "charges": bc.charges,
	})
	b.cast(ab, boss)
	return idx, nil
}
