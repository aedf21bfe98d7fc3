package combat

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"bossbalance/internal/config"
)

// NewParty builds a full-health roster from the balance.
func NewParty(bal config.Balance) Roster {
	a := bal.Allies
	var r Roster
	r[Warrior] = NewEntity(a.Warrior.Name, a.Warrior.MaxHP)
	r[Mystic] = NewEntity(a.Mystic.Name, a.Mystic.MaxHP)
	r[Ranger] = NewEntity(a.Ranger.Name, a.Ranger.MaxHP)
	r[Healer] = NewEntity(a.Healer.Name, a.Healer.MaxHP)
	for _, id := range AllyIDs() {
		if r[id].Name == "" {
			r[id].Name = id.String()
		}
	}
	return r
}

// NewBoss builds the enemy group: a single boss at full health.
func NewBoss(cfg config.BossConfig) []*Entity {
	name := cfg.Name
	if name == "" {
		name = "boss"
	}
	boss := NewEntity(name, cfg.MaxHP)
	boss.CCImmune = cfg.CCImmune
	return []*Entity{boss}
}

// ally policies

// Decision is what a policy may look at when picking an ally's ability.
type Decision struct {
	Ally          AllyID
	Turn          int
	EnemyHealth   float64
	UltimatesLeft int
}

type Policy interface {
	Name() string
	Choose(d Decision, rng *rand.Rand) AbilityIndex
}

var ErrUnknownPolicy = errors.New("unknown policy")

// PolicyNames lists the names accepted by PolicyByName.
func PolicyNames() []string { return []string{"random", "scripted", "heuristic"} }

func PolicyByName(name string, bal config.Balance) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "random":
		return RandomPolicy{}, nil
	case "scripted":
		return ScriptedPolicy{ShieldBelow: bal.Policy.ShieldBelow}, nil
	case "heuristic", "super-scripted":
		return HeuristicPolicy{ShieldBelow: bal.Policy.ShieldBelow}, nil
	}
	return nil, fmt.Errorf("%w %q (want one of %s)", ErrUnknownPolicy, name, strings.Join(PolicyNames(), ", "))
}

// PolicyFunc adapts a plain function to Policy.
type PolicyFunc func(d Decision, rng *rand.Rand) AbilityIndex

func (f PolicyFunc) Name() string                                   { return "func" }
func (f PolicyFunc) Choose(d Decision, rng *rand.Rand) AbilityIndex { return f(d, rng) }

func rollAbility(rng *rand.Rand, lo, hi int) AbilityIndex {
	return AbilityIndex(lo + rng.Intn(hi-lo+1))
}

type RandomPolicy struct{}

func (RandomPolicy) Name() string { return "random" }

func (RandomPolicy) Choose(_ Decision, rng *rand.Rand) AbilityIndex {
	return rollAbility(rng, 1, 3)
}

// ScriptedPolicy is random except that the healer shields the party on the
// opening turn and whenever the boss is low enough to fire its ultimate.
type ScriptedPolicy struct {
	ShieldBelow float64
}

func (ScriptedPolicy) Name() string { return "scripted" }

func (p ScriptedPolicy) Choose(d Decision, rng *rand.Rand) AbilityIndex {
	idx := rollAbility(rng, 1, 3)
	if d.Ally == Healer && shieldTurn(d, p.ShieldBelow) {
		return 3
	}
	return idx
}

func shieldTurn(d Decision, below float64) bool {
	return d.Turn == 0 || (d.EnemyHealth < below && d.UltimatesLeft > 0)
}

// HeuristicPolicy plays defensively while the boss holds ultimate charges and
// switches to damage once they are spent.
type HeuristicPolicy struct {
	ShieldBelow float64
}

func (HeuristicPolicy) Name() string { return "heuristic" }

func (p HeuristicPolicy) Choose(d Decision, rng *rand.Rand) AbilityIndex {
	charged := d.UltimatesLeft > 0
	switch d.Ally {
	case Warrior:
		if charged {
			return rollAbility(rng, 2, 3)
		}
		return rollAbility(rng, 1, 3)
	case Mystic:
		if charged {
			return 3
		}
		return rollAbility(rng, 1, 3)
	case Ranger:
		if charged {
			return 1
		}
		return 2
	case Healer:
		if shieldTurn(d, p.ShieldBelow) {
			return 3
		}
		return 1
	}
	return rollAbility(rng, 1, 3)
}
