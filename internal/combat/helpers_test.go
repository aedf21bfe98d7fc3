package combat

import (
	"math"
	"math/rand"
	"testing"

	"bossbalance/internal/config"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func newTestBattle(t *testing.T, seed int64) *Battle {
	t.Helper()
	return NewBattle(config.Default(), rand.New(rand.NewSource(seed)), true)
}

func allyAbility(t *testing.T, id AllyID, idx AbilityIndex) Ability {
	t.Helper()
	kits := NewAllyKits(config.Default())
	ab, err := kits[id].Ability(idx)
	if err != nil {
		t.Fatalf("ability %s/%d: %v", id, idx, err)
	}
	return ab
}

func constPolicy(idx AbilityIndex) Policy {
	return PolicyFunc(func(Decision, *rand.Rand) AbilityIndex { return idx })
}
