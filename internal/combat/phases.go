package combat

import (
	"context"

	"github.com/looplab/fsm"
	"go.uber.org/zap"
)

const (
	PhaseTurnStart    = "turn_start"
	PhaseAlliesAct    = "allies_act"
	PhaseVictoryCheck = "victory_check"
	PhaseEnemyActs    = "enemy_acts"
	PhaseCleanup      = "cleanup"
	PhaseDefeatCheck  = "defeat_check"
	PhaseWon          = "won"
	PhaseLost         = "lost"
	PhaseExhausted    = "exhausted"
)

const (
	evAllies  = "allies"
	evResolve = "resolve"
	evWin     = "win"
	evBoss    = "boss"
	evCleanup = "cleanup"
	evTally   = "tally"
	evLose    = "lose"
	evNext    = "next"
	evExhaust = "exhaust"
)

// turnMachine drives the resolution loop: Run does the work of the current
// phase, then fires the event that leaves it. The fight ends in one of the
// terminal phases.
type turnMachine struct {
	f *fsm.FSM
}

func newTurnMachine(logger *zap.Logger) *turnMachine {
	callbacks := fsm.Callbacks{}
	if logger.Core().Enabled(zap.DebugLevel) {
		callbacks["enter_state"] = func(_ context.Context, e *fsm.Event) {
			logger.Debug("phase", zap.String("from", e.Src), zap.String("to", e.Dst))
		}
	}
	return &turnMachine{f: fsm.NewFSM(
		PhaseTurnStart,
		fsm.Events{
			{Name: evAllies, Src: []string{PhaseTurnStart}, Dst: PhaseAlliesAct},
			{Name: evResolve, Src: []string{PhaseAlliesAct}, Dst: PhaseVictoryCheck},
			{Name: evWin, Src: []string{PhaseVictoryCheck}, Dst: PhaseWon},
			{Name: evBoss, Src: []string{PhaseVictoryCheck}, Dst: PhaseEnemyActs},
			{Name: evCleanup, Src: []string{PhaseEnemyActs}, Dst: PhaseCleanup},
			{Name: evTally, Src: []string{PhaseCleanup}, Dst: PhaseDefeatCheck},
			{Name: evLose, Src: []string{PhaseDefeatCheck}, Dst: PhaseLost},
			{Name: evNext, Src: []string{PhaseDefeatCheck}, Dst: PhaseTurnStart},
			{Name: evExhaust, Src: []string{PhaseDefeatCheck}, Dst: PhaseExhausted},
		},
		callbacks,
	)}
}

func (m *turnMachine) fire(ctx context.Context, event string) error {
	return m.f.Event(ctx, event)
}

func (m *turnMachine) Current() string { return m.f.Current() }

// Terminal reports whether the fight is over.
func (m *turnMachine) Terminal() bool {
	switch m.f.Current() {
	case PhaseWon, PhaseLost, PhaseExhausted:
		return true
	}
	return false
}
