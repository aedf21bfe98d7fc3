package combat

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"bossbalance/internal/config"
)

type SimResult struct {
	Outcome       Outcome  `json:"outcome"`
	Turn          int      `json:"turn"`
	TimedOut      bool     `json:"timed_out"`
	UltimatesUsed int      `json:"ultimates_used"`
	History       *History `json:"history"`
	Events        []Event  `json:"events,omitempty"`
	Meta          SimMeta  `json:"meta"`
}

func (r SimResult) Win() bool { return r.Outcome == Win }

type SimMeta struct {
	Boss     SimBossMeta   `json:"boss"`
	Heroes   []SimHeroMeta `json:"heroes"`
	MaxTurns int           `json:"max_turns"`
	Policy   string        `json:"policy"`
}

type SimBossMeta struct {
	Name            string  `json:"name"`
	MaxHP           float64 `json:"max_hp"`
	UltimateCharges int     `json:"ultimate_charges"`
	Note            string  `json:"note,omitempty"`
}

type SimHeroMeta struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	MaxHP     float64  `json:"max_hp"`
	Abilities []string `json:"abilities"`
	Note      string   `json:"note,omitempty"`
}

// History is the per-turn record handed to reporting. Health is sampled at
// the start of each turn; Abilities holds the 1-based index used by each
// actor (allies in roster order, then the boss) and 0 where nobody acted.
type History struct {
	Allies    [allyCount][]float64 `json:"allies"`
	Enemies   [][]float64          `json:"enemies"`
	Abilities [actorCount][]int    `json:"abilities"`
}

func newHistory(turns, enemies int) *History {
	h := &History{Enemies: make([][]float64, enemies)}
	for i := range h.Allies {
		h.Allies[i] = make([]float64, turns)
	}
	for i := range h.Enemies {
		h.Enemies[i] = make([]float64, turns)
	}
	for i := range h.Abilities {
		h.Abilities[i] = make([]int, turns)
	}
	return h
}

func (h *History) snapshot(turn int, b *Battle) {
	for i, a := range b.Allies {
		h.Allies[i][turn] = a.Health
	}
	for i, e := range b.Enemies {
		h.Enemies[i][turn] = e.Health
	}
}

// backfillAllies repeats the final ally health over the unplayed turns.
func (h *History) backfillAllies(from int, b *Battle) {
	for i, a := range b.Allies {
		for t := from; t < len(h.Allies[i]); t++ {
			h.Allies[i][t] = a.Health
		}
	}
}

// backfillEnemies repeats the final enemy health over the unplayed turns.
func (h *History) backfillEnemies(from int, b *Battle) {
	for i, e := range b.Enemies {
		for t := from; t < len(h.Enemies[i]); t++ {
			h.Enemies[i][t] = e.Health
		}
	}
}

// Simulator runs single fights under one balance. It holds no per-run state
// and is safe for concurrent use.
type Simulator struct {
	bal     config.Balance
	kits    [allyCount]Kit
	bossKit Kit
	logger  *zap.Logger
	record  bool
}

type Option func(*Simulator)

func WithLogger(l *zap.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEvents makes every run keep its full event log.
func WithEvents(on bool) Option {
	return func(s *Simulator) { s.record = on }
}

func NewSimulator(bal config.Balance, opts ...Option) *Simulator {
	s := &Simulator{
		bal:     bal,
		kits:    NewAllyKits(bal),
		bossKit: NewBossKit(bal.Boss),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) Balance() config.Balance { return s.bal }

func (s *Simulator) MaxTurns() int { return s.bal.MaxTurns }

func (s *Simulator) meta(policy Policy) SimMeta {
	m := SimMeta{
		Boss: SimBossMeta{
			Name:            s.bal.Boss.Name,
			MaxHP:           s.bal.Boss.MaxHP,
			UltimateCharges: s.bal.Boss.UltimateCharges,
			Note:            s.bal.Boss.Note,
		},
		MaxTurns: s.bal.MaxTurns,
		Policy:   policy.Name(),
	}
	a := s.bal.Allies
	defs := [allyCount]config.HeroDef{a.Warrior.HeroDef, a.Mystic.HeroDef, a.Ranger.HeroDef, a.Healer.HeroDef}
	for _, id := range AllyIDs() {
		names := make([]string, len(s.kits[id].Abilities))
		for i, ab := range s.kits[id].Abilities {
			names[i] = ab.Name()
		}
		m.Heroes = append(m.Heroes, SimHeroMeta{
			ID:        id.String(),
			Name:      defs[id].Name,
			MaxHP:     defs[id].MaxHP,
			Abilities: names,
			Note:      defs[id].Note,
		})
	}
	return m
}

// Run plays one fight to the end. The result is a loss unless the boss falls
// within MaxTurns. The only error is a policy choosing an index outside its
// ally's kit.
func (s *Simulator) Run(ctx context.Context, rng *rand.Rand, policy Policy) (SimResult, error) {
	maxTurns := s.bal.MaxTurns
	if maxTurns <= 0 {
		return SimResult{}, fmt.Errorf("max turns must be positive, got %d", maxTurns)
	}
	b := NewBattle(s.bal, rng, s.record)
	boss := NewBossController(s.bossKit, s.bal.Boss)
	hist := newHistory(maxTurns, len(b.Enemies))
	tm := newTurnMachine(s.logger)

	for !tm.Terminal() {
		var event string
		switch phase := tm.Current(); phase {
		case PhaseTurnStart:
			hist.snapshot(b.Turn, b)
			b.emit("TurnStart", map[string]any{"boss_hp": b.bossHealth(), "party_hp": b.Allies.TotalHealth()})
			event = evAllies

		case PhaseAlliesAct:
			if err := s.alliesAct(b, policy, boss, hist); err != nil {
				return SimResult{}, err
			}
			event = evResolve

		case PhaseVictoryCheck:
			if b.enemiesDefeated() {
				hist.backfillAllies(b.Turn, b)
				b.emit("Victory", nil)
				event = evWin
				break
			}
			event = evBoss

		case PhaseEnemyActs:
			if lead := b.Enemies[0]; lead.Alive() {
				idx, err := boss.Act(b, lead)
				if err != nil {
					return SimResult{}, err
				}
				hist.Abilities[ActorBoss][b.Turn] = int(idx)
			}
			event = evCleanup

		case PhaseCleanup:
			b.cleanup()
			s.logger.Debug("turn resolved",
				zap.Int("turn", b.Turn),
				zap.Float64("boss_hp", b.bossHealth()),
				zap.Float64("party_hp", b.Allies.TotalHealth()),
				zap.Int("ultimates_left", boss.Charges()),
				zap.Bool("threshold_crossed", boss.ThresholdCrossed()),
			)
			event = evTally

		case PhaseDefeatCheck:
			switch {
			case b.partyDefeated():
				hist.backfillEnemies(b.Turn, b)
				b.emit("Defeat", nil)
				event = evLose
			case b.Turn == maxTurns-1:
				b.emit("Timeout", nil)
				event = evExhaust
			default:
				b.Turn++
				event = evNext
			}

		default:
			return SimResult{}, fmt.Errorf("turn %d: unhandled phase %q", b.Turn, phase)
		}

		if err := tm.fire(ctx, event); err != nil {
			return SimResult{}, fmt.Errorf("turn %d: %s: %w", b.Turn, event, err)
		}
	}

	res, err := resultFor(tm.Current(), b.Turn, maxTurns)
	if err != nil {
		return SimResult{}, err
	}
	res.UltimatesUsed = boss.Used()
	res.History = hist
	res.Meta = s.meta(policy)
	if s.record {
		res.Events = b.Events()
	}
	s.logger.Debug("simulation finished",
		zap.Stringer("outcome", res.Outcome),
		zap.Int("turn", res.Turn),
		zap.Bool("timed_out", res.TimedOut),
		zap.String("phase", tm.Current()),
	)
	return res, nil
}

// resultFor maps the phase a fight ended in to its outcome.
func resultFor(phase string, turn, maxTurns int) (SimResult, error) {
	switch phase {
	case PhaseWon:
		return SimResult{Outcome: Win, Turn: turn}, nil
	case PhaseLost:
		return SimResult{Outcome: Loss, Turn: turn}, nil
	case PhaseExhausted:
		return SimResult{Outcome: Loss, Turn: maxTurns, TimedOut: true}, nil
	}
	return SimResult{}, fmt.Errorf("fight ended in non-terminal phase %q", phase)
}

func (s *Simulator) alliesAct(b *Battle, policy Policy, boss *BossController, hist *History) error {
	for _, id := range AllyIDs() {
		ally := b.Allies[id]
		if !ally.Alive() {
			continue
		}
		idx := policy.Choose(Decision{
			Ally:          id,
			Turn:          b.Turn,
			EnemyHealth:   b.bossHealth(),
			UltimatesLeft: boss.Charges(),
		}, b.rng)
		ab, err := s.kits[id].Ability(idx)
		if err != nil {
			return fmt.Errorf("%s policy, turn %d: %w", policy.Name(), b.Turn, err)
		}
		b.emit("Cast", map[string]any{"caster": ally.Name, "ability": ab.Name(), "index": int(idx)})
		b.cast(ab, ally)
		hist.Abilities[id][b.Turn] = int(idx)
	}
	return nil
}

func MarshalPretty(v any) []byte {
	b, _ := json.MarshalIndent(v, "", "  ")
	return b
}
