// Package batch repeats independent simulations and aggregates their
// outcomes.
package batch

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bossbalance/internal/combat"
	"bossbalance/internal/util"
)

const DefaultRuns = 1000

type RunOutcome struct {
	Outcome  combat.Outcome `json:"outcome"`
	Turn     int            `json:"turn"`
	TimedOut bool           `json:"timed_out,omitempty"`
}

type Summary struct {
	Policy        string           `json:"policy"`
	Runs          int              `json:"runs"`
	Wins          int              `json:"wins"`
	Losses        int              `json:"losses"`
	Timeouts      int              `json:"timeouts"`
	WinRate       float64          `json:"win_rate"`
	MeanTurn      float64          `json:"mean_turn"`
	MeanWinTurn   float64          `json:"mean_win_turn"`
	TurnHistogram []int            `json:"turn_histogram"`
	AbilityUsage  map[string][]int `json:"ability_usage"`
	UltimatesUsed int              `json:"ultimates_used"`
	Outcomes      []RunOutcome     `json:"outcomes,omitempty"`
}

// Runner fans runs out over Workers goroutines. Run i always draws from a
// generator seeded with util.RunSeed(Seed, i), so a summary depends on Seed
// and n only.
type Runner struct {
	Sim     *combat.Simulator
	Workers int
	Seed    int64
	Logger  *zap.Logger
}

func (r *Runner) workers() int {
	if r.Workers > 0 {
		return r.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return zap.NewNop()
}

func (r *Runner) Run(ctx context.Context, n int, policy combat.Policy) (Summary, error) {
	if n <= 0 {
		return Summary{}, fmt.Errorf("batch needs at least one run, got %d", n)
	}
	results := make([]combat.SimResult, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers())
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := r.Sim.Run(gctx, util.New(util.RunSeed(r.Seed, i)), policy)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}

	sum := Aggregate(policy.Name(), r.Sim.MaxTurns(), results)
	r.logger().Info("batch finished",
		zap.String("policy", sum.Policy),
		zap.Int("runs", sum.Runs),
		zap.Int("wins", sum.Wins),
		zap.Float64("win_rate", sum.WinRate),
		zap.Float64("mean_turn", sum.MeanTurn),
	)
	return sum, nil
}

// Aggregate folds finished runs, in run order, into a Summary.
func Aggregate(policy string, maxTurns int, results []combat.SimResult) Summary {
	sum := Summary{
		Policy:        policy,
		Runs:          len(results),
		TurnHistogram: make([]int, maxTurns+1),
		AbilityUsage:  map[string][]int{},
		Outcomes:      make([]RunOutcome, 0, len(results)),
	}
	actors := make([]string, 0, 5)
	for _, id := range combat.AllyIDs() {
		actors = append(actors, id.String())
	}
	actors = append(actors, "boss")
	for _, name := range actors {
		sum.AbilityUsage[name] = make([]int, 3)
	}

	turnTotal, winTurnTotal := 0, 0
	for _, res := range results {
		switch {
		case res.Outcome == combat.Win:
			sum.Wins++
			winTurnTotal += res.Turn
		case res.TimedOut:
			sum.Losses++
			sum.Timeouts++
		default:
			sum.Losses++
		}
		turnTotal += res.Turn
		if res.Turn >= 0 && res.Turn < len(sum.TurnHistogram) {
			sum.TurnHistogram[res.Turn]++
		}
		sum.UltimatesUsed += res.UltimatesUsed
		if res.History != nil {
			for actor, row := range res.History.Abilities {
				usage := sum.AbilityUsage[actors[actor]]
				for _, idx := range row {
					if idx >= 1 && idx <= len(usage) {
						usage[idx-1]++
					}
				}
			}
		}
		sum.Outcomes = append(sum.Outcomes, RunOutcome{Outcome: res.Outcome, Turn: res.Turn, TimedOut: res.TimedOut})
	}
	if sum.Runs > 0 {
		sum.WinRate = float64(sum.Wins) / float64(sum.Runs)
		sum.MeanTurn = float64(turnTotal) / float64(sum.Runs)
	}
	if sum.Wins > 0 {
		sum.MeanWinTurn = float64(winTurnTotal) / float64(sum.Wins)
	}
	return sum
}
