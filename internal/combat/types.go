package combat

import "fmt"

type Event struct {
	Turn    int            `json:"turn"`
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

type Entity struct {
	Name      string
	Health    float64
	MaxHealth float64
	Shield    float64

	Buffed   bool
	Debuffed bool
	Stunned  bool // set by some abilities, never gates a turn
	CCImmune bool
}

func NewEntity(name string, maxHealth float64) *Entity {
	return &Entity{Name: name, Health: maxHealth, MaxHealth: maxHealth}
}

func (e *Entity) Alive() bool { return e.Health > 0 }

// AllyID names a roster slot. Allies act in ascending order.
type AllyID int

const (
	Warrior AllyID = iota
	Mystic
	Ranger
	Healer
)

const allyCount = 4

// ActorBoss is the row of the boss in per-actor tables such as History.Abilities.
const (
	ActorBoss  = allyCount
	actorCount = allyCount + 1
)

func (id AllyID) String() string {
	switch id {
	case Warrior:
		return "warrior"
	case Mystic:
		return "mystic"
	case Ranger:
		return "ranger"
	case Healer:
		return "healer"
	}
	return fmt.Sprintf("ally(%d)", int(id))
}

// AllyIDs lists the roster in acting order.
func AllyIDs() []AllyID { return []AllyID{Warrior, Mystic, Ranger, Healer} }

type Roster [allyCount]*Entity

func (r *Roster) Group() []*Entity { return r[:] }

// TotalHealth is the sum used by the defeat check.
func (r *Roster) TotalHealth() float64 {
	total := 0.0
	for _, e := range r {
		total += e.Health
	}
	return total
}

type Outcome int

const (
	Loss Outcome = iota
	Win
)

func (o Outcome) String() string {
	if o == Win {
		return "win"
	}
	return "loss"
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *Outcome) UnmarshalText(b []byte) error {
	switch string(b) {
	case "win":
		*o = Win
	case "loss":
		*o = Loss
	default:
		return fmt.Errorf("unknown outcome %q", b)
	}
	return nil
}
