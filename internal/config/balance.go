package config

import (
	"errors"
	"fmt"
)

// Balance holds every tunable number of the encounter. It is treated as an
// immutable value once loaded; the simulator copies what it needs.
type Balance struct {
	MaxTurns       int          `yaml:"max_turns"`
	BuffStrength   float64      `yaml:"buff_strength"`
	DebuffStrength float64      `yaml:"debuff_strength"`
	Allies         AlliesConfig `yaml:"allies"`
	Boss           BossConfig   `yaml:"boss"`
	Policy         PolicyConfig `yaml:"policy"`
	Note           string       `yaml:"note"`
}

type AlliesConfig struct {
	Warrior WarriorDef `yaml:"warrior"`
	Mystic  MysticDef  `yaml:"mystic"`
	Ranger  RangerDef  `yaml:"ranger"`
	Healer  HealerDef  `yaml:"healer"`
}

type HeroDef struct {
	Name  string  `yaml:"name"`
	MaxHP float64 `yaml:"max_hp"`
	Note  string  `yaml:"note"`
}

type WarriorDef struct {
	HeroDef `yaml:",inline"`
	Strike  float64    `yaml:"strike"`
	Cleave  float64    `yaml:"cleave"`
	Rally   RallyReach `yaml:"rally"`
}

// RallyReach is the chance that the warrior's rally also reaches an ally.
// A single draw is compared against every threshold.
type RallyReach struct {
	Ranger float64 `yaml:"ranger"`
	Mystic float64 `yaml:"mystic"`
	Healer float64 `yaml:"healer"`
}

type MysticDef struct {
	HeroDef `yaml:",inline"`
	Shock   float64 `yaml:"shock"`
	Jolt    float64 `yaml:"jolt"`
	Pulse   float64 `yaml:"pulse"`
}

type RangerDef struct {
	HeroDef `yaml:",inline"`
	Volley  float64 `yaml:"volley"`
	Snipe   float64 `yaml:"snipe"`
	Barrage float64 `yaml:"barrage"`
}

type HealerDef struct {
	HeroDef         `yaml:",inline"`
	Heal            float64 `yaml:"heal"`
	Contact         float64 `yaml:"contact"`
	Hex             float64 `yaml:"hex"`
	Shield          float64 `yaml:"shield"`
	TriageThreshold float64 `yaml:"triage_threshold"`
}

// MaxUltimateCharges bounds BossConfig.UltimateCharges. The ultimate has two
// triggers, the opening turn and the first drop below UltimateThreshold, so
// further charges could never be spent.
const MaxUltimateCharges = 2

type BossConfig struct {
	Name              string  `yaml:"name"`
	MaxHP             float64 `yaml:"max_hp"`
	Strike            float64 `yaml:"strike"`
	Ultimate          float64 `yaml:"ultimate"`
	UltimateCharges   int     `yaml:"ultimate_charges"`
	UltimateThreshold float64 `yaml:"ultimate_threshold"`
	CCImmune          bool    `yaml:"cc_immune"`
	Note              string  `yaml:"note"`
}

// PolicyConfig parametrises the scripted ally strategies.
type PolicyConfig struct {
	ShieldBelow float64 `yaml:"shield_below"`
}

// Default returns the shipped balance numbers.
func Default() Balance {
	return Balance{
		MaxTurns:       15,
		BuffStrength:   0.4,
		DebuffStrength: 0.4,
		Allies: AlliesConfig{
			Warrior: WarriorDef{
				HeroDef: HeroDef{Name: "Raoul", MaxHP: 100, Note: "melee tank, party buffer"},
				Strike:  30,
				Cleave:  15,
				Rally:   RallyReach{Ranger: 0.9, Mystic: 0.6, Healer: 0.4},
			},
			Mystic: MysticDef{
				HeroDef: HeroDef{Name: "Taji", MaxHP: 70, Note: "stuns, group heal"},
				Shock:   20,
				Jolt:    20,
				Pulse:   8,
			},
			Ranger: RangerDef{
				HeroDef: HeroDef{Name: "Ember", MaxHP: 80, Note: "ranged damage"},
				Volley:  25,
				Snipe:   50,
				Barrage: 40,
			},
			Healer: HealerDef{
				HeroDef:         HeroDef{Name: "Chia", MaxHP: 80, Note: "heals, debuff, party shield"},
				Heal:            30,
				Contact:         20,
				Hex:             15,
				Shield:          30,
				TriageThreshold: 0.5,
			},
		},
		Boss: BossConfig{
			Name:              "Potato",
			MaxHP:             400,
			Strike:            40,
			Ultimate:          70,
			UltimateCharges:   2,
			UltimateThreshold: 0.5,
			CCImmune:          true,
		},
		Policy: PolicyConfig{ShieldBelow: 200},
	}
}

// Validate reports every inconsistent field at once.
func (b Balance) Validate() error {
	var errs []error
	if b.MaxTurns <= 0 {
		errs = append(errs, fmt.Errorf("max_turns must be positive, got %d", b.MaxTurns))
	}
	if b.BuffStrength < 0 {
		errs = append(errs, fmt.Errorf("buff_strength must not be negative, got %v", b.BuffStrength))
	}
	if b.DebuffStrength < 0 || b.DebuffStrength > 1 {
		errs = append(errs, fmt.Errorf("debuff_strength must be within [0,1], got %v", b.DebuffStrength))
	}
	heroes := map[string]HeroDef{
		"warrior": b.Allies.Warrior.HeroDef,
		"mystic":  b.Allies.Mystic.HeroDef,
		"ranger":  b.Allies.Ranger.HeroDef,
		"healer":  b.Allies.Healer.HeroDef,
	}
	for _, id := range []string{"warrior", "mystic", "ranger", "healer"} {
		if heroes[id].MaxHP <= 0 {
			errs = append(errs, fmt.Errorf("allies.%s.max_hp must be positive, got %v", id, heroes[id].MaxHP))
		}
	}
	r := b.Allies.Warrior.Rally
	for name, p := range map[string]float64{"ranger": r.Ranger, "mystic": r.Mystic, "healer": r.Healer} {
		if p < 0 || p > 1 {
			errs = append(errs, fmt.Errorf("allies.warrior.rally.%s must be within [0,1], got %v", name, p))
		}
	}
	w, m, rg, h := b.Allies.Warrior, b.Allies.Mystic, b.Allies.Ranger, b.Allies.Healer
	amounts := []struct {
		field string
		v     float64
	}{
		{"allies.warrior.strike", w.Strike},
		{"allies.warrior.cleave", w.Cleave},
		{"allies.mystic.shock", m.Shock},
		{"allies.mystic.jolt", m.Jolt},
		{"allies.mystic.pulse", m.Pulse},
		{"allies.ranger.volley", rg.Volley},
		{"allies.ranger.snipe", rg.Snipe},
		{"allies.ranger.barrage", rg.Barrage},
		{"allies.healer.heal", h.Heal},
		{"allies.healer.contact", h.Contact},
		{"allies.healer.hex", h.Hex},
		{"allies.healer.shield", h.Shield},
		{"boss.strike", b.Boss.Strike},
		{"boss.ultimate", b.Boss.Ultimate},
	}
	for _, a := range amounts {
		if a.v < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %v", a.field, a.v))
		}
	}
	if t := b.Allies.Healer.TriageThreshold; t < 0 || t > 1 {
		errs = append(errs, fmt.Errorf("allies.healer.triage_threshold must be within [0,1], got %v", t))
	}
	if b.Boss.MaxHP <= 0 {
		errs = append(errs, fmt.Errorf("boss.max_hp must be positive, got %v", b.Boss.MaxHP))
	}
	if c := b.Boss.UltimateCharges; c < 0 || c > MaxUltimateCharges {
		errs = append(errs, fmt.Errorf("boss.ultimate_charges must be within [0,%d], got %d", MaxUltimateCharges, c))
	}
	if t := b.Boss.UltimateThreshold; t < 0 || t > 1 {
		errs = append(errs, fmt.Errorf("boss.ultimate_threshold must be within [0,1], got %v", t))
	}
	return errors.Join(errs...)
}
