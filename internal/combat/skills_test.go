package combat

import (
	"errors"
	"testing"

	"bossbalance/internal/config"
)

func TestKitAbilityIndexBounds(t *testing.T) {
	kits := NewAllyKits(config.Default())
	for _, id := range AllyIDs() {
		for _, idx := range []AbilityIndex{1, 2, 3} {
			if _, err := kits[id].Ability(idx); err != nil {
				t.Fatalf("%s ability %d: %v", id, idx, err)
			}
		}
		for _, idx := range []AbilityIndex{-1, 0, 4} {
			if _, err := kits[id].Ability(idx); !errors.Is(err, ErrInvalidAbility) {
				t.Fatalf("%s ability %d: want ErrInvalidAbility, got %v", id, idx, err)
			}
		}
	}
	boss := NewBossKit(config.Default().Boss)
	if _, err := boss.Ability(3); !errors.Is(err, ErrInvalidAbility) {
		t.Fatalf("boss ability 3: want ErrInvalidAbility, got %v", err)
	}
}

func TestAllyAbilities(t *testing.T) {
	cases := []struct {
		name   string
		caster AllyID
		idx    AbilityIndex
		setup  func(b *Battle)
		check  func(t *testing.T, b *Battle)
	}{
		{
			name: "warrior strike unbuffed", caster: Warrior, idx: 1,
			check: func(t *testing.T, b *Battle) {
				if !approx(b.Enemies[0].Health, 370) {
					t.Fatalf("boss hp = %v, want 370", b.Enemies[0].Health)
				}
			},
		},
		{
			name: "warrior strike buffed", caster: Warrior, idx: 1,
			setup: func(b *Battle) { b.Allies[Warrior].Buffed = true },
			check: func(t *testing.T, b *Battle) {
				if !approx(b.Enemies[0].Health, 358) {
					t.Fatalf("boss hp = %v, want 358", b.Enemies[0].Health)
				}
			},
		},
		{
			name: "another ally's buff does not scale damage", caster: Ranger, idx: 2,
			setup: func(b *Battle) { b.Allies[Ranger].Buffed = true },
			check: func(t *testing.T, b *Battle) {
				if !approx(b.Enemies[0].Health, 350) {
					t.Fatalf("boss hp = %v, want 350", b.Enemies[0].Health)
				}
			},
		},
		{
			name: "warrior rally buffs self", caster: Warrior, idx: 2,
			check: func(t *testing.T, b *Battle) {
				if !b.Allies[Warrior].Buffed {
					t.Fatalf("warrior not buffed")
				}
				if b.Enemies[0].Health != 400 {
					t.Fatalf("rally should not deal damage")
				}
			},
		},
		{
			name: "warrior cleave hits the lone boss once", caster: Warrior, idx: 3,
			check: func(t *testing.T, b *Battle) {
				if !approx(b.Enemies[0].Health, 385) {
					t.Fatalf("boss hp = %v, want 385", b.Enemies[0].Health)
				}
			},
		},
		{
			name: "mystic shock cannot stun a cc immune boss", caster: Mystic, idx: 1,
			check: func(t *testing.T, b *Battle) {
				if !approx(b.Enemies[0].Health, 380) {
					t.Fatalf("boss hp = %v, want 380", b.Enemies[0].Health)
				}
				if b.Enemies[0].Stunned {
					t.Fatalf("cc immune boss was stunned")
				}
			},
		},
		{
			name: "mystic jolt stuns a vulnerable target", caster: Mystic, idx: 2,
			setup: func(b *Battle) { b.Enemies[0].CCImmune = false },
			check: func(t *testing.T, b *Battle) {
				if !approx(b.Enemies[0].Health, 380) || !b.Enemies[0].Stunned {
					t.Fatalf("boss = %+v, want hp 380 and stunned", b.Enemies[0])
				}
			},
		},
		{
			name: "mystic shock stuns every struck target", caster: Mystic, idx: 1,
			setup: func(b *Battle) {
				b.Enemies[0].CCImmune = false
				b.Enemies = append(b.Enemies, NewEntity("add1", 100), NewEntity("add2", 100))
			},
			check: func(t *testing.T, b *Battle) {
				struck := 0
				for _, e := range b.Enemies {
					if e.Health < e.MaxHealth {
						struck++
						if !e.Stunned {
							t.Fatalf("%s struck but not stunned", e.Name)
						}
					} else if e.Stunned {
						t.Fatalf("%s stunned without being struck", e.Name)
					}
				}
				if struck < 2 || struck > 3 {
					t.Fatalf("shock struck %d targets, want 2-3", struck)
				}
			},
		},
		{
			name: "mystic pulse hits fallen enemies and heals living allies", caster: Mystic, idx: 3,
			setup: func(b *Battle) {
				fallen := NewEntity("fallen", 100)
				fallen.Health = 0
				b.Enemies = append(b.Enemies, fallen)
				b.Allies[Warrior].Health = 50
				b.Allies[Ranger].Health = 0
				b.Allies[Healer].Health = 76
			},
			check: func(t *testing.T, b *Battle) {
				if !approx(b.Enemies[0].Health, 392) {
					t.Fatalf("boss hp = %v, want 392", b.Enemies[0].Health)
				}
				if b.Enemies[1].Health != 0 {
					t.Fatalf("fallen enemy hp = %v, want 0", b.Enemies[1].Health)
				}
				if !approx(b.Allies[Warrior].Health, 58) {
					t.Fatalf("warrior hp = %v, want 58", b.Allies[Warrior].Health)
				}
				if b.Allies[Ranger].Health != 0 {
					t.Fatalf("fallen ranger healed to %v", b.Allies[Ranger].Health)
				}
				if b.Allies[Healer].Health != 80 {
					t.Fatalf("healer hp = %v, want capped 80", b.Allies[Healer].Health)
				}
			},
		},
		{
			name: "ranger volley", caster: Ranger, idx: 1,
			check: func(t *testing.T, b *Battle) {
				if !approx(b.Enemies[0].Health, 375) {
					t.Fatalf("boss hp = %v, want 375", b.Enemies[0].Health)
				}
			},
		},
		{
			name: "ranger barrage", caster: Ranger, idx: 3,
			check: func(t *testing.T, b *Battle) {
				if !approx(b.Enemies[0].Health, 360) {
					t.Fatalf("boss hp = %v, want 360", b.Enemies[0].Health)
				}
			},
		},
		{
			name: "healer triage with a wounded tank", caster: Healer, idx: 1,
			setup: func(b *Battle) {
				b.Allies[Warrior].Health = 40
				b.Allies[Ranger].Health = 60
				b.Allies[Mystic].Health = 10
			},
			check: func(t *testing.T, b *Battle) {
				if !approx(b.Allies[Warrior].Health, 70) || !approx(b.Allies[Ranger].Health, 80) {
					t.Fatalf("warrior/ranger = %v/%v, want 70/80", b.Allies[Warrior].Health, b.Allies[Ranger].Health)
				}
				if b.Allies[Mystic].Health != 10 {
					t.Fatalf("mystic should not be healed, hp %v", b.Allies[Mystic].Health)
				}
				if !approx(b.Enemies[0].Health, 380) {
					t.Fatalf("contact hit missing, boss hp %v", b.Enemies[0].Health)
				}
			},
		},
		{
			name: "healer triage with a healthy tank", caster: Healer, idx: 1,
			setup: func(b *Battle) { b.Allies[Mystic].Health = 30 },
			check: func(t *testing.T, b *Battle) {
				if !approx(b.Allies[Mystic].Health, 60) {
					t.Fatalf("mystic hp = %v, want 60", b.Allies[Mystic].Health)
				}
				if b.Enemies[0].Health != 400 {
					t.Fatalf("boss should not be hit, hp %v", b.Enemies[0].Health)
				}
			},
		},
		{
			name: "healer triage skips a fallen tank but keeps going", caster: Healer, idx: 1,
			setup: func(b *Battle) {
				b.Allies[Warrior].Health = 0
				b.Allies[Ranger].Health = 20
			},
			check: func(t *testing.T, b *Battle) {
				if b.Allies[Warrior].Health != 0 {
					t.Fatalf("fallen warrior healed")
				}
				if !approx(b.Allies[Ranger].Health, 50) || !approx(b.Enemies[0].Health, 380) {
					t.Fatalf("ranger %v boss %v, want 50/380", b.Allies[Ranger].Health, b.Enemies[0].Health)
				}
			},
		},
		{
			name: "healer hex debuffs", caster: Healer, idx: 2,
			check: func(t *testing.T, b *Battle) {
				if !approx(b.Enemies[0].Health, 385) || !b.Enemies[0].Debuffed {
					t.Fatalf("boss = %+v, want hp 385 and debuffed", b.Enemies[0])
				}
			},
		},
		{
			name: "healer ward shields everyone including the fallen", caster: Healer, idx: 3,
			setup: func(b *Battle) { b.Allies[Mystic].Health = 0 },
			check: func(t *testing.T, b *Battle) {
				for _, id := range AllyIDs() {
					if b.Allies[id].Shield != 30 {
						t.Fatalf("%s shield = %v, want 30", id, b.Allies[id].Shield)
					}
				}
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := newTestBattle(t, 1)
			if tc.setup != nil {
				tc.setup(b)
			}
			b.cast(allyAbility(t, tc.caster, tc.idx), b.Allies[tc.caster])
			tc.check(t, b)
		})
	}
}

func TestRallyReach(t *testing.T) {
	cases := []struct {
		name  string
		reach config.RallyReach
		want  [allyCount]bool
	}{
		{name: "nobody in reach", reach: config.RallyReach{}, want: [allyCount]bool{Warrior: true}},
		{name: "everyone in reach", reach: config.RallyReach{Ranger: 1, Mystic: 1, Healer: 1}, want: [allyCount]bool{true, true, true, true}},
		{name: "ranger only", reach: config.RallyReach{Ranger: 1}, want: [allyCount]bool{Warrior: true, Ranger: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := newTestBattle(t, 9)
			b.cast(rally{name: "rally", reach: tc.reach}, b.Allies[Warrior])
			for _, id := range AllyIDs() {
				if b.Allies[id].Buffed != tc.want[id] {
					t.Fatalf("%s buffed = %v, want %v", id, b.Allies[id].Buffed, tc.want[id])
				}
			}
		})
	}
}

func TestRallySharedDrawIsNested(t *testing.T) {
	// One draw per cast: a less likely ally is never buffed without the
	// more likely ones.
	for seed := int64(0); seed < 500; seed++ {
		b := newTestBattle(t, seed)
		b.cast(allyAbility(t, Warrior, 2), b.Allies[Warrior])
		a := b.Allies
		if a[Healer].Buffed && !a[Mystic].Buffed {
			t.Fatalf("seed %d: healer buffed without mystic", seed)
		}
		if a[Mystic].Buffed && !a[Ranger].Buffed {
			t.Fatalf("seed %d: mystic buffed without ranger", seed)
		}
	}
}

func TestAbilitiesAreNoOpsWithoutEnemies(t *testing.T) {
	b := newTestBattle(t, 1)
	b.Enemies = nil
	for _, id := range AllyIDs() {
		for _, idx := range []AbilityIndex{1, 2, 3} {
			b.cast(allyAbility(t, id, idx), b.Allies[id])
		}
	}
	for _, id := range AllyIDs() {
		a := b.Allies[id]
		if a.Buffed || a.Shield != 0 || a.Health != a.MaxHealth {
			t.Fatalf("%s changed with no enemies: %+v", id, a)
		}
	}
}

func TestEventsRecorded(t *testing.T) {
	b := newTestBattle(t, 1)
	b.cast(allyAbility(t, Healer, 2), b.Allies[Healer])
	types := map[string]bool{}
	for _, ev := range b.Events() {
		types[ev.Type] = true
	}
	if !types["Hit"] || !types["Debuff"] {
		t.Fatalf("expected Hit and Debuff events, got %+v", b.Events())
	}

	quiet := NewBattle(config.Default(), b.rng, false)
	quiet.cast(allyAbility(t, Healer, 2), quiet.Allies[Healer])
	if len(quiet.Events()) != 0 {
		t.Fatalf("events recorded with recording off")
	}
}

func TestCleanupIsIdempotent(t *testing.T) {
	b := newTestBattle(t, 1)
	b.Enemies[0].CCImmune = false
	b.cast(allyAbility(t, Warrior, 2), b.Allies[Warrior])
	b.cast(allyAbility(t, Mystic, 2), b.Allies[Mystic])
	b.cast(allyAbility(t, Healer, 2), b.Allies[Healer])
	b.cast(allyAbility(t, Healer, 3), b.Allies[Healer])

	for i := 0; i < 2; i++ {
		b.cleanup()
		for _, a := range b.Allies {
			if a.Buffed || a.Shield != 0 {
				t.Fatalf("pass %d: %s kept %+v", i, a.Name, *a)
			}
		}
		boss := b.Enemies[0]
		if boss.Debuffed {
			t.Fatalf("pass %d: boss still debuffed", i)
		}
		if !boss.Stunned {
			t.Fatalf("pass %d: cleanup cleared the stun flag", i)
		}
		if !approx(boss.Health, 351) {
			t.Fatalf("pass %d: boss hp %v", i, boss.Health)
		}
	}
}
