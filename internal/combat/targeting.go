package combat

import "math/rand"

// SelectTargets returns up to count distinct indices of living members of
// group. Without randomized the scan runs in index order, so the earliest
// living members are picked; otherwise members are visited in a shuffled
// order. A short or empty result is valid and means fewer targets were hit.
func SelectTargets(group []*Entity, count int, randomized bool, rng *rand.Rand) []int {
	if count <= 0 || len(group) == 0 {
		return nil
	}
	order := make([]int, len(group))
	for i := range order {
		order[i] = i
	}
	if randomized {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}
	out := make([]int, 0, min(count, len(group)))
	for _, i := range order {
		if group[i] == nil || !group[i].Alive() {
			continue
		}
		out = append(out, i)
		if len(out) == count {
			break
		}
	}
	return out
}

func countAlive(group []*Entity) int {
	n := 0
	for _, e := range group {
		if e != nil && e.Alive() {
			n++
		}
	}
	return n
}
