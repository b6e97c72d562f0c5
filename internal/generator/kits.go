package generator

import (
	"math"
	"sort"
)

// KitSizes lists the kit sizes on sale, in kilograms, largest first.
var KitSizes = []int{24, 18, 12, 6}

// KitCount is an amount of kits of one size.
type KitCount struct {
	SizeKg int
	Amount int
}

// combinations are the preferred kit mixes up to 60 kg.
var combinations = map[int][]KitCount{
	6:  {{SizeKg: 6, Amount: 1}},
	12: {{SizeKg: 12, Amount: 1}},
	18: {{SizeKg: 18, Amount: 1}},
	24: {{SizeKg: 24, Amount: 1}},
	30: {{SizeKg: 18, Amount: 1}, {SizeKg: 12, Amount: 1}},
	36: {{SizeKg: 18, Amount: 2}},
	42: {{SizeKg: 24, Amount: 1}, {SizeKg: 18, Amount: 1}},
	48: {{SizeKg: 24, Amount: 2}},
	54: {{SizeKg: 18, Amount: 3}},
	60: {{SizeKg: 24, Amount: 2}, {SizeKg: 12, Amount: 1}},
}

const combinationLimitKg = 60

// SelectKits covers totalKg with kits, largest size first.
//
// Up to 60 kg the total is rounded up to a multiple of 6 and looked up in
// the combination table. Above that as many 24 kg kits as fit are used and
// the rest goes into the smallest single kit that covers it.
func SelectKits(totalKg float64) []KitCount {
	if totalKg <= 0 || math.IsNaN(totalKg) || math.IsInf(totalKg, 0) {
		return nil
	}
	kg := int(math.Ceil(totalKg))

	if kg <= combinationLimitKg {
		step := KitSizes[len(KitSizes)-1]
		rounded := (kg + step - 1) / step * step
		return append([]KitCount(nil), combinations[rounded]...)
	}

	largest := KitSizes[0]
	counts := map[int]int{largest: kg / largest}
	if rest := kg % largest; rest > 0 {
		counts[smallestCovering(rest)]++
	}

	out := make([]KitCount, 0, len(counts))
	for size, amount := range counts {
		out = append(out, KitCount{SizeKg: size, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SizeKg > out[j].SizeKg })
	return out
}

func smallestCovering(kg int) int {
	for i := len(KitSizes) - 1; i >= 0; i-- {
		if KitSizes[i] >= kg {
			return KitSizes[i]
		}
	}
	return KitSizes[0]
}
