package evo

import "fabula/internal/model"

// CalculateNovelty scores how much a skeleton's atom set differs from the
// population, as the mean Jaccard distance of atom-name sets, in [0, 1].
// An empty population is maximally novel; an empty skeleton never is.
func (e *Engine) CalculateNovelty(skeleton *model.StorySkeleton, population []*model.StorySkeleton) float64 {
	if len(population) == 0 {
		return 1.0
	}

	targetNames := skeleton.AtomNameSet()
	if len(targetNames) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, other := range population {
		otherNames := other.AtomNameSet()
		union := len(targetNames)
		intersection := 0
		for name := range otherNames {
			if _, ok := targetNames[name]; ok {
				intersection++
			} else {
				union++
			}
		}
		if union > 0 {
			sum += 1.0 - float64(intersection)/float64(union)
		}
	}

	avg := sum / float64(len(population))
	if avg < 0 {
		return 0
	}
	if avg > 1 {
		return 1
	}
	return avg
}
