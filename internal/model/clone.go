package model

// CloneAtom returns a deep copy of an atom. Skeleton atoms are owned copies;
// mutating one must never reach back into a shared catalogue template.
func CloneAtom(a StoryAtom) StoryAtom {
	out := a
	out.Tags = append([]string(nil), a.Tags...)
	if a.Metadata != nil {
		out.Metadata = make(map[string]string, len(a.Metadata))
		for k, v := range a.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// CloneSkeleton returns a deep copy of a skeleton. Crossover and any
// offspring derivation from a surviving population member go through here so
// that in-place mutation never aliases a parent.
func CloneSkeleton(s *StorySkeleton) *StorySkeleton {
	if s == nil {
		return nil
	}
	out := *s
	out.Atoms = make([]StoryAtom, len(s.Atoms))
	for i, atom := range s.Atoms {
		out.Atoms[i] = CloneAtom(atom)
	}
	out.Beats = append([]string(nil), s.Beats...)
	if s.SpreadPositions != nil {
		out.SpreadPositions = make(map[string]string, len(s.SpreadPositions))
		for k, v := range s.SpreadPositions {
			out.SpreadPositions[k] = v
		}
	}
	out.ThemeTags = append([]string(nil), s.ThemeTags...)
	out.Stats.Violations = append([]string(nil), s.Stats.Violations...)
	return &out
}
