package spread

import (
	"math/rand"
	"testing"

	"fabula/internal/catalogue"
	"fabula/internal/model"
)

func testCatalogue() *catalogue.Catalogue {
	atoms := []model.StoryAtom{
		{Name: "the cartographer", Category: model.CategoryAgent, Source: model.SourceCatalogue, Tags: []string{"seeker", "mystery"}, Rarity: 0.2},
		{Name: "the lighthouse keeper", Category: model.CategoryAgent, Source: model.SourceCatalogue, Tags: []string{"watcher"}, Rarity: 0.4},
		{Name: "a brass compass", Category: model.CategoryObject, Source: model.SourceCatalogue, Tags: []string{"heirloom"}, Rarity: 0.3},
		{Name: "the drowned archive", Category: model.CategoryLocation, Source: model.SourceCatalogue, Tags: []string{"lost"}, Rarity: 0.7},
		{Name: "a rising storm", Category: model.CategoryTension, Source: model.SourceCatalogue, Tags: []string{"danger"}, Rarity: 0.5},
	}
	affinities := []model.AffinityEntry{
		{AtomA: "the cartographer", AtomB: "a brass compass", Strength: 0.9},
	}
	return catalogue.New(atoms, affinities)
}

func testSpreads() map[string]model.SpreadLayout {
	return map[string]model.SpreadLayout{
		"three_act": {
			Description: "setup, confrontation, resolution",
			Positions: []model.SpreadPosition{
				{Name: "protagonist", Description: "Who carries the story", PreferredCategories: []model.AtomCategory{model.CategoryAgent}},
				{Name: "catalyst", Description: "What sets events in motion", PreferredCategories: []model.AtomCategory{model.CategoryObject, model.CategoryTrigger}},
				{Name: "stage", Description: "Where it unfolds", PreferredCategories: []model.AtomCategory{model.CategoryLocation}},
			},
		},
	}
}

func testEngine(t *testing.T) *Engine {
	t.Helper()
	eng, err := New(testCatalogue(), testSpreads())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return eng
}

func TestNewValidation(t *testing.T) {
	if _, err := New(nil, testSpreads()); err == nil {
		t.Fatal("expected error for nil catalogue")
	}
	if _, err := New(testCatalogue(), nil); err == nil {
		t.Fatal("expected error for no spreads")
	}
}

func TestSpreadTypesSorted(t *testing.T) {
	spreads := testSpreads()
	spreads["hero_journey"] = model.SpreadLayout{Positions: []model.SpreadPosition{{Name: "call"}}}
	eng, err := New(testCatalogue(), spreads)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := eng.SpreadTypes()
	if len(got) != 2 || got[0] != "hero_journey" || got[1] != "three_act" {
		t.Fatalf("SpreadTypes() = %v", got)
	}
}

func TestDrawUnknownSpreadType(t *testing.T) {
	eng := testEngine(t)
	if _, err := eng.Draw("celtic_cross", nil, rand.New(rand.NewSource(1))); err == nil {
		t.Fatal("expected error for unknown spread type")
	}
}

func TestDrawPrefersMatchingCategories(t *testing.T) {
	eng := testEngine(t)
	atoms := testCatalogue().Atoms()

	for seed := int64(0); seed < 10; seed++ {
		placed, err := eng.Draw("three_act", atoms, rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatalf("Draw: %v", err)
		}
		if placed["protagonist"].Category != model.CategoryAgent {
			t.Fatalf("seed %d: protagonist category = %q", seed, placed["protagonist"].Category)
		}
		if placed["stage"].Category != model.CategoryLocation {
			t.Fatalf("seed %d: stage category = %q", seed, placed["stage"].Category)
		}
	}
}

func TestDrawNeverReusesAtoms(t *testing.T) {
	eng := testEngine(t)
	atoms := testCatalogue().Atoms()

	for seed := int64(0); seed < 10; seed++ {
		placed, err := eng.Draw("three_act", atoms, rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatalf("Draw: %v", err)
		}
		seen := map[string]string{}
		for position, atom := range placed {
			if prev, dup := seen[atom.Name]; dup {
				t.Fatalf("seed %d: %q placed at both %q and %q", seed, atom.Name, prev, position)
			}
			seen[atom.Name] = position
		}
	}
}

func TestDrawFallsBackToCatalogue(t *testing.T) {
	eng := testEngine(t)
	// No input atoms at all: every position fills from the catalogue.
	placed, err := eng.Draw("three_act", nil, rand.New(rand.NewSource(2)))
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if len(placed) != 3 {
		t.Fatalf("placed %d positions, want 3", len(placed))
	}
}

func TestDrawAffinityBiasesPlacement(t *testing.T) {
	// With the cartographer placed first, the compass (affinity 0.9) should
	// win the catalyst slot far more often than chance against a flat rival.
	atoms := []model.StoryAtom{
		{Name: "the cartographer", Category: model.CategoryAgent, Rarity: 0.2},
		{Name: "a brass compass", Category: model.CategoryObject, Rarity: 0.3},
		{Name: "a plain stone", Category: model.CategoryObject, Rarity: 0.3},
	}
	affinities := []model.AffinityEntry{
		{AtomA: "the cartographer", AtomB: "a brass compass", Strength: 0.9},
	}
	eng, err := New(catalogue.New(atoms, affinities), testSpreads())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rng := rand.New(rand.NewSource(7))
	compass := 0
	const trials = 400
	for i := 0; i < trials; i++ {
		placed, err := eng.Draw("three_act", atoms, rng)
		if err != nil {
			t.Fatalf("Draw: %v", err)
		}
		if placed["catalyst"].Name == "a brass compass" {
			compass++
		}
	}
	// Expected share is 1.9/2.9 (about 0.66); flat odds would be 0.5.
	if compass <= trials*55/100 {
		t.Fatalf("compass placed %d/%d times, affinity weighting not biasing", compass, trials)
	}
}

func TestInterpretPosition(t *testing.T) {
	eng := testEngine(t)
	atom := model.StoryAtom{Name: "a brass compass", Category: model.CategoryObject}
	got, err := eng.InterpretPosition("catalyst", atom, "three_act")
	if err != nil {
		t.Fatalf("InterpretPosition: %v", err)
	}
	want := "A brass compass — what sets events in motion."
	if got != want {
		t.Fatalf("InterpretPosition = %q, want %q", got, want)
	}
}

func TestGenerateSkeleton(t *testing.T) {
	eng := testEngine(t)
	atoms := testCatalogue().Atoms()

	skeleton, err := eng.GenerateSkeleton("three_act", atoms, rand.New(rand.NewSource(11)))
	if err != nil {
		t.Fatalf("GenerateSkeleton: %v", err)
	}

	if len(skeleton.Atoms) != 3 {
		t.Fatalf("skeleton has %d atoms, want 3", len(skeleton.Atoms))
	}
	if len(skeleton.Beats) != 3 {
		t.Fatalf("skeleton has %d beats, want 3", len(skeleton.Beats))
	}
	if skeleton.Stats.Engine != "tarot_spread" {
		t.Fatalf("engine = %q", skeleton.Stats.Engine)
	}
	if skeleton.Stats.SpreadType != "three_act" {
		t.Fatalf("spread type = %q", skeleton.Stats.SpreadType)
	}
	if skeleton.Stats.BeatCount != 3 {
		t.Fatalf("beat count = %d", skeleton.Stats.BeatCount)
	}
	names := skeleton.AtomNameSet()
	for position, atomName := range skeleton.SpreadPositions {
		if _, ok := names[atomName]; !ok {
			t.Fatalf("position %q references unknown atom %q", position, atomName)
		}
	}
	if skeleton.Tone == "" {
		t.Fatal("tone not derived")
	}
}

func TestGenerateSkeletonThemeTagsDeduplicated(t *testing.T) {
	eng := testEngine(t)
	skeleton, err := eng.GenerateSkeleton("three_act", testCatalogue().Atoms(), rand.New(rand.NewSource(13)))
	if err != nil {
		t.Fatalf("GenerateSkeleton: %v", err)
	}
	seen := map[string]bool{}
	for _, tag := range skeleton.ThemeTags {
		if seen[tag] {
			t.Fatalf("duplicate theme tag %q", tag)
		}
		seen[tag] = true
	}
}

func TestDeriveTone(t *testing.T) {
	cases := []struct {
		name string
		tags []string
		want string
	}{
		{"no signals", []string{"maps", "heirloom"}, "enigmatic"},
		{"dark dominates", []string{"dread", "shadow", "hope"}, "dark"},
		{"light dominates", []string{"hope", "wonder", "fear"}, "luminous"},
		{"tense dominates", []string{"danger", "suspense"}, "tense"},
		{"dark wins ties", []string{"dread", "hope"}, "dark"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			atoms := []model.StoryAtom{{Name: "x", Tags: tc.tags}}
			if got := deriveTone(atoms); got != tc.want {
				t.Fatalf("deriveTone = %q, want %q", got, tc.want)
			}
		})
	}
}
