// Package fabula is the public entry point: it assembles the catalogue, the
// world-rules engine, the constraint solver and the generative engines from
// the embedded default data (or caller-supplied overrides) and exposes
// batch generation, evolution, validation and scoring plus optional
// persistence of run results.
package fabula

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fabula/internal/catalogue"
	"fabula/internal/data"
	"fabula/internal/evo"
	"fabula/internal/generate"
	"fabula/internal/markov"
	"fabula/internal/model"
	"fabula/internal/rules"
	"fabula/internal/seed"
	"fabula/internal/solver"
	"fabula/internal/spread"
	"fabula/internal/storage"
)

const defaultDBPath = "fabula.db"

// Options select the persistence backend and optional world-data overrides.
type Options struct {
	StoreKind string
	DBPath    string

	// World data overrides. Left empty, the embedded defaults are used.
	AtomsPath      string
	InvariantsPath string
	TendenciesPath string
	WildCardsPath  string
}

// Client wires the full engine stack behind one handle.
type Client struct {
	store     storage.Store
	catalogue *catalogue.Catalogue
	rules     *rules.Engine
	solver    *solver.Solver
	spreads   *spread.Engine
	evolution *evo.Engine
	pipeline  *generate.Pipeline
}

// RunRequest configures one generation run. Zero values fall back to the
// defaults of model.DefaultGenerationConfig.
type RunRequest struct {
	Seed        int64
	Skeletons   int
	SpreadTypes []string
	MinBeats    int
	MaxBeats    int
	Workers     int

	Evolve         bool
	Generations    int
	MutationRate   float64
	CrossoverRate  float64
	WildCardRate   float64
	TournamentSize int
	Selection      string

	Persist bool
}

// RunSummary is the outcome of one generation run. Skeletons are sorted by
// coherence score, best first; FitnessHistory is empty when evolution was
// disabled.
type RunSummary struct {
	RunID          string
	Seed           int64
	Skeletons      []*model.StorySkeleton
	GenerationsRun int
	FitnessHistory []float64
}

// Best returns the highest-scoring skeleton, or nil for an empty run.
func (s RunSummary) Best() *model.StorySkeleton {
	if len(s.Skeletons) == 0 {
		return nil
	}
	return s.Skeletons[0]
}

// New builds a client from embedded or overridden world data.
func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	atoms, err := loadAtoms(opts.AtomsPath)
	if err != nil {
		return nil, fmt.Errorf("load atoms: %w", err)
	}
	affinities, err := data.DefaultAffinities()
	if err != nil {
		return nil, fmt.Errorf("load affinities: %w", err)
	}
	invariants, err := loadInvariants(opts.InvariantsPath)
	if err != nil {
		return nil, fmt.Errorf("load invariants: %w", err)
	}
	tendencies, err := loadTendencies(opts.TendenciesPath)
	if err != nil {
		return nil, fmt.Errorf("load tendencies: %w", err)
	}
	wildCards, err := loadWildCards(opts.WildCardsPath)
	if err != nil {
		return nil, fmt.Errorf("load wild cards: %w", err)
	}
	transitions, err := data.DefaultBeatTransitions()
	if err != nil {
		return nil, fmt.Errorf("load beat transitions: %w", err)
	}
	spreads, err := data.DefaultSpreads()
	if err != nil {
		return nil, fmt.Errorf("load spreads: %w", err)
	}

	cat := catalogue.New(atoms, affinities)
	rulesEngine := rules.NewEngine(invariants, tendencies)

	constraintSolver, err := solver.New(rulesEngine, cat, transitions)
	if err != nil {
		return nil, err
	}
	spreadEngine, err := spread.New(cat, spreads)
	if err != nil {
		return nil, err
	}
	evolution, err := evo.NewEngine(constraintSolver, cat, wildCards)
	if err != nil {
		return nil, err
	}
	pipeline, err := generate.NewPipeline(spreadEngine, markov.NewChain(transitions), constraintSolver, evolution)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:     store,
		catalogue: cat,
		rules:     rulesEngine,
		solver:    constraintSolver,
		spreads:   spreadEngine,
		evolution: evolution,
		pipeline:  pipeline,
	}, nil
}

func loadAtoms(path string) ([]model.StoryAtom, error) {
	if path == "" {
		return data.DefaultAtoms()
	}
	return data.AtomsFromFile(path)
}

func loadInvariants(path string) ([]model.Invariant, error) {
	if path == "" {
		return data.DefaultInvariants()
	}
	return data.InvariantsFromFile(path)
}

func loadTendencies(path string) ([]model.Tendency, error) {
	if path == "" {
		return data.DefaultTendencies()
	}
	return data.TendenciesFromFile(path)
}

func loadWildCards(path string) ([]model.WildCard, error) {
	if path == "" {
		return data.DefaultWildCards()
	}
	return data.WildCardsFromFile(path)
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

// Init prepares the persistence backend.
func (c *Client) Init(ctx context.Context) error {
	return c.store.Init(ctx)
}

// SpreadTypes lists the known spread layouts.
func (c *Client) SpreadTypes() []string {
	return c.spreads.SpreadTypes()
}

// Validate checks a skeleton against the world rules without applying
// tendencies.
func (c *Client) Validate(skeleton *model.StorySkeleton) model.ValidationResult {
	return c.rules.Validate(skeleton, nil)
}

// Score computes and writes back the coherence score of a skeleton.
func (c *Client) Score(skeleton *model.StorySkeleton) float64 {
	return c.solver.ScoreAndUpdate(skeleton).CoherenceScore()
}

// Run generates a batch of skeletons according to the request, optionally
// refines them by evolution, and optionally persists records of the run.
func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	cfg := model.DefaultGenerationConfig()
	cfg.Seed = req.Seed
	if req.Skeletons > 0 {
		cfg.Skeletons = req.Skeletons
	}
	if len(req.SpreadTypes) > 0 {
		cfg.SpreadTypes = req.SpreadTypes
	}
	if req.MinBeats > 0 {
		cfg.MinBeats = req.MinBeats
	}
	if req.MaxBeats > 0 {
		cfg.MaxBeats = req.MaxBeats
	}
	if req.Workers > 0 {
		cfg.Workers = req.Workers
	}
	if req.Generations > 0 {
		cfg.Evolution.Generations = req.Generations
	}
	if req.MutationRate > 0 {
		cfg.Evolution.MutationRate = req.MutationRate
	}
	if req.CrossoverRate > 0 {
		cfg.Evolution.CrossoverRate = req.CrossoverRate
	}
	if req.WildCardRate > 0 {
		cfg.Evolution.WildCardRate = req.WildCardRate
	}
	if req.TournamentSize > 0 {
		cfg.Evolution.TournamentSize = req.TournamentSize
	}
	if req.Selection != "" {
		cfg.Evolution.SelectionMethod = req.Selection
	}
	cfg.Evolution.Enabled = false
	if err := cfg.Validate(); err != nil {
		return RunSummary{}, err
	}
	cfg.Evolution.PopulationSize = cfg.Skeletons

	seeds := seed.New(cfg.Seed)
	skeletons, err := c.pipeline.GenerateBatch(ctx, cfg, seeds)
	if err != nil {
		return RunSummary{}, err
	}

	summary := RunSummary{
		RunID:     uuid.NewString(),
		Seed:      cfg.Seed,
		Skeletons: skeletons,
	}

	if req.Evolve && cfg.Evolution.Generations > 0 {
		result, err := c.evolution.Evolve(skeletons, cfg.Evolution, seeds.ChildRNG("evolution"))
		if err != nil {
			return RunSummary{}, err
		}
		summary.Skeletons = result.Population
		summary.GenerationsRun = result.GenerationsRun
		summary.FitnessHistory = result.FitnessHistory
	}

	if req.Persist {
		cfg.Evolution.Enabled = req.Evolve
		if err := c.persistRun(ctx, cfg, summary); err != nil {
			return RunSummary{}, err
		}
	}
	return summary, nil
}

// Evolve refines an existing population in place and returns the result.
func (c *Client) Evolve(population []*model.StorySkeleton, cfg model.EvolutionConfig, masterSeed int64) (model.EvolutionResult, error) {
	if len(population) == 0 {
		return model.EvolutionResult{}, errors.New("population is empty")
	}
	return c.evolution.Evolve(population, cfg, seed.New(masterSeed).ChildRNG("evolution"))
}

// Runs lists the persisted run records.
func (c *Client) Runs(ctx context.Context) ([]model.RunRecord, error) {
	return c.store.ListRuns(ctx)
}

// FitnessHistory returns the persisted fitness history of a run.
func (c *Client) FitnessHistory(ctx context.Context, runID string) ([]float64, bool, error) {
	return c.store.GetFitnessHistory(ctx, runID)
}

// Skeletons lists the persisted skeletons of a run.
func (c *Client) Skeletons(ctx context.Context, runID string) ([]model.SkeletonRecord, error) {
	return c.store.ListSkeletons(ctx, runID)
}

func (c *Client) persistRun(ctx context.Context, cfg model.GenerationConfig, summary RunSummary) error {
	now := time.Now().UTC()

	bestID := ""
	for _, skeleton := range summary.Skeletons {
		record := model.SkeletonRecord{
			VersionedRecord: storage.Stamp(),
			ID:              uuid.NewString(),
			RunID:           summary.RunID,
			Skeleton:        *model.CloneSkeleton(skeleton),
			CreatedAt:       now,
		}
		if bestID == "" {
			bestID = record.ID
		}
		if err := c.store.SaveSkeleton(ctx, record); err != nil {
			return fmt.Errorf("persist skeleton: %w", err)
		}
	}

	run := model.RunRecord{
		VersionedRecord: storage.Stamp(),
		ID:              summary.RunID,
		Config:          cfg,
		GenerationsRun:  summary.GenerationsRun,
		BestSkeletonID:  bestID,
		SkeletonCount:   len(summary.Skeletons),
		CreatedAt:       now,
	}
	if best := summary.Best(); best != nil {
		run.BestScore = best.CoherenceScore()
	}
	if err := c.store.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("persist run: %w", err)
	}

	if len(summary.FitnessHistory) > 0 {
		if err := c.store.SaveFitnessHistory(ctx, summary.RunID, summary.FitnessHistory); err != nil {
			return fmt.Errorf("persist fitness history: %w", err)
		}
	}
	return nil
}
