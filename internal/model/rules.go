package model

import (
	"fmt"
	"strings"
)

// InvariantSeverity states how strictly an invariant is enforced.
type InvariantSeverity string

const (
	SeverityHard InvariantSeverity = "hard"
	SeveritySoft InvariantSeverity = "soft"
)

func ParseSeverity(s string) (InvariantSeverity, error) {
	switch InvariantSeverity(strings.ToLower(s)) {
	case SeverityHard, SeveritySoft:
		return InvariantSeverity(strings.ToLower(s)), nil
	default:
		return "", fmt.Errorf("unknown invariant severity: %q", s)
	}
}

// Invariant check types dispatched by the rules engine. Unknown check types
// are deliberately tolerated at validation time (vacuously satisfied) so
// newer rule data degrades gracefully on older engines.
const (
	CheckRequiresAtom = "requires_atom"
	CheckForbidsCombo = "forbids_combo"
	CheckRequiresBeat = "requires_beat"
	CheckConditional  = "conditional"
)

// InvariantParams carries the per-check-type parameters of an invariant.
type InvariantParams struct {
	RequiresTag string `json:"requires_tag,omitempty" yaml:"requires_tag,omitempty"`
	TagA        string `json:"tag_a,omitempty" yaml:"tag_a,omitempty"`
	TagB        string `json:"tag_b,omitempty" yaml:"tag_b,omitempty"`
	Beat        string `json:"beat,omitempty" yaml:"beat,omitempty"`
	IfTag       string `json:"if_tag,omitempty" yaml:"if_tag,omitempty"`
}

// Invariant is a static world rule a skeleton should satisfy. Immutable for
// the engine's lifetime.
type Invariant struct {
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description" yaml:"description"`
	Severity    InvariantSeverity `json:"severity" yaml:"severity"`
	CheckType   string            `json:"check_type" yaml:"check_type"`
	Parameters  InvariantParams   `json:"parameters" yaml:"parameters"`
}

// Tendency effects dispatched by the rules engine.
const (
	EffectAddTag     = "add_tag"
	EffectAddTension = "add_tension"
	EffectModifyTone = "modify_tone"
	EffectAddBeat    = "add_beat"
)

// TendencyParams carries the per-effect parameters of a tendency.
type TendencyParams struct {
	Tag     string `json:"tag,omitempty" yaml:"tag,omitempty"`
	Tension string `json:"tension,omitempty" yaml:"tension,omitempty"`
	Tone    string `json:"tone,omitempty" yaml:"tone,omitempty"`
	Beat    string `json:"beat,omitempty" yaml:"beat,omitempty"`
}

// Tendency is a probabilistic world rule that may mutate a skeleton when it
// fires. Immutable for the engine's lifetime.
type Tendency struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	Probability float64        `json:"probability" yaml:"probability"`
	Effect      string         `json:"effect" yaml:"effect"`
	Parameters  TendencyParams `json:"parameters" yaml:"parameters"`
}

// ValidationResult accumulates the outcome of checking a skeleton against
// the world rules. Valid is false iff any hard violation was recorded.
// TendenciesApplied lists, in rule order, the tendencies that produced an
// observable mutation, not merely those whose probability roll succeeded.
type ValidationResult struct {
	Valid             bool     `json:"valid"`
	HardViolations    []string `json:"hard_violations"`
	SoftViolations    []string `json:"soft_violations"`
	TendenciesApplied []string `json:"tendencies_applied"`
}

// NewValidationResult returns an empty, valid result.
func NewValidationResult() ValidationResult {
	return ValidationResult{Valid: true}
}

// AddViolation records a violation message under the given severity.
func (r *ValidationResult) AddViolation(message string, severity InvariantSeverity) {
	if severity == SeverityHard {
		r.HardViolations = append(r.HardViolations, message)
		r.Valid = false
		return
	}
	r.SoftViolations = append(r.SoftViolations, message)
}

// TotalViolations counts hard and soft violations together.
func (r *ValidationResult) TotalViolations() int {
	return len(r.HardViolations) + len(r.SoftViolations)
}

// Wild-card effect types dispatched by the evolution engine. Unknown effect
// types are a no-op at injection time.
const (
	WildCardAddAtom    = "add_atom"
	WildCardModifyAtom = "modify_atom"
	WildCardChangeTone = "change_tone"
	WildCardAddBeat    = "add_beat"
	WildCardSwapAtom   = "swap_atom"
)

// WildCardAtom describes the atom payload of an add_atom wild card.
type WildCardAtom struct {
	Name     string       `json:"name" yaml:"name"`
	Category AtomCategory `json:"category" yaml:"category"`
	Tags     []string     `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// WildCardParams carries the per-effect-type parameters of a wild card.
type WildCardParams struct {
	Atom           *WildCardAtom `json:"atom,omitempty" yaml:"atom,omitempty"`
	TargetCategory AtomCategory  `json:"target_category,omitempty" yaml:"target_category,omitempty"`
	AddTags        []string      `json:"add_tags,omitempty" yaml:"add_tags,omitempty"`
	Tone           string        `json:"tone,omitempty" yaml:"tone,omitempty"`
	BeatType       string        `json:"beat_type,omitempty" yaml:"beat_type,omitempty"`
	Source         string        `json:"source,omitempty" yaml:"source,omitempty"`
	SwapCategory   AtomCategory  `json:"swap_category,omitempty" yaml:"swap_category,omitempty"`
	Count          int           `json:"count,omitempty" yaml:"count,omitempty"`
}

// WildCard is an externally defined random mutation descriptor injected
// during evolution.
type WildCard struct {
	Name       string         `json:"name" yaml:"name"`
	EffectType string         `json:"effect_type" yaml:"effect_type"`
	Parameters WildCardParams `json:"parameters" yaml:"parameters"`
}
