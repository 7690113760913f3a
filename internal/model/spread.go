package model

// SpreadPosition is one slot of a narrative spread layout.
type SpreadPosition struct {
	Name                string         `json:"name" yaml:"name"`
	Description         string         `json:"description" yaml:"description"`
	PreferredCategories []AtomCategory `json:"preferred_categories,omitempty" yaml:"preferred_categories,omitempty"`
}

// SpreadLayout is an ordered set of positions atoms are drawn into.
type SpreadLayout struct {
	Description string           `json:"description" yaml:"description"`
	Positions   []SpreadPosition `json:"positions" yaml:"positions"`
}
