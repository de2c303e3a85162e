package models

// Category is one of the nine tracked statistical measures
type Category string

const (
	FieldGoalPct  Category = "fg"
	FreeThrowPct  Category = "ft"
	ThreePointers Category = "threept"
	Points        Category = "pts"
	Rebounds      Category = "reb"
	Assists       Category = "ast"
	Steals        Category = "st"
	Blocks        Category = "blk"
	Turnovers     Category = "to"
)

// Categories lists every tracked category in report order
var Categories = []Category{
	FieldGoalPct,
	FreeThrowPct,
	ThreePointers,
	Points,
	Rebounds,
	Assists,
	Steals,
	Blocks,
	Turnovers,
}

// LowerIsBetter reports whether a smaller aggregate ranks higher for the category
func (c Category) LowerIsBetter() bool {
	return c == Turnovers
}

// PlayerRef is a roster entry or acquisition candidate as listed by the platform
type PlayerRef struct {
	PlayerID  string   `json:"playerId"`
	Name      string   `json:"name,omitempty"`
	Positions []string `json:"eligiblePositions"`
	// Status is empty for an available, healthy player ("IR", "O", "DTD", ...)
	Status string `json:"status,omitempty"`
}

// Available reports whether the platform marks the player as acquirable
func (p PlayerRef) Available() bool {
	return p.Status == ""
}

// TeamRef identifies a franchise in the league
type TeamRef struct {
	Key  string `json:"teamKey"`
	Name string `json:"name,omitempty"`
}

// TeamValue is one row of a category standing
type TeamValue struct {
	TeamKey string  `json:"teamKey"`
	Value   float64 `json:"value"`
}

// Ranking is my team's zero-based position in every category standing
type Ranking struct {
	Positions map[Category]int `json:"positions"`
	Composite float64          `json:"composite"`
}

// Swap is a hypothetical roster move that improved the composite rank
type Swap struct {
	In      PlayerRef `json:"in"`
	OutID   string    `json:"outId"`
	OutName string    `json:"outName,omitempty"`
	// Pool is the position filter of the scan that found the swap ("" for waivers)
	Pool  string  `json:"pool,omitempty"`
	Delta float64 `json:"delta"`
}
