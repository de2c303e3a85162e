package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RawStats is a per-player stat payload as returned by the platform.
// Category values may be numbers, numeric strings, or placeholders such as "-".
type RawStats map[string]any

// StatRecord is the normalized, immutable stat line of one player
type StatRecord struct {
	PlayerID  string   `json:"playerId"`
	Name      string   `json:"name"`
	Positions []string `json:"eligiblePositions"`

	FG      float64 `json:"fg"`
	FT      float64 `json:"ft"`
	ThreePT float64 `json:"threept"`
	PTS     float64 `json:"pts"`
	REB     float64 `json:"reb"`
	AST     float64 `json:"ast"`
	ST      float64 `json:"st"`
	BLK     float64 `json:"blk"`
	TO      float64 `json:"to"`
}

// payload keys accepted for each category, in lookup order
var categoryKeys = map[Category][]string{
	FieldGoalPct:  {"fg", "FG%"},
	FreeThrowPct:  {"ft", "FT%"},
	ThreePointers: {"threept", "3PTM"},
	Points:        {"pts", "PTS"},
	Rebounds:      {"reb", "REB"},
	Assists:       {"ast", "AST"},
	Steals:        {"st", "ST"},
	Blocks:        {"blk", "BLK"},
	Turnovers:     {"to", "TO"},
}

// NewStatRecord builds a StatRecord from a raw payload. Unknown keys are ignored
// and any category value that is not a finite number becomes zero.
func NewStatRecord(raw RawStats) *StatRecord {
	rec := &StatRecord{
		PlayerID:  toString(raw["player_id"]),
		Name:      toString(raw["name"]),
		Positions: toPositions(raw["eligible_positions"]),
	}

	for _, c := range Categories {
		var v any
		for _, key := range categoryKeys[c] {
			if val, ok := raw[key]; ok {
				v = val
				break
			}
		}
		rec.set(c, ToFloat(v))
	}

	return rec
}

// Value returns the record's value for a category
func (s *StatRecord) Value(c Category) float64 {
	switch c {
	case FieldGoalPct:
		return s.FG
	case FreeThrowPct:
		return s.FT
	case ThreePointers:
		return s.ThreePT
	case Points:
		return s.PTS
	case Rebounds:
		return s.REB
	case Assists:
		return s.AST
	case Steals:
		return s.ST
	case Blocks:
		return s.BLK
	case Turnovers:
		return s.TO
	}
	return 0
}

func (s *StatRecord) set(c Category, v float64) {
	switch c {
	case FieldGoalPct:
		s.FG = v
	case FreeThrowPct:
		s.FT = v
	case ThreePointers:
		s.ThreePT = v
	case Points:
		s.PTS = v
	case Rebounds:
		s.REB = v
	case Assists:
		s.AST = v
	case Steals:
		s.ST = v
	case Blocks:
		s.BLK = v
	case Turnovers:
		s.TO = v
	}
}

// Raw converts the record back into a payload that NewStatRecord accepts
func (s *StatRecord) Raw() RawStats {
	raw := RawStats{
		"player_id":          s.PlayerID,
		"name":               s.Name,
		"eligible_positions": append([]string(nil), s.Positions...),
	}
	for _, c := range Categories {
		raw[string(c)] = s.Value(c)
	}
	return raw
}

// EligibleAt reports whether the player may fill the given roster position
func (s *StatRecord) EligibleAt(position string) bool {
	for _, p := range s.Positions {
		if strings.EqualFold(p, position) {
			return true
		}
	}
	return false
}

// CommonPositions counts the positions present in both lists
func CommonPositions(a, b []string) int {
	seen := make(map[string]bool, len(a))
	for _, p := range a {
		seen[strings.ToUpper(p)] = true
	}
	n := 0
	for _, p := range b {
		key := strings.ToUpper(p)
		if seen[key] {
			n++
			delete(seen, key)
		}
	}
	return n
}

// ToFloat coerces a stat value to a finite float64, returning 0 for anything else
func ToFloat(v any) float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case int32:
		f = float64(x)
	case int16:
		f = float64(x)
	case int8:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint64:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint16:
		f = float64(x)
	case uint8:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func toPositions(v any) []string {
	switch x := v.(type) {
	case []string:
		return append([]string(nil), x...)
	case []any:
		out := make([]string, 0, len(x))
		for _, p := range x {
			if s := toString(p); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if x == "" {
			return nil
		}
		parts := strings.Split(x, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return nil
}
