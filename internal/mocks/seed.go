package mocks

import (
	"github.com/Billy-Davies-2/hoops-swap/internal/logger"
	"github.com/Billy-Davies-2/hoops-swap/internal/models"
)

// Stats builds a raw stat payload with the nine categories in display-name form
func Stats(id, name string, positions []string, fg, ft, threes, pts, reb, ast, st, blk, to float64) models.RawStats {
	pos := make([]any, len(positions))
	for i, p := range positions {
		pos[i] = p
	}
	return models.RawStats{
		"player_id":          id,
		"name":               name,
		"eligible_positions": pos,
		"FG%":                fg,
		"FT%":                ft,
		"3PTM":               threes,
		"PTS":                pts,
		"REB":                reb,
		"AST":                ast,
		"ST":                 st,
		"BLK":                blk,
		"TO":                 to,
	}
}

// NewSeededPlatform returns a small demo league for running without credentials
func NewSeededPlatform() *Platform {
	logger.Info("Using MOCK platform with seeded demo league")

	p := NewPlatform()

	p.AddTeam(models.TeamRef{Key: "428.l.1.t.1", Name: "Backcourt Bandits"}, true,
		Stats("5001", "Quick Guard", []string{"PG", "SG", "G", "Util"}, 0.452, 0.881, 38, 290, 61, 118, 22, 3, 41),
		Stats("5002", "Wing Shooter", []string{"SG", "SF", "G", "F", "Util"}, 0.471, 0.842, 44, 255, 70, 36, 15, 6, 18),
		Stats("5003", "Glue Forward", []string{"SF", "PF", "F", "Util"}, 0.489, 0.731, 19, 188, 121, 42, 18, 11, 20),
		Stats("5004", "Old Center", []string{"C", "Util"}, 0.518, 0.602, 0, 140, 150, 20, 6, 19, 24),
		Stats("5005", "Bench Big", []string{"PF", "C", "F", "Util"}, 0.501, 0.655, 2, 121, 118, 14, 9, 21, 15),
	)
	p.AddTeam(models.TeamRef{Key: "428.l.1.t.2", Name: "Paint Patrol"}, false,
		Stats("5101", "Floor General", []string{"PG", "G", "Util"}, 0.438, 0.861, 31, 270, 55, 140, 25, 4, 45),
		Stats("5102", "Slasher", []string{"SG", "SF", "G", "F", "Util"}, 0.480, 0.790, 25, 310, 80, 50, 20, 8, 30),
		Stats("5103", "Stretch Four", []string{"PF", "F", "Util"}, 0.468, 0.810, 40, 220, 130, 30, 12, 15, 21),
		Stats("5104", "Rim Protector", []string{"C", "Util"}, 0.601, 0.588, 0, 200, 210, 25, 10, 45, 28),
		Stats("5105", "Sixth Man", []string{"SG", "G", "Util"}, 0.445, 0.830, 35, 230, 45, 40, 14, 2, 19),
	)
	p.AddTeam(models.TeamRef{Key: "428.l.1.t.3", Name: "Triple Threat"}, false,
		Stats("5201", "Pass First", []string{"PG", "G", "Util"}, 0.441, 0.800, 20, 180, 50, 160, 30, 2, 38),
		Stats("5202", "Sniper", []string{"SG", "G", "Util"}, 0.460, 0.905, 60, 260, 40, 30, 12, 3, 14),
		Stats("5203", "Point Forward", []string{"SF", "PF", "F", "Util"}, 0.495, 0.720, 15, 240, 140, 90, 22, 14, 35),
		Stats("5204", "Young Center", []string{"C", "Util"}, 0.560, 0.700, 5, 190, 190, 22, 8, 30, 22),
		Stats("5205", "Energy Big", []string{"PF", "C", "F", "Util"}, 0.530, 0.610, 0, 130, 160, 18, 11, 25, 16),
	)

	p.AddFreeAgent("", Stats("6001", "Breakout Center", []string{"C", "PF"}, 0.590, 0.720, 3, 230, 220, 30, 15, 40, 18), "C", "PF")
	p.AddFreeAgent("", Stats("6002", "Veteran Shooter", []string{"SG", "SF"}, 0.455, 0.880, 52, 210, 50, 30, 10, 4, 12), "SG", "SF")
	p.AddFreeAgent("O", Stats("6003", "Injured Star", []string{"PG", "SG"}, 0.500, 0.900, 70, 500, 90, 200, 40, 10, 50), "PG", "SG")
	p.AddFreeAgent("", Stats("6004", "Hustle Guard", []string{"PG"}, 0.420, 0.750, 15, 150, 60, 90, 28, 5, 20), "PG")
	p.AddWaiver("", Stats("6101", "Waived Forward", []string{"SF", "PF"}, 0.470, 0.770, 22, 200, 110, 40, 16, 12, 17))

	return p
}
