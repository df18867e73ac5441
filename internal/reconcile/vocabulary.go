package reconcile

import (
	"strings"

	"github.com/morthond/wotr-ladder/internal/ladder"
)

// Competitive classifications from the intake forms, shared by both game
// variants. A report counts toward the ladder when its classification
// starts with LadderMarker; CompetitiveNoStats is the one classification
// without remembered game statistics.
const (
	CompetitiveFriendly   = "Friendly"
	CompetitiveLadder     = "Ladder"
	CompetitiveTournament = "Ladder and tournament"
	CompetitiveLeague     = "Ladder and league"
	CompetitiveNoStats    = "Ladder but I cannot remember the stats"

	LadderMarker = "Ladder"
)

// CompetitiveValues lists every accepted classification, for enum rules.
var CompetitiveValues = []string{
	CompetitiveFriendly,
	CompetitiveLadder,
	CompetitiveTournament,
	CompetitiveLeague,
	CompetitiveNoStats,
}

// Victory outcomes. The prefix determines which side the winner played.
const (
	VictoryFPRing     = "Free People Ring"
	VictoryFPMilitary = "Free People Military"
	VictoryConcededFP = "Conceded FP won"
	VictorySPRing     = "Shadow Ring"
	VictorySPMilitary = "Shadow Military"
	VictoryConcededSP = "Conceded SP won"
)

// VictoryValues lists every accepted outcome, for enum rules.
var VictoryValues = []string{
	VictoryFPRing,
	VictoryFPMilitary,
	VictoryConcededFP,
	VictorySPRing,
	VictorySPMilitary,
	VictoryConcededSP,
}

// DividerName marks the ladder row separating active players from the
// retained inactive block.
const DividerName = "Inactive players"

// LadderEligible reports whether a classification counts toward ranked
// play.
func LadderEligible(competitive string) bool {
	return strings.HasPrefix(competitive, LadderMarker)
}

// HasStats reports whether a classification carries remembered game
// statistics.
func HasStats(competitive string) bool {
	return competitive != CompetitiveNoStats
}

// VictorySide derives the winner's side from a victory outcome.
func VictorySide(victory string) ladder.Side {
	if strings.HasPrefix(victory, "Free People") || victory == VictoryConcededFP {
		return ladder.Free
	}
	return ladder.Shadow
}
