package models

// Activity is a game or event a party can be formed for
type Activity string

// Mode is a playlist or ruleset within an activity
type Mode string

const (
	ActivityValorant  Activity = "valorant"
	ActivityApex      Activity = "apex"
	ActivityOverwatch Activity = "overwatch"
	ActivityCustom    Activity = "custom"
)

const (
	ModeCompetitive Mode = "competitive"
	ModeUnrated     Mode = "unrated"
	ModeSpikeRush   Mode = "spike_rush"
	ModeRanked      Mode = "ranked"
	ModePubs        Mode = "pubs"
	ModeMixtape     Mode = "mixtape"
	ModeQuickplay   Mode = "quickplay"
	ModeArcade      Mode = "arcade"
	ModeAny         Mode = "any"
)

// DefaultActivities maps each supported activity to its allowed modes
var DefaultActivities = map[Activity][]Mode{
	ActivityValorant:  {ModeCompetitive, ModeUnrated, ModeSpikeRush},
	ActivityApex:      {ModeRanked, ModePubs, ModeMixtape},
	ActivityOverwatch: {ModeCompetitive, ModeQuickplay, ModeArcade},
	ActivityCustom:    {ModeAny},
}

// ValidMode reports whether the mode is allowed for the activity under the
// given catalog
func ValidMode(catalog map[Activity][]Mode, activity Activity, mode Mode) bool {
	modes, ok := catalog[activity]
	if !ok {
		return false
	}
	for _, m := range modes {
		if m == mode {
			return true
		}
	}
	return false
}
