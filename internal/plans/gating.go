package plans

type Section string

const (
	SectionScore           Section = "score"
	SectionGoalConnection  Section = "goal_connection"
	SectionPaywall         Section = "paywall"
	SectionAIAnalysis      Section = "ai_analysis"
	SectionResetProtocol   Section = "reset_protocol"
	SectionProbioticGuide  Section = "probiotic_guide"
	SectionFastingProtocol Section = "fasting_protocol"
	SectionUpgradeOffer    Section = "upgrade_offer"
)

// unlocks maps each paid section to the lowest tier that shows it.
var unlocks = []struct {
	section Section
	tier    Tier
}{
	{SectionAIAnalysis, TierStarter},
	{SectionResetProtocol, TierStandard},
	{SectionProbioticGuide, TierPremium},
	{SectionFastingProtocol, TierComplete},
}

// Sections lists what a holder of t sees on the report, in display order.
func Sections(t Tier) []Section {
	out := []Section{SectionScore, SectionGoalConnection}
	if t == TierNone || !t.Valid() {
		return append(out, SectionPaywall)
	}
	for _, u := range unlocks {
		if t.AtLeast(u.tier) {
			out = append(out, u.section)
		}
	}
	if _, err := UpgradeAmount(t); err == nil {
		out = append(out, SectionUpgradeOffer)
	}
	return out
}

func Visible(t Tier, s Section) bool {
	for _, v := range Sections(t) {
		if v == s {
			return true
		}
	}
	return false
}

// FeaturesKey is the catalogue key holding the paywall bullets for t.
func FeaturesKey(t Tier) string {
	return "plans.features." + string(t)
}

// NameKey is the catalogue key for the tier's display name.
func NameKey(t Tier) string {
	return "plans." + string(t)
}
