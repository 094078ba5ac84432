package member

// TierName is a contributor tier label.
type TierName string

const (
	TierMember TierName = "Member"
	TierBronze TierName = "Bronze"
	TierSilver TierName = "Silver"
	TierGold   TierName = "Gold"
)

// Tier maps accumulated points to a tier label. This is the only tier
// mapping in the codebase; every display and export goes through it.
func Tier(points int) TierName {
	switch {
	case points >= 300:
		return TierGold
	case points >= 200:
		return TierSilver
	case points >= 100:
		return TierBronze
	default:
		return TierMember
	}
}
