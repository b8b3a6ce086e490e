package gacha

// BannerRevenue projects gross revenue attributable to a banner's pull
// volume. A macro estimate for planning, not a transaction ledger:
// revenue = avgPullsPerUser * activeUsers * pullCost.gems * gemValue,
// linear in every factor and independent of individual pull outcomes.
func BannerRevenue(b GachaBanner, avgPullsPerUser float64, activeUsers int, gemValue float64) float64 {
	if avgPullsPerUser < 0 || activeUsers < 0 || gemValue < 0 {
		return 0
	}
	return avgPullsPerUser * float64(activeUsers) * float64(b.PullCost.Gems) * gemValue
}
