package pipeline

// This file holds the business-policy tables driving cadence scoring.
// They change independently of the pipeline code and are kept as named
// values rather than inline literals.

// Cadence tiers in days.
const (
	Tier30  = 30
	Tier60  = 60
	Tier90  = 90
	Tier180 = 180
	Tier365 = 365
)

// DefaultCadence is assigned when a risk score has no table entry or a
// cadence cell fails coercion during finalization.
const DefaultCadence = Tier30

// DefaultRiskScore replaces missing or zero risk scores.
const DefaultRiskScore = 1

// riskToCadence maps the externally supplied 0-5 risk score to the
// baseline re-audit interval in days.
var riskToCadence = map[int]int{
	0: Tier30,
	1: Tier30,
	2: Tier60,
	3: Tier90,
	4: Tier180,
	5: Tier365,
}

// Non-compliance step-down thresholds per tier. At or above the threshold
// the tier demotes (more frequent audits); below it, with the previous
// period also below, the tier promotes.
const (
	ncThresholdLow  = 10 // tiers 30/60/90
	ncThresholdHigh = 15 // tiers 180/365
)

// ncThreshold returns the step-down threshold for a tier.
func ncThreshold(tier int) float64 {
	if tier >= Tier180 {
		return ncThresholdHigh
	}
	return ncThresholdLow
}

// demoteTier maps a tier to the tier below it. Tier 30 is the floor.
var demoteTier = map[int]int{
	Tier30:  Tier30,
	Tier60:  Tier30,
	Tier90:  Tier60,
	Tier180: Tier90,
	Tier365: Tier180,
}

// promoteTier maps a tier to the tier above it for the unconditional
// promotions; tiers 90 and 180 promote conditionally on risk and are
// handled in the transition engine.
var promoteTier = map[int]int{
	Tier30: Tier60,
	Tier60: Tier90,
}

// dueOffsetDays returns the day offset added to the resolved date for a
// (current NC, cadence tier) pair, or ok=false when no offset applies.
//
// The two ranges (<10 with >=10, and <15 with >=15) are applied
// independently and populate disjoint tier columns; the later range's
// result wins where both would match, mirroring the policy table exactly.
func dueOffsetDays(nc float64, tier int) (int, bool) {
	days, ok := 0, false
	if nc < ncThresholdLow {
		switch tier {
		case Tier30:
			days, ok = 30, true
		case Tier60:
			days, ok = 60, true
		case Tier90:
			days, ok = 90, true
		}
	}
	if nc < ncThresholdHigh {
		switch tier {
		case Tier180:
			days, ok = 180, true
		case Tier365:
			days, ok = 365, true
		}
	}
	if nc >= ncThresholdLow {
		switch tier {
		case Tier30:
			days, ok = 30, true
		case Tier60:
			days, ok = 30, true
		case Tier90:
			days, ok = 60, true
		}
	}
	if nc >= ncThresholdHigh {
		switch tier {
		case Tier180:
			days, ok = 90, true
		case Tier365:
			days, ok = 180, true
		}
	}
	return days, ok
}

// cadenceForRisk maps a coerced risk score to its baseline cadence tier.
func cadenceForRisk(risk float64) int {
	if tier, ok := riskToCadence[int(risk)]; ok && risk == float64(int(risk)) {
		return tier
	}
	return DefaultCadence
}
