package pipeline

import (
	"github.com/auditops/cadence/pkg/tabular"
)

// ncSignal is one period's non-compliance reading: a count that may be
// absent entirely.
type ncSignal struct {
	value   float64
	present bool
}

func signalOf(v tabular.Value) ncSignal {
	n, ok := v.AsNumber()
	return ncSignal{value: n, present: ok}
}

// riskIn reports exact membership of the coerced risk score in tiers.
func riskIn(risk float64, tiers ...int) bool {
	for _, t := range tiers {
		if risk == float64(t) {
			return true
		}
	}
	return false
}

// nextCadence is the deterministic state-transition rule mapping the
// previous cadence tier and the two NC readings to the new cadence score.
//
// The table is a monotone feedback controller: NC at or above the tier's
// threshold demotes one tier (more frequent audits); both periods below
// threshold promotes one tier (capped by risk at the high end); a current
// reading that is absent while the previous period showed non-compliance
// holds steady instead of reacting to one month's missing data.
//
// When no previous cadence tier is known, or no rule matches, the
// risk-derived current score carries forward unchanged.
func nextCadence(current int, prevCadence tabular.Value, nc, prevNC ncSignal, risk float64) int {
	prev, ok := prevCadence.AsNumber()
	if !ok {
		return current
	}

	tier := int(prev)
	if prev != float64(tier) {
		return current
	}
	th := ncThreshold(tier)

	switch tier {
	case Tier30, Tier60:
		switch {
		case nc.present && nc.value >= th:
			return demoteTier[tier]
		case nc.present && nc.value < th && prevNC.present && prevNC.value >= th:
			return tier
		case !nc.present && prevNC.present && prevNC.value >= th:
			return tier
		case nc.present && nc.value < th && (!prevNC.present || prevNC.value < th):
			return promoteTier[tier]
		}

	case Tier90:
		switch {
		case nc.present && nc.value >= th:
			return demoteTier[tier]
		case nc.present && nc.value < th && prevNC.present && prevNC.value >= th:
			return tier
		case !nc.present && prevNC.present && prevNC.value >= th:
			return tier
		case nc.present && nc.value < th && (!prevNC.present || prevNC.value < th):
			// Promotion out of 90 is gated on risk: low-risk nodes hold.
			if riskIn(risk, 1, 2, 3) {
				return Tier90
			}
			if riskIn(risk, 4, 5) {
				return Tier180
			}
		}

	case Tier180:
		switch {
		case nc.present && nc.value >= th:
			return demoteTier[tier]
		case nc.present && nc.value < th && prevNC.present && prevNC.value >= th:
			return tier
		case !nc.present && prevNC.present && prevNC.value >= th:
			return tier
		case nc.present && nc.value < th && (!prevNC.present || prevNC.value < th):
			if risk == 4 {
				return Tier180
			}
			return Tier365
		case !nc.present && !prevNC.present:
			if risk == 4 {
				return Tier180
			}
			return Tier365
		}

	case Tier365:
		switch {
		case nc.present && nc.value >= th:
			return demoteTier[tier]
		case nc.present && nc.value < th && prevNC.present && prevNC.value >= th:
			return tier
		case !nc.present && prevNC.present && prevNC.value >= th:
			return tier
		case nc.present && nc.value < th && (!prevNC.present || prevNC.value < th):
			return Tier365
		case !nc.present && !prevNC.present:
			return Tier365
		}
	}

	return current
}

// updateScores applies the transition rule as one whole-column pass.
func (p *Pipeline) updateScores(cadence *tabular.Table) *tabular.Table {
	p.statusf("Updating %s cadence scores...", p.cfg.Name)

	cadence = cadence.Map(func(r tabular.Row) tabular.Row {
		current, _ := r.Get(ColCadenceScore).AsNumber()
		risk, _ := r.Get(ColRiskScore).AsNumber()

		next := nextCadence(
			int(current),
			r.Get(ColPrevCadence),
			signalOf(r.Get(ColNCCount)),
			signalOf(r.Get(ColPrevNC)),
			risk,
		)
		r[ColCadenceScore] = tabular.Number(float64(next))
		return r
	})

	p.statusf("%s Cadence scores updated", p.cfg.Name)
	return cadence
}
