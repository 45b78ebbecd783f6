package pipeline

import (
	"github.com/auditops/cadence/pkg/tabular"
)

// calculateDueDates assigns a due date to every row with a known NC count
// and resolved date by adding the policy offset to the resolved date.
// Rows without a current NC signal carry forward the previous period's
// cadence score and due date instead of recomputing.
func (p *Pipeline) calculateDueDates(cadence *tabular.Table) *tabular.Table {
	p.statusf("Calculating %s due dates...", p.cfg.Name)

	cadence.AddColumn(ColDueDate)

	p.statusf("   Processing due dates...")
	cadence = cadence.Map(func(r tabular.Row) tabular.Row {
		r[ColDueDate] = tabular.Missing()

		nc, hasNC := r.Get(ColNCCount).AsNumber()
		resolved := r.Get(ColResolvedDate)
		if !hasNC || resolved.IsMissing() {
			return r
		}

		score, _ := r.Get(ColCadenceScore).AsNumber()
		if days, ok := dueOffsetDays(nc, int(score)); ok {
			r[ColDueDate] = tabular.AddDays(resolved, days)
		}
		return r
	})

	p.statusf("   Handling fallback to previous values...")
	cadence = cadence.Map(func(r tabular.Row) tabular.Row {
		if !r.Get(ColNCCount).IsMissing() {
			return r
		}
		// No current signal: carry forward the last known state.
		prevCad := r.Get(ColPrevCadence)
		if n, ok := prevCad.AsNumber(); ok {
			r[ColCadenceScore] = tabular.Number(float64(int(n)))
		}
		prevDue := r.Get(ColPrevDueDate)
		if !prevDue.IsMissing() {
			r[ColDueDate] = tabular.String(cell(prevDue))
		}
		return r
	})

	p.statusf("%s Due dates calculated", p.cfg.Name)
	return cadence
}

// secondaryColumns lists the ARC-keyed working columns dropped at
// finalization for composite-key variants.
var secondaryColumns = []string{
	ColProgram + secondarySuffix, ColPolicies + secondarySuffix,
	ColChildClasses + secondarySuffix, ColParentClasses + secondarySuffix,
	ColResolvedDate + secondarySuffix, ColRootCause + secondarySuffix,
	ColCadenceScore + secondarySuffix, ColPrevCadence + secondarySuffix,
	ColPrevDueDate + secondarySuffix, ColNCCount + secondarySuffix,
	ColRiskScore + secondarySuffix, ColSource + secondarySuffix,
	ColDestination + secondarySuffix, ColARC + secondarySuffix,
	ColCombinedClasses + secondarySuffix,
}

// finalize drops the secondary working columns, remaps risk score 0 to 1,
// coerces the cadence score to an integer with the default on failure,
// and re-normalizes the due date to its canonical string form.
func (p *Pipeline) finalize(cadence *tabular.Table) *tabular.Table {
	p.statusf("Finalizing %s cadence...", p.cfg.Name)

	if !p.cfg.GroupByChild {
		cadence = cadence.DropColumns(secondaryColumns...)
	}

	cadence = cadence.Map(func(r tabular.Row) tabular.Row {
		if risk, ok := r.Get(ColRiskScore).AsNumber(); ok && risk == 0 {
			r[ColRiskScore] = tabular.Number(DefaultRiskScore)
		}
		if score, ok := r.Get(ColCadenceScore).AsNumber(); ok {
			r[ColCadenceScore] = tabular.Number(float64(int(score)))
		} else {
			r[ColCadenceScore] = tabular.Number(DefaultCadence)
		}
		r[ColDueDate] = tabular.String(r.Get(ColDueDate).RenderDate())
		return r
	})

	p.statusf("%s Cadence finalized", p.cfg.Name)
	return cadence
}
