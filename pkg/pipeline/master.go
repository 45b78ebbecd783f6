package pipeline

import (
	"strconv"

	"github.com/auditops/cadence/pkg/tabular"
)

// prevCadenceVal renders a previous cadence score looked up from the
// master file: integral form for numeric cells, raw text otherwise.
func prevCadenceVal(v tabular.Value) tabular.Value {
	if v.IsMissing() {
		return tabular.Missing()
	}
	if n, ok := v.AsNumber(); ok {
		return tabular.String(strconv.Itoa(int(n)))
	}
	return tabular.String(cell(v))
}

// applyMaster re-derives this variant's join keys on the previous period's
// cadence output and joins back Previous Cadence, Previous Due Date, and
// Previous NC. The returned master copy carries the derived key columns
// for audit download.
func (p *Pipeline) applyMaster(cadence, master *tabular.Table) (*tabular.Table, *tabular.Table) {
	p.statusf("Applying %s master lookups...", p.cfg.Name)

	keyCol := ColCombinedClasses
	if p.cfg.GroupByChild {
		keyCol = ColChildClassKey
	}

	var lookup1, lookup2 map[string]tabular.Row
	if p.cfg.GroupByChild {
		lookup1 = master.LookupBy(ColChildClassKey)
	} else {
		// Master is a prior cadence output, so the composite keys are
		// rebuilt from its own column names, not raw ARMT ones.
		master = master.Map(func(r tabular.Row) tabular.Row {
			parent := cell(r.Get(ColParentClasses))
			child := cell(r.Get(ColChildClasses))
			r[ColCombinedClasses] = tabular.String(compositeKey(parent, child, cell(r.Get(ColSource))))
			r[ColCombinedClasses+secondarySuffix] = tabular.String(compositeKey(parent, child, cell(r.Get(ColARC))))
			return r
		})
		master.AddColumn(ColCombinedClasses)
		master.AddColumn(ColCombinedClasses + secondarySuffix)
		lookup1 = master.LookupBy(ColCombinedClasses)
		lookup2 = master.LookupBy(ColCombinedClasses + secondarySuffix)
	}

	hasNC := master.HasColumn(ColNCCount)

	cadence = cadence.Map(func(r tabular.Row) tabular.Row {
		key := cell(r.Get(keyCol))

		r[ColPrevCadence] = prevCadenceVal(lookupVal(lookup1, key, ColCadenceScore))
		r[ColPrevDueDate] = tabular.String(lookupVal(lookup1, key, ColDueDate).RenderDate())
		if hasNC {
			r[ColPrevNC] = lookupVal(lookup1, key, ColNCCount)
		} else {
			r[ColPrevNC] = tabular.Missing()
		}

		if lookup2 != nil {
			r[ColPrevCadence+secondarySuffix] = prevCadenceVal(lookupVal(lookup2, key, ColCadenceScore))
			r[ColPrevDueDate+secondarySuffix] = tabular.String(lookupVal(lookup2, key, ColDueDate).RenderDate())
		}
		return r
	})
	cadence.AddColumn(ColPrevCadence)
	cadence.AddColumn(ColPrevDueDate)
	cadence.AddColumn(ColPrevNC)
	if !p.cfg.GroupByChild {
		cadence.AddColumn(ColPrevCadence + secondarySuffix)
		cadence.AddColumn(ColPrevDueDate + secondarySuffix)
	}

	p.statusf("%s Master lookups applied", p.cfg.Name)
	return cadence, master
}

// mergePairs are the primary/secondary column pairs reconciled after the
// master join: the primary keeps its value unless it is missing, in which
// case the geography-pair (ARC) match fills in.
var mergePairs = []string{
	ColProgram, ColPolicies, ColChildClasses, ColParentClasses,
	ColResolvedDate, ColRootCause, ColPrevCadence, ColPrevDueDate,
	ColARC, ColSource, ColNCCount, ColDestination,
}

// mergeColumns implements "prefer exact composite match, fall back to the
// source-destination match" for composite-key variants.
func (p *Pipeline) mergeColumns(cadence *tabular.Table) *tabular.Table {
	if p.cfg.GroupByChild {
		return cadence
	}
	p.statusf("Merging columns...")

	cadence = cadence.Map(func(r tabular.Row) tabular.Row {
		for _, col := range mergePairs {
			if r.Get(col).IsMissing() {
				r[col] = r.Get(col + secondarySuffix)
			}
		}
		return r
	})

	p.statusf("Columns merged")
	return cadence
}
