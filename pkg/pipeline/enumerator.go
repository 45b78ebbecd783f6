package pipeline

import (
	"sort"

	"github.com/auditops/cadence/pkg/tabular"
)

// enumerateNodes derives the universe of distinct node keys belonging to
// this variant. Composite-key variants take the primary key of matching
// AmazonGlobal rows and the secondary key of matching CrossListing rows;
// the single-key variant unions child classes admitted by its geography
// rules. The returned keys are deduplicated and sorted for determinism.
func (p *Pipeline) enumerateNodes(armt *tabular.Table) []string {
	p.statusf("Creating %s node mappings...", p.cfg.Name)

	set := make(map[string]struct{})
	if p.cfg.GroupByChild {
		p.enumerateByChild(armt, set)
	} else {
		p.enumerateComposite(armt, set)
	}

	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	p.statusf("Created %d unique %s nodes", len(keys), p.cfg.Name)
	return keys
}

func (p *Pipeline) enumerateComposite(armt *tabular.Table, set map[string]struct{}) {
	for _, r := range armt.Rows {
		program := cell(r.Get(colProgram))
		source := cell(r.Get(colSource))
		switch {
		case program == programAmazonGlobal && p.cfg.IsCoreSource(source):
			set[cell(r.Get(colKey))] = struct{}{}
		case program == programCrossListing && p.cfg.IsCrossSource(source):
			set[cell(r.Get(colKey2))] = struct{}{}
		}
	}
}

func (p *Pipeline) enumerateByChild(armt *tabular.Table, set map[string]struct{}) {
	for _, r := range armt.Rows {
		program := cell(r.Get(colProgram))
		sources := splitList(cell(r.Get(colSource)))
		child := cell(r.Get(colChildClass))

		if program == programAmazonGlobal {
			for _, src := range sources {
				if p.cfg.IsCoreSource(src) {
					set[child] = struct{}{}
				}
			}
		}

		if program == programCrossListing {
			for _, dest := range splitList(cell(r.Get(colDestination))) {
				for _, src := range sources {
					if p.cfg.IsCrossDestination(dest) && !p.cfg.IsExcludedSource(src) {
						set[child] = struct{}{}
					}
				}
			}
		}
	}
}
