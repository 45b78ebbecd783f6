package pipeline

import (
	"fmt"

	"github.com/heimdalr/dag"
)

// Stage identifiers, in pipeline order.
const (
	StageNormalize  = "normalize"
	StageEnumerate  = "enumerate"
	StageBuild      = "build"
	StageMaster     = "master"
	StageMerge      = "merge"
	StageTransition = "transition"
	StageDueDates   = "due-dates"
	StageFinalize   = "finalize"
)

// stageFunc advances the run state by one stage.
type stageFunc func(*runState) error

// stageGraph orders the pipeline stages through an explicit dependency
// graph. The stages form a chain today; keeping them as graph vertices
// means a stage reordering or a new branch is a wiring change, not a
// rewrite of the run loop.
type stageGraph struct {
	d     *dag.DAG
	funcs map[string]stageFunc
}

func newStageGraph(p *Pipeline) (*stageGraph, error) {
	g := &stageGraph{
		d: dag.NewDAG(),
		funcs: map[string]stageFunc{
			StageNormalize:  p.runNormalize,
			StageEnumerate:  p.runEnumerate,
			StageBuild:      p.runBuild,
			StageMaster:     p.runMaster,
			StageMerge:      p.runMerge,
			StageTransition: p.runTransition,
			StageDueDates:   p.runDueDates,
			StageFinalize:   p.runFinalize,
		},
	}

	chain := []string{
		StageNormalize, StageEnumerate, StageBuild, StageMaster,
		StageMerge, StageTransition, StageDueDates, StageFinalize,
	}
	for _, id := range chain {
		if err := g.d.AddVertexByID(id, id); err != nil {
			return nil, fmt.Errorf("failed to add stage %s: %w", id, err)
		}
	}
	for i := 1; i < len(chain); i++ {
		if err := g.d.AddEdge(chain[i-1], chain[i]); err != nil {
			return nil, fmt.Errorf("failed to link stage %s: %w", chain[i], err)
		}
	}

	return g, nil
}

// order returns the stage identifiers in execution order.
func (g *stageGraph) order() ([]string, error) {
	roots := g.d.GetRoots()
	if len(roots) != 1 {
		return nil, fmt.Errorf("stage graph must have exactly one root, got %d", len(roots))
	}

	var root string
	for id := range roots {
		root = id
	}

	descendants, err := g.d.GetOrderedDescendants(root)
	if err != nil {
		return nil, fmt.Errorf("failed to order stages: %w", err)
	}

	return append([]string{root}, descendants...), nil
}

// run executes every stage against the state in dependency order.
func (g *stageGraph) run(state *runState) error {
	order, err := g.order()
	if err != nil {
		return err
	}
	for _, id := range order {
		if err := g.funcs[id](state); err != nil {
			return err
		}
	}
	return nil
}
