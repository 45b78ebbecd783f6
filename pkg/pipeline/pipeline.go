package pipeline

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/auditops/cadence/pkg/node"
	"github.com/auditops/cadence/pkg/observability"
	"github.com/auditops/cadence/pkg/tabular"
)

// Pipeline computes cadence scores and due dates for one node variant.
// A Pipeline is stateless between runs; each run operates on its own
// input tables and returns fresh output tables.
type Pipeline struct {
	cfg    *node.Config
	log    logrus.FieldLogger
	status StatusFunc

	logs []string
}

// New creates a pipeline for the given node variant.
func New(log logrus.FieldLogger, cfg *node.Config, status StatusFunc) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid node configuration: %w", err)
	}

	return &Pipeline{
		cfg:    cfg,
		log:    log.WithField("component", "pipeline").WithField("node", cfg.Name),
		status: status,
	}, nil
}

// statusf records a progress message, mirrors it to the logger, and
// forwards it to the status callback when one is registered.
func (p *Pipeline) statusf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	p.logs = append(p.logs, msg)
	p.log.Info(strings.TrimSpace(msg))
	if p.status != nil {
		p.status(msg)
	}
}

// runState carries the intermediate tables between stages.
type runState struct {
	inputs Inputs

	armt    *tabular.Table
	outflow *normalized
	nodes   []string
	cadence *tabular.Table
	master  *tabular.Table
}

func (p *Pipeline) runNormalize(s *runState) error {
	s.armt = p.normalizeARMT(s.inputs.ARMT)
	s.outflow = p.normalizeOutflow(s.inputs.Outflow)
	return nil
}

func (p *Pipeline) runEnumerate(s *runState) error {
	s.nodes = p.enumerateNodes(s.armt)
	if len(s.nodes) == 0 {
		p.statusf("No %s nodes created - check your ARMT data", p.cfg.Name)
		return fmt.Errorf("%w: %s", ErrNoNodes, p.cfg.Name)
	}
	observability.NodesEnumerated.WithLabelValues(p.cfg.Name).Set(float64(len(s.nodes)))
	return nil
}

func (p *Pipeline) runBuild(s *runState) error {
	s.cadence = p.buildCadence(s.nodes, s.armt, s.outflow)
	return nil
}

func (p *Pipeline) runMaster(s *runState) error {
	s.cadence, s.master = p.applyMaster(s.cadence, s.inputs.Master)
	return nil
}

func (p *Pipeline) runMerge(s *runState) error {
	s.cadence = p.mergeColumns(s.cadence)
	return nil
}

func (p *Pipeline) runTransition(s *runState) error {
	s.cadence = p.updateScores(s.cadence)
	return nil
}

func (p *Pipeline) runDueDates(s *runState) error {
	s.cadence = p.calculateDueDates(s.cadence)
	return nil
}

func (p *Pipeline) runFinalize(s *runState) error {
	s.cadence = p.finalize(s.cadence)
	return nil
}

// Run executes the pipeline over the three input tables and returns the
// finalized cadence table plus passthrough copies of the normalized ARMT
// and master tables. Cell-level malformations never fail a run; an empty
// node universe and unexpected panics surface as unsuccessful results,
// not errors, so a hosting service keeps serving.
func (p *Pipeline) Run(ctx context.Context, inputs Inputs, period string) *Result {
	p.logs = nil
	runID := uuid.NewString()
	started := time.Now()

	result := &Result{
		Node:   p.cfg.Name,
		Period: period,
		RunID:  runID,
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			p.statusf("Error: %v", recovered)
			p.statusf("Details: %s", debug.Stack())
			result.Success = false
			result.Error = fmt.Sprint(recovered)
			result.Logs = p.logs
			observability.RecordRun(p.cfg.Name, "failed", time.Since(started))
		}
	}()

	p.statusf("Starting %s Cadence processing for %s", p.cfg.Name, period)

	if inputs.ARMT == nil || inputs.Outflow == nil || inputs.Master == nil {
		result.Error = ErrMissingInput.Error()
		result.Logs = p.logs
		observability.RecordRun(p.cfg.Name, "failed", time.Since(started))
		return result
	}

	if err := ctx.Err(); err != nil {
		result.Error = err.Error()
		result.Logs = p.logs
		observability.RecordRun(p.cfg.Name, "canceled", time.Since(started))
		return result
	}

	state := &runState{inputs: inputs}

	graph, err := newStageGraph(p)
	if err != nil {
		result.Error = err.Error()
		result.Logs = p.logs
		observability.RecordRun(p.cfg.Name, "failed", time.Since(started))
		return result
	}

	if err := graph.run(state); err != nil {
		result.Error = err.Error()
		result.Logs = p.logs
		observability.RecordRun(p.cfg.Name, "failed", time.Since(started))
		return result
	}

	filtered := state.cadence.Filter(func(r tabular.Row) bool {
		score, ok := r.Get(ColCadenceScore).AsNumber()
		return ok && score > 0
	})

	p.statusf("%s Cadence for %s is ready!", p.cfg.Name, period)
	p.statusf("Total records: %d", state.cadence.Len())
	p.statusf("Valid records: %d", filtered.Len())

	result.Success = true
	result.Cadence = state.cadence
	result.CadenceFiltered = filtered
	result.Master = state.master
	result.ARMT = state.armt
	result.Logs = p.logs

	observability.RecordRun(p.cfg.Name, "success", time.Since(started))
	observability.RowsProcessed.WithLabelValues(p.cfg.Name).Add(float64(state.cadence.Len()))

	return result
}
