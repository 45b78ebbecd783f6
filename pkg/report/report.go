// Package report renders human-readable run summaries from pipeline
// results.
package report

import (
	"bytes"
	"fmt"
	"sort"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/auditops/cadence/pkg/pipeline"
)

const summaryTemplate = `Cadence run {{ .RunID | trunc 8 }} ({{ .Node }}, {{ .Period }})
Status: {{ if .Success }}success{{ else }}failed{{ if .Error }} - {{ .Error }}{{ end }}{{ end }}
{{- if .Success }}
Records: {{ .Total }} total, {{ .Valid }} valid
Score distribution:
{{- range .Scores }}
  {{ printf "%3d" .Tier }}d: {{ repeat .Bar "#" }} {{ .Count }}
{{- end }}
{{- end }}
`

// ScoreBucket is one cadence tier's share of the output.
type ScoreBucket struct {
	Tier  int
	Count int
	Bar   int
}

// Summary is the template input built from a pipeline result.
type Summary struct {
	RunID   string
	Node    string
	Period  string
	Success bool
	Error   string
	Total   int
	Valid   int
	Scores  []ScoreBucket
}

// Renderer renders run summaries with Sprig template functions.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer creates a summary renderer.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("summary").Funcs(sprig.TxtFuncMap()).Parse(summaryTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse summary template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render produces the textual summary of one run.
func (r *Renderer) Render(result *pipeline.Result) (string, error) {
	summary := Summary{
		RunID:   result.RunID,
		Node:    result.Node,
		Period:  result.Period,
		Success: result.Success,
		Error:   result.Error,
	}

	if result.Success {
		summary.Total = result.Cadence.Len()
		summary.Valid = result.CadenceFiltered.Len()
		summary.Scores = scoreBuckets(result)
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, summary); err != nil {
		return "", fmt.Errorf("failed to render summary: %w", err)
	}

	return buf.String(), nil
}

// scoreBuckets tallies rows per cadence tier, scaling bars to at most
// twenty characters.
func scoreBuckets(result *pipeline.Result) []ScoreBucket {
	counts := make(map[int]int)
	for _, row := range result.Cadence.Rows {
		if score, ok := row.Get(pipeline.ColCadenceScore).AsNumber(); ok {
			counts[int(score)]++
		}
	}

	tiers := make([]int, 0, len(counts))
	maxCount := 0
	for tier, count := range counts {
		tiers = append(tiers, tier)
		if count > maxCount {
			maxCount = count
		}
	}
	sort.Ints(tiers)

	buckets := make([]ScoreBucket, 0, len(tiers))
	for _, tier := range tiers {
		bar := counts[tier]
		if maxCount > 20 {
			bar = bar * 20 / maxCount
			if bar == 0 {
				bar = 1
			}
		}
		buckets = append(buckets, ScoreBucket{Tier: tier, Count: counts[tier], Bar: bar})
	}

	return buckets
}
