package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/auditops/cadence/pkg/tabular"
)

func present(n float64) ncSignal { return ncSignal{value: n, present: true} }

func absent() ncSignal { return ncSignal{} }

func TestNextCadence(t *testing.T) {
	tests := []struct {
		name    string
		current int
		prev    tabular.Value
		nc      ncSignal
		prevNC  ncSignal
		risk    float64
		want    int
	}{
		{
			name:    "no previous tier keeps current",
			current: Tier60, prev: tabular.Missing(),
			nc: present(0), prevNC: present(0), risk: 2,
			want: Tier60,
		},
		{
			name:    "non-numeric previous tier keeps current",
			current: Tier90, prev: tabular.String("unknown"),
			nc: present(0), prevNC: present(0), risk: 3,
			want: Tier90,
		},
		{
			name:    "tier 30 holds at floor on high nc",
			current: Tier30, prev: tabular.String("30"),
			nc: present(12), prevNC: present(0), risk: 1,
			want: Tier30,
		},
		{
			name:    "tier 30 promotes when both periods clean",
			current: Tier30, prev: tabular.String("30"),
			nc: present(3), prevNC: present(2), risk: 1,
			want: Tier60,
		},
		{
			name:    "tier 30 promotes when history absent",
			current: Tier30, prev: tabular.String("30"),
			nc: present(3), prevNC: absent(), risk: 1,
			want: Tier60,
		},
		{
			name:    "tier 60 demotes on high nc",
			current: Tier60, prev: tabular.String("60"),
			nc: present(10), prevNC: present(0), risk: 2,
			want: Tier30,
		},
		{
			name:    "tier 60 holds after recent high",
			current: Tier60, prev: tabular.String("60"),
			nc: present(2), prevNC: present(11), risk: 2,
			want: Tier60,
		},
		{
			name:    "tier 60 holds when current absent after high",
			current: Tier60, prev: tabular.String("60"),
			nc: absent(), prevNC: present(11), risk: 2,
			want: Tier60,
		},
		{
			name:    "tier 60 promotes when both clean",
			current: Tier60, prev: tabular.String("60"),
			nc: present(1), prevNC: present(1), risk: 2,
			want: Tier90,
		},
		{
			name:    "tier 90 demotes on high nc",
			current: Tier90, prev: tabular.String("90"),
			nc: present(15), prevNC: present(0), risk: 3,
			want: Tier60,
		},
		{
			name:    "tier 90 low risk holds instead of promoting",
			current: Tier90, prev: tabular.String("90"),
			nc: present(0), prevNC: present(0), risk: 2,
			want: Tier90,
		},
		{
			name:    "tier 90 high risk promotes to 180",
			current: Tier90, prev: tabular.String("90"),
			nc: present(0), prevNC: present(0), risk: 5,
			want: Tier180,
		},
		{
			name:    "tier 180 demotes on high nc",
			current: Tier180, prev: tabular.String("180"),
			nc: present(15), prevNC: present(0), risk: 4,
			want: Tier90,
		},
		{
			name:    "tier 180 below threshold holds after recent high",
			current: Tier180, prev: tabular.String("180"),
			nc: present(14), prevNC: present(20), risk: 4,
			want: Tier180,
		},
		{
			name:    "tier 180 risk 4 holds on clean periods",
			current: Tier180, prev: tabular.String("180"),
			nc: present(5), prevNC: present(3), risk: 4,
			want: Tier180,
		},
		{
			name:    "tier 180 other risk promotes to 365",
			current: Tier180, prev: tabular.String("180"),
			nc: present(5), prevNC: present(3), risk: 5,
			want: Tier365,
		},
		{
			name:    "tier 180 both absent risk 4 holds",
			current: Tier180, prev: tabular.String("180"),
			nc: absent(), prevNC: absent(), risk: 4,
			want: Tier180,
		},
		{
			name:    "tier 180 both absent other risk promotes",
			current: Tier180, prev: tabular.String("180"),
			nc: absent(), prevNC: absent(), risk: 3,
			want: Tier365,
		},
		{
			name:    "tier 365 demotes on high nc",
			current: Tier365, prev: tabular.String("365"),
			nc: present(20), prevNC: present(0), risk: 5,
			want: Tier180,
		},
		{
			name:    "tier 365 stays at ceiling when clean",
			current: Tier365, prev: tabular.String("365"),
			nc: present(0), prevNC: present(0), risk: 5,
			want: Tier365,
		},
		{
			name:    "tier 365 both absent stays",
			current: Tier365, prev: tabular.String("365"),
			nc: absent(), prevNC: absent(), risk: 5,
			want: Tier365,
		},
		{
			name:    "non-tier previous value keeps current",
			current: Tier60, prev: tabular.String("45.5"),
			nc: present(0), prevNC: present(0), risk: 2,
			want: Tier60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nextCadence(tt.current, tt.prev, tt.nc, tt.prevNC, tt.risk)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSignalOf(t *testing.T) {
	s := signalOf(tabular.Number(7))
	assert.True(t, s.present)
	assert.InDelta(t, 7.0, s.value, 0.0001)

	assert.False(t, signalOf(tabular.Missing()).present)
	assert.False(t, signalOf(tabular.String("not Found!")).present)

	s = signalOf(tabular.String("12"))
	assert.True(t, s.present)
}
