package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validEntry() Entry {
	return Entry{
		Node:        "BLR",
		Schedule:    "0 6 1 * *",
		ARMTPath:    "/data/armt.xlsx",
		OutflowPath: "/data/outflow.xlsx",
		MasterPath:  "/data/master.xlsx",
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Entry)
		wantErr error
	}{
		{name: "valid entry", mutate: func(_ *Entry) {}},
		{name: "descriptor schedule", mutate: func(e *Entry) { e.Schedule = "@monthly" }},
		{name: "missing node", mutate: func(e *Entry) { e.Node = "" }, wantErr: ErrNodeRequired},
		{name: "missing schedule", mutate: func(e *Entry) { e.Schedule = "" }, wantErr: ErrScheduleRequired},
		{name: "missing master path", mutate: func(e *Entry) { e.MasterPath = "" }, wantErr: ErrPathsRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := validEntry()
			tt.mutate(&entry)

			cfg := &Config{Enabled: true, Entries: []Entry{entry}}
			err := cfg.Validate()

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigValidateBadCron(t *testing.T) {
	entry := validEntry()
	entry.Schedule = "not a cron"

	cfg := &Config{Enabled: true, Entries: []Entry{entry}}
	assert.Error(t, cfg.Validate())
}

func TestConfigValidateDisabledSkipsEntries(t *testing.T) {
	cfg := &Config{Enabled: false, Entries: []Entry{{Node: ""}}}
	assert.NoError(t, cfg.Validate())
}
