package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	assert.ErrorIs(t, (&Config{}).Validate(), ErrAddressRequired)
	assert.NoError(t, (&Config{Address: "localhost:6379"}).Validate())

	// An empty prefix resets to the default.
	cfg := &Config{Address: "localhost:6379"}
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "cadence", cfg.Prefix)
}

func TestPrefixKey(t *testing.T) {
	cfg := &Config{Address: "localhost:6379", Prefix: "cadence"}
	assert.Equal(t, "cadence:run:abc", cfg.PrefixKey("run:abc"))

	bare := &Config{Address: "localhost:6379"}
	assert.Equal(t, "run:abc", bare.PrefixKey("run:abc"))
}
