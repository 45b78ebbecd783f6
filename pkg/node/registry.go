package node

import "fmt"

// Variant names.
const (
	BLR = "BLR"
	IAS = "IAS"
	GDN = "GDN"
)

// blrConfig covers the US/UK/SG/AU/AE home markets. CrossListing rows
// are admitted when sourced from a BLR home market.
func blrConfig() *Config {
	return &Config{
		Name:        BLR,
		FullName:    "BLR Node (US/UK/SG/AU/AE)",
		Description: "Process cadence for BLR node - US, UK, Singapore, Australia, UAE",
		Color:       "#667eea",
		CoreSources: []string{"US", "UK", "SG", "AU", "AE", "GB", "ANY", "Any"},
		CrossSources: []string{
			"US", "UK", "GB", "SG", "AU", "AE",
		},
		ExcludedGroups: []string{
			"RP - AG Auditors CN", "RP - AG Auditors DE", "RP - AG Auditors ES",
			"RP - AG Auditors FR", "RP - AG Auditors IT", "RP - AG Auditors PL",
		},
	}
}

// iasConfig covers France, Italy, Spain and Mexico. The enumerator matches
// AmazonGlobal sources against exactly FR/IT/ES.
func iasConfig() *Config {
	return &Config{
		Name:         IAS,
		FullName:     "IAS Node (FR/IT/ES)",
		Description:  "Process cadence for IAS node - France, Italy, Spain, Mexico",
		Color:        "#28a745",
		CoreSources:  []string{"FR", "IT", "ES"},
		CrossSources: []string{"FR", "IT", "ES", "MX"},
		ExcludedGroups: []string{
			"RP - AG Auditors", "RP - AG Auditors CN", "RP - AG Auditors PL",
		},
	}
}

// gdnConfig covers Germany. GDN keys nodes by child class alone and admits
// CrossListing rows by destination, with an explicit deny-list of major
// non-DE source markets.
func gdnConfig() *Config {
	return &Config{
		Name:              GDN,
		FullName:          "GDN Node (Germany)",
		Description:       "Process cadence for GDN node - Germany (DE)",
		Color:             "#dc3545",
		CoreSources:       []string{"DE", "ANY", "Any"},
		CrossDestinations: []string{"DE", "TR", "UK", "Any"},
		ExcludedSources: []string{
			"JP", "FR", "IT", "ES", "CN", "US", "AU", "SG", "AE", "IN",
			"SA", "CA", "NL", "EG", "MX", "UK",
		},
		ExcludedGroups: []string{
			"RP - AG Auditors", "RP - AG Auditors CN", "RP - AG Auditors ES",
			"RP - AG Auditors FR", "RP - AG Auditors IT",
		},
		GroupByChild: true,
	}
}

// Registry resolves variant names to configurations.
type Registry struct {
	configs map[string]*Config
	order   []string
}

// NewRegistry returns a registry holding the built-in variants.
func NewRegistry() *Registry {
	r := &Registry{configs: make(map[string]*Config)}
	for _, cfg := range []*Config{blrConfig(), iasConfig(), gdnConfig()} {
		r.configs[cfg.Name] = cfg
		r.order = append(r.order, cfg.Name)
	}
	return r
}

// Get returns the configuration for variant name.
func (r *Registry) Get(name string) (*Config, error) {
	cfg, ok := r.configs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVariant, name)
	}
	return cfg, nil
}

// Names returns the registered variant names in registration order.
func (r *Registry) Names() []string {
	return append([]string{}, r.order...)
}

// All returns the registered configurations in registration order.
func (r *Registry) All() []*Config {
	out := make([]*Config, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.configs[name])
	}
	return out
}
