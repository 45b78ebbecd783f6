// Package node defines the product-classification node variants (BLR,
// IAS, GDN) and the per-variant rules that parameterize the cadence
// pipeline: key shape, geography filters, and outflow exclusions.
package node

import (
	"errors"
	"fmt"
	"strings"
)

// Define static errors
var (
	// ErrUnknownVariant is returned when a variant name is not registered
	ErrUnknownVariant = errors.New("unknown node variant")
	// ErrNameRequired is returned when a config has no name
	ErrNameRequired = errors.New("node name is required")
	// ErrCoreSourcesRequired is returned when a config has no core source list
	ErrCoreSourcesRequired = errors.New("node core source list is required")
)

// FileSpec describes one required input file for a node variant.
type FileSpec struct {
	Key         string `json:"key" yaml:"key"`
	Label       string `json:"label" yaml:"label"`
	Description string `json:"description" yaml:"description"`
	Help        string `json:"help" yaml:"help"`
}

// Input file keys shared by all variants.
const (
	FileARMT    = "armt_file"
	FileMaster  = "master_file"
	FileOutflow = "outflow_file"
)

// Config holds everything variant-specific about a node. The pipeline is
// a single implementation parameterized by one of these.
type Config struct {
	// Name is the short variant name (BLR, IAS, GDN).
	Name string `yaml:"name"`
	// FullName is the display name shown to consumers.
	FullName string `yaml:"fullName"`
	// Description is the human summary of the node's geography.
	Description string `yaml:"description"`
	// Color is the display accent color for the node.
	Color string `yaml:"color"`

	// CoreSources are the source countries whose AmazonGlobal rows belong
	// to this node.
	CoreSources []string `yaml:"coreSources"`
	// CrossSources are the source countries whose CrossListing rows belong
	// to this node (BLR/IAS composite-key variants).
	CrossSources []string `yaml:"crossSources"`
	// CrossDestinations are the destination countries admitting CrossListing
	// rows (GDN single-key variant).
	CrossDestinations []string `yaml:"crossDestinations"`
	// ExcludedSources is a deny-list of CrossListing source countries
	// (GDN single-key variant).
	ExcludedSources []string `yaml:"excludedSources"`
	// ExcludedGroups are outflow assigned_to_group values dropped during
	// normalization.
	ExcludedGroups []string `yaml:"excludedGroups"`

	// GroupByChild selects the single-key scheme: nodes are identified by
	// child class alone and ARMT rows are grouped per child class instead
	// of exploded per geography.
	GroupByChild bool `yaml:"groupByChild"`
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Name == "" {
		return ErrNameRequired
	}
	if len(c.CoreSources) == 0 {
		return fmt.Errorf("%w: %s", ErrCoreSourcesRequired, c.Name)
	}
	return nil
}

// Files returns the required input file descriptors for this node.
func (c *Config) Files() []FileSpec {
	return []FileSpec{
		{
			Key:         FileARMT,
			Label:       "ARMT File",
			Description: "ARMT_AGCL.xlsx",
			Help:        "Upload the ARMT AGCL Excel file",
		},
		{
			Key:         FileMaster,
			Label:       fmt.Sprintf("%s Master Cadence File", c.Name),
			Description: fmt.Sprintf("Previous Month %s Cadence", c.Name),
			Help:        fmt.Sprintf("Upload the previous month's %s cadence file", c.Name),
		},
		{
			Key:         FileOutflow,
			Label:       "Outflow File",
			Description: "Monthly Outflow Data",
			Help:        "Upload the outflow Excel file",
		},
	}
}

// contains reports whether list holds the trimmed value.
func contains(list []string, value string) bool {
	v := strings.TrimSpace(value)
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// IsCoreSource reports whether an AmazonGlobal source country belongs to
// this node.
func (c *Config) IsCoreSource(source string) bool {
	return contains(c.CoreSources, source)
}

// IsCrossSource reports whether a CrossListing source country belongs to
// this node (composite-key variants).
func (c *Config) IsCrossSource(source string) bool {
	return contains(c.CrossSources, source)
}

// IsCrossDestination reports whether a CrossListing destination country
// admits a row (single-key variant).
func (c *Config) IsCrossDestination(dest string) bool {
	return contains(c.CrossDestinations, dest)
}

// IsExcludedSource reports whether a CrossListing source country is
// denied (single-key variant).
func (c *Config) IsExcludedSource(source string) bool {
	return contains(c.ExcludedSources, source)
}

// IsExcludedGroup reports whether an outflow assigned_to_group value is
// dropped for this node.
func (c *Config) IsExcludedGroup(group string) bool {
	return contains(c.ExcludedGroups, group)
}
