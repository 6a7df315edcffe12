// Package config loads optional default values for the CLI's checks and
// external-tool paths from a YAML file, using ghodss/yaml the way the
// teacher repository's bundle metadata and schema tests do. CLI flags
// always take precedence over file-supplied defaults; this package only
// supplies the defaults a flag falls back to when unset.
package config

import (
	"os"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
)

// Config holds default values for the certifier's flags.
type Config struct {
	CheckDefined          *bool  `json:"checkDefined,omitempty"`
	CheckConsistency      *bool  `json:"checkConsistency,omitempty"`
	StdDep                *bool  `json:"stdDep,omitempty"`
	QBFBinary             string `json:"qbfBinary,omitempty"`
	QBFCertFlag           string `json:"qbfCertFlag,omitempty"`
	AigToAigPath          string `json:"aigToAigPath,omitempty"`
	AbcPath               string `json:"abcPath,omitempty"`
	DependencyCheckerPath string `json:"dependencyCheckerPath,omitempty"`
	Aig2CNFPath           string `json:"aig2cnfPath,omitempty"`
	MetricsAddr           string `json:"metricsAddr,omitempty"`
}

// Load reads and decodes a YAML config file. A missing file is not an
// error - the caller gets a zero-value Config and every flag falls back
// to its built-in default.
func Load(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading config file %q", path)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrapf(err, "parsing config file %q", path)
	}
	return &c, nil
}

// BoolOr returns *p if p is non-nil, otherwise fallback.
func BoolOr(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}

// StringOr returns s if non-empty, otherwise fallback.
func StringOr(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
