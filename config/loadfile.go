// File: config/loadfile.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kvbridge/glide-transport/coreerr"
)

// fileConfig is the YAML-facing shape: durations and enums are strings
// here and translated into Config's native types by LoadFile.
type fileConfig struct {
	Addresses []struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"addresses"`
	UseTLS         bool   `yaml:"use_tls"`
	Username       string `yaml:"username"`
	Password       string `yaml:"password"`
	RequestTimeout string `yaml:"request_timeout"`
	ConnectTimeout string `yaml:"connection_timeout"`
	Backoff        struct {
		NumRetries   int     `yaml:"num_retries"`
		Factor       float64 `yaml:"factor"`
		ExponentBase float64 `yaml:"exponent_base"`
		Jitter       bool    `yaml:"jitter"`
	} `yaml:"connection_backoff"`
	ReadFrom            string `yaml:"read_from"`
	ClusterModeEnabled  bool   `yaml:"cluster_mode_enabled"`
	DatabaseID          int    `yaml:"database_id"`
	TLSInsecure         bool   `yaml:"advanced_tls_insecure"`
	MaxInlineArgsBytes  int    `yaml:"max_inline_args_bytes"`
}

var readFromByName = map[string]ReadFrom{
	"primary":         ReadFromPrimary,
	"preferReplica":   ReadFromPreferReplica,
	"lowestLatency":   ReadFromLowestLatency,
	"azAffinity":      ReadFromAZAffinity,
}

// LoadFile reads a YAML configuration file into a Config. It covers the
// subset of spec.md §6's options an operator typically wants to pin in
// a file (pub/sub subscriptions, periodic checks, a credentials
// provider and the OTel block are not read from the file and are left
// to programmatic construction).
func LoadFile(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &coreerr.ConfigurationError{Diagnostic: fmt.Sprintf("reading %s", path), Cause: err}
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return nil, &coreerr.ConfigurationError{Diagnostic: fmt.Sprintf("parsing %s", path), Cause: err}
	}

	cfg := &Config{
		UseTLS:             fc.UseTLS,
		ClusterModeEnabled: fc.ClusterModeEnabled,
		DatabaseID:         fc.DatabaseID,
		TLSInsecure:        fc.TLSInsecure,
		MaxInlineArgsBytes: fc.MaxInlineArgsBytes,
		ConnectionBackoff: Backoff{
			NumRetries:   fc.Backoff.NumRetries,
			Factor:       fc.Backoff.Factor,
			ExponentBase: fc.Backoff.ExponentBase,
			Jitter:       fc.Backoff.Jitter,
		},
	}
	for _, a := range fc.Addresses {
		cfg.Addresses = append(cfg.Addresses, Address{Host: a.Host, Port: a.Port})
	}
	if fc.Username != "" || fc.Password != "" {
		cfg.Credentials = &Credentials{Username: fc.Username, Password: fc.Password}
	}
	if fc.RequestTimeout != "" {
		d, err := time.ParseDuration(fc.RequestTimeout)
		if err != nil {
			return nil, &coreerr.ConfigurationError{Diagnostic: "request_timeout", Cause: err}
		}
		cfg.RequestTimeout = d
	}
	if fc.ConnectTimeout != "" {
		d, err := time.ParseDuration(fc.ConnectTimeout)
		if err != nil {
			return nil, &coreerr.ConfigurationError{Diagnostic: "connection_timeout", Cause: err}
		}
		cfg.ConnectionTimeout = d
	}
	if fc.ReadFrom != "" {
		rf, ok := readFromByName[fc.ReadFrom]
		if !ok {
			return nil, &coreerr.ConfigurationError{Diagnostic: fmt.Sprintf("unknown read_from %q", fc.ReadFrom)}
		}
		cfg.ReadFrom = rf
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
