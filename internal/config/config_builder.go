// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
	"github.com/spf13/pflag"
)

// configBuilder collects partial configs from each source and merges them
// in precedence order on build.
type configBuilder struct {
	defaults *StructuredConfig
	json     *StructuredConfig
	env      *StructuredConfig
	flags    *StructuredConfig
	err      error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{}
}

func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	config := new(StructuredConfig)
	for _, cfg := range []*StructuredConfig{b.defaults, b.json, b.env, b.flags} {
		if cfg == nil {
			continue
		}
		if err := mergo.Merge(config, cfg, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	return config, config.validate()
}

func (b *configBuilder) withDefaults() *configBuilder {
	b.defaults = defaultConfig()
	return b
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg := &StructuredConfig{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.env = envCfg
	return b
}

func (b *configBuilder) withFlags(fs *pflag.FlagSet) *configBuilder {
	if fs == nil {
		return b
	}

	flagsCfg, err := parseFlags(fs)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.flags = flagsCfg
	return b
}

// withJSON loads the JSON file named by the flags or the environment, flags
// taking precedence. It must run after withEnv and withFlags.
func (b *configBuilder) withJSON() *configBuilder {
	var jsonPath string
	for _, cfg := range []*StructuredConfig{b.env, b.flags} {
		if cfg != nil && cfg.JSONFilePath != "" {
			jsonPath = cfg.JSONFilePath
		}
	}

	if jsonPath == "" {
		return b
	}

	jsonCfg, err := parseJSON(jsonPath)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	b.json = jsonCfg

	return b
}
