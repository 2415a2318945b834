// Copyright 2024 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the engine's tunable iteration counts and
// gravity from a YAML file, for collaborators that want file-driven
// tuning without recompiling. Nothing in the simulation hot path reads
// from disk; engine.New always takes an in-memory Options value.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Gravity is the constant acceleration applied to every dynamic,
// non-sleeping body each step, scaled by Scale.
type Gravity struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Scale float64 `yaml:"scale"`
}

// EngineConfig is the serialisable subset of engine.Options.
type EngineConfig struct {
	PositionIterations   int     `yaml:"position_iterations"`
	VelocityIterations   int     `yaml:"velocity_iterations"`
	ConstraintIterations int     `yaml:"constraint_iterations"`
	EnableSleeping       bool    `yaml:"enable_sleeping"`
	Gravity              Gravity `yaml:"gravity"`
}

// Default returns the engine's documented default configuration:
// position=6, velocity=4, constraint=2 iterations, sleeping disabled,
// gravity (0, 1) scaled by 0.001.
func Default() EngineConfig {

	return EngineConfig{
		PositionIterations:   6,
		VelocityIterations:   4,
		ConstraintIterations: 2,
		EnableSleeping:       false,
		Gravity:              Gravity{X: 0, Y: 1, Scale: 0.001},
	}
}

// Load reads an EngineConfig from the YAML file at path. Fields absent
// from the file keep their zero value; callers that want defaults for
// unset fields should start from Default() and call LoadInto.
func Load(path string) (EngineConfig, error) {

	cfg := EngineConfig{}
	err := LoadInto(path, &cfg)
	return cfg, err
}

// LoadInto reads the YAML file at path into cfg, overwriting only the
// fields present in the file.
func LoadInto(path string, cfg *EngineConfig) error {

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
