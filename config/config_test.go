// Copyright 2024 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadParsesYAML(t *testing.T) {

	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	contents := "position_iterations: 8\nvelocity_iterations: 5\nenable_sleeping: true\ngravity:\n  x: 0\n  y: 2\n  scale: 0.002\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.PositionIterations)
	assert.Equal(t, 5, cfg.VelocityIterations)
	assert.True(t, cfg.EnableSleeping)
	assert.InDelta(t, 2, cfg.Gravity.Y, 1e-9)
}

func TestLoadMissingFileReturnsError(t *testing.T) {

	_, err := Load("/nonexistent/engine.yaml")
	assert.Error(t, err)
}

func TestDefaultMatchesDocumentedIterationCounts(t *testing.T) {

	d := Default()
	assert.Equal(t, 6, d.PositionIterations)
	assert.Equal(t, 4, d.VelocityIterations)
	assert.Equal(t, 2, d.ConstraintIterations)
	assert.False(t, d.EnableSleeping)
}
