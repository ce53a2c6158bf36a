// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func assertColor(t *testing.T, want, got Color) {
	t.Helper()
	assert.InDelta(t, want.R, got.R, 1e-6)
	assert.InDelta(t, want.G, got.G, 1e-6)
	assert.InDelta(t, want.B, got.B, 1e-6)
	assert.InDelta(t, want.A, got.A, 1e-6)
}

func TestOverIdentity(t *testing.T) {
	c := RGBA(0.2, 0.4, 0.6, 0.8)
	assertColor(t, c, Over(Transparent, c))
	assertColor(t, c, Over(c, Transparent))
}

func TestOverOpaqueTopWins(t *testing.T) {
	top := RGBA(1, 0, 0, 1)
	assert.Equal(t, top, Over(RGBA(0, 1, 0, 1), top))
	assert.Equal(t, top, Over(RGBA(0, 1, 0, 0.3), top))
}

func TestOverResultOpaqueOverOpaqueBottom(t *testing.T) {
	got := Over(RGBA(0, 0, 1, 1), RGBA(1, 0, 0, 0.5))
	assert.InDelta(t, 1.0, got.A, 1e-6)
	assert.InDelta(t, 0.5, got.R, 1e-6)
	assert.InDelta(t, 0.5, got.B, 1e-6)
}

func TestOverZeroAlphaInputs(t *testing.T) {
	// colors with zero alpha contribute nothing, whatever their RGB
	ghost := RGBA(1, 1, 1, 0)
	assert.Equal(t, Transparent, Over(ghost, ghost))
	c := RGBA(0.5, 0.25, 0.125, 0.5)
	assertColor(t, c, Over(ghost, c))
}

func TestOverAlphaAccumulates(t *testing.T) {
	got := Over(RGBA(1, 0, 0, 0.5), RGBA(1, 0, 0, 0.5))
	assert.InDelta(t, 0.75, got.A, 1e-6)
	assert.InDelta(t, 1.0, got.R, 1e-6)
}

func TestPremul(t *testing.T) {
	c := RGBA(1, 0.5, 0, 0.5)
	assert.Equal(t, [4]float32{0.5, 0.25, 0, 0.5}, c.Premul())
}
