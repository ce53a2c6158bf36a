// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package profiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCPUSpans(t *testing.T) {
	p := &CPU{}
	frame := p.Start("frame")
	inner := frame.Start("composite")
	inner.End()
	frame.End()

	spans := p.Take()
	assert.Len(t, spans, 2)
	assert.Equal(t, "frame", spans[0].Label)
	assert.Equal(t, 0, spans[0].Depth)
	assert.Equal(t, "composite", spans[1].Label)
	assert.Equal(t, 1, spans[1].Depth)
	assert.False(t, spans[1].End.Before(spans[1].Start))
	assert.False(t, spans[0].End.Before(spans[1].End))

	assert.Empty(t, p.Take(), "Take clears recorded spans")
}

func TestNop(t *testing.T) {
	g := Nop()
	g.Start("a").Start("b").End()
	g.End()
}
