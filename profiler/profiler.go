// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package profiler provides a minimal span profiler for frame timing.
package profiler

import (
	"sync"
	"time"
)

type ProfilerGroup interface {
	Start(label string) ProfilerGroup
	End()
}

// Nop returns a group that discards all spans. It is safe to use from
// any goroutine.
func Nop() ProfilerGroup {
	return nopGroup{}
}

type nopGroup struct{}

func (nopGroup) Start(label string) ProfilerGroup { return nopGroup{} }
func (nopGroup) End()                             {}

// Span is one recorded timing span.
type Span struct {
	Label string
	Depth int
	Start time.Time
	End   time.Time
}

// CPU records wall-clock spans. Take returns and clears the recorded
// spans; the engine calls it once per frame.
type CPU struct {
	mu    sync.Mutex
	spans []Span
}

func (p *CPU) Start(label string) ProfilerGroup {
	return p.start(label, 0)
}

func (p *CPU) start(label string, depth int) ProfilerGroup {
	p.mu.Lock()
	idx := len(p.spans)
	p.spans = append(p.spans, Span{
		Label: label,
		Depth: depth,
		Start: time.Now(),
	})
	p.mu.Unlock()
	return &cpuGroup{p: p, idx: idx, depth: depth}
}

// End implements ProfilerGroup. Ending the root profiler is a no-op;
// only groups returned by Start record span end times.
func (p *CPU) End() {}

func (p *CPU) Take() []Span {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.spans
	p.spans = nil
	return out
}

type cpuGroup struct {
	p     *CPU
	idx   int
	depth int
}

func (g *cpuGroup) Start(label string) ProfilerGroup {
	return g.p.start(label, g.depth+1)
}

func (g *cpuGroup) End() {
	g.p.mu.Lock()
	g.p.spans[g.idx].End = time.Now()
	g.p.mu.Unlock()
}
