// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gfx

// Over composites top over bottom using the standard alpha-over
// operator. Both inputs and the result are straight alpha; blending
// happens in premultiplied space:
//
//	out_a  = top.a + bottom.a * (1 - top.a)
//	out_pm = top.rgb*top.a + bottom.rgb*bottom.a * (1 - top.a)
//
// When out_a is zero the result is Transparent instead of dividing by
// zero.
func Over(bottom, top Color) Color {
	outA := top.A + bottom.A*(1-top.A)
	if outA <= 0 {
		return Transparent
	}
	k := bottom.A * (1 - top.A)
	return Color{
		R: (top.R*top.A + bottom.R*k) / outA,
		G: (top.G*top.A + bottom.G*k) / outA,
		B: (top.B*top.A + bottom.B*k) / outA,
		A: outA,
	}
}
