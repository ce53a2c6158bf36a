// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package strata

import (
	"fmt"
	"image"
	"os"

	// layer sources are commonly BMP; register the other formats
	// hosts feed us, too
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"

	"honnef.co/go/strata/gfx"
)

// LoadImage decodes the image at path into a bilinear, edge-clamped
// source, matching the GPU sampler configuration.
func LoadImage(path string) (*gfx.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return &gfx.Image{
		Image:  img,
		Extend: gfx.Pad,
		Filter: gfx.Bilinear,
	}, nil
}
