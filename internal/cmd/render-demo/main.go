// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// render-demo renders a sample scene with the CPU shader
// implementations and writes it to a PNG file.
package main

import (
	"fmt"
	"image/png"
	"log"
	"os"

	"github.com/urfave/cli"
	"honnef.co/go/curve"
	"honnef.co/go/strata"
	"honnef.co/go/strata/composite"
	"honnef.co/go/strata/gfx"
	"honnef.co/go/strata/profiler"
	"honnef.co/go/strata/smath"
)

func main() {
	app := cli.NewApp()
	app.Name = "render-demo"
	app.Usage = "render a sample scene to a PNG file"
	app.Flags = []cli.Flag{
		cli.IntFlag{Name: "width", Value: 800, Usage: "screen width in pixels"},
		cli.IntFlag{Name: "height", Value: 600, Usage: "screen height in pixels"},
		cli.StringFlag{Name: "out", Value: "out.png", Usage: "output file"},
		cli.StringSliceFlag{Name: "layer", Usage: "image file for the next layer slot (repeatable, up to 4)"},
		cli.BoolFlag{Name: "timings", Usage: "print frame timings"},
	}
	app.Action = render
	if err := app.Run(os.Args); err != nil {
		log.Fatalln(err)
	}
}

func render(c *cli.Context) error {
	screen := composite.Screen{
		Width:  float32(c.Int("width")),
		Height: float32(c.Int("height")),
	}
	scene := strata.NewScene(screen)

	// a frame of colored bars across the lower half of the screen
	const bars = 8
	barW := float64(screen.Width) / bars
	for i := 0; i < bars; i++ {
		x0 := -float64(screen.Width)/2 + float64(i)*barW
		scene.PushRect(
			curve.Rect{X0: x0, Y0: -float64(screen.Height) / 2, X1: x0 + barW, Y1: 0},
			gfx.Color{R: float32(i) / bars, G: 0.2, B: 1 - float32(i)/bars, A: 0.9},
		)
	}

	paths := c.StringSlice("layer")
	if len(paths) > composite.NumLayers {
		return fmt.Errorf("at most %d layers, got %d", composite.NumLayers, len(paths))
	}
	for slot, path := range paths {
		img, err := strata.LoadImage(path)
		if err != nil {
			return err
		}
		b := img.Image.Bounds()
		w, h := float64(b.Dx()), float64(b.Dy())
		scene.SetLayerSource(slot, img, curve.Rect{X0: -w / 2, Y0: -h / 2, X1: w / 2, Y1: h / 2})
		scene.SetLayerVisible(slot, true)
	}
	if len(paths) == 0 {
		// no images given, composite a solid overlay so the stage
		// still exercises
		scene.SetLayerSource(0, gfx.Solid(gfx.Color{R: 1, G: 1, B: 1, A: 0.5}),
			curve.Rect{X0: -100, Y0: -100, X1: 100, Y1: 100})
		scene.SetLayerVisible(0, true)
	}

	scene.SetSprite(
		curve.Rect{X0: -float64(screen.Width) / 2, Y0: 0, X1: 0, Y1: float64(screen.Height) / 2},
		gfx.Solid(gfx.Color{R: 0, G: 0.6, B: 0.3, A: 0.7}),
		smath.V(0, 0),
	)

	prof := &profiler.CPU{}
	dst := scene.RasterizeCPU(gfx.Color{A: 1}, prof)
	if c.Bool("timings") {
		for _, span := range prof.Take() {
			fmt.Fprintf(os.Stderr, "%*s%s: %s\n", 2*span.Depth, "", span.Label, span.End.Sub(span.Start))
		}
	}

	f, err := os.Create(c.String("out"))
	if err != nil {
		return err
	}
	if err := png.Encode(f, dst); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
