// Package report renders analysis results into shareable artifacts.
package report

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/ivlev/adjblend/internal/analyzer"
)

// Series colors: total is the bright trace, components sit behind it.
var (
	backgroundColor = color.RGBA{R: 24, G: 24, B: 28, A: 255}
	gridColor       = color.RGBA{R: 48, G: 48, B: 56, A: 255}
	totalColor      = color.RGBA{R: 240, G: 240, B: 240, A: 255}
	kineticColor    = color.RGBA{R: 80, G: 200, B: 120, A: 255}
	potentialColor  = color.RGBA{R: 100, G: 150, B: 240, A: 255}
)

// RenderProfile draws an energy profile chart. The chart is drawn at one
// column per frame and resampled to the requested size, so short and
// long takes produce the same output dimensions.
func RenderProfile(profile *analyzer.EnergyProfile, width, height int) (*image.RGBA, error) {
	if profile.Len() == 0 {
		return nil, fmt.Errorf("empty energy profile")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid chart size %dx%d", width, height)
	}

	// Native resolution: one column per frame, fixed plot height.
	nativeW := profile.Len()
	if nativeW < 2 {
		nativeW = 2
	}
	const nativeH = 256

	native := image.NewRGBA(image.Rect(0, 0, nativeW, nativeH))
	fill(native, backgroundColor)

	// Horizontal quarter grid lines.
	for _, frac := range []float64{0.25, 0.5, 0.75} {
		y := int(frac * float64(nativeH-1))
		for x := 0; x < nativeW; x++ {
			native.SetRGBA(x, y, gridColor)
		}
	}

	scale := maxSample(profile.Total)
	if scale <= 0 {
		scale = 1
	}

	plotSeries(native, profile.Kinetic, scale, kineticColor)
	plotSeries(native, profile.Potential, scale, potentialColor)
	plotSeries(native, profile.Total, scale, totalColor)

	// Resample to the requested output size.
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(out, out.Bounds(), native, native.Bounds(), xdraw.Src, nil)

	return out, nil
}

// WriteProfilePNG renders the profile and writes it as a PNG file.
func WriteProfilePNG(profile *analyzer.EnergyProfile, width, height int, path string) error {
	img, err := RenderProfile(profile, width, height)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode chart: %v", err)
	}

	return nil
}

// plotSeries draws one normalized polyline, connecting adjacent samples
// with vertical fills so steep transitions stay visible.
func plotSeries(img *image.RGBA, samples []float64, scale float64, c color.RGBA) {
	bounds := img.Bounds()
	h := bounds.Dy()

	prevY := -1
	for x, v := range samples {
		if x >= bounds.Dx() {
			break
		}
		norm := v / scale
		if norm < 0 {
			norm = 0
		}
		if norm > 1 {
			norm = 1
		}
		y := (h - 1) - int(norm*float64(h-1))

		if prevY >= 0 && prevY != y {
			lo, hi := prevY, y
			if lo > hi {
				lo, hi = hi, lo
			}
			for yy := lo; yy <= hi; yy++ {
				img.SetRGBA(x, yy, c)
			}
		} else {
			img.SetRGBA(x, y, c)
		}
		prevY = y
	}
}

func fill(img *image.RGBA, c color.RGBA) {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func maxSample(samples []float64) float64 {
	max := 0.0
	for _, v := range samples {
		if v > max {
			max = v
		}
	}
	return max
}
