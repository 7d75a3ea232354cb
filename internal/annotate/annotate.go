package annotate

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/wildlife-tools/animaldetect/internal/detection"
	"github.com/wildlife-tools/animaldetect/internal/models"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const lineWidth = 2

var (
	red    = color.NRGBA{R: 255, A: 255}
	orange = color.NRGBA{R: 255, G: 165, A: 255}
	green  = color.NRGBA{G: 255, A: 255}
)

// File draws detections onto the image at src and writes the result to dst.
// The output format follows the dst extension.
func File(src, dst string, detections []models.Detection) error {
	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}

	if err := imaging.Save(Draw(img, detections), dst); err != nil {
		return fmt.Errorf("failed to save annotated image: %w", err)
	}
	return nil
}

// Draw returns a copy of img with a labelled box per detection and a banner
// line for large mammals and carnivores.
func Draw(img image.Image, detections []models.Detection) *image.NRGBA {
	dst := imaging.Clone(img)

	categories := make(map[string]bool)
	for _, det := range detections {
		categories[det.Category] = true
		if len(det.BBox) != 4 {
			continue
		}
		col := categoryColor(det.Category)
		r := image.Rect(det.BBox[0], det.BBox[1], det.BBox[2], det.BBox[3]).Intersect(dst.Bounds())
		if r.Empty() {
			continue
		}
		drawRect(dst, r, col)

		labelY := r.Min.Y - 4
		if labelY < basicfont.Face7x13.Height {
			labelY = r.Min.Y + basicfont.Face7x13.Height
		}
		drawText(dst, r.Min.X, labelY, fmt.Sprintf("%s %.2f", label(det), det.Confidence), col)
	}

	y := 20
	if categories[detection.LargeMammals] {
		drawText(dst, 10, y, "WARNING: Large mammals detected!", red)
		y += 20
	}
	if categories[detection.Carnivores] {
		drawText(dst, 10, y, "Caution: Carnivores detected!", orange)
	}

	return dst
}

func label(det models.Detection) string {
	if det.DisplayName != "" {
		return det.DisplayName
	}
	if det.Class != nil && det.Class.Name != "" {
		return det.Class.Name
	}
	return "animal"
}

func categoryColor(category string) color.NRGBA {
	switch category {
	case detection.LargeMammals:
		return red
	case detection.Carnivores:
		return orange
	default:
		return green
	}
}

func drawRect(dst *image.NRGBA, r image.Rectangle, col color.NRGBA) {
	for w := 0; w < lineWidth; w++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			dst.SetNRGBA(x, r.Min.Y+w, col)
			dst.SetNRGBA(x, r.Max.Y-1-w, col)
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			dst.SetNRGBA(r.Min.X+w, y, col)
			dst.SetNRGBA(r.Max.X-1-w, y, col)
		}
	}
}

func drawText(dst *image.NRGBA, x, y int, text string, col color.NRGBA) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
