package palette

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"math"
	"os"

	"github.com/disintegration/imaging"
	_ "github.com/gen2brain/avif"
	"github.com/lucasb-eyer/go-colorful"
	_ "golang.org/x/image/webp"
)

const (
	sampleDimension = 100

	// Channel thresholds for the background/outline filter. Pixels with
	// every channel above the white floor or below the black ceiling are
	// treated as artifacts rather than brand color.
	nearWhiteFloor   = 240
	nearBlackCeiling = 15

	// Pixels darker than this value never count as vivid, however
	// saturated their channels look numerically.
	minVividValue = 0.2

	// Accent hue offset as a fraction of the hue circle.
	accentHueShift = 0.08

	darkValue = 0.12
)

// Fixed palette fields. These never derive from the image so that text and
// background contrast survives any logo.
const (
	lightHex     = "F8F9FA"
	textDarkHex  = "1A1A2E"
	textLightHex = "FFFFFF"
	textMutedHex = "6B7280"
)

// Palette is the complete 8-color theme derived from a logo. Every value is
// a 6-hex-digit RGB string without a leading "#".
type Palette struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
	Dark      string `json:"dark"`
	Light     string `json:"light"`
	TextDark  string `json:"textDark"`
	TextLight string `json:"textLight"`
	TextMuted string `json:"textMuted"`
}

// DefaultPalette is the theme used when no logo is supplied or extraction
// cannot produce one.
func DefaultPalette() Palette {
	return Palette{
		Primary:   "1E2761",
		Secondary: "CADCFC",
		Accent:    "4A90D9",
		Dark:      "0F1629",
		Light:     lightHex,
		TextDark:  textDarkHex,
		TextLight: textLightHex,
		TextMuted: textMutedHex,
	}
}

type pixel struct {
	r uint8
	g uint8
	b uint8
}

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractFromPath derives a palette from the raster image at path. It is
// total: unreadable files, undecodable data, and degenerate images all
// collapse to DefaultPalette. The failure cause is logged, never returned,
// so theming can never block a caller's workflow.
func (e *Extractor) ExtractFromPath(path string) Palette {
	file, err := os.Open(path)
	if err != nil {
		log.Printf("palette extraction fell back to defaults: open %s: %v", path, err)
		return DefaultPalette()
	}
	defer file.Close()

	decoded, _, err := image.Decode(file)
	if err != nil {
		log.Printf("palette extraction fell back to defaults: decode %s: %v", path, err)
		return DefaultPalette()
	}

	return e.ExtractFromImage(decoded)
}

// ExtractFromImage derives a palette from an already decoded image. Total in
// the same sense as ExtractFromPath.
func (e *Extractor) ExtractFromImage(img image.Image) Palette {
	derived, err := derivePalette(img)
	if err != nil {
		log.Printf("palette extraction fell back to defaults: %v", err)
		return DefaultPalette()
	}

	return derived
}

func derivePalette(img image.Image) (Palette, error) {
	samples, err := samplePixels(img)
	if err != nil {
		return Palette{}, err
	}

	filtered := filterBackgroundPixels(samples)
	if len(filtered) == 0 {
		filtered = samples
	}

	average := averageColor(filtered)
	vivid := mostVividColor(filtered, average)

	hue, saturation, value := rgbToHSV(vivid)

	secondary := hsvToPixel(
		hue,
		math.Max(0.1, saturation*0.3),
		math.Min(1.0, value*1.4+0.3),
	)
	accent := hsvToPixel(
		math.Mod(hue+accentHueShift*360, 360),
		math.Min(1.0, saturation*1.2+0.1),
		math.Min(1.0, value*1.1+0.1),
	)
	dark := hsvToPixel(
		hue,
		math.Min(0.6, saturation*0.8),
		darkValue,
	)

	return Palette{
		Primary:   hexString(vivid),
		Secondary: hexString(secondary),
		Accent:    hexString(accent),
		Dark:      hexString(dark),
		Light:     lightHex,
		TextDark:  textDarkHex,
		TextLight: textLightHex,
		TextMuted: textMutedHex,
	}, nil
}

// samplePixels normalizes the image to a fixed small grid and flattens it to
// an ordered row-major pixel sequence with alpha discarded. The box filter
// keeps channel averages stable across the downsample.
func samplePixels(img image.Image) ([]pixel, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, errors.New("image has no pixels")
	}

	resized := imaging.Resize(img, sampleDimension, sampleDimension, imaging.Box)
	width := resized.Bounds().Dx()
	height := resized.Bounds().Dy()
	if width <= 0 || height <= 0 {
		return nil, errors.New("resample produced an empty image")
	}

	samples := make([]pixel, 0, width*height)
	for y := 0; y < height; y++ {
		rowOffset := y * resized.Stride
		for x := 0; x < width; x++ {
			offset := rowOffset + x*4
			samples = append(samples, pixel{
				r: resized.Pix[offset],
				g: resized.Pix[offset+1],
				b: resized.Pix[offset+2],
			})
		}
	}

	if len(samples) == 0 {
		return nil, errors.New("no samples collected")
	}

	return samples, nil
}

func filterBackgroundPixels(samples []pixel) []pixel {
	filtered := make([]pixel, 0, len(samples))
	for _, sample := range samples {
		if sample.r > nearWhiteFloor && sample.g > nearWhiteFloor && sample.b > nearWhiteFloor {
			continue
		}
		if sample.r < nearBlackCeiling && sample.g < nearBlackCeiling && sample.b < nearBlackCeiling {
			continue
		}
		filtered = append(filtered, sample)
	}

	return filtered
}

func averageColor(samples []pixel) pixel {
	var rSum, gSum, bSum int
	for _, sample := range samples {
		rSum += int(sample.r)
		gSum += int(sample.g)
		bSum += int(sample.b)
	}

	count := float64(len(samples))
	return pixel{
		r: uint8(math.Round(float64(rSum) / count)),
		g: uint8(math.Round(float64(gSum) / count)),
		b: uint8(math.Round(float64(bSum) / count)),
	}
}

// mostVividColor returns the sample with the highest saturation among
// samples brighter than the value floor. Ties keep the first sample
// encountered, so results are stable for a fixed decode and resample. When
// nothing clears the floor the average color stands in.
func mostVividColor(samples []pixel, fallback pixel) pixel {
	bestSaturation := 0.0
	vivid := fallback

	for _, sample := range samples {
		_, saturation, value := rgbToHSV(sample)
		if saturation > bestSaturation && value > minVividValue {
			bestSaturation = saturation
			vivid = sample
		}
	}

	return vivid
}

func rgbToHSV(p pixel) (float64, float64, float64) {
	c := colorful.Color{
		R: float64(p.r) / 255,
		G: float64(p.g) / 255,
		B: float64(p.b) / 255,
	}
	return c.Hsv()
}

func hsvToPixel(hue float64, saturation float64, value float64) pixel {
	r, g, b := colorful.Hsv(hue, clampUnit(saturation), clampUnit(value)).RGB255()
	return pixel{r: r, g: g, b: b}
}

func hexString(p pixel) string {
	return fmt.Sprintf("%02x%02x%02x", p.r, p.g, p.b)
}

func clampUnit(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
