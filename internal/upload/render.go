package upload

import (
	"fmt"
	"unicode"

	"github.com/rivo/uniseg"
	"github.com/wildlife-tools/animaldetect/internal/models"
)

const (
	fallbackLabel   = "Animal"
	noDetectionsRow = "No animals detected"
	resultVideoType = "video/mp4"
)

// emojiTable covers the pictographic code points used as emoji presentation.
// ASCII digits, '#' and '*' are only emoji as part of a keycap sequence.
var emojiTable = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x00a9, Hi: 0x00a9, Stride: 1},
		{Lo: 0x00ae, Hi: 0x00ae, Stride: 1},
		{Lo: 0x203c, Hi: 0x203c, Stride: 1},
		{Lo: 0x2049, Hi: 0x2049, Stride: 1},
		{Lo: 0x2122, Hi: 0x2122, Stride: 1},
		{Lo: 0x2139, Hi: 0x2139, Stride: 1},
		{Lo: 0x2194, Hi: 0x2199, Stride: 1},
		{Lo: 0x21a9, Hi: 0x21aa, Stride: 1},
		{Lo: 0x231a, Hi: 0x231b, Stride: 1},
		{Lo: 0x2328, Hi: 0x2328, Stride: 1},
		{Lo: 0x23cf, Hi: 0x23cf, Stride: 1},
		{Lo: 0x23e9, Hi: 0x23f3, Stride: 1},
		{Lo: 0x23f8, Hi: 0x23fa, Stride: 1},
		{Lo: 0x24c2, Hi: 0x24c2, Stride: 1},
		{Lo: 0x25aa, Hi: 0x25ab, Stride: 1},
		{Lo: 0x25b6, Hi: 0x25b6, Stride: 1},
		{Lo: 0x25c0, Hi: 0x25c0, Stride: 1},
		{Lo: 0x25fb, Hi: 0x25fe, Stride: 1},
		{Lo: 0x2600, Hi: 0x27bf, Stride: 1},
		{Lo: 0x2934, Hi: 0x2935, Stride: 1},
		{Lo: 0x2b05, Hi: 0x2b07, Stride: 1},
		{Lo: 0x2b1b, Hi: 0x2b1c, Stride: 1},
		{Lo: 0x2b50, Hi: 0x2b50, Stride: 1},
		{Lo: 0x2b55, Hi: 0x2b55, Stride: 1},
		{Lo: 0x3030, Hi: 0x3030, Stride: 1},
		{Lo: 0x303d, Hi: 0x303d, Stride: 1},
		{Lo: 0x3297, Hi: 0x3297, Stride: 1},
		{Lo: 0x3299, Hi: 0x3299, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x1f000, Hi: 0x1faff, Stride: 1},
	},
	LatinOffset: 2,
}

const keycap = 0x20e3

func isEmojiCluster(runes []rune) bool {
	if len(runes) == 0 {
		return false
	}
	if unicode.Is(emojiTable, runes[0]) {
		return true
	}
	for _, r := range runes[1:] {
		if r == keycap {
			return true
		}
	}
	return false
}

// ExtractEmoji returns the first emoji grapheme cluster in s, or "".
func ExtractEmoji(s string) string {
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		if isEmojiCluster(gr.Runes()) {
			return gr.Str()
		}
	}
	return ""
}

// Label resolves the display label of a detection: display_name, then the
// class name, then a generic fallback.
func Label(d models.Detection) string {
	if d.DisplayName != "" {
		return d.DisplayName
	}
	if d.Class != nil && d.Class.Name != "" {
		return d.Class.Name
	}
	return fallbackLabel
}

// FormatConfidence renders a [0,1] confidence as a two-decimal percentage
func FormatConfidence(confidence float64) string {
	return fmt.Sprintf("%.2f%%", confidence*100)
}

// LogRowFor builds the detection log row for d
func LogRowFor(d models.Detection) LogRow {
	label := Label(d)
	if emoji := ExtractEmoji(d.Alert); emoji != "" {
		label = emoji + " " + label
	}
	return LogRow{
		Label:      label,
		Confidence: FormatConfidence(d.Confidence),
	}
}
