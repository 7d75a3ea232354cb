package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/wildlife-tools/animaldetect/internal/upload"
)

const labelWidth = 28

// View renders the upload controller's output as text lines
type View struct {
	out io.Writer
	// resolve turns server-relative media URLs into absolute ones.
	resolve func(string) string

	alerts   []string
	mediaURL string
	rows     int
}

// NewView writes to out. A nil resolve prints URLs unchanged.
func NewView(out io.Writer, resolve func(string) string) *View {
	if resolve == nil {
		resolve = func(s string) string { return s }
	}
	return &View{out: out, resolve: resolve}
}

func (v *View) Alert(message string) {
	v.alerts = append(v.alerts, message)
	fmt.Fprintf(v.out, "! %s\n", message)
}

func (v *View) SetLoadingVisible(visible bool) {
	if visible {
		fmt.Fprintln(v.out, "Processing...")
	}
}

func (v *View) ShowPreview(p upload.Preview) {
	fmt.Fprintf(v.out, "Preview: %s (%s)\n", p.Kind, p.Type)
}

func (v *View) ShowResultPanel() {
	fmt.Fprintln(v.out, "Detection results:")
}

func (v *View) ClearLog() {
	v.rows = 0
}

func (v *View) AppendLogRow(row upload.LogRow) {
	v.rows++
	fmt.Fprintf(v.out, "  %s %s\n", runewidth.FillRight(row.Label, labelWidth), row.Confidence)
}

func (v *View) ShowPlaceholder(text string) {
	fmt.Fprintf(v.out, "  %s\n", text)
}

func (v *View) ShowImageResult(url string) {
	v.mediaURL = v.resolve(url)
	fmt.Fprintf(v.out, "Result image: %s\n", v.mediaURL)
}

func (v *View) ShowVideoResult(src upload.MediaSource) {
	v.mediaURL = v.resolve(src.Src)
	fmt.Fprintf(v.out, "Result video: %s (%s)\n", v.mediaURL, src.Type)
}

// Alerts returns every message alerted so far
func (v *View) Alerts() []string {
	return append([]string(nil), v.alerts...)
}

// MediaURL is the last result media shown
func (v *View) MediaURL() string {
	return v.mediaURL
}

// Rows is the number of log rows since the last clear
func (v *View) Rows() int {
	return v.rows
}

// Separator prints a heading for the next file
func (v *View) Separator(name string) {
	fmt.Fprintf(v.out, "\n== %s %s\n", name, strings.Repeat("=", max(0, labelWidth-runewidth.StringWidth(name))))
}
