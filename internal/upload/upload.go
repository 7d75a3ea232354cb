package upload

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/wildlife-tools/animaldetect/internal/models"
)

// Kind is the media kind a form accepts
type Kind = models.MediaKind

const (
	KindImage = models.MediaImage
	KindVideo = models.MediaVideo
)

// MIMEPrefix returns the MIME type prefix a file must carry for kind
func MIMEPrefix(kind Kind) string {
	return string(kind) + "/"
}

// File is a user-selected blob with its MIME type
type File struct {
	Name string
	Type string
	Data []byte
}

// DataURL returns the file as an inline base64 data URL
func (f File) DataURL() string {
	mime := f.Type
	if mime == "" {
		mime = "application/octet-stream"
	}
	var sb strings.Builder
	sb.WriteString("data:")
	sb.WriteString(mime)
	sb.WriteString(";base64,")
	sb.WriteString(base64.StdEncoding.EncodeToString(f.Data))
	return sb.String()
}

// Task is a single submission
type Task struct {
	File File
	Kind Kind
}

// Preview is the locally rendered copy of a submitted file
type Preview struct {
	Kind Kind
	// Source is the data URL of the file.
	Source string
	// Type is the file's own MIME type, used for the video <source>.
	Type string
}

// MediaSource is a result video source
type MediaSource struct {
	Src  string
	Type string
}

// LogRow is one line of the detection log
type LogRow struct {
	Label      string
	Confidence string
}

// View is the set of page elements the controller drives.
type View interface {
	// Alert shows a blocking message to the user.
	Alert(message string)
	SetLoadingVisible(visible bool)
	// ShowPreview replaces the preview panel content and reveals it.
	ShowPreview(p Preview)
	ShowResultPanel()
	ClearLog()
	AppendLogRow(row LogRow)
	ShowPlaceholder(text string)
	// ShowImageResult sets the result image source, shows it and hides the result video.
	ShowImageResult(url string)
	// ShowVideoResult rebuilds the result video source, shows it, hides the
	// result image and reloads the video.
	ShowVideoResult(src MediaSource)
}

// Form is an upload form the controller can bind to
type Form interface {
	OnSubmit(handler func(ctx context.Context))
	// SelectedFile returns nil when no file is selected.
	SelectedFile() *File
}

// Detector sends a task to the detection endpoint
type Detector interface {
	Detect(ctx context.Context, task Task) (*models.DetectionResult, error)
}
