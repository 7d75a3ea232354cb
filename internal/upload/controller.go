package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/wildlife-tools/animaldetect/internal/models"
)

// Controller drives the upload page: validation, local preview, the detection
// request and result rendering. All view calls are serialized.
type Controller struct {
	view     View
	detector Detector

	mu      sync.Mutex
	state   ViewState
	token   uint64
	cancel  context.CancelFunc
	preview bool
}

// New returns a controller rendering into view and submitting through detector
func New(view View, detector Detector) *Controller {
	return &Controller{
		view:     view,
		detector: detector,
		state:    StateIdle,
	}
}

// State returns the current view state
func (c *Controller) State() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// BindForm attaches the submit handler for kind to form. A nil form leaves
// the feature inactive.
func (c *Controller) BindForm(kind Kind, form Form) {
	if form == nil {
		slog.Debug("Upload form not present, feature inactive", "kind", kind)
		return
	}
	form.OnSubmit(func(ctx context.Context) {
		if err := c.Submit(ctx, kind, form.SelectedFile()); err != nil {
			slog.Debug("Submission ended with error", "kind", kind, "err", err)
		}
	})
}

// Submit validates file against kind and processes it. Validation failures
// are alerted and no request is issued.
func (c *Controller) Submit(ctx context.Context, kind Kind, file *File) error {
	if err := Validate(kind, file); err != nil {
		if errors.Is(err, ErrNoFile) {
			c.alert("Please select a file to upload")
		} else {
			c.alert(wrongTypeMessage(kind))
		}
		return err
	}
	return c.ProcessFile(ctx, *file, kind)
}

// Validate checks that a file is selected and its MIME type matches kind
func Validate(kind Kind, file *File) error {
	if file == nil {
		return &ValidationError{Kind: kind, Err: ErrNoFile}
	}
	if !strings.HasPrefix(file.Type, MIMEPrefix(kind)) {
		return &ValidationError{Kind: kind, Err: ErrWrongMediaType}
	}
	return nil
}

// ProcessFile previews file locally and submits it for detection. Every exit
// path of the current request hides the loading indicator. A response that
// belongs to a superseded request is dropped and ErrSuperseded is returned.
func (c *Controller) ProcessFile(ctx context.Context, file File, kind Kind) error {
	ctx, token := c.begin(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.renderPreview(token, file, kind)
	}()

	result, err := c.detector.Detect(ctx, Task{File: file, Kind: kind})
	wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.token {
		slog.Debug("Dropping stale detection response", "file", file.Name, "token", token)
		return ErrSuperseded
	}
	c.cancel()
	c.cancel = nil

	c.setLoading(false)
	if err == nil && result == nil {
		err = errors.New("empty detection response")
	}
	if err == nil && result.Error != "" {
		err = &ServerError{Message: result.Error}
	}
	if err != nil {
		slog.Error("Error processing file", "file", file.Name, "kind", kind, "err", err)
		c.setState(StateError)
		c.view.Alert("Error processing file: " + err.Error())
		return err
	}

	c.renderResults(result, kind)
	c.setState(StateShowingResult)
	return nil
}

// Abort discards the in-flight request, if any, and hides the loading indicator
func (c *Controller) Abort() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateLoading {
		return
	}
	c.token++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.setLoading(false)
	if c.preview {
		c.setState(StatePreviewing)
	} else {
		c.setState(StateIdle)
	}
}

// ShowLoading toggles the loading indicator
func (c *Controller) ShowLoading(visible bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLoading(visible)
}

// RenderResults shows the result panel, the detection log and the annotated media
func (c *Controller) RenderResults(result *models.DetectionResult, kind Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.renderResults(result, kind)
}

func (c *Controller) begin(ctx context.Context) (context.Context, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}
	c.token++
	ctx, c.cancel = context.WithCancel(ctx)
	c.preview = false

	c.setLoading(true)
	c.setState(StateLoading)
	return ctx, c.token
}

func (c *Controller) renderPreview(token uint64, file File, kind Kind) {
	p := Preview{Kind: kind, Source: file.DataURL(), Type: file.Type}

	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.token {
		return
	}
	c.view.ShowPreview(p)
	c.preview = true
}

func (c *Controller) renderResults(result *models.DetectionResult, kind Kind) {
	c.view.ShowResultPanel()
	c.view.ClearLog()

	if len(result.Detections) == 0 {
		c.view.ShowPlaceholder(noDetectionsRow)
	}
	for _, det := range result.Detections {
		c.view.AppendLogRow(LogRowFor(det))
	}

	switch {
	case kind == KindImage && result.ImageURL != "":
		c.view.ShowImageResult(result.ImageURL)
	case kind == KindVideo && result.VideoURL != "":
		c.view.ShowVideoResult(MediaSource{Src: result.VideoURL, Type: resultVideoType})
	}
}

func (c *Controller) setLoading(visible bool) {
	c.view.SetLoadingVisible(visible)
}

func (c *Controller) setState(next ViewState) {
	if !CanTransition(c.state, next) {
		slog.Warn("Unexpected view state transition", "from", c.state, "to", next)
	}
	c.state = next
}

func (c *Controller) alert(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.Alert(message)
}

func wrongTypeMessage(kind Kind) string {
	if kind == KindImage {
		return "Please upload an image file"
	}
	return fmt.Sprintf("Please upload a %s file", kind)
}
