package upload

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/wildlife-tools/animaldetect/internal/models"
)

// recordingView records every call made by the controller
type recordingView struct {
	mu     sync.Mutex
	events []string
	alerts []string
	rows   []LogRow

	loadingShown  int
	loadingHidden int
	resultShown   bool
	preview       *Preview
	imageSrc      string
	videoSrc      *MediaSource
	videoReloads  int
	placeholder   string
}

func (v *recordingView) record(event string) {
	v.events = append(v.events, event)
}

func (v *recordingView) Alert(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.record("alert")
	v.alerts = append(v.alerts, message)
}

func (v *recordingView) SetLoadingVisible(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if visible {
		v.record("loading:show")
		v.loadingShown++
	} else {
		v.record("loading:hide")
		v.loadingHidden++
	}
}

func (v *recordingView) ShowPreview(p Preview) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.record("preview")
	v.preview = &p
}

func (v *recordingView) ShowResultPanel() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.record("result")
	v.resultShown = true
}

func (v *recordingView) ClearLog() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.record("log:clear")
	v.rows = nil
	v.placeholder = ""
}

func (v *recordingView) AppendLogRow(row LogRow) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.record("log:row")
	v.rows = append(v.rows, row)
}

func (v *recordingView) ShowPlaceholder(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.record("log:placeholder")
	v.placeholder = text
}

func (v *recordingView) ShowImageResult(url string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.record("image")
	v.imageSrc = url
}

func (v *recordingView) ShowVideoResult(src MediaSource) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.record("video")
	v.videoSrc = &src
	v.videoReloads++
}

func (v *recordingView) count(event string) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	n := 0
	for _, e := range v.events {
		if e == event {
			n++
		}
	}
	return n
}

type detectorFunc func(ctx context.Context, task Task) (*models.DetectionResult, error)

func (f detectorFunc) Detect(ctx context.Context, task Task) (*models.DetectionResult, error) {
	return f(ctx, task)
}

type staticForm struct {
	file    *File
	handler func(ctx context.Context)
}

func (f *staticForm) OnSubmit(handler func(ctx context.Context)) { f.handler = handler }
func (f *staticForm) SelectedFile() *File                        { return f.file }

func pngFile() File {
	return File{Name: "fox.png", Type: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}
}

func TestSubmitRejectsWrongMediaType(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		file *File
		err  error
	}{
		{"no file", KindImage, nil, ErrNoFile},
		{"video as image", KindImage, &File{Name: "a.mp4", Type: "video/mp4"}, ErrWrongMediaType},
		{"image as video", KindVideo, &File{Name: "a.png", Type: "image/png"}, ErrWrongMediaType},
		{"empty type", KindImage, &File{Name: "a"}, ErrWrongMediaType},
		{"prefix must lead", KindImage, &File{Name: "a", Type: "application/image/png"}, ErrWrongMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			view := &recordingView{}
			c := New(view, detectorFunc(func(ctx context.Context, task Task) (*models.DetectionResult, error) {
				calls++
				return &models.DetectionResult{}, nil
			}))

			err := c.Submit(context.Background(), tt.kind, tt.file)
			if !errors.Is(err, tt.err) {
				t.Errorf("Expected %v, got %v", tt.err, err)
			}
			if calls != 0 {
				t.Errorf("Expected no detection request, got %d", calls)
			}
			if len(view.alerts) != 1 {
				t.Fatalf("Expected one alert, got %v", view.alerts)
			}
			if view.loadingShown != 0 {
				t.Error("Expected loading indicator to stay hidden")
			}
			if c.State() != StateIdle {
				t.Errorf("Expected idle state, got %s", c.State())
			}
		})
	}
}

func TestWrongTypeAlertText(t *testing.T) {
	view := &recordingView{}
	c := New(view, detectorFunc(func(ctx context.Context, task Task) (*models.DetectionResult, error) {
		return nil, errors.New("unreachable")
	}))

	_ = c.Submit(context.Background(), KindImage, &File{Type: "text/plain"})
	_ = c.Submit(context.Background(), KindVideo, &File{Type: "text/plain"})

	expected := []string{"Please upload an image file", "Please upload a video file"}
	for i, want := range expected {
		if view.alerts[i] != want {
			t.Errorf("Expected %q, got %q", want, view.alerts[i])
		}
	}
}

func TestProcessFileImageSuccess(t *testing.T) {
	view := &recordingView{}
	var got Task
	c := New(view, detectorFunc(func(ctx context.Context, task Task) (*models.DetectionResult, error) {
		got = task
		return &models.DetectionResult{
			Detections: []models.Detection{{DisplayName: "Fox", Confidence: 0.8765}},
			ImageURL:   "/static/results/detected_fox.png",
		}, nil
	}))

	if err := c.ProcessFile(context.Background(), pngFile(), KindImage); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got.Kind != KindImage || got.File.Name != "fox.png" {
		t.Errorf("Unexpected task sent: %+v", got)
	}
	if view.loadingShown != 1 || view.loadingHidden != 1 {
		t.Errorf("Expected loading shown and hidden once, got %d/%d", view.loadingShown, view.loadingHidden)
	}
	if view.events[0] != "loading:show" {
		t.Errorf("Expected loading indicator first, got %v", view.events)
	}
	if view.imageSrc != "/static/results/detected_fox.png" {
		t.Errorf("Expected image source to be set, got %q", view.imageSrc)
	}
	if view.videoSrc != nil {
		t.Error("Expected video result to stay untouched")
	}
	if view.preview == nil || view.preview.Kind != KindImage || !strings.HasPrefix(view.preview.Source, "data:image/png;base64,") {
		t.Errorf("Expected image preview from data URL, got %+v", view.preview)
	}
	if len(view.rows) != 1 || view.rows[0] != (LogRow{Label: "Fox", Confidence: "87.65%"}) {
		t.Errorf("Unexpected log rows: %+v", view.rows)
	}
	if c.State() != StateShowingResult {
		t.Errorf("Expected showingResult, got %s", c.State())
	}
}

func TestProcessFileVideoSuccess(t *testing.T) {
	view := &recordingView{}
	c := New(view, detectorFunc(func(ctx context.Context, task Task) (*models.DetectionResult, error) {
		return &models.DetectionResult{VideoURL: "/out/clip.mp4"}, nil
	}))

	file := File{Name: "clip.webm", Type: "video/webm", Data: []byte("webm")}
	if err := c.ProcessFile(context.Background(), file, KindVideo); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if view.videoSrc == nil {
		t.Fatal("Expected video source to be set")
	}
	if view.videoSrc.Src != "/out/clip.mp4" || view.videoSrc.Type != "video/mp4" {
		t.Errorf("Unexpected video source: %+v", view.videoSrc)
	}
	if view.videoReloads != 1 {
		t.Errorf("Expected one reload, got %d", view.videoReloads)
	}
	if view.imageSrc != "" {
		t.Error("Expected image result to stay untouched")
	}
	if view.preview == nil || view.preview.Type != "video/webm" {
		t.Errorf("Expected preview to carry the file's MIME type, got %+v", view.preview)
	}
	if view.placeholder != "No animals detected" {
		t.Errorf("Expected placeholder row, got %q", view.placeholder)
	}
}

func TestProcessFileServerError(t *testing.T) {
	view := &recordingView{}
	c := New(view, detectorFunc(func(ctx context.Context, task Task) (*models.DetectionResult, error) {
		return &models.DetectionResult{Error: "model unavailable"}, nil
	}))

	err := c.ProcessFile(context.Background(), pngFile(), KindImage)
	var serverErr *ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("Expected ServerError, got %v", err)
	}

	if len(view.alerts) != 1 || !strings.Contains(view.alerts[0], "model unavailable") {
		t.Errorf("Expected alert containing server error, got %v", view.alerts)
	}
	if view.resultShown {
		t.Error("Expected result panel to stay hidden")
	}

	hide, alert := -1, -1
	for i, e := range view.events {
		switch e {
		case "loading:hide":
			hide = i
		case "alert":
			alert = i
		}
	}
	if hide == -1 || alert == -1 || hide > alert {
		t.Errorf("Expected loading hidden before alert, got %v", view.events)
	}
	if c.State() != StateError {
		t.Errorf("Expected error state, got %s", c.State())
	}
}

func TestProcessFileTransportError(t *testing.T) {
	view := &recordingView{}
	c := New(view, detectorFunc(func(ctx context.Context, task Task) (*models.DetectionResult, error) {
		return nil, fmt.Errorf("failed to send detection request: connection refused")
	}))

	if err := c.ProcessFile(context.Background(), pngFile(), KindImage); err == nil {
		t.Fatal("Expected error")
	}
	if view.loadingHidden != 1 {
		t.Errorf("Expected loading hidden once, got %d", view.loadingHidden)
	}
	if len(view.alerts) != 1 || view.alerts[0] != "Error processing file: failed to send detection request: connection refused" {
		t.Errorf("Unexpected alerts: %v", view.alerts)
	}
}

func TestFailureKeepsPreviousResults(t *testing.T) {
	view := &recordingView{}
	fail := false
	c := New(view, detectorFunc(func(ctx context.Context, task Task) (*models.DetectionResult, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return &models.DetectionResult{
			Detections: []models.Detection{{DisplayName: "Owl", Confidence: 0.5}},
			ImageURL:   "/first.png",
		}, nil
	}))

	if err := c.ProcessFile(context.Background(), pngFile(), KindImage); err != nil {
		t.Fatal(err)
	}
	fail = true
	_ = c.ProcessFile(context.Background(), pngFile(), KindImage)

	if view.imageSrc != "/first.png" || len(view.rows) != 1 {
		t.Errorf("Expected previous results untouched, got %q %v", view.imageSrc, view.rows)
	}
}

func TestSupersededResponseIsDropped(t *testing.T) {
	view := &recordingView{}
	firstStarted := make(chan struct{})
	firstDone := make(chan error, 1)

	c := New(view, detectorFunc(func(ctx context.Context, task Task) (*models.DetectionResult, error) {
		if task.File.Name == "slow.png" {
			close(firstStarted)
			<-ctx.Done()
			return &models.DetectionResult{ImageURL: "/stale.png"}, nil
		}
		return &models.DetectionResult{ImageURL: "/fresh.png"}, nil
	}))

	go func() {
		firstDone <- c.ProcessFile(context.Background(), File{Name: "slow.png", Type: "image/png"}, KindImage)
	}()
	<-firstStarted

	if err := c.ProcessFile(context.Background(), File{Name: "fast.png", Type: "image/png"}, KindImage); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := <-firstDone; !errors.Is(err, ErrSuperseded) {
		t.Errorf("Expected ErrSuperseded, got %v", err)
	}

	if view.imageSrc != "/fresh.png" {
		t.Errorf("Expected fresh result to win, got %q", view.imageSrc)
	}
	if view.count("image") != 1 {
		t.Errorf("Expected one image render, got %d", view.count("image"))
	}
	if c.State() != StateShowingResult {
		t.Errorf("Expected showingResult, got %s", c.State())
	}
}

func TestAbort(t *testing.T) {
	view := &recordingView{}
	started := make(chan struct{})
	done := make(chan error, 1)

	c := New(view, detectorFunc(func(ctx context.Context, task Task) (*models.DetectionResult, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}))

	go func() {
		done <- c.ProcessFile(context.Background(), pngFile(), KindImage)
	}()
	<-started
	c.Abort()

	if err := <-done; !errors.Is(err, ErrSuperseded) {
		t.Errorf("Expected ErrSuperseded, got %v", err)
	}
	if len(view.alerts) != 0 {
		t.Errorf("Expected no alert after abort, got %v", view.alerts)
	}
	if view.loadingHidden != 1 {
		t.Errorf("Expected loading hidden once, got %d", view.loadingHidden)
	}
	if s := c.State(); s != StatePreviewing && s != StateIdle {
		t.Errorf("Expected previewing or idle, got %s", s)
	}
}

func TestBindForm(t *testing.T) {
	view := &recordingView{}
	calls := 0
	c := New(view, detectorFunc(func(ctx context.Context, task Task) (*models.DetectionResult, error) {
		calls++
		return &models.DetectionResult{}, nil
	}))

	// a missing form is tolerated
	c.BindForm(KindVideo, nil)

	file := pngFile()
	form := &staticForm{file: &file}
	c.BindForm(KindImage, form)
	if form.handler == nil {
		t.Fatal("Expected submit handler to be attached")
	}

	form.handler(context.Background())
	if calls != 1 {
		t.Errorf("Expected one detection request, got %d", calls)
	}

	form.file = nil
	form.handler(context.Background())
	if calls != 1 {
		t.Errorf("Expected no request without a file, got %d", calls)
	}
}

func TestShowLoading(t *testing.T) {
	view := &recordingView{}
	c := New(view, nil)

	c.ShowLoading(true)
	c.ShowLoading(false)

	if view.loadingShown != 1 || view.loadingHidden != 1 || len(view.events) != 2 {
		t.Errorf("Expected only loading toggles, got %v", view.events)
	}
}
