package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/tidytype/internal/command"
	"github.com/dshills/tidytype/internal/config"
	"github.com/dshills/tidytype/internal/document"
	"github.com/dshills/tidytype/internal/playback"
	"github.com/dshills/tidytype/internal/rewrite"
	"github.com/dshills/tidytype/internal/source"
)

// recordingNotifier captures notifications.
type recordingNotifier struct {
	mu       sync.Mutex
	progress []string
	done     int
	infos    []string
	errors   []string
	previews []string
}

func (n *recordingNotifier) Progress(msg string) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.progress = append(n.progress, msg)
	return func() {
		n.mu.Lock()
		n.done++
		n.mu.Unlock()
	}
}

func (n *recordingNotifier) Info(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.infos = append(n.infos, msg)
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

func (n *recordingNotifier) Preview(title, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.previews = append(n.previews, title+": "+text)
}

func noSleep(context.Context, time.Duration, <-chan struct{}) {}

func constant(s string) rewrite.Rewriter {
	return rewrite.Func(func(context.Context, string) (string, error) { return s, nil })
}

func newTestApp(t *testing.T, rw rewrite.Rewriter, cfg *config.Config, observer playback.Observer) (*Application, *recordingNotifier) {
	t.Helper()
	n := &recordingNotifier{}
	app, err := New(Options{
		Config:   cfg,
		Notifier: n,
		Rewriter: rw,
		PlayerOptions: []playback.Option{
			playback.WithSleeper(noSleep),
			playback.WithObserver(observer),
		},
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(app.Close)
	return app, n
}

func selectAll(text string) *document.Buffer {
	buf := document.NewBuffer(text, document.WithName("test.go"))
	buf.SetSelection(document.NewRange(document.Point{}, buf.End()))
	return buf
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(Options{Config: config.Default()})
	if !errors.Is(err, rewrite.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestNewRegistersCommands(t *testing.T) {
	app, _ := newTestApp(t, constant(""), nil, nil)

	want := []string{command.Cancel, command.Clean, command.Finish, command.Preview}
	if diff := cmp.Diff(want, app.Commands().Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestCleanCompletes(t *testing.T) {
	app, n := newTestApp(t, constant("func f() {}"), nil, nil)
	buf := selectAll("func  f(){ }")
	app.SetDocument(buf)

	if err := app.Clean(context.Background()); err != nil {
		t.Fatalf("Clean() failed: %v", err)
	}
	if got := buf.Text(); got != "func f() {}" {
		t.Errorf("Text() = %q, expected %q", got, "func f() {}")
	}
	if got := buf.Selection(); !got.IsEmpty() || got.Start != buf.End() {
		t.Errorf("Selection() = %v, expected caret at end", got)
	}
	if diff := cmp.Diff([]string{MsgCleaning}, n.progress); diff != "" {
		t.Errorf("progress mismatch (-want +got):\n%s", diff)
	}
	if n.done != 1 {
		t.Errorf("progress done called %d times, expected 1", n.done)
	}
	if diff := cmp.Diff([]string{MsgCleaned}, n.infos); diff != "" {
		t.Errorf("infos mismatch (-want +got):\n%s", diff)
	}
	if app.Cleaning() {
		t.Error("expected Cleaning() to be false after Clean returns")
	}
}

func TestCleanUndoesAsOneStep(t *testing.T) {
	app, _ := newTestApp(t, constant("a\nb\nc"), nil, nil)
	buf := document.NewBuffer("x", document.WithHistory(0))
	buf.SetSelection(document.NewRange(document.Point{}, buf.End()))
	app.SetDocument(buf)

	if err := app.Clean(context.Background()); err != nil {
		t.Fatalf("Clean() failed: %v", err)
	}
	name, err := buf.Undo()
	if err != nil {
		t.Fatalf("Undo() failed: %v", err)
	}
	if name != command.Clean {
		t.Errorf("Undo() name = %q, expected %q", name, command.Clean)
	}
	if buf.Text() != "x" {
		t.Errorf("Text() = %q, expected %q", buf.Text(), "x")
	}
	if buf.CanUndo() {
		t.Error("expected the clean to be a single undo entry")
	}
}

func TestCleanPartialSelection(t *testing.T) {
	app, _ := newTestApp(t, constant("b := 2"), nil, nil)
	buf := document.NewBuffer("a := 1\nb  =  2\nc := 3\n")
	buf.SetSelection(document.NewRange(document.Point{Line: 1}, document.Point{Line: 1, Column: 8}))
	app.SetDocument(buf)

	if err := app.Clean(context.Background()); err != nil {
		t.Fatalf("Clean() failed: %v", err)
	}
	if got, want := buf.Text(), "a := 1\nb := 2\nc := 3\n"; got != want {
		t.Errorf("Text() = %q, expected %q", got, want)
	}
}

func TestCleanErrors(t *testing.T) {
	small := config.Default()
	small.Selection.MaxLines = 2

	tests := []struct {
		name    string
		rw      rewrite.Rewriter
		cfg     *config.Config
		doc     *document.Buffer
		wantErr error
		wantMsg string
	}{
		{
			name:    "no document",
			rw:      constant("x"),
			wantErr: source.ErrNoDocument,
			wantMsg: "No active editor found",
		},
		{
			name:    "selection too large",
			rw:      constant("x"),
			cfg:     small,
			doc:     selectAll("a\nb\nc"),
			wantErr: source.ErrSelectionTooLarge,
			wantMsg: "Selection exceeds the line limit",
		},
		{
			name: "rewriter fails",
			rw: rewrite.Func(func(context.Context, string) (string, error) {
				return "", rewrite.ErrEmptyResponse
			}),
			doc:     selectAll("keep me"),
			wantErr: rewrite.ErrEmptyResponse,
			wantMsg: "The model returned no code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, n := newTestApp(t, tt.rw, tt.cfg, nil)
			if tt.doc != nil {
				app.SetDocument(tt.doc)
			}

			err := app.Clean(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Clean() error = %v, expected %v", err, tt.wantErr)
			}
			if diff := cmp.Diff([]string{tt.wantMsg}, n.errors); diff != "" {
				t.Errorf("errors mismatch (-want +got):\n%s", diff)
			}
			if tt.doc != nil && tt.doc.Revision() != 1 {
				t.Errorf("document modified: %q", tt.doc.Text())
			}
		})
	}
}

func TestCleanCancel(t *testing.T) {
	var app *Application
	app, n := newTestApp(t, constant("replacement"), nil, func(st playback.Step) {
		if st.Kind == playback.StepChar && st.Typed == 3 {
			app.Cancel()
		}
	})
	buf := selectAll("original")
	app.SetDocument(buf)

	if err := app.Clean(context.Background()); err != nil {
		t.Fatalf("Clean() failed: %v", err)
	}
	if got := buf.Text(); got != "original" {
		t.Errorf("Text() = %q, expected original text", got)
	}
	if got, want := buf.Selection(), document.NewRange(document.Point{}, document.Point{Column: 8}); got != want {
		t.Errorf("Selection() = %v, expected %v", got, want)
	}
	if len(n.infos) != 0 || len(n.errors) != 0 {
		t.Errorf("cancel should be silent, got infos=%v errors=%v", n.infos, n.errors)
	}
}

func TestCleanFinishCommand(t *testing.T) {
	var app *Application
	app, _ = newTestApp(t, constant("one\ntwo\nthree"), nil, func(st playback.Step) {
		if st.Kind == playback.StepChar && st.Typed == 1 {
			if err := app.Commands().Execute(context.Background(), command.Finish); err != nil {
				t.Errorf("Execute(finish) failed: %v", err)
			}
		}
	})
	buf := selectAll("x")
	app.SetDocument(buf)

	if err := app.Commands().Execute(context.Background(), command.Clean); err != nil {
		t.Fatalf("Execute(clean) failed: %v", err)
	}
	if got := buf.Text(); got != "one\ntwo\nthree" {
		t.Errorf("Text() = %q, expected full replacement", got)
	}
}

func TestCleanBusy(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	rw := rewrite.Func(func(ctx context.Context, code string) (string, error) {
		close(entered)
		<-release
		return code, nil
	})
	app, n := newTestApp(t, rw, nil, nil)
	app.SetDocument(selectAll("abc"))

	errc := make(chan error, 1)
	go func() { errc <- app.Clean(context.Background()) }()
	<-entered

	if err := app.Clean(context.Background()); !errors.Is(err, ErrBusy) {
		t.Errorf("second Clean() error = %v, expected ErrBusy", err)
	}
	close(release)
	if err := <-errc; err != nil {
		t.Fatalf("first Clean() failed: %v", err)
	}
	if diff := cmp.Diff([]string{"A cleanup is already in progress"}, n.errors); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestPreviewLeavesDocument(t *testing.T) {
	app, n := newTestApp(t, constant("clean"), nil, nil)
	buf := selectAll("dirty")
	app.SetDocument(buf)

	got, err := app.Preview(context.Background())
	if err != nil {
		t.Fatalf("Preview() failed: %v", err)
	}
	if got != "clean" {
		t.Errorf("Preview() = %q, expected %q", got, "clean")
	}
	if buf.Text() != "dirty" {
		t.Errorf("document modified by preview: %q", buf.Text())
	}
	if diff := cmp.Diff([]string{MsgPreview + ": clean"}, n.previews); diff != "" {
		t.Errorf("previews mismatch (-want +got):\n%s", diff)
	}
}

func TestCleanWithHook(t *testing.T) {
	script := filepath.Join(t.TempDir(), "upper.lua")
	if err := os.WriteFile(script, []byte(`function filter(o, c) return string.upper(c) end`), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.Hook.Script = script

	app, _ := newTestApp(t, constant("done"), cfg, nil)
	buf := selectAll("todo")
	app.SetDocument(buf)

	if err := app.Clean(context.Background()); err != nil {
		t.Fatalf("Clean() failed: %v", err)
	}
	if got := buf.Text(); got != "DONE" {
		t.Errorf("Text() = %q, expected %q", got, "DONE")
	}
}

func TestNewMissingHook(t *testing.T) {
	cfg := config.Default()
	cfg.Hook.Script = filepath.Join(t.TempDir(), "missing.lua")

	_, err := New(Options{Config: cfg, Rewriter: constant("")})
	var opErr *OperationError
	if !errors.As(err, &opErr) || opErr.Op != "load" {
		t.Fatalf("expected load OperationError, got %v", err)
	}
}

func TestReload(t *testing.T) {
	app, _ := newTestApp(t, constant("x"), nil, nil)

	cfg := config.Default()
	cfg.Playback.CharDelayMS = 40
	cfg.Provider.Name = config.ProviderCompatible
	cfg.Provider.BaseURL = "http://localhost:1"

	if err := app.Reload(cfg); err != nil {
		t.Fatalf("Reload() failed: %v", err)
	}
	if got := app.player.CharDelay(); got != 40*time.Millisecond {
		t.Errorf("CharDelay() = %v, expected 40ms", got)
	}
	if app.Config() != cfg {
		t.Error("expected Config() to return the reloaded config")
	}
}

func TestReloadRebuildsProvider(t *testing.T) {
	cfg := config.Default()
	cfg.Provider.Name = config.ProviderCompatible
	cfg.Provider.BaseURL = "http://localhost:1"

	app, err := New(Options{Config: cfg, Notifier: &recordingNotifier{}})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer app.Close()

	bad := config.Default()
	bad.Provider.Name = config.ProviderAnthropic
	bad.Provider.APIKey = ""

	err = app.Reload(bad)
	if !errors.Is(err, rewrite.ErrMissingAPIKey) {
		t.Fatalf("Reload() error = %v, expected ErrMissingAPIKey", err)
	}
	if !strings.Contains(err.Error(), "reload provider") {
		t.Errorf("error %q lacks context", err)
	}
	if app.Config() != cfg {
		t.Error("failed reload must keep the previous config")
	}
}
