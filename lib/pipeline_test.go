package wallpaperlib

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type recordingSink struct {
	calls []sinkCall
	err   error
}

type sinkCall struct {
	path AbsolutePath
	fit  FitMode
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) SetBackground(
	ctx context.Context, path AbsolutePath, fit FitMode) error {

	s.calls = append(s.calls, sinkCall{path, fit})
	return s.err
}

func pipelineFixture(t *testing.T) (*Pipeline, *countingCompositor, *recordingSink, []Assignment) {
	t.Helper()
	rc, cc, as := cacheFixture(t)
	sink := &recordingSink{}
	return &Pipeline{Cache: rc, Sink: sink}, cc, sink, as
}

func TestApplySingleMonitorBypassesCache(t *testing.T) {
	p, cc, sink, as := pipelineFixture(t)
	as = as[:1]
	as[0].Fit = FitStretch

	res, err := p.Apply(context.Background(), as)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Composite || res.Path != as[0].Path || res.Fit != FitStretch {
		t.Errorf("expected the source image with its own fit, got %+v", res)
	}
	if n := cc.calls.Load(); n != 0 {
		t.Errorf("compositor ran %d times for a single monitor", n)
	}
	if _, err := os.Stat(p.Cache.Dir()); !os.IsNotExist(err) {
		t.Errorf("single monitor touched the cache directory: %v", err)
	}
	if len(sink.calls) != 1 || sink.calls[0].path != as[0].Path {
		t.Errorf("unexpected sink calls %+v", sink.calls)
	}
}

func TestApplySingleMonitorDefaultFit(t *testing.T) {
	p, _, sink, as := pipelineFixture(t)

	if _, err := p.Apply(context.Background(), as[:1]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sink.calls[0].fit != FitFill {
		t.Errorf("expected the default fit, got %s", sink.calls[0].fit)
	}
}

func TestApplyMultiMonitorSpans(t *testing.T) {
	p, cc, sink, as := pipelineFixture(t)
	ctx := context.Background()

	res, err := p.Apply(ctx, as)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Composite || res.CacheHit {
		t.Errorf("expected a fresh composite, got %+v", res)
	}
	if filepath.Dir(res.Path) != p.Cache.Dir() {
		t.Errorf("composite %s is outside the cache %s", res.Path, p.Cache.Dir())
	}

	res, err = p.Apply(ctx, as)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.CacheHit {
		t.Errorf("second apply missed the cache")
	}
	if n := cc.calls.Load(); n != 1 {
		t.Errorf("expected 1 render, got %d", n)
	}

	if len(sink.calls) != 2 {
		t.Fatalf("expected 2 sink calls, got %d", len(sink.calls))
	}
	for _, c := range sink.calls {
		if c.fit != FitSpanned || c.path != res.Path {
			t.Errorf("unexpected sink call %+v", c)
		}
	}
}

func TestApplyMissingWallpaper(t *testing.T) {
	p, cc, sink, as := pipelineFixture(t)
	as[1].Path = ""

	_, err := p.Apply(context.Background(), as)

	var me *MissingWallpaperError
	if !errors.As(err, &me) {
		t.Fatalf("expected MissingWallpaperError, got %v", err)
	}
	if len(me.Monitors) != 1 || me.Monitors[0] != "B" {
		t.Errorf("expected monitor B to be reported, got %v", me.Monitors)
	}
	if cc.calls.Load() != 0 || len(sink.calls) != 0 {
		t.Errorf("nothing should run with a missing wallpaper")
	}
}

func TestApplyNoMonitors(t *testing.T) {
	p, _, _, _ := pipelineFixture(t)
	if _, err := p.Apply(context.Background(), nil); !errors.Is(err, ErrNoMonitors) {
		t.Errorf("expected ErrNoMonitors, got %v", err)
	}
}

func TestApplySinkError(t *testing.T) {
	p, _, sink, as := pipelineFixture(t)
	sink.err = &SinkApplyError{Sink: "recording", Path: "x", Err: errors.New("exit status 1")}

	res, err := p.Apply(context.Background(), as)

	var se *SinkApplyError
	if !errors.As(err, &se) {
		t.Fatalf("expected SinkApplyError, got %v", err)
	}
	// The composite was still produced and kept
	if _, statErr := os.Stat(res.Path); statErr != nil {
		t.Errorf("composite missing after a sink failure: %v", statErr)
	}
}

func TestRenderDoesNotApply(t *testing.T) {
	p, _, sink, as := pipelineFixture(t)

	res, err := p.Render(context.Background(), as)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Composite || res.Fit != FitSpanned {
		t.Errorf("unexpected result %+v", res)
	}
	if len(sink.calls) != 0 {
		t.Errorf("Render called the sink")
	}
}

type outputRecordingSink struct {
	recordingSink
	outputs []Assignment
}

func (s *outputRecordingSink) SetOutputBackgrounds(ctx context.Context, as []Assignment) error {
	s.outputs = append(s.outputs, as...)
	return s.err
}

func TestApplyOutputSinkSkipsComposite(t *testing.T) {
	p, cc, _, as := pipelineFixture(t)
	sink := &outputRecordingSink{}
	p.Sink = sink
	as[1].Fit = FitStretch

	res, err := p.Apply(context.Background(), as)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.PerOutput || res.Composite || res.Path != "" {
		t.Errorf("expected a per output result, got %+v", res)
	}
	if n := cc.calls.Load(); n != 0 {
		t.Errorf("compositor ran %d times for a per output sink", n)
	}
	if _, err := os.Stat(p.Cache.Dir()); !os.IsNotExist(err) {
		t.Errorf("per output sink touched the cache directory: %v", err)
	}

	if len(sink.outputs) != 2 || len(sink.calls) != 0 {
		t.Fatalf("unexpected sink use: outputs=%+v calls=%+v", sink.outputs, sink.calls)
	}
	if sink.outputs[0].Monitor.Name != "A" || sink.outputs[0].Fit != FitFill {
		t.Errorf("unexpected first output %+v", sink.outputs[0])
	}
	if sink.outputs[1].Path != as[1].Path || sink.outputs[1].Fit != FitStretch {
		t.Errorf("unexpected second output %+v", sink.outputs[1])
	}
}

func TestApplyOutputSinkSingleMonitor(t *testing.T) {
	p, _, _, as := pipelineFixture(t)
	sink := &outputRecordingSink{}
	p.Sink = sink

	if _, err := p.Apply(context.Background(), as[:1]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.calls) != 1 || len(sink.outputs) != 0 {
		t.Errorf("expected a plain SetBackground, got outputs=%+v calls=%+v",
			sink.outputs, sink.calls)
	}
}

func TestApplyOutputSinkMissingWallpaper(t *testing.T) {
	p, _, _, as := pipelineFixture(t)
	sink := &outputRecordingSink{}
	p.Sink = sink
	as[0].Path = ""

	_, err := p.Apply(context.Background(), as)
	var mw *MissingWallpaperError
	if !errors.As(err, &mw) {
		t.Fatalf("expected MissingWallpaperError, got %v", err)
	}
	if len(sink.outputs) != 0 {
		t.Errorf("sink was used despite a missing wallpaper")
	}
}
