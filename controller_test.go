package main

import (
	"os"
	"path/filepath"
	"testing"
)

// captureSink records what the controller pushed, standing in for the page.
type captureSink struct {
	beginPaths []string
	summary    *Summary
	detail     *Detail
	errPath    string
	errMsg     string
}

func (c *captureSink) BeginLoad(path string) {
	c.beginPaths = append(c.beginPaths, path)
	c.errPath, c.errMsg = "", ""
}

func (c *captureSink) RenderCharts(s Summary) { c.summary = &s }

func (c *captureSink) RenderTable(d Detail) { c.detail = &d }

func (c *captureSink) RenderError(path string, err error) {
	c.errPath = path
	c.errMsg = err.Error()
}

func writeWeekFixture(t *testing.T, dir string, manifest string, weeks map[string]string) Source {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "manifest.json"), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	for name, content := range weeks {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return Source{Manifest: filepath.Join(dir, "manifest.json"), Data: dir}
}

func TestControllerInitializeSelectsLatestWeek(t *testing.T) {
	src := writeWeekFixture(t, t.TempDir(),
		`["violations_2025w08.json","violations_2025w06.json","violations_2025w07.json"]`,
		map[string]string{
			"violations_2025w06.json": `[]`,
			"violations_2025w07.json": `[{"Date":"1/1","Delivery Associate":"A","Metric Type":"Speeding","Review Details":"None"}]`,
			"violations_2025w08.json": `[{"Date":"2/1","Delivery Associate":"B","Metric Type":"Braking","Review Details":"None"},
			                            {"Date":"2/2","Delivery Associate":"B","Metric Type":"Braking","Review Details":"Dispute Approved"}]`,
		})

	sink := &captureSink{}
	ctrl := NewController(src, sink)
	if err := ctrl.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	datasets := ctrl.Datasets()
	if len(datasets) != 3 {
		t.Fatalf("expected 3 datasets, got %d", len(datasets))
	}
	// Chronological order regardless of manifest order.
	if datasets[0].File != "violations_2025w06.json" || datasets[2].File != "violations_2025w08.json" {
		t.Fatalf("unexpected dataset order: %+v", datasets)
	}

	ds, summary, detail, ok := ctrl.Selected()
	if !ok {
		t.Fatal("expected a selected week after Initialize")
	}
	if ds.File != "violations_2025w08.json" {
		t.Fatalf("expected latest week selected, got %s", ds.File)
	}
	if summary.Total != 2 || summary.Violations != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if detail.GrandTotal != 1 {
		t.Fatalf("unexpected grand total: %d", detail.GrandTotal)
	}
	if sink.summary == nil || sink.detail == nil {
		t.Fatal("sink should have received charts and table renders")
	}
}

func TestControllerSelectWeekReplacesState(t *testing.T) {
	src := writeWeekFixture(t, t.TempDir(),
		`["violations_2025w06.json","violations_2025w07.json"]`,
		map[string]string{
			"violations_2025w06.json": `[{"Date":"1/1","Delivery Associate":"A","Metric Type":"Speeding","Review Details":"None"}]`,
			"violations_2025w07.json": `[]`,
		})

	sink := &captureSink{}
	ctrl := NewController(src, sink)
	if err := ctrl.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if err := ctrl.SelectWeek("violations_2025w06.json"); err != nil {
		t.Fatalf("SelectWeek failed: %v", err)
	}
	ds, summary, _, _ := ctrl.Selected()
	if ds.File != "violations_2025w06.json" {
		t.Fatalf("unexpected selection: %s", ds.File)
	}
	if summary.Violations != 1 {
		t.Fatalf("unexpected summary after re-selection: %+v", summary)
	}
}

func TestControllerUnknownWeekRejected(t *testing.T) {
	src := writeWeekFixture(t, t.TempDir(),
		`["violations_2025w06.json"]`,
		map[string]string{"violations_2025w06.json": `[]`})

	sink := &captureSink{}
	ctrl := NewController(src, sink)
	if err := ctrl.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if err := ctrl.SelectWeek("../../etc/passwd"); err == nil {
		t.Fatal("expected selection outside the manifest to be rejected")
	}
	if sink.errMsg == "" {
		t.Fatal("expected the sink to receive the error")
	}
}

func TestControllerFailedLoadKeepsPriorState(t *testing.T) {
	src := writeWeekFixture(t, t.TempDir(),
		`["violations_2025w06.json","violations_2025w07.json"]`,
		map[string]string{
			// w07 (the latest) loads fine; w06 is broken.
			"violations_2025w06.json": `{not json`,
			"violations_2025w07.json": `[{"Date":"1/1","Delivery Associate":"A","Metric Type":"Speeding","Review Details":"None"}]`,
		})

	sink := &captureSink{}
	ctrl := NewController(src, sink)
	if err := ctrl.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if err := ctrl.SelectWeek("violations_2025w06.json"); err == nil {
		t.Fatal("expected broken dataset to fail")
	}

	// The selection and derived state must still be the previous good week.
	ds, summary, _, ok := ctrl.Selected()
	if !ok || ds.File != "violations_2025w07.json" {
		t.Fatalf("expected prior selection retained, got %+v ok=%v", ds, ok)
	}
	if summary.Violations != 1 {
		t.Fatalf("prior summary should be untouched: %+v", summary)
	}
	if sink.errMsg == "" || sink.errPath == "" {
		t.Fatal("expected error surfaced to the sink with the failing path")
	}
}

func TestControllerEmptyManifestFailsVisibly(t *testing.T) {
	src := writeWeekFixture(t, t.TempDir(), `[]`, nil)

	sink := &captureSink{}
	ctrl := NewController(src, sink)
	if err := ctrl.Initialize(); err == nil {
		t.Fatal("expected empty manifest to fail initialization")
	}
	if sink.errMsg == "" {
		t.Fatal("expected error surfaced to the sink")
	}
}

func TestControllerErrorClearsWhenLoadBegins(t *testing.T) {
	src := writeWeekFixture(t, t.TempDir(),
		`["violations_2025w06.json","violations_2025w07.json"]`,
		map[string]string{
			"violations_2025w06.json": `{not json`,
			"violations_2025w07.json": `[]`,
		})

	sink := &captureSink{}
	ctrl := NewController(src, sink)
	if err := ctrl.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := ctrl.SelectWeek("violations_2025w06.json"); err == nil {
		t.Fatal("expected failure")
	}
	if sink.errMsg == "" {
		t.Fatal("expected error after failed load")
	}

	// A fresh valid selection hides the panel again.
	if err := ctrl.SelectWeek("violations_2025w07.json"); err != nil {
		t.Fatalf("recovery selection failed: %v", err)
	}
	if sink.errMsg != "" {
		t.Fatalf("error should clear when a load begins, still: %q", sink.errMsg)
	}
}
