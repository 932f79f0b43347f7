package main

import (
	"fmt"
	"log"
	"sort"
	"sync"
)

// ViewSink is the set of render capabilities the controller drives. Keeping
// the aggregation path behind this interface means the summary/grouping code
// never touches a chart, a template, or a spreadsheet.
type ViewSink interface {
	// BeginLoad is called when a load starts; the error panel hides here.
	BeginLoad(path string)
	RenderCharts(s Summary)
	RenderTable(d Detail)
	// RenderError shows the failing path and message. Previously rendered
	// charts/table stay as they were.
	RenderError(path string, err error)
}

// Controller owns the session state: the parsed manifest and which week is
// selected. Derived state is recomputed in full on every selection; nothing
// is patched incrementally.
type Controller struct {
	src  Source
	sink ViewSink

	mu sync.Mutex

	datasets []Dataset
	selected string

	summary Summary
	detail  Detail
	loaded  bool
}

func NewController(src Source, sink ViewSink) *Controller {
	return &Controller{src: src, sink: sink}
}

// Initialize loads the manifest, builds the chronologically sorted dataset
// list, and selects and renders the latest week. The latest week is the one
// with the maximum sort key; unparseable filenames carry an infinite key and
// so win the default selection only when no filename parses.
func (c *Controller) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initializeLocked()
}

func (c *Controller) initializeLocked() error {
	c.sink.BeginLoad(c.src.Manifest)
	names, err := LoadManifest(c.src)
	if err != nil {
		log.Printf("manifest load failed: %v", err)
		c.sink.RenderError(c.src.Manifest, err)
		return err
	}

	datasets := make([]Dataset, 0, len(names))
	for _, name := range names {
		datasets = append(datasets, Dataset{
			File:    name,
			Label:   WeekLabel(name),
			SortKey: SortKeyForWeek(name),
		})
	}
	sort.SliceStable(datasets, func(i, j int) bool {
		return datasets[i].SortKey < datasets[j].SortKey
	})
	c.datasets = datasets
	log.Printf("manifest loaded: %d weeks, latest %s", len(datasets), datasets[len(datasets)-1].File)

	return c.selectWeekLocked(datasets[len(datasets)-1].File)
}

// SelectWeek loads one week's records, recomputes the summary and detail
// models, and pushes them to the sink. On failure the previous derived state
// stays in place and only the error panel changes.
func (c *Controller) SelectWeek(filename string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectWeekLocked(filename)
}

func (c *Controller) selectWeekLocked(filename string) error {
	ds, ok := c.datasetLocked(filename)
	if !ok {
		err := fmt.Errorf("unknown week %q: not in the manifest", filename)
		c.sink.RenderError(filename, err)
		return err
	}

	path := c.src.DatasetPath(ds.File)
	c.sink.BeginLoad(path)
	records, err := LoadDataset(c.src, ds.File)
	if err != nil {
		log.Printf("dataset load failed: %v", err)
		c.sink.RenderError(path, err)
		return err
	}

	summary := Summarize(records)
	detail := GroupByAssociate(records)

	c.selected = ds.File
	c.summary = summary
	c.detail = detail
	c.loaded = true

	log.Printf("week selected file=%s total=%d violations=%d groups=%d",
		ds.File, summary.Total, summary.Violations, len(detail.Groups))

	c.sink.RenderCharts(summary)
	c.sink.RenderTable(detail)
	return nil
}

// Refresh reloads the manifest and re-selects the latest week. Used by the
// scheduled refresh; interactive selection goes through SelectWeek.
func (c *Controller) Refresh() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initializeLocked()
}

// Datasets returns the manifest entries in chronological order.
func (c *Controller) Datasets() []Dataset {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Dataset, len(c.datasets))
	copy(out, c.datasets)
	return out
}

// Dataset looks up a manifest entry by filename.
func (c *Controller) Dataset(filename string) (Dataset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.datasetLocked(filename)
}

func (c *Controller) datasetLocked(filename string) (Dataset, bool) {
	for _, ds := range c.datasets {
		if ds.File == filename {
			return ds, true
		}
	}
	return Dataset{}, false
}

// Selected returns the active week's dataset and derived models. ok is
// false until the first successful load.
func (c *Controller) Selected() (Dataset, Summary, Detail, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return Dataset{}, Summary{}, Detail{}, false
	}
	ds, _ := c.datasetLocked(c.selected)
	return ds, c.summary, c.detail, true
}
