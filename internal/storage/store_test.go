package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/ballsim/internal/physics"
)

func fixedClock(ts ...time.Time) func() time.Time {
	i := 0
	return func() time.Time {
		t := ts[i%len(ts)]
		i++
		return t
	}
}

func sampleBodies() []physics.Body {
	return []physics.Body{
		{ID: 1, Position: physics.V(12.5, 40), Velocity: physics.V(-0.25, 0.75), Mass: 1, Radius: 10},
		{ID: 4, Position: physics.V(700, 580), Velocity: physics.V(1, -1), Mass: 2.5, Radius: 12},
	}
}

func TestSaveAndLoad(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	id, err := s.Save(RunMetadata{
		Preset:  "crowded",
		Seed:    42,
		Dt:      1,
		Ticks:   300,
		Width:   800,
		Height:  600,
		Metrics: map[string]float64{"collisions": 17},
	}, sampleBodies())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := s.Load(id)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.ID != id || meta.Preset != "crowded" || meta.Balls != 2 || meta.Metrics["collisions"] != 17 {
		t.Errorf("unexpected metadata %+v", meta)
	}

	bodies, err := s.LoadBalls(id)
	if err != nil {
		t.Fatalf("load balls failed: %v", err)
	}
	want := sampleBodies()
	if len(bodies) != len(want) {
		t.Fatalf("expected %d balls, got %d", len(want), len(bodies))
	}
	for i := range want {
		if bodies[i] != want[i] {
			t.Errorf("ball %d: expected %+v, got %+v", i, want[i], bodies[i])
		}
	}
}

func TestListOrdersByTimestamp(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = fixedClock(base.Add(time.Hour), base)

	late, err := s.Save(RunMetadata{Preset: "late"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	early, err := s.Save(RunMetadata{Preset: "early"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	// junk directories are ignored
	if err := os.MkdirAll(filepath.Join(dir, "not-a-run"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].ID != early || runs[1].ID != late {
		t.Errorf("unexpected order: %+v", runs)
	}
}

func TestListMissingDir(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := s.List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
}

func TestLoadUnknownRun(t *testing.T) {
	s := New(t.TempDir())
	if _, err := s.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := s.LoadBalls("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestExportJSON(t *testing.T) {
	s := New(t.TempDir())
	id, err := s.Save(RunMetadata{Preset: "sparse", Seed: 9}, sampleBodies())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := s.ExportJSON(id, &buf); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var doc struct {
		Run struct {
			ID   string `json:"id"`
			Seed int64  `json:"seed"`
		} `json:"run"`
		Balls []struct {
			ID int64   `json:"id"`
			X  float64 `json:"x"`
		} `json:"balls"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if doc.Run.ID != id || doc.Run.Seed != 9 || len(doc.Balls) != 2 || doc.Balls[1].X != 700 {
		t.Errorf("unexpected export %+v", doc)
	}
}
