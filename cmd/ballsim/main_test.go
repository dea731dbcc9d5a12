package main

import (
	"strings"
	"testing"
	"time"

	"github.com/san-kum/ballsim/internal/storage"
	"github.com/san-kum/ballsim/internal/telemetry"
	"github.com/spf13/cobra"
)

func TestApplyFlagsOnlyChanged(t *testing.T) {
	cmd := &cobra.Command{Use: "run"}
	addTableFlags(cmd)
	cmd.Flags().DurationVar(&tick, "tick", 16*time.Millisecond, "")

	if err := cmd.Flags().Parse([]string{"--balls", "25", "--tick", "0s"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Balls.Count != 25 || cfg.Engine.TickInterval != 0 {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if cfg.Table.Width != 800 || cfg.Balls.Radius != 10 {
		t.Errorf("unchanged flags overrode config: %+v", cfg)
	}
	if cfg.Engine.Seed == 0 {
		t.Error("expected a generated seed")
	}
}

func TestLoadConfigUnknownPreset(t *testing.T) {
	preset = "nope"
	defer func() { preset = "" }()

	if _, err := loadConfig(&cobra.Command{}); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestTrajectory(t *testing.T) {
	records := []telemetry.Record{
		{BallID: 1, X: 10, Y: 20},
		{BallID: 2, X: 99, Y: 99},
		{BallID: 1, X: 11, Y: 21},
	}
	xs, ys := trajectory(records, 1)
	if len(xs) != 2 || xs[1] != 11 || ys[0] != 20 {
		t.Errorf("unexpected trajectory %v %v", xs, ys)
	}

	if xs, _ := trajectory(records, 3); len(xs) != 0 {
		t.Errorf("expected no samples, got %v", xs)
	}
}

func TestDownsample(t *testing.T) {
	data := make([]float64, 1000)
	for i := range data {
		data[i] = float64(i)
	}

	out := downsample(data, 80)
	if len(out) != 80 || out[0] != 0 || out[79] != 999 {
		t.Errorf("unexpected downsample: len=%d first=%v last=%v", len(out), out[0], out[len(out)-1])
	}
	if got := downsample(data[:10], 80); len(got) != 10 {
		t.Errorf("short series should pass through, got %d", len(got))
	}
}

func TestParseBallID(t *testing.T) {
	if id, err := parseBallID("7"); err != nil || id != 7 {
		t.Errorf("got %d, %v", id, err)
	}
	for _, bad := range []string{"0", "-3", "x"} {
		if _, err := parseBallID(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestRenderSummary(t *testing.T) {
	out := renderSummary(storage.RunMetadata{
		ID:          "default_1",
		Balls:       3,
		Diagnostics: "/tmp/x.log",
		Metrics:     map[string]float64{"collisions": 4},
	}, telemetry.Stats{Written: 12, Dropped: 2})

	for _, want := range []string{"default_1", "collisions", "12 written", "2 records dropped"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestCheckSweep(t *testing.T) {
	if err := checkSweep(4, 0); err != nil {
		t.Errorf("expected valid sweep, got %v", err)
	}
	for _, c := range [][2]int{{0, 10}, {-1, 10}, {2, -1}} {
		if err := checkSweep(c[0], c[1]); err == nil {
			t.Errorf("expected error for runs=%d ticks=%d", c[0], c[1])
		}
	}
}
