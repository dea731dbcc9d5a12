package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/ballsim/internal/physics"
)

const (
	metadataFile = "metadata.json"
	ballsFile    = "balls.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

// Store keeps one directory per run under baseDir.
type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID          string             `json:"id"`
	Preset      string             `json:"preset"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	Ticks       uint64             `json:"ticks"`
	Balls       int                `json:"balls"`
	Width       float64            `json:"width"`
	Height      float64            `json:"height"`
	Diagnostics string             `json:"diagnostics,omitempty"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes meta and the final ball states into a new run directory and
// returns the run id. ID and Timestamp are filled in when empty.
func (s *Store) Save(meta RunMetadata, final []physics.Body) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = s.now()
	}
	if meta.ID == "" {
		preset := meta.Preset
		if preset == "" {
			preset = "run"
		}
		meta.ID = fmt.Sprintf("%s_%d", preset, meta.Timestamp.UnixNano())
	}
	meta.Balls = len(final)

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("create run dir: %w", err)
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeBalls(filepath.Join(runDir, ballsFile), final); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

var ballsHeader = []string{"id", "x", "y", "vx", "vy", "mass", "radius"}

func writeBalls(path string, bodies []physics.Body) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(ballsHeader); err != nil {
		return err
	}
	for _, b := range bodies {
		row := []string{
			strconv.FormatInt(b.ID, 10),
			formatFloat(b.Position.X),
			formatFloat(b.Position.Y),
			formatFloat(b.Velocity.X),
			formatFloat(b.Velocity.Y),
			formatFloat(b.Mass),
			formatFloat(b.Radius),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// List returns every readable run, oldest first. Directories without valid
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode %s metadata: %w", runID, err)
	}
	return &meta, nil
}

// LoadBalls reads the final ball states of a run.
func (s *Store) LoadBalls(runID string) ([]physics.Body, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, ballsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(ballsHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s balls: %w", runID, err)
	}
	if len(records) < 2 {
		return []physics.Body{}, nil
	}

	bodies := make([]physics.Body, 0, len(records)-1)
	for i, rec := range records[1:] {
		b, err := parseBody(rec)
		if err != nil {
			return nil, fmt.Errorf("%s balls row %d: %w", runID, i+1, err)
		}
		bodies = append(bodies, b)
	}
	return bodies, nil
}

func parseBody(rec []string) (physics.Body, error) {
	id, err := strconv.ParseInt(rec[0], 10, 64)
	if err != nil {
		return physics.Body{}, err
	}
	vals := make([]float64, len(rec)-1)
	for i, field := range rec[1:] {
		if vals[i], err = strconv.ParseFloat(field, 64); err != nil {
			return physics.Body{}, err
		}
	}
	return physics.Body{
		ID:       id,
		Position: physics.V(vals[0], vals[1]),
		Velocity: physics.V(vals[2], vals[3]),
		Mass:     vals[4],
		Radius:   vals[5],
	}, nil
}

type exportedBall struct {
	ID     int64   `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Mass   float64 `json:"mass"`
	Radius float64 `json:"radius"`
}

type export struct {
	Run   RunMetadata    `json:"run"`
	Balls []exportedBall `json:"balls"`
}

// ExportJSON writes a run's metadata and final ball states as one JSON
// document.
func (s *Store) ExportJSON(runID string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	bodies, err := s.LoadBalls(runID)
	if err != nil {
		return err
	}

	out := export{Run: *meta, Balls: make([]exportedBall, len(bodies))}
	for i, b := range bodies {
		out.Balls[i] = exportedBall{
			ID: b.ID, X: b.Position.X, Y: b.Position.Y,
			VX: b.Velocity.X, VY: b.Velocity.Y,
			Mass: b.Mass, Radius: b.Radius,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
