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
	"strings"
	"time"

	"github.com/san-kum/planetsim/internal/body"
	"github.com/san-kum/planetsim/internal/config"
	"github.com/san-kum/planetsim/internal/experiment"
	"github.com/san-kum/planetsim/internal/sim"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	metadataFile = "metadata.json"
	scenarioFile = "scenario.yaml"
	framesFile   = "frames.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

var frameHeader = []string{"step", "time", "body", "x", "y", "z", "radius", "color"}

// Store keeps finished runs under baseDir, one directory per run.
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

type RunMetadata struct {
	ID         string             `json:"id"`
	Scenario   string             `json:"scenario"`
	Timestamp  time.Time          `json:"timestamp"`
	Integrator string             `json:"integrator"`
	Dt         float64            `json:"dt"`
	FinalDt    float64            `json:"final_dt"`
	Steps      int                `json:"steps"`
	Retries    int                `json:"retries"`
	Collisions int                `json:"collisions"`
	Bodies     []string           `json:"bodies"`
	Metrics    map[string]float64 `json:"metrics"`
	Error      string             `json:"error,omitempty"`
}

// Save writes the run metadata, the scenario it was built from and every
// recorded frame. runErr is kept in the metadata so failed runs can still be
// inspected.
func (s *Store) Save(cfg *config.Config, result *experiment.Result, runErr error) (string, error) {
	now := s.now()
	runID := fmt.Sprintf("%s_%d", runName(cfg.Name), now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Scenario:   cfg.Name,
		Timestamp:  now,
		Integrator: cfg.Integrator,
		Dt:         cfg.Dt,
		FinalDt:    result.FinalDt,
		Steps:      result.StepsTaken,
		Retries:    result.Retries,
		Collisions: result.Collisions,
		Metrics:    result.Metrics,
	}
	for i := range cfg.Bodies {
		meta.Bodies = append(meta.Bodies, cfg.BodyName(i))
	}
	if runErr != nil {
		meta.Error = runErr.Error()
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, scenarioFile), cfg); err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	if err := WriteFrames(f, result.Frames); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return runID, nil
}

// runName reduces a scenario name to a single safe path element.
func runName(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if strings.Trim(clean, "_") == "" {
		return "run"
	}
	return clean
}

// WriteFrames writes one CSV row per body per frame.
func WriteFrames(w io.Writer, frames []experiment.Frame) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(frameHeader); err != nil {
		return err
	}

	for _, f := range frames {
		for i, b := range f.Bodies {
			row := []string{
				strconv.Itoa(f.Step),
				strconv.FormatFloat(f.Time, 'g', -1, 64),
				strconv.Itoa(i),
				strconv.FormatFloat(b.Position.X, 'g', -1, 64),
				strconv.FormatFloat(b.Position.Y, 'g', -1, 64),
				strconv.FormatFloat(b.Position.Z, 'g', -1, 64),
				strconv.FormatFloat(b.Radius, 'g', -1, 64),
				b.Color.Hex(),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
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
		return nil, fmt.Errorf("%s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadScenario(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, scenarioFile))
}

// LoadFrames reads the recorded frames back in step order.
func (s *Store) LoadFrames(runID string) ([]experiment.Frame, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []experiment.Frame{}, nil
	}

	frames := make([]experiment.Frame, 0)
	for line, rec := range records[1:] {
		step, t, view, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", framesFile, line+2, err)
		}
		if n := len(frames); n == 0 || frames[n-1].Step != step {
			frames = append(frames, experiment.Frame{Step: step, Time: t})
		}
		last := &frames[len(frames)-1]
		last.Bodies = append(last.Bodies, view)
	}
	return frames, nil
}

func parseRow(rec []string) (int, float64, sim.BodyView, error) {
	var view sim.BodyView
	if len(rec) != len(frameHeader) {
		return 0, 0, view, fmt.Errorf("expected %d fields, got %d", len(frameHeader), len(rec))
	}

	step, err := strconv.Atoi(rec[0])
	if err != nil {
		return 0, 0, view, err
	}
	nums := make([]float64, 5)
	for i, field := range []string{rec[1], rec[3], rec[4], rec[5], rec[6]} {
		if nums[i], err = strconv.ParseFloat(field, 64); err != nil {
			return 0, 0, view, err
		}
	}
	col, err := body.ParseHex(rec[7])
	if err != nil {
		return 0, 0, view, err
	}

	view = sim.BodyView{
		Position: r3.Vec{X: nums[1], Y: nums[2], Z: nums[3]},
		Radius:   nums[4],
		Color:    col,
	}
	return step, nums[0], view, nil
}

type ExportData struct {
	RunMetadata
	Frames []experiment.Frame `json:"frames"`
}

// ExportJSON writes the metadata and frames of a stored run to w.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{RunMetadata: *meta, Frames: frames})
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
