package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Scenario    string             `json:"scenario"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	G           float64            `json:"g"`
	Ticks       int                `json:"ticks"`
	FinalBodies int                `json:"final_bodies"`
	Diagnostics map[string]float64 `json:"diagnostics"`
}

// BodySample is one body's state at a single tick.
type BodySample struct {
	Body float64 `json:"body"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	VX   float64 `json:"vx"`
	VY   float64 `json:"vy"`
	Mass float64 `json:"mass"`
}

// Frame holds every body's state at one tick. Runs are recorded in long
// format so bodies can appear and disappear (culling) between frames.
type Frame struct {
	Tick   int          `json:"tick"`
	Bodies []BodySample `json:"bodies"`
}

func (s *Store) Save(scenario string, seed int64, g float64, frames []Frame, diagnostics map[string]float64) (string, error) {
	runID := fmt.Sprintf("%s_%d", scenario, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	ticks := 0
	finalBodies := 0
	if len(frames) > 0 {
		last := frames[len(frames)-1]
		ticks = last.Tick
		finalBodies = len(last.Bodies)
	}

	meta := RunMetadata{
		ID:          runID,
		Scenario:    scenario,
		Timestamp:   time.Now(),
		Seed:        seed,
		G:           g,
		Ticks:       ticks,
		FinalBodies: finalBodies,
		Diagnostics: diagnostics,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "frames.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := writeFrames(w, frames); err != nil {
		return "", err
	}

	return runID, nil
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

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]Frame, error) {
	csvPath := filepath.Join(s.baseDir, runID, "frames.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []Frame{}, nil
	}

	frames := make([]Frame, 0)
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) != 7 {
			continue
		}

		vals := make([]float64, 0, 7)
		ok := true
		for _, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				ok = false
				break
			}
			vals = append(vals, v)
		}
		if !ok {
			continue
		}

		tick := int(vals[0])
		sample := BodySample{
			Body: vals[1],
			X:    vals[2],
			Y:    vals[3],
			VX:   vals[4],
			VY:   vals[5],
			Mass: vals[6],
		}

		if len(frames) == 0 || frames[len(frames)-1].Tick != tick {
			frames = append(frames, Frame{Tick: tick})
		}
		last := &frames[len(frames)-1]
		last.Bodies = append(last.Bodies, sample)
	}

	return frames, nil
}

// ExportJSON writes a recorded run, metadata plus frames, as one JSON
// document.
func (s *Store) ExportJSON(runID string, out io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}

	doc := struct {
		Metadata *RunMetadata `json:"metadata"`
		Frames   []Frame      `json:"frames"`
	}{meta, frames}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// ExportCSV writes a recorded run's frames in long format.
func (s *Store) ExportCSV(runID string, out io.Writer) error {
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}

	w := csv.NewWriter(out)
	defer w.Flush()
	return writeFrames(w, frames)
}

func writeFrames(w *csv.Writer, frames []Frame) error {
	if err := w.Write([]string{"tick", "body", "x", "y", "vx", "vy", "mass"}); err != nil {
		return err
	}

	for _, frame := range frames {
		for _, b := range frame.Bodies {
			row := []string{
				strconv.Itoa(frame.Tick),
				strconv.Itoa(int(b.Body)),
				strconv.FormatFloat(b.X, 'f', 6, 64),
				strconv.FormatFloat(b.Y, 'f', 6, 64),
				strconv.FormatFloat(b.VX, 'f', 6, 64),
				strconv.FormatFloat(b.VY, 'f', 6, 64),
				strconv.FormatFloat(b.Mass, 'f', 6, 64),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}
