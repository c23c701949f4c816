package storage

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/tandria/orbitlab/internal/orbit"
	"github.com/tandria/orbitlab/internal/vec"
)

func sampleFrames() []Frame {
	return []Frame{
		{Tick: 1, Bodies: []BodySample{
			{Body: 0, X: 1, Y: 2, VX: 0.1, VY: 0.2, Mass: 100},
			{Body: 1, X: -3, Y: 4, VX: -0.5, VY: 0, Mass: 2000},
		}},
		{Tick: 2, Bodies: []BodySample{
			{Body: 0, X: 1.1, Y: 2.2, VX: 0.1, VY: 0.2, Mass: 100},
		}},
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	diag := map[string]float64{"energy": -42.5}
	runID, err := s.Save("random", 7, 6.674e-4, sampleFrames(), diag)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(runID, "random_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := s.Load(runID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if meta.Seed != 7 || meta.Scenario != "random" {
		t.Errorf("metadata mismatch: %+v", meta)
	}
	if meta.Ticks != 2 || meta.FinalBodies != 1 {
		t.Errorf("expected ticks=2 final_bodies=1, got %d/%d", meta.Ticks, meta.FinalBodies)
	}
	if meta.Diagnostics["energy"] != -42.5 {
		t.Errorf("diagnostics not preserved: %v", meta.Diagnostics)
	}
}

func TestStore_LoadFrames_RoundTrip(t *testing.T) {
	s := New(t.TempDir())
	want := sampleFrames()
	runID, err := s.Save("classic", 0, 6.674e-4, want, nil)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d frames, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Tick != want[i].Tick {
			t.Errorf("frame %d tick mismatch: %d vs %d", i, got[i].Tick, want[i].Tick)
		}
		if len(got[i].Bodies) != len(want[i].Bodies) {
			t.Fatalf("frame %d body count mismatch", i)
		}
		for j := range want[i].Bodies {
			if got[i].Bodies[j] != want[i].Bodies[j] {
				t.Errorf("frame %d body %d mismatch: %+v vs %+v",
					i, j, got[i].Bodies[j], want[i].Bodies[j])
			}
		}
	}
}

func TestStore_List(t *testing.T) {
	s := New(t.TempDir())

	runs, err := s.List()
	if err != nil {
		t.Fatalf("list on empty dir: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}

	if _, err := s.Save("random", 1, 6.674e-4, sampleFrames(), nil); err != nil {
		t.Fatalf("save: %v", err)
	}

	runs, err = s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
}

func TestStore_ExportJSON(t *testing.T) {
	s := New(t.TempDir())
	runID, err := s.Save("random", 3, 6.674e-4, sampleFrames(), nil)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	var buf bytes.Buffer
	if err := s.ExportJSON(runID, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}

	var doc struct {
		Metadata RunMetadata `json:"metadata"`
		Frames   []Frame     `json:"frames"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("exported JSON does not parse: %v", err)
	}
	if doc.Metadata.ID != runID {
		t.Errorf("expected id %q, got %q", runID, doc.Metadata.ID)
	}
	if len(doc.Frames) != 2 {
		t.Errorf("expected 2 frames, got %d", len(doc.Frames))
	}
}

func TestStore_ExportCSV(t *testing.T) {
	s := New(t.TempDir())
	runID, err := s.Save("random", 3, 6.674e-4, sampleFrames(), nil)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	var buf bytes.Buffer
	if err := s.ExportCSV(runID, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "tick,body,x,y,vx,vy,mass" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	// 3 samples across the 2 frames
	if len(lines) != 4 {
		t.Errorf("expected 4 lines, got %d", len(lines))
	}
}

func TestSnapshot(t *testing.T) {
	bodies := []*orbit.Body{
		orbit.NewBody(vec.New(10, 20), vec.New(1, -1), 500, orbit.RGBA{A: 255}, 10),
		orbit.NewBody(vec.New(0, 0), vec.New(0, 0), 200000, orbit.SunColor, 10),
	}

	frame := Snapshot(42, bodies)
	if frame.Tick != 42 {
		t.Errorf("expected tick 42, got %d", frame.Tick)
	}
	if len(frame.Bodies) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(frame.Bodies))
	}
	if frame.Bodies[0].X != 10 || frame.Bodies[0].VY != -1 || frame.Bodies[0].Mass != 500 {
		t.Errorf("sample mismatch: %+v", frame.Bodies[0])
	}
	if frame.Bodies[1].Body != 1 {
		t.Errorf("expected body index 1, got %v", frame.Bodies[1].Body)
	}
}
