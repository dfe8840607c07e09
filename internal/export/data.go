package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/san-kum/fibersim/internal/dynamo"
)

// Curve is the survival percentage after each step for one K.
type Curve struct {
	K      int64     `json:"k"`
	Points []float64 `json:"points"`
}

// WriteCurvesCSV writes one row per step and one column per K. Curves of
// different length leave trailing cells empty.
func WriteCurvesCSV(w io.Writer, curves []Curve) error {
	cw := csv.NewWriter(w)

	header := []string{"step"}
	rows := 0
	for _, c := range curves {
		header = append(header, fmt.Sprintf("K=%d", c.K))
		rows = max(rows, len(c.Points))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for s := 0; s < rows; s++ {
		record := []string{strconv.Itoa(s)}
		for _, c := range curves {
			cell := ""
			if s < len(c.Points) {
				cell = strconv.FormatFloat(c.Points[s], 'f', 4, 64)
			}
			record = append(record, cell)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func WriteTraceCSV(w io.Writer, points []dynamo.TracePoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"step", "base", "fiber", "carry", "kind", "in_window"}); err != nil {
		return err
	}
	for _, pt := range points {
		record := []string{
			strconv.Itoa(pt.Step),
			strconv.FormatUint(pt.State.Base, 10),
			strconv.FormatUint(pt.State.Fiber, 10),
			strconv.FormatUint(pt.Carry, 10),
			pt.Kind.String(),
			strconv.FormatBool(pt.InWindow),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// TraceRecord is the JSON form of a trace.
type TraceRecord struct {
	K      int64           `json:"k"`
	Prime  uint64          `json:"prime"`
	Fiber  uint64          `json:"fiber"`
	Points []TracePointJSON `json:"points"`
	Final  StateJSON        `json:"final"`
}

type StateJSON struct {
	Base  uint64 `json:"base"`
	Fiber uint64 `json:"fiber"`
}

type TracePointJSON struct {
	Step     int    `json:"step"`
	Base     uint64 `json:"base"`
	Fiber    uint64 `json:"fiber"`
	Carry    uint64 `json:"carry"`
	Kind     string `json:"kind"`
	InWindow bool   `json:"in_window"`
}

func NewTraceRecord(sys *dynamo.System, fiber uint64, points []dynamo.TracePoint) TraceRecord {
	rec := TraceRecord{
		K:      int64(sys.K()),
		Prime:  sys.Prime(),
		Fiber:  fiber,
		Points: make([]TracePointJSON, len(points)),
	}
	for i, pt := range points {
		rec.Points[i] = TracePointJSON{
			Step:     pt.Step,
			Base:     pt.State.Base,
			Fiber:    pt.State.Fiber,
			Carry:    pt.Carry,
			Kind:     pt.Kind.String(),
			InWindow: pt.InWindow,
		}
	}
	if len(points) > 0 {
		last := points[len(points)-1].State
		rec.Final = StateJSON{Base: last.Base, Fiber: last.Fiber}
	}
	return rec
}

func WriteJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// SaveFile creates path and its parent directories and hands the file to
// write. A failed write removes the partial file.
func SaveFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		file.Close()
		os.Remove(path)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return file.Close()
}
