package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/san-kum/fibersim/internal/analysis"
)

func TestTable_Render(t *testing.T) {
	tbl := NewTable("theorem check", "K", "LIMIT", "SURVIVAL")
	tbl.AddRow(4, 250000001, "100.00%")
	tbl.AddRow(5, 200000001, "0.00%")
	tbl.AddSummary("identity cycle: K=%d", 4)

	var buf bytes.Buffer
	if err := tbl.Render(&buf); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"theorem check", "LIMIT", "250000001", "0.00%", "identity cycle: K=4"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	lines := strings.Split(out, "\n")
	var header, row string
	for i, l := range lines {
		if strings.HasPrefix(l, "K") {
			header, row = l, lines[i+1]
			break
		}
	}
	if strings.Index(header, "LIMIT") != strings.Index(row, "250000001") {
		t.Errorf("columns not aligned:\n%s\n%s", header, row)
	}
}

func TestVerdict(t *testing.T) {
	for _, v := range []analysis.Verdict{analysis.Persistent, analysis.Extinct, analysis.Mixed} {
		if !strings.Contains(Verdict(v), v.String()) {
			t.Errorf("Verdict(%v) lost its label", v)
		}
	}
}

func TestCurves(t *testing.T) {
	out := Curves([]Series{
		{Name: "K=4", Data: []float64{100, 100, 100}},
		{Name: "empty"},
		{Name: "K=5", Data: []float64{100, 50, 0}},
	}, "survival")
	if !strings.Contains(out, "K=4") || !strings.Contains(out, "K=5") || strings.Contains(out, "empty") {
		t.Errorf("unexpected legend:\n%s", out)
	}

	if Curves(nil, "x") != "" {
		t.Error("expected empty plot for no series")
	}
}

func TestBars(t *testing.T) {
	out := Bars([]string{"0-10", "10-20"}, []int{4, 2}, 8)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(lines))
	}
	if strings.Count(lines[0], "█") != 8 || strings.Count(lines[1], "█") != 4 {
		t.Errorf("unexpected bar lengths:\n%s", out)
	}
}
