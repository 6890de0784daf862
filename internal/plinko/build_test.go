package plinko

import (
	"math"
	"testing"

	"github.com/andrewchiang3/pitcher-plinko/internal/model"
)

// atBat builds the pitches of a single at-bat from pitch type / count pairs.
func atBat(gamePK int64, abNum int, pitches ...model.Pitch) []model.Pitch {
	out := make([]model.Pitch, len(pitches))
	for i, p := range pitches {
		p.GamePK = gamePK
		p.AtBatNumber = abNum
		p.PitchNumber = i + 1
		p.GameDate = "2024-06-01"
		out[i] = p
	}
	return out
}

func pitch(pitchType string, balls, strikes int, speed float64) model.Pitch {
	return model.Pitch{
		PitchType:    pitchType,
		Balls:        balls,
		Strikes:      strikes,
		ReleaseSpeed: speed,
	}
}

func findNode(t *testing.T, chart Chart, count string) Node {
	t.Helper()
	for _, n := range chart.Nodes {
		if n.Count == count {
			return n
		}
	}
	t.Fatalf("chart has no node for count %s", count)
	return Node{}
}

func TestBuildEmpty(t *testing.T) {
	chart := Build(nil, "Nobody", 2024)

	if len(chart.Nodes) != 12 {
		t.Fatalf("empty chart has %d nodes, want 12", len(chart.Nodes))
	}
	for _, n := range chart.Nodes {
		if n.Total != 0 || len(n.Slices) != 0 {
			t.Errorf("node %s should be empty, got total=%d slices=%d", n.Count, n.Total, len(n.Slices))
		}
	}
	if len(chart.Edges) != 0 {
		t.Errorf("empty chart has %d edges, want 0", len(chart.Edges))
	}
	if chart.Summary.TotalPitches != 0 || chart.Summary.PitchTypes != 0 {
		t.Errorf("empty chart summary = %+v", chart.Summary)
	}
}

func TestBuildDistribution(t *testing.T) {
	// Three pitches in 0-0: two fastballs, one slider.
	pitches := []model.Pitch{}
	pitches = append(pitches, atBat(1, 1, pitch("FF", 0, 0, 95))...)
	pitches = append(pitches, atBat(1, 2, pitch("FF", 0, 0, 97))...)
	pitches = append(pitches, atBat(1, 3, pitch("SL", 0, 0, 85))...)

	chart := Build(pitches, "Test Pitcher", 2024)

	node := findNode(t, chart, "0-0")
	if node.Total != 3 {
		t.Fatalf("0-0 total = %d, want 3", node.Total)
	}
	if len(node.Slices) != 2 {
		t.Fatalf("0-0 has %d slices, want 2", len(node.Slices))
	}

	// Largest slice first.
	if node.Slices[0].PitchType != "FF" || node.Slices[0].Count != 2 {
		t.Errorf("first slice = %+v, want FF x2", node.Slices[0])
	}
	if math.Abs(node.Slices[0].Share-2.0/3.0) > 1e-9 {
		t.Errorf("FF share = %f, want 2/3", node.Slices[0].Share)
	}
	if math.Abs(node.Slices[0].AvgSpeed-96) > 1e-9 {
		t.Errorf("FF avg speed = %f, want 96", node.Slices[0].AvgSpeed)
	}

	var shareSum float64
	for _, s := range node.Slices {
		shareSum += s.Share
	}
	if math.Abs(shareSum-1) > 1e-9 {
		t.Errorf("slice shares sum to %f, want 1", shareSum)
	}
}

func TestBuildSliceOrderDeterministic(t *testing.T) {
	// Tie between CH and SL in 0-0; code order must break the tie.
	pitches := []model.Pitch{}
	pitches = append(pitches, atBat(1, 1, pitch("SL", 0, 0, 85))...)
	pitches = append(pitches, atBat(1, 2, pitch("CH", 0, 0, 88))...)

	chart := Build(pitches, "Test Pitcher", 2024)
	node := findNode(t, chart, "0-0")
	if node.Slices[0].PitchType != "CH" || node.Slices[1].PitchType != "SL" {
		t.Errorf("tied slices ordered %s, %s; want CH, SL", node.Slices[0].PitchType, node.Slices[1].PitchType)
	}
}

func TestBuildEdges(t *testing.T) {
	// One at-bat: 0-0 ball, 1-0 strike, 1-1 -> walk through three counts.
	ab := atBat(10, 5,
		pitch("FF", 0, 0, 95),
		pitch("FF", 1, 0, 94),
		pitch("SL", 1, 1, 85),
	)

	chart := Build(ab, "Test Pitcher", 2024)

	want := map[string]string{"0-0": "1-0", "1-0": "1-1"}
	if len(chart.Edges) != len(want) {
		t.Fatalf("chart has %d edges, want %d: %+v", len(chart.Edges), len(want), chart.Edges)
	}
	for _, e := range chart.Edges {
		if want[e.From] != e.To {
			t.Errorf("unexpected edge %s -> %s", e.From, e.To)
		}
		if e.Count != 1 {
			t.Errorf("edge %s -> %s count = %d, want 1", e.From, e.To, e.Count)
		}
		if e.Width != MaxEdgeWidth {
			t.Errorf("edge at max flow has width %f, want %f", e.Width, MaxEdgeWidth)
		}
	}
}

func TestBuildEdgesDoNotCrossAtBats(t *testing.T) {
	// Consecutive at-bats both start 0-0; no edge should connect them.
	pitches := append(
		atBat(10, 1, pitch("FF", 0, 0, 95)),
		atBat(10, 2, pitch("FF", 0, 0, 95))...,
	)

	chart := Build(pitches, "Test Pitcher", 2024)
	if len(chart.Edges) != 0 {
		t.Errorf("edges across at-bat boundaries: %+v", chart.Edges)
	}
}

func TestBuildEdgeWidthScaling(t *testing.T) {
	// 0-0 -> 0-1 twice, 0-0 -> 1-0 once: widths scale with flow share.
	pitches := []model.Pitch{}
	pitches = append(pitches, atBat(1, 1, pitch("FF", 0, 0, 95), pitch("FF", 0, 1, 95))...)
	pitches = append(pitches, atBat(1, 2, pitch("FF", 0, 0, 95), pitch("FF", 0, 1, 95))...)
	pitches = append(pitches, atBat(1, 3, pitch("FF", 0, 0, 95), pitch("FF", 1, 0, 95))...)

	chart := Build(pitches, "Test Pitcher", 2024)

	widths := make(map[string]float64)
	for _, e := range chart.Edges {
		widths[e.From+">"+e.To] = e.Width
	}

	if got := widths["0-0>0-1"]; got != MaxEdgeWidth {
		t.Errorf("dominant edge width = %f, want %f", got, MaxEdgeWidth)
	}
	wantHalf := MinEdgeWidth + (MaxEdgeWidth-MinEdgeWidth)*0.5
	if got := widths["0-0>1-0"]; math.Abs(got-wantHalf) > 1e-9 {
		t.Errorf("half-flow edge width = %f, want %f", got, wantHalf)
	}
}

func TestBuildUnlabeledPitches(t *testing.T) {
	// Middle pitch has no Statcast label: excluded from slices but the
	// count walk still records both transitions.
	ab := atBat(10, 5,
		pitch("FF", 0, 0, 95),
		pitch("", 0, 1, 0),
		pitch("SL", 0, 2, 85),
	)

	chart := Build(ab, "Test Pitcher", 2024)

	node := findNode(t, chart, "0-1")
	if node.Total != 0 {
		t.Errorf("unlabeled pitch counted into node: total = %d", node.Total)
	}
	if chart.Summary.TotalPitches != 2 {
		t.Errorf("summary total = %d, want 2", chart.Summary.TotalPitches)
	}
	if len(chart.Edges) != 2 {
		t.Errorf("chart has %d edges, want 2 (walk must pass through 0-1)", len(chart.Edges))
	}
}

func TestBuildIgnoresInvalidCounts(t *testing.T) {
	ab := atBat(10, 5, pitch("FF", 4, 1, 95))
	chart := Build(ab, "Test Pitcher", 2024)
	if chart.Summary.TotalPitches != 0 {
		t.Errorf("pitch in impossible count 4-1 was counted")
	}
}

func TestBuildSummary(t *testing.T) {
	pitches := []model.Pitch{}
	pitches = append(pitches, atBat(1, 1, pitch("FF", 0, 0, 94), pitch("FF", 0, 1, 96))...)
	pitches = append(pitches, atBat(1, 2, pitch("CU", 0, 0, 78))...)

	chart := Build(pitches, "Test Pitcher", 2024)
	s := chart.Summary

	if s.TotalPitches != 3 || s.PitchTypes != 2 {
		t.Fatalf("summary = %+v, want 3 pitches over 2 types", s)
	}
	if s.Types[0].PitchType != "FF" || s.Types[0].Count != 2 {
		t.Errorf("top type = %+v, want FF x2", s.Types[0])
	}
	if math.Abs(s.Types[0].AvgSpeed-95) > 1e-9 {
		t.Errorf("FF avg speed = %f, want 95", s.Types[0].AvgSpeed)
	}
	if math.Abs(s.Types[1].Share-1.0/3.0) > 1e-9 {
		t.Errorf("CU share = %f, want 1/3", s.Types[1].Share)
	}
}
