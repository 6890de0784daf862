package plinko

import (
	"sort"

	"github.com/andrewchiang3/pitcher-plinko/internal/model"
)

// Edge width bounds, matching the original chart's line scaling.
const (
	MinEdgeWidth = 1.0
	MaxEdgeWidth = 20.0
)

// Slice is one pitch type's share of a count node.
type Slice struct {
	PitchType string  `json:"pitch_type"`
	Name      string  `json:"name"`
	Color     string  `json:"color"`
	Count     int     `json:"count"`
	Share     float64 `json:"share"`
	AvgSpeed  float64 `json:"avg_speed"`
}

// Node is one ball-strike count cell of the grid.
type Node struct {
	Count  string  `json:"count"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Total  int     `json:"total"`
	Slices []Slice `json:"slices"`
}

// Edge is a count-to-count flow with its display width.
type Edge struct {
	From  string  `json:"from"`
	To    string  `json:"to"`
	Count int     `json:"count"`
	Width float64 `json:"width"`
}

// TypeSummary is a pitch type's season-wide usage.
type TypeSummary struct {
	PitchType string  `json:"pitch_type"`
	Name      string  `json:"name"`
	Color     string  `json:"color"`
	Count     int     `json:"count"`
	Share     float64 `json:"share"`
	AvgSpeed  float64 `json:"avg_speed"`
}

// Summary holds arsenal-level statistics shown under the chart.
type Summary struct {
	TotalPitches int           `json:"total_pitches"`
	PitchTypes   int           `json:"pitch_types"`
	Types        []TypeSummary `json:"types"`
}

// Chart is the full chart model served to the dashboard.
type Chart struct {
	Pitcher string  `json:"pitcher"`
	Season  int     `json:"season"`
	Nodes   []Node  `json:"nodes"`
	Edges   []Edge  `json:"edges"`
	Summary Summary `json:"summary"`
}

// typeAgg accumulates one pitch type within a bucket.
type typeAgg struct {
	count    int
	speedSum float64
	speedN   int
}

// Build aggregates a pitcher's season of pitches into a chart model.
//
// Pitches in counts outside the grid are dropped. Pitches without a Statcast
// pitch type label are excluded from node slices and the summary but still
// advance the count walk, since the count changed whether or not the pitch
// was classified.
func Build(pitches []model.Pitch, pitcherName string, season int) Chart {
	chart := Chart{
		Pitcher: pitcherName,
		Season:  season,
	}

	byCount := make(map[model.Count]map[string]*typeAgg)
	arsenal := make(map[string]*typeAgg)
	total := 0

	for _, p := range pitches {
		c := p.Count()
		if _, ok := GridPosition(c); !ok {
			continue
		}
		if p.PitchType == "" {
			continue
		}

		bucket := byCount[c]
		if bucket == nil {
			bucket = make(map[string]*typeAgg)
			byCount[c] = bucket
		}
		addPitch(bucket, p)
		addPitch(arsenal, p)
		total++
	}

	for _, c := range GridCounts {
		pos, _ := GridPosition(c)
		node := Node{
			Count: c.String(),
			X:     pos.X,
			Y:     pos.Y,
		}
		for code, agg := range byCount[c] {
			style := Style(code)
			node.Total += agg.count
			node.Slices = append(node.Slices, Slice{
				PitchType: code,
				Name:      style.Name,
				Color:     style.Color,
				Count:     agg.count,
				AvgSpeed:  agg.avgSpeed(),
			})
		}
		sortSlices(node.Slices)
		for i := range node.Slices {
			node.Slices[i].Share = float64(node.Slices[i].Count) / float64(node.Total)
		}
		chart.Nodes = append(chart.Nodes, node)
	}

	chart.Edges = buildEdges(pitches)
	chart.Summary = buildSummary(arsenal, total)

	return chart
}

func addPitch(bucket map[string]*typeAgg, p model.Pitch) {
	agg := bucket[p.PitchType]
	if agg == nil {
		agg = &typeAgg{}
		bucket[p.PitchType] = agg
	}
	agg.count++
	if p.ReleaseSpeed > 0 {
		agg.speedSum += p.ReleaseSpeed
		agg.speedN++
	}
}

func (a *typeAgg) avgSpeed() float64 {
	if a.speedN == 0 {
		return 0
	}
	return a.speedSum / float64(a.speedN)
}

// buildEdges walks each at-bat's count sequence in pitch order and tallies
// transitions along valid grid edges.
func buildEdges(pitches []model.Pitch) []Edge {
	ordered := make([]model.Pitch, len(pitches))
	copy(ordered, pitches)
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.GameDate != b.GameDate {
			return a.GameDate < b.GameDate
		}
		if a.GamePK != b.GamePK {
			return a.GamePK < b.GamePK
		}
		if a.AtBatNumber != b.AtBatNumber {
			return a.AtBatNumber < b.AtBatNumber
		}
		return a.PitchNumber < b.PitchNumber
	})

	flows := make(map[Transition]int)
	for i := 1; i < len(ordered); i++ {
		prev, cur := ordered[i-1], ordered[i]
		if prev.GamePK != cur.GamePK || prev.AtBatNumber != cur.AtBatNumber {
			continue
		}
		if ValidTransition(prev.Count(), cur.Count()) {
			flows[Transition{From: prev.Count(), To: cur.Count()}]++
		}
	}

	maxFlow := 0
	for _, n := range flows {
		if n > maxFlow {
			maxFlow = n
		}
	}

	var edges []Edge
	for _, t := range Transitions {
		n := flows[t]
		if n == 0 {
			continue
		}
		width := MinEdgeWidth + (MaxEdgeWidth-MinEdgeWidth)*float64(n)/float64(maxFlow)
		edges = append(edges, Edge{
			From:  t.From.String(),
			To:    t.To.String(),
			Count: n,
			Width: width,
		})
	}
	return edges
}

func buildSummary(arsenal map[string]*typeAgg, total int) Summary {
	s := Summary{
		TotalPitches: total,
		PitchTypes:   len(arsenal),
	}
	for code, agg := range arsenal {
		style := Style(code)
		ts := TypeSummary{
			PitchType: code,
			Name:      style.Name,
			Color:     style.Color,
			Count:     agg.count,
			AvgSpeed:  agg.avgSpeed(),
		}
		if total > 0 {
			ts.Share = float64(agg.count) / float64(total)
		}
		s.Types = append(s.Types, ts)
	}
	sort.Slice(s.Types, func(i, j int) bool {
		if s.Types[i].Count != s.Types[j].Count {
			return s.Types[i].Count > s.Types[j].Count
		}
		return s.Types[i].PitchType < s.Types[j].PitchType
	})
	return s
}

// sortSlices orders slices by count descending, pitch type code ascending on
// ties, so chart output is deterministic.
func sortSlices(slices []Slice) {
	sort.Slice(slices, func(i, j int) bool {
		if slices[i].Count != slices[j].Count {
			return slices[i].Count > slices[j].Count
		}
		return slices[i].PitchType < slices[j].PitchType
	})
}
