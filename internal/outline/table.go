package outline

import (
	"math"
	"sort"
)

// TableRegion is a rectangular page area covered by grid-aligned text.
// Fragments inside a region are excluded from heading consideration.
type TableRegion struct {
	X0, Y0, X1, Y1 float64
	SpanCount      int
}

func (t TableRegion) area() float64 {
	return (t.X1 - t.X0) * (t.Y1 - t.Y0)
}

// DetectTables finds grid-aligned fragment clusters on one page.
// Fragments are bucketed onto an alignment grid; buckets with enough
// members become candidate columns and rows, adjacent candidates merge
// into groups, and every column-group x row-group intersection dense
// enough to look like a grid becomes a region. Too few columns or rows
// is not an error: the page simply has no tables.
func DetectTables(frags []Fragment, pageWidth, pageHeight float64, cfg Config) []TableRegion {
	if len(frags) == 0 {
		return nil
	}

	xBuckets := make(map[float64][]Fragment)
	yBuckets := make(map[float64][]Fragment)
	for _, f := range frags {
		xBuckets[bucket(f.X0, cfg.TableAlign)] = append(xBuckets[bucket(f.X0, cfg.TableAlign)], f)
		yBuckets[bucket(f.Y0, cfg.TableAlign)] = append(yBuckets[bucket(f.Y0, cfg.TableAlign)], f)
	}

	var columnXs, rowYs []float64
	for x, members := range xBuckets {
		if len(members) >= cfg.TableMinRows {
			columnXs = append(columnXs, x)
		}
	}
	for y, members := range yBuckets {
		if len(members) >= cfg.TableMinCols {
			rowYs = append(rowYs, y)
		}
	}
	if len(columnXs) < cfg.TableMinCols || len(rowYs) < cfg.TableMinRows {
		return nil
	}
	sort.Float64s(columnXs)
	sort.Float64s(rowYs)

	// Adjacent candidate columns within 30% of the page width belong to
	// the same grid; rows merge within 50 points vertically.
	xGroups := mergeAdjacent(columnXs, pageWidth*0.3, cfg.TableMinCols)
	yGroups := mergeAdjacent(rowYs, 50, cfg.TableMinRows)

	var regions []TableRegion
	for _, xg := range xGroups {
		for _, yg := range yGroups {
			var cell []Fragment
			for _, f := range frags {
				if containsFloat(xg, bucket(f.X0, cfg.TableAlign)) &&
					containsFloat(yg, bucket(f.Y0, cfg.TableAlign)) {
					cell = append(cell, f)
				}
			}
			if len(cell) < cfg.TableMinCols*cfg.TableMinRows {
				continue
			}
			minX, maxX := cell[0].X0, cell[0].X1
			minY, maxY := cell[0].Y0, cell[0].Y1
			for _, f := range cell[1:] {
				minX = math.Min(minX, f.X0)
				maxX = math.Max(maxX, f.X1)
				minY = math.Min(minY, f.Y0)
				maxY = math.Max(maxY, f.Y1)
			}
			regions = append(regions, TableRegion{
				X0:        math.Max(0, minX-cfg.TablePad),
				Y0:        math.Max(0, minY-cfg.TablePad),
				X1:        math.Min(pageWidth, maxX+cfg.TablePad),
				Y1:        math.Min(pageHeight, maxY+cfg.TablePad),
				SpanCount: len(cell),
			})
		}
	}

	return dedupeRegions(regions)
}

// mergeAdjacent groups sorted positions whose neighbor gap stays within
// maxGap, keeping only groups of at least minLen members.
func mergeAdjacent(positions []float64, maxGap float64, minLen int) [][]float64 {
	var groups [][]float64
	current := []float64{positions[0]}
	for i := 1; i < len(positions); i++ {
		if positions[i]-positions[i-1] <= maxGap {
			current = append(current, positions[i])
			continue
		}
		if len(current) >= minLen {
			groups = append(groups, current)
		}
		current = []float64{positions[i]}
	}
	if len(current) >= minLen {
		groups = append(groups, current)
	}
	return groups
}

func containsFloat(s []float64, v float64) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// dedupeRegions drops a region when more than half of its area lies
// inside another region with a higher span count.
func dedupeRegions(regions []TableRegion) []TableRegion {
	var kept []TableRegion
	for i, r := range regions {
		overlapped := false
		for j, other := range regions {
			if i == j {
				continue
			}
			ox := math.Max(0, math.Min(r.X1, other.X1)-math.Max(r.X0, other.X0))
			oy := math.Max(0, math.Min(r.Y1, other.Y1)-math.Max(r.Y0, other.Y0))
			ratio := 0.0
			if a := r.area(); a > 0 {
				ratio = ox * oy / a
			}
			if ratio > 0.5 && other.SpanCount > r.SpanCount {
				overlapped = true
				break
			}
		}
		if !overlapped {
			kept = append(kept, r)
		}
	}
	return kept
}

// InTable reports whether a fragment overlaps some region by at least
// the configured fraction of the fragment's own area. Touching edges do
// not count.
func InTable(f Fragment, regions []TableRegion, overlapThreshold float64) bool {
	area := (f.X1 - f.X0) * (f.Y1 - f.Y0)
	if area <= 0 {
		return false
	}
	for _, r := range regions {
		ox0 := math.Max(f.X0, r.X0)
		oy0 := math.Max(f.Y0, r.Y0)
		ox1 := math.Min(f.X1, r.X1)
		oy1 := math.Min(f.Y1, r.Y1)
		if ox0 >= ox1 || oy0 >= oy1 {
			continue
		}
		if (ox1-ox0)*(oy1-oy0)/area >= overlapThreshold {
			return true
		}
	}
	return false
}

// excludeTabular removes per page the fragments sitting inside detected
// table regions. Title resolution never calls this; heading extraction
// always does.
func excludeTabular(frags []Fragment, pages []PageInfo, cfg Config) ([]Fragment, StageTrace) {
	trace := StageTrace{Stage: "table_regions"}
	out := make([]Fragment, 0, len(frags))
	paged := byPage(frags)
	for _, page := range sortedPages(paged) {
		pageFrags := paged[page]
		geom, known := pageGeometry(pages, page)
		if !known {
			trace.AssumedPageHeight = true
		}
		regions := DetectTables(pageFrags, geom.Width, geom.Height, cfg)
		for _, f := range pageFrags {
			if InTable(f, regions, cfg.TableOverlap) {
				trace.Removed = append(trace.Removed, Removal{Text: f.Text, Page: page, Reason: "in_table"})
				continue
			}
			out = append(out, f)
		}
	}
	trace.Survived = len(out)
	return out, trace
}
