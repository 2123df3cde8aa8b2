package starfield

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/litescript/ls-parallax/internal/geometry"
	"github.com/litescript/ls-parallax/internal/star"
	"github.com/litescript/ls-parallax/internal/state"
	"github.com/litescript/ls-parallax/internal/viewport"
)

// SnapshotExport is the JSON form of a field at one instant.
type SnapshotExport struct {
	Timestamp time.Time           `json:"timestamp"`
	Metrics   viewport.Metrics    `json:"metrics"`
	Region    viewport.Region     `json:"region"`
	MinCount  int                 `json:"min_count"`
	MaxCount  int                 `json:"max_count"`
	State     state.Snapshot      `json:"state"`
	Cache     geometry.CacheStats `json:"cache"`
	Stars     []StarExport        `json:"stars"`
}

// StarExport is one star with its style properties.
type StarExport struct {
	ID         uint64              `json:"id"`
	Depth      float64             `json:"depth"`
	Intensity  float64             `json:"intensity"`
	BornAt     time.Time           `json:"born_at"`
	Properties []geometry.Property `json:"properties"`
	Rays       []RayExport         `json:"rays"`
}

// RayExport is one ray with its style properties.
type RayExport struct {
	Role       geometry.Role       `json:"role"`
	Properties []geometry.Property `json:"properties"`
}

// Export captures the field's current state.
func (f *Field) Export() *SnapshotExport {
	now := f.clock.Now()
	lo, hi := f.ctrl.Band()

	export := &SnapshotExport{
		Timestamp: now,
		Metrics:   f.metrics,
		Region:    f.ctrl.Region(),
		MinCount:  lo,
		MaxCount:  hi,
		State:     f.state.Snapshot(),
		Cache:     f.cache.Stats(),
	}

	for _, l := range f.surface.Stars() {
		se := StarExport{
			ID:         l.Star.ID,
			Depth:      l.Star.Depth,
			Intensity:  l.Intensity(now),
			BornAt:     l.Born,
			Properties: l.Star.Properties(),
		}
		for _, r := range l.Star.Rays {
			se.Rays = append(se.Rays, RayExport{Role: r.Role, Properties: r.Properties()})
		}
		export.Stars = append(export.Stars, se)
	}
	return export
}

// WriteJSON writes the snapshot as JSON to the given writer.
func (s *SnapshotExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteSummaryTable writes a text summary of the snapshot.
func (s *SnapshotExport) WriteSummaryTable(w io.Writer) {
	fmt.Fprintf(w, "Starfield @ %s\n", s.Timestamp.Format(time.RFC3339))
	fmt.Fprintln(w, strings.Repeat("─", 60))

	m := s.Metrics
	b := s.Region.Bounds
	fmt.Fprintf(w, "%-14s %.0fx%.0f at %.0f,%.0f (container %.0fx%.0f)\n", "Viewport",
		m.ViewportWidth, m.ViewportHeight, m.ScrollX, m.ScrollY, m.ContainerWidth, m.ContainerHeight)
	fmt.Fprintf(w, "%-14s x %.0f..%.0f  y %.0f..%.0f\n", "Region", b.Left, b.Right, b.Top, b.Bottom)
	fmt.Fprintf(w, "%-14s %.1f..%.1f (band %d..%d)\n", "Limits", s.Region.Limits.Min, s.Region.Limits.Max, s.MinCount, s.MaxCount)
	fmt.Fprintf(w, "%-14s %d live, %d created, %d expired\n", "Stars", s.State.Count, s.State.Created, s.State.Expired)
	fmt.Fprintf(w, "%-14s %d passes, %d skipped\n", "Fills", s.State.Passes, s.State.Skipped)
	fmt.Fprintf(w, "%-14s translate %d/%d  path %d/%d (hits/misses)\n", "Cache",
		s.Cache.TranslateHits, s.Cache.TranslateMisses, s.Cache.PathHits, s.Cache.PathMisses)

	if len(s.Stars) == 0 {
		return
	}

	fmt.Fprintln(w, strings.Repeat("─", 60))
	fmt.Fprintf(w, "%-6s %-6s %-8s %-8s %-6s %-8s %-6s\n", "ID", "Depth", "Left", "Top", "Size", "Color", "Glow")
	limit := len(s.Stars)
	if limit > 10 {
		limit = 10
	}
	for _, st := range s.Stars[:limit] {
		fmt.Fprintf(w, "%-6d %-6.3f %-8s %-8s %-6s %-8s %5.0f%%\n",
			st.ID, st.Depth,
			propertyValue(st.Properties, star.PropLeft),
			propertyValue(st.Properties, star.PropTop),
			propertyValue(st.Properties, star.PropSize),
			propertyValue(st.Properties, star.PropColor),
			st.Intensity*100,
		)
	}
	if len(s.Stars) > limit {
		fmt.Fprintf(w, "... %d more\n", len(s.Stars)-limit)
	}
}

func propertyValue(props []geometry.Property, name string) string {
	for _, p := range props {
		if p.Name == name {
			return p.Value
		}
	}
	return ""
}
