package sampling

// Weighted is one palette entry.
type Weighted struct {
	Value  string  `json:"value"`
	Weight float64 `json:"weight"`
}

type cumulativeEntry struct {
	value      string
	cumulative float64
}

// Palette is a weighted categorical distribution with a precomputed
// cumulative table.
type Palette struct {
	entries []cumulativeEntry
	total   float64
}

// NewPalette builds the cumulative table once. Entries keep their order;
// negative weights count as zero.
func NewPalette(entries []Weighted) Palette {
	p := Palette{entries: make([]cumulativeEntry, 0, len(entries))}
	for _, e := range entries {
		w := e.Weight
		if w < 0 {
			w = 0
		}
		p.total += w
		p.entries = append(p.entries, cumulativeEntry{value: e.Value, cumulative: p.total})
	}
	return p
}

// Len returns the number of entries.
func (p Palette) Len() int {
	return len(p.entries)
}

// Total returns the sum of weights.
func (p Palette) Total() float64 {
	return p.total
}

// Values returns the entry values in palette order.
func (p Palette) Values() []string {
	out := make([]string, len(p.entries))
	for i, e := range p.entries {
		out[i] = e.value
	}
	return out
}

// Pick draws r in [0, 1) and returns the first entry whose cumulative weight
// exceeds r. If no entry matches (weights summing to less than r, or float
// error at the top of the table) the last entry is returned. An empty
// palette returns "".
func (s *Sampler) Pick(p Palette) string {
	if len(p.entries) == 0 {
		return ""
	}
	r := s.Float64()
	for _, e := range p.entries {
		if r < e.cumulative {
			return e.value
		}
	}
	return p.entries[len(p.entries)-1].value
}
