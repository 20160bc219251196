package rescache

import "github.com/skran-dev/sphindex/internal/domain/result"

// setDTO is the stored form of a result set. Attribute values pass
// through JSON, so integer attrs come back as float64 on a hit.
type setDTO struct {
	Rows       []rowDTO `json:"rows"`
	Total      int      `json:"total"`
	TotalFound int      `json:"total_found"`
	TimeSec    float64  `json:"time_sec"`
	Warning    string   `json:"warning,omitempty"`
}

type rowDTO struct {
	ID     uint64         `json:"id"`
	Weight int            `json:"weight"`
	Attrs  map[string]any `json:"attrs,omitempty"`
}

func fromSet(set *result.Set) setDTO {
	rows := make([]rowDTO, len(set.Rows))
	for i := range set.Rows {
		r := &set.Rows[i]
		rows[i] = rowDTO{ID: r.ID(), Weight: r.Weight(), Attrs: r.Attrs()}
	}
	return setDTO{
		Rows:       rows,
		Total:      set.Total,
		TotalFound: set.TotalFound,
		TimeSec:    set.TimeSec,
		Warning:    set.Warning,
	}
}

func (d *setDTO) toSet() *result.Set {
	rows := make([]result.Row, len(d.Rows))
	for i, r := range d.Rows {
		rows[i] = result.New(r.ID, r.Weight, r.Attrs)
	}
	return &result.Set{
		Rows:       rows,
		Total:      d.Total,
		TotalFound: d.TotalFound,
		TimeSec:    d.TimeSec,
		Warning:    d.Warning,
	}
}
