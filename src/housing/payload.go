package housing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Capacity is the capacity field sent to a solver: either a bare ceiling or a
// {min, max} band.
type Capacity struct {
	Min  int
	Max  int
	Band bool
}

// BandCapacity derives the band the solver service expects: min is 80% of max,
// rounded down.
func BandCapacity(ceiling int) Capacity {
	return Capacity{Min: ceiling * 4 / 5, Max: ceiling, Band: true}
}

type capacityBand struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func (c Capacity) MarshalJSON() ([]byte, error) {
	if c.Band {
		return json.Marshal(capacityBand{Min: c.Min, Max: c.Max})
	}
	return json.Marshal(c.Max)
}

func (c *Capacity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var band capacityBand
		if err := json.Unmarshal(data, &band); err != nil {
			return err
		}
		*c = Capacity{Min: band.Min, Max: band.Max, Band: true}
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("capacity: %w", err)
	}
	*c = Capacity{Max: int(n)}
	return nil
}

type PayloadHouse struct {
	Name     string   `json:"name,omitempty"`
	Size     Size     `json:"sizeName"`
	Capacity Capacity `json:"capacity"`
}

// SolveRequest is the body posted to a solver endpoint.
type SolveRequest struct {
	Groups []Group                 `json:"groups"`
	Houses map[string]PayloadHouse `json:"houses"`
	Order  []string                `json:"order,omitempty"`
}

func NewSolveRequest(snap *Snapshot, band bool) SolveRequest {
	req := SolveRequest{
		Groups: snap.Groups,
		Houses: make(map[string]PayloadHouse, len(snap.Houses)),
		Order:  make([]string, 0, len(snap.Houses)),
	}
	if req.Groups == nil {
		req.Groups = []Group{}
	}
	for _, h := range snap.Houses {
		c := Capacity{Max: h.Max}
		if band {
			c = BandCapacity(h.Max)
		}
		req.Houses[h.ID] = PayloadHouse{Name: h.Name, Size: h.Size, Capacity: c}
		req.Order = append(req.Order, h.ID)
	}
	return req
}

// UnmarshalJSON also accepts houses as a list, keyed by position.
func (r *SolveRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Groups []Group         `json:"groups"`
		Houses json.RawMessage `json:"houses"`
		Order  []string        `json:"order"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	houses := make(map[string]PayloadHouse)
	trimmed := bytes.TrimSpace(raw.Houses)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
	case trimmed[0] == '[':
		var list []PayloadHouse
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		for i, h := range list {
			houses[strconv.Itoa(i)] = h
		}
	case trimmed[0] == '{':
		if err := json.Unmarshal(trimmed, &houses); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid houses format")
	}
	*r = SolveRequest{Groups: raw.Groups, Houses: houses, Order: raw.Order}
	return nil
}

// Snapshot rebuilds the snapshot a request was made from, using the ceiling of each
// capacity. Without a usable order, houses are sorted by id, numerically when both
// ids are numbers.
func (r SolveRequest) Snapshot() *Snapshot {
	order := r.Order
	if len(order) != len(r.Houses) {
		order = make([]string, 0, len(r.Houses))
		for id := range r.Houses {
			order = append(order, id)
		}
		sort.Slice(order, func(i, j int) bool {
			a, errA := strconv.Atoi(order[i])
			b, errB := strconv.Atoi(order[j])
			if errA == nil && errB == nil {
				return a < b
			}
			return order[i] < order[j]
		})
	}
	houses := make([]House, 0, len(order))
	for _, id := range order {
		h, ok := r.Houses[id]
		if !ok {
			continue
		}
		houses = append(houses, House{ID: id, Name: h.Name, Size: h.Size, Min: h.Capacity.Min, Max: h.Capacity.Max})
	}
	return NewSnapshot(r.Groups, houses)
}
