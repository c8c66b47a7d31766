package housing

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

type Size int

const (
	SizeS Size = iota
	SizeM
	SizeL
	SizeXL
	SizeXXL
)

var sizeNames = []string{"S", "M", "L", "XL", "XXL"}

// Sizes lists every category in ascending order.
var Sizes = []Size{SizeS, SizeM, SizeL, SizeXL, SizeXXL}

func (s Size) String() string {
	if s < SizeS || s > SizeXXL {
		return fmt.Sprintf("Size(%d)", int(s))
	}
	return sizeNames[s]
}

// IsLarge reports whether houses of this size may be drawn as alternate preferences.
func (s Size) IsLarge() bool {
	return s == SizeXL || s == SizeXXL
}

func ParseSize(name string) (Size, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "S":
		return SizeS, nil
	case "M":
		return SizeM, nil
	case "L":
		return SizeL, nil
	case "XL":
		return SizeXL, nil
	case "XXL", "2XL":
		return SizeXXL, nil
	}
	return 0, fmt.Errorf("unknown size category %q", name)
}

func (s Size) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Size) UnmarshalText(text []byte) error {
	v, err := ParseSize(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// SizeCategory is the capacity band of a size. Synthetic capacities are multiples of Divisor.
type SizeCategory struct {
	Size    Size `yaml:"size"`
	Low     int  `yaml:"low"`
	High    int  `yaml:"high"`
	Divisor int  `yaml:"divisor"`
}

func DefaultCategories() map[Size]SizeCategory {
	return map[Size]SizeCategory{
		SizeS:   {Size: SizeS, Low: 140, High: 160, Divisor: 3},
		SizeM:   {Size: SizeM, Low: 220, High: 260, Divisor: 3},
		SizeL:   {Size: SizeL, Low: 300, High: 360, Divisor: 3},
		SizeXL:  {Size: SizeXL, Low: 500, High: 600, Divisor: 3},
		SizeXXL: {Size: SizeXXL, Low: 900, High: 1100, Divisor: 4},
	}
}

// House is a destination. Max is the capacity ceiling, Min the lower end of the band
// (zero when the house only carries a ceiling).
type House struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Size Size   `json:"sizeName"`
	Min  int    `json:"min"`
	Max  int    `json:"max"`
}

type Group struct {
	ID          string   `json:"id"`
	OwnerID     string   `json:"owner_id"`
	MemberIDs   []string `json:"member_ids"`
	Size        int      `json:"size"`
	Preferences []string `json:"preference"`
	Alternate   string   `json:"-"`
}

// groupJSON keeps the sub preference as a list on the wire, as the solvers expect.
type groupJSON struct {
	ID            string   `json:"id"`
	OwnerID       string   `json:"owner_id"`
	MemberIDs     []string `json:"member_ids"`
	Size          int      `json:"size"`
	Preferences   []string `json:"preference"`
	SubPreference []string `json:"subPreference"`
}

func (g Group) MarshalJSON() ([]byte, error) {
	sub := []string{}
	if g.Alternate != "" {
		sub = append(sub, g.Alternate)
	}
	members := g.MemberIDs
	if members == nil {
		members = []string{}
	}
	return json.Marshal(groupJSON{
		ID:            g.ID,
		OwnerID:       g.OwnerID,
		MemberIDs:     members,
		Size:          g.Size,
		Preferences:   g.Preferences,
		SubPreference: sub,
	})
}

// looseID is an id written either as a JSON string or as a JSON number.
type looseID string

func (id *looseID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = looseID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*id = looseID(n.String())
	return nil
}

func looseIDs(ids []looseID) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

type groupDecodeJSON struct {
	ID            looseID   `json:"id"`
	OwnerID       looseID   `json:"owner_id"`
	MemberIDs     []looseID `json:"member_ids"`
	Size          int       `json:"size"`
	Preferences   []looseID `json:"preference"`
	SubPreference []looseID `json:"subPreference"`
}

// UnmarshalJSON also accepts numeric ids, as sent by clients that number their groups
// and houses.
func (g *Group) UnmarshalJSON(data []byte) error {
	var raw groupDecodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*g = Group{
		ID:          string(raw.ID),
		OwnerID:     string(raw.OwnerID),
		MemberIDs:   looseIDs(raw.MemberIDs),
		Size:        raw.Size,
		Preferences: looseIDs(raw.Preferences),
	}
	if len(raw.SubPreference) > 0 {
		g.Alternate = string(raw.SubPreference[0])
	}
	return nil
}

// Rank returns the 0-based position of houseID in the ranked preferences, or -1.
func (g *Group) Rank(houseID string) int {
	for i, id := range g.Preferences {
		if id == houseID {
			return i
		}
	}
	return -1
}

// Snapshot is the output of one generation run. It is never mutated once returned.
type Snapshot struct {
	Groups []Group
	Houses []House

	houseIndex map[string]int
}

func NewSnapshot(groups []Group, houses []House) *Snapshot {
	snap := &Snapshot{
		Groups:     groups,
		Houses:     houses,
		houseIndex: make(map[string]int, len(houses)),
	}
	for i, h := range houses {
		snap.houseIndex[h.ID] = i
	}
	return snap
}

func (s *Snapshot) House(id string) (House, bool) {
	i, ok := s.houseIndex[id]
	if !ok {
		return House{}, false
	}
	return s.Houses[i], true
}

type snapshotJSON struct {
	Groups []Group          `json:"groups"`
	Houses map[string]House `json:"houses"`
	Order  []string         `json:"order"`
}

func (s *Snapshot) MarshalJSON() ([]byte, error) {
	out := snapshotJSON{
		Groups: s.Groups,
		Houses: make(map[string]House, len(s.Houses)),
		Order:  make([]string, 0, len(s.Houses)),
	}
	for _, h := range s.Houses {
		out.Houses[h.ID] = h
		out.Order = append(out.Order, h.ID)
	}
	return json.Marshal(out)
}

func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw snapshotJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	order := raw.Order
	if len(order) != len(raw.Houses) {
		order = make([]string, 0, len(raw.Houses))
		for id := range raw.Houses {
			order = append(order, id)
		}
		sort.Strings(order)
	}
	houses := make([]House, 0, len(order))
	for _, id := range order {
		h, ok := raw.Houses[id]
		if !ok {
			return fmt.Errorf("house %q listed in order but missing", id)
		}
		h.ID = id
		houses = append(houses, h)
	}
	*s = *NewSnapshot(raw.Groups, houses)
	return nil
}

type Totals struct {
	Groups       int
	Members      int
	MinCapacity  int
	MaxCapacity  int
	HousesBySize map[Size]int
}

func (s *Snapshot) Totals() Totals {
	t := Totals{
		Groups:       len(s.Groups),
		HousesBySize: make(map[Size]int),
	}
	for _, g := range s.Groups {
		t.Members += g.Size
	}
	for _, h := range s.Houses {
		t.MinCapacity += h.Min
		t.MaxCapacity += h.Max
		t.HousesBySize[h.Size]++
	}
	return t
}

func (t Totals) String() string {
	s := new(strings.Builder)
	fmt.Fprintf(s, "Groups: %d\n", t.Groups)
	fmt.Fprintf(s, "Total group members: %d\n", t.Members)
	fmt.Fprintf(s, "Total house min capacity: %d\n", t.MinCapacity)
	fmt.Fprintf(s, "Total house max capacity: %d\n", t.MaxCapacity)
	s.WriteString("Houses by size:")
	for _, size := range Sizes {
		fmt.Fprintf(s, " %v=%d", size, t.HousesBySize[size])
	}
	return s.String()
}

var ErrInvalidSnapshot = errors.New("invalid snapshot")

func errorCoalesce(args ...error) error {
	for _, e := range args {
		if e != nil {
			return e
		}
	}
	return nil
}

func (s *Snapshot) validateHouses() error {
	seen := mapset.NewThreadUnsafeSet[string]()
	for _, h := range s.Houses {
		if h.ID == "" {
			return fmt.Errorf("%w: house without id", ErrInvalidSnapshot)
		}
		if !seen.Add(h.ID) {
			return fmt.Errorf("%w: duplicate house %s", ErrInvalidSnapshot, h.ID)
		}
		if h.Max <= 0 || h.Min < 0 || h.Min > h.Max {
			return fmt.Errorf("%w: house %s has capacity band [%d, %d]", ErrInvalidSnapshot, h.ID, h.Min, h.Max)
		}
	}
	return nil
}

func (s *Snapshot) validateGroups(maxRank int) error {
	seen := mapset.NewThreadUnsafeSet[string]()
	for _, g := range s.Groups {
		if !seen.Add(g.ID) {
			return fmt.Errorf("%w: duplicate group %s", ErrInvalidSnapshot, g.ID)
		}
		if g.Size != 1+len(g.MemberIDs) {
			return fmt.Errorf("%w: group %s has size %d but %d members", ErrInvalidSnapshot, g.ID, g.Size, len(g.MemberIDs))
		}
		if len(g.Preferences) < 1 || len(g.Preferences) > maxRank {
			return fmt.Errorf("%w: group %s states %d preferences", ErrInvalidSnapshot, g.ID, len(g.Preferences))
		}
		ranked := mapset.NewThreadUnsafeSet[string]()
		for _, id := range g.Preferences {
			if _, ok := s.House(id); !ok {
				return fmt.Errorf("%w: group %s prefers unknown house %s", ErrInvalidSnapshot, g.ID, id)
			}
			if !ranked.Add(id) {
				return fmt.Errorf("%w: group %s ranks house %s twice", ErrInvalidSnapshot, g.ID, id)
			}
		}
		if g.Alternate == "" {
			continue
		}
		h, ok := s.House(g.Alternate)
		if !ok || !h.Size.IsLarge() {
			return fmt.Errorf("%w: group %s has alternate %s outside the large houses", ErrInvalidSnapshot, g.ID, g.Alternate)
		}
		if ranked.Contains(g.Alternate) {
			return fmt.Errorf("%w: group %s ranks its alternate %s", ErrInvalidSnapshot, g.ID, g.Alternate)
		}
	}
	return nil
}

// Validate checks the structural invariants of groups and houses.
func (s *Snapshot) Validate() error {
	return errorCoalesce(
		s.validateHouses(),
		s.validateGroups(MaxRank),
	)
}

type Variant string

const (
	VariantA Variant = "A"
	VariantB Variant = "B"
)

func ParseVariant(s string) (Variant, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A", "VA":
		return VariantA, nil
	case "B", "VB":
		return VariantB, nil
	}
	return "", fmt.Errorf("unknown solver variant %q", s)
}

// Result maps a group id to the house it was assigned to. Missing or empty entries
// mean the group is unassigned.
type Result map[string]string

func (r Result) Assigned(groupID string) (string, bool) {
	id, ok := r[groupID]
	return id, ok && id != ""
}
