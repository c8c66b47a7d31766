package solver

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"house_assignment/src/housing"
)

// Preference points per rank, and for the alternate house.
var (
	PrefScores   = [housing.MaxRank]float64{100, 50, 30, 15, 5}
	SubPrefScore = 3.0
)

type Instance struct {
	Groups   []housing.Group
	Houses   []housing.House
	Capacity []int

	houseIndex map[string]int
}

func NewInstance(snap *housing.Snapshot) *Instance {
	inst := &Instance{
		Groups:     snap.Groups,
		Houses:     snap.Houses,
		Capacity:   make([]int, len(snap.Houses)),
		houseIndex: make(map[string]int, len(snap.Houses)),
	}
	for i, h := range snap.Houses {
		inst.Capacity[i] = h.Max
		inst.houseIndex[h.ID] = i
	}
	return inst
}

// Column is the binary variable "group goes to house".
type Column struct {
	Group int
	House int
}

type Entry struct {
	Col int
	Val float64
}

// Model is a 0/1 program: maximize Scores.x subject to every row summing to at most
// its Upper bound.
type Model struct {
	Columns []Column
	Scores  *mat.VecDense
	Rows    [][]Entry
	Upper   *mat.VecDense
}

func (m *Model) NumCols() int {
	return len(m.Columns)
}

func (m *Model) String() string {
	s := new(strings.Builder)
	fmt.Fprintf(s, "N. columns: %d\n", len(m.Columns))
	fmt.Fprintf(s, "N. rows: %d\n", len(m.Rows))
	if len(m.Columns) > 0 {
		fmt.Fprintf(s, "Max score: %f", mat.Sum(m.Scores))
	}
	return s.String()
}

// Backend solves a Model and returns the column values.
type Backend interface {
	Solve(m *Model) ([]float64, error)
}

// BackendByName maps the configured backend name to an implementation.
func BackendByName(name string) (Backend, error) {
	switch name {
	case "", "highs":
		return Highs{}, nil
	case "lpsolve":
		return LPSolve{}, nil
	}
	return nil, fmt.Errorf("unknown solver backend %q", name)
}
