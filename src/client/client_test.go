package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"house_assignment/src/housing"
)

func testSnapshot() *housing.Snapshot {
	return housing.NewSnapshot(
		[]housing.Group{
			{ID: "1", OwnerID: "p1", Size: 1, Preferences: []string{"7"}},
			{ID: "2", OwnerID: "p2", Size: 1, Preferences: []string{"7"}},
			{ID: "3", OwnerID: "p3", Size: 1, Preferences: []string{"7"}},
		},
		[]housing.House{{ID: "7", Size: housing.SizeS, Max: 150}},
	)
}

func TestSolvePostsVariantPayload(t *testing.T) {
	var paths []string
	var captured []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)
		captured = append(captured, body)
		_, _ = w.Write([]byte(`{"1":"7","2":7,"3":null}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", 0, nil)
	for _, variant := range []housing.Variant{housing.VariantA, housing.VariantB} {
		result, err := c.Solve(context.Background(), variant, testSnapshot())
		require.NoError(t, err)
		assert.Equal(t, "7", result["1"])
		assert.Equal(t, "7", result["2"])
		_, ok := result.Assigned("3")
		assert.False(t, ok)
	}

	assert.Equal(t, []string{"/api/solve_va", "/api/solve_vb"}, paths)
	houseA := captured[0]["houses"].(map[string]any)["7"].(map[string]any)
	assert.Equal(t, 150.0, houseA["capacity"])
	houseB := captured[1]["houses"].(map[string]any)["7"].(map[string]any)
	assert.Equal(t, map[string]any{"min": 120.0, "max": 150.0}, houseB["capacity"])
}

func TestSolveIgnoresUnexpectedEntries(t *testing.T) {
	result, err := decodeResult([]byte(`{"1":true,"2":{"x":1},"3":"9","4":2.5}`))
	require.NoError(t, err)
	assert.Equal(t, housing.Result{"3": "9", "4": "2.5"}, result)
}

func TestSolveErrors(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer failing.Close()

	_, err := New(failing.URL, 0, nil).Solve(context.Background(), housing.VariantA, testSnapshot())
	var solveErr *SolveError
	require.ErrorAs(t, err, &solveErr)
	assert.Equal(t, http.StatusInternalServerError, solveErr.StatusCode)
	assert.Equal(t, housing.VariantA, solveErr.Variant)
	assert.ErrorIs(t, err, ErrStatus)

	garbage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[1,2]`))
	}))
	defer garbage.Close()
	_, err = New(garbage.URL, 0, nil).Solve(context.Background(), housing.VariantB, testSnapshot())
	assert.ErrorIs(t, err, ErrPayload)

	_, err = New("http://127.0.0.1:1", 0, nil).Solve(context.Background(), housing.VariantA, testSnapshot())
	assert.ErrorIs(t, err, ErrTransport)

	c := New(failing.URL, 0, nil)
	delete(c.Endpoints, housing.VariantB)
	_, err = c.Solve(context.Background(), housing.VariantB, testSnapshot())
	assert.ErrorIs(t, err, ErrTransport)
}

func TestSolveHonorsTimeoutAndContext(t *testing.T) {
	release := make(chan struct{})
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()
	defer close(release)

	_, err := New(slow.URL, 50*time.Millisecond, nil).Solve(context.Background(), housing.VariantA, testSnapshot())
	assert.ErrorIs(t, err, ErrTransport)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = New(slow.URL, 0, nil).Solve(ctx, housing.VariantA, testSnapshot())
	assert.ErrorIs(t, err, ErrTransport)
}
