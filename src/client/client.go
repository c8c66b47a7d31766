// Package client calls an external assignment solver over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"house_assignment/src/housing"
)

var (
	ErrStatus    = errors.New("solver returned a non-success status")
	ErrTransport = errors.New("solver unreachable")
	ErrPayload   = errors.New("solver response is not a valid assignment")
)

// SolveError is returned for every failed call. Err wraps one of the sentinels above.
type SolveError struct {
	Variant    housing.Variant
	StatusCode int
	Err        error
}

func (e *SolveError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("solve %s: status %d: %v", e.Variant, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("solve %s: %v", e.Variant, e.Err)
}

func (e *SolveError) Unwrap() error {
	return e.Err
}

// Endpoint is where a variant is posted and whether houses carry a {min, max} band.
type Endpoint struct {
	Path string
	Band bool
}

func DefaultEndpoints() map[housing.Variant]Endpoint {
	return map[housing.Variant]Endpoint{
		housing.VariantA: {Path: "/api/solve_va"},
		housing.VariantB: {Path: "/api/solve_vb", Band: true},
	}
}

type Client struct {
	BaseURL   string
	Endpoints map[housing.Variant]Endpoint
	HTTP      *http.Client
	Logger    *zap.Logger
}

// New returns a client without a request timeout when timeout is zero.
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		Endpoints: DefaultEndpoints(),
		HTTP:      &http.Client{Timeout: timeout},
		Logger:    logger,
	}
}

func (c *Client) Solve(ctx context.Context, variant housing.Variant, snap *housing.Snapshot) (housing.Result, error) {
	ep, ok := c.Endpoints[variant]
	if !ok {
		return nil, &SolveError{Variant: variant, Err: fmt.Errorf("%w: no endpoint for variant", ErrTransport)}
	}
	payload, err := json.Marshal(housing.NewSolveRequest(snap, ep.Band))
	if err != nil {
		return nil, &SolveError{Variant: variant, Err: fmt.Errorf("%w: %v", ErrPayload, err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+ep.Path, bytes.NewReader(payload))
	if err != nil {
		return nil, &SolveError{Variant: variant, Err: fmt.Errorf("%w: %v", ErrTransport, err)}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.Logger.Warn("solver call failed", zap.String("variant", string(variant)), zap.Error(err))
		return nil, &SolveError{Variant: variant, Err: fmt.Errorf("%w: %v", ErrTransport, err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &SolveError{Variant: variant, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: %v", ErrTransport, err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.Logger.Warn("solver rejected request",
			zap.String("variant", string(variant)),
			zap.Int("status", resp.StatusCode))
		return nil, &SolveError{Variant: variant, StatusCode: resp.StatusCode, Err: ErrStatus}
	}

	result, err := decodeResult(raw)
	if err != nil {
		return nil, &SolveError{Variant: variant, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: %v", ErrPayload, err)}
	}
	c.Logger.Debug("solver call done",
		zap.String("variant", string(variant)),
		zap.Int("assigned", len(result)),
		zap.Duration("took", time.Since(start)))
	return result, nil
}

// decodeResult keeps string and numeric house ids; anything else counts as unassigned.
func decodeResult(raw []byte) (housing.Result, error) {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	result := make(housing.Result, len(entries))
	for groupID, v := range entries {
		if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			result[groupID] = s
			continue
		}
		var n json.Number
		if err := json.Unmarshal(v, &n); err == nil {
			if i, err := n.Int64(); err == nil {
				result[groupID] = strconv.FormatInt(i, 10)
			} else {
				result[groupID] = n.String()
			}
		}
	}
	return result, nil
}
