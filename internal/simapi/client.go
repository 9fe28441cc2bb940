package simapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/zombie-dashboard/internal/logging"
	"github.com/DoyleJ11/zombie-dashboard/pkg/types"
)

// Client talks to the simulation service under <baseURL>/simulation.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	baseURL    string
	log        *zap.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets a per-request timeout, whatever the option order. Zero
// keeps the transport client's own timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = logging.OrNop(l) }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/") + "/simulation",
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient // the caller's client is left untouched
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	c.log = c.log.With(zap.String("component", "simapi"))
	return c
}

func (c *Client) State(ctx context.Context) (*types.Snapshot, error) {
	var res types.Snapshot
	if err := c.do(ctx, http.MethodGet, "/state", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Setup(ctx context.Context, cfg types.SetupRequest) (*types.SetupResult, error) {
	var res types.SetupResult
	if err := c.do(ctx, http.MethodPost, "/setup", cfg, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Advance(ctx context.Context) (*types.AdvanceResult, error) {
	var res types.AdvanceResult
	if err := c.do(ctx, http.MethodPost, "/advance", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) AddZombie(ctx context.Context) (*types.AddZombieResult, error) {
	var res types.AddZombieResult
	if err := c.do(ctx, http.MethodPost, "/add-zombie", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) AddPracticante(ctx context.Context) (*types.AddPracticanteResult, error) {
	var res types.AddPracticanteResult
	if err := c.do(ctx, http.MethodPost, "/add-practicante", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) CleanRoom(ctx context.Context, p types.Position) (*types.CleanRoomResult, error) {
	var res types.CleanRoomResult
	if err := c.do(ctx, http.MethodPost, "/clean-room", types.RoomRequest(p), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) ResetSensor(ctx context.Context, p types.Position) (*types.ResetSensorResult, error) {
	var res types.ResetSensorResult
	if err := c.do(ctx, http.MethodPost, "/reset-sensor", types.RoomRequest(p), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) ToggleZombieGeneration(ctx context.Context) (*types.ZombieGenerationResult, error) {
	var res types.ZombieGenerationResult
	if err := c.do(ctx, http.MethodPost, "/toggle-zombie-generation", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// UseSecretWeapon calls the backend's secret weapon. The dashboard never
// invokes it; see shell.SecretWeapon.
func (c *Client) UseSecretWeapon(ctx context.Context) (*types.SecretWeaponResult, error) {
	var res types.SecretWeaponResult
	if err := c.do(ctx, http.MethodPost, "/use-secret-weapon", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) AutoRun(ctx context.Context, run bool) (*types.AutoRunResult, error) {
	var res types.AutoRunResult
	if err := c.do(ctx, http.MethodPost, "/auto-run", types.AutoRunRequest{Run: run}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Reset(ctx context.Context) (*types.Ack, error) {
	var res types.Ack
	if err := c.do(ctx, http.MethodPost, "/reset", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// do sends one request and decodes the JSON response into out. Failures are
// logged here and returned to the caller unchanged in kind.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	err := c.roundTrip(ctx, method, path, body, out)
	if err != nil {
		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		}
		if se, ok := err.(*StatusError); ok {
			fields = append(fields, zap.Int("status", se.StatusCode))
		}
		c.log.Error("simulation api request failed", fields...)
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(text))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
