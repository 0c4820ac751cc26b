// Package monitor polls configured API endpoints for usage reports and feeds
// them into the documentation index. The loop runs at a fixed interval with no
// backoff; any per-endpoint failure is logged and the cycle moves on.
package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/thom899g/autodoc/internal/docs"
)

// DefaultInterval is used when the config does not set one.
const DefaultInterval = time.Minute

const requestTimeout = 10 * time.Second

// Config describes what to poll and how often.
type Config struct {
	// Interval between poll cycles. Defaults to DefaultInterval.
	Interval time.Duration `yaml:"-"`
	// Endpoints maps endpoint names to usage report URLs.
	Endpoints map[string]string `yaml:"endpoints" validate:"required,min=1,dive,url"`
}

// Validate applies defaults and checks the config. Endpoint URLs must be
// well-formed and at least one endpoint must be configured.
func (c *Config) Validate() error {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid monitor config: %w", err)
	}
	return nil
}

// HTTPClient allows injecting a client in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Monitor polls endpoints and applies their usage reports to the index.
type Monitor struct {
	Config Config
	Index  *docs.Index
	Client HTTPClient
	Log    *zap.Logger
	// OnCycle, when set, runs after every cycle that changed the index. An
	// error from it is logged, not returned.
	OnCycle func() error
}

// New builds a Monitor with a default HTTP client and a no-op logger if none
// is given.
func New(cfg Config, index *docs.Index, log *zap.Logger) *Monitor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Monitor{
		Config: cfg,
		Index:  index,
		Client: &http.Client{Timeout: requestTimeout},
		Log:    log,
	}
}

// Run polls every endpoint once immediately, then on every tick of the
// configured interval, until ctx is cancelled. It returns ctx.Err().
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.Config.Interval)
	defer ticker.Stop()

	for {
		m.pollOnce(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// pollOnce runs a single cycle over all endpoints in name order.
func (m *Monitor) pollOnce(ctx context.Context) {
	names := make([]string, 0, len(m.Config.Endpoints))
	for name := range m.Config.Endpoints {
		names = append(names, name)
	}
	sort.Strings(names)

	changed := false
	for _, name := range names {
		matched, err := m.pollEndpoint(ctx, name, m.Config.Endpoints[name])
		if err != nil {
			m.Log.Error("failed to poll endpoint",
				zap.String("endpoint", name),
				zap.Error(err),
			)
			continue
		}
		if matched > 0 {
			changed = true
		}
	}

	if changed && m.OnCycle != nil {
		if err := m.OnCycle(); err != nil {
			m.Log.Error("post-cycle hook failed", zap.Error(err))
		}
	}
}

func (m *Monitor) pollEndpoint(ctx context.Context, name, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}

	resp, err := m.Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request usage report: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var report docs.UsageReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return 0, fmt.Errorf("decode usage report: %w", err)
	}

	matched := m.Index.ApplyUsage(name, report, time.Now().UTC())
	m.Log.Info("usage report applied",
		zap.String("endpoint", name),
		zap.Int("reported", len(report.Functions)),
		zap.Int("matched", matched),
	)
	return matched, nil
}
