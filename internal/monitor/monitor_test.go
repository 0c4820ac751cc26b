package monitor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thom899g/autodoc/internal/analyser"
	"github.com/thom899g/autodoc/internal/docs"
)

func testIndex() *docs.Index {
	idx := docs.NewIndex("Test API")
	idx.Replace([]analyser.Entry{
		{File: "users.go", Package: "users", Function: "Create", Line: 1},
		{File: "users.go", Package: "users", Function: "Delete", Line: 20},
	})
	return idx
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "valid",
			config:  Config{Endpoints: map[string]string{"users": "https://api.example.com/usage"}},
			wantErr: false,
		},
		{
			name:    "no endpoints",
			config:  Config{},
			wantErr: true,
		},
		{
			name:    "empty endpoints",
			config:  Config{Endpoints: map[string]string{}},
			wantErr: true,
		},
		{
			name:    "invalid url",
			config:  Config{Endpoints: map[string]string{"users": "not a url"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidateDefaultsInterval(t *testing.T) {
	cfg := Config{Endpoints: map[string]string{"users": "https://api.example.com/usage"}}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultInterval, cfg.Interval)

	cfg = Config{Interval: 5 * time.Second, Endpoints: map[string]string{"users": "https://api.example.com/usage"}}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 5*time.Second, cfg.Interval)
}

func TestPollOnceAppliesUsage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"functions":[{"name":"users.Create","calls":5,"status":"200"}]}`))
	}))
	defer srv.Close()

	idx := testIndex()
	m := New(Config{Interval: time.Minute, Endpoints: map[string]string{"users": srv.URL}}, idx, nil)

	cycles := 0
	m.OnCycle = func() error { cycles++; return nil }

	m.pollOnce(context.Background())
	require.Equal(t, 1, cycles, "OnCycle should run after a cycle that matched usage")

	doc := idx.Snapshot(time.Now().UTC())
	var found bool
	for _, rec := range doc.Entries {
		if rec.QualifiedName() == "users.Create" {
			found = true
			require.NotNil(t, rec.Usage)
			assert.Equal(t, int64(5), rec.Usage.Calls)
			assert.Equal(t, "users", rec.Usage.Endpoint)
		}
	}
	require.True(t, found)
}

func TestPollOnceContinuesPastFailures(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()
	garbled := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer garbled.Close()
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"functions":[{"name":"users.Delete","calls":1}]}`))
	}))
	defer good.Close()

	idx := testIndex()
	m := New(Config{
		Interval: time.Minute,
		Endpoints: map[string]string{
			"a-bad":     bad.URL,
			"b-garbled": garbled.URL,
			"c-good":    good.URL,
			"d-gone":    "http://127.0.0.1:1/unreachable",
		},
	}, idx, nil)

	// Must not panic or stop early; the good endpoint still lands.
	m.pollOnce(context.Background())

	doc := idx.Snapshot(time.Now().UTC())
	var usage *docs.Usage
	for _, rec := range doc.Entries {
		if rec.QualifiedName() == "users.Delete" {
			usage = rec.Usage
		}
	}
	require.NotNil(t, usage)
	assert.Equal(t, int64(1), usage.Calls)
	assert.Equal(t, "c-good", usage.Endpoint)
}

func TestPollOnceNoMatchSkipsOnCycle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"functions":[{"name":"nosuch.Fn","calls":3}]}`))
	}))
	defer srv.Close()

	m := New(Config{Interval: time.Minute, Endpoints: map[string]string{"svc": srv.URL}}, testIndex(), nil)

	cycles := 0
	m.OnCycle = func() error { cycles++; return nil }

	m.pollOnce(context.Background())
	assert.Zero(t, cycles)
}

func TestRunStopsOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"functions":[]}`))
	}))
	defer srv.Close()

	m := New(Config{Interval: time.Hour, Endpoints: map[string]string{"svc": srv.URL}}, testIndex(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}
