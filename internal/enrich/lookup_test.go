package enrich

import (
	"context"
	"errors"
	"testing"
	"time"

	"reelmatch/internal/logging"
	"reelmatch/internal/omdb"
	"reelmatch/internal/services"
)

type stubLooker struct {
	err error
}

func (s stubLooker) Lookup(context.Context, string) (*omdb.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &omdb.Response{Response: "True", Plot: "ok"}, nil
}

func TestLookupMarksProviderFailuresExternal(t *testing.T) {
	base := errors.New("dial tcp: connection refused")
	e := New(stubLooker{err: base}, logging.NewNop(), WithCircuitBreaker(0, 0))

	result := e.lookup(context.Background(), "Alpha")
	if result.rejected {
		t.Fatal("provider failure should not be reported as rejected")
	}
	if !errors.Is(result.err, services.ErrExternal) {
		t.Fatalf("expected external marker, got %v", result.err)
	}
	if !errors.Is(result.err, base) {
		t.Fatalf("expected provider error to be kept, got %v", result.err)
	}
}

func TestLookupMarksOpenBreakerUnavailable(t *testing.T) {
	e := New(stubLooker{err: errors.New("boom")}, logging.NewNop(), WithCircuitBreaker(1, time.Minute))

	_ = e.lookup(context.Background(), "Alpha")
	result := e.lookup(context.Background(), "Alpha")
	if !result.rejected {
		t.Fatalf("expected breaker rejection, got %+v", result)
	}
	if !errors.Is(result.err, services.ErrUnavailable) {
		t.Fatalf("expected unavailable marker, got %v", result.err)
	}
}

func TestLookupWithoutProviderIsConfigurationError(t *testing.T) {
	result := New(nil, nil).lookup(context.Background(), "Alpha")
	if !errors.Is(result.err, services.ErrConfiguration) {
		t.Fatalf("expected configuration marker, got %v", result.err)
	}
}

func TestLookupSuccessHasNoError(t *testing.T) {
	result := New(stubLooker{}, logging.NewNop()).lookup(context.Background(), "Alpha")
	if result.err != nil || result.meta.Plot != "ok" {
		t.Fatalf("unexpected outcome %+v", result)
	}
}
