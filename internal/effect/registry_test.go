package effect

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// testCtx returns a context with a short timeout, canceled on test cleanup.
func testCtx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return c
}

func TestRunDeliversSuccessOnce(t *testing.T) {
	r := New(Config{})
	Register(r, "echo", func(ctx context.Context, s string) (string, error) { return s + "!", nil })
	var oks, fails int
	var got any
	r.Run(testCtx(t), "echo", "hi", func(v any) { oks++; got = v }, func(error) { fails++ })
	if oks != 1 || fails != 0 || got != "hi!" {
		t.Fatalf("oks=%d fails=%d got=%v", oks, fails, got)
	}
}

func TestRunDeliversRejectionOnce(t *testing.T) {
	r := New(Config{})
	Register(r, "deny", func(ctx context.Context, _ any) (any, error) { return nil, errors.New(MsgUnauthorized) })
	var oks, fails int
	var gotErr error
	r.Run(testCtx(t), "deny", nil, func(any) { oks++ }, func(err error) { fails++; gotErr = err })
	if oks != 0 || fails != 1 {
		t.Fatalf("oks=%d fails=%d", oks, fails)
	}
	if gotErr.Error() != MsgUnauthorized {
		t.Fatalf("message = %q", gotErr.Error())
	}
	if !IsFailure(gotErr) || !IsAuthFailure(gotErr) {
		t.Fatalf("expected auth failure, got %#v", gotErr)
	}
}

func TestNilInputIsZeroValue(t *testing.T) {
	r := New(Config{})
	Register(r, "len", func(ctx context.Context, s string) (int, error) { return len(s), nil })
	out, err := r.Call(testCtx(t), "len", nil)
	if err != nil || out != 0 {
		t.Fatalf("out=%v err=%v", out, err)
	}
}

func TestInputTypeMismatchFails(t *testing.T) {
	r := New(Config{})
	Register(r, "len", func(ctx context.Context, s string) (int, error) { return len(s), nil })
	_, err := r.Call(testCtx(t), "len", 42)
	var ite *InputTypeError
	if !errors.As(err, &ite) {
		t.Fatalf("expected InputTypeError, got %v", err)
	}
}

func TestPanicBecomesFailure(t *testing.T) {
	r := New(Config{})
	Register(r, "boom", func(ctx context.Context, _ any) (any, error) { panic("kaput") })
	var fails int32
	r.Run(testCtx(t), "boom", nil, func(any) { t.Errorf("unexpected success") }, func(error) { atomic.AddInt32(&fails, 1) })
	if fails != 1 {
		t.Fatalf("fails = %d", fails)
	}
}

func TestUnknownEffect(t *testing.T) {
	r := New(Config{})
	if r.Has("nope") {
		t.Fatalf("nope should not be registered")
	}
	_, err := r.Call(testCtx(t), "nope", nil)
	if !IsUnknownEffect(err) {
		t.Fatalf("expected unknown effect, got %v", err)
	}
	if !r.Has(Delay) {
		t.Fatalf("delay must be registered by default")
	}
}

func TestAdmissionTooBusy(t *testing.T) {
	r := New(Config{MaxInFlight: 1, MaxWait: 20 * time.Millisecond})
	block := make(chan struct{})
	started := make(chan struct{})
	Register(r, "slow", func(ctx context.Context, _ any) (any, error) {
		close(started)
		<-block
		return nil, nil
	})
	Register(r, "fast", func(ctx context.Context, _ any) (any, error) { return "ok", nil })

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = r.Call(context.Background(), "slow", nil)
	}()
	<-started
	if r.InFlight() != 1 {
		t.Fatalf("inflight = %d", r.InFlight())
	}
	_, err := r.Call(testCtx(t), "fast", nil)
	if !IsTooBusy(err) {
		t.Fatalf("expected too busy, got %v", err)
	}
	close(block)
	<-done
	if out, err := r.Call(testCtx(t), "fast", nil); err != nil || out != "ok" {
		t.Fatalf("after release: out=%v err=%v", out, err)
	}
}

func TestDelayHonorsCancellation(t *testing.T) {
	r := New(Config{})
	out, err := r.Call(testCtx(t), Delay, 5*time.Millisecond)
	if err != nil || out != 5*time.Millisecond {
		t.Fatalf("out=%v err=%v", out, err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Call(ctx, Delay, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
}

func TestIDsSorted(t *testing.T) {
	r := New(Config{})
	Register(r, "b", func(ctx context.Context, _ any) (any, error) { return nil, nil })
	Register(r, "a", func(ctx context.Context, _ any) (any, error) { return nil, nil })
	ids := r.IDs()
	if len(ids) != 3 || ids[0] != "a" || ids[1] != "b" || ids[2] != Delay {
		t.Fatalf("ids = %v", ids)
	}
}
