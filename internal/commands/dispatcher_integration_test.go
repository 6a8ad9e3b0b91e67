package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-command/dispatcher"
)

type dispatcherTestCommand struct {
	Area string
}

func (dispatcherTestCommand) Type() string { return "sitecms.test.dispatcher" }

func (dispatcherTestCommand) Validate() error { return nil }

func TestDispatcherRunsHandlerOnce(t *testing.T) {
	var attempts int
	var seen string
	handler := NewHandler(func(ctx context.Context, msg dispatcherTestCommand) error {
		attempts++
		seen = msg.Area
		return nil
	}, WithTimeout[dispatcherTestCommand](time.Second))

	sub := dispatcher.SubscribeCommand(handler)
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), dispatcherTestCommand{Area: "home"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if attempts != 1 || seen != "home" {
		t.Fatalf("expected one run for home, got %d %q", attempts, seen)
	}
}

func TestDispatcherPropagatesFailureWithoutRetry(t *testing.T) {
	var attempts int
	failure := errors.New("write failed")
	handler := NewHandler(func(ctx context.Context, _ dispatcherTestCommand) error {
		attempts++
		return failure
	}, WithTimeout[dispatcherTestCommand](time.Second))

	sub := dispatcher.SubscribeCommand(handler)
	t.Cleanup(sub.Unsubscribe)

	err := dispatcher.Dispatch(context.Background(), dispatcherTestCommand{Area: "footer"})
	if err == nil {
		t.Fatal("expected dispatcher to return the handler error")
	}
	if attempts != 1 {
		t.Fatalf("expected a single attempt, got %d", attempts)
	}
}
