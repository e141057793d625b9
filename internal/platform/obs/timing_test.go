package obs

import (
	"context"
	"errors"
	"route-creator/internal/platform/logger"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestTimeLogsFailureWithRequestID(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(zap.NewNop()) })

	ctx := WithRequestID(context.Background(), "abc")

	func() (err error) {
		defer Time(ctx, "test.op")(&err)
		return errors.New("boom")
	}()

	entries := logs.FilterMessage("op failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 failure entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["req_id"] != "abc" || fields["op"] != "test.op" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestTimeLogsSuccessAtDebug(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(zap.NewNop()) })

	func() (err error) {
		defer Time(context.Background(), "ok.op")(&err)
		return nil
	}()

	if logs.FilterMessage("op done").Len() != 1 {
		t.Fatalf("expected one success entry")
	}
	if RequestID(context.Background()) != "" {
		t.Fatalf("expected empty request id")
	}
}
