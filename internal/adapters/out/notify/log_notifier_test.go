package notify_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"bookstore/internal/adapters/out/notify"
	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/core/ports"
	"bookstore/internal/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogNotifier_Notify(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewLogNotifier(logging.NewWithWriter(&buf, "info"))
	id := kernel.NewUUID()

	err := n.Notify(t.Context(), ports.Event{
		Name:        ports.EventOrderCreated,
		AggregateID: id,
		OccurredAt:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Payload:     map[string]string{"total_amount": "12.50"},
	})
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "event delivered", entry["msg"])
	assert.Equal(t, "notifier", entry["component"])
	assert.Equal(t, ports.EventOrderCreated, entry["event"])
	assert.Equal(t, id.String(), entry["aggregate_id"])
	assert.Equal(t, map[string]any{"total_amount": "12.50"}, entry["payload"])
}

func TestLogNotifier_CancelledContext(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewLogNotifier(logging.NewWithWriter(&buf, "info"))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := n.Notify(ctx, ports.Event{Name: ports.EventOrderStatusUpdated, AggregateID: kernel.NewUUID()})
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, buf.Len())
}
