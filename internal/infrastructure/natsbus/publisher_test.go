package natsbus

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-stream/internal/domain/entity"
)

// startTestNATS arranca un servidor NATS embebido y devuelve su URL y el servidor.
func startTestNATS(t *testing.T) (string, *natsserver.Server) {
	t.Helper()
	srv, err := natsserver.NewServer(&natsserver.Options{Host: "127.0.0.1", Port: -1})
	require.NoError(t, err)
	srv.Start()
	t.Cleanup(srv.Shutdown)
	require.True(t, srv.ReadyForConnections(5*time.Second), "NATS embebido no disponible")
	return srv.ClientURL(), srv
}

func TestPublisher_PublicaAlerta(t *testing.T) {
	url, _ := startTestNATS(t)

	sub, err := nats.Connect(url)
	require.NoError(t, err)
	defer sub.Close()
	msgs := make(chan *nats.Msg, 1)
	_, err = sub.ChanSubscribe("inventory.alerts", msgs)
	require.NoError(t, err)
	require.NoError(t, sub.Flush())

	pub, err := Connect(url, "inventory.alerts")
	require.NoError(t, err)
	defer pub.Close()

	ev := entity.NotificationEvent{
		ID:      "n-1",
		Store:   "A",
		Item:    "apple",
		Count:   2,
		Subject: entity.LowStockSubject,
		Body:    "Low stock: store=A, item=apple, count=2",
	}
	require.NoError(t, pub.Publish(context.Background(), ev))

	select {
	case msg := <-msgs:
		assert.Equal(t, entity.LowStockSubject, msg.Header.Get(HeaderSubject))
		var got entity.NotificationEvent
		require.NoError(t, json.Unmarshal(msg.Data, &got))
		assert.Equal(t, ev.Body, got.Body)
		assert.Equal(t, "apple", got.Item)
		assert.EqualValues(t, 2, got.Count)
	case <-time.After(5 * time.Second):
		t.Fatal("no se recibió la alerta")
	}
}

func TestPublisher_ServidorCaidoDevuelveError(t *testing.T) {
	url, srv := startTestNATS(t)

	pub, err := Connect(url, "inventory.alerts", nats.MaxReconnects(0))
	require.NoError(t, err)
	defer pub.conn.Close()

	srv.Shutdown()
	srv.WaitForShutdown()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err = pub.Publish(ctx, entity.NotificationEvent{ID: "n-2", Subject: entity.LowStockSubject})
	assert.Error(t, err)
}

func TestPublisher_ContextoCancelado(t *testing.T) {
	url, _ := startTestNATS(t)
	pub, err := Connect(url, "inventory.alerts")
	require.NoError(t, err)
	defer pub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, pub.Publish(ctx, entity.NotificationEvent{}), context.Canceled)
}
