package websocket

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgk-rpa/rpa-dashboard/internal/core/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(testLogger(), domain.VariantEntry, domain.VariantExit)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-hub.done
	})
	return hub
}

func join(t *testing.T, hub *Hub, variants ...string) *Client {
	t.Helper()
	c := NewClient(hub, nil, testLogger())
	require.True(t, hub.Join(c))
	for _, v := range variants {
		require.True(t, c.Subscribe(v))
	}
	return c
}

func receive(t *testing.T, c *Client) domain.Event {
	t.Helper()
	select {
	case ev := <-c.Send:
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return domain.Event{}
	}
}

func assertSilent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case ev := <-c.Send:
		t.Fatalf("unexpected event %q", ev.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_BroadcastToVariantRoom(t *testing.T) {
	hub := runHub(t)
	entry := join(t, hub, domain.VariantEntry)
	exit := join(t, hub, domain.VariantExit)
	both := join(t, hub, domain.VariantEntry, domain.VariantExit)

	require.Eventually(t, func() bool { return hub.GetClientCount() == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, hub.GetClientsInRoom(domain.VariantEntry))

	ev := domain.NewSnapshotEvent(&domain.Snapshot{Variant: domain.VariantEntry, Version: 4})
	require.NoError(t, hub.Broadcast(ev))

	got := receive(t, entry)
	assert.Equal(t, domain.EventSnapshotReloaded, got.Type)
	assert.Equal(t, int64(4), got.Version)
	assert.Equal(t, domain.VariantEntry, receive(t, both).Variant)
	assertSilent(t, exit)
}

func TestHub_BroadcastWithoutVariantReachesEveryone(t *testing.T) {
	hub := runHub(t)
	a := join(t, hub, domain.VariantEntry)
	b := join(t, hub)

	require.Eventually(t, func() bool { return hub.GetClientCount() == 2 }, time.Second, 5*time.Millisecond)
	require.NoError(t, hub.Broadcast(domain.Event{Type: domain.EventReloadFailed, Message: "boom"}))

	assert.Equal(t, "boom", receive(t, a).Message)
	assert.Equal(t, "boom", receive(t, b).Message)
}

func TestHub_SubscribeRejectsUnknownVariant(t *testing.T) {
	hub := runHub(t)
	c := NewClient(hub, nil, testLogger())

	assert.False(t, c.Subscribe("payroll"))
	assert.False(t, c.HasSubscription("payroll"))
	assert.Equal(t, 0, hub.GetClientsInRoom("payroll"))
}

func TestHub_UnregisterLeavesRooms(t *testing.T) {
	hub := runHub(t)
	c := join(t, hub, domain.VariantEntry, domain.VariantExit)
	require.Eventually(t, func() bool { return hub.GetClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.leave(c)

	require.Eventually(t, func() bool { return hub.GetClientCount() == 0 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, hub.GetClientsInRoom(domain.VariantEntry))
	assert.Equal(t, 0, hub.GetClientsInRoom(domain.VariantExit))

	_, open := <-c.Send
	assert.False(t, open)
}

func TestHub_DroppedClientCannotResubscribe(t *testing.T) {
	hub := runHub(t)

	slow := NewClient(hub, nil, testLogger())
	slow.Send = make(chan domain.Event, 1)
	require.True(t, hub.Join(slow))
	require.True(t, slow.Subscribe(domain.VariantEntry))
	require.Eventually(t, func() bool { return hub.GetClientCount() == 1 }, time.Second, 5*time.Millisecond)

	ev := domain.Event{Type: domain.EventSnapshotReloaded, Variant: domain.VariantEntry}
	require.NoError(t, hub.Broadcast(ev))
	require.NoError(t, hub.Broadcast(ev))
	require.Eventually(t, func() bool { return hub.GetClientCount() == 0 }, time.Second, 5*time.Millisecond)
	assert.True(t, slow.IsClosed())

	// The read side may still deliver messages after the drop.
	slow.handleIncomingMessage([]byte(`{"type":"SUBSCRIBE","variant":"entry"}`))
	assert.Equal(t, 0, hub.GetClientsInRoom(domain.VariantEntry))
	slow.handleIncomingMessage([]byte(`{"type":"PING"}`))

	// The hub keeps serving the remaining clients.
	healthy := join(t, hub, domain.VariantEntry)
	require.NoError(t, hub.Broadcast(ev))
	assert.Equal(t, domain.EventSnapshotReloaded, receive(t, healthy).Type)
}

func TestHub_IncomingMessages(t *testing.T) {
	hub := runHub(t)
	c := join(t, hub)

	c.handleIncomingMessage([]byte(`{"type":"SUBSCRIBE","variant":"exit"}`))
	assert.True(t, c.HasSubscription(domain.VariantExit))

	c.handleIncomingMessage([]byte(`{"type":"UNSUBSCRIBE","variant":"exit"}`))
	assert.False(t, c.HasSubscription(domain.VariantExit))

	c.handleIncomingMessage([]byte(`{"type":"PING"}`))
	assert.Equal(t, domain.EventPong, receive(t, c).Type)

	// malformed input is ignored
	c.handleIncomingMessage([]byte(`not json`))
	assertSilent(t, c)
}

func TestHub_StopReleasesJoiners(t *testing.T) {
	hub := NewHub(testLogger(), domain.VariantEntry)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	c := NewClient(hub, nil, testLogger())
	require.True(t, hub.Join(c))
	cancel()
	<-stopped

	assert.False(t, hub.Join(NewClient(hub, nil, testLogger())))
	_, open := <-c.Send
	assert.False(t, open)
}
