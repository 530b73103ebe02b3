package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	apperrors "artisanmart/pkg/errors"
	"artisanmart/pkg/money"
)

func registered(t *testing.T, m *Manager, userID, auctionID string) *Client {
	t.Helper()
	c := NewClient(userID, userID+"-name", nil)
	require.True(t, m.Add(c))
	require.Eventually(t, func() bool {
		m.Join(c, auctionID)
		return m.RoomSize(auctionID) > 0 && m.inRoom(c, auctionID)
	}, time.Second, 5*time.Millisecond)
	return c
}

func (m *Manager) inRoom(c *Client, auctionID string) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.rooms[auctionID][c]
}

func next(t *testing.T, c *Client) WSMessage {
	t.Helper()
	select {
	case raw := <-c.Send:
		var msg WSMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message received")
		return WSMessage{}
	}
}

func TestManager_BroadcastReachesOnlyRoomMembers(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	m := NewManager()
	m.Start(ctx)
	defer cancel()

	a := registered(t, m, "alice", "auction-1")
	b := registered(t, m, "bob", "auction-1")
	other := registered(t, m, "carol", "auction-2")

	m.BroadcastAuction("auction-1", map[string]string{"id": "auction-1"})

	assert.Equal(t, EventAuctionUpdate, next(t, a).Type)
	assert.Equal(t, EventAuctionUpdate, next(t, b).Type)
	assert.Empty(t, other.Send)
}

func TestManager_PlaceBidRejectionIsUnicast(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	m := NewManager()
	m.Start(ctx)
	defer cancel()

	var gotUser string
	var gotAmount money.Amount
	m.SetBidHandler(func(ctx context.Context, auctionID, userID, userName string, amount money.Amount) error {
		gotUser = userID
		gotAmount = amount
		return apperrors.BidRejected("Bid must be higher than the current highest bid", nil)
	})

	bidder := registered(t, m, "bidder", "auction-1")
	watcher := registered(t, m, "watcher", "auction-1")

	m.HandleClientMessage(bidder, []byte(`{"type":"placeBid","data":{"auctionId":"auction-1","userId":"spoofed","userName":"B","amount":150}}`))

	msg := next(t, bidder)
	assert.Equal(t, EventBidError, msg.Type)
	data := msg.Data.(map[string]interface{})
	assert.Equal(t, "BID_ERROR", data["code"])
	assert.Equal(t, "Bid must be higher than the current highest bid", data["message"])

	assert.Equal(t, "bidder", gotUser)
	assert.Equal(t, money.FromRupees(150), gotAmount)
	assert.Empty(t, watcher.Send)
}

func TestManager_UnregisterLeavesRooms(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	m := NewManager()
	m.Start(ctx)
	defer cancel()

	c := registered(t, m, "alice", "auction-1")
	m.Remove(c)

	require.Eventually(t, func() bool { return m.RoomSize("auction-1") == 0 }, time.Second, 5*time.Millisecond)
	_, open := <-c.Send
	assert.False(t, open)
}

func TestManager_PingPong(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	m := NewManager()
	m.Start(ctx)
	defer cancel()

	c := registered(t, m, "alice", "auction-1")
	m.HandleClientMessage(c, []byte(`{"type":"ping"}`))
	assert.Equal(t, EventPong, next(t, c).Type)
}

type closedConn struct{ closed chan struct{} }

func (c *closedConn) ReadMessage() (int, []byte, error)         { return 0, nil, errors.New("closed") }
func (c *closedConn) WriteMessage(int, []byte) error            { return nil }
func (c *closedConn) SetReadLimit(int64)                        {}
func (c *closedConn) SetReadDeadline(time.Time) error           { return nil }
func (c *closedConn) SetWriteDeadline(time.Time) error          { return nil }
func (c *closedConn) SetPongHandler(func(appData string) error) {}
func (c *closedConn) Close() error {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}
	return nil
}

func TestManager_ShutdownReleasesPumps(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	m := NewManager()
	m.Start(ctx)
	cancel()

	require.Eventually(t, func() bool {
		return !m.Add(NewClient("late", "late-name", nil))
	}, time.Second, 5*time.Millisecond)

	conn := &closedConn{closed: make(chan struct{})}
	c := NewClient("alice", "alice-name", conn)
	finished := make(chan struct{})
	go func() {
		c.ReadPump(m)
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("ReadPump blocked after shutdown")
	}
	select {
	case <-conn.closed:
	default:
		t.Fatal("connection left open")
	}
}
