package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"artisanmart/internal/infrastructure/ratelimit"
	"artisanmart/pkg/logger"
	"artisanmart/pkg/money"
)

// BidFunc places a bid on behalf of an authenticated socket user. A returned
// error is reported back to that user as a bidError event.
type BidFunc func(ctx context.Context, auctionID, userID, userName string, amount money.Amount) error

// Manager tracks auction sockets and the rooms they joined.
type Manager struct {
	clients    map[*Client]bool
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mutex      sync.RWMutex

	placeBid   BidFunc
	bidLimiter *ratelimit.Limiter
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		bidLimiter: ratelimit.New(10, 10*time.Second),
	}
}

// SetBidHandler wires socket placeBid events to the auction service.
func (m *Manager) SetBidHandler(fn BidFunc) {
	m.mutex.Lock()
	m.placeBid = fn
	m.mutex.Unlock()
}

// Start runs the registration loop until ctx is cancelled.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		defer close(m.done)
		for {
			select {
			case client := <-m.register:
				m.mutex.Lock()
				m.clients[client] = true
				m.mutex.Unlock()
				logger.Debug("Auction socket registered: %s", client.UserID)

			case client := <-m.unregister:
				m.removeClient(client)
				logger.Debug("Auction socket unregistered: %s", client.UserID)

			case <-ctx.Done():
				m.mutex.Lock()
				for client := range m.clients {
					close(client.Send)
				}
				m.clients = make(map[*Client]bool)
				m.rooms = make(map[string]map[*Client]bool)
				m.mutex.Unlock()
				return
			}
		}
	}()
}

// Add hands client to the registration loop. It returns false once the
// manager has shut down, in which case the client was not registered.
func (m *Manager) Add(client *Client) bool {
	select {
	case m.register <- client:
		return true
	case <-m.done:
		return false
	}
}

// Remove unregisters client. After shutdown it returns immediately.
func (m *Manager) Remove(client *Client) {
	select {
	case m.unregister <- client:
	case <-m.done:
	}
}

func (m *Manager) removeClient(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, ok := m.clients[client]; !ok {
		return
	}
	delete(m.clients, client)
	for room, members := range m.rooms {
		delete(members, client)
		if len(members) == 0 {
			delete(m.rooms, room)
		}
	}
	close(client.Send)
}

func (m *Manager) Join(client *Client, auctionID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, ok := m.clients[client]; !ok {
		return
	}
	members, ok := m.rooms[auctionID]
	if !ok {
		members = make(map[*Client]bool)
		m.rooms[auctionID] = members
	}
	members[client] = true
}

func (m *Manager) Leave(client *Client, auctionID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if members, ok := m.rooms[auctionID]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(m.rooms, auctionID)
		}
	}
}

func (m *Manager) RoomSize(auctionID string) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.rooms[auctionID])
}

// BroadcastToRoom sends an event to everyone in the auction room. Clients whose
// send buffer is full are dropped.
func (m *Manager) BroadcastToRoom(auctionID, eventType string, data interface{}) {
	payload, err := encode(eventType, data)
	if err != nil {
		logger.Error("Failed to encode %s event: %v", eventType, err)
		return
	}

	var slow []*Client
	m.mutex.RLock()
	for client := range m.rooms[auctionID] {
		select {
		case client.Send <- payload:
		default:
			slow = append(slow, client)
		}
	}
	m.mutex.RUnlock()

	for _, client := range slow {
		m.removeClient(client)
	}
}

// BroadcastAuction publishes the latest auction state as auctionUpdate.
func (m *Manager) BroadcastAuction(auctionID string, auction interface{}) {
	m.BroadcastToRoom(auctionID, EventAuctionUpdate, auction)
}

// SendToClient unicasts an event to a single connection.
func (m *Manager) SendToClient(client *Client, eventType string, data interface{}) {
	payload, err := encode(eventType, data)
	if err != nil {
		logger.Error("Failed to encode %s event: %v", eventType, err)
		return
	}

	m.mutex.RLock()
	_, ok := m.clients[client]
	if ok {
		select {
		case client.Send <- payload:
		default:
		}
	}
	m.mutex.RUnlock()
}

func encode(eventType string, data interface{}) ([]byte, error) {
	return json.Marshal(WSMessage{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
