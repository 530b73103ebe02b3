package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "artisanmart/pkg/errors"
	"artisanmart/pkg/logger"
	"artisanmart/pkg/money"
)

const (
	EventPing          = "ping"
	EventPong          = "pong"
	EventJoinAuction   = "joinAuction"
	EventLeaveAuction  = "leaveAuction"
	EventPlaceBid      = "placeBid"
	EventAuctionUpdate = "auctionUpdate"
	EventBidError      = "bidError"
	EventJoined        = "joinedAuction"
	EventError         = "error"

	BidErrorCode = "BID_ERROR"
)

const bidTimeout = 10 * time.Second

type WSMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp,omitempty"`
}

type inboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type JoinAuctionData struct {
	AuctionID string `json:"auctionId"`
}

// PlaceBidData is the placeBid payload. userId is ignored in favour of the
// authenticated socket user.
type PlaceBidData struct {
	AuctionID string       `json:"auctionId"`
	UserID    string       `json:"userId,omitempty"`
	UserName  string       `json:"userName"`
	Amount    money.Amount `json:"amount"`
}

type BidErrorData struct {
	AuctionID string `json:"auctionId,omitempty"`
	Message   string `json:"message"`
	Code      string `json:"code"`
}

func (m *Manager) HandleClientMessage(client *Client, raw []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		m.SendToClient(client, EventError, map[string]string{"message": "Invalid message format"})
		return
	}

	switch msg.Type {
	case EventPing:
		m.SendToClient(client, EventPong, nil)

	case EventJoinAuction:
		var data JoinAuctionData
		if err := json.Unmarshal(msg.Data, &data); err != nil || data.AuctionID == "" {
			m.SendToClient(client, EventError, map[string]string{"message": "auctionId is required"})
			return
		}
		m.Join(client, data.AuctionID)
		m.SendToClient(client, EventJoined, data)

	case EventLeaveAuction:
		var data JoinAuctionData
		if err := json.Unmarshal(msg.Data, &data); err == nil {
			m.Leave(client, data.AuctionID)
		}

	case EventPlaceBid:
		m.handlePlaceBid(client, msg.Data)

	default:
		logger.Debug("Ignoring unknown socket event %q from %s", msg.Type, client.UserID)
	}
}

func (m *Manager) handlePlaceBid(client *Client, raw json.RawMessage) {
	var data PlaceBidData
	if err := json.Unmarshal(raw, &data); err != nil || data.AuctionID == "" {
		m.sendBidError(client, "", "Invalid bid payload")
		return
	}

	if ok, wait := m.bidLimiter.Allow(client.UserID); !ok {
		m.sendBidError(client, data.AuctionID, fmt.Sprintf("Too many bids, retry in %d seconds", int(wait.Seconds())+1))
		return
	}

	m.mutex.RLock()
	placeBid := m.placeBid
	m.mutex.RUnlock()
	if placeBid == nil {
		m.sendBidError(client, data.AuctionID, "Bidding is unavailable")
		return
	}

	userName := data.UserName
	if userName == "" {
		userName = client.UserName
	}

	ctx, cancel := context.WithTimeout(context.Background(), bidTimeout)
	defer cancel()

	if err := placeBid(ctx, data.AuctionID, client.UserID, userName, data.Amount); err != nil {
		m.sendBidError(client, data.AuctionID, bidErrorMessage(err))
	}
}

func (m *Manager) sendBidError(client *Client, auctionID, message string) {
	m.SendToClient(client, EventBidError, BidErrorData{
		AuctionID: auctionID,
		Message:   message,
		Code:      BidErrorCode,
	})
}

func bidErrorMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Failed to place bid"
}
