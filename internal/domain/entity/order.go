package entity

import (
	"errors"
	"time"

	"github.com/samber/lo"

	"artisanmart/pkg/money"
)

type OrderStatus string

// remember to add new statuses to the validOrderStatuses map
const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusFailed    OrderStatus = "failed"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusExpired   OrderStatus = "expired"
)

var validOrderStatuses = map[OrderStatus]struct{}{
	OrderStatusPending:   {},
	OrderStatusPaid:      {},
	OrderStatusFailed:    {},
	OrderStatusCancelled: {},
	OrderStatusExpired:   {},
}

var ErrInvalidOrderStatus = errors.New("invalid order status")

func ToOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if _, ok := validOrderStatuses[status]; ok {
		return status, nil
	}

	return "", ErrInvalidOrderStatus
}

func (s OrderStatus) IsTerminal() bool {
	return s != OrderStatusPending
}

type SubscriptionType string

const (
	SubscriptionMonthly SubscriptionType = "monthly"
	SubscriptionYearly  SubscriptionType = "yearly"
)

var ErrInvalidSubscriptionType = errors.New("invalid subscription type")

func ToSubscriptionType(s string) (SubscriptionType, error) {
	switch t := SubscriptionType(s); t {
	case SubscriptionMonthly, SubscriptionYearly:
		return t, nil
	}
	return "", ErrInvalidSubscriptionType
}

// Price is the fixed plan price: ₹200 monthly, ₹2000 yearly.
func (t SubscriptionType) Price() money.Amount {
	switch t {
	case SubscriptionMonthly:
		return money.FromRupees(200)
	case SubscriptionYearly:
		return money.FromRupees(2000)
	}
	return money.Zero
}

// ExtendFrom returns the new end date. Renewals stack on an unexpired subscription.
func (t SubscriptionType) ExtendFrom(now time.Time, currentEnd *time.Time) time.Time {
	start := now
	if currentEnd != nil && currentEnd.After(now) {
		start = *currentEnd
	}
	if t == SubscriptionYearly {
		return start.AddDate(1, 0, 0)
	}
	return start.AddDate(0, 1, 0)
}

type SubscriptionPlan struct {
	Type     SubscriptionType `json:"type"`
	Name     string           `json:"name"`
	Price    money.Amount     `json:"price"`
	Duration string           `json:"duration"`
}

func SubscriptionPlans() []SubscriptionPlan {
	return []SubscriptionPlan{
		{Type: SubscriptionMonthly, Name: "Artisan Monthly", Price: SubscriptionMonthly.Price(), Duration: "1 month"},
		{Type: SubscriptionYearly, Name: "Artisan Yearly", Price: SubscriptionYearly.Price(), Duration: "1 year"},
	}
}

const (
	ProductKindShopCard = "shopcard"
	ProductKindResale   = "resale"
	ProductKindPlan     = "subscription"
)

// ProductSnapshot is copied into the order at creation and never refreshed.
type ProductSnapshot struct {
	ProductID string       `json:"productId" firestore:"productId"`
	Title     string       `json:"title" firestore:"title"`
	Price     money.Amount `json:"price" firestore:"price"`
	Quantity  int          `json:"quantity" firestore:"quantity"`
	Image     string       `json:"image,omitempty" firestore:"image,omitempty"`
	Kind      string       `json:"kind,omitempty" firestore:"kind,omitempty"`
}

type PaymentDetails struct {
	GatewayOrderID string       `json:"gatewayOrderId,omitempty" firestore:"gatewayOrderId,omitempty"`
	GatewayStatus  string       `json:"gatewayStatus" firestore:"gatewayStatus"`
	PaymentMethod  string       `json:"paymentMethod,omitempty" firestore:"paymentMethod,omitempty"`
	PaidAmount     money.Amount `json:"paidAmount" firestore:"paidAmount"`
	Source         string       `json:"source" firestore:"source"`
	ConfirmedAt    time.Time    `json:"confirmedAt" firestore:"confirmedAt"`
}

type Order struct {
	OrderID          string            `json:"orderId" firestore:"orderId"`
	BuyerID          string            `json:"buyerId" firestore:"buyerId"`
	SellerID         string            `json:"sellerId,omitempty" firestore:"sellerId,omitempty"`
	CustomerName     string            `json:"customerName" firestore:"customerName"`
	CustomerEmail    string            `json:"customerEmail" firestore:"customerEmail"`
	CustomerPhone    string            `json:"customerPhone" firestore:"customerPhone"`
	ProductDetails   []ProductSnapshot `json:"productDetails" firestore:"productDetails"`
	Amount           money.Amount      `json:"amount" firestore:"amount"`
	PlatformFee      money.Amount      `json:"platformFee" firestore:"platformFee"`
	Status           OrderStatus       `json:"status" firestore:"status"`
	IsSubscription   bool              `json:"isSubscription" firestore:"isSubscription"`
	SubscriptionType SubscriptionType  `json:"subscriptionType,omitempty" firestore:"subscriptionType,omitempty"`
	PaymentSessionID string            `json:"paymentSessionId,omitempty" firestore:"paymentSessionId,omitempty"`
	PaymentLink      string            `json:"paymentLink,omitempty" firestore:"paymentLink,omitempty"`
	PaymentDetails   *PaymentDetails   `json:"paymentDetails,omitempty" firestore:"paymentDetails,omitempty"`

	CreatedAt time.Time  `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt" firestore:"updatedAt"`
	PaidAt    *time.Time `json:"paidAt,omitempty" firestore:"paidAt,omitempty"`
	ClosedAt  *time.Time `json:"closedAt,omitempty" firestore:"closedAt,omitempty"`
}

// SellerPayout is what the seller is credited once the order is paid.
func (o *Order) SellerPayout() money.Amount {
	return o.Amount - o.PlatformFee
}

func (o *Order) InvolvesUser(uid string) bool {
	return o.BuyerID == uid || (o.SellerID != "" && o.SellerID == uid)
}

type BalanceCredit struct {
	UserID string
	Amount money.Amount
	Reason string
}

type SubscriptionGrant struct {
	UserID string
	Type   SubscriptionType
}

type StockDecrement struct {
	ProductID string
	Quantity  int
}

// Settlement moves a pending order to a terminal status. The repository applies it
// atomically and only if the order is still pending.
type Settlement struct {
	Status          OrderStatus
	PaymentDetails  *PaymentDetails
	Credits         []BalanceCredit
	Subscription    *SubscriptionGrant
	StockDecrements []StockDecrement
	At              time.Time
}

// CreditsByUser folds several credits for the same account into one amount.
func (s Settlement) CreditsByUser() map[string]money.Amount {
	grouped := lo.GroupBy(s.Credits, func(c BalanceCredit) string { return c.UserID })
	return lo.MapValues(grouped, func(cs []BalanceCredit, _ string) money.Amount {
		return lo.SumBy(cs, func(c BalanceCredit) money.Amount { return c.Amount })
	})
}

type OrderFilter struct {
	BuyerID       string
	SellerID      string
	Status        OrderStatus
	CreatedBefore time.Time
	Limit         int
	Offset        int
}
