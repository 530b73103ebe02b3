package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"artisanmart/internal/domain/entity"
	"artisanmart/internal/domain/repository"
	"artisanmart/internal/domain/service"
	"artisanmart/internal/infrastructure/events"
	"artisanmart/pkg/errors"
	"artisanmart/pkg/logger"
	"artisanmart/pkg/money"
)

type PaymentSettings struct {
	PlatformFeePercent decimal.Decimal
	AdminBonus         money.Amount
	ReturnURL          string
	OrderExpiry        time.Duration
}

type PaymentUseCase struct {
	orderRepo    repository.OrderRepository
	userRepo     repository.UserRepository
	shopCardRepo repository.ShopCardRepository
	resaleRepo   repository.ResaleRepository
	gateway      service.PaymentGatewayService
	events       EventPublisher
	mailer       Mailer
	qr           QREncoder
	settings     PaymentSettings
	now          func() time.Time
}

func NewPaymentUseCase(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	shopCardRepo repository.ShopCardRepository,
	resaleRepo repository.ResaleRepository,
	gateway service.PaymentGatewayService,
	events EventPublisher,
	mailer Mailer,
	qr QREncoder,
	settings PaymentSettings,
) *PaymentUseCase {
	return &PaymentUseCase{
		orderRepo:    orderRepo,
		userRepo:     userRepo,
		shopCardRepo: shopCardRepo,
		resaleRepo:   resaleRepo,
		gateway:      gateway,
		events:       events,
		mailer:       mailer,
		qr:           qr,
		settings:     settings,
		now:          time.Now,
	}
}

type CreateOrderInput struct {
	CustomerName     string
	CustomerEmail    string
	CustomerPhone    string
	Amount           money.Amount
	SellerID         string
	ProductDetails   []entity.ProductSnapshot
	IsSubscription   bool
	SubscriptionType string
}

type CreateOrderResult struct {
	OrderID          string             `json:"orderId"`
	PaymentSessionID string             `json:"paymentSessionId"`
	PaymentLink      string             `json:"paymentLink"`
	Amount           money.Amount       `json:"amount"`
	Status           entity.OrderStatus `json:"status"`
}

type VerifyResult struct {
	Order *entity.Order `json:"order"`
	// Processed is true only for the call that moved the order out of pending.
	Processed bool `json:"processed"`
}

type OrderEvent struct {
	OrderID  string             `json:"orderId"`
	BuyerID  string             `json:"buyerId"`
	SellerID string             `json:"sellerId,omitempty"`
	Amount   money.Amount       `json:"amount"`
	Status   entity.OrderStatus `json:"status"`
	At       time.Time          `json:"at"`
}

func (uc *PaymentUseCase) CreateOrder(ctx context.Context, buyerID string, input CreateOrderInput) (*CreateOrderResult, error) {
	if !input.Amount.IsPositive() {
		return nil, errors.BadRequest("amount must be greater than 0", nil)
	}

	order := &entity.Order{
		OrderID:        "ORDER_" + uuid.New().String(),
		BuyerID:        buyerID,
		CustomerName:   input.CustomerName,
		CustomerEmail:  input.CustomerEmail,
		CustomerPhone:  input.CustomerPhone,
		ProductDetails: input.ProductDetails,
		Amount:         input.Amount,
		Status:         entity.OrderStatusPending,
	}

	if input.IsSubscription {
		plan, err := entity.ToSubscriptionType(input.SubscriptionType)
		if err != nil {
			return nil, errors.BadRequest("subscriptionType must be one of: monthly yearly", err)
		}
		if input.Amount != plan.Price() {
			return nil, errors.BadRequest(fmt.Sprintf("Invalid amount for %s subscription: expected %s", plan, plan.Price()), nil)
		}
		order.IsSubscription = true
		order.SubscriptionType = plan
		order.ProductDetails = []entity.ProductSnapshot{{
			ProductID: "artisan-" + string(plan),
			Title:     "Artisan subscription (" + string(plan) + ")",
			Price:     plan.Price(),
			Quantity:  1,
			Kind:      entity.ProductKindPlan,
		}}
	} else {
		if input.SellerID == "" {
			return nil, errors.BadRequest("sellerId is required", nil)
		}
		if input.SellerID == buyerID {
			return nil, errors.BadRequest("You cannot buy your own product", nil)
		}
		lines, total, err := uc.priceLines(ctx, input.SellerID, input.ProductDetails)
		if err != nil {
			return nil, err
		}
		if input.Amount != total {
			return nil, errors.BadRequest(fmt.Sprintf("Invalid amount: expected %s", total), nil)
		}
		order.SellerID = input.SellerID
		order.ProductDetails = lines
		order.PlatformFee = input.Amount.Percent(uc.settings.PlatformFeePercent)
	}
	if order.ProductDetails == nil {
		order.ProductDetails = []entity.ProductSnapshot{}
	}

	now := uc.now()
	order.CreatedAt = now
	order.UpdatedAt = now

	if err := uc.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	gw, err := uc.gateway.CreateOrder(ctx, service.PaymentGatewayRequest{
		OrderID:  order.OrderID,
		Amount:   order.Amount,
		Currency: "INR",
		Customer: service.CustomerDetails{
			ID:    buyerID,
			Name:  order.CustomerName,
			Email: order.CustomerEmail,
			Phone: order.CustomerPhone,
		},
		ReturnURL: strings.ReplaceAll(uc.settings.ReturnURL, "{order_id}", order.OrderID),
		Note:      noteFor(order),
	})
	if err != nil {
		logger.LogOrderError(order.OrderID, "create_gateway_order", err)
		if _, _, serr := uc.orderRepo.Settle(ctx, order.OrderID, entity.Settlement{
			Status: entity.OrderStatusFailed,
			At:     uc.now(),
		}); serr != nil {
			logger.LogOrderError(order.OrderID, "mark_failed", serr)
		}
		return nil, errors.BadGateway("Failed to create payment session", err)
	}

	if err := uc.orderRepo.AttachPaymentSession(ctx, order.OrderID, gw.PaymentSessionID, gw.PaymentLink); err != nil {
		return nil, err
	}

	logger.With("order_id", order.OrderID, "amount", order.Amount.String(), "subscription", order.IsSubscription).
		Info("payment order created")

	return &CreateOrderResult{
		OrderID:          order.OrderID,
		PaymentSessionID: gw.PaymentSessionID,
		PaymentLink:      gw.PaymentLink,
		Amount:           order.Amount,
		Status:           order.Status,
	}, nil
}

// priceLines rebuilds the order lines from the stored listings. Every line
// must belong to sellerID and be purchasable in the requested quantity.
func (uc *PaymentUseCase) priceLines(ctx context.Context, sellerID string, details []entity.ProductSnapshot) ([]entity.ProductSnapshot, money.Amount, error) {
	if len(details) == 0 {
		return nil, money.Zero, errors.BadRequest("productDetails must not be empty", nil)
	}

	lines := make([]entity.ProductSnapshot, 0, len(details))
	for _, p := range details {
		qty := max(p.Quantity, 1)

		switch p.Kind {
		case "", entity.ProductKindShopCard:
			card, err := uc.shopCardRepo.GetByID(ctx, p.ProductID)
			if err != nil {
				if errors.IsNotFound(err) {
					return nil, money.Zero, errors.BadRequest("Product "+p.ProductID+" is not available", err)
				}
				return nil, money.Zero, err
			}
			if card.SellerID != sellerID || card.DeletedAt != nil || card.Status != entity.ShopCardStatusActive {
				return nil, money.Zero, errors.BadRequest("Product "+p.ProductID+" is not available", nil)
			}
			if card.Stock < qty {
				return nil, money.Zero, errors.BadRequest(fmt.Sprintf("Only %d left of %s", card.Stock, card.Title), nil)
			}
			lines = append(lines, entity.ProductSnapshot{
				ProductID: card.ID,
				Title:     card.Title,
				Price:     card.Price,
				Quantity:  qty,
				Image:     card.CoverImage(),
				Kind:      entity.ProductKindShopCard,
			})

		case entity.ProductKindResale:
			item, err := uc.resaleRepo.GetByID(ctx, p.ProductID)
			if err != nil {
				if errors.IsNotFound(err) {
					return nil, money.Zero, errors.BadRequest("Product "+p.ProductID+" is not available", err)
				}
				return nil, money.Zero, err
			}
			if item.SellerID != sellerID || item.Status != entity.ResaleStatusAvailable || qty != 1 {
				return nil, money.Zero, errors.BadRequest("Product "+p.ProductID+" is not available", nil)
			}
			image := ""
			if len(item.Images) > 0 {
				image = item.Images[0]
			}
			lines = append(lines, entity.ProductSnapshot{
				ProductID: item.ID,
				Title:     item.Title,
				Price:     item.Price,
				Quantity:  1,
				Image:     image,
				Kind:      entity.ProductKindResale,
			})

		default:
			return nil, money.Zero, errors.BadRequest("Unknown product kind "+p.Kind, nil)
		}
	}

	total := money.Sum(lo.Map(lines, func(l entity.ProductSnapshot, _ int) money.Amount { return l.Price.Mul(l.Quantity) })...)
	return lines, total, nil
}

func noteFor(o *entity.Order) string {
	if o.IsSubscription {
		return "Artisan subscription " + string(o.SubscriptionType)
	}
	titles := lo.Map(o.ProductDetails, func(p entity.ProductSnapshot, _ int) string { return p.Title })
	return strings.Join(titles, ", ")
}

// VerifyPayment is called by the buyer after returning from the gateway.
func (uc *PaymentUseCase) VerifyPayment(ctx context.Context, uid, orderID string) (*VerifyResult, error) {
	order, err := uc.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != uid && !isAdmin(ctx, uc.userRepo, uid) {
		return nil, errors.Forbidden("You don't have access to this order", nil)
	}
	return uc.reconcile(ctx, order, "verify")
}

// HandleWebhook authenticates the gateway callback and re-reads the order
// status from the gateway instead of trusting the payload.
func (uc *PaymentUseCase) HandleWebhook(ctx context.Context, timestamp, signature string, body []byte) (*VerifyResult, error) {
	if err := uc.gateway.VerifyWebhookSignature(timestamp, body, signature); err != nil {
		return nil, errors.Unauthorized("Invalid webhook signature", err)
	}

	orderID := webhookOrderID(body)
	if orderID == "" {
		return nil, errors.BadRequest("Webhook payload has no order id", nil)
	}

	order, err := uc.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return uc.reconcile(ctx, order, "webhook")
}

type webhookPayload struct {
	OrderID string `json:"orderId"`
	Data    struct {
		Order struct {
			OrderID string `json:"order_id"`
		} `json:"order"`
	} `json:"data"`
}

func webhookOrderID(body []byte) string {
	var p webhookPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return ""
	}
	if p.Data.Order.OrderID != "" {
		return p.Data.Order.OrderID
	}
	return p.OrderID
}

func (uc *PaymentUseCase) loadOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("Order", err)
		}
		return nil, err
	}
	return order, nil
}

// MapGatewayStatus translates a gateway order status to the local one.
// ok is false when the order should stay pending.
func MapGatewayStatus(status string) (entity.OrderStatus, bool) {
	switch strings.ToUpper(status) {
	case service.GatewayStatusPaid:
		return entity.OrderStatusPaid, true
	case service.GatewayStatusActive, "":
		return entity.OrderStatusPending, false
	case service.GatewayStatusExpired:
		return entity.OrderStatusExpired, true
	case service.GatewayStatusTerminated, "TERMINATION_REQUESTED":
		return entity.OrderStatusCancelled, true
	}
	mapped, err := entity.ToOrderStatus(strings.ToLower(status))
	if err != nil || mapped == entity.OrderStatusPending {
		return entity.OrderStatusPending, false
	}
	return mapped, true
}

func (uc *PaymentUseCase) reconcile(ctx context.Context, order *entity.Order, source string) (*VerifyResult, error) {
	if order.Status.IsTerminal() {
		return &VerifyResult{Order: order}, nil
	}

	gw, err := uc.gateway.GetOrder(ctx, order.OrderID)
	if err != nil {
		logger.LogOrderError(order.OrderID, "fetch_gateway_order", err)
		return nil, errors.BadGateway("Failed to fetch payment status", err)
	}

	status, final := MapGatewayStatus(gw.Status)
	if !final {
		return &VerifyResult{Order: order}, nil
	}

	now := uc.now()
	settlement := entity.Settlement{
		Status: status,
		At:     now,
		PaymentDetails: &entity.PaymentDetails{
			GatewayOrderID: gw.GatewayOrderID,
			GatewayStatus:  gw.Status,
			PaymentMethod:  gw.PaymentMethod,
			Source:         source,
			ConfirmedAt:    now,
		},
	}

	if status == entity.OrderStatusPaid {
		settlement.PaymentDetails.PaidAmount = gw.Amount
		if err := uc.addPaidEffects(ctx, order, &settlement); err != nil {
			return nil, err
		}
	}

	settled, applied, err := uc.orderRepo.Settle(ctx, order.OrderID, settlement)
	if err != nil {
		logger.LogOrderError(order.OrderID, "settle", err)
		return nil, errors.Internal("Failed to update order", err)
	}

	if applied {
		uc.afterSettle(ctx, settled)
	}
	return &VerifyResult{Order: settled, Processed: applied}, nil
}

func (uc *PaymentUseCase) addPaidEffects(ctx context.Context, order *entity.Order, s *entity.Settlement) error {
	if order.IsSubscription {
		s.Subscription = &entity.SubscriptionGrant{UserID: order.BuyerID, Type: order.SubscriptionType}

		if uc.settings.AdminBonus.IsPositive() {
			admins, _, err := uc.userRepo.ListByRole(ctx, entity.RoleAdmin, 0, 0)
			if err != nil {
				return errors.Internal("Failed to load admins", err)
			}
			s.Credits = lo.Map(admins, func(a *entity.User, _ int) entity.BalanceCredit {
				return entity.BalanceCredit{UserID: a.ID, Amount: uc.settings.AdminBonus, Reason: "subscription_bonus"}
			})
		}
		return nil
	}

	if order.SellerID != "" {
		s.Credits = []entity.BalanceCredit{{UserID: order.SellerID, Amount: order.SellerPayout(), Reason: "sale"}}
	}
	s.StockDecrements = lo.FilterMap(order.ProductDetails, func(p entity.ProductSnapshot, _ int) (entity.StockDecrement, bool) {
		if p.Kind != "" && p.Kind != entity.ProductKindShopCard {
			return entity.StockDecrement{}, false
		}
		return entity.StockDecrement{ProductID: p.ProductID, Quantity: max(p.Quantity, 1)}, true
	})
	return nil
}

// afterSettle runs the best-effort side effects of a transition. The order is
// already committed, so failures are only logged.
func (uc *PaymentUseCase) afterSettle(ctx context.Context, order *entity.Order) {
	event := OrderEvent{
		OrderID:  order.OrderID,
		BuyerID:  order.BuyerID,
		SellerID: order.SellerID,
		Amount:   order.Amount,
		Status:   order.Status,
		At:       order.UpdatedAt,
	}

	if order.Status != entity.OrderStatusPaid {
		if err := uc.events.Publish(ctx, events.TopicOrderClosed, order.OrderID, event); err != nil {
			logger.LogOrderError(order.OrderID, "publish_closed", err)
		}
		return
	}

	logger.With("order_id", order.OrderID, "amount", order.Amount.String()).Info("order paid")

	if err := uc.events.Publish(ctx, events.TopicOrderPaid, order.OrderID, event); err != nil {
		logger.LogOrderError(order.OrderID, "publish_paid", err)
	}
	if order.IsSubscription {
		if err := uc.events.Publish(ctx, events.TopicSubscriptionOn, order.BuyerID, event); err != nil {
			logger.LogOrderError(order.OrderID, "publish_subscription", err)
		}
	}

	for _, p := range order.ProductDetails {
		if p.Kind != entity.ProductKindResale {
			continue
		}
		if err := uc.markResaleSold(ctx, p.ProductID); err != nil {
			logger.LogOrderError(order.OrderID, "mark_resale_sold", err)
		}
	}

	if order.CustomerEmail != "" {
		if err := uc.mailer.Send(ctx, order.CustomerEmail, receiptSubject(order), receiptBody(order)); err != nil {
			logger.LogOrderError(order.OrderID, "send_receipt", err)
		}
	}
}

func (uc *PaymentUseCase) markResaleSold(ctx context.Context, id string) error {
	item, err := uc.resaleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item.Status == entity.ResaleStatusSold {
		return nil
	}
	now := uc.now()
	item.Status = entity.ResaleStatusSold
	item.SoldAt = &now
	item.UpdatedAt = now
	return uc.resaleRepo.Update(ctx, item)
}

func receiptSubject(o *entity.Order) string {
	if o.IsSubscription {
		return "Your artisan subscription is active"
	}
	return "Payment received for order " + o.OrderID
}

func receiptBody(o *entity.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nWe received your payment of INR %s for order %s.\n\n", o.CustomerName, o.Amount, o.OrderID)
	for _, p := range o.ProductDetails {
		fmt.Fprintf(&b, "- %s x%d  INR %s\n", p.Title, max(p.Quantity, 1), p.Price)
	}
	b.WriteString("\nThank you for supporting independent artisans.\n")
	return b.String()
}

// CancelOrder lets the buyer abandon a pending order.
func (uc *PaymentUseCase) CancelOrder(ctx context.Context, uid, orderID string) (*entity.Order, error) {
	order, err := uc.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != uid {
		return nil, errors.Forbidden("Only the buyer can cancel this order", nil)
	}
	if order.Status != entity.OrderStatusPending {
		return nil, errors.BadRequest("Only pending orders can be cancelled", nil)
	}

	settled, applied, err := uc.orderRepo.Settle(ctx, orderID, entity.Settlement{
		Status: entity.OrderStatusCancelled,
		At:     uc.now(),
	})
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, errors.BadRequest("Only pending orders can be cancelled", nil)
	}
	uc.afterSettle(ctx, settled)
	return settled, nil
}

// PaymentQRCode renders the payment link as a PNG for paying on a phone.
func (uc *PaymentUseCase) PaymentQRCode(ctx context.Context, uid, orderID string) ([]byte, error) {
	order, err := uc.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != uid {
		return nil, errors.Forbidden("You don't have access to this order", nil)
	}
	if order.Status != entity.OrderStatusPending || order.PaymentLink == "" {
		return nil, errors.BadRequest("Order has no open payment link", nil)
	}

	png, err := uc.qr.PNG(order.PaymentLink, 256)
	if err != nil {
		return nil, errors.Internal("Failed to render QR code", err)
	}
	return png, nil
}

// ExpireStaleOrders closes pending orders older than the expiry window. The
// gateway is asked first so a late payment is settled as paid.
func (uc *PaymentUseCase) ExpireStaleOrders(ctx context.Context) (int, error) {
	cutoff := uc.now().Add(-uc.settings.OrderExpiry)
	stale, _, err := uc.orderRepo.List(ctx, entity.OrderFilter{
		Status:        entity.OrderStatusPending,
		CreatedBefore: cutoff,
	})
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, order := range stale {
		res, err := uc.reconcile(ctx, order, "expiry")
		if err != nil {
			logger.LogOrderError(order.OrderID, "expiry_reconcile", err)
			continue
		}
		if res.Order.Status.IsTerminal() {
			continue
		}

		settled, applied, err := uc.orderRepo.Settle(ctx, order.OrderID, entity.Settlement{
			Status: entity.OrderStatusExpired,
			At:     uc.now(),
		})
		if err != nil {
			logger.LogOrderError(order.OrderID, "expire", err)
			continue
		}
		if applied {
			expired++
			uc.afterSettle(ctx, settled)
		}
	}
	return expired, nil
}

// StartExpiryJob blocks until ctx is done.
func (uc *PaymentUseCase) StartExpiryJob(ctx context.Context, interval time.Duration) {
	log := logger.With("job", "order_expiry")
	log.Info("starting order expiry job", "interval", interval.String(), "expiry", uc.settings.OrderExpiry.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("order expiry job stopped")
			return
		case <-ticker.C:
			n, err := uc.ExpireStaleOrders(ctx)
			if err != nil {
				log.Error("expiry run failed", "error", err)
				continue
			}
			if n > 0 {
				log.Info("expired stale orders", "count", n)
			}
		}
	}
}
