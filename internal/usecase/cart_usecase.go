package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"artisanmart/internal/domain/entity"
	"artisanmart/internal/domain/repository"
	"artisanmart/pkg/errors"
	"artisanmart/pkg/logger"
	"artisanmart/pkg/money"
)

type CartUseCase struct {
	cartRepo     repository.CartRepository
	shopCardRepo repository.ShopCardRepository
	payments     *PaymentUseCase
	now          func() time.Time
}

func NewCartUseCase(cartRepo repository.CartRepository, shopCardRepo repository.ShopCardRepository, payments *PaymentUseCase) *CartUseCase {
	return &CartUseCase{
		cartRepo:     cartRepo,
		shopCardRepo: shopCardRepo,
		payments:     payments,
		now:          time.Now,
	}
}

type CheckoutInput struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
}

// GetCart joins the stored lines with live product data.
func (uc *CartUseCase) GetCart(ctx context.Context, uid string) (*entity.CartView, error) {
	cart, err := uc.cartRepo.Get(ctx, uid)
	if err != nil {
		return nil, err
	}

	view := &entity.CartView{Items: make([]entity.CartLine, 0, len(cart.Items))}
	for _, item := range cart.Items {
		line := entity.CartLine{ProductID: item.ProductID, Quantity: item.Quantity}

		card, err := uc.shopCardRepo.GetByID(ctx, item.ProductID)
		if err != nil && !errors.IsNotFound(err) {
			return nil, err
		}
		if err == nil && card.DeletedAt == nil {
			line.Product = card
			line.Available = card.IsPurchasable() && card.Stock >= item.Quantity
			line.Subtotal = card.Price.Mul(item.Quantity)
		}

		if line.Available {
			view.Total += line.Subtotal
		}
		view.ItemCount += item.Quantity
		view.Items = append(view.Items, line)
	}
	return view, nil
}

func (uc *CartUseCase) AddItem(ctx context.Context, uid, productID string, quantity int) (*entity.CartView, error) {
	if quantity <= 0 {
		return nil, errors.BadRequest("quantity must be greater than 0", nil)
	}

	card, err := uc.shopCardRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("Product", err)
		}
		return nil, err
	}
	if card.SellerID == uid {
		return nil, errors.BadRequest("You cannot add your own product to the cart", nil)
	}
	if !card.IsPurchasable() {
		return nil, errors.BadRequest("Product is not available", nil)
	}

	cart, err := uc.cartRepo.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	cart.Upsert(productID, quantity, now)

	for _, item := range cart.Items {
		if item.ProductID == productID && item.Quantity > card.Stock {
			return nil, errors.BadRequest("Not enough stock available", nil)
		}
	}

	cart.UpdatedAt = now
	if err := uc.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return uc.GetCart(ctx, uid)
}

func (uc *CartUseCase) UpdateItem(ctx context.Context, uid, productID string, quantity int) (*entity.CartView, error) {
	cart, err := uc.cartRepo.Get(ctx, uid)
	if err != nil {
		return nil, err
	}

	if quantity > 0 {
		card, err := uc.shopCardRepo.GetByID(ctx, productID)
		if err == nil && quantity > card.Stock {
			return nil, errors.BadRequest("Not enough stock available", nil)
		}
	}

	if !cart.SetQuantity(productID, quantity) {
		return nil, errors.NotFound("Cart item", nil)
	}
	cart.UpdatedAt = uc.now()
	if err := uc.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return uc.GetCart(ctx, uid)
}

func (uc *CartUseCase) RemoveItem(ctx context.Context, uid, productID string) (*entity.CartView, error) {
	return uc.UpdateItem(ctx, uid, productID, 0)
}

func (uc *CartUseCase) ClearCart(ctx context.Context, uid string) error {
	return uc.cartRepo.Clear(ctx, uid)
}

// Checkout opens one payment order per seller. The cart is only cleared once
// every order has been created.
func (uc *CartUseCase) Checkout(ctx context.Context, uid string, input CheckoutInput) ([]*CreateOrderResult, error) {
	view, err := uc.GetCart(ctx, uid)
	if err != nil {
		return nil, err
	}
	if len(view.Items) == 0 {
		return nil, errors.BadRequest("Cart is empty", nil)
	}

	for _, line := range view.Items {
		if !line.Available {
			return nil, errors.BadRequest("Some items in your cart are no longer available", nil)
		}
	}

	bySeller := lo.GroupBy(view.Items, func(l entity.CartLine) string { return l.Product.SellerID })
	sellers := lo.Keys(bySeller)
	sort.Strings(sellers)

	results := make([]*CreateOrderResult, len(sellers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, sellerID := range sellers {
		i, sellerID := i, sellerID
		lines := bySeller[sellerID]
		g.Go(func() error {
			snapshots := lo.Map(lines, func(l entity.CartLine, _ int) entity.ProductSnapshot {
				return entity.ProductSnapshot{
					ProductID: l.ProductID,
					Title:     l.Product.Title,
					Price:     l.Product.Price,
					Quantity:  l.Quantity,
					Image:     l.Product.CoverImage(),
					Kind:      entity.ProductKindShopCard,
				}
			})
			amount := money.Sum(lo.Map(lines, func(l entity.CartLine, _ int) money.Amount { return l.Subtotal })...)

			res, err := uc.payments.CreateOrder(gctx, uid, CreateOrderInput{
				CustomerName:   input.CustomerName,
				CustomerEmail:  input.CustomerEmail,
				CustomerPhone:  input.CustomerPhone,
				Amount:         amount,
				SellerID:       sellerID,
				ProductDetails: snapshots,
			})
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := uc.cartRepo.Clear(ctx, uid); err != nil {
		logger.Warn("Checkout for %s succeeded but clearing the cart failed: %v", uid, err)
	}
	return results, nil
}
