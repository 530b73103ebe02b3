package handler

import (
	"github.com/labstack/echo/v4"

	"artisanmart/internal/usecase"
)

var (
	authHandler         *AuthHandler
	userHandler         *UserHandler
	shopCardHandler     *ShopCardHandler
	auctionHandler      *AuctionHandler
	cartHandler         *CartHandler
	paymentHandler      *PaymentHandler
	orderHandler        *OrderHandler
	subscriptionHandler *SubscriptionHandler
	analyticsHandler    *AnalyticsHandler
	uploadHandler       *UploadHandler
	resaleHandler       *ResaleHandler
	storyHandler        *StoryHandler
)

type UseCases struct {
	Auth         *usecase.AuthUseCase
	User         *usecase.UserUseCase
	ShopCard     *usecase.ShopCardUseCase
	Auction      *usecase.AuctionUseCase
	Cart         *usecase.CartUseCase
	Payment      *usecase.PaymentUseCase
	Order        *usecase.OrderUseCase
	Subscription *usecase.SubscriptionUseCase
	Analytics    *usecase.AnalyticsUseCase
	Upload       *usecase.UploadUseCase
	Resale       *usecase.ResaleUseCase
	Story        *usecase.StoryUseCase
}

func Setup(uc UseCases) {
	authHandler = NewAuthHandler(uc.Auth)
	userHandler = NewUserHandler(uc.User)
	shopCardHandler = NewShopCardHandler(uc.ShopCard)
	auctionHandler = NewAuctionHandler(uc.Auction)
	cartHandler = NewCartHandler(uc.Cart)
	paymentHandler = NewPaymentHandler(uc.Payment)
	orderHandler = NewOrderHandler(uc.Order)
	subscriptionHandler = NewSubscriptionHandler(uc.Subscription)
	analyticsHandler = NewAnalyticsHandler(uc.Analytics)
	uploadHandler = NewUploadHandler(uc.Upload)
	resaleHandler = NewResaleHandler(uc.Resale)
	storyHandler = NewStoryHandler(uc.Story)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetShopCardHandler() *ShopCardHandler {
	return shopCardHandler
}

func GetAuctionHandler() *AuctionHandler {
	return auctionHandler
}

func GetCartHandler() *CartHandler {
	return cartHandler
}

func GetPaymentHandler() *PaymentHandler {
	return paymentHandler
}

func GetOrderHandler() *OrderHandler {
	return orderHandler
}

func GetSubscriptionHandler() *SubscriptionHandler {
	return subscriptionHandler
}

func GetAnalyticsHandler() *AnalyticsHandler {
	return analyticsHandler
}

func GetUploadHandler() *UploadHandler {
	return uploadHandler
}

func GetResaleHandler() *ResaleHandler {
	return resaleHandler
}

func GetStoryHandler() *StoryHandler {
	return storyHandler
}

// currentUID is set by the auth middleware; empty for anonymous requests.
func currentUID(c echo.Context) string {
	uid, _ := c.Get("uid").(string)
	return uid
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}
