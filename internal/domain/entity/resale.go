package entity

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"artisanmart/pkg/money"
)

type ResaleCondition string

const (
	ConditionNew     ResaleCondition = "new"
	ConditionLikeNew ResaleCondition = "like_new"
	ConditionGood    ResaleCondition = "good"
	ConditionFair    ResaleCondition = "fair"
	ConditionPoor    ResaleCondition = "poor"
)

var conditionMultipliers = map[ResaleCondition]decimal.Decimal{
	ConditionNew:     decimal.RequireFromString("0.90"),
	ConditionLikeNew: decimal.RequireFromString("0.80"),
	ConditionGood:    decimal.RequireFromString("0.65"),
	ConditionFair:    decimal.RequireFromString("0.50"),
	ConditionPoor:    decimal.RequireFromString("0.30"),
}

var ErrInvalidCondition = errors.New("invalid condition")

func (c ResaleCondition) Multiplier() (decimal.Decimal, error) {
	m, ok := conditionMultipliers[c]
	if !ok {
		return decimal.Zero, ErrInvalidCondition
	}
	return m, nil
}

// ResalePrice applies the condition multiplier to the original price.
func ResalePrice(original money.Amount, condition ResaleCondition) (money.Amount, error) {
	m, err := condition.Multiplier()
	if err != nil {
		return money.Zero, err
	}
	return original.Scale(m), nil
}

const (
	ResaleStatusAvailable = "available"
	ResaleStatusSold      = "sold"
)

type Resale struct {
	ID            string          `json:"id" firestore:"id"`
	SellerID      string          `json:"sellerId" firestore:"sellerId"`
	SellerName    string          `json:"sellerName" firestore:"sellerName"`
	Title         string          `json:"title" firestore:"title"`
	Description   string          `json:"description" firestore:"description"`
	Category      string          `json:"category" firestore:"category"`
	Images        []string        `json:"images" firestore:"images"`
	OriginalPrice money.Amount    `json:"originalPrice" firestore:"originalPrice"`
	Condition     ResaleCondition `json:"condition" firestore:"condition"`
	Price         money.Amount    `json:"price" firestore:"price"`
	Status        string          `json:"status" firestore:"status"`

	CreatedAt time.Time  `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt" firestore:"updatedAt"`
	SoldAt    *time.Time `json:"soldAt,omitempty" firestore:"soldAt,omitempty"`
}

type ResaleQuote struct {
	OriginalPrice money.Amount    `json:"originalPrice"`
	Condition     ResaleCondition `json:"condition"`
	Multiplier    decimal.Decimal `json:"multiplier"`
	Price         money.Amount    `json:"price"`
}
