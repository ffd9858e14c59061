package services

import (
	"bookstore/internal/core/domain/model/cart"
	"bookstore/internal/core/domain/model/kernel"
	"bookstore/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// PricingRule prices quantity units of a book. A rule that does not apply
// returns the undiscounted price.
type PricingRule interface {
	Apply(unitPrice kernel.Price, quantity int) (kernel.Price, error)
}

// BasePriceRule charges the unit price for every unit.
type BasePriceRule struct{}

func (BasePriceRule) Apply(unitPrice kernel.Price, quantity int) (kernel.Price, error) {
	return unitPrice.Multiply(quantity)
}

// BulkDiscountRule takes Percentage off the line when at least Threshold units are bought.
type BulkDiscountRule struct {
	Threshold  int
	Percentage decimal.Decimal
}

func (r BulkDiscountRule) Apply(unitPrice kernel.Price, quantity int) (kernel.Price, error) {
	base, err := unitPrice.Multiply(quantity)
	if err != nil {
		return kernel.Price{}, err
	}
	if quantity < r.Threshold {
		return base, nil
	}
	return base.ApplyDiscount(r.Percentage)
}

// PricingService estimates prices for display. Orders always capture the plain
// catalogue price; the estimate is never persisted.
//
// Every rule is evaluated against the same base line and the cheapest result
// wins, so tiered bulk rules can be listed in any order.
//
// Example:
//
//	pricing := services.NewPricingService(
//	    services.BulkDiscountRule{Threshold: 5, Percentage: decimal.NewFromInt(10)},
//	    services.BulkDiscountRule{Threshold: 10, Percentage: decimal.NewFromInt(20)},
//	)
//	total, err := pricing.CartTotal(userCart, prices)
type PricingService struct {
	rules []PricingRule
}

// NewPricingService creates a service. BasePriceRule is always in effect.
func NewPricingService(rules ...PricingRule) PricingService {
	all := make([]PricingRule, 0, len(rules)+1)
	all = append(all, BasePriceRule{})
	all = append(all, rules...)
	return PricingService{rules: all}
}

// NewBulkDiscountPricing returns the standard tiers: 10% off from 5 units, 20% off from 10.
func NewBulkDiscountPricing() PricingService {
	return NewPricingService(
		BulkDiscountRule{Threshold: 5, Percentage: decimal.NewFromInt(10)},
		BulkDiscountRule{Threshold: 10, Percentage: decimal.NewFromInt(20)},
	)
}

// LinePrice returns the price of quantity units after the best applicable rule.
func (s PricingService) LinePrice(unitPrice kernel.Price, quantity int) (kernel.Price, error) {
	var best kernel.Price
	for i, rule := range s.rules {
		price, err := rule.Apply(unitPrice, quantity)
		if err != nil {
			return kernel.Price{}, err
		}
		if i == 0 || best.IsGreaterThan(price) {
			best = price
		}
	}
	return best, nil
}

// CartTotal prices every cart line with LinePrice. Every book in the cart must
// have an entry in prices.
func (s PricingService) CartTotal(c *cart.Cart, prices map[kernel.UUID]kernel.Price) (kernel.Price, error) {
	if err := c.Validate(); err != nil {
		return kernel.Price{}, err
	}

	total := kernel.ZeroPrice()
	for _, item := range c.Items() {
		unitPrice, ok := prices[item.BookID()]
		if !ok {
			return kernel.Price{}, errs.NewObjectNotFoundError("book price", item.BookID().String())
		}
		line, err := s.LinePrice(unitPrice, item.Quantity())
		if err != nil {
			return kernel.Price{}, err
		}
		total = total.Add(line)
	}
	return total, nil
}
