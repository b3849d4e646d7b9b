package config

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/shopseed/shopseed/pkg/support/exception"
)

// Validate checks every distribution, rate and cap before any generation
// begins. Misconfiguration is fatal; nothing is drawn from an invalid table.
func Validate(cfg *Config) error {
	var result *multierror.Error
	gen := cfg.Shopseed.Generator

	if cfg.Shopseed.Seed == 0 {
		result = multierror.Append(result, fmt.Errorf("seed must be non-zero"))
	}
	if len(cfg.Shopseed.Jobs) == 0 {
		result = multierror.Append(result, fmt.Errorf("jobs list is empty"))
	}

	result = appendDistErrors(result, "customers.country_weights", gen.Customers.CountryWeights)
	if gen.Customers.Count < 1 {
		result = multierror.Append(result, fmt.Errorf("customers.count must be at least 1"))
	}
	if len(gen.Customers.AgeGroups) == 0 {
		result = multierror.Append(result, exception.NewInvalidDistribution(moduleName, "customers.age_groups is empty"))
	}
	for _, g := range gen.Customers.AgeGroups {
		if g.Weight < 0 {
			result = multierror.Append(result, exception.NewInvalidDistribution(moduleName,
				fmt.Sprintf("customers.age_groups [%d,%d] has negative weight", g.MinAge, g.MaxAge)))
		}
		if g.MinAge > g.MaxAge {
			result = multierror.Append(result, fmt.Errorf("customers.age_groups bracket [%d,%d] is inverted", g.MinAge, g.MaxAge))
		}
	}

	result = appendIntDistErrors(result, "orders.per_customer_weights", gen.Orders.PerCustomerWeights)
	if gen.Orders.DeliveredWeight < 0 || gen.Orders.CancelledWeight < 0 ||
		gen.Orders.DeliveredWeight+gen.Orders.CancelledWeight <= 0 {
		result = multierror.Append(result, exception.NewInvalidDistribution(moduleName, "orders status weights must be non-negative with a positive sum"))
	}

	result = appendIntDistErrors(result, "order_items.cart_size_weights", gen.OrderItems.CartSizeWeights)
	result = appendIntDistErrors(result, "order_items.quantity_weights", gen.OrderItems.QuantityWeights)
	for name, w := range gen.OrderItems.CategoryWeights {
		if w < 0 {
			result = multierror.Append(result, exception.NewInvalidDistribution(moduleName,
				fmt.Sprintf("order_items.category_weights['%s'] is negative", name)))
		}
	}

	result = appendPaymentsErrors(result, gen.Payments)
	result = appendReturnsErrors(result, gen.Returns)

	return result.ErrorOrNil()
}

func appendPaymentsErrors(result *multierror.Error, p PaymentsConfig) *multierror.Error {
	if p.GlobalMaxAttempts < 1 {
		result = multierror.Append(result, fmt.Errorf("payments.global_max_attempts must be at least 1"))
	}
	if p.WindowSeconds < 1 {
		result = multierror.Append(result, fmt.Errorf("payments.window_seconds must be at least 1"))
	}
	if p.BatchSize < 1 {
		result = multierror.Append(result, fmt.Errorf("payments.batch_size must be at least 1"))
	}
	result = appendIntDistErrors(result, "payments.attempt_count_weights", p.AttemptCountWeights)

	if len(p.Methods) == 0 {
		result = multierror.Append(result, exception.NewInvalidDistribution(moduleName, "payments.methods is empty"))
		return result
	}
	seen := map[string]bool{}
	totalWeight := 0.0
	for _, m := range p.Methods {
		if m.Code == "" {
			result = multierror.Append(result, fmt.Errorf("payments.methods entry with empty code"))
			continue
		}
		if seen[m.Code] {
			result = multierror.Append(result, fmt.Errorf("payments.methods['%s'] is duplicated", m.Code))
		}
		seen[m.Code] = true
		// Zero is rejected too: a method that can never be drawn would still
		// enter the switch pool and starve the weighted draw.
		if m.Weight <= 0 {
			result = multierror.Append(result, exception.NewInvalidDistribution(moduleName,
				fmt.Sprintf("payments.methods['%s'].weight must be positive", m.Code)))
		}
		totalWeight += m.Weight
		if m.MaxAttempts < 1 {
			result = multierror.Append(result, fmt.Errorf("payments.methods['%s'].max_attempts must be at least 1", m.Code))
		}
		if m.StayWithMethodProb < 0 || m.StayWithMethodProb > 1 {
			result = multierror.Append(result, fmt.Errorf("payments.methods['%s'].stay_with_method_prob must be within [0,1]", m.Code))
		}
		if m.SuccessRate < 0 || m.SuccessRate > 1 {
			result = multierror.Append(result, fmt.Errorf("payments.methods['%s'].success_rate must be within [0,1]", m.Code))
		}
	}
	if totalWeight <= 0 {
		result = multierror.Append(result, exception.NewInvalidDistribution(moduleName, "payments.methods weights must have a positive sum"))
	}
	return result
}

func appendReturnsErrors(result *multierror.Error, r ReturnsConfig) *multierror.Error {
	if r.OrderLevelReturnRate < 0 || r.OrderLevelReturnRate > 1 {
		result = multierror.Append(result, fmt.Errorf("returns.order_level_return_rate must be within [0,1]"))
	}
	for iso, m := range r.CountryMultipliers {
		if m < 0 {
			result = multierror.Append(result, fmt.Errorf("returns.country_multipliers['%s'] is negative", iso))
		}
	}
	for cat, rate := range r.CategoryItemReturnRates {
		if rate < 0 || rate > 1 {
			result = multierror.Append(result, fmt.Errorf("returns.category_item_return_rates['%s'] must be within [0,1]", cat))
		}
	}
	for cat, weights := range r.CategoryReasonWeights {
		result = appendDistErrors(result, fmt.Sprintf("returns.category_reason_weights['%s']", cat), weights)
	}
	if r.ReturnMinDays < 0 || r.ReturnMaxDays < r.ReturnMinDays {
		result = multierror.Append(result, fmt.Errorf("returns day window [%d,%d] is invalid", r.ReturnMinDays, r.ReturnMaxDays))
	}
	if r.MaxItemsPerOrder < 1 {
		result = multierror.Append(result, fmt.Errorf("returns.max_items_per_order must be at least 1"))
	}
	return result
}

func appendDistErrors(result *multierror.Error, name string, weights map[string]float64) *multierror.Error {
	return appendWeightErrors(result, name, len(weights), func(yield func(float64)) {
		for _, w := range weights {
			yield(w)
		}
	})
}

func appendIntDistErrors(result *multierror.Error, name string, weights map[int]float64) *multierror.Error {
	return appendWeightErrors(result, name, len(weights), func(yield func(float64)) {
		for _, w := range weights {
			yield(w)
		}
	})
}

func appendWeightErrors(result *multierror.Error, name string, size int, each func(func(float64))) *multierror.Error {
	if size == 0 {
		return multierror.Append(result, exception.NewInvalidDistribution(moduleName, name+" is empty"))
	}
	total := 0.0
	negative := false
	each(func(w float64) {
		if w < 0 {
			negative = true
		}
		total += w
	})
	if negative {
		result = multierror.Append(result, exception.NewInvalidDistribution(moduleName, name+" contains a negative weight"))
	}
	if total <= 0 {
		result = multierror.Append(result, exception.NewInvalidDistribution(moduleName, name+" weights must have a positive sum"))
	}
	return result
}
