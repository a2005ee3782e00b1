// Package billing maps plans to provider prices and starts hosted checkouts.
package billing

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownPlan = errors.New("unknown plan")

// DefaultLocale is used when a checkout names no locale or an unsupported one.
const DefaultLocale = "pt"

// Plans offered for subscription.
var Plans = []string{"starter", "pro", "business"}

// PriceTable resolves a {plan, locale} pair to a provider price id.
type PriceTable map[string]string

func key(plan, locale string) string { return plan + ":" + locale }

// NewPriceTable builds a table from "plan:locale" keyed overrides.
func NewPriceTable(entries map[string]string) PriceTable {
	t := make(PriceTable, len(entries))
	for k, v := range entries {
		t[strings.ToLower(k)] = v
	}
	return t
}

// Lookup returns the price for plan in locale, falling back to DefaultLocale.
func (t PriceTable) Lookup(plan, locale string) (priceID, resolvedLocale string, err error) {
	plan = strings.ToLower(strings.TrimSpace(plan))
	locale = strings.ToLower(strings.TrimSpace(locale))
	if locale == "" {
		locale = DefaultLocale
	}
	if id, ok := t[key(plan, locale)]; ok {
		return id, locale, nil
	}
	if id, ok := t[key(plan, DefaultLocale)]; ok {
		return id, DefaultLocale, nil
	}
	return "", "", fmt.Errorf("%w: %q", ErrUnknownPlan, plan)
}
