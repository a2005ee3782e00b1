package billing

import (
	"context"
	"strconv"
	"strings"

	"github.com/diewo77/go-growth/internal/models"
	"github.com/diewo77/go-growth/internal/policy"
	"gorm.io/gorm"
)

// Service starts checkouts and records them as pending subscriptions.
type Service struct {
	db       *gorm.DB
	prices   PriceTable
	provider Provider
	baseURL  string
}

func NewService(db *gorm.DB, prices PriceTable, provider Provider, baseURL string) *Service {
	return &Service{db: db, prices: prices, provider: provider, baseURL: baseURL}
}

// Checkout resolves the price for plan and locale, creates a provider
// session and stores a pending Subscription for user.
func (s *Service) Checkout(ctx context.Context, user *models.User, plan, locale string) (*models.Subscription, CheckoutSession, error) {
	priceID, resolved, err := s.prices.Lookup(plan, locale)
	if err != nil {
		return nil, CheckoutSession{}, err
	}
	sess, err := s.provider.CreateCheckout(ctx, CheckoutRequest{
		PriceID:       priceID,
		Locale:        resolved,
		CustomerEmail: user.Email,
		ReferenceID:   strconv.FormatUint(uint64(user.ID), 10),
		SuccessURL:    s.baseURL + "/dashboard?checkout=success",
		CancelURL:     s.baseURL + "/dashboard?checkout=cancel",
	})
	if err != nil {
		return nil, CheckoutSession{}, err
	}
	sub := &models.Subscription{
		Plan:              strings.ToLower(strings.TrimSpace(plan)),
		Locale:            resolved,
		PriceID:           priceID,
		CheckoutSessionID: sess.ID,
		Status:            models.SubscriptionPending,
	}
	if err := policy.Subscriptions.Create(ctx, s.db, sub, user.ID); err != nil {
		return nil, CheckoutSession{}, err
	}
	return sub, sess, nil
}
