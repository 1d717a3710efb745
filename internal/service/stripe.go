package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"github.com/tzinegf/AG-TUR/internal/repository"
)

var (
	// ErrStripeAPIError wraps failures from the payment provider API.
	ErrStripeAPIError = errors.New("stripe API error")

	// ErrStripeNotConfigured is returned when no secret key is set.
	ErrStripeNotConfigured = errors.New("stripe not configured")
)

// stripeAPIVersion pins the version used for mobile ephemeral keys.
const stripeAPIVersion = "2023-10-16"

// CardPaymentMethod is a stored card as exposed to the mobile client.
type CardPaymentMethod struct {
	ID       string `json:"id"`
	Brand    string `json:"brand"`
	Last4    string `json:"last4"`
	ExpMonth int64  `json:"exp_month,omitempty"`
	ExpYear  int64  `json:"exp_year,omitempty"`
	Funding  string `json:"funding,omitempty"`
}

// SetupIntentResult carries what the mobile Payment Sheet needs.
type SetupIntentResult struct {
	ClientSecret string `json:"clientSecret"`
	EphemeralKey string `json:"ephemeralKey,omitempty"`
	CustomerID   string `json:"customerId"`
}

// PaymentIntentResult carries a created payment intent.
type PaymentIntentResult struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

// StripeService integrates with the Stripe payment gateway and maps
// application users to Stripe customers.
type StripeService struct {
	client       *client.API
	customerRepo repository.StripeCustomerRepository
	profileRepo  repository.ProfileRepository
}

// NewStripeService creates a new StripeService.
func NewStripeService(secretKey string, customerRepo repository.StripeCustomerRepository, profileRepo repository.ProfileRepository) (*StripeService, error) {
	if secretKey == "" {
		return nil, ErrStripeNotConfigured
	}

	return &StripeService{
		client:       client.New(secretKey, nil),
		customerRepo: customerRepo,
		profileRepo:  profileRepo,
	}, nil
}

// EnsureCustomer returns the Stripe customer for a user, creating and
// persisting one on first use.
func (s *StripeService) EnsureCustomer(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", ErrNotAuthenticated
	}

	customerID, err := s.customerRepo.GetCustomerID(ctx, userID)
	if err == nil {
		return customerID, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}

	params := &stripe.CustomerParams{
		Params: stripe.Params{Context: ctx},
	}
	if profile, err := s.profileRepo.GetByID(ctx, userID); err == nil && profile.Email != "" {
		params.Email = stripe.String(profile.Email)
	}

	customer, err := s.client.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStripeAPIError, err)
	}

	if err := s.customerRepo.SaveCustomerID(ctx, userID, customer.ID); err != nil {
		return "", err
	}

	return customer.ID, nil
}

// ListPaymentMethods retrieves the stored cards for a user's customer.
func (s *StripeService) ListPaymentMethods(ctx context.Context, userID string) ([]CardPaymentMethod, error) {
	customerID, err := s.EnsureCustomer(ctx, userID)
	if err != nil {
		return nil, err
	}

	params := &stripe.PaymentMethodListParams{
		Customer: stripe.String(customerID),
		Type:     stripe.String("card"),
	}
	params.Context = ctx

	methods := []CardPaymentMethod{}
	iter := s.client.PaymentMethods.List(params)
	for iter.Next() {
		pm := iter.PaymentMethod()
		if pm.Card == nil {
			continue
		}
		methods = append(methods, CardPaymentMethod{
			ID:       pm.ID,
			Brand:    string(pm.Card.Brand),
			Last4:    pm.Card.Last4,
			ExpMonth: pm.Card.ExpMonth,
			ExpYear:  pm.Card.ExpYear,
			Funding:  string(pm.Card.Funding),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStripeAPIError, err)
	}

	return methods, nil
}

// CreateSetupIntent creates a setup intent and an ephemeral key for the
// mobile Payment Sheet.
func (s *StripeService) CreateSetupIntent(ctx context.Context, userID string) (*SetupIntentResult, error) {
	customerID, err := s.EnsureCustomer(ctx, userID)
	if err != nil {
		return nil, err
	}

	si, err := s.client.SetupIntents.New(&stripe.SetupIntentParams{
		Params:   stripe.Params{Context: ctx},
		Customer: stripe.String(customerID),
		Usage:    stripe.String("on_session"),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStripeAPIError, err)
	}

	result := &SetupIntentResult{
		ClientSecret: si.ClientSecret,
		CustomerID:   customerID,
	}

	// The ephemeral key is optional; the Payment Sheet falls back without it.
	ek, err := s.client.EphemeralKeys.New(&stripe.EphemeralKeyParams{
		Params:        stripe.Params{Context: ctx},
		Customer:      stripe.String(customerID),
		StripeVersion: stripe.String(stripeAPIVersion),
	})
	if err == nil {
		result.EphemeralKey = ek.Secret
	}

	return result, nil
}

// DetachPaymentMethod removes a stored card.
func (s *StripeService) DetachPaymentMethod(ctx context.Context, paymentMethodID string) error {
	if paymentMethodID == "" {
		return ErrInvalidPaymentMethod
	}

	_, err := s.client.PaymentMethods.Detach(paymentMethodID, &stripe.PaymentMethodDetachParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStripeAPIError, err)
	}

	return nil
}

// CreatePaymentIntent creates a payment intent for the given amount in the
// smallest currency unit. The booking ID travels in the intent metadata so
// the webhook can tie provider events back to the booking.
func (s *StripeService) CreatePaymentIntent(ctx context.Context, userID string, amount int64, currency, bookingID string) (*PaymentIntentResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if currency == "" {
		return nil, ErrInvalidCurrency
	}

	customerID, err := s.EnsureCustomer(ctx, userID)
	if err != nil {
		return nil, err
	}

	params := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		Customer: stripe.String(customerID),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if bookingID != "" {
		params.Metadata = map[string]string{"booking_id": bookingID}
	}

	pi, err := s.client.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStripeAPIError, err)
	}

	return &PaymentIntentResult{
		ClientSecret:    pi.ClientSecret,
		PaymentIntentID: pi.ID,
	}, nil
}
