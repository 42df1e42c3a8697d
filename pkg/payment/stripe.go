package payment

import (
	"context"
	"fmt"
	"strings"

	"postboard/pkg/config"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StatusPaid is the only payment status that unlocks a post.
const StatusPaid = "paid"

type CheckoutRequest struct {
	PostID      string
	BuyerID     string
	Title       string
	AmountMinor int64
}

// Session mirrors a checkout session. PostID and BuyerID come back from the
// metadata written at creation time.
type Session struct {
	ID            string
	URL           string
	PaymentStatus string
	PostID        string
	BuyerID       string
}

type StripeClient struct {
	api       *client.API
	currency  string
	clientURL string
}

func NewStripeClient(cfg *config.Config) *StripeClient {
	api := &client.API{}
	api.Init(cfg.StripeSecretKey, nil)
	return NewStripeClientWithAPI(api, cfg.StripeCurrency, cfg.ClientURL)
}

// NewStripeClientWithAPI wraps a preconfigured API client, e.g. one pointed at stripe-mock.
func NewStripeClientWithAPI(api *client.API, currency, clientURL string) *StripeClient {
	return &StripeClient{
		api:       api,
		currency:  currency,
		clientURL: strings.TrimSuffix(clientURL, "/"),
	}
}

// CheckoutParams builds a one-item checkout for a single post purchase.
func (s *StripeClient) CheckoutParams(req CheckoutRequest) *stripe.CheckoutSessionParams {
	name := req.Title
	if name == "" {
		name = "Post " + req.PostID
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(s.currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(name),
					},
					UnitAmount: stripe.Int64(req.AmountMinor),
				},
				Quantity: stripe.Int64(1),
			},
		},
		ClientReferenceID: stripe.String(req.BuyerID),
		SuccessURL:        stripe.String(fmt.Sprintf("%s/payment/success?session_id={CHECKOUT_SESSION_ID}&postId=%s", s.clientURL, req.PostID)),
		CancelURL:         stripe.String(fmt.Sprintf("%s/payment/cancel?postId=%s", s.clientURL, req.PostID)),
	}
	params.AddMetadata("postId", req.PostID)
	params.AddMetadata("userId", req.BuyerID)
	return params
}

func (s *StripeClient) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*Session, error) {
	params := s.CheckoutParams(req)
	params.Context = ctx

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}
	return toSession(sess), nil
}

func (s *StripeClient) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := s.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve checkout session: %w", err)
	}
	return toSession(sess), nil
}

func toSession(s *stripe.CheckoutSession) *Session {
	buyerID := s.Metadata["userId"]
	if buyerID == "" {
		buyerID = s.ClientReferenceID
	}
	return &Session{
		ID:            s.ID,
		URL:           s.URL,
		PaymentStatus: string(s.PaymentStatus),
		PostID:        s.Metadata["postId"],
		BuyerID:       buyerID,
	}
}
