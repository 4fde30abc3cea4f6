package stripe

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
	"github.com/stripe/stripe-go/v74/webhook"

	"shelter/internal/config"
)

// Client wraps the Stripe API client with the webhook signing key and the
// donation-specific operations the services need.
type Client struct {
	api            *client.API
	webhookSignKey string
	productName    string
}

// NewClient creates a new Stripe client from configuration.
func NewClient(cfg config.StripeConfig) *Client {
	var api client.API
	api.Init(cfg.SecretKey, nil)

	return &Client{
		api:            &api,
		webhookSignKey: cfg.WebhookSecret,
		productName:    cfg.MonthlyProductName,
	}
}

// VerifyEvent checks the webhook signature and parses the event payload.
// API version mismatches are ignored so dashboard-replayed events with an
// older pinned version still verify.
func (c *Client) VerifyEvent(payload []byte, signature string) (*stripe.Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, c.webhookSignKey, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, err
	}

	return &event, nil
}

// RetrieveInvoice fetches a full invoice by ID.
func (c *Client) RetrieveInvoice(ctx context.Context, id string) (*stripe.Invoice, error) {
	params := &stripe.InvoiceParams{}
	params.Context = ctx

	return c.api.Invoices.Get(id, params)
}

// RetrievePaymentIntent fetches a payment intent by ID. The latest charge is
// expanded so the receipt can describe the payment method.
func (c *Client) RetrievePaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	params.AddExpand("latest_charge")

	return c.api.PaymentIntents.Get(id, params)
}

// RetrieveCustomer fetches a customer by ID.
func (c *Client) RetrieveCustomer(ctx context.Context, id string) (*stripe.Customer, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx

	return c.api.Customers.Get(id, params)
}

// CreatePaymentIntent creates a payment intent for a one-time donation. The
// metadata keys match what the webhook normalizer reads back.
func (c *Client) CreatePaymentIntent(ctx context.Context, req IntentRequest) (*IntentResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.AmountCents),
		Currency: stripe.String(strings.ToLower(req.Currency)),
	}
	params.Context = ctx
	params.AddMetadata("donor_name", req.DonorName)
	params.AddMetadata("donor_email", req.DonorEmail)
	params.AddMetadata("donation_type", req.DonationType)

	pi, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return nil, err
	}

	return &IntentResult{
		PaymentIntentID: pi.ID,
		ClientSecret:    pi.ClientSecret,
	}, nil
}

// CreateSubscription sets up a monthly donation: find-or-create the customer,
// attach the payment method, find-or-create the monthly product and a price
// for this amount, then create the subscription with the first invoice's
// payment intent expanded so the frontend can confirm it.
func (c *Client) CreateSubscription(ctx context.Context, req SubscriptionRequest) (*SubscriptionResult, error) {
	customer, err := c.findOrCreateCustomer(ctx, req.DonorEmail, req.DonorName)
	if err != nil {
		return nil, fmt.Errorf("customer: %w", err)
	}

	attachParams := &stripe.PaymentMethodAttachParams{
		Customer: stripe.String(customer.ID),
	}
	attachParams.Context = ctx
	if _, err := c.api.PaymentMethods.Attach(req.PaymentMethodID, attachParams); err != nil {
		return nil, fmt.Errorf("attach payment method: %w", err)
	}

	updateParams := &stripe.CustomerParams{
		InvoiceSettings: &stripe.CustomerInvoiceSettingsParams{
			DefaultPaymentMethod: stripe.String(req.PaymentMethodID),
		},
	}
	updateParams.Context = ctx
	if _, err := c.api.Customers.Update(customer.ID, updateParams); err != nil {
		return nil, fmt.Errorf("set default payment method: %w", err)
	}

	price, err := c.findOrCreateMonthlyPrice(ctx, req.AmountCents)
	if err != nil {
		return nil, fmt.Errorf("price: %w", err)
	}

	subParams := &stripe.SubscriptionParams{
		Customer: stripe.String(customer.ID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(price.ID)},
		},
	}
	subParams.Context = ctx
	subParams.AddExpand("latest_invoice.payment_intent")
	subParams.AddMetadata("donor_name", req.DonorName)
	subParams.AddMetadata("donor_email", req.DonorEmail)
	subParams.AddMetadata("donation_type", "monthly")

	sub, err := c.api.Subscriptions.New(subParams)
	if err != nil {
		return nil, fmt.Errorf("subscription: %w", err)
	}

	result := &SubscriptionResult{
		SubscriptionID: sub.ID,
		CustomerID:     customer.ID,
	}
	if sub.LatestInvoice != nil && sub.LatestInvoice.PaymentIntent != nil {
		result.ClientSecret = sub.LatestInvoice.PaymentIntent.ClientSecret
		result.PaymentIntentStatus = string(sub.LatestInvoice.PaymentIntent.Status)
	}

	return result, nil
}

func (c *Client) findOrCreateCustomer(ctx context.Context, email, name string) (*stripe.Customer, error) {
	listParams := &stripe.CustomerListParams{
		Email: stripe.String(email),
	}
	listParams.Context = ctx
	listParams.Limit = stripe.Int64(1)

	iter := c.api.Customers.List(listParams)
	if iter.Next() {
		return iter.Customer(), nil
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	createParams := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	createParams.Context = ctx

	return c.api.Customers.New(createParams)
}

func (c *Client) findOrCreateMonthlyPrice(ctx context.Context, amountCents int64) (*stripe.Price, error) {
	product, err := c.findOrCreateProduct(ctx)
	if err != nil {
		return nil, err
	}

	listParams := &stripe.PriceListParams{
		Product: stripe.String(product.ID),
	}
	listParams.Context = ctx
	listParams.Limit = stripe.Int64(100)

	iter := c.api.Prices.List(listParams)
	for iter.Next() {
		price := iter.Price()
		if price.UnitAmount == amountCents && price.Recurring != nil && price.Recurring.Interval == stripe.PriceRecurringIntervalMonth {
			return price, nil
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	createParams := &stripe.PriceParams{
		UnitAmount: stripe.Int64(amountCents),
		Currency:   stripe.String(string(stripe.CurrencyUSD)),
		Recurring: &stripe.PriceRecurringParams{
			Interval: stripe.String(string(stripe.PriceRecurringIntervalMonth)),
		},
		Product: stripe.String(product.ID),
	}
	createParams.Context = ctx

	return c.api.Prices.New(createParams)
}

func (c *Client) findOrCreateProduct(ctx context.Context) (*stripe.Product, error) {
	listParams := &stripe.ProductListParams{}
	listParams.Context = ctx
	listParams.Limit = stripe.Int64(100)

	iter := c.api.Products.List(listParams)
	for iter.Next() {
		if iter.Product().Name == c.productName {
			return iter.Product(), nil
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	createParams := &stripe.ProductParams{
		Name: stripe.String(c.productName),
	}
	createParams.Context = ctx

	return c.api.Products.New(createParams)
}
