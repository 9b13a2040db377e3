package nabdasdk

import "context"

// Plans lists the subscription plans on offer.
func (c *Client) Plans(ctx context.Context) ([]Plan, error) {
	var plans []Plan
	if err := c.Get(ctx, "/api/v1/plans", &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (c *Client) Subscribe(ctx context.Context, planID string) error {
	return c.Post(ctx, "/api/v1/subscriptions/subscribe", map[string]string{"planId": planID}, nil)
}

func (c *Client) StartTrial(ctx context.Context, planID string) error {
	return c.Post(ctx, "/api/v1/subscriptions/trial/start", map[string]string{"planId": planID}, nil)
}

func (c *Client) ExtendTrial(ctx context.Context) error {
	return c.Post(ctx, "/api/v1/subscriptions/trial/extend", nil, nil)
}

// SetAutoRenew toggles renewal of the current subscription.
func (c *Client) SetAutoRenew(ctx context.Context, autoRenew bool) error {
	return c.Patch(ctx, "/api/v1/subscriptions/auto-renew", map[string]bool{"autoRenew": autoRenew}, nil)
}

func (c *Client) Invoices(ctx context.Context) ([]Invoice, error) {
	var invoices []Invoice
	if err := c.Get(ctx, "/api/v1/billing/invoices", &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}
