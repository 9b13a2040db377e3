package nabdasdk

import "context"

// WhatsApp link management for the selected instance. The protocol itself is
// handled by the backend.

func (c *Client) WhatsAppConnect(ctx context.Context) error {
	return c.Post(ctx, "/api/v1/whatsapp/connect", nil, nil)
}

func (c *Client) WhatsAppQR(ctx context.Context) (*WhatsAppQR, error) {
	var qr WhatsAppQR
	if err := c.Get(ctx, "/api/v1/whatsapp/qr", &qr); err != nil {
		return nil, err
	}
	return &qr, nil
}

func (c *Client) WhatsAppStatus(ctx context.Context) (*WhatsAppStatus, error) {
	var st WhatsAppStatus
	if err := c.Get(ctx, "/api/v1/whatsapp/status", &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *Client) WhatsAppDisconnect(ctx context.Context) error {
	return c.Post(ctx, "/api/v1/whatsapp/disconnect", nil, nil)
}

func (c *Client) WhatsAppRestart(ctx context.Context) error {
	return c.Post(ctx, "/api/v1/whatsapp/restart", nil, nil)
}

func (c *Client) WhatsAppHealth(ctx context.Context) (*HealthStatus, error) {
	var h HealthStatus
	if err := c.Get(ctx, "/api/v1/whatsapp/health", &h); err != nil {
		return nil, err
	}
	return &h, nil
}
