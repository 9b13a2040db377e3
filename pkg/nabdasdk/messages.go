package nabdasdk

import (
	"context"
	"net/url"
	"strconv"
)

// Messages lists sent messages. Zero fields of q are omitted from the query.
func (c *Client) Messages(ctx context.Context, q MessagesQuery) (*MessagesPage, error) {
	params := url.Values{}
	if q.Status != "" {
		params.Set("status", q.Status)
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	path := "/api/v1/messages"
	if enc := params.Encode(); enc != "" {
		path += "?" + enc
	}

	var page MessagesPage
	if err := c.Get(ctx, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
