package api

import "context"

// FetchData performs a generic authenticated GET against the API.
func (c *Client) FetchData(ctx context.Context, endpoint string, out any) error {
	return c.get(ctx, endpoint, out)
}

// FetchDashboard retrieves the dashboard payload. The shape is owned by the
// server; the client renders what it gets.
func (c *Client) FetchDashboard(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.get(ctx, "/dashboard", &out); err != nil {
		return nil, err
	}
	return out, nil
}
