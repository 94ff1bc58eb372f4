package ipc

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"

	"resty.dev/v3"
)

// Client talks to a running daemon over its unix socket.
type Client struct {
	rc *resty.Client
	hc *http.Client
}

func NewClient(socket string) *Client {
	return newClient(&http.Client{
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, "unix", socket)
			},
		},
	}, "http://spanwall")
}

func newClient(hc *http.Client, baseURL string) *Client {
	rc := resty.NewWithClient(hc)
	rc.SetBaseURL(baseURL)
	rc.SetHeader("Accept", "application/json")
	rc.SetHeader("User-Agent", "spanwall")
	return &Client{rc: rc, hc: hc}
}

// Close drops the client's kept alive connections to the daemon.
func (c *Client) Close() error {
	c.hc.CloseIdleConnections()
	return c.rc.Close()
}

func (c *Client) do(ctx context.Context, method, path string, result any) error {
	res, err := c.rc.R().SetContext(ctx).Execute(method, path)
	if err != nil {
		return fmt.Errorf("Error contacting spanwall daemon: %w", err)
	}

	body := res.Bytes()
	if res.StatusCode() != http.StatusOK {
		errRes := ErrorResponse{}
		if json.Unmarshal(body, &errRes) == nil && errRes.Error != "" {
			return fmt.Errorf("spanwall daemon: %s", errRes.Error)
		}
		return fmt.Errorf("spanwall daemon: %s", res.Status())
	}

	if err = json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("Invalid response from spanwall daemon: %w", err)
	}
	return nil
}

func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	out := &StatusResponse{}
	if err := c.do(ctx, http.MethodGet, "/status", out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Monitors(ctx context.Context) ([]MonitorResponse, error) {
	out := []MonitorResponse{}
	if err := c.do(ctx, http.MethodGet, "/monitors", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Apply(ctx context.Context) (*ApplyResponse, error) {
	out := &ApplyResponse{}
	if err := c.do(ctx, http.MethodPost, "/apply", out); err != nil {
		return nil, err
	}
	return out, nil
}
