package module

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/Azure/aace/pkg/config"
	"github.com/Azure/aace/pkg/models"
)

// ControlPlaneClient talks to a publisher's control plane with the agent's
// identity.
type ControlPlaneClient struct {
	client  *http.Client
	baseUrl string
}

func NewControlPlaneClient(baseUrl string) *ControlPlaneClient {
	return &ControlPlaneClient{
		client:  &http.Client{Timeout: config.HTTPTIMEOUT},
		baseUrl: baseUrl,
	}
}

func (c *ControlPlaneClient) do(ctx context.Context, method, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseUrl+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("x-agent-id", config.ConfigGlobal.AgentId)
	req.Header.Set("x-agent-key", config.ConfigGlobal.AgentKey)
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("control plane %s %s: status %d, %s", method, path, resp.StatusCode, string(data))
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// GetProjectFileUrl signed download url for a version's project bundle.
func (c *ControlPlaneClient) GetProjectFileUrl(ctx context.Context, subscriptionId, versionName string) (string, error) {
	var resp struct {
		Url string `json:"url"`
	}
	path := fmt.Sprintf("/api/projectFileUrl?subscriptionId=%s&versionName=%s",
		url.QueryEscape(subscriptionId), url.QueryEscape(versionName))
	if err := c.do(ctx, http.MethodGet, path, &resp); err != nil {
		return "", err
	}
	return resp.Url, nil
}

// ListSubscriptions all subscriptions this agent serves for the publisher.
func (c *ControlPlaneClient) ListSubscriptions(ctx context.Context) ([]*models.Subscription, error) {
	var subscriptions []*models.Subscription
	if err := c.do(ctx, http.MethodGet, "/api/subscriptions", &subscriptions); err != nil {
		return nil, err
	}
	return subscriptions, nil
}
