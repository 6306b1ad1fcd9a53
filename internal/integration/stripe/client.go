package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the payment provider's REST API. Only the handful of
// operations this service needs are wrapped; everything else happens in the
// provider's hosted billing portal.
type Client struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

// NewClient creates a payment provider client
func NewClient(secretKey, baseURL string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateCustomer creates a customer record at the provider and returns its id
func (c *Client) CreateCustomer(ctx context.Context, email, name string) (string, error) {
	form := url.Values{}
	form.Set("email", email)
	if name != "" {
		form.Set("name", name)
	}

	var resp customerResponse
	if err := c.post(ctx, "/customers", form, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// FindCustomerByEmail returns the id of the first customer with the given
// email, or empty string when none exists.
func (c *Client) FindCustomerByEmail(ctx context.Context, email string) (string, error) {
	endpoint := fmt.Sprintf("%s/customers?email=%s&limit=1", c.baseURL, url.QueryEscape(email))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	httpResp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("payment provider request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return "", fmt.Errorf("payment provider returned status %d", httpResp.StatusCode)
	}

	var resp customerListResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return "", fmt.Errorf("decode payment provider response: %w", err)
	}
	if len(resp.Data) == 0 {
		return "", nil
	}
	return resp.Data[0].ID, nil
}

// CreateBillingPortalSession opens a hosted billing portal session for the
// customer and returns its URL.
func (c *Client) CreateBillingPortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	form := url.Values{}
	form.Set("customer", customerID)
	form.Set("return_url", returnURL)

	var resp portalSessionResponse
	if err := c.post(ctx, "/billing_portal/sessions", form, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

// GetSubscription retrieves one subscription record from the provider
func (c *Client) GetSubscription(ctx context.Context, subscriptionID string) (*SubscriptionInfo, error) {
	endpoint := fmt.Sprintf("%s/subscriptions/%s", c.baseURL, url.PathEscape(subscriptionID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment provider request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, fmt.Errorf("payment provider returned status %d", httpResp.StatusCode)
	}

	var resp subscriptionResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode payment provider response: %w", err)
	}

	info := &SubscriptionInfo{
		ID:                resp.ID,
		CustomerID:        resp.Customer,
		Status:            resp.Status,
		PlanID:            resp.Plan.ID,
		CancelAtPeriodEnd: resp.CancelAtPeriodEnd,
	}
	if resp.CurrentPeriodStart > 0 {
		t := time.Unix(resp.CurrentPeriodStart, 0).UTC()
		info.CurrentPeriodStart = &t
	}
	if resp.CurrentPeriodEnd > 0 {
		t := time.Unix(resp.CurrentPeriodEnd, 0).UTC()
		info.CurrentPeriodEnd = &t
	}
	return info, nil
}

func (c *Client) post(ctx context.Context, path string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("payment provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("payment provider returned status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode payment provider response: %w", err)
		}
	}
	return nil
}
