package stripe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCustomer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/customers", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "jane@example.com", r.PostForm.Get("email"))
		assert.Equal(t, "Jane", r.PostForm.Get("name"))

		json.NewEncoder(w).Encode(map[string]string{"id": "cus_abc", "email": "jane@example.com"})
	}))
	defer server.Close()

	client := NewClient("sk_test", server.URL)
	id, err := client.CreateCustomer(context.Background(), "jane@example.com", "Jane")

	require.NoError(t, err)
	assert.Equal(t, "cus_abc", id)
}

func TestFindCustomerByEmail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "jane@example.com", r.URL.Query().Get("email"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]string{{"id": "cus_abc"}},
		})
	}))
	defer server.Close()

	client := NewClient("sk_test", server.URL)
	id, err := client.FindCustomerByEmail(context.Background(), "jane@example.com")

	require.NoError(t, err)
	assert.Equal(t, "cus_abc", id)
}

func TestFindCustomerByEmailNoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"data": []interface{}{}})
	}))
	defer server.Close()

	client := NewClient("sk_test", server.URL)
	id, err := client.FindCustomerByEmail(context.Background(), "nobody@example.com")

	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestCreateBillingPortalSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/billing_portal/sessions", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "cus_abc", r.PostForm.Get("customer"))
		assert.Equal(t, "https://app.example.com/settings", r.PostForm.Get("return_url"))

		json.NewEncoder(w).Encode(map[string]string{
			"id":  "bps_1",
			"url": "https://billing.example.com/session/bps_1",
		})
	}))
	defer server.Close()

	client := NewClient("sk_test", server.URL)
	url, err := client.CreateBillingPortalSession(context.Background(), "cus_abc", "https://app.example.com/settings")

	require.NoError(t, err)
	assert.Equal(t, "https://billing.example.com/session/bps_1", url)
}

func TestGetSubscription(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subscriptions/sub_1", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":                   "sub_1",
			"customer":             "cus_abc",
			"status":               "active",
			"cancel_at_period_end": true,
			"current_period_start": 1735689600,
			"current_period_end":   1738368000,
			"plan":                 map[string]string{"id": "plan_pro"},
		})
	}))
	defer server.Close()

	client := NewClient("sk_test", server.URL)
	info, err := client.GetSubscription(context.Background(), "sub_1")

	require.NoError(t, err)
	assert.Equal(t, "cus_abc", info.CustomerID)
	assert.Equal(t, "active", info.Status)
	assert.Equal(t, "plan_pro", info.PlanID)
	assert.True(t, info.CancelAtPeriodEnd)
	require.NotNil(t, info.CurrentPeriodStart)
	assert.True(t, info.CurrentPeriodEnd.After(*info.CurrentPeriodStart))
}

func TestProviderErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient("sk_bad", server.URL)
	_, err := client.CreateCustomer(context.Background(), "jane@example.com", "Jane")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
