package stripe

import "time"

// SubscriptionInfo is the subset of the provider's subscription record this
// service cares about.
type SubscriptionInfo struct {
	ID                 string
	CustomerID         string
	Status             string
	PlanID             string
	CancelAtPeriodEnd  bool
	CurrentPeriodStart *time.Time
	CurrentPeriodEnd   *time.Time
}

type customerResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type customerListResponse struct {
	Data []customerResponse `json:"data"`
}

type portalSessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type subscriptionResponse struct {
	ID                 string `json:"id"`
	Customer           string `json:"customer"`
	Status             string `json:"status"`
	CancelAtPeriodEnd  bool   `json:"cancel_at_period_end"`
	CurrentPeriodStart int64  `json:"current_period_start"`
	CurrentPeriodEnd   int64  `json:"current_period_end"`
	Plan               struct {
		ID string `json:"id"`
	} `json:"plan"`
}
