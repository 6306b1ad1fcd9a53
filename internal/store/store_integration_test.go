//go:build integration

package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"outreach-service/internal/model"
	"outreach-service/pkg/config"
	"outreach-service/pkg/database"
	"outreach-service/prometheus"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testStore connects to the test database or skips the test when none is
// reachable.
func testStore(t *testing.T) *Store {
	t.Helper()

	prometheus.InitMetrics(&config.Config{})

	cfg := &config.DBConfig{
		Host:            getTestEnv("TEST_DB_HOST", "localhost"),
		Port:            getTestEnv("TEST_DB_PORT", "5432"),
		User:            getTestEnv("TEST_DB_USER", "postgres"),
		Password:        getTestEnv("TEST_DB_PASSWORD", "postgres"),
		DBName:          getTestEnv("TEST_DB_NAME", "outreach_test"),
		SSLMode:         getTestEnv("TEST_DB_SSLMODE", "disable"),
		MaxIdleConns:    2,
		MaxOpenConns:    5,
		ConnMaxLifetime: time.Minute,
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		t.Skipf("Skipping integration test: cannot connect to database: %v", err)
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil || sqlDB.Ping() != nil {
		t.Skipf("Skipping integration test: cannot ping database")
		return nil
	}
	if err := database.MigrateModels(model.All()...); err != nil {
		t.Fatalf("migrations failed: %v", err)
	}

	return New(db)
}

// seedUser creates a user with a unique email for this test run
func seedUser(t *testing.T, s *Store) *model.User {
	t.Helper()
	user := &model.User{
		Email:    fmt.Sprintf("test-%s@example.com", uuid.New().String()),
		Password: "hashed",
		Name:     "Test User",
	}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func seedListWithCompanies(t *testing.T, s *Store, userID string, n int) *model.CompanyList {
	t.Helper()
	companies := make([]model.Company, n)
	for i := range companies {
		companies[i] = model.Company{Name: fmt.Sprintf("Company %d", i+1)}
	}
	list, err := s.CreateListWithCompanies(context.Background(), userID, "Import "+uuid.New().String(), nil, companies)
	require.NoError(t, err)
	return list
}

func TestCreateListWithCompaniesShape(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	user := seedUser(t, s)

	list := seedListWithCompanies(t, s, user.ID, 3)

	assert.Equal(t, 3, list.TotalCompanies)
	require.Len(t, list.Companies, 3)
	for _, c := range list.Companies {
		assert.Equal(t, user.ID, c.UserID)
		require.NotNil(t, c.ListID)
		assert.Equal(t, list.ID, *c.ListID)
	}

	loaded, err := s.FindListByID(ctx, user.ID, list.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 3)

	positions := map[int]bool{}
	for _, item := range loaded.Items {
		require.NotNil(t, item.Position)
		positions[*item.Position] = true
	}
	assert.Equal(t, map[int]bool{1: true, 2: true, 3: true}, positions)
}

func TestCreateListWithCompaniesRollsBackOnFailure(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	user := seedUser(t, s)

	// Two companies sharing a preset id make the bulk insert fail mid-transaction
	dupID := uuid.New().String()
	companies := []model.Company{
		{ID: dupID, Name: "First"},
		{ID: dupID, Name: "Second"},
	}

	_, err := s.CreateListWithCompanies(ctx, user.ID, "Doomed Import "+uuid.New().String(), nil, companies)
	assert.ErrorIs(t, err, ErrDuplicate)

	// Nothing from the failed import survives: no list, no companies
	lists, err := s.ListLists(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, lists)

	remaining, err := s.ListCompanies(ctx, user.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestListMembershipPairIsUnique(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	user := seedUser(t, s)
	list := seedListWithCompanies(t, s, user.ID, 1)
	companyID := list.Companies[0].ID

	_, err := s.AddCompanyToList(ctx, list.ID, companyID)
	assert.ErrorIs(t, err, ErrDuplicate)

	// The counter must not have moved on the failed insert
	loaded, err := s.FindListByID(ctx, user.ID, list.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.TotalCompanies)
}

func TestUsageQuotaCeiling(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	user := seedUser(t, s)
	periodStart, periodEnd := DayPeriod(time.Now())

	limit := 3
	for i := 1; i <= limit; i++ {
		value, err := s.IncrementUsage(ctx, user.ID, model.MetricAIGenerations, periodStart, periodEnd, limit)
		require.NoError(t, err)
		assert.Equal(t, i, value)
	}

	_, err := s.IncrementUsage(ctx, user.ID, model.MetricAIGenerations, periodStart, periodEnd, limit)
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	// The rejected increment must have been rolled back
	value, err := s.CurrentUsage(ctx, user.ID, model.MetricAIGenerations, periodStart)
	require.NoError(t, err)
	assert.Equal(t, limit, value)
}

func TestUsagePeriodsAreIndependent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	user := seedUser(t, s)

	todayStart, todayEnd := DayPeriod(time.Now())
	yesterdayStart, yesterdayEnd := DayPeriod(time.Now().Add(-24 * time.Hour))

	_, err := s.IncrementUsage(ctx, user.ID, model.MetricEmailSends, todayStart, todayEnd, 0)
	require.NoError(t, err)
	_, err = s.IncrementUsage(ctx, user.ID, model.MetricEmailSends, yesterdayStart, yesterdayEnd, 0)
	require.NoError(t, err)

	today, err := s.CurrentUsage(ctx, user.ID, model.MetricEmailSends, todayStart)
	require.NoError(t, err)
	assert.Equal(t, 1, today)
}

func TestCampaignRequiresOwnList(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	owner := seedUser(t, s)
	intruder := seedUser(t, s)
	list := seedListWithCompanies(t, s, owner.ID, 1)

	err := s.CreateCampaign(ctx, &model.Campaign{
		UserID:       intruder.ID,
		ListID:       list.ID,
		Name:         "Poach",
		CampaignType: model.CampaignTypeEmail,
	})
	assert.ErrorIs(t, err, ErrOwnershipMismatch)
}

func TestCampaignLifecycle(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	user := seedUser(t, s)
	list := seedListWithCompanies(t, s, user.ID, 1)

	campaign := &model.Campaign{
		UserID:       user.ID,
		ListID:       list.ID,
		Name:         "Q1 outreach",
		CampaignType: model.CampaignTypeEmail,
	}
	require.NoError(t, s.CreateCampaign(ctx, campaign))
	assert.Equal(t, model.CampaignStatusDraft, campaign.Status)

	// Draft cannot jump straight to completed
	_, err := s.UpdateCampaignStatus(ctx, user.ID, campaign.ID, model.CampaignStatusCompleted)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	activated, err := s.UpdateCampaignStatus(ctx, user.ID, campaign.ID, model.CampaignStatusActive)
	require.NoError(t, err)
	require.NotNil(t, activated.StartedAt)
	firstStart := *activated.StartedAt

	paused, err := s.UpdateCampaignStatus(ctx, user.ID, campaign.ID, model.CampaignStatusPaused)
	require.NoError(t, err)
	assert.Equal(t, model.CampaignStatusPaused, paused.Status)

	// Re-activation keeps the original start stamp
	reactivated, err := s.UpdateCampaignStatus(ctx, user.ID, campaign.ID, model.CampaignStatusActive)
	require.NoError(t, err)
	require.NotNil(t, reactivated.StartedAt)
	assert.WithinDuration(t, firstStart, *reactivated.StartedAt, time.Second)

	completed, err := s.UpdateCampaignStatus(ctx, user.ID, campaign.ID, model.CampaignStatusCompleted)
	require.NoError(t, err)
	require.NotNil(t, completed.CompletedAt)

	_, err = s.UpdateCampaignStatus(ctx, user.ID, campaign.ID, model.CampaignStatusActive)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestListDeletionRestrictedByCampaign(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	user := seedUser(t, s)
	list := seedListWithCompanies(t, s, user.ID, 1)

	require.NoError(t, s.CreateCampaign(ctx, &model.Campaign{
		UserID:       user.ID,
		ListID:       list.ID,
		Name:         "Holds the list",
		CampaignType: model.CampaignTypeForm,
	}))

	err := s.DeleteList(ctx, user.ID, list.ID)
	assert.ErrorIs(t, err, ErrForeignKey)
}

func TestActivityProgressionStamps(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	user := seedUser(t, s)
	list := seedListWithCompanies(t, s, user.ID, 1)
	companyID := list.Companies[0].ID

	campaign := &model.Campaign{
		UserID:       user.ID,
		ListID:       list.ID,
		Name:         "Activity test",
		CampaignType: model.CampaignTypeEmail,
	}
	require.NoError(t, s.CreateCampaign(ctx, campaign))

	activity := &model.SalesActivity{
		CampaignID:   campaign.ID,
		CompanyID:    companyID,
		ActivityType: model.ActivityTypeEmail,
		Channel:      "email",
	}
	email := &model.EmailActivity{
		ToEmail:   "prospect@example.com",
		FromEmail: "sales@example.com",
		Subject:   "Hello",
		Content:   "Intro",
	}
	require.NoError(t, s.CreateActivity(ctx, activity, email, nil))
	assert.Equal(t, model.ActivityStatusPending, activity.Status)
	require.NotNil(t, email.TrackingID)

	// Steps cannot be skipped
	_, err := s.UpdateActivityStatus(ctx, activity.ID, model.ActivityStatusDelivered)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = s.UpdateActivityStatus(ctx, activity.ID, model.ActivityStatusProcessing)
	require.NoError(t, err)

	sent, err := s.UpdateActivityStatus(ctx, activity.ID, model.ActivityStatusSent)
	require.NoError(t, err)
	require.NotNil(t, sent.ExecutedAt)

	// Sending stamps the company's last-contacted mark
	company, err := s.FindCompanyByID(ctx, user.ID, companyID)
	require.NoError(t, err)
	require.NotNil(t, company.LastContactedAt)

	// Tracking events land on the email detail row
	require.NoError(t, s.MarkEmailEvent(ctx, *email.TrackingID, "opened_at", time.Now().UTC()))
	assert.ErrorIs(t, s.MarkEmailEvent(ctx, "trk_missing", "opened_at", time.Now().UTC()), ErrNotFound)
	assert.ErrorIs(t, s.MarkEmailEvent(ctx, *email.TrackingID, "password", time.Now().UTC()), ErrInvalidValue)
}

func TestActivityRequiresLiveParents(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	user := seedUser(t, s)
	list := seedListWithCompanies(t, s, user.ID, 1)

	err := s.CreateActivity(ctx, &model.SalesActivity{
		CampaignID:   uuid.New().String(),
		CompanyID:    list.Companies[0].ID,
		ActivityType: model.ActivityTypeNote,
		Channel:      "manual",
	}, nil, nil)
	assert.ErrorIs(t, err, ErrForeignKey)
}

func TestSubscriptionWebhookUpdateIsIdempotent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	user := seedUser(t, s)

	customerID := "cus_" + uuid.New().String()
	require.NoError(t, s.CreateSubscription(ctx, &model.Subscription{
		UserID:           user.ID,
		StripeCustomerID: customerID,
		PlanID:           "plan_pro",
		Status:           model.SubscriptionStatusTrialing,
	}))

	rows, err := s.UpdateSubscriptionStatus(ctx, customerID, model.SubscriptionStatusActive)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	// Redelivery applies the same value again without error
	rows, err = s.UpdateSubscriptionStatus(ctx, customerID, model.SubscriptionStatusActive)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	sub, err := s.FindSubscriptionByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionStatusActive, sub.Status)

	// Unknown customer updates nothing
	rows, err = s.UpdateSubscriptionStatus(ctx, "cus_ghost_"+uuid.New().String(), model.SubscriptionStatusCanceled)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)

	// A value outside the declared set never reaches the database
	_, err = s.UpdateSubscriptionStatus(ctx, customerID, model.SubscriptionStatus("bogus"))
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestDeleteUserCascades(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	user := seedUser(t, s)
	list := seedListWithCompanies(t, s, user.ID, 2)

	campaign := &model.Campaign{
		UserID:       user.ID,
		ListID:       list.ID,
		Name:         "Doomed",
		CampaignType: model.CampaignTypeEmail,
	}
	require.NoError(t, s.CreateCampaign(ctx, campaign))

	require.NoError(t, s.DeleteUser(ctx, user.ID))

	_, err := s.FindUserByID(ctx, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.FindCampaignByID(ctx, user.ID, campaign.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.FindListByID(ctx, user.ID, list.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	companies, err := s.ListCompanies(ctx, user.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, companies)
}

func TestUserEmailUnique(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	user := seedUser(t, s)

	err := s.CreateUser(ctx, &model.User{
		Email:    user.Email,
		Password: "hashed",
		Name:     "Duplicate",
	})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestRecordSystemLog(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	entry := &model.SystemLog{Level: model.LogLevelInfo, Message: "subscription status applied"}
	require.NoError(t, s.RecordSystemLog(ctx, entry))
	assert.NotEmpty(t, entry.ID)

	bad := &model.SystemLog{Level: "NOISE", Message: "noise"}
	assert.ErrorIs(t, s.RecordSystemLog(ctx, bad), ErrInvalidValue)
}

func TestFindUserByAuthID(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	authID := uuid.New().String()
	user := &model.User{
		Email:      fmt.Sprintf("test-%s@example.com", uuid.New().String()),
		Password:   "hashed",
		Name:       "Linked User",
		AuthUserID: &authID,
	}
	require.NoError(t, s.CreateUser(ctx, user))

	found, err := s.FindUserByAuthID(ctx, authID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = s.FindUserByAuthID(ctx, uuid.New().String())
	assert.ErrorIs(t, err, ErrNotFound)
}
