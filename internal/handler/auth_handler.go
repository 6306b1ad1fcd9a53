package handler

import (
	"context"
	"net/http"
	"time"

	"outreach-service/internal/model"
	"outreach-service/internal/monitoring"
	"outreach-service/internal/store"
	"outreach-service/pkg/jwtutil"
	"outreach-service/pkg/logger"
	"outreach-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// CustomerCreator is the slice of the payment provider client signup needs
type CustomerCreator interface {
	CreateCustomer(ctx context.Context, email, name string) (string, error)
}

// AuthHandler handles signup and login
type AuthHandler struct {
	Store   *store.Store
	JWT     *jwtutil.JWTUtil
	Billing CustomerCreator
	Monitor monitoring.Monitor
}

// NewAuthHandler wires the auth endpoints
func NewAuthHandler(s *store.Store, jwt *jwtutil.JWTUtil, billing CustomerCreator, monitor monitoring.Monitor) *AuthHandler {
	return &AuthHandler{Store: s, JWT: jwt, Billing: billing, Monitor: monitor}
}

// Register handles user signup. The billing customer is created best-effort;
// a provider outage must not block signup.
func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RegisterCounter.Inc()

	var req struct {
		Email       string  `json:"email"`
		Password    string  `json:"password"`
		Name        string  `json:"name"`
		CompanyName *string `json:"company_name,omitempty"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Email == "" || req.Password == "" || req.Name == "" {
		prometheus.RecordAuthError("incomplete_registration")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email, password and name are required"})
	}

	ctx := c.Request().Context()

	if _, err := h.Store.FindUserByEmail(ctx, req.Email); err == nil {
		log.Warn("User already exists", zap.String("email", req.Email))
		prometheus.RecordAuthError("email_already_exists")
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		prometheus.RecordAuthError("password_hash_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	user := &model.User{
		Email:       req.Email,
		Password:    string(hashedPassword),
		Name:        req.Name,
		CompanyName: req.CompanyName,
	}
	if err := h.Store.CreateUser(ctx, user); err != nil {
		if err == store.ErrDuplicate {
			prometheus.RecordAuthError("email_already_exists")
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		}
		log.Error("Failed to create user", zap.Error(err))
		h.Monitor.TrackError(err, map[string]interface{}{"operation": "register"})
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	if h.Billing != nil {
		customerID, err := h.Billing.CreateCustomer(ctx, user.Email, user.Name)
		if err != nil {
			log.Warn("Failed to create billing customer, continuing without subscription",
				zap.String("user_id", user.ID), zap.Error(err))
			h.Monitor.TrackError(err, map[string]interface{}{"operation": "create_billing_customer"})
		} else {
			trialEnd := time.Now().UTC().Add(14 * 24 * time.Hour)
			sub := &model.Subscription{
				UserID:           user.ID,
				StripeCustomerID: customerID,
				PlanID:           "free_trial",
				Status:           model.SubscriptionStatusTrialing,
				TrialEnd:         &trialEnd,
			}
			if err := h.Store.CreateSubscription(ctx, sub); err != nil {
				log.Error("Failed to create trial subscription", zap.String("user_id", user.ID), zap.Error(err))
				h.Monitor.TrackError(err, map[string]interface{}{"operation": "create_trial_subscription"})
			}
		}
	}

	token, err := h.JWT.GenerateToken(user.ID, user.Email, user.Name)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	h.Monitor.SetUser(user.ID, user.Email, user.Name)
	h.Monitor.TrackEvent("auth", "user_registered", map[string]interface{}{"user_id": user.ID})

	log.Info("User registered", zap.String("user_id", user.ID), zap.String("email", user.Email))
	return c.JSON(http.StatusCreated, echo.Map{
		"token": token,
		"user":  user,
	})
}

// Login handles user authentication
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	user, err := h.Store.FindUserByEmail(c.Request().Context(), req.Email)
	if err != nil {
		log.Warn("User not found", zap.String("email", req.Email))
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if user.Status == model.UserStatusSuspended {
		prometheus.RecordAuthError("user_suspended")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account suspended"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Warn("Invalid password", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, err := h.JWT.GenerateToken(user.ID, user.Email, user.Name)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	h.Monitor.SetUser(user.ID, user.Email, user.Name)

	log.Info("User logged in", zap.String("user_id", user.ID), zap.String("email", user.Email))
	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user":  user,
	})
}
