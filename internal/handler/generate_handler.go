package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"outreach-service/internal/integration/ai"
	"outreach-service/internal/middleware"
	"outreach-service/internal/model"
	"outreach-service/internal/monitoring"
	"outreach-service/internal/store"
	"outreach-service/pkg/logger"
	"outreach-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Generator is the slice of the generation provider client this handler needs
type Generator interface {
	Generate(ctx context.Context, req ai.GenerateRequest) (*ai.GenerateResponse, error)
	Model() string
}

// GenerateHandler serves AI message drafting with per-day quota enforcement
type GenerateHandler struct {
	Store      *store.Store
	AI         Generator
	Monitor    monitoring.Monitor
	DailyLimit int
}

func NewGenerateHandler(s *store.Store, generator Generator, monitor monitoring.Monitor, dailyLimit int) *GenerateHandler {
	return &GenerateHandler{Store: s, AI: generator, Monitor: monitor, DailyLimit: dailyLimit}
}

// Generate drafts one outreach message. The quota is consumed before the
// provider call; a provider failure does not refund it. Provider errors come
// back as a structured 502, never a crash.
func (h *GenerateHandler) Generate(c echo.Context) error {
	log := logger.FromEcho(c)
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		TemplateID *string                `json:"template_id,omitempty"`
		Prompt     string                 `json:"prompt,omitempty"`
		Tone       string                 `json:"tone,omitempty"`
		Language   string                 `json:"language,omitempty"`
		Variables  map[string]interface{} `json:"variables,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.TemplateID == nil && req.Prompt == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "prompt or template_id is required"})
	}

	ctx := c.Request().Context()

	// Resolve the template before consuming quota
	prompt := req.Prompt
	tone := req.Tone
	language := req.Language
	if req.TemplateID != nil {
		template, err := h.Store.FindTemplateByID(ctx, claims.UserID, *req.TemplateID)
		if err != nil {
			if err == store.ErrNotFound {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "template not found"})
			}
			log.Error("Failed to load template", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load template"})
		}
		prompt = template.TemplateContent
		if tone == "" {
			tone = template.Tone
		}
		if language == "" {
			language = template.Language
		}
	}

	periodStart, periodEnd := store.DayPeriod(time.Now().UTC())
	_, err := h.Store.IncrementUsage(ctx, claims.UserID, model.MetricAIGenerations, periodStart, periodEnd, h.DailyLimit)
	if err != nil {
		if err == store.ErrQuotaExceeded {
			log.Warn("Generation quota exceeded", zap.String("user_id", claims.UserID))
			prometheus.GenerationCounter.WithLabelValues("quota_exceeded").Inc()
			return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "daily generation quota exceeded"})
		}
		log.Error("Failed to consume quota", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to consume quota"})
	}

	started := time.Now()
	result, err := h.AI.Generate(ctx, ai.GenerateRequest{
		Prompt:    prompt,
		Tone:      tone,
		Language:  language,
		Variables: req.Variables,
	})
	if err != nil {
		prometheus.GenerationCounter.WithLabelValues("provider_error").Inc()
		h.Monitor.TrackError(err, map[string]interface{}{
			"operation": "generate",
			"user_id":   claims.UserID,
		})

		var provErr *ai.ProviderError
		if errors.As(err, &provErr) {
			log.Warn("Generation provider rejected request",
				zap.Int("status", provErr.StatusCode))
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "generation provider unavailable"})
		}
		log.Error("Generation provider unreachable", zap.Error(err))
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "generation provider unavailable"})
	}
	elapsed := int(time.Since(started).Milliseconds())

	modelUsed := h.AI.Model()
	tokens := result.Usage.Tokens
	generation := &model.AIGeneration{
		UserID:     claims.UserID,
		TemplateID: req.TemplateID,
		InputData: marshalConfig(map[string]interface{}{
			"prompt":    prompt,
			"tone":      tone,
			"language":  language,
			"variables": req.Variables,
		}),
		GeneratedContent: result.Content,
		TotalTokens:      &tokens,
		ModelUsed:        &modelUsed,
		GenerationTimeMs: &elapsed,
	}
	if err := h.Store.RecordGeneration(ctx, generation); err != nil {
		// The content was produced; losing the history row is logged, not fatal
		log.Error("Failed to record generation", zap.Error(err))
		h.Monitor.TrackError(err, map[string]interface{}{"operation": "record_generation"})
	}

	prometheus.GenerationCounter.WithLabelValues("success").Inc()
	prometheus.GenerationTokenCounter.Add(float64(tokens))

	log.Info("Content generated",
		zap.String("user_id", claims.UserID),
		zap.Int("tokens", tokens),
		zap.Int("elapsed_ms", elapsed))
	return c.JSON(http.StatusOK, echo.Map{
		"generation_id": generation.ID,
		"content":       result.Content,
		"tokens":        tokens,
	})
}

// History returns the caller's recent generations
func (h *GenerateHandler) History(c echo.Context) error {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
		}
		limit = parsed
	}

	generations, err := h.Store.ListGenerations(c.Request().Context(), claims.UserID, limit)
	if err != nil {
		logger.FromEcho(c).Error("Failed to list generations", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list generations"})
	}

	return c.JSON(http.StatusOK, echo.Map{"generations": generations, "count": len(generations)})
}

// Usage reports today's consumption against the daily quota
func (h *GenerateHandler) Usage(c echo.Context) error {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	periodStart, _ := store.DayPeriod(time.Now().UTC())
	used, err := h.Store.CurrentUsage(c.Request().Context(), claims.UserID, model.MetricAIGenerations, periodStart)
	if err != nil {
		logger.FromEcho(c).Error("Failed to read usage", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read usage"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"metric":       model.MetricAIGenerations,
		"period_start": periodStart,
		"used":         used,
		"limit":        h.DailyLimit,
	})
}
