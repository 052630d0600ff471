package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Vedant817/flow-pilot/backend-go/internal/domain"
	"github.com/Vedant817/flow-pilot/backend-go/internal/forecast"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ForecastProvider is the slice of the forecast service the handler needs.
type ForecastProvider interface {
	Defaults() forecast.Params
	GetForecast(ctx context.Context, params forecast.Params) (*domain.ForecastReport, error)
}

type ForecastHandler struct {
	service ForecastProvider
}

func NewForecastHandler(service ForecastProvider) *ForecastHandler {
	return &ForecastHandler{service: service}
}

// parseParams applies query overrides on top of the configured defaults.
func (h *ForecastHandler) parseParams(c *gin.Context) (forecast.Params, error) {
	params := h.service.Defaults()

	parseInt := func(name string, dst *int) error {
		raw := strings.TrimSpace(c.Query(name))
		if raw == "" {
			return nil
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer, got %q", forecast.ErrInvalidParams, name, raw)
		}
		*dst = v
		return nil
	}

	if err := parseInt("window_days", &params.WindowDays); err != nil {
		return params, err
	}
	if err := parseInt("lead_time_days", &params.LeadTimeDays); err != nil {
		return params, err
	}

	if raw := strings.TrimSpace(c.Query("service_level")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return params, fmt.Errorf("%w: service_level must be a number, got %q", forecast.ErrInvalidParams, raw)
		}
		params.ServiceLevel = v
	}

	return params, params.Validate()
}

func (h *ForecastHandler) GetForecast(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")

	params, err := h.parseParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid forecast parameters", "details": err.Error()})
		return
	}

	report, err := h.service.GetForecast(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, forecast.ErrInvalidParams) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid forecast parameters", "details": err.Error()})
			return
		}
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("forecast: analysis failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate inventory analytics", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}
