package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-motivation-delivery/internal/domain"
	"github.com/KasumiMercury/primind-motivation-delivery/internal/service/scheduler"
	"github.com/KasumiMercury/primind-motivation-delivery/internal/service/timewindow"
)

var ErrWindowTooNarrow = errors.New("time window too narrow for the requested notifications")

type Planner interface {
	Replan(ctx context.Context, reason string) (scheduler.Status, error)
}

type PreferencesRequest struct {
	NotificationsPerDay int      `json:"notifications_per_day" binding:"required"`
	Mode                string   `json:"mode" binding:"required"`
	CustomDays          []string `json:"custom_days"`
	WindowStart         string   `json:"window_start" binding:"required"`
	WindowEnd           string   `json:"window_end" binding:"required"`
	Enabled             *bool    `json:"enabled" binding:"required"`
	PreferredThemes     []string `json:"preferred_themes"`
}

type PreferencesResponse struct {
	NotificationsPerDay int               `json:"notifications_per_day"`
	Mode                string            `json:"mode"`
	CustomDays          []string          `json:"custom_days"`
	WindowStart         string            `json:"window_start"`
	WindowEnd           string            `json:"window_end"`
	Enabled             bool              `json:"enabled"`
	PreferredThemes     []string          `json:"preferred_themes"`
	NotificationTimes   []string          `json:"notification_times"`
	UpdatedAt           time.Time         `json:"updated_at,omitzero"`
	Schedule            *scheduler.Status `json:"schedule,omitempty"`
}

type PreferencesHandler struct {
	repo               domain.PreferencesRepository
	planner            Planner
	clock              domain.Clock
	minIntervalMinutes int
}

func NewPreferencesHandler(
	repo domain.PreferencesRepository,
	planner Planner,
	clock domain.Clock,
	minInterval time.Duration,
) *PreferencesHandler {
	return &PreferencesHandler{
		repo:               repo,
		planner:            planner,
		clock:              clock,
		minIntervalMinutes: int(minInterval / time.Minute),
	}
}

func (h *PreferencesHandler) HandleGetPreferences(c *gin.Context) {
	ctx := c.Request.Context()

	prefs, err := h.repo.GetPreferences(ctx)
	if err != nil {
		slog.WarnContext(ctx, "failed to read preferences", slog.String("error", err.Error()))
		respondError(c, http.StatusServiceUnavailable, CodeUnavailable, retryMessage)
		return
	}

	c.JSON(http.StatusOK, newPreferencesResponse(prefs, nil))
}

func (h *PreferencesHandler) HandlePutPreferences(c *gin.Context) {
	ctx := c.Request.Context()

	var req PreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "request bind failed",
			slog.String("error", err.Error()),
			slog.String("path", c.Request.URL.Path),
		)
		respondError(c, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}

	prefs, err := h.toPreferences(&req)
	if err != nil {
		slog.WarnContext(ctx, "preferences validation failed", slog.String("error", err.Error()))
		respondError(c, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}
	prefs.UpdatedAt = h.clock.Now()

	if err := h.repo.SavePreferences(ctx, prefs); err != nil {
		slog.WarnContext(ctx, "failed to save preferences", slog.String("error", err.Error()))
		respondError(c, http.StatusServiceUnavailable, CodeUnavailable, retryMessage)
		return
	}

	status, err := h.planner.Replan(ctx, scheduler.ReasonPreferencesChanged)
	if err != nil {
		slog.WarnContext(ctx, "replan after preferences change failed",
			slog.String("error", err.Error()),
		)
	}

	slog.InfoContext(ctx, "preferences updated",
		slog.Int("notifications_per_day", prefs.NotificationsPerDay),
		slog.String("mode", prefs.Mode.String()),
		slog.Bool("enabled", prefs.Enabled),
		slog.String("state", status.State.String()),
	)

	c.JSON(http.StatusOK, newPreferencesResponse(prefs, &status))
}

// toPreferences validates every field and reports all failures at once.
func (h *PreferencesHandler) toPreferences(req *PreferencesRequest) (*domain.SchedulePreferences, error) {
	var errs []error

	prefs := &domain.SchedulePreferences{
		NotificationsPerDay: req.NotificationsPerDay,
		Mode:                domain.ScheduleMode(req.Mode),
		CustomDays:          make([]time.Weekday, 0, len(req.CustomDays)),
		Enabled:             *req.Enabled,
		PreferredThemes:     req.PreferredThemes,
	}
	if prefs.PreferredThemes == nil {
		prefs.PreferredThemes = []string{}
	}

	for _, name := range req.CustomDays {
		day, err := domain.ParseWeekday(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		prefs.CustomDays = append(prefs.CustomDays, day)
	}

	start, err := domain.ParseTimeOfDay(req.WindowStart)
	if err != nil {
		errs = append(errs, fmt.Errorf("window_start: %w", err))
	}
	end, err := domain.ParseTimeOfDay(req.WindowEnd)
	if err != nil {
		errs = append(errs, fmt.Errorf("window_end: %w", err))
	}
	prefs.WindowStart = start
	prefs.WindowEnd = end

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if err := prefs.Validate(); err != nil {
		return nil, err
	}

	window, err := timewindow.New(start, end)
	if err != nil {
		return nil, err
	}
	if !window.IsWideEnough(prefs.NotificationsPerDay, h.minIntervalMinutes) {
		return nil, fmt.Errorf("%w: %d deliveries need %d minutes", ErrWindowTooNarrow,
			prefs.NotificationsPerDay, prefs.NotificationsPerDay*h.minIntervalMinutes)
	}

	return prefs, nil
}

func newPreferencesResponse(prefs *domain.SchedulePreferences, status *scheduler.Status) PreferencesResponse {
	days := make([]string, 0, len(prefs.CustomDays))
	for _, d := range prefs.CustomDays {
		days = append(days, d.String())
	}

	times := []string{}
	if window, err := timewindow.FromPreferences(prefs); err == nil {
		if tods, err := window.CalculateNotificationTimes(prefs.NotificationsPerDay); err == nil {
			for _, t := range tods {
				times = append(times, t.String())
			}
		}
	}

	themes := prefs.PreferredThemes
	if themes == nil {
		themes = []string{}
	}

	return PreferencesResponse{
		NotificationsPerDay: prefs.NotificationsPerDay,
		Mode:                prefs.Mode.String(),
		CustomDays:          days,
		WindowStart:         prefs.WindowStart.String(),
		WindowEnd:           prefs.WindowEnd.String(),
		Enabled:             prefs.Enabled,
		PreferredThemes:     themes,
		NotificationTimes:   times,
		UpdatedAt:           prefs.UpdatedAt,
		Schedule:            status,
	}
}
