package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/KasumiMercury/primind-motivation-delivery/internal/domain"
	"github.com/KasumiMercury/primind-motivation-delivery/internal/service/delivery"
	"github.com/KasumiMercury/primind-motivation-delivery/internal/service/scheduler"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

type Scheduler interface {
	Planner
	Fire(ctx context.Context, token string) error
	DeliverNow(ctx context.Context) (*delivery.Result, error)
	ResetHistory(ctx context.Context) (scheduler.Status, error)
	Status() scheduler.Status
}

type ContentPool interface {
	IsExhausted(ctx context.Context) (bool, error)
	UnseenCount(ctx context.Context) (int, error)
}

type DeliveryRecordResponse struct {
	ID          string    `json:"id"`
	ContentID   string    `json:"content_id"`
	DeliveredAt time.Time `json:"delivered_at"`
	DateBucket  string    `json:"date_bucket"`
	Status      string    `json:"status"`
	Tag         string    `json:"tag"`
}

type DeliverResponse struct {
	Exhausted bool                    `json:"exhausted"`
	Content   *domain.ContentItem     `json:"content,omitempty"`
	Delivery  *DeliveryRecordResponse `json:"delivery,omitempty"`
}

type FireRequest struct {
	Token string `json:"token" binding:"required"`
}

type FireResponse struct {
	Status string `json:"status"`
}

type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

type HistoryResponse struct {
	Deliveries []DeliveryRecordResponse `json:"deliveries"`
}

type StatusResponse struct {
	Exhausted   bool             `json:"exhausted"`
	UnseenCount int              `json:"unseen_count"`
	Schedule    scheduler.Status `json:"schedule"`
}

type DeliveryHandler struct {
	scheduler Scheduler
	pool      ContentPool
	repo      domain.ContentRepository
	limiter   *rate.Limiter
}

// NewDeliveryHandler allows manualPerMinute manual deliveries per minute,
// bursting up to the same amount.
func NewDeliveryHandler(
	sched Scheduler,
	pool ContentPool,
	repo domain.ContentRepository,
	manualPerMinute int,
) *DeliveryHandler {
	if manualPerMinute <= 0 {
		manualPerMinute = 1
	}
	return &DeliveryHandler{
		scheduler: sched,
		pool:      pool,
		repo:      repo,
		limiter:   rate.NewLimiter(rate.Every(time.Minute/time.Duration(manualPerMinute)), manualPerMinute),
	}
}

func (h *DeliveryHandler) HandleDeliverNow(c *gin.Context) {
	ctx := c.Request.Context()

	if !h.limiter.Allow() {
		slog.WarnContext(ctx, "manual delivery rate limited")
		respondError(c, http.StatusTooManyRequests, CodeRateLimited, "too many manual deliveries, try again later")
		return
	}

	result, err := h.scheduler.DeliverNow(ctx)
	if err != nil {
		respondServiceError(c, err, "delivery.manual.fail")
		return
	}

	c.JSON(http.StatusOK, newDeliverResponse(result))
}

// HandleFire is the task queue callback for an armed delivery.
func (h *DeliveryHandler) HandleFire(c *gin.Context) {
	ctx := c.Request.Context()

	var req FireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}

	err := h.scheduler.Fire(ctx, req.Token)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, FireResponse{Status: "delivered"})
	case errors.Is(err, scheduler.ErrStaleToken):
		slog.InfoContext(ctx, "ignoring stale fire callback", slog.String("token", req.Token))
		c.JSON(http.StatusOK, FireResponse{Status: "ignored"})
	default:
		respondServiceError(c, err, "delivery.fire.fail")
	}
}

func (h *DeliveryHandler) HandleListDeliveries(c *gin.Context) {
	ctx := c.Request.Context()

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > maxHistoryLimit {
			respondError(c, http.StatusBadRequest, CodeValidation, "limit must be an integer between 1 and 500")
			return
		}
		limit = parsed
	}

	records, err := h.repo.ListDeliveries(ctx, limit)
	if err != nil {
		slog.WarnContext(ctx, "failed to list deliveries", slog.String("error", err.Error()))
		respondError(c, http.StatusServiceUnavailable, CodeUnavailable, retryMessage)
		return
	}

	resp := HistoryResponse{Deliveries: make([]DeliveryRecordResponse, 0, len(records))}
	for _, r := range records {
		resp.Deliveries = append(resp.Deliveries, *newDeliveryRecordResponse(r))
	}

	c.JSON(http.StatusOK, resp)
}

func (h *DeliveryHandler) HandleUpdateStatus(c *gin.Context) {
	ctx := c.Request.Context()
	contentID := c.Param("content_id")

	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}

	status := domain.DeliveryStatus(req.Status)
	if status != domain.DeliveryStatusOpened && status != domain.DeliveryStatusDismissed {
		respondError(c, http.StatusBadRequest, CodeValidation, "status must be opened or dismissed")
		return
	}

	err := h.repo.UpdateDeliveryStatus(ctx, contentID, status)
	switch {
	case err == nil:
		slog.InfoContext(ctx, "delivery status updated",
			slog.String("content_id", contentID),
			slog.String("status", status.String()),
		)
		c.Status(http.StatusNoContent)
	case errors.Is(err, domain.ErrDeliveryNotFound):
		respondError(c, http.StatusNotFound, CodeNotFound, "no delivery recorded for this content")
	default:
		slog.WarnContext(ctx, "failed to update delivery status",
			slog.String("content_id", contentID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusServiceUnavailable, CodeUnavailable, retryMessage)
	}
}

func (h *DeliveryHandler) HandleResetHistory(c *gin.Context) {
	ctx := c.Request.Context()

	status, err := h.scheduler.ResetHistory(ctx)
	if err != nil {
		var storageErr *delivery.StorageError
		if errors.As(err, &storageErr) {
			respondServiceError(c, err, "delivery.reset.fail")
			return
		}
		// History is already cleared; only the replan failed.
		slog.WarnContext(ctx, "replan after history reset failed", slog.String("error", err.Error()))
	}

	h.respondStatus(c, status)
}

func (h *DeliveryHandler) HandleStatus(c *gin.Context) {
	h.respondStatus(c, h.scheduler.Status())
}

func (h *DeliveryHandler) respondStatus(c *gin.Context, status scheduler.Status) {
	ctx := c.Request.Context()

	exhausted, err := h.pool.IsExhausted(ctx)
	if err != nil {
		respondServiceError(c, err, "status.exhausted.fail")
		return
	}

	unseen, err := h.pool.UnseenCount(ctx)
	if err != nil {
		respondServiceError(c, err, "status.unseen.fail")
		return
	}

	c.JSON(http.StatusOK, StatusResponse{
		Exhausted:   exhausted,
		UnseenCount: unseen,
		Schedule:    status,
	})
}

func newDeliverResponse(result *delivery.Result) DeliverResponse {
	if result.Exhausted {
		return DeliverResponse{Exhausted: true}
	}
	return DeliverResponse{
		Content:  result.Item,
		Delivery: newDeliveryRecordResponse(result.Record),
	}
}

func newDeliveryRecordResponse(r *domain.DeliveryRecord) *DeliveryRecordResponse {
	return &DeliveryRecordResponse{
		ID:          r.ID,
		ContentID:   r.ContentID,
		DeliveredAt: r.DeliveredAt,
		DateBucket:  r.DateBucket,
		Status:      r.Status.String(),
		Tag:         r.Tag,
	}
}
