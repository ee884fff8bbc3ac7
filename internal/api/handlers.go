package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"flightwatch/internal/common"
	"flightwatch/internal/models"
)

const dateLayout = "2006-01-02"

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listUsers(c *gin.Context) {
	users, err := s.repos.Users().List(c.Request.Context())
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

type createUserRequest struct {
	TelegramID int64 `json:"telegram_id" binding:"required"`
}

func (s *Server) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := s.repos.Users().Create(c.Request.Context(), &models.User{TelegramID: req.TelegramID})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "user already exists"})
			return
		}
		s.internalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user_id": user.ID})
}

func (s *Server) listAlerts(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id query parameter is required"})
		return
	}

	alerts, err := s.repos.Alerts().ListByUser(c.Request.Context(), userID)
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

type createAlertRequest struct {
	UserID           int64    `json:"user_id" binding:"required"`
	Origin           string   `json:"origin" binding:"required"`
	Destination      string   `json:"destination" binding:"required"`
	DateFrom         string   `json:"date_from" binding:"required"`
	DateTo           *string  `json:"date_to"`
	PriceTargetCents *int64   `json:"price_target_cents"`
	MaxStops         *int     `json:"max_stops"`
	AirlinesInclude  []string `json:"airlines_include"`
	AirlinesExclude  []string `json:"airlines_exclude"`
}

func (s *Server) createAlert(c *gin.Context) {
	var req createAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dateFrom, err := time.Parse(dateLayout, req.DateFrom)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date_from must be YYYY-MM-DD"})
		return
	}

	alert := &models.Alert{
		UserID:           req.UserID,
		Origin:           strings.ToUpper(req.Origin),
		Destination:      strings.ToUpper(req.Destination),
		DateFrom:         dateFrom,
		PriceTargetCents: req.PriceTargetCents,
		MaxStops:         req.MaxStops,
		AirlinesInclude:  req.AirlinesInclude,
		AirlinesExclude:  req.AirlinesExclude,
		Active:           true,
	}
	if req.DateTo != nil {
		dateTo, err := time.Parse(dateLayout, *req.DateTo)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date_to must be YYYY-MM-DD"})
			return
		}
		alert.DateTo = &dateTo
	}

	if err := alert.Validate(time.Now()); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if _, err := s.repos.Users().GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		s.internalError(c, err)
		return
	}

	created, err := s.repos.Alerts().Create(ctx, alert)
	if err != nil {
		s.internalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"alert_id": created.ID})
}

type updateAlertRequest struct {
	DateFrom         *string  `json:"date_from"`
	DateTo           *string  `json:"date_to"`
	PriceTargetCents *int64   `json:"price_target_cents"`
	MaxStops         *int     `json:"max_stops"`
	AirlinesInclude  []string `json:"airlines_include"`
	AirlinesExclude  []string `json:"airlines_exclude"`
	Active           *bool    `json:"active"`
}

func (s *Server) updateAlert(c *gin.Context) {
	id, ok := s.alertID(c)
	if !ok {
		return
	}

	var req updateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	alert, err := s.repos.Alerts().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
			return
		}
		s.internalError(c, err)
		return
	}

	if req.DateFrom != nil {
		dateFrom, err := time.Parse(dateLayout, *req.DateFrom)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date_from must be YYYY-MM-DD"})
			return
		}
		alert.DateFrom = dateFrom
	}
	if req.DateTo != nil {
		dateTo, err := time.Parse(dateLayout, *req.DateTo)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date_to must be YYYY-MM-DD"})
			return
		}
		alert.DateTo = &dateTo
	}
	if req.PriceTargetCents != nil {
		alert.PriceTargetCents = req.PriceTargetCents
	}
	if req.MaxStops != nil {
		alert.MaxStops = req.MaxStops
	}
	if req.AirlinesInclude != nil {
		alert.AirlinesInclude = req.AirlinesInclude
	}
	if req.AirlinesExclude != nil {
		alert.AirlinesExclude = req.AirlinesExclude
	}
	if req.Active != nil {
		alert.Active = *req.Active
	}

	// Only re-validate when the search window or target changed, so that an
	// alert whose departure date has since passed can still be deactivated.
	if req.DateFrom != nil || req.DateTo != nil || req.PriceTargetCents != nil {
		if err := alert.Validate(time.Now()); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if err := s.repos.Alerts().Update(ctx, alert); err != nil {
		s.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"alert": alert})
}

func (s *Server) deleteAlert(c *gin.Context) {
	id, ok := s.alertID(c)
	if !ok {
		return
	}

	// Snapshots and notification records cascade with the alert.
	err := s.repos.Alerts().Delete(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
			return
		}
		s.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (s *Server) priceHistory(c *gin.Context) {
	id, ok := s.alertID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := s.repos.Alerts().GetByID(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
			return
		}
		s.internalError(c, err)
		return
	}

	history, err := s.repos.Snapshots().ListByAlert(ctx, id)
	if err != nil {
		s.internalError(c, err)
		return
	}

	type entry struct {
		SnapshotID int64           `json:"snapshot_id"`
		FoundAt    time.Time       `json:"found_at"`
		PriceCents *int64          `json:"price_cents"`
		PriceEuros *float64        `json:"price_euros"`
		Details    json.RawMessage `json:"details,omitempty"`
	}

	entries := make([]entry, 0, len(history))
	for _, snap := range history {
		e := entry{
			SnapshotID: snap.ID,
			FoundAt:    snap.FoundAt,
			PriceCents: snap.PriceCents,
			Details:    snap.Details,
		}
		if snap.PriceCents != nil {
			euros := models.CentsToEuros(*snap.PriceCents)
			e.PriceEuros = &euros
		}
		entries = append(entries, e)
	}

	c.JSON(http.StatusOK, gin.H{"alert_id": id, "price_history": entries})
}

// checkNow runs one immediate evaluation for a single alert, outside the
// regular cycle. The worker's rules apply unchanged: a snapshot is always
// recorded and the suppression window still gates notifications.
func (s *Server) checkNow(c *gin.Context) {
	id, ok := s.alertID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	alert, err := s.repos.Alerts().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
			return
		}
		s.internalError(c, err)
		return
	}

	owner, err := s.repos.Users().GetByID(ctx, alert.UserID)
	if err != nil {
		s.internalError(c, err)
		return
	}
	alert.ChatID = owner.TelegramID

	outcome := s.evaluator.Evaluate(ctx, alert)

	resp := gin.H{
		"alert_id":         id,
		"snapshot_written": outcome.SnapshotWritten,
		"notified":         outcome.Notified,
	}
	if outcome.PriceCents != nil {
		resp["price_cents"] = *outcome.PriceCents
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) alertID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert id"})
		return 0, false
	}
	return id, true
}

func (s *Server) internalError(c *gin.Context, err error) {
	s.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
