package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/freedom_case_2/callemail/internal/db"
	"github.com/freedom_case_2/callemail/internal/models"
	"github.com/freedom_case_2/callemail/internal/refdata"
	"github.com/freedom_case_2/callemail/internal/service"
)

const UserIDHeader = "X-User-Id"

type Handler struct {
	Service *service.CallEmailService
	Repo    db.Repository
	Refs    refdata.Set
	Logger  zerolog.Logger
}

func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Repo.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Get a call/email record
// @Tags call_email
// @Produce json
// @Param id path int true "record id"
// @Success 200 {object} models.CallEmail
// @Failure 404 {object} map[string]any
// @Router /api/call_email/{id} [get]
func (h *Handler) GetCallEmail(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	rec, err := h.Service.Get(c.Request.Context(), id, userID(c))
	if err != nil {
		h.writeServiceError(c, err, "Failed to load call/email")
		return
	}
	c.JSON(http.StatusOK, rec)
}

// @Summary Create or duplicate a call/email record
// @Description An empty body creates a placeholder draft; a record body is stored as a new copy.
// @Tags call_email
// @Accept json
// @Produce json
// @Param payload body models.CallEmail false "record to duplicate"
// @Success 201 {object} models.CallEmail
// @Failure 400 {object} map[string][]string
// @Router /api/call_email/ [post]
func (h *Handler) CreateCallEmail(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Unreadable body", err.Error())
		return
	}
	body = bytes.TrimSpace(body)

	var rec models.CallEmail
	if len(body) == 0 || bytes.Equal(body, []byte("{}")) {
		rec, err = h.Service.Create(c.Request.Context(), userID(c))
	} else {
		var payload models.CallEmail
		if err := json.Unmarshal(body, &payload); err != nil {
			writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
			return
		}
		rec, err = h.Service.Duplicate(c.Request.Context(), payload, userID(c))
	}
	if err != nil {
		h.writeServiceError(c, err, "Failed to create call/email")
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// @Summary Save a call/email draft
// @Tags call_email
// @Accept json
// @Produce json
// @Param id path int true "record id"
// @Param payload body models.CallEmail true "record"
// @Success 200 {object} models.CallEmail
// @Failure 400 {object} map[string][]string
// @Router /api/call_email/{id}/draft/ [post]
func (h *Handler) SaveDraft(c *gin.Context) {
	h.write(c, h.Service.SaveDraft)
}

// @Summary Submit a call/email record
// @Description Requires classification, report type and occurrence date; opens the record.
// @Tags call_email
// @Accept json
// @Produce json
// @Param id path int true "record id"
// @Param payload body models.CallEmail true "record"
// @Success 200 {object} models.CallEmail
// @Failure 400 {object} map[string][]string
// @Router /api/call_email/{id}/ [put]
func (h *Handler) UpdateCallEmail(c *gin.Context) {
	h.write(c, h.Service.Submit)
}

type writeFunc func(ctx context.Context, id int64, payload models.CallEmail, userID *int64) (models.CallEmail, error)

func (h *Handler) write(c *gin.Context, fn writeFunc) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	var payload models.CallEmail
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	rec, err := fn(c.Request.Context(), id, payload, userID(c))
	if err != nil {
		h.writeServiceError(c, err, "Failed to save call/email")
		return
	}
	c.JSON(http.StatusOK, rec)
}

// @Summary Save the reporter of a call/email record
// @Tags call_email
// @Accept json
// @Produce json
// @Param id path int true "record id"
// @Param payload body models.CallEmail true "record carrying email_user"
// @Success 200 {object} models.EmailUser
// @Failure 400 {object} map[string][]string
// @Router /api/call_email/{id}/call_email_save_person/ [post]
func (h *Handler) SavePerson(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	var payload models.CallEmail
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	u, err := h.Service.SavePerson(c.Request.Context(), id, payload)
	if err != nil {
		h.writeServiceError(c, err, "Failed to save person")
		return
	}
	c.JSON(http.StatusOK, u)
}

// @Summary Classification choices
// @Tags reference
// @Produce json
// @Success 200 {array} models.Reference
// @Router /api/classification/ [get]
func (h *Handler) Classifications(c *gin.Context) {
	c.JSON(http.StatusOK, h.Refs.Classifications)
}

// @Summary Call type choices
// @Tags reference
// @Produce json
// @Success 200 {array} models.Reference
// @Router /api/call_types/ [get]
func (h *Handler) CallTypes(c *gin.Context) {
	c.JSON(http.StatusOK, h.Refs.CallTypes)
}

// @Summary Report type choices
// @Tags reference
// @Produce json
// @Success 200 {array} models.ReportType
// @Router /api/report_types/ [get]
func (h *Handler) ReportTypes(c *gin.Context) {
	c.JSON(http.StatusOK, h.Refs.ReportTypes)
}

// @Summary Referrer choices
// @Tags reference
// @Produce json
// @Success 200 {array} models.Reference
// @Router /api/referrers/ [get]
func (h *Handler) Referrers(c *gin.Context) {
	c.JSON(http.StatusOK, h.Refs.Referrers)
}

// @Summary Status choices
// @Tags reference
// @Produce json
// @Success 200 {array} models.Choice
// @Router /api/status_choices/ [get]
func (h *Handler) StatusChoices(c *gin.Context) {
	c.JSON(http.StatusOK, h.Refs.StatusChoices)
}

func recordID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return 0, false
	}
	return id, true
}

// userID is the operator named by the X-User-Id header, if any.
func userID(c *gin.Context) *int64 {
	id, err := strconv.ParseInt(c.GetHeader(UserIDHeader), 10, 64)
	if err != nil || id == 0 {
		return nil
	}
	return &id
}

// writeServiceError answers validation failures the way the intake form
// expects them ({"field": ["message"]}) and everything else with the error
// envelope.
func (h *Handler) writeServiceError(c *gin.Context, err error, message string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, verr.Fields)
	case errors.Is(err, db.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
	default:
		h.Logger.Error().Err(err).Str("path", c.FullPath()).Msg(message)
		writeError(c, http.StatusInternalServerError, "DB_ERROR", message, err.Error())
	}
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
