package handlers

import (
	"errors"
	"net/http"

	sessionRepo "clinicbooking/database/repository/session"
	"clinicbooking/models"
	"clinicbooking/services/booking"
	"clinicbooking/services/wizard"
	"clinicbooking/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingWizardHandler exposes the booking wizard over HTTP. Every successful
// call answers with the rendered step view.
type BookingWizardHandler struct {
	WizardSvc wizard.WizardService
}

// NewBookingWizardHandler creates a new BookingWizardHandler.
func NewBookingWizardHandler(svc wizard.WizardService) *BookingWizardHandler {
	return &BookingWizardHandler{WizardSvc: svc}
}

type openWizardRequest struct {
	IsOpen             *bool  `json:"isOpen" binding:"required"`
	PreSelectedExpert  string `json:"preSelectedExpert"`
	PreSelectedService string `json:"preSelectedService"`
}

type selectFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

type shiftMonthRequest struct {
	Delta int `json:"delta" binding:"required"`
}

type selectDateRequest struct {
	Date string `json:"date" binding:"required"`
}

type selectTimeRequest struct {
	Time string `json:"time" binding:"required"`
}

// Open handles POST /api/booking/wizard.
func (h *BookingWizardHandler) Open(c *gin.Context) {
	logger := getLogger(c)
	var req openWizardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Open: invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, utils.ErrorResponse{Message: "invalid request body", Details: err.Error()})
		return
	}

	view, err := h.WizardSvc.Open(c.Request.Context(), wizard.OpenRequest{
		IsOpen:             *req.IsOpen,
		PreSelectedExpert:  req.PreSelectedExpert,
		PreSelectedService: req.PreSelectedService,
	})
	if err != nil {
		h.fail(c, "Open", view, err)
		return
	}
	if view == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// View handles GET /api/booking/wizard/:sessionID.
func (h *BookingWizardHandler) View(c *gin.Context) {
	view, err := h.WizardSvc.View(c.Request.Context(), c.Param("sessionID"))
	h.respond(c, "View", view, err)
}

// SelectField handles PATCH /api/booking/wizard/:sessionID/fields.
func (h *BookingWizardHandler) SelectField(c *gin.Context) {
	var req selectFieldRequest
	if !h.bind(c, "SelectField", &req) {
		return
	}
	view, err := h.WizardSvc.SelectField(c.Request.Context(), c.Param("sessionID"), req.Field, req.Value)
	h.respond(c, "SelectField", view, err)
}

// Next handles POST /api/booking/wizard/:sessionID/next.
func (h *BookingWizardHandler) Next(c *gin.Context) {
	view, err := h.WizardSvc.Advance(c.Request.Context(), c.Param("sessionID"))
	h.respond(c, "Next", view, err)
}

// Back handles POST /api/booking/wizard/:sessionID/back.
func (h *BookingWizardHandler) Back(c *gin.Context) {
	view, err := h.WizardSvc.Retreat(c.Request.Context(), c.Param("sessionID"))
	h.respond(c, "Back", view, err)
}

// ShiftMonth handles POST /api/booking/wizard/:sessionID/calendar/month.
func (h *BookingWizardHandler) ShiftMonth(c *gin.Context) {
	var req shiftMonthRequest
	if !h.bind(c, "ShiftMonth", &req) {
		return
	}
	view, err := h.WizardSvc.ShiftMonth(c.Request.Context(), c.Param("sessionID"), req.Delta)
	h.respond(c, "ShiftMonth", view, err)
}

// SelectDate handles POST /api/booking/wizard/:sessionID/calendar/date.
func (h *BookingWizardHandler) SelectDate(c *gin.Context) {
	var req selectDateRequest
	if !h.bind(c, "SelectDate", &req) {
		return
	}
	view, err := h.WizardSvc.SelectDate(c.Request.Context(), c.Param("sessionID"), req.Date)
	h.respond(c, "SelectDate", view, err)
}

// SelectTime handles POST /api/booking/wizard/:sessionID/time.
func (h *BookingWizardHandler) SelectTime(c *gin.Context) {
	var req selectTimeRequest
	if !h.bind(c, "SelectTime", &req) {
		return
	}
	view, err := h.WizardSvc.SelectTime(c.Request.Context(), c.Param("sessionID"), req.Time)
	h.respond(c, "SelectTime", view, err)
}

// Submit handles POST /api/booking/wizard/:sessionID/submit.
func (h *BookingWizardHandler) Submit(c *gin.Context) {
	view, err := h.WizardSvc.Submit(c.Request.Context(), c.Param("sessionID"))
	h.respond(c, "Submit", view, err)
}

// Reset handles POST /api/booking/wizard/:sessionID/reset.
func (h *BookingWizardHandler) Reset(c *gin.Context) {
	view, err := h.WizardSvc.Reset(c.Request.Context(), c.Param("sessionID"))
	h.respond(c, "Reset", view, err)
}

// Close handles DELETE /api/booking/wizard/:sessionID.
func (h *BookingWizardHandler) Close(c *gin.Context) {
	if err := h.WizardSvc.Close(c.Request.Context(), c.Param("sessionID")); err != nil {
		h.fail(c, "Close", nil, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookingWizardHandler) bind(c *gin.Context, op string, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		getLogger(c).Warn(op+": invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, utils.ErrorResponse{Message: "invalid request body", Details: err.Error()})
		return false
	}
	return true
}

func (h *BookingWizardHandler) respond(c *gin.Context, op string, view *wizard.StepView, err error) {
	if err != nil {
		h.fail(c, op, view, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// fail writes the error with the session view attached when one is available,
// so the client keeps the draft it already has.
func (h *BookingWizardHandler) fail(c *gin.Context, op string, view *wizard.StepView, err error) {
	status, resp := wizardErrorResponse(err)
	if view != nil {
		resp.View = view
	}

	logger := getLogger(c).With(zap.String("sessionID", c.Param("sessionID")), zap.Int("status", status))
	if status >= http.StatusInternalServerError {
		logger.Error(op+": request failed", zap.Error(err))
	} else {
		logger.Info(op+": request rejected", zap.Error(err))
	}
	c.JSON(status, resp)
}

func wizardErrorResponse(err error) (int, utils.ErrorResponse) {
	var (
		validationErr *booking.ValidationError
		storageErr    *booking.StorageError
		lookupErr     *wizard.LookupError
		incompleteErr *wizard.IncompleteStepError
	)
	details := err.Error()

	switch {
	case errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity, utils.ErrorResponse{Message: "booking details are incomplete", Details: details, Category: validationErr.Category}
	case errors.As(err, &lookupErr):
		return http.StatusUnprocessableEntity, utils.ErrorResponse{Message: "selection is no longer available", Details: details, Category: booking.CategorySelection}
	case errors.As(err, &incompleteErr):
		return http.StatusUnprocessableEntity, utils.ErrorResponse{Message: "step is incomplete", Details: details, Category: incompleteErr.Step}
	case errors.As(err, &storageErr):
		return http.StatusBadGateway, utils.ErrorResponse{Message: "booking could not be saved", Details: details}
	case errors.Is(err, wizard.ErrSubmissionInFlight):
		return http.StatusConflict, utils.ErrorResponse{Message: "submission already in progress", Details: details}
	case errors.Is(err, wizard.ErrSubmissionSuperseded), errors.Is(err, sessionRepo.ErrVersionConflict):
		return http.StatusConflict, utils.ErrorResponse{Message: "session changed by another request", Details: details}
	case errors.Is(err, wizard.ErrNotOnPersonalInfo), errors.Is(err, wizard.ErrFinalized):
		return http.StatusConflict, utils.ErrorResponse{Message: "operation not allowed on this step", Details: details}
	case errors.Is(err, sessionRepo.ErrSessionNotFound), errors.Is(err, wizard.ErrSessionClosed):
		return http.StatusNotFound, utils.ErrorResponse{Message: "booking session not found or expired", Details: details}
	case errors.Is(err, models.ErrUnknownField), errors.Is(err, wizard.ErrUnknownTimeSlot), errors.Is(err, wizard.ErrInvalidDate):
		return http.StatusBadRequest, utils.ErrorResponse{Message: "invalid input", Details: details}
	}
	return http.StatusInternalServerError, utils.ErrorResponse{Message: "internal server error", Details: details}
}
