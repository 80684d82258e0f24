package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/institute-hq/institute-api/internal/dto"
	"github.com/institute-hq/institute-api/internal/models"
	"github.com/institute-hq/institute-api/internal/service"
	appErrors "github.com/institute-hq/institute-api/pkg/errors"
	"github.com/institute-hq/institute-api/pkg/response"
)

// PaymentHandler exposes fee ledger endpoints.
type PaymentHandler struct {
	payments *service.PaymentService
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// List godoc
// @Summary List payments
// @Tags Payments
// @Produce json
// @Param status query string false "Filter by status"
// @Param paymentType query string false "Filter by type"
// @Param studentId query string false "Filter by student"
// @Param startDate query string false "Window start (YYYY-MM-DD)"
// @Param endDate query string false "Window end (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope{data=[]models.Payment}
// @Router /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	window, err := service.ResolveWindow(dto.ReportWindowQuery{
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	}, timeNow())
	if err != nil {
		response.Error(c, err)
		return
	}

	var filter models.PaymentFilter
	filter.Status = models.PaymentStatus(c.Query("status"))
	filter.PaymentType = c.Query("paymentType")
	filter.StudentCode = c.Query("studentId")
	filter.Window = window
	filter.Page, filter.Limit = pageParams(c)

	payments, pagination, err := h.payments.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payments, pagination)
}

// ListPending godoc
// @Summary List unsettled payments ordered by due date
// @Tags Payments
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope{data=[]models.Payment}
// @Router /payments/pending [get]
func (h *PaymentHandler) ListPending(c *gin.Context) {
	page, limit := pageParams(c)
	payments, pagination, err := h.payments.ListPending(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payments, pagination)
}

// Get godoc
// @Summary Get payment detail
// @Tags Payments
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} response.Envelope{data=models.Payment}
// @Failure 404 {object} response.Envelope
// @Router /payments/{id} [get]
func (h *PaymentHandler) Get(c *gin.Context) {
	payment, err := h.payments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payment, nil)
}

// Create godoc
// @Summary Record a new fee ledger entry
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body dto.CreatePaymentRequest true "Payment payload"
// @Success 201 {object} response.Envelope{data=models.Payment}
// @Failure 400 {object} response.Envelope
// @Router /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	payment, err := h.payments.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, payment)
}

// UpdateStatus godoc
// @Summary Transition a payment's settlement state
// @Tags Payments
// @Accept json
// @Produce json
// @Param id path string true "Payment ID"
// @Param payload body dto.UpdatePaymentStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope{data=models.Payment}
// @Failure 404 {object} response.Envelope
// @Router /payments/{id}/status [put]
func (h *PaymentHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	payment, err := h.payments.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payment, nil)
}

// ListDonations godoc
// @Summary List donation ledger entries
// @Tags Payments
// @Produce json
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope{data=[]models.Donation}
// @Router /payments/donations [get]
func (h *PaymentHandler) ListDonations(c *gin.Context) {
	page, limit := pageParams(c)
	donations, pagination, err := h.payments.ListDonations(c.Request.Context(),
		models.DonationStatus(c.Query("status")), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, donations, pagination)
}

// UpdateDonationStatus godoc
// @Summary Transition a donation's ledger state
// @Tags Payments
// @Accept json
// @Produce json
// @Param id path string true "Donation ID"
// @Param payload body dto.UpdateDonationStatusRequest true "Status payload"
// @Success 204 {object} nil
// @Failure 404 {object} response.Envelope
// @Router /payments/donations/{id}/status [put]
func (h *PaymentHandler) UpdateDonationStatus(c *gin.Context) {
	var req dto.UpdateDonationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.payments.UpdateDonationStatus(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
