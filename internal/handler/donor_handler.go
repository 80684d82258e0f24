package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/institute-hq/institute-api/internal/dto"
	"github.com/institute-hq/institute-api/internal/models"
	"github.com/institute-hq/institute-api/internal/service"
	appErrors "github.com/institute-hq/institute-api/pkg/errors"
	"github.com/institute-hq/institute-api/pkg/response"
)

// DonorHandler exposes donor relationship endpoints.
type DonorHandler struct {
	donors *service.DonorService
}

// NewDonorHandler constructs a DonorHandler.
func NewDonorHandler(donors *service.DonorService) *DonorHandler {
	return &DonorHandler{donors: donors}
}

// List godoc
// @Summary List donors
// @Tags Donors
// @Produce json
// @Param search query string false "Search by name or email"
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope{data=[]models.Donor}
// @Router /donors [get]
func (h *DonorHandler) List(c *gin.Context) {
	var filter models.DonorFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.Status = c.Query("status")
	filter.Page, filter.Limit = pageParams(c)

	donors, pagination, err := h.donors.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, donors, pagination)
}

// Get godoc
// @Summary Get donor detail
// @Tags Donors
// @Produce json
// @Param id path string true "Donor ID"
// @Success 200 {object} response.Envelope{data=models.Donor}
// @Failure 404 {object} response.Envelope
// @Router /donors/{id} [get]
func (h *DonorHandler) Get(c *gin.Context) {
	donor, err := h.donors.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, donor, nil)
}

// Create godoc
// @Summary Create donor
// @Tags Donors
// @Accept json
// @Produce json
// @Param payload body dto.CreateDonorRequest true "Donor payload"
// @Success 201 {object} response.Envelope{data=models.Donor}
// @Failure 400 {object} response.Envelope
// @Router /donors [post]
func (h *DonorHandler) Create(c *gin.Context) {
	var req dto.CreateDonorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	donor, err := h.donors.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, donor)
}

// Update godoc
// @Summary Update donor
// @Tags Donors
// @Accept json
// @Produce json
// @Param id path string true "Donor ID"
// @Param payload body dto.UpdateDonorRequest true "Partial donor payload"
// @Success 200 {object} response.Envelope{data=models.Donor}
// @Failure 404 {object} response.Envelope
// @Router /donors/{id} [put]
func (h *DonorHandler) Update(c *gin.Context) {
	var req dto.UpdateDonorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	donor, err := h.donors.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, donor, nil)
}

// Delete godoc
// @Summary Delete donor
// @Tags Donors
// @Param id path string true "Donor ID"
// @Success 204 {object} nil
// @Failure 404 {object} response.Envelope
// @Router /donors/{id} [delete]
func (h *DonorHandler) Delete(c *gin.Context) {
	if err := h.donors.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AddDonation godoc
// @Summary Record a donation under a donor
// @Tags Donors
// @Accept json
// @Produce json
// @Param id path string true "Donor ID"
// @Param payload body dto.AddDonationRequest true "Donation payload"
// @Success 201 {object} response.Envelope{data=models.Donation}
// @Failure 404 {object} response.Envelope
// @Router /donors/{id}/donations [post]
func (h *DonorHandler) AddDonation(c *gin.Context) {
	var req dto.AddDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	donation, err := h.donors.AddDonation(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, donation)
}

// Donations godoc
// @Summary Donation history for a donor
// @Tags Donors
// @Produce json
// @Param id path string true "Donor ID"
// @Success 200 {object} response.Envelope{data=[]models.Donation}
// @Failure 404 {object} response.Envelope
// @Router /donors/{id}/donations [get]
func (h *DonorHandler) Donations(c *gin.Context) {
	donations, err := h.donors.Donations(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, donations, nil)
}

// FollowUps godoc
// @Summary Donors due for follow-up contact
// @Tags Donors
// @Produce json
// @Success 200 {object} response.Envelope{data=[]models.Donor}
// @Router /donors/follow-ups [get]
func (h *DonorHandler) FollowUps(c *gin.Context) {
	donors, err := h.donors.FollowUps(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, donors, nil)
}
