package controllers

import (
	"net/http"

	apperrors "storefront-backend/common/errors"
	"storefront-backend/common/logger"
	"storefront-backend/middleware"
	"storefront-backend/models"
	"storefront-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AddressController serves the per-user address book.
type AddressController struct {
	Service *services.AddressService
}

func NewAddressController(service *services.AddressService) *AddressController {
	return &AddressController{Service: service}
}

type addressRequest struct {
	AddressLine1    string `json:"address_line1" binding:"required"`
	AddressLine2    string `json:"address_line2"`
	City            string `json:"city" binding:"required"`
	State           string `json:"state" binding:"required"`
	PostalCode      string `json:"postal_code" binding:"required"`
	Country         string `json:"country"`
	OptionalRemarks string `json:"optional_remarks"`
	IsDefault       bool   `json:"is_default"`
}

type addressUpdateRequest struct {
	AddressLine1    string `json:"address_line1"`
	AddressLine2    string `json:"address_line2"`
	City            string `json:"city"`
	State           string `json:"state"`
	PostalCode      string `json:"postal_code"`
	Country         string `json:"country"`
	OptionalRemarks string `json:"optional_remarks"`
	IsDefault       bool   `json:"is_default"`
}

// ListAddresses returns the user's addresses, newest first.
func (ac *AddressController) ListAddresses(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	addresses, err := ac.Service.List(c, userID)
	if err != nil {
		logger.Error(c, "Failed to list addresses", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"addresses": addresses})
}

// GetAddress returns one of the user's addresses.
func (ac *AddressController) GetAddress(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.Wrap(apperrors.ErrBadRequest, err))
		return
	}

	address, err := ac.Service.Get(c, id, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, address)
}

// CreateAddress adds an address, subject to the per-user cap and the
// one-default invariant.
func (ac *AddressController) CreateAddress(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Wrap(apperrors.ErrInvalidInput, err))
		return
	}

	address, err := ac.Service.Create(c, &models.Address{
		UserID:          userID,
		AddressLine1:    req.AddressLine1,
		AddressLine2:    req.AddressLine2,
		City:            req.City,
		State:           req.State,
		PostalCode:      req.PostalCode,
		Country:         req.Country,
		OptionalRemarks: req.OptionalRemarks,
		IsDefault:       req.IsDefault,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, address)
}

// UpdateAddress modifies an address.
func (ac *AddressController) UpdateAddress(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.Wrap(apperrors.ErrBadRequest, err))
		return
	}

	var req addressUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Wrap(apperrors.ErrInvalidInput, err))
		return
	}

	address, err := ac.Service.Update(c, id, userID, &models.Address{
		AddressLine1:    req.AddressLine1,
		AddressLine2:    req.AddressLine2,
		City:            req.City,
		State:           req.State,
		PostalCode:      req.PostalCode,
		Country:         req.Country,
		OptionalRemarks: req.OptionalRemarks,
		IsDefault:       req.IsDefault,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, address)
}

// DeleteAddress removes an address; deleting the default promotes the
// oldest remaining one.
func (ac *AddressController) DeleteAddress(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.Wrap(apperrors.ErrBadRequest, err))
		return
	}

	if err := ac.Service.Delete(c, id, userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetDefaultAddress marks an address as the checkout default.
func (ac *AddressController) SetDefaultAddress(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.Wrap(apperrors.ErrBadRequest, err))
		return
	}

	address, err := ac.Service.SetDefault(c, id, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, address)
}
