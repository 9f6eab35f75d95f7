package controllers

import (
	"errors"
	"net/http"

	apperrors "storefront-backend/common/errors"
	"storefront-backend/common/logger"
	"storefront-backend/middleware"
	"storefront-backend/models"
	"storefront-backend/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CartController manages the per-user cart. The cart stores product
// references and quantities only; prices are resolved against the live
// catalog on every read.
type CartController struct {
	Repo        repository.CartRepository
	ProductRepo repository.ProductRepository
}

func NewCartController(repo repository.CartRepository, productRepo repository.ProductRepository) *CartController {
	return &CartController{Repo: repo, ProductRepo: productRepo}
}

type cartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

type resolvedCartItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Title     string    `json:"title"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	Stock     int       `json:"stock"`
	Image     string    `json:"image"`
}

// GetCart returns the cart with live product data resolved per line.
func (cc *CartController) GetCart(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	cart, err := cc.Repo.GetByUserID(c, userID)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{"items": []resolvedCartItem{}})
		return
	}
	if err != nil {
		logger.Error(c, "Failed to get cart", err)
		respondError(c, err)
		return
	}

	items := make([]resolvedCartItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		product, err := cc.ProductRepo.FindByID(c, line.ProductID)
		if errors.Is(err, repository.ErrNotFound) {
			// product removed from catalog; skip the stale line
			continue
		}
		if err != nil {
			logger.Error(c, "Failed to resolve cart line", err)
			respondError(c, err)
			return
		}
		items = append(items, resolvedCartItem{
			ProductID: product.ID,
			Title:     product.Title,
			Price:     product.DiscountedPrice(),
			Quantity:  line.Quantity,
			Stock:     product.Stock,
			Image:     product.FirstImage(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// AddItem adds a product to the cart, merging quantities when the line
// already exists.
func (cc *CartController) AddItem(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Wrap(apperrors.ErrInvalidInput, err))
		return
	}

	if _, err := cc.ProductRepo.FindByID(c, req.ProductID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, apperrors.ErrProductNotFound)
			return
		}
		respondError(c, err)
		return
	}

	cart, err := cc.Repo.GetByUserID(c, userID)
	if errors.Is(err, repository.ErrNotFound) {
		cart = &models.Cart{UserID: userID, Items: []models.CartItem{}}
	} else if err != nil {
		respondError(c, err)
		return
	}

	found := false
	for i, existing := range cart.Items {
		if existing.ProductID == req.ProductID {
			cart.Items[i].Quantity += req.Quantity
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, models.CartItem{ProductID: req.ProductID, Quantity: req.Quantity})
	}

	if err := cc.Repo.Save(c, cart); err != nil {
		logger.Error(c, "Failed to save cart", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// UpdateItem sets the quantity of an existing cart line.
func (cc *CartController) UpdateItem(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		respondError(c, apperrors.Wrap(apperrors.ErrBadRequest, err))
		return
	}

	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Wrap(apperrors.ErrInvalidInput, err))
		return
	}

	cart, err := cc.Repo.GetByUserID(c, userID)
	if err != nil {
		respondError(c, apperrors.ErrCartItemNotFound)
		return
	}

	found := false
	for i, existing := range cart.Items {
		if existing.ProductID == productID {
			cart.Items[i].Quantity = req.Quantity
			found = true
			break
		}
	}
	if !found {
		respondError(c, apperrors.ErrCartItemNotFound)
		return
	}

	if err := cc.Repo.Save(c, cart); err != nil {
		logger.Error(c, "Failed to save cart", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// RemoveItem drops a line from the cart.
func (cc *CartController) RemoveItem(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		respondError(c, apperrors.Wrap(apperrors.ErrBadRequest, err))
		return
	}

	cart, err := cc.Repo.GetByUserID(c, userID)
	if err != nil {
		respondError(c, apperrors.ErrCartItemNotFound)
		return
	}

	filtered := cart.Items[:0]
	removed := false
	for _, existing := range cart.Items {
		if existing.ProductID == productID {
			removed = true
			continue
		}
		filtered = append(filtered, existing)
	}
	if !removed {
		respondError(c, apperrors.ErrCartItemNotFound)
		return
	}
	cart.Items = filtered

	if err := cc.Repo.Save(c, cart); err != nil {
		logger.Error(c, "Failed to save cart", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}
