package controllers

import (
	"errors"
	"net/http"
	"strconv"

	apperrors "storefront-backend/common/errors"
	"storefront-backend/common/logger"
	"storefront-backend/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductController serves catalog reads. Catalog writes are out of scope;
// stock mutates only through the order workflow.
type ProductController struct {
	Repo  repository.ProductRepository
	Cache *CacheManager
}

func NewProductController(repo repository.ProductRepository, cache *CacheManager) *ProductController {
	return &ProductController{Repo: repo, Cache: cache}
}

// GetProducts lists products with pagination, cache first.
func (pc *ProductController) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	if products, total, ok := pc.Cache.GetProductList(c, page, limit); ok {
		c.JSON(http.StatusOK, gin.H{"products": products, "total": total, "page": page, "limit": limit})
		return
	}

	products, total, err := pc.Repo.Find(c, page, limit)
	if err != nil {
		logger.Error(c, "Failed to list products", err)
		respondError(c, err)
		return
	}

	pc.Cache.SetProductList(c, page, limit, products, total)
	c.JSON(http.StatusOK, gin.H{"products": products, "total": total, "page": page, "limit": limit})
}

// GetProductByID returns one product, cache first.
func (pc *ProductController) GetProductByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.Wrap(apperrors.ErrBadRequest, err))
		return
	}

	if product, ok := pc.Cache.GetProduct(c, id.String()); ok {
		c.JSON(http.StatusOK, product)
		return
	}

	product, err := pc.Repo.FindByID(c, id)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, apperrors.ErrProductNotFound)
		return
	}
	if err != nil {
		logger.Error(c, "Failed to fetch product", err)
		respondError(c, err)
		return
	}

	pc.Cache.SetProduct(c, product)
	c.JSON(http.StatusOK, product)
}
