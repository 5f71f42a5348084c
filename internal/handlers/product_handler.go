package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"product-store/internal/cache"
	"product-store/internal/catalog"
	"product-store/internal/uploads"
	"product-store/internal/validate"
)

const (
	// Multipart field carrying the image files, matching the public
	// upload contract.
	fileField = "image"

	listCacheKey = "products:list"
	itemCacheTTL = 5 * time.Minute
	listCacheTTL = 2 * time.Minute
)

type ProductHandler struct {
	coordinator *catalog.Coordinator
	query       *catalog.Query
	receiver    *uploads.Receiver
	cache       *cache.Cache
}

func NewProductHandler(coordinator *catalog.Coordinator, query *catalog.Query, receiver *uploads.Receiver, responseCache *cache.Cache) *ProductHandler {
	return &ProductHandler{
		coordinator: coordinator,
		query:       query,
		receiver:    receiver,
		cache:       responseCache,
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// POST /v1/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid multipart form"})
		return
	}

	files, err := h.receiver.SaveAll(form.File[fileField])
	if err != nil {
		h.renderError(c, err)
		return
	}

	product, err := h.coordinator.CreateProduct(c.Request.Context(), productForm(c), files)
	if err != nil {
		h.renderError(c, err)
		return
	}

	h.invalidate(product.ID)
	c.JSON(http.StatusCreated, product)
}

// PUT /v1/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid multipart form"})
		return
	}

	files, err := h.receiver.SaveAll(form.File[fileField])
	if err != nil {
		h.renderError(c, err)
		return
	}

	product, err := h.coordinator.UpdateProduct(c.Request.Context(), c.Param("id"), productForm(c), files)
	if err != nil {
		h.renderError(c, err)
		return
	}

	h.invalidate(c.Param("id"))
	h.invalidate(product.ID)
	c.JSON(http.StatusOK, product)
}

// DELETE /v1/products/:id
// The route parameter is the internal storage id, not the external
// product id.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	product, err := h.coordinator.DestroyProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		var cleanup *catalog.CleanupError
		if errors.As(err, &cleanup) {
			// The record itself is gone; only its files leaked.
			h.invalidate(product.ID)
		}
		h.renderError(c, err)
		return
	}

	h.invalidate(product.ID)
	c.JSON(http.StatusOK, product)
}

// GET /v1/products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	if cached, found := h.cache.GetValue(listCacheKey); found {
		c.JSON(http.StatusOK, cached)
		return
	}

	products, err := h.query.List(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}

	h.cache.Set(listCacheKey, products, listCacheTTL)
	c.JSON(http.StatusOK, products)
}

// GET /v1/products/:id
func (h *ProductHandler) GetProductByID(c *gin.Context) {
	productID := c.Param("id")
	cacheKey := "product:" + productID

	if cached, found := h.cache.GetValue(cacheKey); found {
		c.JSON(http.StatusOK, cached)
		return
	}

	product, err := h.query.GetOne(c.Request.Context(), productID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	if product == nil {
		// A miss is a valid outcome, not an error.
		c.JSON(http.StatusOK, nil)
		return
	}

	h.cache.Set(cacheKey, product, itemCacheTTL)
	c.JSON(http.StatusOK, product)
}

type lookupRequest struct {
	IDs []string `json:"ids"`
}

// POST /v1/products/lookup
func (h *ProductHandler) GetManyProducts(c *gin.Context) {
	var req lookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	products, err := h.query.GetMany(c.Request.Context(), req.IDs)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// productForm collects the non-file multipart fields.
func productForm(c *gin.Context) validate.Form {
	return validate.Form{
		ID:          c.PostForm("id"),
		Name:        c.PostForm("name"),
		Price:       c.PostForm("price"),
		Stock:       c.PostForm("stock"),
		Colors:      c.PostFormArray("colors"),
		Category:    c.PostForm("category"),
		Company:     c.PostForm("company"),
		Description: c.PostForm("description"),
		Featured:    c.PostForm("featured"),
		Shipping:    c.PostForm("shipping"),
		Reviews:     c.PostForm("reviews"),
		Stars:       c.PostForm("stars"),
	}
}

func (h *ProductHandler) invalidate(productID string) {
	h.cache.Delete("product:" + productID)
	h.cache.DeleteByPrefix(listCacheKey)
}

func (h *ProductHandler) renderError(c *gin.Context, err error) {
	var verr *validate.Error
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": verr.Fields})
		return
	}

	var tooLarge *uploads.TooLargeError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: tooLarge.Error()})
		return
	}

	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: catalog.ErrNotFound.Error()})
		return
	}

	if errors.Is(err, catalog.ErrDuplicateID) {
		c.JSON(http.StatusConflict, ErrorResponse{Error: catalog.ErrDuplicateID.Error()})
		return
	}

	var cleanup *catalog.CleanupError
	if errors.As(err, &cleanup) {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: cleanup.Error()})
		return
	}

	log.Println("⚠️ Request failed:", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
