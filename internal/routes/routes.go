package routes

import (
	"product-store/internal/handlers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.Engine, h *handlers.ProductHandler) {
	v1 := router.Group("/v1")
	{
		v1.POST("/products", h.CreateProduct)
		v1.GET("/products", h.GetProducts)
		v1.GET("/products/:id", h.GetProductByID)
		v1.PUT("/products/:id", h.UpdateProduct)
		v1.DELETE("/products/:id", h.DeleteProduct)
		v1.POST("/products/lookup", h.GetManyProducts)
	}
}
