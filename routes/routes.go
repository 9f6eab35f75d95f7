package routes

import (
	"storefront-backend/controllers"
	"storefront-backend/middleware"

	"github.com/gin-gonic/gin"
)

// Controllers bundles everything the router wires up.
type Controllers struct {
	Orders    *controllers.OrderController
	Payments  *controllers.PaymentController
	Cart      *controllers.CartController
	Addresses *controllers.AddressController
	Products  *controllers.ProductController
}

// Register mounts all routes. The webhook stays outside the auth group: it
// is authenticated by its signature, not by a bearer token.
func Register(r *gin.Engine, auth *middleware.Auth, c Controllers) {
	r.POST("/payment/webhook", c.Payments.StripeWebhook)

	products := r.Group("/products")
	{
		products.GET("", c.Products.GetProducts)
		products.GET("/:id", c.Products.GetProductByID)
	}

	authed := r.Group("/", auth.Authenticate())

	orders := authed.Group("/orders")
	{
		orders.POST("/me", c.Orders.CreateOrder)
		orders.GET("/me", c.Orders.GetMyOrders)
		orders.GET("/by-intent/:paymentIntentId", c.Orders.GetOrderByPaymentIntent)
		orders.GET("/:orderId", c.Orders.GetOrderByID)
		orders.POST("/:orderId", auth.RequireRole("admin"), c.Orders.UpdateOrderStatus)
	}

	authed.POST("/payment/create-intent", c.Payments.CreatePaymentIntent)

	cart := authed.Group("/cart")
	{
		cart.GET("", c.Cart.GetCart)
		cart.POST("/items", c.Cart.AddItem)
		cart.PATCH("/items/:productId", c.Cart.UpdateItem)
		cart.DELETE("/items/:productId", c.Cart.RemoveItem)
	}

	addresses := authed.Group("/addresses")
	{
		addresses.GET("", c.Addresses.ListAddresses)
		addresses.POST("", c.Addresses.CreateAddress)
		addresses.GET("/:id", c.Addresses.GetAddress)
		addresses.PATCH("/:id", c.Addresses.UpdateAddress)
		addresses.DELETE("/:id", c.Addresses.DeleteAddress)
		addresses.POST("/:id/default", c.Addresses.SetDefaultAddress)
	}
}
