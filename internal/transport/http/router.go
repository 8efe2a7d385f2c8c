package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/harishn/shopapi/internal/handlers"
	mwauth "github.com/harishn/shopapi/internal/middleware/auth"
)

type Deps struct {
	Gate *mwauth.Gate

	AuthHandler     *handlers.AuthHandler
	ProductHandler  *handlers.ProductHandler
	AdminHandler    *handlers.AdminProductHandler
	CartHandler     *handlers.CartHandler
	FavoriteHandler *handlers.FavoriteHandler
	SearchHandler   *handlers.SearchHandler
	EmailHandler    *handlers.EmailHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"message": "Product Management API"})
	})
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "healthy"})
	})

	auth := e.Group("/auth")
	auth.POST("/signup", d.AuthHandler.Signup)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh", d.AuthHandler.Refresh)
	auth.POST("/logout", d.AuthHandler.Logout)

	products := e.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)

	if d.SearchHandler != nil {
		e.GET("/search", d.SearchHandler.Search)
	}

	admin := e.Group("/admin", d.Gate.RequireLogin, d.Gate.AdminOnly)
	admin.POST("/products", d.AdminHandler.CreateProduct)
	admin.PUT("/products/:id", d.AdminHandler.ReplaceProduct)
	admin.PATCH("/products/:id", d.AdminHandler.UpdateProduct)
	admin.DELETE("/products/:id", d.AdminHandler.DeleteProduct)

	users := e.Group("/users", d.Gate.RequireLogin)
	users.GET("/cart", d.CartHandler.GetCart)
	users.POST("/cart", d.CartHandler.AddToCart)
	users.DELETE("/cart/:product_id", d.CartHandler.RemoveFromCart)
	users.GET("/favorites", d.FavoriteHandler.GetFavorites)
	users.POST("/favorites/toggle", d.FavoriteHandler.ToggleFavorite)

	secure := e.Group("/secure", d.Gate.RequireLogin)
	secure.GET("/me", handlers.Me)

	if d.EmailHandler != nil {
		e.POST("/send-email-bg", d.EmailHandler.SendEmailBackground)
	}
}
