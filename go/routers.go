package marketserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
	// Protected routes run behind RequireAuth.
	Protected bool
}

// ApiHandleFunctions bundles the handlers of every API section plus the access gate.
type ApiHandleFunctions struct {
	Auth       Authenticator
	UserAPI    UserAPI
	VendorAPI  VendorAPI
	ProductAPI ProductAPI
	OrderAPI   OrderAPI
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the API routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	gate := RequireAuth(handleFunctions.Auth)
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		handlers := []gin.HandlerFunc{route.HandlerFunc}
		if route.Protected {
			handlers = append([]gin.HandlerFunc{gate}, handlers...)
		}
		router.Handle(route.Method, route.Pattern, handlers...)
	}
	return router
}

// DefaultHandleFunc answers routes that have no handler wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// Healthz reports liveness.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"Healthz", http.MethodGet, "/healthz", Healthz, false},

		{"Register", http.MethodPost, "/api/users/register", handleFunctions.UserAPI.Register, false},
		{"Login", http.MethodPost, "/api/users/login", handleFunctions.UserAPI.Login, false},
		{"Logout", http.MethodPost, "/api/users/logout", handleFunctions.UserAPI.Logout, true},

		{"CreateVendor", http.MethodPost, "/api/vendors", handleFunctions.VendorAPI.CreateVendor, true},
		{"ListVendors", http.MethodGet, "/api/vendors", handleFunctions.VendorAPI.ListVendors, false},
		{"GetVendor", http.MethodGet, "/api/vendors/:vendorId", handleFunctions.VendorAPI.GetVendor, false},
		{"ListVendorProducts", http.MethodGet, "/api/vendors/:vendorId/products", handleFunctions.VendorAPI.ListVendorProducts, false},
		{"ListVendorProductsLegacy", http.MethodGet, "/api/products/vendor/:vendorId", handleFunctions.VendorAPI.ListVendorProducts, false},
		{"ListVendorOrders", http.MethodGet, "/api/vendors/:vendorId/orders", handleFunctions.VendorAPI.ListVendorOrders, true},

		{"ListProducts", http.MethodGet, "/api/products", handleFunctions.ProductAPI.ListProducts, false},
		{"GetProduct", http.MethodGet, "/api/products/:productId", handleFunctions.ProductAPI.GetProduct, false},
		{"CreateProduct", http.MethodPost, "/api/products", handleFunctions.ProductAPI.CreateProduct, true},
		{"UpdateProduct", http.MethodPut, "/api/products/:productId", handleFunctions.ProductAPI.UpdateProduct, true},
		{"DeleteProduct", http.MethodDelete, "/api/products/:productId", handleFunctions.ProductAPI.DeleteProduct, true},

		{"PlaceOrder", http.MethodPost, "/api/orders", handleFunctions.OrderAPI.PlaceOrder, true},
		{"ListOrders", http.MethodGet, "/api/orders", handleFunctions.OrderAPI.ListOrders, true},
		{"GetOrder", http.MethodGet, "/api/orders/:orderId", handleFunctions.OrderAPI.GetOrder, true},
	}
}
