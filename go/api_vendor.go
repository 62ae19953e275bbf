package marketserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	producthttpmapper "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/adapters/http/mapper"
	catalogports "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/ports"
	orderhttpmapper "github.com/Apurer/go-gin-marketplace/internal/domains/store/adapters/http/mapper"
	storeports "github.com/Apurer/go-gin-marketplace/internal/domains/store/ports"
	vendorhttpmapper "github.com/Apurer/go-gin-marketplace/internal/domains/vendors/adapters/http/mapper"
	vendorports "github.com/Apurer/go-gin-marketplace/internal/domains/vendors/ports"
)

// VendorAPI serves storefront profiles and the per-vendor product and order views.
type VendorAPI struct {
	vendors vendorports.Service
	catalog catalogports.Service
	orders  storeports.Service
}

// NewVendorAPI wires dependencies.
func NewVendorAPI(vendors vendorports.Service, catalog catalogports.Service, orders storeports.Service) VendorAPI {
	return VendorAPI{vendors: vendors, catalog: catalog, orders: orders}
}

// Post /api/vendors
// Create the caller's storefront profile
func (api *VendorAPI) CreateVendor(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	var payload vendorhttpmapper.CreateVendor
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	vendor, err := api.vendors.CreateVendor(c.Request.Context(), caller, vendorhttpmapper.ToCreateInput(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Vendor profile created successfully!",
		"vendor":  vendorhttpmapper.FromDomainVendor(vendor),
	})
}

// Get /api/vendors
// List every storefront
func (api *VendorAPI) ListVendors(c *gin.Context) {
	vendors, err := api.vendors.ListVendors(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vendorhttpmapper.FromDomainVendors(vendors))
}

// Get /api/vendors/:vendorId
// Find a storefront by ID
func (api *VendorAPI) GetVendor(c *gin.Context) {
	vendor, err := api.vendors.GetVendor(c.Request.Context(), c.Param("vendorId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vendorhttpmapper.FromDomainVendor(vendor))
}

// Get /api/vendors/:vendorId/products
// List a storefront's products
func (api *VendorAPI) ListVendorProducts(c *gin.Context) {
	vendorID := c.Param("vendorId")
	if _, err := api.vendors.GetVendor(c.Request.Context(), vendorID); err != nil {
		respondError(c, err)
		return
	}
	products, err := api.catalog.ListVendorProducts(c.Request.Context(), vendorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromDomainProducts(products))
}

// Get /api/vendors/:vendorId/orders
// List orders containing the storefront's products; owner only
func (api *VendorAPI) ListVendorOrders(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	orders, err := api.orders.ListVendorOrders(c.Request.Context(), caller, c.Param("vendorId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrders(orders))
}
