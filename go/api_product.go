package marketserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/shopspring/decimal"

	producthttpmapper "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/adapters/http/mapper"
	catalogtypes "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/application/types"
	catalogports "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/ports"
)

const imageField = "image"

// ProductAPI serves the catalog. Mutations accept JSON or multipart forms carrying an image.
type ProductAPI struct {
	service catalogports.Service
}

// NewProductAPI wires dependencies.
func NewProductAPI(service catalogports.Service) ProductAPI {
	return ProductAPI{service: service}
}

// Post /api/products
// List a new product
func (api *ProductAPI) CreateProduct(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	payload, image, closeImage, err := bindProduct(c)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	defer closeImage()
	input, err := producthttpmapper.ToCreateInput(payload, image)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	product, err := api.service.CreateProduct(c.Request.Context(), caller, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully!",
		"product": producthttpmapper.FromDomainProduct(product),
	})
}

// Put /api/products/:productId
// Update a product; absent fields are left unchanged
func (api *ProductAPI) UpdateProduct(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	payload, image, closeImage, err := bindProduct(c)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	defer closeImage()
	input := producthttpmapper.ToUpdateInput(c.Param("productId"), payload, image)
	product, err := api.service.UpdateProduct(c.Request.Context(), caller, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully!",
		"product": producthttpmapper.FromDomainProduct(product),
	})
}

// Delete /api/products/:productId
// Remove a product and its image
func (api *ProductAPI) DeleteProduct(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	input := catalogtypes.ProductIdentifier{ID: c.Param("productId")}
	if err := api.service.DeleteProduct(c.Request.Context(), caller, input); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully!"})
}

// Get /api/products/:productId
// Find a product by ID
func (api *ProductAPI) GetProduct(c *gin.Context) {
	product, err := api.service.GetProduct(c.Request.Context(), catalogtypes.ProductIdentifier{ID: c.Param("productId")})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromDomainProduct(product))
}

// Get /api/products
// List every product
func (api *ProductAPI) ListProducts(c *gin.Context) {
	products, err := api.service.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromDomainProducts(products))
}

// bindProduct decodes a product mutation. The returned close func is always safe to call.
func bindProduct(c *gin.Context) (producthttpmapper.MutationProduct, *catalogtypes.ImageUpload, func(), error) {
	var payload producthttpmapper.MutationProduct
	noop := func() {}
	if c.ContentType() != binding.MIMEMultipartPOSTForm {
		if err := c.ShouldBindJSON(&payload); err != nil {
			return payload, nil, noop, err
		}
		return payload, nil, noop, nil
	}

	if err := c.ShouldBindWith(&payload, binding.FormMultipart); err != nil {
		return payload, nil, noop, err
	}
	if raw := strings.TrimSpace(c.PostForm("price")); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return payload, nil, noop, fmt.Errorf("price must be a decimal number: %w", err)
		}
		payload.Price = &price
	}
	header, err := c.FormFile(imageField)
	if errors.Is(err, http.ErrMissingFile) {
		return payload, nil, noop, nil
	}
	if err != nil {
		return payload, nil, noop, err
	}
	file, err := header.Open()
	if err != nil {
		return payload, nil, noop, err
	}
	upload := &catalogtypes.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}
	return payload, upload, func() { _ = file.Close() }, nil
}
