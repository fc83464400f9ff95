package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"eshop_back_end/internal/models"
	"eshop_back_end/internal/services"
	"eshop_back_end/internal/utils"
)

type createProductRequest struct {
	Name            string  `json:"name" binding:"required"`
	Description     string  `json:"description" binding:"required"`
	RichDescription string  `json:"richDescription"`
	Brand           string  `json:"brand"`
	Price           float64 `json:"price" binding:"gte=0"`
	Category        string  `json:"category" binding:"required"`
	CountInStock    int     `json:"countInStock" binding:"gte=0"`
	Rating          float64 `json:"rating"`
	NumReviews      int     `json:"numReviews"`
	IsFeatured      bool    `json:"isFeatured"`
}

type ProductHandler struct {
	service *services.ProductService
	images  *services.ImageService
}

func NewProductHandler(service *services.ProductService, images *services.ImageService) *ProductHandler {
	return &ProductHandler{service: service, images: images}
}

// GetProducts — GET /products?category=&minPrice=&maxPrice=&isFeatured=&page=&limit=
func (h *ProductHandler) GetProducts(c *gin.Context) {
	page, limit, err := utils.ValidatePagination(c.Query("page"), c.Query("limit"))
	if err != nil {
		respondError(c, err)
		return
	}

	filter, err := parseProductFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}

	products, total, err := h.service.GetProducts(c.Request.Context(), *filter, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"data":          products,
		"page":          page,
		"limit":         limit,
		"totalProducts": total,
		"totalPages":    utils.TotalPages(total, limit),
	})
}

// GetProduct — GET /products/:id, catégorie résolue dans la réponse.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid product id", map[string]any{"id": c.Param("id")})
		return
	}

	product, category, err := h.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"product": product, "category": category})
}

// CreateProduct — POST /products (admin).
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid product payload", err.Error())
		return
	}

	categoryID, err := primitive.ObjectIDFromHex(req.Category)
	if err != nil {
		respondBadRequest(c, "Invalid category id", map[string]any{"category": req.Category})
		return
	}

	product, err := h.service.CreateProduct(c.Request.Context(), models.Product{
		Name:            req.Name,
		Description:     req.Description,
		RichDescription: req.RichDescription,
		Brand:           req.Brand,
		Price:           req.Price,
		CategoryID:      categoryID,
		CountInStock:    req.CountInStock,
		Rating:          req.Rating,
		NumReviews:      req.NumReviews,
		IsFeatured:      req.IsFeatured,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, product)
}

// UpdateProduct — PUT /products/:id (admin), patch partiel.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid product id", map[string]any{"id": c.Param("id")})
		return
	}

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "Invalid product payload", err.Error())
		return
	}

	patch := bson.M{}
	for key, value := range body {
		switch key {
		case "name", "description", "richDescription", "brand", "price",
			"countInStock", "rating", "numReviews", "isFeatured":
			patch[key] = value
		case "category":
			raw, ok := value.(string)
			if !ok {
				respondBadRequest(c, "Invalid category id", nil)
				return
			}
			categoryID, err := primitive.ObjectIDFromHex(raw)
			if err != nil {
				respondBadRequest(c, "Invalid category id", map[string]any{"category": raw})
				return
			}
			patch[key] = categoryID
		}
	}
	if len(patch) == 0 {
		respondBadRequest(c, "No updatable fields provided", nil)
		return
	}

	product, err := h.service.UpdateProduct(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, product)
}

// DeleteProduct — DELETE /products/:id (admin), images MinIO purgées.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid product id", map[string]any{"id": c.Param("id")})
		return
	}

	if err := h.service.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "Product deleted successfully"})
}

// CountProducts — GET /products/count
func (h *ProductHandler) CountProducts(c *gin.Context) {
	filter, err := parseProductFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}

	count, err := h.service.CountProducts(c.Request.Context(), *filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"productCount": count})
}

// GetFeaturedProducts — GET /products/featured
func (h *ProductHandler) GetFeaturedProducts(c *gin.Context) {
	page, limit, err := utils.ValidatePagination(c.Query("page"), c.Query("limit"))
	if err != nil {
		respondError(c, err)
		return
	}

	products, err := h.service.GetFeaturedProducts(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, products)
}

// SearchProducts — GET /products/search?q=
func (h *ProductHandler) SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respondBadRequest(c, "Search query is required", nil)
		return
	}

	results, err := h.service.SearchProducts(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, results)
}

// UploadImage — POST /products/:id/image (multipart, champ "image").
func (h *ProductHandler) UploadImage(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid product id", map[string]any{"id": c.Param("id")})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		respondBadRequest(c, "Image file is required", err.Error())
		return
	}

	imageURL, err := h.images.Upload(c.Request.Context(), file)
	if err != nil {
		respondError(c, err)
		return
	}

	product, err := h.service.AttachImage(c.Request.Context(), id, imageURL)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, product)
}

// UploadGallery — PUT /products/:id/gallery-images (multipart, champ "images").
func (h *ProductHandler) UploadGallery(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid product id", map[string]any{"id": c.Param("id")})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		respondBadRequest(c, "Multipart form is required", err.Error())
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		respondBadRequest(c, "At least one image is required", nil)
		return
	}

	imageURLs, err := h.images.UploadAll(c.Request.Context(), files)
	if err != nil {
		respondError(c, err)
		return
	}

	product, err := h.service.AttachGallery(c.Request.Context(), id, imageURLs)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, product)
}

func parseProductFilter(c *gin.Context) (*services.ProductFilter, error) {
	filter := services.ProductFilter{}

	if raw := c.Query("category"); raw != "" {
		categoryID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return nil, models.NewBadRequestError("Invalid category id", map[string]any{"category": raw})
		}
		filter.CategoryID = &categoryID
	}
	if raw := c.Query("minPrice"); raw != "" {
		minPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, models.NewBadRequestError("Invalid minPrice", map[string]any{"minPrice": raw})
		}
		filter.MinPrice = &minPrice
	}
	if raw := c.Query("maxPrice"); raw != "" {
		maxPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, models.NewBadRequestError("Invalid maxPrice", map[string]any{"maxPrice": raw})
		}
		filter.MaxPrice = &maxPrice
	}
	if raw := c.Query("isFeatured"); raw != "" {
		isFeatured, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, models.NewBadRequestError("Invalid isFeatured", map[string]any{"isFeatured": raw})
		}
		filter.IsFeatured = &isFeatured
	}
	return &filter, nil
}
