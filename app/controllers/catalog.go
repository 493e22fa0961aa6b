package controllers

import (
	"net/http"
	"strconv"

	"github.com/lidosole/lidosole/app/requests"
	"github.com/lidosole/lidosole/app/services"
	"github.com/lidosole/lidosole/pkg/response"
)

// CategoryController serves /api/categories.
type CategoryController struct {
	categories *services.CategoryService
}

func NewCategoryController(categories *services.CategoryService) *CategoryController {
	return &CategoryController{categories: categories}
}

func (c *CategoryController) Insert(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[requests.Category](w, r)
	if !ok {
		return
	}

	category, err := c.categories.Insert(r.Context(), req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, category)
}

func (c *CategoryController) GetList(w http.ResponseWriter, r *http.Request) {
	categories, page, err := c.categories.GetList(r.Context(), pageRequest(r))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Paginated(w, categories, page)
}

func (c *CategoryController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	category, err := c.categories.Get(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, category)
}

func (c *CategoryController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}
	req, ok := decode[requests.Category](w, r)
	if !ok {
		return
	}

	category, err := c.categories.Update(r.Context(), id, req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, category)
}

func (c *CategoryController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	if err := c.categories.Delete(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}
	response.NoContent(w)
}

// ProductController serves /api/products.
type ProductController struct {
	products *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

func (c *ProductController) Insert(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[requests.Product](w, r)
	if !ok {
		return
	}

	product, err := c.products.Insert(r.Context(), req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, product)
}

func (c *ProductController) GetList(w http.ResponseWriter, r *http.Request) {
	categoryID, _ := strconv.ParseUint(r.URL.Query().Get("categoryId"), 10, 32)

	products, page, err := c.products.GetList(r.Context(), uint(categoryID), pageRequest(r))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Paginated(w, products, page)
}

func (c *ProductController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	product, err := c.products.Get(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, product)
}

func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}
	req, ok := decode[requests.Product](w, r)
	if !ok {
		return
	}

	product, err := c.products.Update(r.Context(), id, req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, product)
}

func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	if err := c.products.Delete(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}
	response.NoContent(w)
}
