// Package graphql exposes a read-only GraphQL view of the catalogue at
// /api/graphql, for storefront clients that want to shape their own
// queries. Writes stay on the REST surface.
package graphql

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/graphql-go/graphql"
	"gorm.io/gorm"

	"github.com/lidosole/lidosole/app/models"
	"github.com/lidosole/lidosole/pkg/response"
)

const maxQueryLimit = 100

// Handler serves catalogue queries.
type Handler struct {
	schema graphql.Schema
}

// New builds the schema over db.
func New(db *gorm.DB) (*Handler, error) {
	categoryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Category",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.Int},
			"name":        &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
		},
	})

	productType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.Int},
			"categoryId":  &graphql.Field{Type: graphql.Int},
			"name":        &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"quantity":    &graphql.Field{Type: graphql.Int},
			"price":       &graphql.Field{Type: graphql.Float},
			"category": &graphql.Field{
				Type: categoryType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					product, ok := p.Source.(models.Product)
					if !ok {
						return nil, nil
					}
					var category models.Category
					err := db.WithContext(p.Context).
						First(&category, product.CategoryID).Error
					if err != nil {
						return nil, err
					}
					return category, nil
				},
			},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(int)
					var product models.Product
					err := db.WithContext(p.Context).First(&product, id).Error
					if err != nil {
						return nil, fmt.Errorf("product %d not found", id)
					}
					return product, nil
				},
			},
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"categoryId": &graphql.ArgumentConfig{Type: graphql.Int},
					"limit":      &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
					"offset":     &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					limit, _ := p.Args["limit"].(int)
					if limit <= 0 || limit > maxQueryLimit {
						limit = 20
					}
					offset, _ := p.Args["offset"].(int)
					if offset < 0 {
						offset = 0
					}

					q := db.WithContext(p.Context).Model(&models.Product{})
					if categoryID, ok := p.Args["categoryId"].(int); ok && categoryID > 0 {
						q = q.Where("category_id = ?", categoryID)
					}

					var products []models.Product
					err := q.Limit(limit).Offset(offset).Find(&products).Error
					return products, err
				},
			},
			"categories": &graphql.Field{
				Type: graphql.NewList(categoryType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var categories []models.Category
					err := db.WithContext(p.Context).
						Limit(maxQueryLimit).Find(&categories).Error
					return categories, err
				},
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
	if err != nil {
		return nil, fmt.Errorf("graphql: build schema: %w", err)
	}
	return &Handler{schema: schema}, nil
}

type queryBody struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// ServeHTTP executes one query.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body queryBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "malformed query body")
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  body.Query,
		VariableValues: body.Variables,
		Context:        r.Context(),
	})

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}
