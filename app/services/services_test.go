package services

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lidosole/lidosole/app/models"
)

// newTestDB opens a fresh in-memory sqlite database per test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderDetail{},
		&models.Umbrella{},
		&models.Reservation{},
		&models.Subscription{},
		&models.Comment{},
		&models.Post{},
		&models.Image{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// seedProduct inserts a category plus a product with the given stock.
func seedProduct(t *testing.T, db *gorm.DB, name string, stock *int, price float64) models.Product {
	t.Helper()

	category := models.Category{Name: "Drinks " + name, Description: "test category"}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}

	product := models.Product{
		CategoryID: category.ID,
		Name:       name,
		Quantity:   stock,
		Price:      price,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func seedUmbrella(t *testing.T, db *gorm.DB, letter string, number int) models.Umbrella {
	t.Helper()

	umbrella := models.Umbrella{Letter: letter, Number: number}
	if err := db.Create(&umbrella).Error; err != nil {
		t.Fatalf("seed umbrella: %v", err)
	}
	return umbrella
}
