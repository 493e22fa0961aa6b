// Package seeders loads development fixtures: a verified admin, a small
// catalogue and the beach seat grid. Safe to run repeatedly.
package seeders

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lidosole/lidosole/app/models"
	"github.com/lidosole/lidosole/pkg/auth"
	"github.com/lidosole/lidosole/pkg/logger"
)

// Run executes every seeder.
func Run(db *gorm.DB) error {
	for name, fn := range map[string]func(*gorm.DB) error{
		"admin":     seedAdmin,
		"catalogue": seedCatalogue,
		"umbrellas": seedUmbrellas,
	} {
		if err := fn(db); err != nil {
			return fmt.Errorf("seed %s: %w", name, err)
		}
		logger.Info("seed: done", "seeder", name)
	}
	return nil
}

func seedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).
		Where("email = ?", "admin@lidosole.it").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword("lidosole-admin-1")
	if err != nil {
		return err
	}
	return db.Create(&models.User{
		FirstName:     "Lido",
		LastName:      "Admin",
		Email:         "admin@lidosole.it",
		Password:      hash,
		Role:          models.RoleAdmin,
		Verified:      true,
		SecurityStamp: uuid.NewString(),
	}).Error
}

func seedCatalogue(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	categories := []models.Category{
		{Name: "Drinks", Description: "Cold drinks from the beach bar"},
		{Name: "Snacks", Description: "Light food served at the umbrella"},
		{Name: "Rentals", Description: "Beach gear for the day"},
	}
	if err := db.Create(&categories).Error; err != nil {
		return err
	}

	ten := 10
	products := []models.Product{
		{CategoryID: categories[0].ID, Name: "Cola", Price: 2.50, Quantity: &ten},
		{CategoryID: categories[0].ID, Name: "Spremuta", Price: 4.00},
		{CategoryID: categories[1].ID, Name: "Piadina", Price: 6.50},
		{CategoryID: categories[2].ID, Name: "Pedal boat hour", Price: 15.00},
	}
	return db.Create(&products).Error
}

func seedUmbrellas(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Umbrella{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var umbrellas []models.Umbrella
	for _, letter := range []string{"A", "B", "C", "D"} {
		for number := 1; number <= 10; number++ {
			umbrellas = append(umbrellas, models.Umbrella{Letter: letter, Number: number})
		}
	}
	return db.Create(&umbrellas).Error
}
