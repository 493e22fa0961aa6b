package migrations

import (
	"gorm.io/gorm"

	"github.com/lidosole/lidosole/app/models"
	"github.com/lidosole/lidosole/pkg/migration"
)

func init() {
	migration.Register("20260301000100_create_shop_tables", &createShopTables{})
}

type createShopTables struct{}

func (createShopTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderDetail{},
	)
}

func (createShopTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(
		&models.OrderDetail{},
		&models.Order{},
		&models.CartItem{},
		&models.Cart{},
		&models.Product{},
		&models.Category{},
	)
}
