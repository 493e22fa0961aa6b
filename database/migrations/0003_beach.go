package migrations

import (
	"gorm.io/gorm"

	"github.com/lidosole/lidosole/app/models"
	"github.com/lidosole/lidosole/pkg/migration"
)

func init() {
	migration.Register("20260301000200_create_beach_tables", &createBeachTables{})
}

type createBeachTables struct{}

func (createBeachTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Umbrella{},
		&models.Reservation{},
		&models.Subscription{},
	)
}

func (createBeachTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(
		&models.Subscription{},
		&models.Reservation{},
		&models.Umbrella{},
	)
}
