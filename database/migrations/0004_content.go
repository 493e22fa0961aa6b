package migrations

import (
	"gorm.io/gorm"

	"github.com/lidosole/lidosole/app/models"
	"github.com/lidosole/lidosole/pkg/migration"
)

func init() {
	migration.Register("20260301000300_create_content_tables", &createContentTables{})
}

type createContentTables struct{}

func (createContentTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Comment{},
		&models.Post{},
		&models.Image{},
	)
}

func (createContentTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(
		&models.Image{},
		&models.Post{},
		&models.Comment{},
	)
}
