// Package migrations contains the schema migrations, applied in file-name
// order by `lidosole migrate`.
package migrations

import (
	"gorm.io/gorm"

	"github.com/lidosole/lidosole/app/models"
	"github.com/lidosole/lidosole/pkg/migration"
)

func init() {
	migration.Register("20260301000000_create_users", &createUsers{})
}

type createUsers struct{}

func (createUsers) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (createUsers) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.User{})
}
