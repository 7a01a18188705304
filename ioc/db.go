package ioc

import (
	"os"
	"path/filepath"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/thesammykins/r2-image-worker/config"
)

// InitDB opens the metadata database for the fs storage backend: mysql when
// a DSN is configured, otherwise a sqlite file inside the data directory.
func InitDB(cfg *config.Config) *gorm.DB {
	var dialector gorm.Dialector
	if dsn := cfg.Storage.DSN; dsn != "" {
		dialector = mysql.Open(dsn)
	} else {
		if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
			panic(err)
		}
		dialector = sqlite.Open(filepath.Join(cfg.Storage.DataDir, "metadata.db"))
	}
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		panic(err)
	}
	return db
}
