// internal/service/livestream/infrastructure/mysql.go
package infrastructure

import (
	"time"

	driver "github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// OpenMysql 建立 GORM 连接并确保审计表存在。
func OpenMysql(user, password, addr, database string) (*gorm.DB, error) {
	cfg := driver.NewConfig()
	cfg.User = user
	cfg.Passwd = password
	cfg.Net = "tcp"
	cfg.Addr = addr
	cfg.DBName = database
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	db, err := gorm.Open(gormmysql.Open(cfg.FormatDSN()), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&StreamEventModel{}); err != nil {
		return nil, err
	}
	return db, nil
}
