package client

import (
	"log"
	"strings"
	"time"

	"shop-backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDBClient opens MySQL when given a DSN, or a local sqlite file when
// the URL is empty or ends in .db (dev default).
func InitDBClient(databaseURL string) *gorm.DB {
	var (
		db  *gorm.DB
		err error
	)

	if databaseURL == "" || strings.HasSuffix(databaseURL, ".db") {
		path := databaseURL
		if path == "" {
			path = "shop.db"
		}
		db, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	} else {
		db, err = gorm.Open(mysql.Open(databaseURL), &gorm.Config{})
	}
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal(err)
	}

	// Connection pool (important for webhooks)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.WebhookEvent{},
	); err != nil {
		log.Fatal(err)
	}

	return db
}
