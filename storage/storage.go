package storage

import (
	"fairtix-engine/config"
	"fairtix-engine/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DBClient struct {
	DB *gorm.DB
}

func NewSqliteClient(cfg config.SqliteConfig) *DBClient {
	db, err := gorm.Open(sqlite.Open(cfg.Dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(err)
	}

	return &DBClient{DB: db}
}

func NewMysqlClient(cfg config.MysqlConfig) *DBClient {
	db, err := gorm.Open(mysql.Open(cfg.Dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(err)
	}

	return &DBClient{DB: db}
}

// AutoMigrate ensures marketplace tables exist
func (db *DBClient) AutoMigrate() error {
	return db.DB.AutoMigrate(
		&models.Identity{},
		&models.RoleGrant{},
		&models.Event{},
		&models.EventPolicy{},
		&models.Ticket{},
		&models.PurchaseCount{},
		&models.Listing{},
		&models.Account{},
	)
}
