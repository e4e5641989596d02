// Package database opens the gorm connection behind the SQL user store.
// It supports sqlite and postgres, retries the initial connect, and logs
// queries through the service logger.
//
// Connections use gorm's TranslateError, so a second registration of a
// username fails with gorm.ErrDuplicatedKey on either driver.
//
//	comp := database.NewComponent(cfg.Database, log).WithAutoMigrate(&userstore.UserModel{})
//	registry.Register(comp)
package database
