package storage

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"chat-hub/pkg/chat"
)

// Connect opens the sqlite database holding the presence audit trail
// and migrates its schema. The routing registries never live here; a
// restart starts from an empty presence state by design.
func Connect(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	if err := db.AutoMigrate(&chat.AuditLog{}); err != nil {
		return nil, fmt.Errorf("migrate audit schema: %w", err)
	}

	return db, nil
}
