package repo

import (
	"Reisekarte/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB открывает соединение с Postgres и приводит схему к актуальной.
// Одна миграция на старте — никакого определения колонок «методом тыка»
// в рантайме.
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate применяет AutoMigrate ко всем серверным моделям.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Location{})
}
