package dao

import (
	"context"

	"gorm.io/gorm"
)

// InitTables migrates the schema and seeds the category catalogue.
func InitTables(db *gorm.DB, categories []string) error {
	err := db.AutoMigrate(
		&User{},
		&Category{},
		&Event{},
		&Attendee{},
		&Question{},
		&QuestionVote{},
	)
	if err != nil {
		return err
	}

	return NewCategoryDAO(db).Seed(context.Background(), categories)
}
