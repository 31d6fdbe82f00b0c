package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Question struct {
	ID uint `gorm:"primaryKey"`

	EventID uint   `gorm:"not null;index"`
	AskedBy uint   `gorm:"not null;index"`
	Author  User   `gorm:"foreignKey:AskedBy"`
	Text    string `gorm:"column:question;not null"`
	Votes   int    `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"not null"`
}

type QuestionVote struct {
	QuestionID uint `gorm:"primaryKey;autoIncrement:false"`
	UserID     uint `gorm:"primaryKey;autoIncrement:false"`

	CreatedAt time.Time `gorm:"not null"`
}

type QuestionDAO struct {
	db *gorm.DB
}

func NewQuestionDAO(db *gorm.DB) *QuestionDAO {
	return &QuestionDAO{
		db: db,
	}
}

func (d *QuestionDAO) Insert(ctx context.Context, question Question) (Question, error) {
	result := d.db.WithContext(ctx).Omit("Author").Create(&question)
	if result.Error != nil {
		return Question{}, result.Error
	}

	return question, nil
}

func (d *QuestionDAO) FindByID(ctx context.Context, id uint) (Question, error) {
	var question Question

	result := d.db.WithContext(ctx).Preload("Author").First(&question, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Question{}, ErrQuestionNotFound
		}

		return Question{}, result.Error
	}

	return question, nil
}

// FindByEventID orders by votes, highest first, then by id so ties keep insertion order.
func (d *QuestionDAO) FindByEventID(ctx context.Context, eventID uint) ([]Question, error) {
	questions := []Question{}

	result := d.db.WithContext(ctx).
		Preload("Author").
		Where("event_id = ?", eventID).
		Order("votes DESC").
		Order("id ASC").
		Find(&questions)
	if result.Error != nil {
		return nil, result.Error
	}

	return questions, nil
}

// Delete removes the question together with its votes.
func (d *QuestionDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&QuestionVote{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&Question{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrQuestionNotFound
		}

		return nil
	})
}

// InsertVote records one vote of userID and bumps the counter in the same transaction.
func (d *QuestionDAO) InsertVote(ctx context.Context, questionID, userID uint) (int, error) {
	var votes int

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&QuestionVote{QuestionID: questionID, UserID: userID}).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyVoted
			}

			return err
		}

		result := tx.Model(&Question{}).
			Where("id = ?", questionID).
			UpdateColumn("votes", gorm.Expr("votes + ?", 1))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrQuestionNotFound
		}

		return tx.Model(&Question{}).Select("votes").Where("id = ?", questionID).Row().Scan(&votes)
	})
	if err != nil {
		return 0, err
	}

	return votes, nil
}
