package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/event-api/internal/domain"
	"github.com/vietanh2810/event-api/internal/repository/dao"
)

var (
	ErrQuestionNotFound = dao.ErrQuestionNotFound
	ErrAlreadyVoted     = dao.ErrAlreadyVoted
)

type QuestionDAO interface {
	Insert(ctx context.Context, question dao.Question) (dao.Question, error)
	FindByID(ctx context.Context, id uint) (dao.Question, error)
	FindByEventID(ctx context.Context, eventID uint) ([]dao.Question, error)
	Delete(ctx context.Context, id uint) error
	InsertVote(ctx context.Context, questionID, userID uint) (int, error)
}

type QuestionRepository struct {
	dao QuestionDAO
}

func NewQuestionRepository(dao QuestionDAO) *QuestionRepository {
	return &QuestionRepository{
		dao: dao,
	}
}

func (r *QuestionRepository) Create(ctx context.Context, question domain.Question) (domain.Question, error) {
	created, err := r.dao.Insert(ctx, dao.Question{
		EventID: question.EventID,
		AskedBy: question.AskedBy.ID,
		Text:    question.Text,
	})
	if err != nil {
		return domain.Question{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	created.Author = dao.User{
		ID:        question.AskedBy.ID,
		FirstName: question.AskedBy.FirstName,
		LastName:  question.AskedBy.LastName,
	}

	return r.daoToDomain(created), nil
}

func (r *QuestionRepository) FindByID(ctx context.Context, id uint) (domain.Question, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Question{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *QuestionRepository) FindByEventID(ctx context.Context, eventID uint) ([]domain.Question, error) {
	found, err := r.dao.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEventID -> %w", err)
	}

	questions := make([]domain.Question, 0, len(found))
	for _, q := range found {
		questions = append(questions, r.daoToDomain(q))
	}

	return questions, nil
}

func (r *QuestionRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *QuestionRepository) Vote(ctx context.Context, questionID, userID uint) (int, error) {
	votes, err := r.dao.InsertVote(ctx, questionID, userID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.InsertVote -> %w", err)
	}

	return votes, nil
}

func (r *QuestionRepository) daoToDomain(q dao.Question) domain.Question {
	return domain.Question{
		ID:      q.ID,
		EventID: q.EventID,
		AskedBy: domain.UserSummary{
			ID:        q.AskedBy,
			FirstName: q.Author.FirstName,
			LastName:  q.Author.LastName,
		},
		Text:      q.Text,
		Votes:     q.Votes,
		CreatedAt: q.CreatedAt,
	}
}
