package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vietanh2810/event-api/internal/domain"
	"github.com/vietanh2810/event-api/internal/metrics"
	"github.com/vietanh2810/event-api/internal/notify"
	"github.com/vietanh2810/event-api/internal/repository"
)

var (
	ErrQuestionNotFound = repository.ErrQuestionNotFound
	ErrAlreadyVoted     = repository.ErrAlreadyVoted
	ErrEmptyQuestion    = errors.New("question must not be empty")
	ErrCreatorCannotAsk = errors.New("the event creator cannot ask questions")
	ErrNotRegistered    = errors.New("only registered attendees can do this")
	ErrNotQuestionOwner = errors.New("only the author or the event creator can delete this question")
	ErrOwnQuestionVote  = errors.New("cannot vote for your own question")
)

type QuestionRepository interface {
	Create(ctx context.Context, question domain.Question) (domain.Question, error)
	FindByID(ctx context.Context, id uint) (domain.Question, error)
	FindByEventID(ctx context.Context, eventID uint) ([]domain.Question, error)
	Delete(ctx context.Context, id uint) error
	Vote(ctx context.Context, questionID, userID uint) (int, error)
}

type QuestionEventRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	IsRegistered(ctx context.Context, eventID, userID uint) (bool, error)
}

type QuestionService struct {
	repo      QuestionRepository
	eventRepo QuestionEventRepository
	userRepo  UserRepository
	publisher notify.Publisher
}

func NewQuestionService(
	repo QuestionRepository,
	eventRepo QuestionEventRepository,
	userRepo UserRepository,
	publisher notify.Publisher,
) *QuestionService {
	return &QuestionService{
		repo:      repo,
		eventRepo: eventRepo,
		userRepo:  userRepo,
		publisher: publisher,
	}
}

// Ask posts a question on an event. The creator is rejected before attendance is looked at.
func (s *QuestionService) Ask(ctx context.Context, userID, eventID uint, text string) (domain.Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Question{}, ErrEmptyQuestion
	}

	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return domain.Question{}, fmt.Errorf("s.eventRepo.FindByID -> %w", err)
	}

	if event.CreatorID == userID {
		return domain.Question{}, ErrCreatorCannotAsk
	}

	registered, err := s.eventRepo.IsRegistered(ctx, eventID, userID)
	if err != nil {
		return domain.Question{}, fmt.Errorf("s.eventRepo.IsRegistered -> %w", err)
	}
	if !registered {
		return domain.Question{}, ErrNotRegistered
	}

	author, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return domain.Question{}, fmt.Errorf("s.userRepo.FindByID -> %w", err)
	}

	question, err := s.repo.Create(ctx, domain.Question{
		EventID: eventID,
		AskedBy: author.Summary(),
		Text:    text,
	})
	if err != nil {
		return domain.Question{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	metrics.QuestionsAsked.Inc()
	publish(ctx, s.publisher, notify.Message{
		Type:       notify.TypeQuestionAsked,
		EventID:    eventID,
		UserID:     userID,
		QuestionID: question.ID,
	})

	return question, nil
}

func (s *QuestionService) Get(ctx context.Context, questionID uint) (domain.Question, error) {
	question, err := s.repo.FindByID(ctx, questionID)
	if err != nil {
		return domain.Question{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return question, nil
}

// Delete removes a question and its votes. Allowed for the author and the event creator.
func (s *QuestionService) Delete(ctx context.Context, questionID, callerID uint) error {
	question, err := s.repo.FindByID(ctx, questionID)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if question.AskedBy.ID != callerID {
		event, err := s.eventRepo.FindByID(ctx, question.EventID)
		if err != nil {
			return fmt.Errorf("s.eventRepo.FindByID -> %w", err)
		}
		if event.CreatorID != callerID {
			return ErrNotQuestionOwner
		}
	}

	if err = s.repo.Delete(ctx, questionID); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *QuestionService) ListForEvent(ctx context.Context, eventID uint) ([]domain.Question, error) {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return nil, fmt.Errorf("s.eventRepo.FindByID -> %w", err)
	}

	questions, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByEventID -> %w", err)
	}

	return questions, nil
}

// Vote upvotes a question once per user and returns the new vote count. Voters must be the
// event creator or one of its attendees, and never the author.
func (s *QuestionService) Vote(ctx context.Context, questionID, userID uint) (int, error) {
	question, err := s.repo.FindByID(ctx, questionID)
	if err != nil {
		return 0, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if question.AskedBy.ID == userID {
		return 0, ErrOwnQuestionVote
	}

	event, err := s.eventRepo.FindByID(ctx, question.EventID)
	if err != nil {
		return 0, fmt.Errorf("s.eventRepo.FindByID -> %w", err)
	}

	if event.CreatorID != userID {
		registered, err := s.eventRepo.IsRegistered(ctx, event.ID, userID)
		if err != nil {
			return 0, fmt.Errorf("s.eventRepo.IsRegistered -> %w", err)
		}
		if !registered {
			return 0, ErrNotRegistered
		}
	}

	votes, err := s.repo.Vote(ctx, questionID, userID)
	if err != nil {
		return 0, fmt.Errorf("s.repo.Vote -> %w", err)
	}

	metrics.QuestionVotes.Inc()

	return votes, nil
}
