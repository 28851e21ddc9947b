package service

import (
	"context"
	"fmt"

	"github.com/quizclash/api/internal/model"
	"github.com/quizclash/api/internal/repository"
)

// QuizService manages stored question sets.
type QuizService struct {
	quizRepo repository.QuizRepo
}

func NewQuizService(quizRepo repository.QuizRepo) *QuizService {
	return &QuizService{quizRepo: quizRepo}
}

func (s *QuizService) Create(ctx context.Context, quiz *model.Quiz) (*model.Quiz, error) {
	if len(quiz.Questions) == 0 {
		return nil, model.ErrNoQuestions
	}
	if err := s.quizRepo.Create(ctx, quiz); err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}
	return quiz, nil
}

func (s *QuizService) Get(ctx context.Context, id string) (*model.Quiz, error) {
	quiz, err := s.quizRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	return quiz, nil
}

func (s *QuizService) List(ctx context.Context) ([]*model.Quiz, error) {
	return s.quizRepo.List(ctx)
}
