package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quizclash/api/config"
	"github.com/quizclash/api/internal/model"
	"github.com/quizclash/api/internal/repository"
)

func boolPtr(b bool) *bool { return &b }

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	quizRepo := repository.NewQuizRepo(client.Database(cfg.MongoDB))

	quiz := &model.Quiz{
		Title:    "World Capitals",
		Category: "geography",
		Questions: []model.Question{
			{
				Type:        model.QuestionMultipleChoice,
				Prompt:      "What is the capital of France?",
				Options:     []string{"Paris", "Lyon", "Marseille", "Nice"},
				CorrectText: "Paris",
			},
			{
				Type:        model.QuestionTrueFalse,
				Prompt:      "Canberra is the capital of Australia.",
				CorrectBool: boolPtr(true),
			},
			{
				Type:        model.QuestionMultipleChoice,
				Prompt:      "What is the capital of Japan?",
				Options:     []string{"Osaka", "Tokyo", "Kyoto", "Nagoya"},
				CorrectText: "Tokyo",
				Explanation: "Tokyo has been the capital since 1868.",
			},
			{
				Type:     model.QuestionMultipleChoice,
				Prompt:   "Which city is the seat of the Dutch government?",
				Options:  []string{"Amsterdam", "The Hague", "Rotterdam", "Utrecht"},
				Accepted: []string{"The Hague", "Den Haag"},
			},
		},
	}

	if err := quizRepo.Create(ctx, quiz); err != nil {
		log.Fatalf("Failed to seed quiz: %v", err)
	}

	fmt.Printf("Seeded quiz %s (%d questions)\n", quiz.ID, len(quiz.Questions))
}
