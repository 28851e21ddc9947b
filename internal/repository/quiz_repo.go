package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/quizclash/api/internal/model"
)

type QuizRepo interface {
	Create(ctx context.Context, quiz *model.Quiz) error
	GetByID(ctx context.Context, id string) (*model.Quiz, error)
	List(ctx context.Context) ([]*model.Quiz, error)
}

type quizRepo struct {
	collection *mongo.Collection
}

func NewQuizRepo(db *mongo.Database) QuizRepo {
	return &quizRepo{
		collection: db.Collection("quizzes"),
	}
}

func (r *quizRepo) Create(ctx context.Context, quiz *model.Quiz) error {
	if quiz.CreatedAt.IsZero() {
		quiz.CreatedAt = time.Now()
	}
	result, err := r.collection.InsertOne(ctx, quiz)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		quiz.ID = oid.Hex()
	}
	return nil
}

func (r *quizRepo) GetByID(ctx context.Context, id string) (*model.Quiz, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var quiz model.Quiz
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&quiz)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepo) List(ctx context.Context) ([]*model.Quiz, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var quizzes []*model.Quiz
	if err := cursor.All(ctx, &quizzes); err != nil {
		return nil, err
	}
	return quizzes, nil
}
