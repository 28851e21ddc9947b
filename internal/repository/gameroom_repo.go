package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/quizclash/api/internal/model"
)

type GameRoomRepo interface {
	Create(ctx context.Context, room *model.GameRoom) error
	GetByCode(ctx context.Context, code string) (*model.GameRoom, error)
	Update(ctx context.Context, room *model.GameRoom) error
	SaveOutcome(ctx context.Context, code string, outcome *model.Outcome) error
	Delete(ctx context.Context, code string) error
}

type gameRoomRepo struct {
	collection *mongo.Collection
}

func NewGameRoomRepo(db *mongo.Database) GameRoomRepo {
	return &gameRoomRepo{
		collection: db.Collection("game_rooms"),
	}
}

func (r *gameRoomRepo) Create(ctx context.Context, room *model.GameRoom) error {
	if room.CreatedAt.IsZero() {
		room.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, room)
	return err
}

func (r *gameRoomRepo) GetByCode(ctx context.Context, code string) (*model.GameRoom, error) {
	var room model.GameRoom
	err := r.collection.FindOne(ctx, bson.M{"gameCode": code}).Decode(&room)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

func (r *gameRoomRepo) Update(ctx context.Context, room *model.GameRoom) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"gameCode": room.Code}, room)
	return err
}

func (r *gameRoomRepo) SaveOutcome(ctx context.Context, code string, outcome *model.Outcome) error {
	now := time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"gameCode": code}, bson.M{
		"$set": bson.M{
			"gameState":    model.GameStateEnded,
			"endedAt":      now,
			"outcome":      outcome,
			"finalResults": outcome.Results,
		},
	})
	return err
}

func (r *gameRoomRepo) Delete(ctx context.Context, code string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"gameCode": code})
	return err
}
