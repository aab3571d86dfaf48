package repository

import (
	"context"
	"errors"
	"time"

	"mingle/internal/entity"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrMessageNotFound = errors.New("message not found")

type MessageRepository interface {
	Create(ctx context.Context, message entity.Message) (entity.Message, error)
	Get(ctx context.Context, messageId string) (entity.Message, error)
	HistoryBetween(ctx context.Context, userId, counterpartId string) ([]entity.Message, error)
	Conversations(ctx context.Context, userId string) ([]entity.Conversation, error)
	MarkRead(ctx context.Context, messageId string, readAt time.Time) (bool, error)
	MarkConversationRead(ctx context.Context, userId, counterpartId string, readAt time.Time) (int64, error)
	UnreadCount(ctx context.Context, userId string) (int64, error)
}

type messageRepository struct {
	db *mongo.Database
}

func NewMessageRepository(db *mongo.Database) MessageRepository {
	return &messageRepository{
		db: db,
	}
}

func (r *messageRepository) Create(ctx context.Context, message entity.Message) (entity.Message, error) {
	collection := r.db.Collection("messages")

	message.Id = uuid.New().String()
	message.CreatedAt = time.Now()
	message.IsRead = false
	message.ReadAt = nil

	_, err := collection.InsertOne(ctx, message)
	if err != nil {
		return entity.Message{}, err
	}

	return message, nil
}

func (r *messageRepository) Get(ctx context.Context, messageId string) (entity.Message, error) {
	collection := r.db.Collection("messages")
	filter := bson.M{"_id": messageId}

	var message entity.Message
	err := collection.FindOne(ctx, filter).Decode(&message)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return entity.Message{}, ErrMessageNotFound
		}
		return entity.Message{}, err
	}

	return message, nil
}

// HistoryBetween returns every message exchanged between the pair, oldest
// first.
func (r *messageRepository) HistoryBetween(ctx context.Context, userId, counterpartId string) ([]entity.Message, error) {
	collection := r.db.Collection("messages")

	filter := bson.M{
		"$or": bson.A{
			bson.M{"from": userId, "to": counterpartId},
			bson.M{"from": counterpartId, "to": userId},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []entity.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}

	return messages, nil
}

// Conversations aggregates one entry per counterpart the user has exchanged
// messages with: the most recent message of the pair, the counterpart's
// public profile, and how many of their messages remain unread. Ordered by
// most recent message first.
func (r *messageRepository) Conversations(ctx context.Context, userId string) ([]entity.Conversation, error) {
	collection := r.db.Collection("messages")

	matchStage := bson.D{{Key: "$match", Value: bson.M{
		"$or": bson.A{
			bson.M{"from": userId},
			bson.M{"to": userId},
		},
	}}}
	// The counterpart of each message, seen from userId's side.
	addOtherStage := bson.D{{Key: "$addFields", Value: bson.M{
		"other": bson.M{"$cond": bson.A{
			bson.M{"$eq": bson.A{"$from", userId}},
			"$to",
			"$from",
		}},
	}}}
	sortStage := bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}}
	groupStage := bson.D{{Key: "$group", Value: bson.M{
		"_id":         "$other",
		"lastMessage": bson.M{"$first": "$$ROOT"},
		"unreadCount": bson.M{"$sum": bson.M{"$cond": bson.A{
			bson.M{"$and": bson.A{
				bson.M{"$eq": bson.A{"$from", "$other"}},
				bson.M{"$eq": bson.A{"$to", userId}},
				bson.M{"$eq": bson.A{"$isRead", false}},
			}},
			1,
			0,
		}}},
	}}}
	lookupStage := bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: "users"},
		{Key: "localField", Value: "_id"},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: "user"},
	}}}
	unwindStage := bson.D{{Key: "$unwind", Value: "$user"}}
	projectStage := bson.D{{Key: "$project", Value: bson.M{
		"_id": 0,
		"user": bson.M{
			"_id":       "$user._id",
			"name":      "$user.name",
			"username":  "$user.username",
			"avatarUrl": "$user.avatarUrl",
		},
		"lastMessage": 1,
		"unreadCount": 1,
	}}}
	orderStage := bson.D{{Key: "$sort", Value: bson.D{{Key: "lastMessage.createdAt", Value: -1}}}}

	cursor, err := collection.Aggregate(ctx, mongo.Pipeline{
		matchStage,
		addOtherStage,
		sortStage,
		groupStage,
		lookupStage,
		unwindStage,
		projectStage,
		orderStage,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var conversations []entity.Conversation
	if err := cursor.All(ctx, &conversations); err != nil {
		return nil, err
	}

	return conversations, nil
}

// MarkRead transitions a single message to read. The match is conditioned on
// isRead=false in the same update, so a concurrent mark cannot set readAt
// twice; re-marking an already-read message modifies nothing. Returns whether
// this call performed the transition.
func (r *messageRepository) MarkRead(ctx context.Context, messageId string, readAt time.Time) (bool, error) {
	collection := r.db.Collection("messages")

	filter := bson.M{"_id": messageId, "isRead": false}
	update := bson.M{"$set": bson.M{"isRead": true, "readAt": readAt}}

	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}

	return result.ModifiedCount > 0, nil
}

// MarkConversationRead transitions every unread message from counterpartId to
// userId and returns how many were transitioned.
func (r *messageRepository) MarkConversationRead(ctx context.Context, userId, counterpartId string, readAt time.Time) (int64, error) {
	collection := r.db.Collection("messages")

	filter := bson.M{"from": counterpartId, "to": userId, "isRead": false}
	update := bson.M{"$set": bson.M{"isRead": true, "readAt": readAt}}

	result, err := collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}

	return result.ModifiedCount, nil
}

func (r *messageRepository) UnreadCount(ctx context.Context, userId string) (int64, error) {
	collection := r.db.Collection("messages")
	filter := bson.M{"to": userId, "isRead": false}

	return collection.CountDocuments(ctx, filter)
}
