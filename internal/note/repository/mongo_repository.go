package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nickgeorgouses/note-app/internal/common/constants"
	"github.com/nickgeorgouses/note-app/internal/common/db"
	"github.com/nickgeorgouses/note-app/internal/note/domain"
)

type noteDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	UserID    string             `bson:"userId"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt *time.Time         `bson:"updatedAt,omitempty"`
	SharedBy  string             `bson:"sharedBy,omitempty"`
	IsShared  bool               `bson:"isShared,omitempty"`
}

func (d noteDocument) toDomain() domain.Note {
	return domain.Note{
		ID:        domain.ID(d.ID.Hex()),
		Title:     d.Title,
		Content:   d.Content,
		UserID:    d.UserID,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
		SharedBy:  d.SharedBy,
		IsShared:  d.IsShared,
	}
}

type MongoRepository struct {
	gateway *db.Gateway
}

func NewMongoRepository(gateway *db.Gateway) *MongoRepository {
	return &MongoRepository{gateway: gateway}
}

func (r *MongoRepository) Create(ctx context.Context, note domain.Note) (domain.ID, error) {
	notes, err := r.gateway.Collection(constants.NotesCollection)
	if err != nil {
		return "", err
	}

	doc := noteDocument{
		ID:        primitive.NewObjectID(),
		Title:     note.Title,
		Content:   note.Content,
		UserID:    note.UserID,
		CreatedAt: note.CreatedAt,
		SharedBy:  note.SharedBy,
		IsShared:  note.IsShared,
	}

	start := time.Now()
	_, err = notes.InsertOne(ctx, doc)
	if err := db.ObserveQuery("create note", table, start, err); err != nil {
		return "", err
	}
	return domain.ID(doc.ID.Hex()), nil
}

func (r *MongoRepository) FindOwned(ctx context.Context, id domain.ID, ownerID string) (domain.Note, error) {
	notes, err := r.gateway.Collection(constants.NotesCollection)
	if err != nil {
		return domain.Note{}, err
	}

	oid, err := parseObjectID(id)
	if err != nil {
		return domain.Note{}, err
	}

	start := time.Now()
	var doc noteDocument
	err = notes.FindOne(ctx, bson.M{"_id": oid, "userId": ownerID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		err = ErrNoteNotFound
	}
	if err := db.ObserveQuery("find note", table, start, err, ErrNoteNotFound); err != nil {
		return domain.Note{}, err
	}
	return doc.toDomain(), nil
}

func (r *MongoRepository) ListByOwner(ctx context.Context, ownerID string, filter domain.Filter) ([]domain.Note, error) {
	notes, err := r.gateway.Collection(constants.NotesCollection)
	if err != nil {
		return nil, err
	}

	query := bson.M{"userId": ownerID}
	switch filter {
	case domain.FilterCreated:
		query["isShared"] = bson.M{"$ne": true}
	case domain.FilterShared:
		query["isShared"] = true
	}

	start := time.Now()
	cursor, err := notes.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, db.ObserveQuery("list notes", table, start, err)
	}
	defer cursor.Close(ctx)

	var docs []noteDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, db.ObserveQuery("list notes", table, start, err)
	}
	_ = db.ObserveQuery("list notes", table, start, nil)

	result := make([]domain.Note, 0, len(docs))
	for _, doc := range docs {
		result = append(result, doc.toDomain())
	}
	return result, nil
}

func (r *MongoRepository) UpdateOwned(ctx context.Context, id domain.ID, ownerID string, title, content string, updatedAt time.Time) error {
	notes, err := r.gateway.Collection(constants.NotesCollection)
	if err != nil {
		return err
	}

	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := notes.UpdateOne(ctx,
		bson.M{"_id": oid, "userId": ownerID},
		bson.M{"$set": bson.M{"title": title, "content": content, "updatedAt": updatedAt}},
	)
	if err == nil && res.MatchedCount == 0 {
		err = ErrNoteNotFound
	}
	return db.ObserveQuery("update note", table, start, err, ErrNoteNotFound)
}

func (r *MongoRepository) DeleteOwned(ctx context.Context, id domain.ID, ownerID string) error {
	notes, err := r.gateway.Collection(constants.NotesCollection)
	if err != nil {
		return err
	}

	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := notes.DeleteOne(ctx, bson.M{"_id": oid, "userId": ownerID})
	if err == nil && res.DeletedCount == 0 {
		err = ErrNoteNotFound
	}
	return db.ObserveQuery("delete note", table, start, err, ErrNoteNotFound)
}

func (r *MongoRepository) DeleteAllByOwner(ctx context.Context, ownerID string) (int64, error) {
	notes, err := r.gateway.Collection(constants.NotesCollection)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	res, err := notes.DeleteMany(ctx, bson.M{"userId": ownerID})
	if err := db.ObserveQuery("delete notes", table, start, err); err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func parseObjectID(id domain.ID) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(string(id))
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}
