package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nickgeorgouses/note-app/internal/common/constants"
	"github.com/nickgeorgouses/note-app/internal/common/db"
	"github.com/nickgeorgouses/note-app/internal/user/domain"
)

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d userDocument) toDomain() domain.User {
	return domain.User{
		ID:           domain.ID(d.ID.Hex()),
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.Password,
		CreatedAt:    d.CreatedAt,
	}
}

type MongoRepository struct {
	gateway *db.Gateway
}

func NewMongoRepository(gateway *db.Gateway) *MongoRepository {
	return &MongoRepository{gateway: gateway}
}

func (r *MongoRepository) Create(ctx context.Context, user domain.User) (domain.ID, error) {
	users, err := r.gateway.Collection(constants.UsersCollection)
	if err != nil {
		return "", err
	}

	doc := userDocument{
		ID:        primitive.NewObjectID(),
		Username:  user.Username,
		Email:     user.Email,
		Password:  user.PasswordHash,
		CreatedAt: user.CreatedAt,
	}

	start := time.Now()
	_, err = users.InsertOne(ctx, doc)
	if db.IsUniqueViolation(err) {
		err = ErrUserAlreadyExists
	}
	if err := db.ObserveQuery("create user", table, start, err, ErrUserAlreadyExists); err != nil {
		return "", err
	}
	return domain.ID(doc.ID.Hex()), nil
}

func (r *MongoRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.findOne(ctx, "find user by email", bson.M{"email": email})
}

func (r *MongoRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.findOne(ctx, "find user by username", bson.M{"username": username})
}

func (r *MongoRepository) findOne(ctx context.Context, operation string, filter bson.M) (domain.User, error) {
	users, err := r.gateway.Collection(constants.UsersCollection)
	if err != nil {
		return domain.User{}, err
	}

	start := time.Now()
	var doc userDocument
	err = users.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		err = ErrUserNotFound
	}
	if err := db.ObserveQuery(operation, table, start, err, ErrUserNotFound); err != nil {
		return domain.User{}, err
	}
	return doc.toDomain(), nil
}

func (r *MongoRepository) Delete(ctx context.Context, id domain.ID) error {
	users, err := r.gateway.Collection(constants.UsersCollection)
	if err != nil {
		return err
	}

	oid, err := primitive.ObjectIDFromHex(string(id))
	if err != nil {
		return ErrUserNotFound
	}

	start := time.Now()
	_, err = users.DeleteOne(ctx, bson.M{"_id": oid})
	return db.ObserveQuery("delete user", table, start, err)
}
