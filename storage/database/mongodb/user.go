package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sigimobiliare/sig/core/user"
)

// userDoc is keyed by the normalized email.
type userDoc struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"passwordHash"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

func (doc userDoc) toUser() user.User {
	return user.User{
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		CreatedAt:    doc.CreatedAt.UTC(),
		UpdatedAt:    doc.UpdatedAt.UTC(),
	}
}

type userRepository struct {
	col *mongo.Collection
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{col: db.collection(usersCollection)}
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var doc userDoc
	err := repo.col.FindOne(ctx, bson.M{"_id": email}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return user.User{}, user.ErrNotFound
	}
	if err != nil {
		return user.User{}, err
	}
	return doc.toUser(), nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	doc := userDoc{
		ID:           usr.Email,
		Email:        usr.Email,
		PasswordHash: usr.PasswordHash,
		CreatedAt:    usr.CreatedAt,
		UpdatedAt:    usr.UpdatedAt,
	}
	if _, err := repo.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.User{}, user.ErrExists
		}
		return user.User{}, err
	}
	return usr, nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	res, err := repo.col.UpdateOne(ctx, bson.M{"_id": usr.Email}, bson.M{
		"$set": bson.M{
			"passwordHash": usr.PasswordHash,
			"updatedAt":    usr.UpdatedAt,
		},
	})
	if err != nil {
		return user.User{}, err
	}
	if res.MatchedCount == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}
