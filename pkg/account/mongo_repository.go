package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoAccountRepository implements AccountRepository on a MongoDB collection.
// Accounts are stored one document per account keyed by the account id.
type MongoAccountRepository struct {
	collection *mongo.Collection
}

// NewMongoAccountRepository ensures the collection indexes and returns the repository.
// The unique email index is what makes Insert fail atomically on duplicates.
func NewMongoAccountRepository(ctx context.Context, collection *mongo.Collection) (*MongoAccountRepository, error) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("accounts_email_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "verification_token", Value: 1}},
			Options: options.Index().SetName("accounts_verification_token").SetSparse(true),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, fmt.Errorf("failed to create account indexes: %w", err)
	}

	return &MongoAccountRepository{collection: collection}, nil
}

func (r *MongoAccountRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *MongoAccountRepository) FindByID(ctx context.Context, id string) (*Account, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (r *MongoAccountRepository) FindByValidToken(ctx context.Context, token string, now time.Time) (*Account, error) {
	if token == "" {
		return nil, ErrAccountNotFound
	}
	return r.findOne(ctx, bson.D{
		{Key: "verification_token", Value: token},
		{Key: "verification_expiry", Value: bson.D{{Key: "$gt", Value: now.UTC()}}},
	})
}

func (r *MongoAccountRepository) Insert(ctx context.Context, account *Account) error {
	_, err := r.collection.InsertOne(ctx, account)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

// Update replaces the document only while the stored version still matches.
func (r *MongoAccountRepository) Update(ctx context.Context, account *Account) error {
	next := account.clone()
	next.Version = account.Version + 1

	filter := bson.D{
		{Key: "_id", Value: account.ID},
		{Key: "version", Value: account.Version},
	}
	result, err := r.collection.ReplaceOne(ctx, filter, next)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrStaleAccount
	}

	account.Version = next.Version
	return nil
}

func (r *MongoAccountRepository) findOne(ctx context.Context, filter bson.D) (*Account, error) {
	var acct Account
	err := r.collection.FindOne(ctx, filter).Decode(&acct)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	acct.CreatedAt = acct.CreatedAt.UTC()
	if acct.VerificationExpiry != nil {
		utc := acct.VerificationExpiry.UTC()
		acct.VerificationExpiry = &utc
	}
	return &acct, nil
}
