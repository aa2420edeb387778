package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func setupMongoAccountRepository(t *testing.T) *MongoAccountRepository {
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:6")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Disconnect(ctx)
	})

	repo, err := NewMongoAccountRepository(ctx, client.Database("account_db").Collection("accounts"))
	require.NoError(t, err)
	return repo
}

func TestMongoAccountRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping MongoDB test in short mode")
	}

	repo := setupMongoAccountRepository(t)
	testAccountRepository(t, repo)

	t.Run("IndexCreationIsIdempotent", func(t *testing.T) {
		_, err := NewMongoAccountRepository(context.Background(), repo.collection)
		require.NoError(t, err)
	})
}
