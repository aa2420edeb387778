package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// RepositoryConfig contains configuration for creating an account repository
type RepositoryConfig struct {
	// Collection is required for mongo repositories
	Collection *mongo.Collection
	// Pool is required for PostgreSQL repositories
	Pool *pgxpool.Pool
	// DataDir is required for file-based repositories
	DataDir string
}

// NewAccountRepository creates an account repository based on the persistence type
func NewAccountRepository(ctx context.Context, persistenceType string, config RepositoryConfig) (AccountRepository, error) {
	switch strings.ToLower(persistenceType) {
	case "mongo", "mongodb":
		if config.Collection == nil {
			return nil, fmt.Errorf("collection required for mongo repository")
		}
		return NewMongoAccountRepository(ctx, config.Collection)
	case "postgres", "postgresql":
		if config.Pool == nil {
			return nil, fmt.Errorf("pool required for postgres repository")
		}
		return NewPostgresAccountRepository(config.Pool), nil
	case "file":
		if config.DataDir == "" {
			return nil, fmt.Errorf("dataDir required for file repository")
		}
		return NewFileAccountRepository(config.DataDir)
	case "memory", "inmem":
		return NewInMemAccountRepository(), nil
	default:
		return nil, fmt.Errorf("unsupported persistence type: %s (supported: mongo, postgres, file, memory)", persistenceType)
	}
}
