package account

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-account/migrations"
	"github.com/tendant/simple-account/pkg/config"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) *postgres.PostgresContainer {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("account_db"),
		postgres.WithUsername("account"),
		postgres.WithPassword("pwd"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})
	return container
}

// newSchemaPool connects through DatabaseConfig so the pool carries the
// schema as its search_path, and migrates that schema.
func newSchemaPool(t *testing.T, container *postgres.PostgresContainer, schema string) *pgxpool.Pool {
	ctx := context.Background()

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	dbConfig := config.DatabaseConfig{
		Host:     host,
		Port:     uint16(port.Int()),
		Database: "account_db",
		User:     "account",
		Password: "pwd",
		Schema:   schema,
	}
	pool, err := pgxpool.New(ctx, dbConfig.ToDatabaseURL())
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, migrations.Up(ctx, pool, schema))
	return pool
}

func TestPostgresAccountRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping PostgreSQL test in short mode")
	}

	container := startPostgres(t)
	pool := newSchemaPool(t, container, "public")
	repo := NewPostgresAccountRepository(pool)
	testAccountRepository(t, repo)

	t.Run("MigrationsAreIdempotent", func(t *testing.T) {
		require.NoError(t, migrations.Up(context.Background(), pool, "public"))
	})

	t.Run("MalformedID", func(t *testing.T) {
		_, err := repo.FindByID(context.Background(), "not-a-uuid")
		require.ErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("SchemaIsolation", func(t *testing.T) {
		ctx := context.Background()
		tenantPool := newSchemaPool(t, container, "tenant_a")
		tenantRepo := NewPostgresAccountRepository(tenantPool)

		acct := newTestAccount("schema@x.com", time.Now().UTC().Add(time.Hour))
		require.NoError(t, tenantRepo.Insert(ctx, acct))

		var count int
		require.NoError(t, pool.QueryRow(ctx, "SELECT count(*) FROM tenant_a.accounts WHERE email = $1", acct.Email).Scan(&count))
		assert.Equal(t, 1, count)
		require.NoError(t, pool.QueryRow(ctx, "SELECT count(*) FROM public.accounts WHERE email = $1", acct.Email).Scan(&count))
		assert.Equal(t, 0, count)

		var versionTable *string
		require.NoError(t, pool.QueryRow(ctx, "SELECT to_regclass('tenant_a.goose_db_version')::text").Scan(&versionTable))
		assert.NotNil(t, versionTable)

		_, err := repo.FindByEmail(ctx, acct.Email)
		assert.ErrorIs(t, err, ErrAccountNotFound)
		found, err := tenantRepo.FindByEmail(ctx, acct.Email)
		require.NoError(t, err)
		assert.Equal(t, acct.ID, found.ID)
	})
}
