// Package account implements the account lifecycle: registration with email
// verification and password login.
//
// An account is created Unverified with a pending verification token and
// expiry. VerifyEmail matches the token and its stored expiry in the
// repository, flips the account to Verified and clears both fields, so a
// token can be consumed at most once. Login requires a verified account and
// returns a stateless session JWT.
//
// # Repositories
//
// AccountRepository has four implementations selected by NewAccountRepository:
//
//   - "mongo": MongoAccountRepository, unique index on email
//   - "postgres": PostgresAccountRepository, schema in migrations/ (goose)
//   - "file": FileAccountRepository, a JSON file in a data directory
//   - "memory": InMemAccountRepository
//
// All of them reject duplicate emails on Insert and use the Version field for
// optimistic concurrency on Update.
//
// # Usage
//
//	repo := account.NewInMemAccountRepository()
//	tokens := tokengenerator.NewTokenService(tokengenerator.NewJwtTokenGenerator(secret, "issuer", "audience"))
//	svc := account.NewAccountService(repo, tokens,
//		account.WithNotifier(notifier),
//		account.WithVerificationBaseURL("https://example.com/api/auth/verify"),
//	)
//
//	err := svc.Register(ctx, "a@example.com", "pw123")
package account
