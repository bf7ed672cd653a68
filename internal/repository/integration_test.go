//go:build integration

package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/utilgate/utilgate/internal/testutil"
)

func TestIntegrationUsageRepository_ConcurrentIncrement(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	user := testutil.NewTestUser(t, testutil.UniqueEmail("counter"))
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if err := repo.EnsureUsage(ctx, user.ID); err != nil {
		t.Fatalf("EnsureUsage failed: %v", err)
	}

	// N concurrent increments for a fresh user must land on exactly N:
	// the upsert is a single atomic statement, so no increment may be
	// lost to interleaving.
	const n = 50

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.IncrementUsage(ctx, user.ID)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("IncrementUsage failed: %v", err)
		}
	}

	count, err := repo.GetUsage(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUsage failed: %v", err)
	}
	if count != n {
		t.Errorf("count = %d, want exactly %d", count, n)
	}
}

func TestIntegrationUsageRepository_FirstIncrementCreatesRow(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	user := testutil.NewTestUser(t, testutil.UniqueEmail("lazy"))
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	// No EnsureUsage: a fresh user reads zero and the first increment
	// creates the row itself.
	count, err := repo.GetUsage(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUsage failed: %v", err)
	}
	if count != 0 {
		t.Errorf("fresh user count = %d, want 0", count)
	}

	if err := repo.IncrementUsage(ctx, user.ID); err != nil {
		t.Fatalf("IncrementUsage failed: %v", err)
	}

	count, err = repo.GetUsage(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUsage failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestIntegrationUserRepository_DuplicateEmail(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	email := testutil.UniqueEmail("dup")
	first := testutil.NewTestUser(t, email)
	if err := repo.CreateUser(ctx, first); err != nil {
		t.Fatalf("CreateUser (first) failed: %v", err)
	}

	second := testutil.NewTestUser(t, email)
	err := repo.CreateUser(ctx, second)
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got: %v", err)
	}
}

func TestIntegrationAPIKeyRepository_OwnerLookup(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	user := testutil.NewTestUser(t, testutil.UniqueEmail("owner"))
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	key := testutil.NewTestAPIKey(t, user.ID)
	if err := repo.CreateAPIKey(ctx, key); err != nil {
		t.Fatalf("CreateAPIKey failed: %v", err)
	}

	userID, email, err := repo.GetAPIKeyOwner(ctx, key.Key)
	if err != nil {
		t.Fatalf("GetAPIKeyOwner failed: %v", err)
	}
	if userID != user.ID {
		t.Errorf("userID = %q, want %q", userID, user.ID)
	}
	if email != user.Email {
		t.Errorf("email = %q, want %q", email, user.Email)
	}

	_, _, err = repo.GetAPIKeyOwner(ctx, "000000000000000000000000000000000000000000000000")
	if !errors.Is(err, ErrAPIKeyNotFound) {
		t.Errorf("expected ErrAPIKeyNotFound, got: %v", err)
	}
}

func newRepoTestEnv(t *testing.T) (context.Context, *Repository) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset schema: %v", err)
	}

	return ctx, repo
}
