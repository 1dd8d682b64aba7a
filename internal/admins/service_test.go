package admins

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type fakeRepo struct {
	byUsername map[string]*Admin
	lastUpsert *Admin
	inserted   *Admin
	count      int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byUsername: map[string]*Admin{}}
}

func (f *fakeRepo) GetByUsername(ctx context.Context, username string) (*Admin, error) {
	return f.byUsername[username], nil
}

func (f *fakeRepo) GetBySub(ctx context.Context, sub string) (*Admin, error) {
	for _, a := range f.byUsername {
		if a.Sub == sub {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) UpsertBySub(ctx context.Context, a *Admin) (*Admin, error) {
	f.lastUpsert = a
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	ret := *a
	ret.ID = "abcd1234"
	return &ret, nil
}

func (f *fakeRepo) Insert(ctx context.Context, a *Admin) (*Admin, error) {
	f.inserted = a
	f.count++
	ret := *a
	ret.ID = "efgh5678"
	return &ret, nil
}

func (f *fakeRepo) Count(ctx context.Context) (int64, error) {
	return f.count, nil
}

func TestAuthenticate(t *testing.T) {
	repo := newFakeRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	repo.byUsername["admin"] = &Admin{Username: "admin", PasswordHash: string(hash)}
	svc := NewService(repo)
	ctx := context.Background()

	a, err := svc.Authenticate(ctx, "admin", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Username != "admin" {
		t.Fatalf("unexpected admin: %+v", a)
	}

	if _, err := svc.Authenticate(ctx, "admin", "wrong"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody", "s3cret"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got: %v", err)
	}
}

func TestUpsertFromClaims(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	a, err := svc.UpsertFromClaims(ctx, map[string]interface{}{
		"sub":                "sub-123",
		"email":              "x@example.com",
		"name":               "X Admin",
		"preferred_username": "xadmin",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == nil || a.Sub != "sub-123" || a.Username != "xadmin" {
		t.Fatalf("unexpected admin: %+v", a)
	}
	if repo.lastUpsert == nil || repo.lastUpsert.CreatedAt.IsZero() {
		t.Fatalf("expected upsert with timestamps, got: %+v", repo.lastUpsert)
	}
	if a.ID == "" {
		t.Fatal("expected repo-assigned id")
	}

	// username falls back to email
	a, err = svc.UpsertFromClaims(ctx, map[string]interface{}{"sub": "sub-2", "email": "y@example.com"})
	if err != nil || a.Username != "y@example.com" {
		t.Fatalf("expected email fallback, got %+v err=%v", a, err)
	}

	// missing sub returns nil
	a, err = svc.UpsertFromClaims(ctx, map[string]interface{}{"email": "z@example.com"})
	if err != nil || a != nil {
		t.Fatalf("expected nil for missing sub, got %+v err=%v", a, err)
	}
}

func TestGetBySubject(t *testing.T) {
	repo := newFakeRepo()
	repo.byUsername["admin"] = &Admin{Username: "admin"}
	repo.byUsername["sso"] = &Admin{Username: "sso", Sub: "oidc-1"}
	svc := NewService(repo)
	ctx := context.Background()

	a, err := svc.GetBySubject(ctx, "oidc-1")
	if err != nil || a == nil || a.Username != "sso" {
		t.Fatalf("expected sub lookup to hit, got %+v err=%v", a, err)
	}
	a, err = svc.GetBySubject(ctx, "admin")
	if err != nil || a == nil || a.Username != "admin" {
		t.Fatalf("expected username fallback, got %+v err=%v", a, err)
	}
}

func TestBootstrap(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if err := svc.Bootstrap(ctx, "admin", "initial-pass", "admin@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.inserted == nil {
		t.Fatal("expected an account to be inserted")
	}
	if repo.inserted.PasswordHash == "initial-pass" {
		t.Fatal("password must be stored hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(repo.inserted.PasswordHash), []byte("initial-pass")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	// second run is a no-op
	repo.inserted = nil
	if err := svc.Bootstrap(ctx, "admin", "other", "admin@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.inserted != nil {
		t.Fatal("bootstrap must not run twice")
	}
}

func TestBootstrapWithoutPassword(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	if err := svc.Bootstrap(context.Background(), "admin", "", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.inserted != nil {
		t.Fatal("expected no insert without a password")
	}
}
