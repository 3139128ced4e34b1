package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Freeeeeet/tutor_center/internal/apperr"
	"github.com/Freeeeeet/tutor_center/internal/model"
)

type fakeUsers struct {
	mu    sync.Mutex
	users map[int64]*model.User
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) FindAdminByPhone(_ context.Context, phone string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Role == model.RoleAdmin && u.Phone == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) FindByPhoneInCenter(_ context.Context, centerID int64, phone string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.InCenter(centerID) && u.Phone == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id int64, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[id].PasswordHash = hash
	return nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestAuthenticator(t *testing.T) (*Authenticator, *fakeUsers, *clock) {
	t.Helper()

	hash, err := HashPassword("secret", bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	center := int64(7)
	users := &fakeUsers{users: map[int64]*model.User{
		1: {ID: 1, Phone: "+100", PasswordHash: hash, Role: model.RoleAdmin},
		2: {ID: 2, Phone: "+200", PasswordHash: hash, Role: model.RoleStudent, LearningCenterID: &center},
	}}
	clk := &clock{t: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)}
	a := NewAuthenticator(users, "0123456789abcdef0123", 30*time.Minute, zap.NewNop(),
		WithClock(clk.now),
		WithHashCost(bcrypt.MinCost),
	)
	return a, users, clk
}

func TestLogin(t *testing.T) {
	a, _, _ := newTestAuthenticator(t)
	ctx := context.Background()
	center := int64(7)
	other := int64(8)

	tests := []struct {
		name     string
		phone    string
		password string
		centerID *int64
		wantID   int64
		wantCode apperr.Code
	}{
		{name: "admin", phone: "+100", password: "secret", wantID: 1},
		{name: "student in center", phone: "+200", password: "secret", centerID: &center, wantID: 2},
		{name: "wrong password", phone: "+200", password: "nope", centerID: &center, wantCode: apperr.CodeInvalidCredentials},
		{name: "other center", phone: "+200", password: "secret", centerID: &other, wantCode: apperr.CodeInvalidCredentials},
		{name: "student as admin", phone: "+200", password: "secret", wantCode: apperr.CodeInvalidCredentials},
		{name: "empty", wantCode: apperr.CodeInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, user, err := a.Login(ctx, tt.phone, tt.password, tt.centerID)
			if tt.wantCode != "" {
				if got := apperr.CodeOf(err); got != tt.wantCode {
					t.Fatalf("code = %q, want %q (err %v)", got, tt.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Login: %v", err)
			}
			if token == "" || user.ID != tt.wantID {
				t.Fatalf("token %q user %+v", token, user)
			}
		})
	}
}

func TestVerifyAndExpiry(t *testing.T) {
	a, users, clk := newTestAuthenticator(t)
	ctx := context.Background()

	token, err := a.Issue(users.users[2])
	if err != nil {
		t.Fatal(err)
	}

	id, err := a.Verify(ctx, token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.UserID() != 2 || id.Role() != model.RoleStudent || id.TokenID == "" {
		t.Fatalf("unexpected identity %+v", id)
	}

	clk.t = clk.t.Add(31 * time.Minute)
	if _, err := a.Verify(ctx, token); !apperr.Is(err, apperr.CodeUnauthenticated) {
		t.Fatalf("expired token: got %v", err)
	}
}

func TestVerifyRejectsTamperedAndDeleted(t *testing.T) {
	a, users, _ := newTestAuthenticator(t)
	ctx := context.Background()

	token, err := a.Issue(users.users[2])
	if err != nil {
		t.Fatal(err)
	}

	other := NewAuthenticator(users, "another-secret-value", time.Minute, zap.NewNop())
	if _, err := other.Verify(ctx, token); !apperr.Is(err, apperr.CodeUnauthenticated) {
		t.Fatalf("foreign secret: got %v", err)
	}

	delete(users.users, 2)
	if _, err := a.Verify(ctx, token); !apperr.Is(err, apperr.CodeUnauthenticated) {
		t.Fatalf("deleted user: got %v", err)
	}

	if _, err := a.Verify(ctx, ""); !apperr.Is(err, apperr.CodeUnauthenticated) {
		t.Fatalf("empty token: got %v", err)
	}
}

func TestAuthorize(t *testing.T) {
	a, users, _ := newTestAuthenticator(t)
	id := Identity{User: users.users[2]}

	if _, err := a.Authorize(id, model.RoleStudent); err != nil {
		t.Fatalf("student allowed: %v", err)
	}
	if _, err := a.Authorize(id, model.RoleManager, model.RoleAssistant); !apperr.Is(err, apperr.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := a.Authorize(Identity{}, model.RoleStudent); !apperr.Is(err, apperr.CodeUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	if Permits(model.Role("superuser"), model.Role("superuser")) {
		t.Fatalf("unknown role must never be permitted")
	}
}

func TestChangePassword(t *testing.T) {
	a, users, _ := newTestAuthenticator(t)
	ctx := context.Background()
	user, _ := users.GetByID(ctx, 2)

	if err := a.ChangePassword(ctx, user, "wrong", "new-pass"); !apperr.Is(err, apperr.CodeInvalidCredentials) {
		t.Fatalf("wrong current: got %v", err)
	}
	if err := a.ChangePassword(ctx, user, "secret", " "); !apperr.Is(err, apperr.CodeInvalidArgument) {
		t.Fatalf("empty new: got %v", err)
	}
	if err := a.ChangePassword(ctx, user, "secret", "new-pass"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	center := int64(7)
	if _, _, err := a.Login(ctx, "+200", "new-pass", &center); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}
