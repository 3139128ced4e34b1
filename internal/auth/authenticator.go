// Package auth verifies credentials, issues and checks access tokens
// and decides which roles may call an operation.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Freeeeeet/tutor_center/internal/apperr"
	"github.com/Freeeeeet/tutor_center/internal/model"
)

// UserStore то, что аутентификатору нужно от хранилища пользователей
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	FindAdminByPhone(ctx context.Context, phone string) (*model.User, error)
	FindByPhoneInCenter(ctx context.Context, centerID int64, phone string) (*model.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// Identity проверенный владелец токена
type Identity struct {
	User      *model.User
	TokenID   string
	ExpiresAt time.Time
}

func (i Identity) UserID() int64    { return i.User.ID }
func (i Identity) Role() model.Role { return i.User.Role }

type claims struct {
	jwt.RegisteredClaims
	Role     model.Role `json:"role"`
	CenterID *int64     `json:"cid,omitempty"`
}

type Authenticator struct {
	users    UserStore
	secret   []byte
	ttl      time.Duration
	hashCost int
	now      func() time.Time
	logger   *zap.Logger
}

type Option func(*Authenticator)

// WithClock подменяет источник времени (для тестов)
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) { a.now = now }
}

// WithHashCost задаёт стоимость bcrypt
func WithHashCost(cost int) Option {
	return func(a *Authenticator) { a.hashCost = cost }
}

func NewAuthenticator(users UserStore, secret string, ttl time.Duration, logger *zap.Logger, opts ...Option) *Authenticator {
	a := &Authenticator{
		users:    users,
		secret:   []byte(secret),
		ttl:      ttl,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// HashPassword хеширует пароль с настроенной стоимостью
func (a *Authenticator) HashPassword(password string) (string, error) {
	return HashPassword(password, a.hashCost)
}

// Login проверяет телефон и пароль. centerID == nil означает вход администратора.
func (a *Authenticator) Login(ctx context.Context, phone, password string, centerID *int64) (string, *model.User, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" || password == "" {
		return "", nil, apperr.New(apperr.CodeInvalidCredentials, "phone and password are required")
	}

	var (
		user *model.User
		err  error
	)
	if centerID == nil {
		user, err = a.users.FindAdminByPhone(ctx, phone)
	} else {
		user, err = a.users.FindByPhoneInCenter(ctx, *centerID, phone)
	}
	if err != nil {
		return "", nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		a.logger.Info("Login failed: unknown phone", zap.Int64p("center_id", centerID))
		return "", nil, apperr.New(apperr.CodeInvalidCredentials, "invalid phone or password")
	}

	ok, err := CheckPassword(user.PasswordHash, password)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		a.logger.Info("Login failed: wrong password", zap.Int64("user_id", user.ID))
		return "", nil, apperr.New(apperr.CodeInvalidCredentials, "invalid phone or password")
	}

	token, err := a.Issue(user)
	if err != nil {
		return "", nil, err
	}

	a.logger.Info("User logged in",
		zap.Int64("user_id", user.ID),
		zap.String("role", string(user.Role)),
	)
	return token, user, nil
}

// Issue выпускает подписанный HS256 токен доступа
func (a *Authenticator) Issue(user *model.User) (string, error) {
	now := a.now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
		Role:     user.Role,
		CenterID: user.LearningCenterID,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify проверяет подпись и срок действия токена и загружает пользователя
func (a *Authenticator) Verify(ctx context.Context, token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, apperr.New(apperr.CodeUnauthenticated, "missing token")
	}

	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, apperr.New(apperr.CodeUnauthenticated, "token expired")
		}
		return Identity{}, apperr.Wrap(apperr.CodeUnauthenticated, "invalid token", err)
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return Identity{}, apperr.Wrap(apperr.CodeUnauthenticated, "invalid token subject", err)
	}

	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return Identity{}, fmt.Errorf("load token user: %w", err)
	}
	if user == nil || user.Role != c.Role {
		return Identity{}, apperr.New(apperr.CodeUnauthenticated, "token user no longer exists")
	}

	return Identity{User: user, TokenID: c.ID, ExpiresAt: c.ExpiresAt.Time}, nil
}

// Authorize пропускает владельца токена, только если его роль среди allowed
func (a *Authenticator) Authorize(id Identity, allowed ...model.Role) (Identity, error) {
	if id.User == nil {
		return Identity{}, apperr.New(apperr.CodeUnauthenticated, "not authenticated")
	}
	if !Permits(id.Role(), allowed...) {
		return Identity{}, apperr.New(apperr.CodeForbidden, "role "+string(id.Role())+" is not allowed")
	}
	return id, nil
}

// Permits сверяет роль со списком разрешённых; неизвестная роль не разрешена никогда
func Permits(role model.Role, allowed ...model.Role) bool {
	switch role {
	case model.RoleAdmin, model.RoleManager, model.RoleAssistant, model.RoleStudent:
		for _, r := range allowed {
			if r == role {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// ChangePassword меняет пароль после проверки текущего
func (a *Authenticator) ChangePassword(ctx context.Context, user *model.User, current, next string) error {
	ok, err := CheckPassword(user.PasswordHash, current)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.New(apperr.CodeInvalidCredentials, "current password is incorrect")
	}
	if strings.TrimSpace(next) == "" {
		return apperr.New(apperr.CodeInvalidArgument, "new password must not be empty")
	}

	hash, err := a.HashPassword(next)
	if err != nil {
		return err
	}
	if err := a.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	user.PasswordHash = hash

	a.logger.Info("Password changed", zap.Int64("user_id", user.ID))
	return nil
}
