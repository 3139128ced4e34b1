package httpapi

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_center/internal/apperr"
	"github.com/Freeeeeet/tutor_center/internal/auth"
	"github.com/Freeeeeet/tutor_center/internal/model"
)

const (
	localRequestID = "request_id"
	localUser      = "user"
	headerReqID    = "X-Request-ID"
)

// RequestLogger присваивает запросу id и пишет строку лога по его завершении
func RequestLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(headerReqID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(headerReqID, id)
		c.Locals(localRequestID, id)

		start := time.Now()
		err := c.Next()
		if err != nil {
			// ошибка ещё не превращена в ответ: отдаём её ErrorHandler'у до записи лога
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		logger.Info("HTTP request",
			zap.String("request_id", id),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
		)
		return nil
	}
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(localRequestID).(string)
	return id
}

// Authenticate проверяет Bearer-токен и кладёт пользователя в контекст запроса
func (h *Handlers) Authenticate(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return h.sendError(c, apperr.New(apperr.CodeUnauthenticated, "missing bearer token"))
	}

	identity, err := h.svc.Auth.Verify(c.UserContext(), token)
	if err != nil {
		return h.sendError(c, err)
	}

	c.Locals(localUser, identity.User)
	return c.Next()
}

// RequireRole пропускает только пользователей с одной из ролей
func (h *Handlers) RequireRole(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := currentUser(c)
		if user == nil {
			return h.sendError(c, apperr.New(apperr.CodeUnauthenticated, "not authenticated"))
		}
		if !auth.Permits(user.Role, roles...) {
			return h.sendError(c, apperr.New(apperr.CodeForbidden, "operation not allowed for role "+string(user.Role)))
		}
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) *model.User {
	user, _ := c.Locals(localUser).(*model.User)
	return user
}
