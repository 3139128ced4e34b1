package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_center/internal/apperr"
)

func success(c *fiber.Ctx, message string, data any) error {
	return successWithCode(c, fiber.StatusOK, message, data)
}

func successWithCode(c *fiber.Ctx, code int, message string, data any) error {
	return c.Status(code).JSON(fiber.Map{
		"code":    code,
		"status":  "success",
		"message": message,
		"data":    data,
	})
}

func errorBody(status int, code apperr.Code, message string) fiber.Map {
	return fiber.Map{
		"code":       status,
		"status":     "error",
		"error_code": code,
		"message":    message,
	}
}

// sendError переводит ошибку сервиса в HTTP-ответ. Внутренние ошибки логируются, клиенту уходит общий текст.
func (h *Handlers) sendError(c *fiber.Ctx, err error) error {
	code := apperr.CodeOf(err)
	status := code.HTTPStatus()

	if code == apperr.CodeInternal {
		h.logger.Error("Request failed",
			zap.String("request_id", requestID(c)),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	return c.Status(status).JSON(errorBody(status, code, apperr.Message(err)))
}

func (h *Handlers) sendValidationError(c *fiber.Ctx, err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return h.sendError(c, apperr.Wrap(apperr.CodeInvalidArgument, "invalid input", err))
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fe.Tag()
	}

	body := errorBody(fiber.StatusBadRequest, apperr.CodeInvalidArgument, "validation failed")
	body["errors"] = fields
	return c.Status(fiber.StatusBadRequest).JSON(body)
}

// bind разбирает JSON-тело и проверяет теги validate
func (h *Handlers) bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperr.Wrap(apperr.CodeInvalidArgument, "malformed request body", err)
	}
	if err := h.validate.Struct(dst); err != nil {
		return err
	}
	return nil
}

func (h *Handlers) sendBindError(c *fiber.Ctx, err error) error {
	if apperr.CodeOf(err) == apperr.CodeInvalidArgument {
		return h.sendError(c, err)
	}
	return h.sendValidationError(c, err)
}

// ErrorHandler обработчик ошибок fiber для всего, что не дошло до хендлеров (404, паники после recover)
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		code := apperr.CodeInternal
		message := "internal error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
			message = fe.Message
			switch status {
			case fiber.StatusNotFound:
				code = apperr.CodeNotFound
			case fiber.StatusMethodNotAllowed, fiber.StatusBadRequest:
				code = apperr.CodeInvalidArgument
			}
		} else {
			logger.Error("Unhandled error",
				zap.String("request_id", requestID(c)),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}

		return c.Status(status).JSON(errorBody(status, code, message))
	}
}
