package service

import (
	"github.com/Freeeeeet/tutor_center/internal/apperr"
	"github.com/Freeeeeet/tutor_center/internal/auth"
	"github.com/Freeeeeet/tutor_center/internal/model"
)

// requireRole проверяет роль того, кто вызывает операцию
func requireRole(actor *model.User, allowed ...model.Role) error {
	if actor == nil {
		return apperr.New(apperr.CodeUnauthenticated, "not authenticated")
	}
	if !auth.Permits(actor.Role, allowed...) {
		return apperr.New(apperr.CodeForbidden, "operation not allowed for role "+string(actor.Role))
	}
	return nil
}

// centerOf возвращает центр менеджера, ассистента или студента
func centerOf(actor *model.User) (int64, error) {
	switch actor.Role {
	case model.RoleManager, model.RoleAssistant, model.RoleStudent:
		if actor.LearningCenterID == nil {
			return 0, apperr.New(apperr.CodeInternal, "user without learning center")
		}
		return *actor.LearningCenterID, nil
	case model.RoleAdmin:
		return 0, apperr.New(apperr.CodeForbidden, "admin is not bound to a learning center")
	default:
		return 0, apperr.New(apperr.CodeForbidden, "unknown role")
	}
}
