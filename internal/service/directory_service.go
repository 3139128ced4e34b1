package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_center/internal/apperr"
	"github.com/Freeeeeet/tutor_center/internal/model"
	"github.com/Freeeeeet/tutor_center/internal/repository"
)

// NewUser данные для создания пользователя
type NewUser struct {
	Fullname  string
	Phone     string
	Password  string
	Role      model.Role
	SubjectID *int64
}

func (u *NewUser) normalize() error {
	u.Fullname = strings.TrimSpace(u.Fullname)
	u.Phone = strings.TrimSpace(u.Phone)
	if u.Fullname == "" {
		return apperr.New(apperr.CodeInvalidArgument, "fullname is required")
	}
	if u.Phone == "" {
		return apperr.New(apperr.CodeInvalidArgument, "phone is required")
	}
	if u.Password == "" {
		return apperr.New(apperr.CodeInvalidArgument, "password is required")
	}
	return nil
}

// DirectoryService центры, пользователи, предметы и профиль
type DirectoryService struct {
	centers  CenterStore
	users    UserStore
	subjects SubjectStore
	hasher   PasswordHasher
	logger   *zap.Logger
}

func NewDirectoryService(
	centers CenterStore,
	users UserStore,
	subjects SubjectStore,
	hasher PasswordHasher,
	logger *zap.Logger,
) *DirectoryService {
	return &DirectoryService{
		centers:  centers,
		users:    users,
		subjects: subjects,
		hasher:   hasher,
		logger:   logger,
	}
}

// CreateCenter создаёт учебный центр
func (s *DirectoryService) CreateCenter(ctx context.Context, admin *model.User, name string) (*model.LearningCenter, error) {
	if err := requireRole(admin, model.RoleAdmin); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.New(apperr.CodeInvalidArgument, "center name is required")
	}

	center := &model.LearningCenter{Name: name}
	if err := s.centers.Create(ctx, center); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, apperr.New(apperr.CodeAlreadyExists, "learning center with this name already exists")
		}
		return nil, fmt.Errorf("create center: %w", err)
	}

	s.logger.Info("Learning center created",
		zap.Int64("center_id", center.ID),
		zap.String("name", center.Name),
	)

	return center, nil
}

// ListCenters все центры с количеством пользователей
func (s *DirectoryService) ListCenters(ctx context.Context, admin *model.User) ([]*model.CenterSummary, error) {
	if err := requireRole(admin, model.RoleAdmin); err != nil {
		return nil, err
	}
	centers, err := s.centers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list centers: %w", err)
	}
	return nonNil(centers), nil
}

// DeleteCenter удаляет центр без пользователей
func (s *DirectoryService) DeleteCenter(ctx context.Context, admin *model.User, centerID int64) error {
	if err := requireRole(admin, model.RoleAdmin); err != nil {
		return err
	}

	deleted, err := s.centers.Delete(ctx, centerID)
	if err != nil {
		if errors.Is(err, repository.ErrCenterNotEmpty) {
			return apperr.New(apperr.CodeCenterNotEmpty, "learning center still has users")
		}
		return fmt.Errorf("delete center: %w", err)
	}
	if !deleted {
		return apperr.New(apperr.CodeNotFound, "learning center not found")
	}

	s.logger.Info("Learning center deleted", zap.Int64("center_id", centerID))
	return nil
}

// CreateManager создаёт менеджера центра
func (s *DirectoryService) CreateManager(ctx context.Context, admin *model.User, centerID int64, in NewUser) (*model.User, error) {
	if err := requireRole(admin, model.RoleAdmin); err != nil {
		return nil, err
	}

	center, err := s.centers.GetByID(ctx, centerID)
	if err != nil {
		return nil, fmt.Errorf("get center: %w", err)
	}
	if center == nil {
		return nil, apperr.New(apperr.CodeNotFound, "learning center not found")
	}

	in.Role = model.RoleManager
	in.SubjectID = nil
	return s.createUser(ctx, center.ID, in)
}

// CreateUser создаёт ассистента или студента в центре менеджера
func (s *DirectoryService) CreateUser(ctx context.Context, manager *model.User, in NewUser) (*model.User, error) {
	if err := requireRole(manager, model.RoleManager); err != nil {
		return nil, err
	}
	centerID, err := centerOf(manager)
	if err != nil {
		return nil, err
	}

	switch in.Role {
	case model.RoleAssistant, model.RoleStudent:
	case model.RoleAdmin, model.RoleManager:
		return nil, apperr.New(apperr.CodeInvalidArgument, "managers can only create assistants and students")
	default:
		return nil, apperr.New(apperr.CodeInvalidArgument, "unknown role "+string(in.Role))
	}

	if in.SubjectID != nil {
		if err := s.checkSubject(ctx, *in.SubjectID, centerID); err != nil {
			return nil, err
		}
	}

	return s.createUser(ctx, centerID, in)
}

func (s *DirectoryService) createUser(ctx context.Context, centerID int64, in NewUser) (*model.User, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Fullname:         in.Fullname,
		Phone:            in.Phone,
		PasswordHash:     hash,
		Role:             in.Role,
		LearningCenterID: &centerID,
		SubjectID:        in.SubjectID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, apperr.New(apperr.CodeAlreadyExists, "phone already registered in this learning center")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("User created",
		zap.Int64("user_id", user.ID),
		zap.Int64("center_id", centerID),
		zap.String("role", string(user.Role)),
	)

	return user, nil
}

// ListUsers пользователи центра менеджера с указанной ролью
func (s *DirectoryService) ListUsers(ctx context.Context, manager *model.User, role model.Role) ([]*model.User, error) {
	if err := requireRole(manager, model.RoleManager); err != nil {
		return nil, err
	}
	centerID, err := centerOf(manager)
	if err != nil {
		return nil, err
	}
	if !role.TenantScoped() {
		return nil, apperr.New(apperr.CodeInvalidArgument, "role must be manager, assistant or student")
	}

	users, err := s.users.ListByCenterAndRole(ctx, centerID, role)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return nonNil(users), nil
}

// CreateSubject создаёт предмет в центре менеджера
func (s *DirectoryService) CreateSubject(ctx context.Context, manager *model.User, name string) (*model.Subject, error) {
	if err := requireRole(manager, model.RoleManager); err != nil {
		return nil, err
	}
	centerID, err := centerOf(manager)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.New(apperr.CodeInvalidArgument, "subject name is required")
	}

	subject := &model.Subject{LearningCenterID: centerID, Name: name}
	if err := s.subjects.Create(ctx, subject); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, apperr.New(apperr.CodeAlreadyExists, "subject already exists")
		}
		return nil, fmt.Errorf("create subject: %w", err)
	}

	s.logger.Info("Subject created",
		zap.Int64("subject_id", subject.ID),
		zap.Int64("center_id", centerID),
		zap.String("name", name),
	)

	return subject, nil
}

// ListSubjects предметы центра пользователя
func (s *DirectoryService) ListSubjects(ctx context.Context, actor *model.User) ([]*model.Subject, error) {
	if err := requireRole(actor, model.RoleManager, model.RoleAssistant, model.RoleStudent); err != nil {
		return nil, err
	}
	centerID, err := centerOf(actor)
	if err != nil {
		return nil, err
	}

	subjects, err := s.subjects.ListByCenter(ctx, centerID)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return nonNil(subjects), nil
}

// RenameSubject переименовывает предмет. Пользователи ссылаются на предмет по ID.
func (s *DirectoryService) RenameSubject(ctx context.Context, manager *model.User, subjectID int64, name string) (*model.Subject, error) {
	if err := requireRole(manager, model.RoleManager); err != nil {
		return nil, err
	}
	centerID, err := centerOf(manager)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.New(apperr.CodeInvalidArgument, "subject name is required")
	}
	if err := s.checkSubject(ctx, subjectID, centerID); err != nil {
		return nil, err
	}

	if err := s.subjects.Rename(ctx, subjectID, name); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, apperr.New(apperr.CodeAlreadyExists, "subject already exists")
		}
		return nil, fmt.Errorf("rename subject: %w", err)
	}

	s.logger.Info("Subject renamed",
		zap.Int64("subject_id", subjectID),
		zap.String("name", name),
	)

	return &model.Subject{ID: subjectID, LearningCenterID: centerID, Name: name}, nil
}

// Profile перечитывает пользователя из хранилища
func (s *DirectoryService) Profile(ctx context.Context, actor *model.User) (*model.User, error) {
	if actor == nil {
		return nil, apperr.New(apperr.CodeUnauthenticated, "not authenticated")
	}
	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, apperr.New(apperr.CodeNotFound, "user not found")
	}
	return user, nil
}

// UpdateProfile меняет имя и, для ассистента и студента, предмет
func (s *DirectoryService) UpdateProfile(ctx context.Context, actor *model.User, fullname *string, subjectID *int64) (*model.User, error) {
	user, err := s.Profile(ctx, actor)
	if err != nil {
		return nil, err
	}

	name := user.Fullname
	if fullname != nil {
		name = strings.TrimSpace(*fullname)
		if name == "" {
			return nil, apperr.New(apperr.CodeInvalidArgument, "fullname must not be empty")
		}
	}

	subject := user.SubjectID
	if subjectID != nil {
		if !user.Role.HasSubject() {
			return nil, apperr.New(apperr.CodeInvalidArgument, "role "+string(user.Role)+" has no subject")
		}
		centerID, err := centerOf(user)
		if err != nil {
			return nil, err
		}
		if err := s.checkSubject(ctx, *subjectID, centerID); err != nil {
			return nil, err
		}
		subject = subjectID
	}

	if err := s.users.UpdateProfile(ctx, user.ID, name, subject); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.logger.Info("Profile updated", zap.Int64("user_id", user.ID))
	return s.Profile(ctx, user)
}

// EnsureAdmin создаёт администратора, если в системе его ещё нет
func (s *DirectoryService) EnsureAdmin(ctx context.Context, fullname, phone, password string) (bool, error) {
	exists, err := s.users.AdminExists(ctx)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	in := NewUser{Fullname: fullname, Phone: phone, Password: password, Role: model.RoleAdmin}
	if err := in.normalize(); err != nil {
		return false, err
	}
	hash, err := s.hasher.HashPassword(in.Password)
	if err != nil {
		return false, err
	}

	admin := &model.User{
		Fullname:     in.Fullname,
		Phone:        in.Phone,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return false, nil
		}
		return false, fmt.Errorf("create admin: %w", err)
	}

	s.logger.Info("Admin created", zap.Int64("user_id", admin.ID), zap.String("phone", admin.Phone))
	return true, nil
}

func (s *DirectoryService) checkSubject(ctx context.Context, subjectID, centerID int64) error {
	subject, err := s.subjects.GetByID(ctx, subjectID)
	if err != nil {
		return fmt.Errorf("get subject: %w", err)
	}
	if subject == nil || subject.LearningCenterID != centerID {
		return apperr.New(apperr.CodeNotFound, "subject not found")
	}
	return nil
}
