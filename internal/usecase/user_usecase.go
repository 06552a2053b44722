package usecase

import (
	"context"
	"errors"

	"medical-tourism-concierge/internal/converter"
	"medical-tourism-concierge/internal/delivery/dto"
	"medical-tourism-concierge/internal/delivery/http/middleware"
	"medical-tourism-concierge/internal/domain/entity"
	"medical-tourism-concierge/internal/domain/repository"
	"medical-tourism-concierge/internal/service"
	"medical-tourism-concierge/pkg/listing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidRole    = errors.New("invalid role")
	ErrSelfLockout    = errors.New("admins cannot demote, suspend or delete their own account")
	ErrUserHasHistory = errors.New("user still has reservations or reviews")
)

// UserUsecase is the admin view over accounts.
type UserUsecase interface {
	List(ctx context.Context, q listing.Query) ([]dto.UserResponse, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type userUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	userRepo        repository.UserRepository
	interpreterRepo repository.InterpreterRepository
	auditService    service.AuditService
	tokens          *service.TokenRegistry
}

func NewUserUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	interpreterRepo repository.InterpreterRepository,
	auditService service.AuditService,
	tokens *service.TokenRegistry,
) UserUsecase {
	return &userUsecase{
		db:              db,
		log:             log,
		userRepo:        userRepo,
		interpreterRepo: interpreterRepo,
		auditService:    auditService,
		tokens:          tokens,
	}
}

func (u *userUsecase) List(ctx context.Context, q listing.Query) ([]dto.UserResponse, int64, error) {
	users, total, err := u.userRepo.FindAll(u.db.WithContext(ctx), q)
	if err != nil {
		u.log.Warnf("Failed to list users: %+v", err)
		return nil, 0, err
	}
	return converter.UsersToResponses(users), total, nil
}

func (u *userUsecase) Get(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", id, err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return converter.UserToResponse(user), nil
}

// Create adds an account with any role, bypassing self-registration.
func (u *userUsecase) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	if !entity.IsValidRole(req.Role) {
		return nil, ErrInvalidRole
	}
	actorID, _ := middleware.GetUserIDFromContext(ctx)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user := &entity.User{
		Email:             req.Email,
		Password:          string(hashedPassword),
		FullName:          req.FullName,
		Phone:             req.Phone,
		Nationality:       req.Nationality,
		PreferredLanguage: req.PreferredLanguage,
		Role:              req.Role,
		Status:            entity.UserStatusActive,
		Version:           1,
	}
	if err := u.userRepo.Create(tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	if user.Role == entity.RoleInterpreter {
		if err := u.ensureInterpreterProfile(tx, user.ID); err != nil {
			return nil, err
		}
	}

	if err := u.auditService.LogCreate(ctx, tx, &actorID, entity.AuditActionUserCreate, "user", user.ID.String(), converter.UserToResponse(user)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("User created by admin: id=%s, role=%s", user.ID, user.Role)
	return u.Get(ctx, user.ID)
}

// Update changes name, role and status. A role or status change revokes
// every token of the user so the new permissions apply immediately.
func (u *userUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if !entity.IsValidRole(req.Role) {
		return nil, ErrInvalidRole
	}
	actorID, _ := middleware.GetUserIDFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", id, err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	oldValue := converter.UserToResponse(user)
	nextStatus := entity.UserStatus(req.Status)
	if id == actorID && (req.Role != entity.RoleAdmin || nextStatus != entity.UserStatusActive) {
		return nil, ErrSelfLockout
	}

	if err := user.TransitionTo(nextStatus); err != nil {
		return nil, err
	}
	sessionChanged := user.Role != req.Role || oldValue.Status != string(user.Status)

	user.FullName = req.FullName
	user.Role = req.Role
	user.Version = req.Version

	if err := checkVersioned(u.userRepo.Update(tx, user)); err != nil {
		if !errors.Is(err, ErrVersionConflict) {
			u.log.Warnf("Failed to update user %s: %+v", id, err)
		}
		return nil, err
	}

	if user.Role == entity.RoleInterpreter {
		if err := u.ensureInterpreterProfile(tx, user.ID); err != nil {
			return nil, err
		}
	}

	if err := u.auditService.LogUpdate(ctx, tx, &actorID, entity.AuditActionUserUpdate, "user", id.String(), oldValue, converter.UserToResponse(user)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	if sessionChanged {
		if err := u.tokens.RevokeAll(ctx, id); err != nil {
			u.log.Errorf("Failed to revoke tokens of user %s after role/status change: %+v", id, err)
		}
	}

	u.log.Infof("User updated: id=%s, role=%s, status=%s", id, user.Role, user.Status)
	return u.Get(ctx, id)
}

func (u *userUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	actorID, _ := middleware.GetUserIDFromContext(ctx)
	if id == actorID {
		return ErrSelfLockout
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", id, err)
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := u.userRepo.Delete(tx, id); err != nil {
		if isForeignKeyError(err, "") {
			return ErrUserHasHistory
		}
		u.log.Warnf("Failed to delete user %s: %+v", id, err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, &actorID, entity.AuditActionUserDelete, "user", id.String(), converter.UserToResponse(user)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	if err := u.tokens.RevokeAll(ctx, id); err != nil {
		u.log.Errorf("Failed to revoke tokens of deleted user %s: %+v", id, err)
	}

	u.log.Infof("User deleted: id=%s", id)
	return nil
}

// ensureInterpreterProfile gives a user promoted to interpreter an inactive
// profile, which an admin activates once it is filled in.
func (u *userUsecase) ensureInterpreterProfile(tx *gorm.DB, userID uuid.UUID) error {
	existing, err := u.interpreterRepo.FindByUserID(tx, userID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	return u.interpreterRepo.Create(tx, &entity.Interpreter{
		UserID:          userID,
		Specializations: []string{},
		Languages:       []string{},
		Status:          entity.InterpreterStatusInactive,
		Version:         1,
	})
}
