package service

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"taskhub/internal/apperr"
	"taskhub/internal/model"
	"taskhub/internal/pagination"
	"taskhub/internal/repository"
)

// userSortColumns whitelists API sort fields for the users list. Anything
// else keeps the default createdAt desc ordering.
var userSortColumns = map[string]string{
	"email":     "email",
	"name":      "name",
	"role":      "role",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// CreateUserInput carries the admin user-creation fields.
type CreateUserInput struct {
	Email    string
	Password string
	Name     *string
	Role     *model.Role
}

// UpdateUserInput carries the admin partial-update fields.
type UpdateUserInput struct {
	Email    *string
	Password *string
	Name     *string
	Role     *model.Role
}

// ListUsersQuery carries list filters plus the raw pagination/sort strings.
type ListUsersQuery struct {
	Role  *model.Role
	Sort  string
	Page  string
	Limit string
}

// UserService is the admin-facing user registry.
type UserService interface {
	Create(ctx context.Context, in CreateUserInput) (*model.User, error)
	FindAll(ctx context.Context, q ListUsersQuery) ([]model.User, pagination.Meta, error)
	FindOne(ctx context.Context, id uuid.UUID) (*model.User, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*model.User, error)
	Remove(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type userService struct {
	users          repository.UserRepository
	passwordMinLen int
}

// NewUserService builds a UserService.
func NewUserService(users repository.UserRepository, passwordMinLen int) UserService {
	return &userService{users: users, passwordMinLen: passwordMinLen}
}

// Create hashes the supplied password and defaults the role to USER.
func (s *userService) Create(ctx context.Context, in CreateUserInput) (*model.User, error) {
	if len(in.Password) < s.passwordMinLen {
		return nil, apperr.BadRequest("password must be at least %d characters", s.passwordMinLen)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	role := model.RoleUser
	if in.Role != nil {
		role = *in.Role
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        in.Email,
		PasswordHash: string(hashed),
		Name:         in.Name,
		Role:         role,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsDuplicate(err) {
			return nil, apperr.Conflict("email already in use")
		}
		return nil, apperr.Internal(err)
	}
	return user, nil
}

func (s *userService) FindAll(ctx context.Context, q ListUsersQuery) ([]model.User, pagination.Meta, error) {
	params := pagination.Parse(q.Page, q.Limit)
	order := resolveOrder(q.Sort, userSortColumns)

	users, total, err := s.users.ListWithCount(ctx, repository.UserFilter{Role: q.Role}, order, params.Skip, params.Take)
	if err != nil {
		return nil, pagination.Meta{}, apperr.Internal(err)
	}
	return users, pagination.ComputeMeta(total, params.Limit, params.Page), nil
}

func (s *userService) FindOne(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.NotFound("user with ID %q not found", id)
		}
		return nil, apperr.Internal(err)
	}
	return user, nil
}

// Update applies only the supplied fields. A duplicate email surfaces as a
// conflict, not a server error.
func (s *userService) Update(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*model.User, error) {
	user, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.Name != nil {
		user.Name = in.Name
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	if in.Password != nil {
		if len(*in.Password) < s.passwordMinLen {
			return nil, apperr.BadRequest("password must be at least %d characters", s.passwordMinLen)
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcryptCost)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		user.PasswordHash = string(hashed)
	}

	if err := s.users.Update(ctx, user); err != nil {
		if repository.IsDuplicate(err) {
			return nil, apperr.Conflict("email %q is already in use", user.Email)
		}
		return nil, apperr.Internal(err)
	}
	return user, nil
}

func (s *userService) Remove(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return nil, apperr.Internal(err)
	}
	return user, nil
}

// resolveOrder maps a raw "field:direction" expression through a column
// whitelist, silently falling back to createdAt desc.
func resolveOrder(sort string, columns map[string]string) repository.Order {
	def := repository.Order{Column: "created_at", Desc: true}
	if sort == "" {
		return def
	}
	field, direction, ok := pagination.ParseSort(sort)
	if !ok {
		return def
	}
	column, ok := columns[field]
	if !ok {
		return def
	}
	return repository.Order{Column: column, Desc: direction == "desc"}
}
