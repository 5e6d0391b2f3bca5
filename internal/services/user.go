package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/chekinn-backend/internal/data/repos"
	types "github.com/yungbote/chekinn-backend/internal/domain"
	"github.com/yungbote/chekinn-backend/internal/pkg/apperr"
	"github.com/yungbote/chekinn-backend/internal/pkg/dbctx"
	"github.com/yungbote/chekinn-backend/internal/pkg/logger"
	"github.com/yungbote/chekinn-backend/internal/pkg/pointers"
)

type CreateUserInput struct {
	Name          string   `json:"name"`
	City          string   `json:"city"`
	CurrentRole   string   `json:"current_role"`
	Industries    []string `json:"industries"`
	Intent        string   `json:"intent"`
	OpenToIntros  *bool    `json:"open_to_intros"`
	PreferredMode string   `json:"preferred_mode"`
}

// UpdateUserInput only touches fields that are set.
type UpdateUserInput struct {
	Name          *string   `json:"name"`
	City          *string   `json:"city"`
	CurrentRole   *string   `json:"current_role"`
	Industries    *[]string `json:"industries"`
	Intent        *string   `json:"intent"`
	OpenToIntros  *bool     `json:"open_to_intros"`
	PreferredMode *string   `json:"preferred_mode"`
}

type UserService interface {
	Create(ctx context.Context, in CreateUserInput) (*types.UserProfile, error)
	Get(ctx context.Context, id uuid.UUID) (*types.UserProfile, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*types.UserProfile, error)
}

type userService struct {
	db     *gorm.DB
	log    *logger.Logger
	users  repos.UserProfileRepo
	states repos.ConversationStateRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, users repos.UserProfileRepo, states repos.ConversationStateRepo) UserService {
	return &userService{
		db:     db,
		log:    log.With("service", "UserService"),
		users:  users,
		states: states,
	}
}

func normalizeMode(mode string) (string, bool) {
	switch m := strings.ToLower(strings.TrimSpace(mode)); m {
	case "":
		return types.ModeVoice, true
	case types.ModeVoice, types.ModeText:
		return m, true
	default:
		return "", false
	}
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (us *userService) Create(ctx context.Context, in CreateUserInput) (*types.UserProfile, error) {
	const op = "user.Create"
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation(op, "name is required")
	}
	mode, ok := normalizeMode(in.PreferredMode)
	if !ok {
		return nil, apperr.Validation(op, "preferred_mode must be voice or text")
	}

	profile := &types.UserProfile{
		Name:          name,
		City:          strings.TrimSpace(in.City),
		CurrentRole:   strings.TrimSpace(in.CurrentRole),
		Industries:    datatypes.JSONSlice[string](cleanList(in.Industries)),
		Intent:        strings.TrimSpace(in.Intent),
		OpenToIntros:  pointers.Deref(in.OpenToIntros, true),
		PreferredMode: mode,
	}

	err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := us.users.Create(inner, profile); err != nil {
			return err
		}
		_, err := us.states.GetOrCreate(inner, profile.ID)
		return err
	})
	if err != nil {
		us.log.Warn("create user transaction failed", "error", err)
		return nil, apperr.MapError(op, err)
	}
	us.log.Info("user created", "user_id", profile.ID)
	return profile, nil
}

func (us *userService) Get(ctx context.Context, id uuid.UUID) (*types.UserProfile, error) {
	const op = "user.Get"
	if id == uuid.Nil {
		return nil, apperr.Validation(op, "missing user id")
	}
	u, err := us.users.GetByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, apperr.MapError(op, err)
	}
	if u == nil {
		return nil, apperr.NotFound(op, "user %s not found", id)
	}
	return u, nil
}

func (us *userService) Update(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*types.UserProfile, error) {
	const op = "user.Update"
	if id == uuid.Nil {
		return nil, apperr.Validation(op, "missing user id")
	}
	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperr.Validation(op, "name cannot be empty")
		}
		updates["name"] = name
	}
	if in.City != nil {
		updates["city"] = strings.TrimSpace(*in.City)
	}
	if in.CurrentRole != nil {
		updates["role_title"] = strings.TrimSpace(*in.CurrentRole)
	}
	if in.Industries != nil {
		updates["industries"] = datatypes.JSONSlice[string](cleanList(*in.Industries))
	}
	if in.Intent != nil {
		updates["intent"] = strings.TrimSpace(*in.Intent)
	}
	if in.OpenToIntros != nil {
		updates["open_to_intros"] = *in.OpenToIntros
	}
	if in.PreferredMode != nil {
		mode, ok := normalizeMode(*in.PreferredMode)
		if !ok {
			return nil, apperr.Validation(op, "preferred_mode must be voice or text")
		}
		updates["preferred_mode"] = mode
	}

	found, err := us.users.UpdateFields(dbctx.New(ctx), id, updates)
	if err != nil {
		return nil, apperr.MapError(op, err)
	}
	if !found {
		return nil, apperr.NotFound(op, "user %s not found", id)
	}
	return us.Get(ctx, id)
}
