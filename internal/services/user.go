package services

import (
	"context"
	"errors"

	"github.com/GregMSThompson/dadhelper-backend/internal/dto"
	"github.com/GregMSThompson/dadhelper-backend/internal/errs"
	"github.com/GregMSThompson/dadhelper-backend/internal/models"
	"github.com/GregMSThompson/dadhelper-backend/pkg/logger"
)

type userUSStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, uid string) (*models.User, error)
}

type userUSDadStore interface {
	CreateDad(ctx context.Context, dad *models.Dad) error
	GetDad(ctx context.Context, uid string) (*models.Dad, error)
}

// claimsSetter is satisfied by *auth.Client.
type claimsSetter interface {
	SetCustomUserClaims(ctx context.Context, uid string, customClaims map[string]interface{}) error
}

type userService struct {
	Store    userUSStore
	DadStore userUSDadStore
	Claims   claimsSetter
}

func NewUserService(store userUSStore, dadStore userUSDadStore, claims claimsSetter) *userService {
	return &userService{
		Store:    store,
		DadStore: dadStore,
		Claims:   claims,
	}
}

// Register creates the caller's user record with the chosen role. Dads also
// get a pending profile.
func (s *userService) Register(ctx context.Context, uid, email string, req dto.RegisterRequest) (*models.User, error) {
	log := logger.FromContext(ctx)

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	user := &models.User{
		UID:   uid,
		Email: email,
		Role:  req.Role,
	}
	if err := s.Store.CreateUser(ctx, user); err != nil {
		var ae *errs.AlreadyExistsError
		if errors.As(err, &ae) && user.Role == models.RoleDad {
			return s.completeDadRegistration(ctx, uid, email, err)
		}
		log.Error("failed to create user in store", "error", err)
		return nil, err
	}

	if user.Role == models.RoleDad {
		if err := s.createPendingProfile(ctx, uid, email); err != nil {
			return nil, err
		}
	}

	s.stampRole(ctx, uid, user.Role)

	log.Info("user registered", "role", user.Role)
	return user, nil
}

// completeDadRegistration heals a dad whose user record was written but whose
// profile was not. Any other existing registration keeps the conflict.
func (s *userService) completeDadRegistration(ctx context.Context, uid, email string, conflict error) (*models.User, error) {
	log := logger.FromContext(ctx)

	existing, err := s.Store.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	if existing.Role != models.RoleDad {
		return nil, conflict
	}

	_, err = s.DadStore.GetDad(ctx, uid)
	if err == nil {
		return nil, conflict
	}
	var nf *errs.NotFoundError
	if !errors.As(err, &nf) {
		return nil, err
	}

	if err := s.createPendingProfile(ctx, uid, email); err != nil {
		return nil, err
	}
	s.stampRole(ctx, uid, existing.Role)

	log.Info("dad registration completed", "role", existing.Role)
	return existing, nil
}

func (s *userService) createPendingProfile(ctx context.Context, uid, email string) error {
	dad := &models.Dad{
		UID:    uid,
		Email:  email,
		Status: models.StatusPending,
	}
	if err := s.DadStore.CreateDad(ctx, dad); err != nil {
		logger.FromContext(ctx).Error("failed to create dad profile", "error", err)
		return err
	}
	return nil
}

// EnsureUser returns the caller's record, creating a parent record the first
// time an identity signs in.
func (s *userService) EnsureUser(ctx context.Context, uid, email string) (dto.EnsureUserResponse, error) {
	log := logger.FromContext(ctx)

	user, err := s.Store.GetUser(ctx, uid)
	if err == nil {
		return dto.EnsureUserResponse{User: user}, nil
	}
	var nf *errs.NotFoundError
	if !errors.As(err, &nf) {
		return dto.EnsureUserResponse{}, err
	}

	user = &models.User{
		UID:   uid,
		Email: email,
		Role:  models.RoleParent,
	}
	if err := s.Store.CreateUser(ctx, user); err != nil {
		// A concurrent sign-in may have created it first.
		var ae *errs.AlreadyExistsError
		if errors.As(err, &ae) {
			existing, getErr := s.Store.GetUser(ctx, uid)
			if getErr != nil {
				return dto.EnsureUserResponse{}, getErr
			}
			return dto.EnsureUserResponse{User: existing}, nil
		}
		log.Error("failed to create default user", "error", err)
		return dto.EnsureUserResponse{}, err
	}

	s.stampRole(ctx, uid, user.Role)

	log.Info("default parent user created")
	return dto.EnsureUserResponse{User: user, Created: true}, nil
}

// ResolveSession works out where a signed-in identity should land.
func (s *userService) ResolveSession(ctx context.Context, uid string) (dto.SessionResponse, error) {
	user, err := s.Store.GetUser(ctx, uid)
	if err != nil {
		var nf *errs.NotFoundError
		if errors.As(err, &nf) {
			return dto.SessionResponse{Destination: dto.DestinationLogin}, nil
		}
		return dto.SessionResponse{}, err
	}

	resp := dto.SessionResponse{User: user, Role: user.Role}
	switch user.Role {
	case models.RoleParent:
		resp.Destination = dto.DestinationParentHome
	case models.RoleAdmin:
		resp.Destination = dto.DestinationAdmin
	case models.RoleDad:
		dad, err := s.DadStore.GetDad(ctx, uid)
		if err != nil {
			var nf *errs.NotFoundError
			if errors.As(err, &nf) {
				resp.Destination = dto.DestinationLogin
				return resp, nil
			}
			return dto.SessionResponse{}, err
		}
		if dad.Status == models.StatusApproved {
			resp.Destination = dto.DestinationDadDashboard
		} else {
			resp.Destination = dto.DestinationProfile
			resp.Pending = true
		}
	default:
		resp.Destination = dto.DestinationLogin
	}
	return resp, nil
}

// GetRole looks up the caller's role. A missing record and an unrecognized
// role both yield a ForbiddenError.
func (s *userService) GetRole(ctx context.Context, uid string) (string, error) {
	user, err := s.Store.GetUser(ctx, uid)
	if err != nil {
		var nf *errs.NotFoundError
		if errors.As(err, &nf) {
			return "", errs.NewForbiddenError("no user record for this account")
		}
		return "", err
	}
	if !models.KnownRole(user.Role) {
		return "", errs.NewForbiddenError("unrecognized role")
	}
	return user.Role, nil
}

func (s *userService) stampRole(ctx context.Context, uid, role string) {
	if s.Claims == nil {
		return
	}
	if err := s.Claims.SetCustomUserClaims(ctx, uid, map[string]interface{}{"role": role}); err != nil {
		logger.FromContext(ctx).Warn("failed to set role claim", "role", role, "error", err)
	}
}
