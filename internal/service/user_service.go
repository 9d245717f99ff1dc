package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"gyandeep/internal/domain"
	"gyandeep/internal/dto"
	"gyandeep/internal/validation"

	"go.uber.org/zap"
)

// UserService manages learner profiles behind the mocked login.
type UserService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*domain.UserProfile, error)
	AdminLogin(ctx context.Context) (*domain.UserProfile, error)
	GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error)
	UpdatePreferences(ctx context.Context, userID string, settings domain.QuizSettings) (*domain.UserProfile, error)
	RecordResult(ctx context.Context, result *domain.QuizResult) (*domain.UserProfile, error)
	ListUsers(ctx context.Context) ([]*domain.UserProfile, error)
}

type userServiceImpl struct {
	users     domain.UserRepository
	validator *validation.Validator
	logger    *zap.Logger
	now       func() time.Time

	// locks serialises read-modify-write cycles on one profile.
	locks keyedMutex
}

type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	sync.Mutex
	refs int
}

// lock blocks until key is free and returns the matching unlock.
func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyedLock)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

// NewUserService creates a new instance of UserService.
func NewUserService(users domain.UserRepository, logger *zap.Logger) UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &userServiceImpl{
		users:     users,
		validator: validation.NewValidator(),
		logger:    logger,
		now:       time.Now,
	}
}

// Login loads the profile for the email or creates it. There is no password:
// identity is whatever the client claims.
func (s *userServiceImpl) Login(ctx context.Context, req dto.LoginRequest) (*domain.UserProfile, error) {
	if errs := s.validator.ValidateLoginRequest(req); len(errs) > 0 {
		return nil, errs
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, domain.NewInternalError("failed to look up user", err)
	}

	if user == nil {
		user = domain.NewUserProfile(strings.TrimSpace(req.Name), email, strings.TrimSpace(req.ExamPreference), s.now())
		if err := s.users.Save(ctx, user); err != nil {
			return nil, domain.NewInternalError("failed to create user", err)
		}
		s.logger.Info("New user created", zap.String("userID", user.ID), zap.Bool("isAdmin", user.IsAdmin))
		return user, nil
	}

	unlock := s.locks.lock(user.ID)
	defer unlock()
	// Re-read under the lock so a concurrent stats update is not overwritten.
	if user, err = s.users.GetByEmail(ctx, email); err != nil || user == nil {
		return nil, domain.NewInternalError("failed to reload user", err)
	}

	if pref := strings.TrimSpace(req.ExamPreference); pref != "" {
		user.ExamPreference = pref
	}
	user.LastActive = s.now()
	if err := s.users.Save(ctx, user); err != nil {
		return nil, domain.NewInternalError("failed to update user", err)
	}
	s.logger.Info("User logged in", zap.String("userID", user.ID))
	return user, nil
}

// AdminLogin returns the built-in administrator, creating it on first use.
func (s *userServiceImpl) AdminLogin(ctx context.Context) (*domain.UserProfile, error) {
	user, err := s.users.GetByEmail(ctx, domain.AdminEmail)
	if err != nil {
		return nil, domain.NewInternalError("failed to look up admin", err)
	}
	if user == nil {
		user = domain.NewAdminProfile(s.now())
	} else {
		unlock := s.locks.lock(user.ID)
		defer unlock()
		if user, err = s.users.GetByEmail(ctx, domain.AdminEmail); err != nil || user == nil {
			return nil, domain.NewInternalError("failed to reload admin", err)
		}
		user.LastActive = s.now()
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, domain.NewInternalError("failed to save admin", err)
	}
	return user, nil
}

func (s *userServiceImpl) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load user", err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("user not found with ID: %s", userID))
	}
	return user, nil
}

func (s *userServiceImpl) UpdatePreferences(ctx context.Context, userID string, settings domain.QuizSettings) (*domain.UserProfile, error) {
	if errs := s.validator.ValidateQuizSettings(settings); len(errs) > 0 {
		return nil, errs
	}
	unlock := s.locks.lock(userID)
	defer unlock()

	if err := s.users.UpdatePreferences(ctx, userID, settings); err != nil {
		return nil, wrapRepoError(err, "failed to save preferences")
	}
	return s.GetProfile(ctx, userID)
}

// RecordResult folds a finished session into the owner's stats.
// Results without a user are ignored.
func (s *userServiceImpl) RecordResult(ctx context.Context, result *domain.QuizResult) (*domain.UserProfile, error) {
	if result == nil || result.UserID == "" {
		return nil, nil
	}
	unlock := s.locks.lock(result.UserID)
	defer unlock()

	user, err := s.GetProfile(ctx, result.UserID)
	if err != nil {
		return nil, err
	}
	user.RecordResult(result, s.now())
	if err := s.users.Save(ctx, user); err != nil {
		return nil, domain.NewInternalError("failed to update user stats", err)
	}
	s.logger.Debug("User stats updated",
		zap.String("userID", user.ID),
		zap.Int("totalQuizzes", user.TotalQuizzes),
		zap.Int("accuracy", user.Accuracy),
	)
	return user, nil
}

func (s *userServiceImpl) ListUsers(ctx context.Context) ([]*domain.UserProfile, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to list users", err)
	}
	return users, nil
}
