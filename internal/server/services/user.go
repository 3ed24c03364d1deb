// Package services contains server-side business logic. Services validate
// input, compose repositories (inside a transaction where several writes
// must land together) and translate store errors into the common kinds.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/levelup/internal/common"
	"github.com/dmitrijs2005/levelup/internal/logging"
	"github.com/dmitrijs2005/levelup/internal/server/auth"
	"github.com/dmitrijs2005/levelup/internal/server/config"
	"github.com/dmitrijs2005/levelup/internal/server/models"
	"github.com/dmitrijs2005/levelup/internal/server/repositories/repomanager"
)

type CreateUserRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Credential string `json:"credential"`
	IsAdmin    bool   `json:"isAdmin"`
}

// UpdateUserRequest replaces name and email. Credential and IsAdmin are
// left unchanged when nil.
type UpdateUserRequest struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Credential *string `json:"credential,omitempty"`
	IsAdmin    *bool   `json:"isAdmin,omitempty"`
}

type LoginResult struct {
	AccessToken string       `json:"accessToken"`
	User        *models.User `json:"user"`
}

// UserService owns the identity store: account CRUD, registration and login.
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	logger                      logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, l logging.Logger) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		logger:                      l,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateIdentity(name, email string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", common.ErrorInvalidInput)
	}
	if email == "" {
		return fmt.Errorf("%w: email is required", common.ErrorInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: malformed email %q", common.ErrorInvalidInput, email)
	}
	return nil
}

// CreateUser stores a new active account. The email lookup up front only
// gives a fast answer; the UNIQUE constraint decides when two creations race.
func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	email := normalizeEmail(req.Email)
	if err := validateIdentity(req.Name, email); err != nil {
		return nil, err
	}
	if req.Credential == "" {
		return nil, fmt.Errorf("%w: credential is required", common.ErrorInvalidInput)
	}

	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email %s is already registered", common.ErrorConflict, email)
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	hash, err := auth.HashCredential(req.Credential)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	u, err := repo.Create(ctx, &models.User{
		Name:       strings.TrimSpace(req.Name),
		Email:      email,
		Credential: hash,
		IsAdmin:    req.IsAdmin,
		Active:     true,
	})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, fmt.Errorf("%w: email %s is already registered", common.ErrorConflict, email)
		}
		s.logger.Error(ctx, "create user failed", "email", email, "error", err)
		return nil, err
	}

	s.logger.Info(ctx, "user created", "user_id", u.ID)
	return u, nil
}

// Register is the self-service form of CreateUser; it never grants admin.
func (s *UserService) Register(ctx context.Context, name, email, credential string) (*models.User, error) {
	return s.CreateUser(ctx, CreateUserRequest{Name: name, Email: email, Credential: credential})
}

// Login checks the credential and issues an access token. Unknown email,
// wrong credential and inactive account are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, credential string) (*LoginResult, error) {
	repo := s.repomanager.Users(s.db)

	u, err := repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if !u.Active || !auth.CheckCredential(u.Credential, credential) {
		return nil, common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(u.ID, u.IsAdmin, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &LoginResult{AccessToken: token, User: u}, nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByEmail(ctx, normalizeEmail(email))
}

func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.repomanager.Users(s.db).List(ctx, nil)
}

func (s *UserService) ListActiveUsers(ctx context.Context) ([]*models.User, error) {
	active := true
	return s.repomanager.Users(s.db).List(ctx, &active)
}

func (s *UserService) ListInactiveUsers(ctx context.Context) ([]*models.User, error) {
	active := false
	return s.repomanager.Users(s.db).List(ctx, &active)
}

func (s *UserService) UpdateUser(ctx context.Context, id int64, req UpdateUserRequest) (*models.User, error) {
	email := normalizeEmail(req.Email)
	if err := validateIdentity(req.Name, email); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)
	u, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	u.Name = strings.TrimSpace(req.Name)
	u.Email = email
	if req.IsAdmin != nil {
		u.IsAdmin = *req.IsAdmin
	}
	if req.Credential != nil {
		if *req.Credential == "" {
			return nil, fmt.Errorf("%w: credential must not be empty", common.ErrorInvalidInput)
		}
		hash, err := auth.HashCredential(*req.Credential)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
		}
		u.Credential = hash
	}

	return repo.Update(ctx, u)
}

// DeleteUser removes the account together with its favorites, cart lines
// and orders.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.repomanager.Users(s.db).Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "user deleted", "user_id", id)
	return nil
}
