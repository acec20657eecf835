package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-billing-service/internal/apperror"
	"github.com/fekuna/omnipos-billing-service/internal/auth"
	"github.com/fekuna/omnipos-billing-service/internal/auth/dto"
	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/fekuna/omnipos-billing-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var errInvalidCredentials = fmt.Errorf("invalid email or password: %w", apperror.ErrAuthenticationRequired)

type authUseCase struct {
	repo     auth.Repository
	sessions auth.SessionStore
	tokens   *auth.TokenManager
	logger   logger.ZapLogger
}

func NewAuthUseCase(repo auth.Repository, sessions auth.SessionStore, tokens *auth.TokenManager, log logger.ZapLogger) auth.UseCase {
	return &authUseCase{
		repo:     repo,
		sessions: sessions,
		tokens:   tokens,
		logger:   log,
	}
}

func (uc *authUseCase) SignIn(ctx context.Context, input *dto.SignInInput) (*dto.SignInResult, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" || input.Password == "" {
		return nil, apperror.Validation("email", "email and password are required")
	}

	op, err := uc.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if op == nil || !op.IsActive {
		return nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(input.Password)); err != nil {
		return nil, errInvalidCredentials
	}

	session := &model.Session{
		ID:         uuid.New().String(),
		OperatorID: op.ID,
		Name:       op.Name,
		Role:       op.Role,
		ExpiresAt:  time.Now().Add(uc.tokens.TTL()),
	}
	token, err := uc.tokens.Issue(session)
	if err != nil {
		return nil, err
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	uc.logger.Info("operator signed in", zap.String("operator_id", op.ID), zap.String("role", string(op.Role)))
	return &dto.SignInResult{Token: token, Session: session}, nil
}

// GetSession accepts only tokens whose session is still stored, so signed out tokens stop working.
func (uc *authUseCase) GetSession(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, apperror.ErrAuthenticationRequired
	}
	claims, err := uc.tokens.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrAuthenticationRequired, err)
	}
	session, err := uc.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("session expired: %w", apperror.ErrAuthenticationRequired)
	}
	return session, nil
}

func (uc *authUseCase) SignOut(ctx context.Context, token string) error {
	claims, err := uc.tokens.Parse(token)
	if err != nil {
		return fmt.Errorf("%w: %v", apperror.ErrAuthenticationRequired, err)
	}
	if err := uc.sessions.Delete(ctx, claims.SessionID); err != nil {
		return err
	}
	uc.logger.Info("operator signed out", zap.String("operator_id", claims.Subject))
	return nil
}

func (uc *authUseCase) EnsureOperator(ctx context.Context, input *dto.CreateOperatorInput) (*model.Operator, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, apperror.Validation("email", "email is required")
	}
	existing, err := uc.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	if input.Role != model.RoleAdmin && input.Role != model.RoleCashier {
		return nil, apperror.Validation("role", "unknown role %q", input.Role)
	}
	if len(input.Password) < 8 {
		return nil, apperror.Validation("password", "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	op := &model.Operator{
		BaseModel:    model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Email:        email,
		Name:         input.Name,
		PasswordHash: string(hash),
		Role:         input.Role,
		IsActive:     true,
	}
	if err := uc.repo.Create(ctx, op); err != nil {
		return nil, err
	}
	return op, nil
}

