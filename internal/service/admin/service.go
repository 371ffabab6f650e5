package admin

import (
	"context"
	"errors"
	"strings"
	"time"

	"psychic-poker/internal/config"
	"psychic-poker/internal/model"
	pkgAuth "psychic-poker/pkg/auth"
	appErr "psychic-poker/pkg/errors"
	"psychic-poker/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const statusActive = "active"

// SolutionStore is the part of the solver history an operator may prune.
type SolutionStore interface {
	DeleteSolution(ctx context.Context, id int64) error
}

// Service authenticates operators of the solution history and performs
// their audited actions.
type Service struct {
	db        *gorm.DB
	issuer    *pkgAuth.Issuer
	seed      config.AdminSeedConfig
	solutions SolutionStore
}

type LoginResult struct {
	Token    string    `json:"token"`
	ExpireAt time.Time `json:"expireAt"`
	Admin    AdminInfo `json:"admin"`
}

type AdminInfo struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"displayName"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func NewService(db *gorm.DB, issuer *pkgAuth.Issuer, seed config.AdminSeedConfig, solutions SolutionStore) *Service {
	return &Service{db: db, issuer: issuer, seed: seed, solutions: solutions}
}

func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	operator, err := s.authenticate(ctx, strings.TrimSpace(username), strings.TrimSpace(password))
	if err != nil {
		return nil, err
	}

	token, expireAt, err := s.issuer.GenerateAdminToken(operator.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).
		Model(operator).
		Updates(map[string]interface{}{
			"last_login_at": now,
			"updated_at":    now,
		}).Error; err != nil {
		return nil, err
	}
	operator.LastLoginAt = &now

	logger.Log.Info("operator signed in",
		zap.Int64("adminID", operator.ID),
		zap.String("username", operator.Username),
	)
	return &LoginResult{
		Token:    token,
		ExpireAt: expireAt,
		Admin:    toInfo(*operator),
	}, nil
}

func (s *Service) authenticate(ctx context.Context, username, password string) (*model.Admin, error) {
	if username == "" || password == "" {
		return nil, appErr.ErrInvalidAdminPassword
	}

	var operator model.Admin
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&operator).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, appErr.ErrAdminNotFound
	case err != nil:
		return nil, err
	case !strings.EqualFold(operator.Status, statusActive):
		return nil, appErr.ErrAdminDisabled
	}

	if bcrypt.CompareHashAndPassword([]byte(operator.PasswordHash), []byte(password)) != nil {
		logger.Log.Warn("operator sign-in rejected", zap.String("username", username))
		return nil, appErr.ErrInvalidAdminPassword
	}
	return &operator, nil
}

// DeleteSolution removes a stored solution on behalf of an operator and
// records who did it.
func (s *Service) DeleteSolution(ctx context.Context, adminID, solutionID int64) error {
	if err := s.solutions.DeleteSolution(ctx, solutionID); err != nil {
		return err
	}
	logger.Log.Info("solution deleted",
		zap.Int64("adminID", adminID),
		zap.Int64("solutionID", solutionID),
	)
	return nil
}

// EnsureDefaultAdmin creates the seed operator once; without a configured
// password it does nothing.
func (s *Service) EnsureDefaultAdmin(ctx context.Context) error {
	if s.seed.DefaultUsername == "" || s.seed.DefaultPassword == "" {
		logger.Log.Warn("seed operator credentials not configured; skipping")
		return nil
	}

	var exists int64
	if err := s.db.WithContext(ctx).
		Model(&model.Admin{}).
		Where("username = ?", s.seed.DefaultUsername).
		Count(&exists).Error; err != nil {
		return err
	}
	if exists > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.seed.DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	operator := model.Admin{
		Username:     s.seed.DefaultUsername,
		PasswordHash: string(hash),
		DisplayName:  s.seed.DefaultUsername,
		Status:       statusActive,
	}
	if err := s.db.WithContext(ctx).Create(&operator).Error; err != nil {
		return err
	}
	logger.Log.Info("seed operator created", zap.String("username", operator.Username))
	return nil
}

func toInfo(a model.Admin) AdminInfo {
	return AdminInfo{
		ID:          a.ID,
		Username:    a.Username,
		DisplayName: a.DisplayName,
		Status:      a.Status,
		LastLoginAt: a.LastLoginAt,
		CreatedAt:   a.CreatedAt,
	}
}
