package service

import (
	"context"
	"time"

	"psychic-poker/internal/config"
	"psychic-poker/internal/service/admin"
	"psychic-poker/internal/service/solver"
	pkgAuth "psychic-poker/pkg/auth"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Solver *solver.Service
	Admin  *admin.Service
	Issuer *pkgAuth.Issuer
}

func NewContainer(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *Container {
	issuer := pkgAuth.NewIssuer(cfg.JWT.Secret, time.Duration(cfg.JWT.Expire)*time.Hour)
	solverSvc := solver.NewService(db, rdb, solver.ConfigFrom(cfg.Solver))
	return &Container{
		Solver: solverSvc,
		Admin:  admin.NewService(db, issuer, cfg.Admin, solverSvc),
		Issuer: issuer,
	}
}

func (c *Container) Start(ctx context.Context) error {
	return c.Admin.EnsureDefaultAdmin(ctx)
}
