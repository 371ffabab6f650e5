package admin_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"psychic-poker/internal/config"
	"psychic-poker/internal/model"
	adminsvc "psychic-poker/internal/service/admin"
	pkgAuth "psychic-poker/pkg/auth"
	appErr "psychic-poker/pkg/errors"
	"psychic-poker/pkg/logger"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testSeed = config.AdminSeedConfig{
	DefaultUsername: "bootstrap",
	DefaultPassword: "Bootstrap@123",
}

func newTestService(t *testing.T, seed config.AdminSeedConfig) (*gorm.DB, *pkgAuth.Issuer, *adminsvc.Service) {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&model.Admin{}); err != nil {
		t.Fatalf("failed to migrate admin model: %v", err)
	}

	issuer := pkgAuth.NewIssuer("test-secret", time.Hour)
	return db, issuer, adminsvc.NewService(db, issuer, seed, &fakeStore{})
}

func createAdmin(t *testing.T, db *gorm.DB, username, password, status string) *model.Admin {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	admin := &model.Admin{
		Username:     username,
		PasswordHash: string(hash),
		DisplayName:  "Tester",
		Status:       status,
	}
	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("failed to insert admin: %v", err)
	}
	return admin
}

func TestLoginSuccess(t *testing.T) {
	db, issuer, svc := newTestService(t, testSeed)
	record := createAdmin(t, db, "root", "Secret@123", "active")

	resp, err := svc.Login(context.Background(), " root ", "Secret@123")
	if err != nil {
		t.Fatalf("expected login to succeed, got error: %v", err)
	}
	if resp.Token == "" {
		t.Fatalf("expected token in response")
	}
	if resp.Admin.ID != record.ID || resp.Admin.LastLoginAt == nil {
		t.Fatalf("unexpected admin info: %+v", resp.Admin)
	}

	claims, err := issuer.ParseAdminToken(resp.Token)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.SubjectID != record.ID {
		t.Fatalf("expected subject %d, got %d", record.ID, claims.SubjectID)
	}

	var stored model.Admin
	if err := db.First(&stored, record.ID).Error; err != nil {
		t.Fatalf("failed to reload admin: %v", err)
	}
	if stored.LastLoginAt == nil {
		t.Fatalf("expected last_login_at to be updated")
	}
	if stored.LastLoginAt.Before(time.Now().Add(-5 * time.Minute)) {
		t.Fatalf("unexpected last login timestamp: %v", stored.LastLoginAt)
	}
}

func TestLoginErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		username string
		password string
		want     error
	}{
		{"wrong password", "active", "root", "wrong-password", appErr.ErrInvalidAdminPassword},
		{"empty password", "active", "root", "  ", appErr.ErrInvalidAdminPassword},
		{"disabled", "disabled", "root", "Secret@123", appErr.ErrAdminDisabled},
		{"unknown user", "active", "ghost", "whatever", appErr.ErrAdminNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _, svc := newTestService(t, testSeed)
			createAdmin(t, db, "root", "Secret@123", tt.status)

			_, err := svc.Login(context.Background(), tt.username, tt.password)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got: %v", tt.want, err)
			}
		})
	}
}

func TestEnsureDefaultAdmin(t *testing.T) {
	db, _, svc := newTestService(t, testSeed)

	ctx := context.Background()
	if err := svc.EnsureDefaultAdmin(ctx); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}

	var count int64
	if err := db.Model(&model.Admin{}).
		Where("username = ?", testSeed.DefaultUsername).
		Count(&count).Error; err != nil {
		t.Fatalf("failed to count admins: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 default admin, got %d", count)
	}

	// Running bootstrap again should be idempotent.
	if err := svc.EnsureDefaultAdmin(ctx); err != nil {
		t.Fatalf("second bootstrap failed: %v", err)
	}
	if err := db.Model(&model.Admin{}).
		Where("username = ?", testSeed.DefaultUsername).
		Count(&count).Error; err != nil {
		t.Fatalf("failed to count admins: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected idempotent bootstrap, got %d admins", count)
	}

	if _, err := svc.Login(ctx, testSeed.DefaultUsername, testSeed.DefaultPassword); err != nil {
		t.Fatalf("expected seeded admin to log in, got %v", err)
	}
}

func TestEnsureDefaultAdminWithoutPassword(t *testing.T) {
	db, _, svc := newTestService(t, config.AdminSeedConfig{DefaultUsername: "admin"})

	if err := svc.EnsureDefaultAdmin(context.Background()); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	var count int64
	if err := db.Model(&model.Admin{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count admins: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no admin without configured password, got %d", count)
	}
}

type fakeStore struct {
	deleted []int64
	err     error
}

func (f *fakeStore) DeleteSolution(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func TestDeleteSolutionIsAudited(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	prev := logger.Log
	logger.Log = zap.New(core)
	t.Cleanup(func() { logger.Log = prev })

	store := &fakeStore{}
	svc := adminsvc.NewService(nil, pkgAuth.NewIssuer("s", time.Hour), testSeed, store)

	if err := svc.DeleteSolution(context.Background(), 3, 42); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != 42 {
		t.Fatalf("expected solution 42 deleted, got %v", store.deleted)
	}

	entries := logs.FilterMessage("solution deleted").All()
	if len(entries) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["adminID"] != int64(3) || fields["solutionID"] != int64(42) {
		t.Fatalf("unexpected audit fields: %v", fields)
	}
}

func TestDeleteSolutionPassesErrors(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	prev := logger.Log
	logger.Log = zap.New(core)
	t.Cleanup(func() { logger.Log = prev })

	store := &fakeStore{err: appErr.ErrSolutionNotFound}
	svc := adminsvc.NewService(nil, pkgAuth.NewIssuer("s", time.Hour), testSeed, store)

	if err := svc.DeleteSolution(context.Background(), 3, 42); !errors.Is(err, appErr.ErrSolutionNotFound) {
		t.Fatalf("expected ErrSolutionNotFound, got %v", err)
	}
	if logs.FilterMessage("solution deleted").Len() != 0 {
		t.Fatalf("failed delete must not be audited")
	}
}
