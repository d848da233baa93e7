package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/truehomes/truehomes-api/internal/models"
	"gorm.io/gorm"
)

// raceRepo simulates a concurrent writer winning the unique-index race: the
// duplicate pre-check and the re-check after the collision both see nothing,
// while every write hits the index.
type raceRepo struct{}

func (r *raceRepo) Create(*models.User) error { return gorm.ErrDuplicatedKey }
func (r *raceRepo) FindByID(uint64) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *raceRepo) FindByUsername(string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *raceRepo) FindByEmail(string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *raceRepo) Update(*models.User) error { return gorm.ErrDuplicatedKey }
func (r *raceRepo) Delete(uint64) error       { return nil }

func TestAuthService_SignupRaceReportsUnattributedDuplicate(t *testing.T) {
	svc := NewAuthService(&raceRepo{}, NewTokenService("test-secret"), nil, "http://localhost:5173")

	_, err := svc.Signup(SignupInput{
		Username: "alice",
		Email:    "a@x.com",
		Password: "Secret1!pass",
	})

	// The collision cannot be attributed to one field, so neither field may
	// be singled out in the error.
	var dup *DuplicateFieldError
	require.True(t, errors.As(err, &dup))
	require.Empty(t, dup.Field)
	require.Equal(t, "Username or email is already in use", dup.Error())
}
