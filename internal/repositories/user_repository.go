package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/eadcode/OnlineDatingApp/internal/models"
)

// OAuth provider names stored on the user record.
const (
	ProviderFacebook = "facebook"
	ProviderGoogle   = "google"
)

const userColumns = `id, facebook_id, google_id, firstname, lastname, fullname, image, email, password_hash,
        city, country, age, gender, about, online, wallet, created_at`

// UserRepository abstracts account persistence.
type UserRepository interface {
	Create(ctx context.Context, u models.NewUser) (models.User, error)
	FindByID(ctx context.Context, userID int) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByProvider(ctx context.Context, provider, providerID string) (models.User, error)
	LinkProvider(ctx context.Context, userID int, provider, providerID string) error
	UpdateProfile(ctx context.Context, userID int, p models.ProfileUpdate) (models.User, error)
	SetOnline(ctx context.Context, userID int, online bool) error
	ListSingles(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, userID int) error
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a new account. A taken email yields ErrDuplicateEmail.
func (r *UserRepo) Create(ctx context.Context, u models.NewUser) (models.User, error) {
	image := u.Image
	if image == "" {
		image = models.DefaultImage
	}

	var user models.User
	err := r.db.GetContext(ctx, &user, `INSERT INTO users (facebook_id, google_id, firstname, lastname, fullname, image, email, password_hash)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING `+userColumns,
		u.FacebookID, u.GoogleID, u.Firstname, u.Lastname, u.Fullname, image, u.Email, u.PasswordHash)
	if isUniqueViolation(err) {
		return models.User{}, ErrDuplicateEmail
	}
	return user, err
}

// FindByID fetches a user by id.
func (r *UserRepo) FindByID(ctx context.Context, userID int) (models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, userID)
}

// FindByEmail fetches a user by email, case-insensitively.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email)=lower($1)`, email)
}

// FindByProvider fetches a user by OAuth provider id.
func (r *UserRepo) FindByProvider(ctx context.Context, provider, providerID string) (models.User, error) {
	column, err := providerColumn(provider)
	if err != nil {
		return models.User{}, err
	}
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE `+column+`=$1`, providerID)
}

// LinkProvider attaches an OAuth id to an existing account.
func (r *UserRepo) LinkProvider(ctx context.Context, userID int, provider, providerID string) error {
	column, err := providerColumn(provider)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `UPDATE users SET `+column+`=$2 WHERE id=$1`, userID, providerID)
	return requireAffected(res, err, ErrUserNotFound)
}

// UpdateProfile overwrites the editable profile fields.
func (r *UserRepo) UpdateProfile(ctx context.Context, userID int, p models.ProfileUpdate) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `UPDATE users SET fullname=$2, email=$3, gender=$4, about=$5, city=$6, country=$7, age=$8,
        image=COALESCE(NULLIF($9, ''), image)
        WHERE id=$1 RETURNING `+userColumns,
		userID, p.Fullname, p.Email, p.Gender, p.About, p.City, p.Country, p.Age, p.Image)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.User{}, ErrUserNotFound
	case isUniqueViolation(err):
		return models.User{}, ErrDuplicateEmail
	}
	return user, err
}

// SetOnline updates the presence flag.
func (r *UserRepo) SetOnline(ctx context.Context, userID int, online bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET online=$2 WHERE id=$1`, userID, online)
	return requireAffected(res, err, ErrUserNotFound)
}

// ListSingles returns every account, newest first.
func (r *UserRepo) ListSingles(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := r.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	return users, err
}

// Delete removes an account. Owned chats, posts, smiles and friendships cascade.
func (r *UserRepo) Delete(ctx context.Context, userID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id=$1`, userID)
	return requireAffected(res, err, ErrUserNotFound)
}

func (r *UserRepo) getOne(ctx context.Context, query string, args ...any) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

func providerColumn(provider string) (string, error) {
	switch provider {
	case ProviderFacebook:
		return "facebook_id", nil
	case ProviderGoogle:
		return "google_id", nil
	default:
		return "", fmt.Errorf("unknown provider %q", provider)
	}
}

func requireAffected(res sql.Result, err error, notFound error) error {
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return notFound
	}
	return nil
}
