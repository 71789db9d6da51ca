package sqlite

import (
	"context"
	"errors"
	"time"

	"alcyxob/strength-planner/internal/domain"
	"alcyxob/strength-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userRepository struct {
	*DB
}

// NewUserRepository creates a user repository backed by SQLite.
func NewUserRepository(db *DB) repository.UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	if user.Email == "" || user.PasswordHash == "" {
		return primitive.NilObjectID, errors.New("email and password hash are required")
	}
	user.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.conn(ctx).ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID.Hex(), user.Name, user.Email, user.PasswordHash, formatTime(now), formatTime(now))
	if err != nil {
		return primitive.NilObjectID, mapError(err)
	}
	return user.ID, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.conn(ctx).QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	row := r.conn(ctx).QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM users WHERE id = ?`, id.Hex())
	return scanUser(row)
}

func (r *userRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return affectedOrNotFound(r.conn(ctx).ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id.Hex()))
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u                    domain.User
		id, created, updated string
	)
	if err := row.Scan(&id, &u.Name, &u.Email, &u.PasswordHash, &created, &updated); err != nil {
		return nil, mapError(err)
	}
	var err error
	if u.ID, err = parseID(id); err != nil {
		return nil, err
	}
	if u.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &u, nil
}
