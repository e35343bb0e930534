package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	user.CreatedAt = time.Now()

	cmd := `
        INSERT INTO users (id, email, name, role, password_hash, created_at)
        VALUES ($1, $2, $3, $4, $5, $6);
    `
	_, err := s.db.Exec(ctx, cmd, user.ID, user.Email, user.Name, user.Role, user.PasswordHash, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.NewConflict("Email already registered")
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *Store) UserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.scanUser(s.db.QueryRow(ctx, `
        SELECT id, email, name, role, password_hash, created_at
        FROM users WHERE id = $1;
    `, id))
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.scanUser(s.db.QueryRow(ctx, `
        SELECT id, email, name, role, password_hash, created_at
        FROM users WHERE email = $1;
    `, email))
}

func (s *Store) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

func (s *Store) UpdateUserName(ctx context.Context, id uuid.UUID, name string) error {
	tag, err := s.db.Exec(ctx, `UPDATE users SET name = $2 WHERE id = $1;`, id, name)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("User not found")
	}
	return nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := s.db.Exec(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1;`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("User not found")
	}
	return nil
}

func (s *Store) CreateSession(ctx context.Context, session *domain.Session) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	session.CreatedAt = time.Now()

	cmd := `
        INSERT INTO sessions (id, user_id, token, expires_at, created_at)
        VALUES ($1, $2, $3, $4, $5);
    `
	_, err := s.db.Exec(ctx, cmd, session.ID, session.UserID, session.Token, session.ExpiresAt, session.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (s *Store) DeleteSessionByToken(ctx context.Context, token string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE token = $1;`, token)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *Store) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at < now();`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *Store) UpdateUserEmail(ctx context.Context, id uuid.UUID, email string) error {
	tag, err := s.db.Exec(ctx, `UPDATE users SET email = $2 WHERE id = $1;`, id, email)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.NewConflict("Email already registered")
		}
		return fmt.Errorf("failed to update user email: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("User not found")
	}
	return nil
}

// ListUsers is the admin directory, newest accounts first.
func (s *Store) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, int64, error) {
	var total int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM users;`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	rows, err := s.db.Query(ctx, `
        SELECT id, email, name, role, password_hash, created_at
        FROM users ORDER BY created_at DESC
        LIMIT $1 OFFSET $2;
    `, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.PasswordHash, &u.CreatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		u.PasswordHash = ""
		users = append(users, u)
	}
	return users, total, rows.Err()
}
