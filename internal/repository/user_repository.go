package repository

import (
	"context"

	"project_waRelay/internal/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	db *pgxpool.Pool
}

type UserStats struct {
	TotalUsers  int
	ActiveUsers int
	AdminCount  int
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *entities.User) error {
	_, err := r.db.Exec(context.Background(),
		"INSERT INTO users (username, password_hash, role) VALUES ($1, $2, $3)",
		user.Username, user.PasswordHash, user.Role)
	return err
}

func (r *UserRepository) GetByUsername(username string) (*entities.User, error) {
	var user entities.User
	err := r.db.QueryRow(context.Background(),
		"SELECT id, username, password_hash, role, is_active, daily_limit, monthly_limit FROM users WHERE username = $1",
		username).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role, &user.IsActive, &user.DailyLimit, &user.MonthlyLimit)

	if err == pgx.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByID(id int) (*entities.User, error) {
	var user entities.User
	err := r.db.QueryRow(context.Background(),
		"SELECT id, username, password_hash, role, is_active, daily_limit, monthly_limit FROM users WHERE id = $1",
		id).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role, &user.IsActive, &user.DailyLimit, &user.MonthlyLimit)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetAllUsers() ([]entities.User, error) {
	rows, err := r.db.Query(context.Background(),
		"SELECT id, username, role, is_active, daily_limit, monthly_limit, created_at FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []entities.User{}
	for rows.Next() {
		var u entities.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Role, &u.IsActive, &u.DailyLimit, &u.MonthlyLimit, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) UpdateUserStatus(userID int, isActive bool) error {
	_, err := r.db.Exec(context.Background(),
		"UPDATE users SET is_active = $1 WHERE id = $2", isActive, userID)
	return err
}

func (r *UserRepository) UpdateUserLimits(userID, dailyLimit, monthlyLimit int) error {
	_, err := r.db.Exec(context.Background(),
		"UPDATE users SET daily_limit = $1, monthly_limit = $2 WHERE id = $3",
		dailyLimit, monthlyLimit, userID)
	return err
}

// GetStats returns platform-wide user counts for the admin dashboard.
func (r *UserRepository) GetStats() (*UserStats, error) {
	var stats UserStats
	err := r.db.QueryRow(context.Background(), `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_active),
		       COUNT(*) FILTER (WHERE role = 'admin')
		FROM users
	`).Scan(&stats.TotalUsers, &stats.ActiveUsers, &stats.AdminCount)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
