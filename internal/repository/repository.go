package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ddj1226/SpendSense/internal/models"
	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a lookup matches no row
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when an insert violates a unique constraint
	ErrDuplicate = errors.New("record already exists")
)

// Repository provides database operations
type Repository struct {
	db     *sql.DB
	driver string
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB, driver string) *Repository {
	return &Repository{db: db, driver: driver}
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO users (first_name, last_name, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err := r.db.QueryRow(query, user.FirstName, user.LastName, user.Email, user.PasswordHash).Scan(&user.ID)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(email string) (*models.User, error) {
	return r.findUser(`WHERE email = $1`, email)
}

// FindUserByID retrieves a user by id
func (r *Repository) FindUserByID(id int64) (*models.User, error) {
	return r.findUser(`WHERE id = $1`, id)
}

func (r *Repository) findUser(where string, arg interface{}) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, first_name, last_name, email, password_hash, access_token
		FROM users ` + where
	err := r.db.QueryRow(query, arg).
		Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.PasswordHash, &user.AccessToken)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// SetAccessToken stores the encrypted bank access token for a user
func (r *Repository) SetAccessToken(userID int64, sealedToken string) error {
	res, err := r.db.Exec(`UPDATE users SET access_token = $1 WHERE id = $2`, sealedToken, userID)
	if err != nil {
		return fmt.Errorf("failed to set access token: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to set access token: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveGoal creates or replaces the user's goal
func (r *Repository) SaveGoal(goal *models.Goal) error {
	query := `
		INSERT INTO goals (user_id, target_amount, target_date)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET target_amount = excluded.target_amount,
		    target_date = excluded.target_date,
		    updated_at = CURRENT_TIMESTAMP`
	if _, err := r.db.Exec(query, goal.UserID, goal.TargetAmount, goal.TargetDate); err != nil {
		return fmt.Errorf("failed to save goal: %w", err)
	}
	return nil
}

// FindGoal retrieves the user's goal
func (r *Repository) FindGoal(userID int64) (*models.Goal, error) {
	goal := &models.Goal{UserID: userID}
	query := `SELECT target_amount, target_date FROM goals WHERE user_id = $1`
	err := r.db.QueryRow(query, userID).Scan(&goal.TargetAmount, &goal.TargetDate)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find goal: %w", err)
	}
	return goal, nil
}

// ListDigestTargets returns every saved goal whose owner has linked a bank
func (r *Repository) ListDigestTargets() ([]models.DigestTarget, error) {
	query := `
		SELECT u.id, u.first_name, u.last_name, u.email, u.access_token, g.target_amount, g.target_date
		FROM goals g
		JOIN users u ON u.id = g.user_id
		WHERE u.access_token <> ''
		ORDER BY u.id`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	var targets []models.DigestTarget
	for rows.Next() {
		var t models.DigestTarget
		if err := rows.Scan(&t.User.ID, &t.User.FirstName, &t.User.LastName, &t.User.Email,
			&t.User.AccessToken, &t.Goal.TargetAmount, &t.Goal.TargetDate); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		t.Goal.UserID = t.User.ID
		targets = append(targets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	return targets, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
