package dbhelper

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/kantin-app/kantin/database"
	"github.com/kantin-app/kantin/models"
)

// ErrInvalidCredentials is returned when a password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

func CreateUser(tx *sqlx.Tx, name, email, hashedPassword string) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRow(`
		INSERT INTO users (name, email, password, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		name, email, hashedPassword, models.RoleCustomer,
	).Scan(&id)
	return id, errors.Wrap(err, "failed to insert user")
}

func IsUserExists(email string) (bool, error) {
	var count int
	err := database.Kantin.Get(&count,
		`SELECT COUNT(*) FROM users WHERE LOWER(email) = LOWER($1)`, email)
	return count > 0, errors.Wrap(err, "failed to check user existence")
}

// GetUserByPassword looks the user up by email and verifies the password
// against the stored bcrypt hash. Returns sql.ErrNoRows for unknown emails.
func GetUserByPassword(email, password string) (*models.User, error) {
	var user models.User
	err := database.Kantin.Get(&user, `
		SELECT id, name, email, password, role, created_at FROM users
		WHERE LOWER(email) = LOWER($1)`, email)
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}
