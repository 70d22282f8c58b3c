package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/naufalhakim/product-management-api/internal/models"
	"github.com/naufalhakim/product-management-api/internal/utils"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error
	ListUsers(ctx context.Context, opts UserListOptions) ([]*models.User, int64, error)
	EmailExists(ctx context.Context, email string, excludeID int64) (bool, error)
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepo(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `id, nama, no_telepon, email, password, role, status_user, photo_profile, created_at, updated_at`

func scanUser(row rowScanner) (*models.User, error) {

	user := &models.User{}

	var photo sql.NullString

	err := row.Scan(&user.ID, &user.Nama, &user.NoTelepon, &user.Email, &user.Password,
		&user.Role, &user.StatusUser, &photo, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if photo.Valid {
		user.PhotoProfile = &photo.String
	}

	return user, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}

	return sql.NullString{String: *s, Valid: true}
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `INSERT INTO users (nama, no_telepon, email, password, role, status_user, photo_profile)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id, created_at, updated_at`

	return r.DB.QueryRowContext(dbCtx, query,
		user.Nama, user.NoTelepon, user.Email, user.Password, user.Role, user.StatusUser,
		nullString(user.PhotoProfile)).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)

	return scanUser(r.DB.QueryRowContext(dbCtx, query, email))

}

func (r *userRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	return scanUser(r.DB.QueryRowContext(dbCtx, query, id))

}

func (r *userRepository) UpdateUser(ctx context.Context, user *models.User) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE users
			  SET nama = $1, no_telepon = $2, email = $3, password = $4, role = $5,
				  status_user = $6, photo_profile = $7, updated_at = NOW()
			  WHERE id = $8
			  RETURNING updated_at`

	return r.DB.QueryRowContext(dbCtx, query,
		user.Nama, user.NoTelepon, user.Email, user.Password, user.Role, user.StatusUser,
		nullString(user.PhotoProfile), user.ID).
		Scan(&user.UpdatedAt)

}

func (r *userRepository) DeleteUser(ctx context.Context, id int64) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil

}

func (r *userRepository) ListUsers(ctx context.Context, opts UserListOptions) ([]*models.User, int64, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	q := BuildUserListQuery(opts)

	var total int64

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM users %s`, q.Where)

	if err := r.DB.QueryRowContext(dbCtx, countQuery, q.Args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery := fmt.Sprintf(`SELECT %s FROM users %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		userColumns, q.Where, q.OrderBy, len(q.Args)+1, len(q.Args)+2)

	args := append(q.Args, q.Limit, q.Offset)

	rows, err := r.DB.QueryContext(dbCtx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	var users []*models.User

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}

		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return users, total, nil

}

// EmailExists reports whether another user already claims the email.
// excludeID lets an update re-save its own address.
func (r *userRepository) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var exists bool

	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id <> $2)`

	if err := r.DB.QueryRowContext(dbCtx, query, email, excludeID).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil

}
