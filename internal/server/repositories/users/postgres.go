package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/carblock/internal/common"
	"github.com/dmitrijs2005/carblock/internal/dbx"
	"github.com/dmitrijs2005/carblock/internal/server/models"
)

const userColumns = `id, COALESCE(phone_encrypted, ''), COALESCE(phone_hash, ''),
	COALESCE(name, ''), COALESCE(telegram, ''), show_contacts,
	COALESCE(owner_type, ''), owner_info, COALESCE(departure_time, ''),
	COALESCE(push_token, ''), created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.PhoneEncrypted, &u.PhoneHash, &u.Name, &u.Telegram,
		&u.ShowContacts, &u.OwnerType, &u.OwnerInfo, &u.DepartureTime,
		&u.PushToken, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `INSERT INTO users (phone_encrypted, phone_hash)
	 VALUES ($1, $2)
	 RETURNING ` + userColumns

	row := r.db.QueryRowContext(ctx, query, user.PhoneEncrypted, user.PhoneHash)
	created, err := scanUser(row)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, err
	}
	return created, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByPhoneHash(ctx context.Context, phoneHash string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone_hash = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, phoneHash))
}

func (r *PostgresRepository) Update(ctx context.Context, id string, upd *models.UpdateUser) (*models.User, error) {
	query := `UPDATE users SET
	   name = COALESCE($2, name),
	   telegram = COALESCE($3, telegram),
	   show_contacts = COALESCE($4, show_contacts),
	   owner_type = COALESCE($5, owner_type),
	   owner_info = COALESCE($6, owner_info),
	   departure_time = COALESCE($7, departure_time),
	   push_token = COALESCE($8, push_token),
	   updated_at = NOW()
	 WHERE id = $1
	 RETURNING ` + userColumns

	var ownerInfo any
	if upd.OwnerInfo != nil {
		ownerInfo = upd.OwnerInfo
	}
	row := r.db.QueryRowContext(ctx, query, id,
		upd.Name, upd.Telegram, upd.ShowContacts, upd.OwnerType,
		ownerInfo, upd.DepartureTime, upd.PushToken)
	return scanUser(row)
}

func (r *PostgresRepository) SetPushToken(ctx context.Context, id string, token string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET push_token = $2, updated_at = NOW() WHERE id = $1`, id, token)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}
