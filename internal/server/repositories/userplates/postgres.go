package userplates

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/carblock/internal/common"
	"github.com/dmitrijs2005/carblock/internal/dbx"
	"github.com/dmitrijs2005/carblock/internal/server/models"
)

const plateColumns = `id, user_id, plate, is_primary, COALESCE(departure_time, ''), created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanPlates(rows *sql.Rows) ([]*models.UserPlate, error) {
	defer rows.Close()

	var result []*models.UserPlate
	for rows.Next() {
		p := &models.UserPlate{}
		if err := rows.Scan(&p.ID, &p.UserID, &p.Plate, &p.IsPrimary, &p.DepartureTime, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *PostgresRepository) Create(ctx context.Context, userID, plate string, isPrimary bool, departureTime string) (*models.UserPlate, error) {
	query := `INSERT INTO user_plates (user_id, plate, is_primary, departure_time)
	 VALUES ($1, $2, $3, NULLIF($4, ''))
	 RETURNING ` + plateColumns

	p := &models.UserPlate{}
	err := r.db.QueryRowContext(ctx, query, userID, plate, isPrimary, departureTime).
		Scan(&p.ID, &p.UserID, &p.Plate, &p.IsPrimary, &p.DepartureTime, &p.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.UserPlate, error) {
	query := `SELECT ` + plateColumns + `
	 FROM user_plates WHERE user_id = $1
	 ORDER BY is_primary DESC, created_at`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return scanPlates(rows)
}

func (r *PostgresRepository) FindPrimary(ctx context.Context, userID string) (*models.UserPlate, error) {
	query := `SELECT ` + plateColumns + `
	 FROM user_plates WHERE user_id = $1 AND is_primary`

	p := &models.UserPlate{}
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&p.ID, &p.UserID, &p.Plate, &p.IsPrimary, &p.DepartureTime, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) FindByPlate(ctx context.Context, plate string) ([]*models.UserPlate, error) {
	query := `SELECT ` + plateColumns + `
	 FROM user_plates WHERE UPPER(TRIM(plate)) = UPPER(TRIM($1))
	 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, plate)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return scanPlates(rows)
}

// SetPrimary demotes the current primary plate and promotes the given one.
// Callers run it inside a transaction so the partial unique index never
// observes two primaries.
func (r *PostgresRepository) SetPrimary(ctx context.Context, id, userID string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE user_plates SET is_primary = FALSE WHERE user_id = $1 AND is_primary`, userID); err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE user_plates SET is_primary = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
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

func (r *PostgresRepository) UpdateDepartureTime(ctx context.Context, id, userID, departureTime string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE user_plates SET departure_time = NULLIF($3, '') WHERE id = $1 AND user_id = $2`,
		id, userID, departureTime)
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

func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM user_plates WHERE id = $1 AND user_id = $2`, id, userID)
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
