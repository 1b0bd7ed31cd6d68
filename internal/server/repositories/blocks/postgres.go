package blocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/carblock/internal/common"
	"github.com/dmitrijs2005/carblock/internal/dbx"
	"github.com/dmitrijs2005/carblock/internal/server/models"
)

const blockColumns = `id, blocker_id, blocker_plate, blocked_plate, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanBlocks(rows *sql.Rows) ([]*models.Block, error) {
	defer rows.Close()

	var result []*models.Block
	for rows.Next() {
		b := &models.Block{}
		if err := rows.Scan(&b.ID, &b.BlockerID, &b.BlockerPlate, &b.BlockedPlate, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

func (r *PostgresRepository) Create(ctx context.Context, blockerID, blockerPlate, blockedPlate string) (*models.Block, error) {
	query := `INSERT INTO blocks (blocker_id, blocker_plate, blocked_plate)
	 VALUES ($1, $2, $3)
	 RETURNING ` + blockColumns

	b := &models.Block{}
	err := r.db.QueryRowContext(ctx, query, blockerID, blockerPlate, blockedPlate).
		Scan(&b.ID, &b.BlockerID, &b.BlockerPlate, &b.BlockedPlate, &b.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Block, error) {
	query := `SELECT ` + blockColumns + ` FROM blocks WHERE id = $1`

	b := &models.Block{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&b.ID, &b.BlockerID, &b.BlockerPlate, &b.BlockedPlate, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) ListByBlocker(ctx context.Context, blockerID string) ([]*models.Block, error) {
	query := `SELECT ` + blockColumns + `
	 FROM blocks WHERE blocker_id = $1
	 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, blockerID)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return scanBlocks(rows)
}

func (r *PostgresRepository) ListByBlockerPlates(ctx context.Context, plates []string) ([]*models.Block, error) {
	if len(plates) == 0 {
		return nil, nil
	}
	query := `SELECT ` + blockColumns + `
	 FROM blocks WHERE blocker_plate = ANY($1)
	 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, plates)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return scanBlocks(rows)
}

func (r *PostgresRepository) ListByBlockedPlate(ctx context.Context, plate string) ([]*models.Block, error) {
	query := `SELECT ` + blockColumns + `
	 FROM blocks WHERE UPPER(TRIM(blocked_plate)) = UPPER(TRIM($1))
	 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, plate)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return scanBlocks(rows)
}

func (r *PostgresRepository) Exists(ctx context.Context, blockerPlate, blockedPlate string) (bool, error) {
	query := `SELECT EXISTS(
	   SELECT 1 FROM blocks
	   WHERE blocker_plate = $1 AND blocked_plate = $2
	 )`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, blockerPlate, blockedPlate).Scan(&exists); err != nil {
		return false, fmt.Errorf("error performing sql request: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blocks WHERE id = $1`, id)
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
