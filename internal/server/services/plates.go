package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/carblock/internal/common"
	"github.com/dmitrijs2005/carblock/internal/dbx"
	"github.com/dmitrijs2005/carblock/internal/platex"
	"github.com/dmitrijs2005/carblock/internal/server/models"
	"github.com/dmitrijs2005/carblock/internal/server/repositories/repomanager"
)

// PlateService manages a user's registered plates. A user's first plate
// becomes primary automatically; after that the primary is switched
// explicitly.
type PlateService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewPlateService(db *sql.DB, m repomanager.RepositoryManager) *PlateService {
	return &PlateService{db: db, repomanager: m}
}

// Add registers a plate for the user. The plate is normalized before
// storage; registering the same plate twice is a conflict.
func (s *PlateService) Add(ctx context.Context, userID, rawPlate, departureTime string) (*models.UserPlate, error) {
	plate := platex.NormalizePlate(rawPlate)
	if !platex.ValidatePlate(plate) {
		return nil, fmt.Errorf("%w: invalid plate", common.ErrorValidation)
	}
	if !validDepartureTime(departureTime) {
		return nil, fmt.Errorf("%w: invalid departure time", common.ErrorValidation)
	}

	var created *models.UserPlate
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.UserPlates(tx)

		existing, err := repo.ListByUser(ctx, userID)
		if err != nil {
			return err
		}

		created, err = repo.Create(ctx, userID, plate, len(existing) == 0, departureTime)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, common.ErrorInternal
	}
	return created, nil
}

func (s *PlateService) List(ctx context.Context, userID string) ([]*models.UserPlate, error) {
	result, err := s.repomanager.UserPlates(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return result, nil
}

// SetPrimary makes the given plate the user's primary one. The demote and
// promote run in one transaction so at most one primary row is ever
// visible.
func (s *PlateService) SetPrimary(ctx context.Context, userID, plateID string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.UserPlates(tx).SetPrimary(ctx, plateID, userID)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return common.ErrorInternal
	}
	return nil
}

// UpdateDepartureTime sets or clears the departure-time override on one of
// the user's plates.
func (s *PlateService) UpdateDepartureTime(ctx context.Context, userID, plateID, departureTime string) error {
	if !validDepartureTime(departureTime) {
		return fmt.Errorf("%w: invalid departure time", common.ErrorValidation)
	}
	err := s.repomanager.UserPlates(s.db).UpdateDepartureTime(ctx, plateID, userID, departureTime)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return common.ErrorInternal
	}
	return nil
}

// Delete removes one of the user's plates. Deleting the primary leaves
// the user without one; a new primary is chosen explicitly via SetPrimary.
func (s *PlateService) Delete(ctx context.Context, userID, plateID string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.UserPlates(tx).Delete(ctx, plateID, userID)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return common.ErrorInternal
	}
	return nil
}
