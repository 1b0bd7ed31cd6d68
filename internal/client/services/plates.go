package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/carblock/internal/client/api"
	"github.com/dmitrijs2005/carblock/internal/common"
	"github.com/dmitrijs2005/carblock/internal/platex"
)

type platesAPI interface {
	Plates(ctx context.Context) ([]*api.Plate, error)
	AddPlate(ctx context.Context, plate, departureTime string) (*api.Plate, error)
	DeletePlate(ctx context.Context, id string) error
	SetPrimaryPlate(ctx context.Context, id string) error
	SetPlateDepartureTime(ctx context.Context, id, departureTime string) error
}

type PlateService struct {
	api platesAPI
}

func NewPlateService(apiClient platesAPI) *PlateService {
	return &PlateService{api: apiClient}
}

func (s *PlateService) List(ctx context.Context) ([]*api.Plate, error) {
	return s.api.Plates(ctx)
}

func (s *PlateService) Add(ctx context.Context, rawPlate, departureTime string) (*api.Plate, error) {
	plate := platex.NormalizePlate(rawPlate)
	if !platex.ValidatePlate(plate) {
		return nil, fmt.Errorf("%w: invalid plate", common.ErrorValidation)
	}
	if departureTime != "" && !validDepartureTime(departureTime) {
		return nil, fmt.Errorf("%w: departure time must be HH:MM", common.ErrorValidation)
	}
	return s.api.AddPlate(ctx, plate, departureTime)
}

func (s *PlateService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: plate id is required", common.ErrorValidation)
	}
	return s.api.DeletePlate(ctx, id)
}

func (s *PlateService) SetPrimary(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: plate id is required", common.ErrorValidation)
	}
	return s.api.SetPrimaryPlate(ctx, id)
}

func (s *PlateService) SetDepartureTime(ctx context.Context, id, departureTime string) error {
	if id == "" {
		return fmt.Errorf("%w: plate id is required", common.ErrorValidation)
	}
	if departureTime != "" && !validDepartureTime(departureTime) {
		return fmt.Errorf("%w: departure time must be HH:MM", common.ErrorValidation)
	}
	return s.api.SetPlateDepartureTime(ctx, id, departureTime)
}

// validDepartureTime accepts a strict "HH:MM" 24-hour clock value.
func validDepartureTime(v string) bool {
	parts := strings.Split(v, ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	return h >= 0 && h <= 23 && m >= 0 && m <= 59
}
