package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/carblock/internal/client/api"
	"github.com/dmitrijs2005/carblock/internal/common"
	"github.com/dmitrijs2005/carblock/internal/platex"
)

type blocksAPI interface {
	CreateBlock(ctx context.Context, req *api.CreateBlockRequest) (*api.Block, error)
	MyBlocks(ctx context.Context) ([]*api.Block, error)
	BlocksAgainstMyPlates(ctx context.Context, plate string) ([]*api.BlockAgainstMe, error)
	CheckBlock(ctx context.Context, plate string) (*api.CheckResult, error)
	DeleteBlock(ctx context.Context, id string) error
	WarnOwner(ctx context.Context, blockID string) error
	UserByPlate(ctx context.Context, plate string) (*api.PublicProfile, error)
}

type BlockService struct {
	api blocksAPI
}

func NewBlockService(apiClient blocksAPI) *BlockService {
	return &BlockService{api: apiClient}
}

// Create reports that the caller's car is blocking blockedPlate. An optional
// departureTime (HH:MM) is stored on the caller's primary plate as a
// self-declared leave time.
func (s *BlockService) Create(ctx context.Context, blockedPlate string, notifyOwner bool, departureTime string) (*api.Block, error) {
	plate := platex.NormalizePlate(blockedPlate)
	if !platex.ValidatePlate(plate) {
		return nil, fmt.Errorf("%w: invalid plate", common.ErrorValidation)
	}
	if departureTime != "" && !validDepartureTime(departureTime) {
		return nil, fmt.Errorf("%w: departure time must be HH:MM", common.ErrorValidation)
	}
	return s.api.CreateBlock(ctx, &api.CreateBlockRequest{
		BlockedPlate:  plate,
		NotifyOwner:   notifyOwner,
		DepartureTime: departureTime,
	})
}

func (s *BlockService) Mine(ctx context.Context) ([]*api.Block, error) {
	return s.api.MyBlocks(ctx)
}

// AgainstMyPlates lists blocks on the caller's plates, optionally narrowed
// to one plate.
func (s *BlockService) AgainstMyPlates(ctx context.Context, plateFilter string) ([]*api.BlockAgainstMe, error) {
	if plateFilter != "" {
		plateFilter = platex.NormalizePlate(plateFilter)
		if !platex.ValidatePlate(plateFilter) {
			return nil, fmt.Errorf("%w: invalid plate", common.ErrorValidation)
		}
	}
	return s.api.BlocksAgainstMyPlates(ctx, plateFilter)
}

func (s *BlockService) Check(ctx context.Context, rawPlate string) (*api.CheckResult, error) {
	plate := platex.NormalizePlate(rawPlate)
	if !platex.ValidatePlate(plate) {
		return nil, fmt.Errorf("%w: invalid plate", common.ErrorValidation)
	}
	return s.api.CheckBlock(ctx, plate)
}

func (s *BlockService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: block id is required", common.ErrorValidation)
	}
	return s.api.DeleteBlock(ctx, id)
}

func (s *BlockService) WarnOwner(ctx context.Context, blockID string) error {
	if blockID == "" {
		return fmt.Errorf("%w: block id is required", common.ErrorValidation)
	}
	return s.api.WarnOwner(ctx, blockID)
}

// OwnerByPlate looks up the public profile of a plate's owner.
func (s *BlockService) OwnerByPlate(ctx context.Context, rawPlate string) (*api.PublicProfile, error) {
	plate := platex.NormalizePlate(rawPlate)
	if !platex.ValidatePlate(plate) {
		return nil, fmt.Errorf("%w: invalid plate", common.ErrorValidation)
	}
	return s.api.UserByPlate(ctx, plate)
}
