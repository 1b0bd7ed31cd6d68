package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dmitrijs2005/carblock/internal/common"
	"github.com/dmitrijs2005/carblock/internal/dbx"
	"github.com/dmitrijs2005/carblock/internal/platex"
	"github.com/dmitrijs2005/carblock/internal/server/push"
	"github.com/dmitrijs2005/carblock/internal/server/models"
	"github.com/dmitrijs2005/carblock/internal/server/repositories/notifications"
	"github.com/dmitrijs2005/carblock/internal/server/repositories/repomanager"
)

// BlockService owns the block lifecycle: creation with its pair-uniqueness
// invariant, listing from both sides of the relation, deletion by the
// creator, and the notifications these events raise.
type BlockService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	users       *UserService
	notifier    push.Notifier

	// in-flight push dispatches, so shutdown and tests can wait for them
	pushWG sync.WaitGroup
}

func NewBlockService(db *sql.DB, m repomanager.RepositoryManager, users *UserService, notifier push.Notifier) *BlockService {
	return &BlockService{
		db:          db,
		repomanager: m,
		users:       users,
		notifier:    notifier,
	}
}

// CheckResult is the outcome of a public blocked-plate lookup.
type CheckResult struct {
	IsBlocked bool
	Block     *models.Block
}

// Create records that the caller's primary plate is blocking blockedPlateRaw.
// The caller must have a registered primary plate. Self-blocking and
// malformed plates are validation errors; a duplicate pair is a conflict.
// Owners of the blocked plate get a durable notification in the same
// transaction when they asked to be notified or declared a departure time;
// the blocker never gets one, even when they own the blocked plate too.
func (s *BlockService) Create(ctx context.Context, userID, blockedPlateRaw string, notifyOwner bool, departureTime string) (*models.Block, error) {
	blockedPlate := platex.NormalizePlate(blockedPlateRaw)
	if !platex.ValidatePlate(blockedPlate) {
		return nil, fmt.Errorf("%w: invalid plate", common.ErrorValidation)
	}
	if !validDepartureTime(departureTime) {
		return nil, fmt.Errorf("%w: invalid departure time", common.ErrorValidation)
	}

	primary, err := s.repomanager.UserPlates(s.db).FindPrimary(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: no registered plate", common.ErrorValidation)
		}
		return nil, common.ErrorInternal
	}
	if primary.Plate == blockedPlate {
		return nil, fmt.Errorf("%w: cannot block own plate", common.ErrorValidation)
	}

	// pre-check; the unique constraint on the pair stays authoritative
	// under concurrent creates
	if exists, err := s.repomanager.Blocks(s.db).Exists(ctx, primary.Plate, blockedPlate); err != nil {
		return nil, common.ErrorInternal
	} else if exists {
		return nil, common.ErrorAlreadyExists
	}

	var block *models.Block
	var recipients []*models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var txErr error
		block, txErr = s.repomanager.Blocks(tx).Create(ctx, userID, primary.Plate, blockedPlate)
		if txErr != nil {
			return txErr
		}

		// departure override joins the block insert, a conflicting report
		// must not leave it behind
		if departureTime != "" {
			if txErr = s.repomanager.UserPlates(tx).UpdateDepartureTime(ctx, primary.ID, userID, departureTime); txErr != nil {
				return txErr
			}
		}

		owners, txErr := s.repomanager.UserPlates(tx).FindByPlate(ctx, blockedPlate)
		if txErr != nil {
			return txErr
		}

		for _, owner := range owners {
			if owner.UserID == userID {
				continue
			}
			if !notifyOwner && owner.DepartureTime == "" {
				continue
			}
			user, getErr := s.repomanager.Users(tx).GetByID(ctx, owner.UserID)
			if getErr != nil {
				return getErr
			}
			_, txErr = s.repomanager.Notifications(tx).Create(ctx, &notifications.CreateNotification{
				UserID:  owner.UserID,
				Type:    common.NotificationBlockCreated,
				Title:   "Your car is blocked",
				Message: fmt.Sprintf("Vehicle %s is blocking %s", platex.FormatPlate(primary.Plate), platex.FormatPlate(owner.Plate)),
				Data:    blockPayload(block),
			})
			if txErr != nil {
				return txErr
			}
			recipients = append(recipients, user)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, common.ErrorInternal
	}

	msgs := make([]push.Message, 0, len(recipients))
	for _, user := range recipients {
		msgs = append(msgs, push.Message{
			Token: user.PushToken,
			Title: "Your car is blocked",
			Body:  fmt.Sprintf("Vehicle %s is blocking you", platex.FormatPlate(primary.Plate)),
			Data:  map[string]string{"type": common.NotificationBlockCreated, "block_id": block.ID},
		})
	}
	s.dispatch(ctx, msgs)
	return block, nil
}

// dispatch delivers push messages off the request path. The durable
// notification rows are already committed, delivery is best effort.
func (s *BlockService) dispatch(ctx context.Context, msgs []push.Message) {
	if len(msgs) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	s.pushWG.Add(1)
	go func() {
		defer s.pushWG.Done()
		for _, msg := range msgs {
			s.notifier.Notify(ctx, msg)
		}
	}()
}

func blockPayload(b *models.Block) []byte {
	return []byte(fmt.Sprintf(`{"block_id":%q,"blocker_plate":%q,"blocked_plate":%q}`,
		b.ID, b.BlockerPlate, b.BlockedPlate))
}

// ListMine returns blocks the user created, newest first. Blocks created
// under a plate the user registered later are included as well, so the
// list survives account re-creation.
func (s *BlockService) ListMine(ctx context.Context, userID string) ([]*models.Block, error) {
	repo := s.repomanager.Blocks(s.db)

	own, err := repo.ListByBlocker(ctx, userID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	plates, err := s.repomanager.UserPlates(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	result := own
	if len(plates) > 0 {
		names := make([]string, 0, len(plates))
		for _, p := range plates {
			names = append(names, p.Plate)
		}
		byPlate, err := repo.ListByBlockerPlates(ctx, names)
		if err != nil {
			return nil, common.ErrorInternal
		}

		seen := make(map[string]bool, len(result))
		for _, b := range result {
			seen[b.ID] = true
		}
		for _, b := range byPlate {
			if !seen[b.ID] {
				result = append(result, b)
			}
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// ForMyPlates returns blocks against the user's plates (or one explicit
// plate), each enriched with the blocker's public profile and declared
// departure time.
func (s *BlockService) ForMyPlates(ctx context.Context, userID, plateFilter string) ([]*models.BlockWithBlocker, error) {
	var plates []string
	if plateFilter != "" {
		p := platex.NormalizePlate(plateFilter)
		if !platex.ValidatePlate(p) {
			return nil, fmt.Errorf("%w: invalid plate", common.ErrorValidation)
		}
		plates = []string{p}
	} else {
		owned, err := s.repomanager.UserPlates(s.db).ListByUser(ctx, userID)
		if err != nil {
			return nil, common.ErrorInternal
		}
		for _, p := range owned {
			plates = append(plates, p.Plate)
		}
	}

	repo := s.repomanager.Blocks(s.db)
	result := []*models.BlockWithBlocker{}
	for _, plate := range plates {
		found, err := repo.ListByBlockedPlate(ctx, plate)
		if err != nil {
			return nil, common.ErrorInternal
		}
		for _, b := range found {
			enriched, err := s.enrich(ctx, b)
			if err != nil {
				return nil, common.ErrorInternal
			}
			result = append(result, enriched)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// enrich attaches the blocker's public profile and departure time to a
// block. A blocker account that no longer exists leaves the profile empty.
func (s *BlockService) enrich(ctx context.Context, b *models.Block) (*models.BlockWithBlocker, error) {
	result := &models.BlockWithBlocker{Block: *b}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, b.BlockerID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return result, nil
		}
		return nil, err
	}

	result.Blocker = *s.users.publicProfile(user)
	result.BlockerOwnerType = user.OwnerType
	result.BlockerOwnerInfo = user.OwnerInfo
	result.BlockerDepartureTime = user.DepartureTime

	if primary, err := s.repomanager.UserPlates(s.db).FindPrimary(ctx, b.BlockerID); err == nil && primary.DepartureTime != "" {
		result.BlockerDepartureTime = primary.DepartureTime
	}
	return result, nil
}

// Delete removes a block. Only the creator may delete; owners of the
// blocked plate that were notified about the block get a follow-up
// notification that it is gone.
func (s *BlockService) Delete(ctx context.Context, userID, blockID string) error {
	repo := s.repomanager.Blocks(s.db)

	block, err := repo.GetByID(ctx, blockID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return common.ErrorInternal
	}
	if block.BlockerID != userID {
		return common.ErrorForbidden
	}

	var recipients []*models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if txErr := s.repomanager.Blocks(tx).Delete(ctx, blockID); txErr != nil {
			return txErr
		}

		owners, txErr := s.repomanager.UserPlates(tx).FindByPlate(ctx, block.BlockedPlate)
		if txErr != nil {
			return txErr
		}
		for _, owner := range owners {
			if owner.UserID == userID {
				continue
			}
			user, getErr := s.repomanager.Users(tx).GetByID(ctx, owner.UserID)
			if getErr != nil {
				return getErr
			}
			_, txErr = s.repomanager.Notifications(tx).Create(ctx, &notifications.CreateNotification{
				UserID:  owner.UserID,
				Type:    common.NotificationBlockDeleted,
				Title:   "Blocking car left",
				Message: fmt.Sprintf("Vehicle %s is no longer blocking %s", platex.FormatPlate(block.BlockerPlate), platex.FormatPlate(owner.Plate)),
				Data:    blockPayload(block),
			})
			if txErr != nil {
				return txErr
			}
			recipients = append(recipients, user)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return common.ErrorInternal
	}

	msgs := make([]push.Message, 0, len(recipients))
	for _, user := range recipients {
		msgs = append(msgs, push.Message{
			Token: user.PushToken,
			Title: "Blocking car left",
			Body:  fmt.Sprintf("Vehicle %s is no longer blocking you", platex.FormatPlate(block.BlockerPlate)),
			Data:  map[string]string{"type": common.NotificationBlockDeleted, "block_id": block.ID},
		})
	}
	s.dispatch(ctx, msgs)
	return nil
}

// Check reports whether the plate is currently blocked and, if so, returns
// the most recent block against it.
func (s *BlockService) Check(ctx context.Context, rawPlate string) (*CheckResult, error) {
	plate := platex.NormalizePlate(rawPlate)
	if !platex.ValidatePlate(plate) {
		return nil, fmt.Errorf("%w: invalid plate", common.ErrorValidation)
	}

	found, err := s.repomanager.Blocks(s.db).ListByBlockedPlate(ctx, plate)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if len(found) == 0 {
		return &CheckResult{}, nil
	}
	return &CheckResult{IsBlocked: true, Block: found[0]}, nil
}

// WarnOwner raises a notification to the blocker of the given block,
// bypassing the normal dispatch conditions. Calls are not deduplicated;
// every warn produces a new notification.
func (s *BlockService) WarnOwner(ctx context.Context, userID, blockID string) error {
	block, err := s.repomanager.Blocks(s.db).GetByID(ctx, blockID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return common.ErrorInternal
	}

	blocker, err := s.repomanager.Users(s.db).GetByID(ctx, block.BlockerID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return common.ErrorInternal
	}

	created, err := s.repomanager.Notifications(s.db).Create(ctx, &notifications.CreateNotification{
		UserID:  blocker.ID,
		Type:    common.NotificationWarningCall,
		Title:   "You are asked to move your car",
		Message: fmt.Sprintf("The owner of %s asks you to move vehicle %s", platex.FormatPlate(block.BlockedPlate), platex.FormatPlate(block.BlockerPlate)),
		Data:    blockPayload(block),
	})
	if err != nil {
		return common.ErrorInternal
	}

	s.dispatch(ctx, []push.Message{{
		MessageID: created.ID,
		Token:     blocker.PushToken,
		Title:     "You are asked to move your car",
		Body:      fmt.Sprintf("The owner of %s asks you to move", platex.FormatPlate(block.BlockedPlate)),
		Data:      map[string]string{"type": common.NotificationWarningCall, "block_id": block.ID},
	}})
	return nil
}
