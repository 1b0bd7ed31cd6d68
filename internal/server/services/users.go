package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/carblock/internal/common"
	"github.com/dmitrijs2005/carblock/internal/cryptox"
	"github.com/dmitrijs2005/carblock/internal/platex"
	"github.com/dmitrijs2005/carblock/internal/server/models"
	"github.com/dmitrijs2005/carblock/internal/server/repositories/repomanager"
)

// Profile is a user's own view of their account, with the phone decrypted
// for display.
type Profile struct {
	User  *models.User
	Phone string
}

// UserService handles profile reads and updates plus public lookups of
// other users by plate.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cipher      *cryptox.Cipher
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cipher *cryptox.Cipher) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		cipher:      cipher,
	}
}

// validDepartureTime accepts "HH:MM" on a 24-hour clock, or empty.
func validDepartureTime(s string) bool {
	if s == "" {
		return true
	}
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	return h < 24 && m < 60
}

// publicProfile projects a user onto the fields visible to other users.
// Contact fields are disclosed only when the user opted in.
func (s *UserService) publicProfile(u *models.User) *models.PublicProfile {
	p := &models.PublicProfile{ID: u.ID}
	if !u.ShowContacts {
		return p
	}
	p.Name = u.Name
	p.Telegram = u.Telegram
	if u.PhoneEncrypted != "" {
		if phone, err := s.cipher.Decrypt(u.PhoneEncrypted); err == nil {
			p.Phone = platex.FormatPhone(phone)
		}
	}
	return p
}

func (s *UserService) Profile(ctx context.Context, userID string) (*Profile, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, common.ErrorInternal
	}

	phone := ""
	if user.PhoneEncrypted != "" {
		if p, decErr := s.cipher.Decrypt(user.PhoneEncrypted); decErr == nil {
			phone = p
		}
	}
	return &Profile{User: user, Phone: phone}, nil
}

// Update applies the provided profile changes. Nil fields are left as is.
func (s *UserService) Update(ctx context.Context, userID string, upd *models.UpdateUser) (*Profile, error) {
	if upd.DepartureTime != nil && !validDepartureTime(*upd.DepartureTime) {
		return nil, fmt.Errorf("%w: invalid departure time", common.ErrorValidation)
	}
	if upd.OwnerType != nil && *upd.OwnerType != "" &&
		*upd.OwnerType != common.OwnerTypeOwner && *upd.OwnerType != common.OwnerTypeRenter {
		return nil, fmt.Errorf("%w: invalid owner type", common.ErrorValidation)
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.Update(ctx, userID, upd)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, common.ErrorInternal
	}

	phone := ""
	if user.PhoneEncrypted != "" {
		if p, decErr := s.cipher.Decrypt(user.PhoneEncrypted); decErr == nil {
			phone = p
		}
	}
	return &Profile{User: user, Phone: phone}, nil
}

// ByPlate resolves a plate to its owner's public profile. When several
// users registered the same plate, the earliest registration wins.
func (s *UserService) ByPlate(ctx context.Context, rawPlate string) (*models.PublicProfile, error) {
	plate := platex.NormalizePlate(rawPlate)
	if !platex.ValidatePlate(plate) {
		return nil, fmt.Errorf("%w: invalid plate", common.ErrorValidation)
	}

	owners, err := s.repomanager.UserPlates(s.db).FindByPlate(ctx, plate)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if len(owners) == 0 {
		return nil, common.ErrorNotFound
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, owners[0].UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, common.ErrorInternal
	}
	return s.publicProfile(user), nil
}

// SetPushToken stores the device push token for the user.
func (s *UserService) SetPushToken(ctx context.Context, userID, token string) error {
	if err := s.repomanager.Users(s.db).SetPushToken(ctx, userID, token); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return common.ErrorInternal
	}
	return nil
}
