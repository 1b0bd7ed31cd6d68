// Package services contains server-side business logic. This file implements
// AuthService, which handles phone-code login, account creation on first
// verification, and token refresh.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/carblock/internal/common"
	"github.com/dmitrijs2005/carblock/internal/cryptox"
	"github.com/dmitrijs2005/carblock/internal/platex"
	"github.com/dmitrijs2005/carblock/internal/server/auth"
	"github.com/dmitrijs2005/carblock/internal/server/config"
	"github.com/dmitrijs2005/carblock/internal/server/models"
	"github.com/dmitrijs2005/carblock/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/carblock/internal/server/sms"
	"github.com/dmitrijs2005/carblock/internal/server/smscode"
)

// AuthResult bundles a minted token with the user it is bound to.
type AuthResult struct {
	Token  string
	UserID string
	IsNew  bool
}

// AuthService drives the phone-code login flow:
// - StartAuth: issue a short-lived numeric code for a phone
// - VerifyAuth: exchange phone+code for a bearer token, creating the
//   account on first login
// - Refresh: exchange a valid or recently expired token for a fresh one
type AuthService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	codes         *smscode.Store
	sender        sms.Sender
	cipher        *cryptox.Cipher
	jwtSecret     []byte
	tokenValidity time.Duration
	returnCode    bool
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config,
	codes *smscode.Store, sender sms.Sender, cipher *cryptox.Cipher) *AuthService {
	return &AuthService{
		db:            db,
		repomanager:   m,
		codes:         codes,
		sender:        sender,
		cipher:        cipher,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidity,
		returnCode:    cfg.ReturnCodeInResponse,
	}
}

// StartAuth issues a verification code for the phone and sends it by SMS.
// A phone has at most one live code; requesting again invalidates the
// previous one. The code is returned to the caller only when the server is
// configured to echo it (development mode).
func (s *AuthService) StartAuth(ctx context.Context, rawPhone string) (string, time.Duration, error) {
	phone := platex.NormalizePhone(rawPhone)
	if !platex.ValidatePhone(phone) {
		return "", 0, fmt.Errorf("%w: invalid phone number", common.ErrorValidation)
	}

	code, err := s.codes.Generate(phone)
	if err != nil {
		return "", 0, common.ErrorInternal
	}

	if err := s.sender.Send(ctx, phone, fmt.Sprintf("Your login code: %s", code)); err != nil {
		return "", 0, fmt.Errorf("error sending sms: %w", err)
	}

	if !s.returnCode {
		code = ""
	}
	return code, s.codes.TTL(), nil
}

// VerifyAuth consumes the code and returns a bearer token. An unknown phone
// gets an account created on the spot, keyed by the phone hash and storing
// the encrypted display form.
func (s *AuthService) VerifyAuth(ctx context.Context, rawPhone, code string) (*AuthResult, error) {
	phone := platex.NormalizePhone(rawPhone)
	if !platex.ValidatePhone(phone) {
		return nil, fmt.Errorf("%w: invalid phone number", common.ErrorValidation)
	}

	if err := s.codes.Verify(phone, code); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	isNew := false
	user, err := repo.GetByPhoneHash(ctx, cryptox.HashPhone(phone))
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInternal
		}
		encrypted, encErr := s.cipher.Encrypt(phone)
		if encErr != nil {
			return nil, common.ErrorInternal
		}
		user, err = repo.Create(ctx, &models.User{
			PhoneEncrypted: encrypted,
			PhoneHash:      cryptox.HashPhone(phone),
		})
		if err != nil {
			return nil, common.ErrorInternal
		}
		isNew = true
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &AuthResult{Token: token, UserID: user.ID, IsNew: isNew}, nil
}

// Refresh exchanges a token whose expiry is in the future or within the
// refresh grace window for a fresh one. The user must still exist.
func (s *AuthService) Refresh(ctx context.Context, oldToken string) (*AuthResult, error) {
	userID, err := auth.GetUserIDForRefresh(oldToken, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, common.ErrorInternal
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &AuthResult{Token: token, UserID: user.ID}, nil
}
