// Package services groups client-side use cases over the API transport.
// Every service validates its input locally first: a malformed plate or
// phone never becomes a network call.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/carblock/internal/client/api"
	"github.com/dmitrijs2005/carblock/internal/client/session"
	"github.com/dmitrijs2005/carblock/internal/common"
	"github.com/dmitrijs2005/carblock/internal/platex"
)

type authAPI interface {
	StartAuth(ctx context.Context, phone string) (*api.StartAuthResult, error)
	VerifyAuth(ctx context.Context, phone, code string) (*api.AuthResult, error)
	SetToken(token string)
}

type AuthService struct {
	api     authAPI
	session *session.Store
}

func NewAuthService(apiClient authAPI, sess *session.Store) *AuthService {
	return &AuthService{api: apiClient, session: sess}
}

// StartAuth requests a verification code for the phone. The returned code is
// non-empty only against development servers that echo it.
func (s *AuthService) StartAuth(ctx context.Context, rawPhone string) (*api.StartAuthResult, error) {
	phone := platex.NormalizePhone(rawPhone)
	if !platex.ValidatePhone(phone) {
		return nil, fmt.Errorf("%w: invalid phone number", common.ErrorValidation)
	}
	return s.api.StartAuth(ctx, phone)
}

// VerifyAuth exchanges the code for a token and persists the session.
func (s *AuthService) VerifyAuth(ctx context.Context, rawPhone, code string) (*api.AuthResult, error) {
	phone := platex.NormalizePhone(rawPhone)
	if !platex.ValidatePhone(phone) {
		return nil, fmt.Errorf("%w: invalid phone number", common.ErrorValidation)
	}
	if code == "" {
		return nil, fmt.Errorf("%w: code is required", common.ErrorValidation)
	}

	res, err := s.api.VerifyAuth(ctx, phone, code)
	if err != nil {
		return nil, err
	}
	if err := s.session.SetAuth(res.Token, res.UserID, phone); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *AuthService) IsAuthenticated() bool {
	return s.session.IsAuthenticated()
}

// Logout is purely local: the token is dropped from the session file and
// from the transport.
func (s *AuthService) Logout() error {
	s.api.SetToken("")
	return s.session.Clear()
}
