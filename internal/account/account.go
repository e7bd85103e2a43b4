// Package account manages the signed-in learner and their course preferences.
package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/M94KO/MrEdesPlayground/internal/model"
	"github.com/M94KO/MrEdesPlayground/internal/store"
)

// StorageKey is the key the account is stored under.
const StorageKey = "auth_user"

const maxEmailLen = 254

// Supported preferences.
const (
	LanguageYoruba   = "yoruba"
	LanguageItsekiri = "itsekiri"
	LevelNewbie      = "newbie"
	LevelFamiliar    = "familiar"
)

// Sign-in and preference errors.
var (
	ErrEmailRequired      = errors.New("email is required")
	ErrEmailTooLong       = errors.New("email is too long")
	ErrInvalidEmail       = errors.New("please enter a valid email address")
	ErrNotSignedIn        = errors.New("not signed in")
	ErrInvalidPreferences = errors.New("invalid preferences")
)

var validate = validator.New()

// Service persists the current account.
type Service struct {
	kv  store.KV
	log *zap.Logger

	mu      sync.Mutex
	current *model.Account
}

// NewService returns a signed-out Service. Call Load to restore a saved account.
func NewService(kv store.KV, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{kv: kv, log: log}
}

// Load restores the saved account. Unreadable data leaves the learner signed out.
func (s *Service) Load(ctx context.Context) (model.Account, bool) {
	raw, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.log.Error("failed to read account", zap.Error(err))
		}
		return model.Account{}, false
	}
	var acct model.Account
	if err := json.Unmarshal([]byte(raw), &acct); err != nil {
		s.log.Warn("discarding corrupt account", zap.Error(err))
		return model.Account{}, false
	}
	if err := validate.Struct(acct); err != nil {
		s.log.Warn("discarding invalid account", zap.Error(err))
		return model.Account{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &acct
	return acct, true
}

// Current returns the signed-in account.
func (s *Service) Current() (model.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return model.Account{}, false
	}
	return *s.current, true
}

// NormalizeEmail trims and lower-cases email and checks its shape.
func NormalizeEmail(email string) (string, error) {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return "", ErrEmailRequired
	}
	if len(email) > maxEmailLen {
		return "", ErrEmailTooLong
	}
	normalized := strings.ToLower(trimmed)
	if err := validate.Var(normalized, "email"); err != nil {
		return "", ErrInvalidEmail
	}
	if domain := normalized[strings.LastIndex(normalized, "@")+1:]; !strings.Contains(domain, ".") {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

// SignInWithEmail creates a new account for email. Onboarding preferences
// start at their defaults.
func (s *Service) SignInWithEmail(ctx context.Context, email, fullName string) (model.Account, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return model.Account{}, err
	}
	acct := model.Account{
		ID:              "email_" + uuid.NewString(),
		Email:           normalized,
		FullName:        strings.TrimSpace(fullName),
		Language:        LanguageYoruba,
		ExperienceLevel: LevelNewbie,
	}
	if err := s.save(ctx, acct); err != nil {
		return model.Account{}, err
	}
	s.log.Info("signed in", zap.String("id", acct.ID))
	return acct, nil
}

// UpdatePreferences sets the course language and experience level and
// marks onboarding as done.
func (s *Service) UpdatePreferences(ctx context.Context, language, level string) (model.Account, error) {
	acct, ok := s.Current()
	if !ok {
		return model.Account{}, ErrNotSignedIn
	}
	acct.Language = strings.ToLower(strings.TrimSpace(language))
	acct.ExperienceLevel = strings.ToLower(strings.TrimSpace(level))
	acct.OnboardingCompleted = true
	if err := validate.Struct(acct); err != nil {
		return model.Account{}, fmt.Errorf("%w: %s", ErrInvalidPreferences, describe(err))
	}
	if err := s.save(ctx, acct); err != nil {
		return model.Account{}, err
	}
	return acct, nil
}

// SignOut forgets the current account.
func (s *Service) SignOut(ctx context.Context) error {
	if err := s.kv.Remove(ctx, StorageKey); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	return nil
}

func (s *Service) save(ctx context.Context, acct model.Account) error {
	if err := validate.Struct(acct); err != nil {
		return fmt.Errorf("invalid account: %s", describe(err))
	}
	payload, err := json.Marshal(acct)
	if err != nil {
		return fmt.Errorf("failed to encode account: %w", err)
	}
	if err := s.kv.Set(ctx, StorageKey, string(payload)); err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &acct
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		if fe.Tag() == "oneof" {
			parts = append(parts, fmt.Sprintf("%s must be one of [%s]", field, fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s failed %s", field, fe.Tag()))
	}
	return strings.Join(parts, ", ")
}
