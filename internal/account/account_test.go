package account

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/M94KO/MrEdesPlayground/internal/store"
	mock_store "github.com/M94KO/MrEdesPlayground/internal/store/mock"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		err   error
	}{
		{name: "plain", input: "ada@example.com", want: "ada@example.com"},
		{name: "trim and lower", input: "  Ada@Example.COM ", want: "ada@example.com"},
		{name: "empty", input: "", err: ErrEmailRequired},
		{name: "blank", input: "   ", err: ErrEmailRequired},
		{name: "too long", input: strings.Repeat("a", 250) + "@x.io", err: ErrEmailTooLong},
		{name: "no at", input: "ada.example.com", err: ErrInvalidEmail},
		{name: "no domain dot", input: "ada@example", err: ErrInvalidEmail},
		{name: "space inside", input: "ada lovelace@example.com", err: ErrInvalidEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeEmail(tt.input)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSignInAndReload(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	s := NewService(kv, nil)

	acct, err := s.SignInWithEmail(ctx, " Bisi@Example.com", "  Bísí Adé ")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(acct.ID, "email_"))
	assert.Equal(t, "bisi@example.com", acct.Email)
	assert.Equal(t, "Bísí Adé", acct.FullName)
	assert.Equal(t, LanguageYoruba, acct.Language)
	assert.Equal(t, LevelNewbie, acct.ExperienceLevel)
	assert.False(t, acct.OnboardingCompleted)

	reloaded := NewService(kv, nil)
	got, ok := reloaded.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, acct, got)
}

func TestSignInRejectsBadEmail(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	s := NewService(kv, nil)

	_, err := s.SignInWithEmail(ctx, "nope", "")
	assert.ErrorIs(t, err, ErrInvalidEmail)
	_, ok := s.Current()
	assert.False(t, ok)

	_, err = kv.Get(ctx, StorageKey)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdatePreferences(t *testing.T) {
	ctx := context.Background()
	s := NewService(store.NewMemory(), nil)

	_, err := s.UpdatePreferences(ctx, LanguageItsekiri, LevelFamiliar)
	assert.ErrorIs(t, err, ErrNotSignedIn)

	_, err = s.SignInWithEmail(ctx, "ada@example.com", "")
	require.NoError(t, err)

	acct, err := s.UpdatePreferences(ctx, "Itsekiri", "familiar")
	require.NoError(t, err)
	assert.Equal(t, LanguageItsekiri, acct.Language)
	assert.Equal(t, LevelFamiliar, acct.ExperienceLevel)
	assert.True(t, acct.OnboardingCompleted)

	_, err = s.UpdatePreferences(ctx, "hausa", "familiar")
	require.ErrorIs(t, err, ErrInvalidPreferences)
	assert.Contains(t, err.Error(), "language must be one of [yoruba itsekiri]")

	current, _ := s.Current()
	assert.Equal(t, LanguageItsekiri, current.Language)
}

func TestSignOut(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	s := NewService(kv, nil)
	_, err := s.SignInWithEmail(ctx, "ada@example.com", "")
	require.NoError(t, err)

	require.NoError(t, s.SignOut(ctx))
	_, ok := s.Current()
	assert.False(t, ok)
	_, ok = NewService(kv, nil).Load(ctx)
	assert.False(t, ok)
}

func TestLoadIgnoresCorruptAccount(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	s := NewService(kv, nil)

	require.NoError(t, kv.Set(ctx, StorageKey, "garbage"))
	_, ok := s.Load(ctx)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, StorageKey, `{"id": "", "language": "yoruba", "experienceLevel": "newbie"}`))
	_, ok = s.Load(ctx)
	assert.False(t, ok)
}

func TestSaveFailureKeepsSignedOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	kv := mock_store.NewMockKV(ctrl)
	kv.EXPECT().Set(gomock.Any(), StorageKey, gomock.Any()).Return(errors.New("quota exceeded"))

	s := NewService(kv, nil)
	_, err := s.SignInWithEmail(context.Background(), "ada@example.com", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	_, ok := s.Current()
	assert.False(t, ok)
}
