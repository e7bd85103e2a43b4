package community

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/M94KO/MrEdesPlayground/internal/model"
	"github.com/M94KO/MrEdesPlayground/internal/store"
)

// Storage keys.
const (
	DataKey    = "yoruba_community_data"
	ProfileKey = "yoruba_user_profile"
)

// Profile defaults.
const (
	DefaultName   = "You"
	DefaultAvatar = "👤"
)

// DefaultRecent is the number of achievements Recent shows by default.
const DefaultRecent = 3

const maxNameLen = 40

var (
	// ErrInvalidName is returned for empty or overlong display names.
	ErrInvalidName = errors.New("name must be 1-40 characters")
	// ErrInvalidAvatar is returned for an empty avatar.
	ErrInvalidAvatar = errors.New("avatar must not be empty")
)

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// WithRand sets the random source used for simulated peer streaks.
func WithRand(rnd *rand.Rand) Option {
	return func(s *Service) {
		s.rnd = rnd
	}
}

// Service owns the community snapshot and the learner profile.
type Service struct {
	kv  store.KV
	log *zap.Logger
	now func() time.Time
	rnd *rand.Rand

	mu      sync.Mutex
	data    model.CommunityData
	profile model.Profile
}

// NewService returns a Service holding defaults. Call Load to restore saved state.
func NewService(kv store.KV, opts ...Option) *Service {
	s := &Service{
		kv:  kv,
		log: zap.NewNop(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rnd == nil {
		s.rnd = rand.New(rand.NewSource(s.now().UnixNano()))
	}
	s.data = s.defaultData()
	s.profile = s.defaultProfile()
	return s
}

func (s *Service) defaultData() model.CommunityData {
	return model.CommunityData{
		Leaderboard:    []model.LeaderboardEntry{},
		Achievements:   DefaultAchievements(),
		WeeklyRankings: []model.LeaderboardEntry{},
		Friends:        []model.LeaderboardEntry{},
		LastUpdated:    s.now().UTC(),
	}
}

func (s *Service) defaultProfile() model.Profile {
	return model.Profile{
		Name:       DefaultName,
		Avatar:     DefaultAvatar,
		JoinedDate: s.now().UTC(),
	}
}

// Load restores the snapshot and profile. Unreadable blobs are logged and
// replaced with defaults.
func (s *Service) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var data model.CommunityData
	if s.read(ctx, DataKey, &data) {
		data.Achievements = mergeCatalogue(data.Achievements)
		s.data = data
	}
	var profile model.Profile
	if s.read(ctx, ProfileKey, &profile) {
		if strings.TrimSpace(profile.Name) == "" {
			profile.Name = DefaultName
		}
		if profile.Avatar == "" {
			profile.Avatar = DefaultAvatar
		}
		s.profile = profile
	}
}

func (s *Service) read(ctx context.Context, key string, dst any) bool {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return false
	}
	if err != nil {
		s.log.Error("failed to read community state", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		s.log.Warn("discarding corrupt community state", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *Service) write(ctx context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, string(payload)); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Refresh recomputes both boards and achievement progress from p and saves
// the snapshot. Save failures are logged.
func (s *Service) Refresh(ctx context.Context, p model.UserProgress) model.CommunityData {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	s.data.Leaderboard, s.data.WeeklyRankings = RecomputeLeaderboard(p, s.profile, s.rnd)
	s.data.Achievements = UpdateAchievements(s.data.Achievements, p, now)
	s.data.LastUpdated = now
	if err := s.write(ctx, DataKey, s.data); err != nil {
		s.log.Error("failed to save community data", zap.Error(err))
	}
	return cloneData(s.data)
}

// Follow refreshes the community state whenever src reports new progress.
func (s *Service) Follow(ctx context.Context, src interface {
	Subscribe(func(model.UserProgress))
}) {
	src.Subscribe(func(p model.UserProgress) {
		s.Refresh(ctx, p)
	})
}

// UpdateProfile changes the learner's display name and avatar.
func (s *Service) UpdateProfile(ctx context.Context, name, avatar string) (model.Profile, error) {
	name = strings.TrimSpace(name)
	avatar = strings.TrimSpace(avatar)
	if name == "" || utf8.RuneCountInString(name) > maxNameLen {
		return model.Profile{}, ErrInvalidName
	}
	if avatar == "" {
		return model.Profile{}, ErrInvalidAvatar
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.profile
	if next.ID == "" {
		next.ID = uuid.NewString()
	}
	next.Name = name
	next.Avatar = avatar
	if err := s.write(ctx, ProfileKey, next); err != nil {
		return model.Profile{}, err
	}
	s.profile = next
	s.log.Info("profile updated", zap.String("id", next.ID), zap.String("name", next.Name))
	return next, nil
}

// Profile returns the learner profile.
func (s *Service) Profile() model.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// Data returns a copy of the community snapshot.
func (s *Service) Data() model.CommunityData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneData(s.data)
}

// Unlocked returns earned achievements in catalogue order.
func (s *Service) Unlocked() []model.Achievement {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Achievement
	for _, a := range s.data.Achievements {
		if a.Unlocked() {
			out = append(out, a)
		}
	}
	return out
}

// Recent returns up to n earned achievements, newest first. n <= 0 uses DefaultRecent.
func (s *Service) Recent(n int) []model.Achievement {
	if n <= 0 {
		n = DefaultRecent
	}
	unlocked := s.Unlocked()
	sort.SliceStable(unlocked, func(i, j int) bool {
		return unlocked[i].UnlockedAt.After(*unlocked[j].UnlockedAt)
	})
	if len(unlocked) > n {
		unlocked = unlocked[:n]
	}
	return unlocked
}

// CurrentUserRank returns the learner's all-time rank, 1 before the first refresh.
func (s *Service) CurrentUserRank() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := findCurrent(s.data.Leaderboard); ok && e.Rank > 0 {
		return e.Rank
	}
	return 1
}

// WeeklyRank returns the learner's weekly rank, 1 before the first refresh.
func (s *Service) WeeklyRank() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := findCurrent(s.data.WeeklyRankings); ok && e.Rank > 0 {
		return e.Rank
	}
	return 1
}

func cloneData(d model.CommunityData) model.CommunityData {
	out := d
	out.Leaderboard = append([]model.LeaderboardEntry(nil), d.Leaderboard...)
	out.WeeklyRankings = append([]model.LeaderboardEntry(nil), d.WeeklyRankings...)
	out.Friends = append([]model.LeaderboardEntry(nil), d.Friends...)
	out.Achievements = append([]model.Achievement(nil), d.Achievements...)
	return out
}
