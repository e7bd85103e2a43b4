// Package model defines shared data structures.
package model

import "time"

// MaxHearts is the number of hearts a learner starts with.
const MaxHearts = 5

// UserProgress is the persisted learner state.
type UserProgress struct {
	XP                    int      `json:"xp"`
	Streak                int      `json:"streak"`
	Hearts                int      `json:"hearts"`
	CompletedLessons      []string `json:"completedLessons"`
	CurrentLesson         string   `json:"currentLesson,omitempty"`
	LastActiveDate        string   `json:"lastActiveDate"`
	LessonsCompletedToday []string `json:"lessonsCompletedToday"`
	WordsLearned          []string `json:"wordsLearned"`
	TotalAnswers          int      `json:"totalAnswers"`
	CorrectAnswers        int      `json:"correctAnswers"`
	PracticeSessions      int      `json:"practiceSessions"`
}

// Clone returns a deep copy of the progress.
func (p UserProgress) Clone() UserProgress {
	out := p
	out.CompletedLessons = cloneStrings(p.CompletedLessons)
	out.LessonsCompletedToday = cloneStrings(p.LessonsCompletedToday)
	out.WordsLearned = cloneStrings(p.WordsLearned)
	return out
}

// HasCompleted reports whether the lesson id is in the completed set.
func (p UserProgress) HasCompleted(lessonID string) bool {
	return contains(p.CompletedLessons, lessonID)
}

// Word is a vocabulary entry.
type Word struct {
	ID            string `json:"id" yaml:"id"`
	Target        string `json:"yoruba" yaml:"yoruba"`
	English       string `json:"english" yaml:"english"`
	Pronunciation string `json:"pronunciation,omitempty" yaml:"pronunciation,omitempty"`
}

// ExerciseType names an exercise variant.
type ExerciseType string

// Exercise variants.
const (
	MultipleChoice ExerciseType = "multiple-choice"
	Translation    ExerciseType = "translation"
	Matching       ExerciseType = "matching"
	Listening      ExerciseType = "listening"
	StoryType      ExerciseType = "story"
)

// Pair is one row of a matching exercise.
type Pair struct {
	Target  string `json:"yoruba" yaml:"yoruba"`
	English string `json:"english" yaml:"english"`
}

// Blank is a fill-in position inside a story.
type Blank struct {
	Position int      `json:"position" yaml:"position"`
	Answer   string   `json:"answer" yaml:"answer"`
	Options  []string `json:"options" yaml:"options"`
}

// Story is the payload of a story exercise.
type Story struct {
	Text                  string   `json:"text" yaml:"text"`
	Blanks                []Blank  `json:"blanks" yaml:"blanks"`
	ComprehensionQuestion string   `json:"comprehensionQuestion" yaml:"comprehension_question"`
	ComprehensionAnswer   string   `json:"comprehensionAnswer" yaml:"comprehension_answer"`
	ComprehensionOptions  []string `json:"comprehensionOptions" yaml:"comprehension_options"`
}

// Exercise is a single quiz item.
type Exercise struct {
	ID            string       `json:"id" yaml:"id"`
	Type          ExerciseType `json:"type" yaml:"type"`
	Question      string       `json:"question" yaml:"question"`
	CorrectAnswer string       `json:"correctAnswer" yaml:"correct_answer"`
	Options       []string     `json:"options,omitempty" yaml:"options,omitempty"`
	Pairs         []Pair       `json:"pairs,omitempty" yaml:"pairs,omitempty"`
	Word          *Word        `json:"word,omitempty" yaml:"-"`
	Explanation   string       `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	Story         *Story       `json:"story,omitempty" yaml:"-"`
}

// Example is a sample phrase shown in a lesson introduction.
type Example struct {
	Target        string `yaml:"yoruba"`
	English       string `yaml:"english"`
	Pronunciation string `yaml:"pronunciation"`
}

// Introduction is optional reading shown before a lesson's exercises.
type Introduction struct {
	Title    string    `yaml:"title"`
	Content  string    `yaml:"content"`
	Examples []Example `yaml:"examples"`
}

// Lesson groups exercises under a category.
type Lesson struct {
	ID           string
	Title        string
	Category     string
	Icon         string
	Color        string
	Unit         int
	Description  string
	Introduction *Introduction
	Exercises    []Exercise
	XPReward     int
}

// Category is a unit of lessons sharing a vocabulary.
type Category struct {
	ID         string
	Name       string
	Color      string
	Icon       string
	Lessons    []Lesson
	Vocabulary []Word
}

// LeaderboardEntry is one ranked learner.
type LeaderboardEntry struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	XP            int    `json:"xp"`
	Rank          int    `json:"rank"`
	Avatar        string `json:"avatar"`
	Streak        int    `json:"streak"`
	IsCurrentUser bool   `json:"isCurrentUser,omitempty"`
	WeeklyXP      int    `json:"weeklyXP"`
	TotalLessons  int    `json:"totalLessons"`
}

// Achievement tracks progress toward a milestone.
type Achievement struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	UnlockedAt  *time.Time `json:"unlockedAt,omitempty"`
	Progress    int        `json:"progress"`
	Target      int        `json:"target"`
}

// Unlocked reports whether the achievement has been earned.
func (a Achievement) Unlocked() bool {
	return a.UnlockedAt != nil
}

// CommunityData is the persisted community snapshot.
type CommunityData struct {
	Leaderboard    []LeaderboardEntry `json:"leaderboard"`
	Achievements   []Achievement      `json:"achievements"`
	WeeklyRankings []LeaderboardEntry `json:"weeklyRankings"`
	Friends        []LeaderboardEntry `json:"friends"`
	LastUpdated    time.Time          `json:"lastUpdated"`
}

// Profile is the learner's public identity on the leaderboard.
type Profile struct {
	ID         string    `json:"id,omitempty"`
	Name       string    `json:"name"`
	Avatar     string    `json:"avatar"`
	JoinedDate time.Time `json:"joinedDate"`
}

// Account is the signed-in user.
type Account struct {
	ID                  string `json:"id" validate:"required"`
	Email               string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	FullName            string `json:"fullName,omitempty"`
	Language            string `json:"language" validate:"oneof=yoruba itsekiri"`
	ExperienceLevel     string `json:"experienceLevel" validate:"oneof=newbie familiar"`
	OnboardingCompleted bool   `json:"onboardingCompleted"`
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
