// Package curriculum loads the course: units, lessons and vocabulary.
package curriculum

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/M94KO/MrEdesPlayground/internal/exercise"
	"github.com/M94KO/MrEdesPlayground/internal/model"
)

//go:embed course.yaml
var builtin []byte

var (
	// ErrUnknownLesson is returned for lesson ids missing from the course.
	ErrUnknownLesson = errors.New("unknown lesson")
	// ErrLessonLocked is returned when the previous lesson is not completed yet.
	ErrLessonLocked = errors.New("lesson is locked")
)

type courseFile struct {
	Vocabulary map[string][]model.Word `yaml:"vocabulary"`
	Units      []unitFile              `yaml:"units"`
}

type unitFile struct {
	ID         string       `yaml:"id"`
	Name       string       `yaml:"name"`
	Color      string       `yaml:"color"`
	Icon       string       `yaml:"icon"`
	Vocabulary []string     `yaml:"vocabulary"`
	Lessons    []lessonFile `yaml:"lessons"`
}

type lessonFile struct {
	ID           string              `yaml:"id"`
	Title        string              `yaml:"title"`
	Icon         string              `yaml:"icon"`
	Color        string              `yaml:"color"`
	Description  string              `yaml:"description"`
	XPReward     int                 `yaml:"xp_reward"`
	Introduction *model.Introduction `yaml:"introduction"`
	Exercises    []model.Exercise    `yaml:"exercises"`
	Words        *wordSlice          `yaml:"words"`
	Tag          string              `yaml:"tag"`
	Story        *model.Story        `yaml:"story"`
}

// wordSlice selects words[from:to] of a vocabulary list; a missing to means the end.
type wordSlice struct {
	List string `yaml:"list"`
	From int    `yaml:"from"`
	To   *int   `yaml:"to"`
}

// Course is a parsed, ready-to-play curriculum.
type Course struct {
	categories []model.Category
	lessons    []model.Lesson
	index      map[string]int
	vocabulary []model.Word
}

// Load parses the built-in course.
func Load(gen *exercise.Generator) (*Course, error) {
	return Parse(bytes.NewReader(builtin), gen)
}

// LoadFile parses a course file from disk.
func LoadFile(path string, gen *exercise.Generator) (*Course, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only course file.
			_ = cerr
		}
	}()
	course, err := Parse(file, gen)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return course, nil
}

// Parse decodes a course and generates exercises for vocabulary lessons.
func Parse(r io.Reader, gen *exercise.Generator) (*Course, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var raw courseFile
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode course: %w", err)
	}
	if len(raw.Units) == 0 {
		return nil, fmt.Errorf("course has no units")
	}

	c := &Course{index: make(map[string]int)}
	seenWord := make(map[string]struct{})
	for u, unit := range raw.Units {
		cat := model.Category{
			ID:    unit.ID,
			Name:  unit.Name,
			Color: unit.Color,
			Icon:  unit.Icon,
		}
		for _, name := range unit.Vocabulary {
			words, ok := raw.Vocabulary[name]
			if !ok {
				return nil, fmt.Errorf("unit %s: unknown vocabulary list %q", unit.ID, name)
			}
			cat.Vocabulary = append(cat.Vocabulary, words...)
			for _, w := range words {
				if _, dup := seenWord[w.ID]; dup {
					continue
				}
				seenWord[w.ID] = struct{}{}
				c.vocabulary = append(c.vocabulary, w)
			}
		}

		for _, lf := range unit.Lessons {
			if lf.ID == "" {
				return nil, fmt.Errorf("unit %s: lesson without id", unit.ID)
			}
			if _, dup := c.index[lf.ID]; dup {
				return nil, fmt.Errorf("duplicate lesson id %q", lf.ID)
			}
			exercises, err := buildExercises(fmt.Sprintf("unit-%d", u), lf, raw.Vocabulary, gen)
			if err != nil {
				return nil, fmt.Errorf("lesson %s: %w", lf.ID, err)
			}
			lesson := model.Lesson{
				ID:           lf.ID,
				Title:        lf.Title,
				Category:     unit.ID,
				Icon:         lf.Icon,
				Color:        lf.Color,
				Unit:         u,
				Description:  lf.Description,
				Introduction: lf.Introduction,
				Exercises:    exercises,
				XPReward:     lf.XPReward,
			}
			c.index[lesson.ID] = len(c.lessons)
			c.lessons = append(c.lessons, lesson)
			cat.Lessons = append(cat.Lessons, lesson)
		}
		c.categories = append(c.categories, cat)
	}
	if len(c.lessons) == 0 {
		return nil, fmt.Errorf("course has no lessons")
	}
	return c, nil
}

// buildExercises expands one lesson. Story ids use the short unit key, e.g. unit-1-story.
func buildExercises(unitKey string, lf lessonFile, vocab map[string][]model.Word, gen *exercise.Generator) ([]model.Exercise, error) {
	var out []model.Exercise
	for i, ex := range lf.Exercises {
		if ex.ID == "" {
			ex.ID = fmt.Sprintf("%s-%d", lf.ID, i+1)
		}
		if ex.CorrectAnswer == "" && ex.Type != model.Matching {
			return nil, fmt.Errorf("exercise %s has no correct answer", ex.ID)
		}
		out = append(out, ex)
	}
	if lf.Words != nil {
		words, err := lf.Words.resolve(vocab)
		if err != nil {
			return nil, err
		}
		tag := lf.Tag
		if tag == "" {
			tag = lf.ID
		}
		out = append(out, gen.CreateExercises(words, tag)...)
	}
	if lf.Story != nil {
		out = append(out, exercise.Story(unitKey, *lf.Story))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no exercises")
	}
	return out, nil
}

func (s wordSlice) resolve(vocab map[string][]model.Word) ([]model.Word, error) {
	words, ok := vocab[s.List]
	if !ok {
		return nil, fmt.Errorf("unknown vocabulary list %q", s.List)
	}
	to := len(words)
	if s.To != nil {
		to = *s.To
	}
	if s.From < 0 || to > len(words) || s.From >= to {
		return nil, fmt.Errorf("word range %d:%d out of bounds for %q (%d words)", s.From, to, s.List, len(words))
	}
	return words[s.From:to], nil
}

// Lessons returns every lesson in unlock order.
func (c *Course) Lessons() []model.Lesson {
	return c.lessons
}

// Categories returns the units in course order.
func (c *Course) Categories() []model.Category {
	return c.categories
}

// Vocabulary returns every distinct word in the course.
func (c *Course) Vocabulary() []model.Word {
	return c.vocabulary
}

// Lesson looks up a lesson by id.
func (c *Course) Lesson(id string) (model.Lesson, error) {
	i, ok := c.index[id]
	if !ok {
		return model.Lesson{}, fmt.Errorf("%w: %s", ErrUnknownLesson, id)
	}
	return c.lessons[i], nil
}

// IsUnlocked reports whether id may be played. The first lesson is always
// open; every other lesson needs its predecessor completed.
func (c *Course) IsUnlocked(id string, completed []string) bool {
	i, ok := c.index[id]
	if !ok {
		return false
	}
	if i == 0 {
		return true
	}
	return contains(completed, c.lessons[i-1].ID)
}

// Start returns the lesson if it exists and is unlocked.
func (c *Course) Start(id string, completed []string) (model.Lesson, error) {
	lesson, err := c.Lesson(id)
	if err != nil {
		return model.Lesson{}, err
	}
	if !c.IsUnlocked(id, completed) {
		return model.Lesson{}, fmt.Errorf("%w: finish %s first", ErrLessonLocked, c.lessons[c.index[id]-1].Title)
	}
	return lesson, nil
}

// NextLesson returns the first unlocked lesson that is not completed yet.
func (c *Course) NextLesson(completed []string) (model.Lesson, bool) {
	for _, lesson := range c.lessons {
		if contains(completed, lesson.ID) {
			continue
		}
		if c.IsUnlocked(lesson.ID, completed) {
			return lesson, true
		}
	}
	return model.Lesson{}, false
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
