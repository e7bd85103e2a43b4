package wordlist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/M94KO/MrEdesPlayground/internal/model"
)

func TestParseWords(t *testing.T) {
	input := "# market words\n" +
		"Ọjà\tMarket\toh-jah\n" +
		"\n" +
		"Owó\tMoney\n" +
		"Ọjà\tMarket again\n"
	words, err := ParseWords(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []model.Word{
		{ID: "list-2", Target: "Ọjà", English: "Market", Pronunciation: "oh-jah"},
		{ID: "list-4", Target: "Owó", English: "Money"},
	}, words)
}

func TestParseWordsErrors(t *testing.T) {
	tests := map[string]string{
		"no tab":      "Omi Water\n",
		"bad target":  "42\tForty-two\n",
		"no english":  "Omi\t \n",
		"only blanks": "\n# nothing\n",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseWords(strings.NewReader(input))
			assert.Error(t, err)
		})
	}
}

func TestLoadWords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.tsv")
	require.NoError(t, os.WriteFile(path, []byte("Ilé\tHouse\n"), 0o644))
	words, err := LoadWords(path)
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, "House", words[0].English)

	_, err = LoadWords(filepath.Join(t.TempDir(), "missing.tsv"))
	assert.True(t, os.IsNotExist(err))
}
