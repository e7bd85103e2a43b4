// Package wordlist loads extra vocabulary from tab-separated files.
package wordlist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/M94KO/MrEdesPlayground/internal/model"
)

// LoadWords reads one word per line: target, english and an optional
// pronunciation separated by tabs. Blank lines and lines starting with #
// are skipped.
func LoadWords(path string) ([]model.Word, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	words, err := ParseWords(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return words, nil
}

// ParseWords parses a word list. Word ids are "list-<line>".
func ParseWords(r io.Reader) ([]model.Word, error) {
	var words []model.Word
	seen := map[string]struct{}{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: want target<TAB>english", lineNo)
		}
		target := strings.TrimSpace(fields[0])
		english := strings.TrimSpace(fields[1])
		if !ValidTarget(target) {
			return nil, fmt.Errorf("line %d: %q is not a word", lineNo, target)
		}
		if english == "" {
			return nil, fmt.Errorf("line %d: missing english meaning", lineNo)
		}
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}
		w := model.Word{
			ID:      "list-" + strconv.Itoa(lineNo),
			Target:  target,
			English: english,
		}
		if len(fields) > 2 {
			w.Pronunciation = strings.TrimSpace(fields[2])
		}
		words = append(words, w)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}
