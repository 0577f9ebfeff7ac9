package topics

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Tagger assigns topic labels to bill text by whole-word keyword match.
// The dictionary is a topic,keywords CSV where keywords is a
// semicolon-separated phrase list.
type Tagger struct {
	path   string
	logger *zap.Logger

	mu       sync.RWMutex
	patterns map[string]*regexp.Regexp
}

func NewTagger(path string, logger *zap.Logger) (*Tagger, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open topics dictionary: %w", err)
	}
	defer f.Close() //nolint:errcheck

	patterns, err := parseDictionary(f)
	if err != nil {
		return nil, err
	}
	logger.Info("topics dictionary loaded", zap.Int("topics", len(patterns)), zap.String("path", path))
	return &Tagger{path: path, patterns: patterns, logger: logger}, nil
}

// Tag returns the matching topics for the given text, sorted for stable
// output. Text with no keyword hits gets an empty slice, not nil.
func (t *Tagger) Tag(text string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	matched := make([]string, 0, 2)
	for topic, re := range t.patterns {
		if re.MatchString(text) {
			matched = append(matched, topic)
		}
	}
	sort.Strings(matched)
	return matched
}

// Reload re-reads the dictionary from disk. On failure the previous
// patterns stay in place.
func (t *Tagger) Reload() error {
	f, err := os.Open(t.path)
	if err != nil {
		return fmt.Errorf("open topics dictionary: %w", err)
	}
	defer f.Close() //nolint:errcheck

	patterns, err := parseDictionary(f)
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.patterns = patterns
	t.mu.Unlock()
	t.logger.Info("topics dictionary reloaded", zap.Int("topics", len(patterns)))
	return nil
}

func parseDictionary(r io.Reader) (map[string]*regexp.Regexp, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse topics csv: %w", err)
	}

	patterns := make(map[string]*regexp.Regexp, len(records))
	for i, rec := range records {
		if i == 0 && rec[0] == "topic" {
			continue
		}
		keywords := strings.Split(rec[1], ";")
		quoted := make([]string, 0, len(keywords))
		for _, kw := range keywords {
			kw = strings.TrimSpace(kw)
			if kw == "" {
				continue
			}
			quoted = append(quoted, regexp.QuoteMeta(kw))
		}
		if len(quoted) == 0 {
			continue
		}
		re, err := regexp.Compile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
		if err != nil {
			return nil, fmt.Errorf("compile topic %q: %w", rec[0], err)
		}
		patterns[rec[0]] = re
	}
	return patterns, nil
}
