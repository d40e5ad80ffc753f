package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Template names backed by underscore-prefixed keys in the responses file.
const (
	TemplateWelcome       = "welcome"
	TemplateReloadSuccess = "reload_success"
)

const reservedPrefix = "_"

// KeywordEntry is one keyword -> reply pair, in file order.
type KeywordEntry struct {
	Keyword string
	Reply   string
}

// Responses holds the reply table loaded from the responses file.
// File keys starting with "_" are named templates (welcome text, reload
// confirmation) and never participate in keyword matching; everything
// else is matched as a case-insensitive substring in file order.
type Responses struct {
	path string

	mu        sync.RWMutex
	keywords  []KeywordEntry
	templates map[string]string
}

// OpenResponses loads the responses file at path, creating it with the
// default reply set when it does not exist.
func OpenResponses(path string) (*Responses, error) {
	if err := ensureResponsesFile(path); err != nil {
		return nil, err
	}
	r := &Responses{path: path}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-reads the backing file. A missing file yields an empty table.
func (r *Responses) Reload() error {
	keywords, templates, err := loadResponses(r.path)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.keywords = keywords
	r.templates = templates
	r.mu.Unlock()
	return nil
}

// Match returns the reply for the first keyword contained in text,
// scanning keywords in the order they appear in the file. Matching is
// case-insensitive on the message side; keywords are stored as written.
func (r *Responses) Match(text string) (string, bool) {
	lower := strings.ToLower(text)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.keywords {
		if strings.Contains(lower, strings.ToLower(e.Keyword)) {
			return e.Reply, true
		}
	}
	return "", false
}

// Template returns the named template text, if present.
func (r *Responses) Template(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[name]
	return t, ok
}

// Keywords returns a copy of the current keyword entries in match order.
func (r *Responses) Keywords() []KeywordEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]KeywordEntry, len(r.keywords))
	copy(out, r.keywords)
	return out
}

// loadResponses decodes the file via the token stream because match
// order is the file's key order, which map decoding would lose.
func loadResponses(path string) ([]KeywordEntry, map[string]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, map[string]string{}, nil
		}
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	dec := json.NewDecoder(strings.NewReader(string(b)))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("parse %s: expected JSON object", path)
	}

	var keywords []KeywordEntry
	templates := make(map[string]string)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, fmt.Errorf("parse %s: %w", path, err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("parse %s: non-string key", path)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return nil, nil, fmt.Errorf("parse %s: value for %q: %w", path, key, err)
		}
		if strings.HasPrefix(key, reservedPrefix) {
			templates[strings.TrimPrefix(key, reservedPrefix)] = value
			continue
		}
		keywords = append(keywords, KeywordEntry{Keyword: key, Reply: value})
	}
	return keywords, templates, nil
}

// defaultResponses is written on first run so group admins have a file
// to edit rather than an empty object.
var defaultResponses = []byte(`{
    "hello": "👋 Welcome to our Trading Group! Type 'help' for commands.",
    "help": "📌 Commands:\n- /price: Check live prices\n- deposit: How to deposit funds\n- withdraw: Withdrawal guide",
    "_welcome": "👋 Welcome {name} to our Trading Group!",
    "_reload_success": "🔄 Responses reloaded successfully!"
}
`)

func ensureResponsesFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, defaultResponses, 0o644)
}
