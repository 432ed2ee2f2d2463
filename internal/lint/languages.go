package lint

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// CheckFunc validates the body of a fenced code sample. A nil CheckFunc marks
// the language as recognised but unchecked (syntax highlighting only).
type CheckFunc func(body []byte) error

// LanguageRegistry maps fence info-string language tags to optional syntax
// checkers. The registry is safe for concurrent use.
type LanguageRegistry struct {
	mu       sync.RWMutex
	checkers map[string]CheckFunc
}

// NewLanguageRegistry returns an empty registry.
func NewLanguageRegistry() *LanguageRegistry {
	return &LanguageRegistry{checkers: map[string]CheckFunc{}}
}

// Register adds or replaces the checker for a language tag. Aliases can be
// registered by calling Register once per alias.
func (r *LanguageRegistry) Register(language string, check CheckFunc) {
	key := normalizeTag(language)
	if key == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[key] = check
}

// Lookup returns the checker for a tag and whether the tag is recognised.
func (r *LanguageRegistry) Lookup(language string) (CheckFunc, bool) {
	key := normalizeTag(language)
	r.mu.RLock()
	defer r.mu.RUnlock()
	check, ok := r.checkers[key]
	return check, ok
}

// DefaultLanguages returns the registry used when a Checker is constructed
// without overrides: machine-checkable formats get a real parser, common
// display-only tags are recognised without a checker.
func DefaultLanguages() *LanguageRegistry {
	r := NewLanguageRegistry()

	r.Register("json", checkJSON)
	r.Register("yaml", checkYAML)
	r.Register("yml", checkYAML)

	for _, tag := range []string{"go", "ts", "typescript", "js", "javascript", "tsx", "jsx"} {
		r.Register(tag, checkBalancedBraces)
	}

	// Recognised for highlighting, no syntax checker.
	for _, tag := range []string{
		"bash", "sh", "shell", "console",
		"html", "css", "sql", "text", "txt", "markdown", "md", "diff", "toml",
	} {
		r.Register(tag, nil)
	}

	return r
}

func normalizeTag(language string) string {
	return strings.ToLower(strings.TrimSpace(language))
}

func checkJSON(body []byte) error {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return errors.New("empty sample")
	}
	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		return err
	}
	return nil
}

func checkYAML(body []byte) error {
	var v any
	if err := yaml.Unmarshal(body, &v); err != nil {
		return err
	}
	return nil
}

// checkBalancedBraces is a cheap plausibility check for C-family snippets. It
// ignores brace characters inside string literals, line comments, and block
// comments; full type-checking is out of reach for embedded fragments.
func checkBalancedBraces(body []byte) error {
	type state int
	const (
		code state = iota
		lineComment
		blockComment
		singleQuote
		doubleQuote
		backQuote
	)

	var stack []byte
	pairs := map[byte]byte{')': '(', ']': '[', '}': '{'}

	st := code
	var prev byte
	for i := 0; i < len(body); i++ {
		ch := body[i]

		switch st {
		case lineComment:
			if ch == '\n' {
				st = code
			}
		case blockComment:
			if prev == '*' && ch == '/' {
				st = code
			}
		case singleQuote:
			if ch == '\'' && prev != '\\' {
				st = code
			}
		case doubleQuote:
			if ch == '"' && prev != '\\' {
				st = code
			}
		case backQuote:
			if ch == '`' {
				st = code
			}
		case code:
			switch ch {
			case '/':
				if i+1 < len(body) {
					switch body[i+1] {
					case '/':
						st = lineComment
					case '*':
						st = blockComment
					}
				}
			case '\'':
				st = singleQuote
			case '"':
				st = doubleQuote
			case '`':
				st = backQuote
			case '(', '[', '{':
				stack = append(stack, ch)
			case ')', ']', '}':
				want := pairs[ch]
				if len(stack) == 0 || stack[len(stack)-1] != want {
					return fmt.Errorf("unbalanced %q", string(ch))
				}
				stack = stack[:len(stack)-1]
			}
		}
		prev = ch
	}

	if len(stack) > 0 {
		return fmt.Errorf("unclosed %q", string(stack[len(stack)-1]))
	}
	return nil
}
