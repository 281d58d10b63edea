package texts

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrTextNotFound = errors.New("text not found")
	ErrNoTexts      = errors.New("no texts")
)

// Provider is the table of race texts indexed from zero.
type Provider interface {
	Count() int
	Get(id int) (string, error)
}

// Table is an in-memory Provider.
type Table struct {
	texts []string
}

type file struct {
	Texts []string `yaml:"texts"`
}

var builtin = []string{
	"Text for typing #1. The quick brown fox jumps over the lazy dog while the band plays on the pier.",
	"Text for typing #2. Practice does not make perfect, only perfect practice makes perfect.",
	"Text for typing #3. A journey of a thousand miles begins with a single step and a good pair of shoes.",
	"Text for typing #4. Keep your fingers on the home row and let your eyes stay on the screen.",
	"Text for typing #5. Every keyboard has a story, and every typo is a lesson waiting to be learned.",
	"Text for typing #6. The early bird catches the worm, but the second mouse gets the cheese.",
	"Text for typing #7. Simplicity is prerequisite for reliability, and clarity is the start of speed.",
}

func NewTable(texts []string) (*Table, error) {
	cleaned := make([]string, 0, len(texts))
	for _, t := range texts {
		if t = strings.TrimSpace(t); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	if len(cleaned) == 0 {
		return nil, ErrNoTexts
	}
	return &Table{texts: cleaned}, nil
}

// Default returns the built-in table.
func Default() *Table {
	return &Table{texts: builtin}
}

// LoadFile reads a YAML file with a top-level `texts` list.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading texts file %w", err)
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("error decoding texts file %w", err)
	}
	return NewTable(f.Texts)
}

func (t *Table) Count() int {
	return len(t.texts)
}

func (t *Table) Get(id int) (string, error) {
	if id < 0 || id >= len(t.texts) {
		return "", fmt.Errorf("text %d: %w", id, ErrTextNotFound)
	}
	return t.texts[id], nil
}
