package bank

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"admission-quiz-service/internal/domain"
	"gopkg.in/yaml.v3"
)

// Decode picks a decoder from the file extension (.xml, .yaml, .yml, .json).
func Decode(name string, r io.Reader) ([]domain.Round, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xml":
		return DecodeXML(r)
	case ".yaml", ".yml":
		return DecodeYAML(r)
	case ".json":
		return DecodeJSON(r)
	default:
		return nil, fmt.Errorf("unsupported bank format %q", filepath.Ext(name))
	}
}

type document struct {
	Rounds []domain.Round `json:"rounds" yaml:"rounds"`
}

// DecodeYAML reads a document with a top-level rounds list.
func DecodeYAML(r io.Reader) ([]domain.Round, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode yaml bank: %w", err)
	}
	return doc.Rounds, nil
}

// DecodeJSON reads a document with a top-level rounds list.
func DecodeJSON(r io.Reader) ([]domain.Round, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode json bank: %w", err)
	}
	return doc.Rounds, nil
}

// ReadFile loads a single bank file; the bank ID is the file name without extension.
func ReadFile(path string) (domain.Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Bank{}, fmt.Errorf("%s: %w", path, domain.ErrBankNotFound)
		}
		return domain.Bank{}, err
	}
	rounds, err := Decode(path, bytes.NewReader(data))
	if err != nil {
		return domain.Bank{}, fmt.Errorf("%s: %w", path, err)
	}
	base := filepath.Base(path)
	return domain.Bank{ID: strings.TrimSuffix(base, filepath.Ext(base)), Rounds: rounds}, nil
}

var extensions = []string{".xml", ".yaml", ".yml", ".json"}

// DirLoader resolves bank IDs to files in a directory.
type DirLoader struct {
	dir string
}

func NewDirLoader(dir string) *DirLoader {
	return &DirLoader{dir: dir}
}

func (l *DirLoader) LoadBank(_ context.Context, bankID string) (domain.Bank, error) {
	if bankID == "" || strings.ContainsAny(bankID, `/\`) || strings.HasPrefix(bankID, ".") {
		return domain.Bank{}, fmt.Errorf("bank id %q: %w", bankID, domain.ErrBankNotFound)
	}
	for _, ext := range extensions {
		path := filepath.Join(l.dir, bankID+ext)
		if _, err := os.Stat(path); err == nil {
			return ReadFile(path)
		}
	}
	return domain.Bank{}, fmt.Errorf("bank %q in %s: %w", bankID, l.dir, domain.ErrBankNotFound)
}
