package memory

import (
	"context"
	"fmt"
	"os"

	"solo-quiz-service/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileBankLoader reads a YAML-authored question bank from disk. The file may
// hold either a single bank or a `banks:` list keyed by ID.
type FileBankLoader struct {
	path string
}

func NewFileBankLoader(path string) *FileBankLoader {
	return &FileBankLoader{path: path}
}

type bankFile struct {
	domain.Bank `yaml:",inline"`
	Banks       []domain.Bank `yaml:"banks"`
}

func (l *FileBankLoader) LoadBank(_ context.Context, bankID string) (domain.Bank, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return domain.Bank{}, fmt.Errorf("read bank file: %w", err)
	}

	var file bankFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return domain.Bank{}, fmt.Errorf("parse bank file: %w", err)
	}

	if file.Bank.ID == bankID {
		return file.Bank, nil
	}
	for _, bank := range file.Banks {
		if bank.ID == bankID {
			return bank, nil
		}
	}
	return domain.Bank{}, domain.ErrBankNotFound
}
