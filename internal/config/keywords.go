package config

import (
	"fmt"
	"os"

	"github.com/titanous/json5"
)

// Keywords is the shape of classifier.keywords_file. The file is JSON5 so
// lists can carry comments and trailing commas.
type Keywords struct {
	Negative []string `json:"negative"`
	Positive []string `json:"positive"`
	Strong   []string `json:"strong"`
}

func LoadKeywords(path string) (Keywords, error) {
	var kw Keywords
	b, err := os.ReadFile(path)
	if err != nil {
		return kw, err
	}
	if err := json5.Unmarshal(b, &kw); err != nil {
		return kw, fmt.Errorf("parse %s: %w", path, err)
	}
	return kw, nil
}
