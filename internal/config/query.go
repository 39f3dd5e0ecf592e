package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docsift/internal/rank"
	"gopkg.in/yaml.v3"
)

// ErrMissingQuery means the ranking stage has no usable persona or task.
var ErrMissingQuery = errors.New("ranking query is missing")

// Query is the ranking configuration payload:
//
//	{"persona": {"role": "..."}, "job_to_be_done": {"task": "..."}}
type Query struct {
	Persona struct {
		Role string `json:"role" yaml:"role"`
	} `json:"persona" yaml:"persona"`
	JobToBeDone struct {
		Task string `json:"task" yaml:"task"`
	} `json:"job_to_be_done" yaml:"job_to_be_done"`
}

// LoadQuery reads a JSON or YAML query file. A missing file, or one without
// both a role and a task, wraps ErrMissingQuery.
func LoadQuery(path string) (rank.Query, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return rank.Query{}, fmt.Errorf("%w: %s not found", ErrMissingQuery, path)
		}
		return rank.Query{}, fmt.Errorf("read query: %w", err)
	}

	var q Query
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &q)
	default:
		err = json.Unmarshal(data, &q)
	}
	if err != nil {
		return rank.Query{}, fmt.Errorf("parse query %s: %w", path, err)
	}
	return q.RankQuery()
}

// RankQuery validates q and converts it to the ranker's form.
func (q Query) RankQuery() (rank.Query, error) {
	role := strings.TrimSpace(q.Persona.Role)
	task := strings.TrimSpace(q.JobToBeDone.Task)
	if role == "" {
		return rank.Query{}, fmt.Errorf("%w: persona.role is empty", ErrMissingQuery)
	}
	if task == "" {
		return rank.Query{}, fmt.Errorf("%w: job_to_be_done.task is empty", ErrMissingQuery)
	}
	return rank.Query{Persona: role, Task: task}, nil
}
