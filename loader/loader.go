// Package loader reads quest definition files from a data directory and
// registers them with a quest manager.
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/volumetricpixels/questy/quest"
	"go.uber.org/zap"
)

// outcomeFile mirrors one outcome entry in a quest definition file.
type outcomeFile struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// objectiveFile mirrors one objective entry in a quest definition file.
type objectiveFile struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Outcomes    []outcomeFile `json:"outcomes"`
}

// questFile mirrors one quest definition file.
type questFile struct {
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	BeginMessage   string          `json:"begin_message"`
	FinishMessage  string          `json:"finish_message"`
	MaxCompletions *int            `json:"max_completions"`
	Prerequisites  []string        `json:"prerequisites"`
	Rewards        []string        `json:"rewards"`
	Objectives     []objectiveFile `json:"objectives"`
}

// Loader loads quest definitions from *.json files in a directory.
type Loader struct {
	dir    string
	logger *zap.Logger
}

// New creates a Loader for the given directory.
func New(dir string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{dir: dir, logger: logger}
}

// Load parses every *.json file in the directory (in name order, so
// registration order is deterministic) and registers the quests with the
// manager. The first bad file or registration conflict aborts the load.
func (l *Loader) Load(mgr *quest.Manager) error {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return fmt.Errorf("loader: read dir %s: %w", l.dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(l.dir, name)
		q, err := l.loadFile(path)
		if err != nil {
			return err
		}
		if err := mgr.AddQuest(q); err != nil {
			return fmt.Errorf("loader: %s: %w", path, err)
		}
	}
	l.logger.Info("quest definitions loaded",
		zap.String("dir", l.dir),
		zap.Int("count", len(names)))
	return nil
}

func (l *Loader) loadFile(path string) (*quest.Quest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}
	var qf questFile
	if err := json.Unmarshal(raw, &qf); err != nil {
		return nil, fmt.Errorf("loader: parse %s: %w", path, err)
	}

	objectives := make([]quest.Objective, 0, len(qf.Objectives))
	for _, of := range qf.Objectives {
		outcomes := make([]quest.Outcome, 0, len(of.Outcomes))
		for _, out := range of.Outcomes {
			outcomes = append(outcomes, quest.NewOutcome(out.Name, out.Message, out.Type))
		}
		obj, err := quest.NewObjective(of.Name, of.Description, outcomes)
		if err != nil {
			return nil, fmt.Errorf("loader: %s: %w", path, err)
		}
		objectives = append(objectives, obj)
	}

	maxCompletions := -1
	if qf.MaxCompletions != nil {
		maxCompletions = *qf.MaxCompletions
	}
	q, err := quest.New(quest.Definition{
		Name:           qf.Name,
		Description:    qf.Description,
		BeginMessage:   qf.BeginMessage,
		FinishMessage:  qf.FinishMessage,
		MaxCompletions: maxCompletions,
		Prerequisites:  qf.Prerequisites,
		Rewards:        qf.Rewards,
		Objectives:     objectives,
	})
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", path, err)
	}
	return q, nil
}
