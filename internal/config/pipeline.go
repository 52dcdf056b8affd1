package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/raphi011/hk/internal/hook"
)

// DefaultPipelineFile is the pipeline definition looked up at the
// repository root when --config is not given.
const DefaultPipelineFile = ".hk.yaml"

// ErrNoPipeline indicates the pipeline file does not exist.
var ErrNoPipeline = errors.New("no pipeline file found: create .hk.yaml or pass --config")

// HookConfig is the wire form of a single hook entry.
type HookConfig struct {
	ID             string   `yaml:"id"`
	Alias          string   `yaml:"alias"`
	Name           string   `yaml:"name"`
	Entry          string   `yaml:"entry"`
	Args           []string `yaml:"args"`
	Language       string   `yaml:"language"`
	Files          string   `yaml:"files"`
	Exclude        string   `yaml:"exclude"`
	Types          []string `yaml:"types"`
	TypesOr        []string `yaml:"types_or"`
	ExcludeTypes   []string `yaml:"exclude_types"`
	AlwaysRun      bool     `yaml:"always_run"`
	FailFast       bool     `yaml:"fail_fast"`
	RequireSerial  bool     `yaml:"require_serial"`
	PassFilenames  *bool    `yaml:"pass_filenames"` // default true
	Verbose        bool     `yaml:"verbose"`
	LogFile        string   `yaml:"log_file"`
	AdditionalDeps []string `yaml:"additional_dependencies"`
}

// Pipeline is the wire form of the repository-local pipeline file.
type Pipeline struct {
	FailFast bool         `yaml:"fail_fast"`
	Exclude  string       `yaml:"exclude"` // applied to the master file list
	Hooks    []HookConfig `yaml:"hooks"`
}

// LoadPipeline reads and validates the pipeline definition at path.
func LoadPipeline(path string) (*Pipeline, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoPipeline
		}
		return nil, fmt.Errorf("failed to open pipeline file: %w", err)
	}
	defer f.Close()

	p, err := parsePipeline(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func parsePipeline(r io.Reader) (*Pipeline, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var p Pipeline
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("pipeline file is empty")
		}
		return nil, fmt.Errorf("invalid pipeline: %w", err)
	}

	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Resolve converts the validated wire form into immutable hook
// descriptors. Environment directories are assigned later by the
// language layer; everything else is fixed here.
func (p *Pipeline) Resolve() []hook.Hook {
	hooks := make([]hook.Hook, 0, len(p.Hooks))
	for _, hc := range p.Hooks {
		passFilenames := true
		if hc.PassFilenames != nil {
			passFilenames = *hc.PassFilenames
		}
		lang := hc.Language
		if lang == "" {
			lang = "system"
		}
		hooks = append(hooks, hook.Hook{
			ID:             hc.ID,
			Alias:          hc.Alias,
			Name:           hc.Name,
			Entry:          hc.Entry,
			Args:           hc.Args,
			Language:       lang,
			Files:          hc.Files,
			Exclude:        hc.Exclude,
			Types:          hc.Types,
			TypesOr:        hc.TypesOr,
			ExcludeTypes:   hc.ExcludeTypes,
			AlwaysRun:      hc.AlwaysRun,
			FailFast:       hc.FailFast,
			RequireSerial:  hc.RequireSerial,
			PassFilenames:  passFilenames,
			Verbose:        hc.Verbose,
			LogFile:        hc.LogFile,
			AdditionalDeps: hc.AdditionalDeps,
		})
	}
	return hooks
}
