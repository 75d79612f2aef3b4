package assets

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"maps"
	"sync"

	"github.com/wolfeidau/json-format/internal/buildconfig"
)

type BuildMetadata struct {
	Outputs map[string]OutputInfo `json:"outputs"`
}

type OutputInfo struct {
	EntryPoint string       `json:"entryPoint"`
	CSSBundle  string       `json:"cssBundle"`
	Imports    []ImportInfo `json:"imports"`
}

type ImportInfo struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
}

// Pipeline builds the application assets from a build configuration and resolves the
// scripts and styles a page needs.
type Pipeline struct {
	config   Config
	conf     *buildconfig.Configuration
	metadata *BuildMetadata
	buildID  string
	tmpl     *template.Template
	mu       sync.RWMutex
}

// New creates a new asset pipeline with the given configuration
func New(config Config, conf *buildconfig.Configuration) *Pipeline {
	return &Pipeline{
		config: config,
		conf:   conf,
	}
}

// NewWithTemplate creates a new asset pipeline and loads a single template
func NewWithTemplate(config Config, conf *buildconfig.Configuration, templatePath string) (*Pipeline, error) {
	return NewWithTemplateAndFuncs(config, conf, templatePath, nil)
}

// NewWithTemplateAndFuncs creates a new asset pipeline and loads a single template with custom functions
func NewWithTemplateAndFuncs(config Config, conf *buildconfig.Configuration, templatePath string, customFuncs template.FuncMap) (*Pipeline, error) {
	p := New(config, conf)

	tmpl, err := template.New(templatePath).Funcs(templateFuncs(customFuncs)).ParseFiles(p.path(templatePath))
	if err != nil {
		return nil, err
	}
	p.tmpl = tmpl
	return p, nil
}

func templateFuncs(customFuncs template.FuncMap) template.FuncMap {
	funcs := template.FuncMap{
		"marshal": marshal,
		"safe": func(s string) template.HTML {
			return template.HTML(s) //nolint:gosec
		},
	}

	maps.Copy(funcs, customFuncs)

	return funcs
}

func marshal(value any) string {
	buf := new(bytes.Buffer)

	if err := json.NewEncoder(buf).Encode(value); err != nil {
		panic(errors.New("context can only be json serializable"))
	}

	return buf.String()
}
