// Package config provides the workflow configuration loader. It is the only
// layer that sees raw templates and aliases; the records it emits are fully
// rendered.
package config

import (
	"bytes"
	"os"
	"strings"
	"text/template"

	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the configuration file looked up in the workflow root.
const DefaultFilename = "flow.yaml"

// FileLoader implements ports.ConfigLoader using a YAML file.
type FileLoader struct{}

// Load reads the configuration at the given path.
func (l *FileLoader) Load(path string) ([]domain.Task, error) {
	return Load(path)
}

// Flowfile represents the structure of the flow.yaml configuration file.
// Tasks are an ordered sequence; declaration order is the deterministic
// tie-break downstream.
type Flowfile struct {
	Version string    `yaml:"version"`
	Tasks   []TaskDTO `yaml:"tasks"`
}

// TaskDTO represents a task definition in the configuration.
type TaskDTO struct {
	Creates string     `yaml:"creates"`
	Alias   string     `yaml:"alias"`
	Depends StringList `yaml:"depends"`
	Command StringList `yaml:"command"`
}

// StringList decodes a YAML scalar or sequence into a slice of strings, so
// single-entry fields read naturally.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (sl *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*sl = StringList{s}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		*sl = StringList(items)
		return nil
	default:
		return zerr.New("expected string or list of strings")
	}
}

// Load reads a configuration file and returns rendered task records in
// declaration order.
func Load(path string) ([]domain.Task, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read config file")
	}

	var flowfile Flowfile
	if err := yaml.Unmarshal(data, &flowfile); err != nil {
		return nil, zerr.Wrap(err, "failed to parse config file")
	}

	aliases, err := collectAliases(flowfile.Tasks)
	if err != nil {
		return nil, err
	}

	tasks := make([]domain.Task, 0, len(flowfile.Tasks))
	for _, dto := range flowfile.Tasks {
		task, err := renderTask(dto, aliases)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// collectAliases maps every alias to the created resource it names. An alias
// may not collide with another alias or with any created resource.
func collectAliases(dtos []TaskDTO) (map[string]string, error) {
	creates := make(map[string]bool, len(dtos))
	for _, dto := range dtos {
		creates[dto.Creates] = true
	}

	aliases := make(map[string]string)
	for _, dto := range dtos {
		if dto.Alias == "" {
			continue
		}
		if _, taken := aliases[dto.Alias]; taken || creates[dto.Alias] {
			return nil, zerr.With(zerr.New("alias is not unique"), "alias", dto.Alias)
		}
		aliases[dto.Alias] = dto.Creates
	}
	return aliases, nil
}

func renderTask(dto TaskDTO, aliases map[string]string) (domain.Task, error) {
	if dto.Creates == "" {
		return domain.Task{}, zerr.New("task is missing a creates declaration")
	}

	// Dereference depends entries that name an alias before anything else,
	// so templates and graph edges see created resources only.
	depends := make([]string, len(dto.Depends))
	for i, dep := range dto.Depends {
		if target, ok := aliases[dep]; ok {
			dep = target
		}
		depends[i] = dep
	}

	commands := make([]string, 0, len(dto.Command))
	for _, command := range dto.Command {
		rendered, err := renderCommand(command, dto.Creates, depends)
		if err != nil {
			return domain.Task{}, zerr.With(err, "creates", dto.Creates)
		}
		commands = append(commands, rendered)
	}

	ids := make([]domain.ResourceID, len(depends))
	for i, dep := range depends {
		ids[i] = domain.NewResourceID(dep)
	}
	return domain.Task{
		Creates:  domain.NewResourceID(dto.Creates),
		Depends:  ids,
		Commands: commands,
	}, nil
}

// renderCommand resolves {{.Creates}}, {{.Depends}} (space-joined) and
// {{index .Deps N}} placeholders. Commands without placeholders pass through
// untouched.
func renderCommand(command, creates string, depends []string) (string, error) {
	if !strings.Contains(command, "{{") {
		return command, nil
	}

	tmpl, err := template.New("command").Option("missingkey=error").Parse(command)
	if err != nil {
		return "", zerr.Wrap(err, "failed to parse command template")
	}

	data := struct {
		Creates string
		Depends string
		Deps    []string
	}{
		Creates: creates,
		Depends: strings.Join(depends, " "),
		Deps:    depends,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", zerr.Wrap(err, "failed to render command template")
	}
	return buf.String(), nil
}
