package publishclient

import (
	"fmt"
	"os"
	"strings"

	"github.com/ghodss/yaml"
	log "github.com/sirupsen/logrus"

	"github.com/nais/azpublish/pkg/management"
)

type TemplateVariables map[string]any

// TemplateVariables merges the variables file with --var overrides.
func (cfg *Config) TemplateVariables() (TemplateVariables, error) {
	var err error
	templateVariables := make(TemplateVariables)

	if len(cfg.VariablesFile) > 0 {
		templateVariables, err = templateVariablesFromFile(cfg.VariablesFile)
		if err != nil {
			return nil, Errorf(ExitInvocationFailure, "load template variables: %s", err)
		}
	}

	if len(cfg.Variables) > 0 {
		templateOverrides := templateVariablesFromSlice(cfg.Variables)
		for key, val := range templateOverrides {
			if oldval, ok := templateVariables[key]; ok {
				log.Warnf("Overwriting template variable '%s'; previous value was '%v'", key, oldval)
			}
			log.Infof("Setting template variable '%s' to '%v'", key, val)
			templateVariables[key] = val
		}
	}

	return templateVariables, nil
}

// Renderer builds the service configuration renderer from --template and the template variables.
func (cfg *Config) Renderer() (*management.ConfigurationRenderer, error) {
	vars, err := cfg.TemplateVariables()
	if err != nil {
		return nil, err
	}

	source := ""
	if len(cfg.Template) > 0 {
		data, err := os.ReadFile(cfg.Template)
		if err != nil {
			return nil, Errorf(ExitInvocationFailure, "%s: open file: %s", cfg.Template, err)
		}
		source = string(data)
	}

	renderer, err := management.NewConfigurationRenderer(source, vars)
	if err != nil {
		return nil, ErrorWrap(ExitInvocationFailure, err)
	}

	return renderer, nil
}

func templateVariablesFromFile(path string) (TemplateVariables, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: open file: %s", path, err)
	}

	vars := TemplateVariables{}
	err = yaml.Unmarshal(file, &vars)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return vars, nil
}

func templateVariablesFromSlice(vars []string) TemplateVariables {
	tv := TemplateVariables{}
	for _, keyval := range vars {
		tokens := strings.SplitN(keyval, "=", 2)
		switch len(tokens) {
		case 2: // KEY=VAL
			tv[tokens[0]] = tokens[1]
		case 1: // KEY
			tv[tokens[0]] = true
		default:
			continue
		}
	}

	return tv
}
