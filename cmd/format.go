package main

import (
	"encoding/json"
	"fmt"

	"go.yaml.in/yaml/v4"
)

func (report *ComparisonReport) Json() (string, error) {
	prettyJSON, err := json.MarshalIndent(report, "", "    ")
	if err != nil {
		return "", fmt.Errorf("error marshalling JSON: %w", err)
	}

	return string(prettyJSON), nil
}

func (report *ComparisonReport) Yaml() (string, error) {
	yamlData, err := yaml.Marshal(&report)
	if err != nil {
		return "", fmt.Errorf("error marshalling yaml: %v", err)
	}

	return string(yamlData), nil
}
