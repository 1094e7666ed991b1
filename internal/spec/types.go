// Package spec defines the benchmark specification document and its
// loader. A spec declares where the dataset lives, the HTTP contract
// connecting cases to systems under test, the metrics to score with and
// the aggregates to report.
package spec

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// BenchmarkSpec is a validated benchmark specification. Instances
// returned by Load are treated as immutable.
type BenchmarkSpec struct {
	ID      string  `yaml:"id" json:"id"`
	Name    string  `yaml:"name" json:"name"`
	Version Version `yaml:"version" json:"version"`

	Dataset   DatasetConfig `yaml:"dataset" json:"dataset"`
	Contract  Contract      `yaml:"contract" json:"contract"`
	Scoring   Scoring       `yaml:"scoring" json:"scoring"`
	Reporting Reporting     `yaml:"reporting" json:"reporting"`
}

// Version accepts either a scalar string or number in the document.
type Version string

// UnmarshalYAML decodes any scalar into the version string.
func (v *Version) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("spec: version must be a scalar, got %v", node.Tag)
	}
	*v = Version(node.Value)
	return nil
}

// DatasetConfig points at the JSONL case dataset. A relative path is
// resolved against the spec file's directory.
type DatasetConfig struct {
	Path string `yaml:"path" json:"path"`
}

// Contract declares how a case becomes an HTTP call and how the
// predicted value is read back out of the response.
type Contract struct {
	Protocol string         `yaml:"protocol" json:"protocol"`
	Request  RequestConfig  `yaml:"request" json:"request"`
	Response ResponseConfig `yaml:"response" json:"response"`
}

// RequestConfig selects the request body from a case's input.
type RequestConfig struct {
	Method       string `yaml:"method" json:"method"`
	BodyJSONPath string `yaml:"body_json_path" json:"body_json_path"`
}

// ResponseConfig selects the predicted value from the response body.
type ResponseConfig struct {
	OutputJSONPath string `yaml:"output_json_path" json:"output_json_path"`
}

// Scoring lists the metric definitions and names the primary metric.
type Scoring struct {
	Metrics       []MetricDefinition `yaml:"metrics" json:"metrics"`
	PrimaryMetric string             `yaml:"primary_metric" json:"primary_metric"`
}

// MetricDefinition binds a metric name to a registered scorer type and
// its type-specific arguments.
type MetricDefinition struct {
	Name string         `yaml:"name" json:"name"`
	Type string         `yaml:"type" json:"type"`
	Args map[string]any `yaml:"args" json:"args,omitempty"`
}

// Reporting lists the aggregates to compute per system.
type Reporting struct {
	Aggregate []AggregateDefinition `yaml:"aggregate" json:"aggregate"`
}

// AggregateDefinition binds an aggregate name to a reduction type and
// the metric whose scores it reduces.
type AggregateDefinition struct {
	Name   string `yaml:"name" json:"name"`
	Type   string `yaml:"type" json:"type"`
	Metric string `yaml:"metric" json:"metric"`
}
