package mcpserver

import (
	"encoding/json"

	"github.com/TpouHuK/halstead-js/pkg/config"
)

const (
	manifestSchema = "https://static.modelcontextprotocol.io/schemas/2025-10-17/server.schema.json"
	registryName   = "io.github.TpouHuK/halstead-js"
	repositoryURL  = "https://github.com/TpouHuK/halstead-js"
	imageName      = "ghcr.io/tpouhuk/halstead-js"
)

// Manifest is the server.json document published to the MCP registry.
type Manifest struct {
	Schema      string      `json:"$schema"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Version     string      `json:"version"`
	Repository  *Repository `json:"repository,omitempty"`
	Packages    []Package   `json:"packages,omitempty"`
}

// Repository points at the source of the server.
type Repository struct {
	URL    string `json:"url"`
	Source string `json:"source"`
}

// Package tells a client how to run one distribution of the server.
type Package struct {
	RegistryType         string        `json:"registryType"`
	Identifier           string        `json:"identifier"`
	PackageArguments     []Argument    `json:"packageArguments,omitempty"`
	EnvironmentVariables []EnvVariable `json:"environmentVariables,omitempty"`
	Transport            Transport     `json:"transport"`
}

// Argument is a command-line argument passed to the package.
type Argument struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// EnvVariable documents an environment variable the server reads.
type EnvVariable struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsRequired  bool   `json:"isRequired"`
}

type Transport struct {
	Type string `json:"type"`
}

// NewManifest describes the OCI image running "halstead mcp" over stdio.
// An empty version is reported as 0.0.0.
func NewManifest(version string) Manifest {
	if version == "" || version == "dev" {
		version = "0.0.0"
	}
	return Manifest{
		Schema:      manifestSchema,
		Name:        registryName,
		Description: "Halstead, Djilb and Chepin metrics for JavaScript programs",
		Version:     version,
		Repository:  &Repository{URL: repositoryURL, Source: "github"},
		Packages: []Package{{
			RegistryType:     "oci",
			Identifier:       imageName + ":" + version,
			PackageArguments: []Argument{{Type: "positional", Value: "mcp"}},
			EnvironmentVariables: []EnvVariable{{
				Name:        config.EnvConfigPath,
				Description: "Path to a halstead config file (TOML, YAML or JSON)",
			}},
			Transport: Transport{Type: "stdio"},
		}},
	}
}

// GenerateManifest returns the indented server.json for version.
func GenerateManifest(version string) ([]byte, error) {
	return json.MarshalIndent(NewManifest(version), "", "  ")
}
