package docs

import (
	_ "embed"
	"encoding/json"
	"sort"

	"github.com/swaggo/swag"
)

//go:embed swagger.json
var swaggerJSON []byte

// SwaggerSpec represents the structure of our swagger.json file
type SwaggerSpec struct {
	Paths map[string]map[string]PathInfo `json:"paths"`
}

// PathInfo contains information about an API endpoint
type PathInfo struct {
	Summary     string         `json:"summary"`
	Description string         `json:"description"`
	Tags        []string       `json:"tags"`
	Parameters  []any          `json:"parameters"`
	Responses   map[string]any `json:"responses"`
}

// SortedPaths returns the documented paths in lexical order.
func (s *SwaggerSpec) SortedPaths() []string {
	paths := make([]string, 0, len(s.Paths))
	for p := range s.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// GetSwaggerSpec returns the parsed swagger specification
func GetSwaggerSpec() (*SwaggerSpec, error) {
	var spec SwaggerSpec
	if err := json.Unmarshal(swaggerJSON, &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

type embedded struct{}

// ReadDoc serves the embedded swagger.json to http-swagger.
func (embedded) ReadDoc() string {
	return string(swaggerJSON)
}

func init() {
	swag.Register(swag.Name, embedded{})
}
