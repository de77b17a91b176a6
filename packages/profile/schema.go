package profile

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/hitdiff/packages/value"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema/*.json
var schemaFS embed.FS

const (
	diffSchema    = "schema/diff.json"
	requestSchema = "schema/request.json"
)

// checkSchema validates the structure of a YAML document against one of
// the embedded schemas. params and body are left unconstrained so that shape
// errors surface from Validate instead.
func checkSchema(name string, data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return newError(ErrConfig, err)
	}
	if doc == nil {
		return nil
	}

	v, err := value.FromAny(doc)
	if err != nil {
		return newError(ErrConfig, err)
	}
	docJSON, err := v.MarshalJSON()
	if err != nil {
		return newError(ErrConfig, err)
	}

	schemaData, err := schemaFS.ReadFile(name)
	if err != nil {
		return newError(ErrConfig, fmt.Errorf("load schema: %w", err))
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaData),
		gojsonschema.NewBytesLoader(docJSON),
	)
	if err != nil {
		return newError(ErrConfig, fmt.Errorf("schema validation: %w", err))
	}
	if result.Valid() {
		return nil
	}

	var msgs []string
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return newError(ErrConfig, errors.New(strings.Join(msgs, "; ")))
}
