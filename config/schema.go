package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mexc-data/hotwatch/util"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed config.schema.json
var configSchema json.RawMessage

var schema = util.Must(gojsonschema.NewSchema(gojsonschema.NewBytesLoader(configSchema)))

// Validate checks the merged raw configuration map against the embedded
// schema, returning one error per violation.
func Validate(raw map[string]any) error {
	result, err := schema.Validate(gojsonschema.NewGoLoader(raw))
	if err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	if result.Valid() {
		return nil
	}

	errs := make([]error, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, fmt.Errorf("%s: %s", desc.Field(), desc.Description()))
	}

	return errors.Join(errs...)
}
