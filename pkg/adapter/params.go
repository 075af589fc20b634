package adapter

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Params holds settings shared by every adapter. Adapter-specific Params
// structs embed it with `mapstructure:",squash"`.
type Params struct {
	// ReportRowsAffected makes Execute return the engine-reported
	// affected-row count instead of 0.
	ReportRowsAffected bool `mapstructure:"report_rows_affected"`
}

// DecodeParams decodes Config.Params into out, which must be a pointer to
// a struct with mapstructure tags. Unknown keys are rejected.
func DecodeParams(in map[string]any, out any) error {
	if in == nil {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("failed to create params decoder: %w", err)
	}
	if err := dec.Decode(in); err != nil {
		return fmt.Errorf("invalid adapter params: %w", err)
	}
	return nil
}
