// Package params decodes the free-form parameter maps of handler configuration
// into typed structs.
package params

import (
	"fmt"

	"github.com/bnema/alert-bot/internal/domain"
	"github.com/go-viper/mapstructure/v2"
)

const tagName = "param"

// Decode copies raw into out, a pointer to a struct whose fields carry `param`
// tags. Unknown keys, missing required keys and values of the wrong type all
// wrap domain.ErrHandlerMisconfigured.
func Decode(raw map[string]any, out any, required ...string) error {
	for _, key := range required {
		value, ok := raw[key]
		if !ok || value == nil || value == "" {
			return fmt.Errorf("%w: missing required parameter %q", domain.ErrHandlerMisconfigured, key)
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          tagName,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return fmt.Errorf("build parameter decoder: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrHandlerMisconfigured, err)
	}

	return nil
}
