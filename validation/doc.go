// Package validation provides struct-tag and programmatic validation
// built on go-playground/validator.
//
// Struct validation uses `validate:"..."` tags; programmatic validation
// uses the fluent Validator for cross-field checks that tags cannot
// express. Both report coded InvalidInput errors with per-field details.
//
// # Struct Tag Validation
//
//	type Config struct {
//	    BaseURL string `mapstructure:"base_url" validate:"required,url"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Custom(stride <= size, "window_stride", "must not exceed window_size")
//	err := v.Validate()
package validation
