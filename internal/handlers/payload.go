package handlers

import (
	"encoding/json"
	goerrors "errors"
	"reflect"
	"strings"

	"github.com/foureyes/foureyes/pkg/foureyes/core"
	"github.com/go-playground/validator/v10"
)

// newValidator builds a validator that reports json field names, so the
// field map in a validation error matches what the maker actually sent.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodePayload unmarshals the raw payload, rejecting unknown fields so a
// typo in a field name fails validation instead of silently dropping data.
func decodePayload[T any](raw json.RawMessage) (T, error) {
	var p T
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return p, core.NewValidationError("payload is not a valid JSON document", map[string]string{"payload": "malformed"})
	}
	return p, nil
}

// checkStruct runs struct tag validation and flattens the result into a
// field map.
func checkStruct(v *validator.Validate, p any) error {
	err := v.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if goerrors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			reason := fe.Tag()
			if fe.Param() != "" {
				reason += "=" + fe.Param()
			}
			fields[fe.Field()] = reason
		}
		return core.NewValidationError("payload failed validation", fields)
	}
	return err
}
