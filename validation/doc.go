// Package validation checks API input. Request structs use struct tags
// through go-playground/validator; path parameters and other loose values
// go through the chained Validator.
//
//	type selectRequest struct {
//	    Handle string `json:"handle" validate:"required,handle"`
//	}
//	if err := validation.Validate(req); err != nil { ... }
//
//	err := validation.New().RequiredUUID("choice_id", id).Validate()
package validation
