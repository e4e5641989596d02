// Package validation checks request payloads against go-playground/validator
// struct tags and turns failures into INVALID_INPUT errors.
//
//	type registerRequest struct {
//		Username string `json:"username" validate:"required,username,max=64"`
//	}
//	if err := validation.Validate(req); err != nil {
//		return err
//	}
package validation
