package constants

import "github.com/go-playground/validator/v10"

// Validate is the shared struct validator used by domain DTOs.
var Validate = validator.New(validator.WithRequiredStructEnabled())
