package application

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/go-playground/validator/v10"

	"github.com/ahrav/typereader/infrastructure/stats"
	"github.com/ahrav/typereader/internal/domain"
)

// fieldNamePattern matches listing column names such as "rlap", "zerr"
// or "age_flag".
var fieldNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_.]*$`)

// registerCustomValidators adds the semantic tags used by Config.
func registerCustomValidators(v *validator.Validate, registry *stats.Registry) error {
	if err := v.RegisterValidation("semver", validateSemver); err != nil {
		return fmt.Errorf("failed to register semver validator: %w", err)
	}
	if err := v.RegisterValidation("fieldname", validateFieldName); err != nil {
		return fmt.Errorf("failed to register fieldname validator: %w", err)
	}
	if err := v.RegisterValidation("statistic", statisticValidator(registry)); err != nil {
		return fmt.Errorf("failed to register statistic validator: %w", err)
	}
	return nil
}

// validateSemver validates that a string follows semantic versioning
// format (X.Y.Z where X, Y, Z are non-negative integers).
func validateSemver(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	var major, minor, patch int
	n, err := fmt.Sscanf(value, "%d.%d.%d", &major, &minor, &patch)
	return err == nil && n == 3 && major >= 0 && minor >= 0 && patch >= 0
}

// validateFieldName accepts listing column names. The type column is
// rejected because it is not numeric.
func validateFieldName(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value != domain.FieldType && fieldNamePattern.MatchString(value)
}

// statisticValidator accepts names known to registry.
func statisticValidator(registry *stats.Registry) validator.Func {
	return func(fl validator.FieldLevel) bool {
		_, ok := registry.Kind(fl.Field().String())
		return ok
	}
}

// validateSemantics checks rules struct tags cannot express: increasing
// rings and a taxonomy the domain accepts.
func validateSemantics(config *Config) error {
	if !slices.IsSorted(config.Chart.Rings) {
		return fmt.Errorf("chart rings must be increasing: %v", config.Chart.Rings)
	}
	for i := 1; i < len(config.Chart.Rings); i++ {
		if config.Chart.Rings[i] == config.Chart.Rings[i-1] {
			return fmt.Errorf("chart rings must be strictly increasing: %v", config.Chart.Rings)
		}
	}
	if _, err := domain.NewTaxonomy(config.Categories()); err != nil {
		return err
	}
	return nil
}
