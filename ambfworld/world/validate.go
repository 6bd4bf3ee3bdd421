package world

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// parallelTolerance bounds |dir x up| relative to |dir||up| below which the
// camera up vector counts as parallel to its view direction.
const parallelTolerance = 1e-9

var validate *validator.Validate

// init sets up the validator to report fields by their descriptor keys.
func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	validate.RegisterStructValidation(validateCamera, Camera{})
}

// validateCamera rejects an up vector parallel to the view direction, which
// leaves the camera orientation undefined.
func validateCamera(sl validator.StructLevel) {
	c := sl.Current().Interface().(Camera)
	dir := c.LookAt.Vec3().Sub(c.Location.Vec3())
	up := c.Up.Vec3()
	if dir.Cross(up).Len() <= parallelTolerance*dir.Len()*up.Len() {
		sl.ReportError(c.Up, "up", "Up", "not_parallel", "")
	}
}

// check validates v and converts every violation into an InvalidValueError
// whose field is prefixed by prefix.
func check(prefix string, v any) ([]*InvalidValueError, error) {
	err := validate.Struct(v)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}
	out := make([]*InvalidValueError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, &InvalidValueError{
			Field:      fieldPath(prefix, fe.Namespace()),
			Value:      fe.Value(),
			Constraint: constraint(fe),
		})
	}
	return out, nil
}

// fieldPath drops the struct name validator puts in front of the namespace.
func fieldPath(prefix, namespace string) string {
	_, rest, ok := strings.Cut(namespace, ".")
	if !ok {
		rest = namespace
	}
	if prefix == "" {
		return rest
	}
	return prefix + "." + rest
}

func constraint(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gt":
		return "> " + fe.Param()
	case "gte":
		return ">= " + fe.Param()
	case "lt":
		return "< " + fe.Param()
	case "lte":
		return "<= " + fe.Param()
	case "gtfield":
		return "> " + strings.ToLower(fe.Param())
	case "not_parallel":
		return "not parallel to look at - location"
	default:
		return fe.Tag()
	}
}
