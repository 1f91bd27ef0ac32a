package render

import (
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/google/uuid"
	"github.com/iancoleman/strcase"
)

// vendorNamespaceName seeds the namespace under which deterministic UUIDs are derived.
// Changing it changes every seeded UUID in generated output.
const vendorNamespaceName = "com.github.pytemplify"

var vendorNamespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte(vendorNamespaceName))

// CamelCase converts s to lowerCamelCase.
func CamelCase(s string) string { return strcase.ToLowerCamel(s) }

// PascalCase converts s to UpperCamelCase.
func PascalCase(s string) string { return strcase.ToCamel(s) }

// SnakeCase converts s to snake_case.
func SnakeCase(s string) string { return strcase.ToSnake(s) }

// KebabCase converts s to kebab-case.
func KebabCase(s string) string { return strcase.ToKebab(s) }

// ScreamingSnakeCase converts s to SCREAMING_SNAKE_CASE.
func ScreamingSnakeCase(s string) string { return strcase.ToScreamingSnake(s) }

// GenerateUUID returns a version-5 UUID derived from seed under the vendor namespace,
// or a random version-4 UUID when seed is empty.
func GenerateUUID(seed string) string {
	if seed == "" {
		return uuid.NewString()
	}
	return uuid.NewSHA1(vendorNamespace, []byte(seed)).String()
}

var registerOnce sync.Once

// registerFilters installs the case and UUID filters into pongo2's filter table
// and turns off HTML autoescaping. pongo2 keeps both process-wide, so this runs once.
func registerFilters() {
	registerOnce.Do(func() {
		pongo2.SetAutoescape(false)
		for name, fn := range map[string]func(string) string{
			"camelcase":          CamelCase,
			"pascalcase":         PascalCase,
			"snakecase":          SnakeCase,
			"kebabcase":          KebabCase,
			"screamingsnakecase": ScreamingSnakeCase,
		} {
			_ = pongo2.RegisterFilter(name, stringFilter(fn))
		}
		_ = pongo2.RegisterFilter("uuid_generate", func(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
			if in == nil || in.IsNil() {
				return pongo2.AsValue(GenerateUUID("")), nil
			}
			return pongo2.AsValue(GenerateUUID(in.String())), nil
		})
	})
}

func stringFilter(fn func(string) string) pongo2.FilterFunction {
	return func(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		return pongo2.AsValue(fn(in.String())), nil
	}
}

// uuidFunction backs the uuid_generate() template function; the seed is optional.
func uuidFunction(args ...*pongo2.Value) *pongo2.Value {
	if len(args) == 0 || args[0] == nil || args[0].IsNil() {
		return pongo2.AsValue(GenerateUUID(""))
	}
	return pongo2.AsValue(GenerateUUID(args[0].String()))
}
