package hcl

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/harel-coffee/tspipe-auto/internal/config"
	"github.com/harel-coffee/tspipe-auto/internal/ctxlog"
)

// Converter is the HCL-specific implementation of the config.Converter interface.
type Converter struct{}

// NewConverter creates a new HCL converter.
func NewConverter() *Converter {
	return &Converter{}
}

// DecodeBody evaluates argument expressions, applies defaults, and
// populates the provided Go struct using reflection. Struct fields opt in
// with a `tspipe:"<argument name>"` tag.
func (c *Converter) DecodeBody(
	ctx context.Context,
	inputStruct any,
	args map[string]hcl.Expression,
	defs map[string]*config.InputDefinition,
	evalCtx *hcl.EvalContext,
) error {
	logger := ctxlog.FromContext(ctx)

	structVal := reflect.ValueOf(inputStruct)
	if structVal.Kind() != reflect.Ptr || structVal.IsNil() {
		return fmt.Errorf("inputStruct must be a non-nil pointer")
	}
	structVal = structVal.Elem()
	structType := structVal.Type()

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		fieldVal := structVal.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		lookupName := field.Name
		if tag := field.Tag.Get("tspipe"); tag != "" {
			lookupName = strings.Split(tag, ",")[0]
		}

		inputDef, defExists := defs[lookupName]
		if !defExists {
			continue
		}

		targetPtr := fieldVal.Addr().Interface()
		argExpr, argProvided := args[lookupName]

		if argProvided {
			val, diags := argExpr.Value(evalCtx)
			if diags.HasErrors() {
				return diags
			}
			if err := c.decode(val, targetPtr); err != nil {
				return fmt.Errorf("failed to decode argument '%s': %w", lookupName, err)
			}
			continue
		}

		if inputDef.Required && inputDef.Default == nil {
			return fmt.Errorf("missing required argument %q", lookupName)
		}
		if inputDef.Default != nil {
			if err := c.decode(*inputDef.Default, targetPtr); err != nil {
				return fmt.Errorf("failed to apply default for '%s': %w", lookupName, err)
			}
		}
	}

	// Reject arguments the runner does not declare; a typo would
	// otherwise be silently ignored.
	for name := range args {
		if _, ok := defs[name]; !ok {
			return fmt.Errorf("unsupported argument %q", name)
		}
	}

	logger.Debug("Finished decoding argument body.")
	return nil
}

// decode handles the conversion of a cty.Value into a Go pointer target.
func (c *Converter) decode(val cty.Value, goVal any) error {
	valPtr := reflect.ValueOf(goVal)
	if valPtr.Kind() != reflect.Ptr {
		return fmt.Errorf("target for decoding must be a pointer, got %T", goVal)
	}

	impliedType, err := gocty.ImpliedType(valPtr.Elem().Interface())
	if err != nil {
		return gocty.FromCtyValue(val, goVal)
	}

	convertedVal, err := convert.Convert(val, impliedType)
	if err != nil {
		return fmt.Errorf("cannot convert %s to required type %s: %w",
			val.Type().FriendlyName(), impliedType.FriendlyName(), err)
	}

	return gocty.FromCtyValue(convertedVal, goVal)
}

// ToCtyValue converts a native Go value into its corresponding cty.Value.
func (c *Converter) ToCtyValue(v any) (cty.Value, error) {
	if v == nil {
		return cty.EmptyObjectVal, nil
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return cty.EmptyObjectVal, nil
		}
		rv = rv.Elem()
	}

	ty, err := gocty.ImpliedType(rv.Interface())
	if err != nil {
		return cty.NilVal, fmt.Errorf("unable to infer cty.Type: %w", err)
	}
	return gocty.ToCtyValue(rv.Interface(), ty)
}
