// FILE: lixenwraith/dataobject/expr.go
package dataobject

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Expression environment names: value and key of the entry under
// evaluation, and data, the whole object as plain maps.
func exprEnv(value any, key string, data map[string]any) map[string]any {
	return map[string]any{
		"value": value,
		"key":   key,
		"data":  data,
	}
}

func compileExpr(expression string, opts ...expr.Option) (*vm.Program, error) {
	opts = append([]expr.Option{expr.Env(exprEnv(nil, "", nil))}, opts...)
	program, err := expr.Compile(expression, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to compile expression %q: %w", expression, err)
	}
	return program, nil
}

// FilterExpr removes top-level entries for which expression is false.
// Example: `value != "" && key not in ["debug"]`.
// Nothing is removed if any evaluation fails.
func (d *DataObject) FilterExpr(expression string) error {
	program, err := compileExpr(expression, expr.AsBool())
	if err != nil {
		return err
	}

	data := d.ToMap()
	var drop []string
	for _, key := range d.Keys() {
		value, _ := d.root().Get(key)
		out, err := expr.Run(program, exprEnv(toPlainMapValue(value), key, data))
		if err != nil {
			return fmt.Errorf("expression failed for key %q: %w", key, err)
		}
		if keep, _ := out.(bool); !keep {
			drop = append(drop, key)
		}
	}

	d.Remove(drop...)
	return nil
}

// MapExpr is MapWithKey with the replacement computed by expression.
// Example: `upper(value)` with selector []string{"name"}.
func (d *DataObject) MapExpr(selector any, expression string) (*DataObject, error) {
	program, err := compileExpr(expression)
	if err != nil {
		return nil, err
	}

	data := d.ToMap()
	var runErr error
	mapped := d.MapWithKey(selector, func(value any, key string) any {
		if runErr != nil {
			return value
		}
		out, err := expr.Run(program, exprEnv(toPlainMapValue(value), key, data))
		if err != nil {
			runErr = fmt.Errorf("expression failed for key %q: %w", key, err)
			return value
		}
		return out
	})
	if runErr != nil {
		return nil, runErr
	}
	return mapped, nil
}
