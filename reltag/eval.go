// This file is part of reltools.
//
// reltools is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// reltools is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with reltools.  If not, see <https://www.gnu.org/licenses/>.

package reltag

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/reltools/reltools/curated"
)

// the environment has no variables or extensions. it is safe to share between
// goroutines
var environment = sync.OnceValues(func() (*cel.Env, error) {
	return cel.NewEnv()
})

var hexConstant = regexp.MustCompile(`0[xX][0-9a-fA-F]+`)

// decimal replaces hexadecimal constants in the expression with their
// decimal value.
func decimal(expr string) string {
	return hexConstant.ReplaceAllStringFunc(expr, func(h string) string {
		v, err := strconv.ParseUint(h[2:], 16, 64)
		if err != nil {
			return h
		}
		return strconv.FormatUint(v, 10)
	})
}

// Evaluate appends the expression to the base value and returns the result of
// the arithmetic, truncated to 32 bits. An empty expression returns the base
// value unchanged.
//
// For example, a base of 16 and an expression of "+ 0x4" is 20.
func Evaluate(base uint32, expr string) (uint32, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return base, nil
	}

	src := fmt.Sprintf("%d %s", base, decimal(expr))

	env, err := environment()
	if err != nil {
		return 0, curated.Errorf(ExpressionError, src, err)
	}

	ast, iss := env.Compile(src)
	if iss != nil && iss.Err() != nil {
		return 0, curated.Errorf(ExpressionError, src, iss.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return 0, curated.Errorf(ExpressionError, src, err)
	}

	out, _, err := prg.Eval(map[string]any{})
	if err != nil {
		return 0, curated.Errorf(ExpressionError, src, err)
	}

	switch v := out.Value().(type) {
	case int64:
		return uint32(v), nil
	case uint64:
		return uint32(v), nil
	case float64:
		return uint32(int64(v)), nil
	}

	return 0, curated.Errorf(ExpressionError, src, curated.Errorf("result is not a number (%T)", out.Value()))
}
