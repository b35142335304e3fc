package flagx

import (
	"reflect"

	env "github.com/caarlos0/env/v6"
)

// TrueOnly is a boolean that the environment can switch on only with the
// exact value "True". Any other non-empty value reads as false.
type TrueOnly bool

// EnvParsers holds the custom environment parsers for env.ParseWithFuncs.
var EnvParsers = map[reflect.Type]env.ParserFunc{
	reflect.TypeOf(TrueOnly(false)): func(v string) (interface{}, error) {
		return TrueOnly(v == "True"), nil
	},
}

// ParseEnv fills the env-tagged fields of v, using EnvParsers for custom types.
func ParseEnv(v interface{}) error {
	return env.ParseWithFuncs(v, EnvParsers)
}
