package rubybe

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/y8/canopy/internal/backend"
)

var localName = regexp.MustCompile(`^[a-z_][a-zA-Z0-9_]*$`)

// fresh reserves the next unused name for base in this builder's scope.
func (b *Builder) fresh(base string) string {
	if !localName.MatchString(base) {
		panic(fmt.Sprintf("rubybe: %q is not a valid local variable name", base))
	}
	name := fmt.Sprintf("%s%d", base, b.varIndex[base])
	b.varIndex[base]++
	return name
}

// LocalVar declares a fresh local named after base, initialised to value
// (nil when value is empty), and returns its name.
func (b *Builder) LocalVar(base, value string) string {
	name := b.fresh(base)
	if value == "" {
		value = b.Null()
	}
	b.Assign(name, value)
	return name
}

// LocalVars declares several fresh locals in one parallel assignment and
// returns their names in request order.
func (b *Builder) LocalVars(vars ...backend.Var) []string {
	if len(vars) == 0 {
		return nil
	}
	names := make([]string, len(vars))
	values := make([]string, len(vars))
	for i, v := range vars {
		names[i] = b.fresh(v.Name)
		values[i] = v.Value
		if values[i] == "" {
			values[i] = b.Null()
		}
	}
	b.Assign(strings.Join(names, ", "), strings.Join(values, ", "))
	return names
}
