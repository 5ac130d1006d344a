// Package interpolate resolves Gwen's two placeholder syntaxes, ${name}
// (property/scope lookup) and $<name> (step-definition parameter lookup),
// innermost-first and recursively (spec.md §4.C).
package interpolate

import (
	"os"
	"regexp"
	"strings"

	"github.com/gwen-io/gwen/pkg/gerr"
)

// propertyPattern and paramPattern match only an innermost placeholder: one
// whose content holds no further '$', so a nested form like ${a-${b}}
// resolves ${b} first, then the outer ${a-<value>} on the next pass.
var propertyPattern = regexp.MustCompile(`\$\{([^{}$]*)\}`)
var paramPattern = regexp.MustCompile(`\$<([^<>$]*)>`)

// rawParamPattern matches any $<...> placeholder, innermost or not, used by
// the final pass to find leftovers once no further progress can be made.
var rawParamPattern = regexp.MustCompile(`\$<([^<>]*)>`)
var rawPropertyPattern = regexp.MustCompile(`\$\{([^{}]*)\}`)

// PropertyLookup resolves a ${name} placeholder's value, typically a
// scope.Environment.GetString.
type PropertyLookup func(name string) (string, bool)

// Interpolate resolves every placeholder in text. Property lookups that
// miss in lookup fall back to the process environment. In dry-run mode an
// unresolved $<name> is decorated to $[param:name] instead of erroring and
// unresolved ${...} is left as written; outside dry-run, any placeholder
// left unresolved is an UnboundAttribute error (spec.md §4.C).
func Interpolate(text string, lookup PropertyLookup, params map[string]string, dryRun bool) (string, error) {
	for {
		next, changed := resolveOnePass(text, lookup, params)
		text = next
		if !changed {
			break
		}
	}
	return finalize(text, dryRun)
}

func resolveOnePass(text string, lookup PropertyLookup, params map[string]string) (string, bool) {
	changed := false

	text = paramPattern.ReplaceAllStringFunc(text, func(m string) string {
		name := paramPattern.FindStringSubmatch(m)[1]
		if v, ok := params[name]; ok {
			changed = true
			return v
		}
		return m
	})

	text = propertyPattern.ReplaceAllStringFunc(text, func(m string) string {
		name := propertyPattern.FindStringSubmatch(m)[1]
		if v, ok := lookup(name); ok {
			changed = true
			return v
		}
		if v, ok := os.LookupEnv(name); ok {
			changed = true
			return v
		}
		return m
	})

	return text, changed
}

// finalize handles whatever no longer changes across a pass: in dry-run
// mode a leftover $<name> is decorated rather than left bare; outside
// dry-run, any leftover placeholder is an UnboundAttribute failure.
func finalize(text string, dryRun bool) (string, error) {
	if dryRun {
		return rawParamPattern.ReplaceAllString(text, "$[param:$1]"), nil
	}

	if m := rawParamPattern.FindStringSubmatch(text); m != nil {
		return "", gerr.New(gerr.UnboundAttribute, "unbound attribute %q (param scope)", m[1])
	}
	if m := rawPropertyPattern.FindStringSubmatch(text); m != nil {
		return "", gerr.New(gerr.UnboundAttribute, "unbound attribute %q (property scope)", m[1])
	}
	return text, nil
}

// InterpolateParams is the restricted pass the translate stage (pkg/
// stepengine) runs before StepDef dispatch: it expands only $<...>, leaves
// ${...} untouched, and raises UnboundAttribute for a missing param — unless
// the placeholder is the composite form $<${...}>, which is left alone for
// a later full Interpolate pass to resolve once the inner property is known
// (spec.md §4.C).
func InterpolateParams(text string, params map[string]string) (string, error) {
	var failure error
	out := rawParamPattern.ReplaceAllStringFunc(text, func(m string) string {
		if failure != nil {
			return m
		}
		content := rawParamPattern.FindStringSubmatch(m)[1]
		if strings.Contains(content, "${") {
			return m
		}
		if v, ok := params[content]; ok {
			return v
		}
		failure = gerr.New(gerr.UnboundAttribute, "unbound attribute %q (param scope)", content)
		return m
	})
	if failure != nil {
		return "", failure
	}
	return out, nil
}
