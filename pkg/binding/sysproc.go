package binding

import (
	"os/exec"
	"strings"

	"github.com/gwen-io/gwen/pkg/gerr"
	"github.com/gwen-io/gwen/pkg/scope"
)

func resolveSysproc(env *scope.Environment, name string) (string, error) {
	command, ok := env.GetString(name + keySysprocCmd)
	if !ok {
		return "", gerr.New(gerr.UnboundBinding, "sysproc binding %q has no /sysproc/command", name)
	}
	rawArgs, _ := env.GetString(name + keySysprocArgs)
	delimiter, ok := env.GetString(name + keyDelimiter)
	if !ok || delimiter == "" {
		delimiter = " "
	}

	var args []string
	if rawArgs != "" {
		for _, a := range strings.Split(rawArgs, delimiter) {
			if a = strings.TrimSpace(a); a != "" {
				args = append(args, a)
			}
		}
	}

	cmd := exec.Command(command, args...)
	out, err := cmd.Output()
	if err != nil {
		return "", gerr.Wrap(gerr.SysprocExecution, err, "sysproc binding %q: %s failed", name, command)
	}
	return strings.TrimRight(string(out), "\n"), nil
}
