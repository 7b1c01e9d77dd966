package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"

	"github.com/etnz/lotbook/config"
	"github.com/google/subcommands"
)

// EnvVerbose tells extensions that -v was set.
const EnvVerbose = "LOTS_VERBOSE"

// IsCommand reports whether name is a subcommand registered in c.
func IsCommand(c *subcommands.Commander, name string) (found bool) {
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		if cmd.Name() == name {
			found = true
		}
	})
	return found
}

// RunExtension attempts to find and execute an external lots-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
//
// Global flags are passed to the extension as environment variables.
func RunExtension(subcommand string, args []string) (bool, int) {
	externalCmdName := "lots-" + subcommand

	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		slog.Debug("external command not found in PATH", "command", externalCmdName, "error", err)
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = os.Stderr

	cmd.Env = os.Environ()
	if *lotsFile != "" {
		cmd.Env = append(cmd.Env, config.EnvLotsFile+"="+*lotsFile)
	}
	if *currency != "" {
		cmd.Env = append(cmd.Env, config.EnvCurrency+"="+*currency)
	}
	if *method != "" {
		cmd.Env = append(cmd.Env, config.EnvMethod+"="+*method)
	}
	cmd.Env = append(cmd.Env, EnvVerbose+"="+strconv.FormatBool(*Verbose))

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", externalCmdName, err)
		return true, 1
	}
	return true, 0
}
