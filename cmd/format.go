package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string     { return "fmt" }
func (*fmtCmd) Synopsis() string { return "formats the lots file into a canonical form" }
func (*fmtCmd) Usage() string {
	return `fmt:
  Rewrites the lots file in canonical form: lots sorted by time then ID,
  fields in a fixed order, invalid numbers replaced by 0.
`
}

func (*fmtCmd) SetFlags(*flag.FlagSet) {}

func (*fmtCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, _, err := openStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := s.Sort(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting lots: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Lots file '%s' has been formatted.\n", s.Path())
	return subcommands.ExitSuccess
}
