package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var errQuit = errors.New("quit")

// Commands that make no sense inside a session
var sessionExcluded = []string{"interactive", "completion", "help"}

// InteractiveCmd creates the interactive command
func InteractiveCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session (connect once, run multiple commands)",
		Long: `Run several commands against one database connection and one Google login.

Type 'help' to list commands and 'exit' or 'quit' to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			commands := make(map[string]*cobra.Command)
			for _, sibling := range cmd.Parent().Commands() {
				if !slices.Contains(sessionExcluded, sibling.Name()) {
					commands[sibling.Name()] = sibling
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n%sWard roster session for env %q%s\n", colorDim, app.Env, colorReset)
			fmt.Fprintln(out, "Type 'help' for available commands, 'exit' or 'quit' to leave")

			return runSession(cmd.InOrStdin(), out, commands)
		},
	}
}

type session struct {
	out      io.Writer
	commands map[string]*cobra.Command
}

// runSession executes one command per input line until exit, quit or end of input.
// Command errors are printed and the session carries on.
func runSession(in io.Reader, out io.Writer, commands map[string]*cobra.Command) error {
	s := &session{out: out, commands: commands}
	scanner := bufio.NewScanner(in)

	for fmt.Fprint(out, "> "); scanner.Scan(); fmt.Fprint(out, "> ") {
		if err := s.dispatch(scanner.Text()); errors.Is(err, errQuit) {
			fmt.Fprintln(out, "Goodbye!")
			return nil
		} else if err != nil {
			fmt.Fprintf(out, "%s❌ %v%s\n\n", colorRed, err, colorReset)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	return nil
}

func (s *session) dispatch(line string) error {
	words, err := parseCommandLine(line)
	if err != nil {
		return fmt.Errorf("could not parse command: %w", err)
	}
	if len(words) == 0 {
		return nil
	}

	switch name := words[0]; name {
	case "exit", "quit":
		return errQuit
	case "help":
		s.printHelp()
		return nil
	default:
		target, ok := s.commands[name]
		if !ok {
			return fmt.Errorf("unknown command %s (type 'help' for available commands)", name)
		}
		return runCommand(target, words[1:])
	}
}

// runCommand calls RunE directly. Execute would re-run PersistentPreRunE and reconnect
// everything. Flags are restored to their defaults first so values don't leak between runs.
func runCommand(target *cobra.Command, words []string) error {
	target.Flags().VisitAll(func(flag *pflag.Flag) {
		flag.Value.Set(flag.DefValue)
		flag.Changed = false
	})

	if err := target.ParseFlags(words); err != nil {
		return fmt.Errorf("parsing flags: %w", err)
	}
	args := target.Flags().Args()

	if target.Args != nil {
		if err := target.Args(target, args); err != nil {
			return err
		}
	}

	switch {
	case target.RunE != nil:
		return target.RunE(target, args)
	case target.Run != nil:
		target.Run(target, args)
	}
	return nil
}

func (s *session) printHelp() {
	names := make([]string, 0, len(s.commands))
	for name := range s.commands {
		names = append(names, name)
	}
	slices.Sort(names)

	uses := make([]string, len(names))
	for i, name := range names {
		uses[i] = s.commands[name].Use
	}
	width := columnWidth(len("exit, quit"), uses...)

	fmt.Fprintln(s.out, "\nAvailable commands:")
	for _, name := range names {
		fmt.Fprintf(s.out, "  %-*s  %s\n", width, s.commands[name].Use, s.commands[name].Short)
	}
	fmt.Fprintf(s.out, "\n  %-*s  %s\n", width, "help", "Show this help message")
	fmt.Fprintf(s.out, "  %-*s  %s\n\n", width, "exit, quit", "Leave the session")
}

// parseCommandLine splits on whitespace. Single or double quotes group words; the other quote is literal inside them.
func parseCommandLine(line string) ([]string, error) {
	var (
		words   []string
		word    strings.Builder
		inWord  bool
		openQuo rune
	)

	for _, r := range line {
		switch {
		case openQuo != 0 && r == openQuo:
			openQuo = 0
		case openQuo != 0:
			word.WriteRune(r)
		case r == '"' || r == '\'':
			openQuo, inWord = r, true
		case unicode.IsSpace(r):
			if inWord {
				words = append(words, word.String())
				word.Reset()
				inWord = false
			}
		default:
			word.WriteRune(r)
			inWord = true
		}
	}

	if openQuo != 0 {
		return nil, fmt.Errorf("unclosed quote: %c", openQuo)
	}
	if inWord {
		words = append(words, word.String())
	}
	return words, nil
}
