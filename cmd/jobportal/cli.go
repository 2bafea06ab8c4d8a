package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/state"
)

var (
	errUsage          = errors.New("usage")
	errNotSignedIn    = errors.New("not signed in, run: jobportal login")
	errStaffOnly      = errors.New("this command needs a staff account")
	errUnknownCommand = errors.New("unknown command")
)

type command struct {
	usage string
	run   func(c *cli, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"login":        {"login [-email e] [-password p]", (*cli).login},
	"register":     {"register -email e -first-name n [-last-name n]", (*cli).register},
	"logout":       {"logout", (*cli).logout},
	"whoami":       {"whoami", (*cli).whoami},
	"jobs":         {"jobs [-search q] [-location l,..] [-category id,..] [-level l,..] [-type t,..] [-remote true|false] [-salary-min n] [-salary-max n] [-ordering f] [-page n]", (*cli).jobs},
	"job":          {"job <id> [-similar]", (*cli).job},
	"search":       {"search [-suggest] <query>", (*cli).search},
	"recent":       {"recent [-clear]", (*cli).recent},
	"apply":        {"apply <job id> [-resume file | -resume-id id] [-cover-letter text]", (*cli).apply},
	"applications": {"applications [-status s] [-page n]", (*cli).applications},
	"withdraw":     {"withdraw <application id>", (*cli).withdraw},
	"documents":    {"documents [-page n]", (*cli).documents},
	"upload":       {"upload [-type resume|cover_letter|portfolio] <file>", (*cli).upload},
	"bookmarks":    {"bookmarks [-page n]", (*cli).bookmarks},
	"bookmark":     {"bookmark [-remove] <job id>", (*cli).bookmark},
	"recommend":    {"recommend [-limit n]", (*cli).recommend},
	"admin":        {"admin stats|jobs|companies|applications|categories|bulk ...", (*cli).admin},
}

// cli runs one command against app and writes human readable output to out
type cli struct {
	app *state.App
	out io.Writer
	in  *bufio.Reader
}

func (c *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" {
		c.usage()
		return nil
	}
	cmd, ok := commands[args[0]]
	if !ok {
		c.usage()
		return fmt.Errorf("%w %q", errUnknownCommand, args[0])
	}
	err := cmd.run(c, ctx, args[1:])
	if errors.Is(err, errUsage) {
		return fmt.Errorf("usage: jobportal %s", cmd.usage)
	}
	return err
}

func (c *cli) usage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(c.out, "usage: jobportal <command> [flags]")
	for _, name := range names {
		fmt.Fprintf(c.out, "  %s\n", commands[name].usage)
	}
}

func (c *cli) prompt(label string) string {
	fmt.Fprint(c.out, label)
	line, _ := c.in.ReadString('\n')
	return strings.TrimSpace(line)
}

func (c *cli) requireSession() error {
	if !c.app.Session.State().IsAuthenticated() {
		return errNotSignedIn
	}
	return nil
}

func (c *cli) requireStaff() error {
	if err := c.requireSession(); err != nil {
		return err
	}
	if user := c.app.Session.State().User; user == nil || !user.IsStaff {
		return errStaffOnly
	}
	return nil
}

// newFlags returns a FlagSet that reports errors instead of exiting
func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parse parses args allowing flags after positional arguments
func parse(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, fmt.Errorf("%w: %v", errUsage, err)
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(id), nil
}

func parseIDs(list string) ([]uint, error) {
	var ids []uint
	for _, part := range splitList(list) {
		id, err := parseID(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func splitList(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// optionalBool parses "", "true" or "false"
func optionalBool(s string) (*bool, error) {
	if s == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("invalid boolean %q", s)
	}
	return &b, nil
}

func optionalInt(n int) *int {
	if n <= 0 {
		return nil
	}
	return &n
}
