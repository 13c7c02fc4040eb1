// Package admin implements the operator commands: creating users and
// candidates, bulk imports, searching from the shell and rebuilding the
// search index.
package admin

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/HackNC/resume-parser/internal/models"
	"github.com/HackNC/resume-parser/internal/services/accounts"
	"github.com/HackNC/resume-parser/internal/services/candidates"
	"github.com/HackNC/resume-parser/internal/services/importer"
	"github.com/HackNC/resume-parser/internal/services/uploads"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// ErrUsage is returned for a missing or malformed command line.
var ErrUsage = errors.New("usage error")

// Usage is printed for ErrUsage.
const Usage = `usage: admin <command> [arguments]

commands:
  create-user <name> [password]        create a staff login (prompts for the password when omitted)
  create-candidate <name> <file.pdf>   add one résumé from a local file
  import [-source-dir DIR] [-comma C] [-header] <file.csv>
                                       bulk-import rows of first name, last name, source
  search [-all] <terms...>             print the names of matching candidates
  reindex                              rebuild the search index from the database
`

// Commands runs operator commands against the application's services.
type Commands struct {
	Accounts   *accounts.Service
	Candidates *candidates.Service
	Importer   *importer.Importer
	Files      *uploads.Store

	In  io.Reader
	Out io.Writer
}

// Run dispatches args[0] to its command.
func (cmd *Commands) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}

	name, rest := args[0], args[1:]
	switch name {
	case "create-user":
		return cmd.createUser(ctx, rest)
	case "create-candidate":
		return cmd.createCandidate(ctx, rest)
	case "import":
		return cmd.importFile(ctx, rest)
	case "search":
		return cmd.search(ctx, rest)
	case "reindex":
		return cmd.reindex(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprint(cmd.Out, Usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q: %w", name, ErrUsage)
	}
}

func (cmd *Commands) createUser(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("create-user <name> [password]: %w", ErrUsage)
	}

	password := ""
	if len(args) == 2 {
		password = args[1]
	} else {
		pw, err := cmd.promptPassword()
		if err != nil {
			return err
		}
		password = pw
	}

	user, err := cmd.Accounts.CreateUser(ctx, args[0], password)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Out, "created user %s (%s)\n", user.Name, user.ID)
	return nil
}

// promptPassword reads the password without echo from a terminal, or as a
// plain line when input is piped.
func (cmd *Commands) promptPassword() (string, error) {
	if f, ok := cmd.In.(*os.File); ok && isTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.Out, "Password: ")
		pw, err := readPassword(int(f.Fd()))
		fmt.Fprintln(cmd.Out)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(pw), nil
	}

	line, err := bufio.NewReader(cmd.In).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (cmd *Commands) createCandidate(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("create-candidate <name> <file.pdf>: %w", ErrUsage)
	}
	name, src := args[0], args[1]

	stored, err := cmd.Files.Import(src, filepath.Base(src))
	if err != nil {
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}

	c, err := cmd.Candidates.Create(ctx, name, stored)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Out, "created candidate %s (%s) from %s\n", c.Name, c.ID, c.Filename)
	return nil
}

func (cmd *Commands) importFile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(cmd.Out)
	sourceDir := fs.String("source-dir", "", "directory holding the referenced PDFs (default: the CSV's directory)")
	comma := fs.String("comma", ",", "field delimiter")
	header := fs.Bool("header", false, "skip the first row")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%v: %w", err, ErrUsage)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("import <file.csv>: %w", ErrUsage)
	}
	csvPath := fs.Arg(0)

	delim := []rune(*comma)
	if len(delim) != 1 {
		return fmt.Errorf("-comma must be a single character: %w", ErrUsage)
	}
	dir := *sourceDir
	if dir == "" {
		dir = filepath.Dir(csvPath)
	}

	report, err := cmd.Importer.Open(ctx, csvPath, importer.Options{
		SourceDir: dir,
		Comma:     delim[0],
		HasHeader: *header,
	})
	if err != nil {
		return err
	}

	for _, row := range report.Rows {
		if row.Status == models.ImportImported {
			continue
		}
		fmt.Fprintf(cmd.Out, "line %d: %s %s: %s\n", row.Line, row.Name, row.Status, row.Reason)
	}
	fmt.Fprintf(cmd.Out, "imported %d, skipped %d, failed %d\n",
		report.Count(models.ImportImported),
		report.Count(models.ImportSkipped),
		report.Count(models.ImportFailed))
	return nil
}

func (cmd *Commands) search(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(cmd.Out)
	all := fs.Bool("all", false, "list every candidate")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%v: %w", err, ErrUsage)
	}

	docs, err := cmd.Candidates.Search(ctx, strings.Join(fs.Args(), " "), *all)
	if err != nil {
		return err
	}
	for _, d := range docs {
		fmt.Fprintln(cmd.Out, d.Name)
	}
	return nil
}

func (cmd *Commands) reindex(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("reindex takes no arguments: %w", ErrUsage)
	}
	n, err := cmd.Candidates.Reindex(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Out, "indexed %d candidates\n", n)
	return nil
}
