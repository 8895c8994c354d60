// Package cli implements the apuntes command line client.
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/apuntestech/apuntes/internal/client"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"
)

const dateLayout = "2 January 2006"

// isTerminal is a test seam for term.IsTerminal
var isTerminal = term.IsTerminal

var errUsage = errors.New("usage")

// App runs one CLI invocation
type App struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func NewApp(stdin io.Reader, stdout, stderr io.Writer) *App {
	return &App{stdin: stdin, stdout: stdout, stderr: stderr}
}

// Run parses args (without the program name) and executes the subcommand.
// It returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if err := a.run(ctx, args); err != nil {
		if !errors.Is(err, errUsage) && !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(a.stderr, "error:", err)
		}
		return 1
	}
	return 0
}

func (a *App) run(ctx context.Context, args []string) error {
	global := flag.NewFlagSet("apuntes", flag.ContinueOnError)
	global.SetOutput(a.stderr)
	server := global.String("server", envOr("APUNTES_SERVER", "http://localhost:8080"), "notes service base URL")
	timeout := global.Duration("timeout", 30*time.Second, "per-request timeout")
	global.Usage = func() {
		fmt.Fprintln(a.stderr, "usage: apuntes [-server url] [-timeout d] <list|upload|delete|download|subjects> [flags]")
		global.PrintDefaults()
	}
	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() == 0 {
		global.Usage()
		return errUsage
	}

	api := client.NewAPI(*server, nil)
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	cmd, rest := global.Arg(0), global.Args()[1:]
	switch cmd {
	case "list":
		return a.list(ctx, api, rest)
	case "upload":
		return a.upload(ctx, api, rest)
	case "delete":
		return a.delete(ctx, api, rest)
	case "download":
		return a.download(ctx, api, rest)
	case "subjects":
		return a.subjects(ctx, api)
	default:
		fmt.Fprintf(a.stderr, "unknown command %q\n", cmd)
		global.Usage()
		return errUsage
	}
}

func (a *App) list(ctx context.Context, api *client.API, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	query := fs.String("q", "", "show only files whose name contains this text")
	if err := fs.Parse(args); err != nil {
		return err
	}

	catalog := client.NewCatalog(api)
	if err := catalog.Load(ctx); err != nil {
		return fmt.Errorf("%s: %w", catalog.Err(), err)
	}
	catalog.SetSearch(*query)

	visible := catalog.Visible()
	if len(visible) == 0 {
		fmt.Fprintln(a.stdout, "no files")
		return nil
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSUBJECT\tSIZE\tUPLOADED\tURL")
	for _, b := range visible {
		subject := b.Subject()
		if subject == "" {
			subject = "(no subject)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			b.DisplayName(), subject, humanize.IBytes(uint64(b.Size)), b.UploadedAt.Local().Format(dateLayout), b.DownloadURL)
	}
	return tw.Flush()
}

func (a *App) upload(ctx context.Context, api *client.API, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	name := fs.String("name", "", "display name (letters, digits and spaces)")
	subject := fs.String("subject", "", "subject, see the subjects command")
	path := fs.String("file", "", "path of the PDF to upload")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		fs.Usage()
		return errUsage
	}

	subjects, err := api.Subjects(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch upload rules: %w", err)
	}

	form := client.NewUploadForm(api, subjects.Rules())
	form.SetDisplayName(*name)
	form.SetSubject(*subject)
	file, err := client.FileFromPath(*path)
	if err != nil {
		return err
	}
	form.SetFile(file)

	if !form.CanSubmit() {
		for _, msg := range []string{form.NameError(), form.FileError()} {
			if msg != "" {
				fmt.Fprintln(a.stderr, msg)
			}
		}
		return errUsage
	}

	res, err := form.Submit(ctx)
	if err != nil {
		return errors.New(form.Message())
	}
	fmt.Fprintln(a.stdout, res.Message)
	fmt.Fprintln(a.stdout, res.Blob.URL)
	return nil
}

func (a *App) delete(ctx context.Context, api *client.API, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	name := fs.String("name", "", "display name or stored pathname of the file")
	fileURL := fs.String("url", "", "public URL of the file")
	assumeYes := fs.Bool("yes", false, "do not ask for confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if (*name == "") == (*fileURL == "") {
		fmt.Fprintln(a.stderr, "exactly one of -name or -url is required")
		return errUsage
	}

	catalog := client.NewCatalog(api)
	if err := catalog.Load(ctx); err != nil {
		return fmt.Errorf("%s: %w", catalog.Err(), err)
	}

	target, err := findTarget(catalog, *name, *fileURL)
	if err != nil {
		return err
	}

	confirm, err := a.confirmer(*assumeYes)
	if err != nil {
		return err
	}

	deleted, err := catalog.Delete(ctx, target, confirm)
	if err != nil {
		return errors.New(catalog.Err())
	}
	if !deleted {
		fmt.Fprintln(a.stdout, "cancelled")
		return nil
	}
	fmt.Fprintln(a.stdout, catalog.Message())
	return nil
}

func (a *App) download(ctx context.Context, api *client.API, args []string) error {
	fs := flag.NewFlagSet("download", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	name := fs.String("name", "", "display name or stored pathname of the file")
	fileURL := fs.String("url", "", "public or download URL of the file")
	out := fs.String("o", "", `output path, "-" for stdout (default "<name>.pdf")`)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if (*name == "") == (*fileURL == "") {
		fmt.Fprintln(a.stderr, "exactly one of -name or -url is required")
		return errUsage
	}

	catalog := client.NewCatalog(api)
	if err := catalog.Load(ctx); err != nil {
		return fmt.Errorf("%s: %w", catalog.Err(), err)
	}
	target, err := findTarget(catalog, *name, *fileURL)
	if err != nil {
		return err
	}

	if *out == "-" {
		_, err := api.Download(ctx, target, a.stdout)
		return err
	}

	dest := *out
	if dest == "" {
		dest = downloadName(target)
	}
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	n, err := api.Download(ctx, target, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dest)
		return err
	}
	fmt.Fprintf(a.stdout, "saved %s (%s)\n", dest, humanize.IBytes(uint64(n)))
	return nil
}

func (a *App) subjects(ctx context.Context, api *client.API) error {
	s, err := api.Subjects(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "max file size: %d MB\n", s.MaxFileSizeMB)
	for _, subject := range s.Subjects {
		fmt.Fprintln(a.stdout, subject)
	}
	return nil
}

// confirmer prompts on the terminal. Without a terminal deletion needs -yes.
func (a *App) confirmer(assumeYes bool) (client.Confirmer, error) {
	if assumeYes {
		return client.ConfirmFunc(func(string) (bool, error) { return true, nil }), nil
	}
	f, ok := a.stdin.(*os.File)
	if !ok || !isTerminal(int(f.Fd())) {
		return nil, errors.New("stdin is not a terminal, pass -yes to delete")
	}

	reader := bufio.NewReader(a.stdin)
	return client.ConfirmFunc(func(prompt string) (bool, error) {
		fmt.Fprint(a.stdout, prompt+" [y/N] ")
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes", nil
	}), nil
}

// findTarget resolves -name or -url against the loaded catalog. A URL that is
// not listed is still usable as is.
func findTarget(catalog *client.Catalog, name, fileURL string) (client.Blob, error) {
	if name != "" {
		b, ok := catalog.Find(name)
		if !ok {
			return client.Blob{}, fmt.Errorf("no file named %q", name)
		}
		return b, nil
	}
	for _, b := range catalog.Items() {
		if b.URL == fileURL || b.DownloadURL == fileURL {
			return b, nil
		}
	}
	return client.Blob{URL: fileURL, Pathname: fileURL}, nil
}

// downloadName is the local file name for a note: its display name plus .pdf.
// Unlisted URLs fall back to their last path segment.
func downloadName(b client.Blob) string {
	if u, err := url.Parse(b.Pathname); err == nil && u.Scheme != "" {
		b = client.Blob{Pathname: path.Base(u.Path)}
	}
	name := strings.TrimSuffix(b.DisplayName(), ".pdf")
	if name == "" || name == "." || name == "/" {
		return "download.pdf"
	}
	return strings.ReplaceAll(name, "/", "_") + ".pdf"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
