package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/iotaledger/hive.go/log"
	"github.com/iotaledger/hive.go/runtime/options"

	"github.com/go-drift/bindable/pkg/core"
	"github.com/go-drift/bindable/pkg/filebind"
)

var (
	editStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)
	wroteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
)

func init() {
	RegisterCommand(&Command{
		Name:  "watch",
		Short: "Bind a file to the terminal",
		Long: `Bind a file to an observable and edit it from the terminal.

Every line read from stdin replaces the file's contents. Changes made to
the file by other programs are printed as they happen. The command exits
at end of input or on interrupt.

Flags:
  --verbose          Log binding activity`,
		Usage: "bindable watch <path> [--verbose]",
		Run:   runWatch,
	})
}

type watchOptions struct {
	verbose bool
}

func parseWatchArgs(args []string) ([]string, watchOptions) {
	opts := watchOptions{}
	filtered := make([]string, 0, len(args))
	for _, arg := range args {
		switch arg {
		case "--verbose":
			opts.verbose = true
		default:
			filtered = append(filtered, arg)
		}
	}
	return filtered, opts
}

func runWatch(args []string) error {
	paths, opts := parseWatchArgs(args)
	if len(paths) != 1 {
		return fmt.Errorf("exactly one file path is required\n\nUsage: bindable watch <path>")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watchFile(ctx, paths[0], os.Stdin, os.Stdout, opts)
}

// watchFile runs the watch loop. File edits and input lines are both handled
// on the calling goroutine, so the observable is only touched from there.
func watchFile(ctx context.Context, path string, in io.Reader, out io.Writer, opts watchOptions) error {
	ctx, cancel := context.WithCancel(ctx)

	calls := make(chan func())
	dispatch := func(callback func()) {
		select {
		case calls <- callback:
		case <-ctx.Done():
		}
	}

	fileOpts := []options.Option[filebind.File]{
		filebind.WithDispatcher(dispatch),
		filebind.WithErrorHandler(func(err error) {
			fmt.Fprintln(out, errStyle.Render("✗ "+err.Error()))
		}),
	}
	if opts.verbose {
		fileOpts = append(fileOpts, filebind.WithLogger(log.NewLogger()))
	}

	file, err := filebind.Open(ctx, path, fileOpts...)
	if err != nil {
		cancel()
		return err
	}
	defer file.Dispose()
	// Runs before Dispose so a watcher blocked in dispatch can exit.
	defer cancel()

	obs := core.NewObservable(file.ObservingValue())
	if err := file.Binder().Bind(obs); err != nil {
		return err
	}

	typing := false
	unsubscribe := obs.AddListener(func(value string) {
		if typing {
			fmt.Fprintln(out, wroteStyle.Render("→ wrote ")+value)
			return
		}
		fmt.Fprintln(out, editStyle.Render("← changed ")+value)
	})
	defer unsubscribe()

	lines := make(chan string)
	inputDone := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		inputDone <- scanner.Err()
	}()

	fmt.Fprintf(out, "watching %s\n", file.Path())
	for {
		select {
		case <-ctx.Done():
			return nil
		case callback := <-calls:
			callback()
		case line := <-lines:
			typing = true
			obs.Set(line)
			typing = false
		case err := <-inputDone:
			return err
		}
	}
}
