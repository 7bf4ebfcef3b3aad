package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/go-drift/bindable/cmd/bindable/internal/config"
	"github.com/go-drift/bindable/pkg/bind"
	"github.com/go-drift/bindable/pkg/core"
	"github.com/go-drift/bindable/pkg/filebind"
	"github.com/go-drift/bindable/pkg/platform"
	"github.com/go-drift/bindable/pkg/tui"
)

func init() {
	RegisterCommand(&Command{
		Name:  "demo",
		Short: "Run an interactive form of bound fields",
		Long: `Run a terminal form whose fields are bound to shared observables.

Fields that share a key are bound to the same observable, so typing in
one updates the others. A key with a file binds that file as well: edits
made to it by other programs show up in the form and form edits are
written back.

The form is read from bindable.yaml in the current directory, or from
the file given with --config. Without either a small built-in form is
used.

Flags:
  --config PATH      Read the form from PATH

Keys:
  tab / shift+tab    Move between fields
  space / enter      Flip a toggle
  esc / ctrl+c       Quit`,
		Usage: "bindable demo [--config PATH]",
		Run:   runDemo,
	})
}

type demoOptions struct {
	configPath string
}

func parseDemoArgs(args []string) (demoOptions, error) {
	opts := demoOptions{}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--config":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("--config requires a file path")
			}
			opts.configPath = args[i+1]
			i++
		case strings.HasPrefix(arg, "--config="):
			opts.configPath = strings.TrimPrefix(arg, "--config=")
		default:
			return opts, fmt.Errorf("unexpected argument %q", arg)
		}
	}
	return opts, nil
}

func runDemo(args []string) error {
	opts, err := parseDemoArgs(args)
	if err != nil {
		return err
	}

	resolved, err := loadDemoConfig(opts)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := newDemo(resolved)
	program := tea.NewProgram(d.form, tea.WithAltScreen())

	platform.RegisterDispatch(func(callback func()) {
		program.Send(tui.DispatchMsg(callback))
	})
	defer platform.RegisterDispatch(nil)

	if err := d.bind(ctx); err != nil {
		return err
	}
	defer d.Dispose()

	_, err = program.Run()
	return err
}

func loadDemoConfig(opts demoOptions) (*config.Resolved, error) {
	if opts.configPath != "" {
		path, err := filepath.Abs(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		return config.Resolve(cfg, filepath.Dir(path))
	}

	root, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadOptional(root)
	if err != nil {
		return nil, err
	}
	return config.Resolve(cfg, root)
}

// demo owns the observables, fields and files of one form. Disposing it
// closes the files and releases every binding.
type demo struct {
	core.StateBase

	cfg     *config.Resolved
	form    *tui.Form
	texts   map[string]*core.Observable[string]
	toggles map[string]*core.Observable[bool]
	inputs  map[string][]*tui.TextInput
	flags   map[string][]*tui.Toggle
}

func newDemo(cfg *config.Resolved) *demo {
	d := &demo{
		cfg:     cfg,
		texts:   make(map[string]*core.Observable[string]),
		toggles: make(map[string]*core.Observable[bool]),
		inputs:  make(map[string][]*tui.TextInput),
		flags:   make(map[string][]*tui.Toggle),
	}

	for _, k := range cfg.Keys {
		switch k.Kind {
		case config.KindText:
			obs := core.NewEmptyObservable[string]()
			if k.HasInitial {
				obs.Set(k.Initial)
			}
			d.texts[k.Name] = obs
		case config.KindToggle:
			obs := core.NewEmptyObservable[bool]()
			if k.HasInitial {
				// Resolve has already validated the value.
				value, _ := strconv.ParseBool(k.Initial)
				obs.Set(value)
			}
			d.toggles[k.Name] = obs
		}
	}

	fields := make([]tui.Field, 0, len(cfg.Fields))
	for _, f := range cfg.Fields {
		switch f.Kind {
		case config.KindText:
			input := tui.NewTextInput(f.Name, f.Key, f.Limit, bind.WithErrorHandler[string](d.showError))
			d.inputs[f.Key] = append(d.inputs[f.Key], input)
			fields = append(fields, input)
		case config.KindToggle:
			toggle := tui.NewToggle(f.Name, bind.WithErrorHandler[bool](d.showError))
			d.flags[f.Key] = append(d.flags[f.Key], toggle)
			fields = append(fields, toggle)
		}
	}
	d.form = tui.NewForm(cfg.Title, fields...)

	d.SetRebuild(d.render)
	for _, k := range cfg.Keys {
		switch k.Kind {
		case config.KindText:
			core.UseObservable(d, d.texts[k.Name])
		case config.KindToggle:
			core.UseObservable(d, d.toggles[k.Name])
		}
	}
	d.render()

	return d
}

// render shows every key's current value under the fields.
func (d *demo) render() {
	parts := make([]string, 0, len(d.cfg.Keys))
	for _, k := range d.cfg.Keys {
		value := "-"
		switch k.Kind {
		case config.KindText:
			if v, ok := d.texts[k.Name].Lookup(); ok {
				value = strconv.Quote(v)
			}
		case config.KindToggle:
			if v, ok := d.toggles[k.Name].Lookup(); ok {
				value = strconv.FormatBool(v)
			}
		}
		parts = append(parts, k.Name+"="+value)
	}
	d.form.SetFooter(strings.Join(parts, "  "))
}

// bind opens the configured files and binds every participant for the
// lifetime of the demo. Values rejected by a field are shown in the status
// line instead of failing.
func (d *demo) bind(ctx context.Context) error {
	for _, k := range d.cfg.Keys {
		if k.File == "" {
			continue
		}
		file, err := filebind.Open(ctx, k.File, filebind.WithErrorHandler(d.showError))
		if err != nil {
			d.Dispose()
			return err
		}
		core.UseController(d, func() *filebind.File { return file })

		obs := d.texts[k.Name]
		if !k.HasInitial {
			obs.Set(file.ObservingValue())
		}
		if err := bind.BindScoped(d, file.Binder(), obs); err != nil {
			d.showError(err)
		}
	}

	for key, inputs := range d.inputs {
		for _, input := range inputs {
			if err := bind.BindScoped(d, input.Binder(), d.texts[key]); err != nil {
				d.showError(err)
			}
		}
	}
	for key, toggles := range d.flags {
		for _, toggle := range toggles {
			if err := bind.BindScoped(d, toggle.Binder(), d.toggles[key]); err != nil {
				d.showError(err)
			}
		}
	}
	return nil
}

func (d *demo) showError(err error) {
	d.form.ShowError(err)
}
