// Package filebind binds the contents of a file on disk.
//
// A File is an interactive participant: writes made by other programs are
// its native edits and flow into the bound observable, while observable
// changes are written back to the file. The file's own writes are detected
// and swallowed, so binding a file never loops.
package filebind

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/log"
	"github.com/iotaledger/hive.go/runtime/options"

	"github.com/go-drift/bindable/pkg/bind"
	"github.com/go-drift/bindable/pkg/core"
	"github.com/go-drift/bindable/pkg/platform"
)

// File is a file-backed participant for string observables.
type File struct {
	path     string
	perm     os.FileMode
	dispatch func(func())
	logger   log.Logger
	onError  func(error)

	mu       sync.Mutex
	contents string

	edits   *core.Notifier
	binder  *bind.Binder[string]
	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
	done    chan struct{}
	closed  sync.Once
}

// WithDispatcher sets how native edit handlers are scheduled. The default
// is platform.DispatchOrRun, which hops onto the UI thread when one is
// registered.
func WithDispatcher(dispatch func(func())) options.Option[File] {
	return func(f *File) {
		f.dispatch = dispatch
	}
}

// WithLogger logs watcher activity and errors.
func WithLogger(logger log.Logger) options.Option[File] {
	return func(f *File) {
		f.logger = logger
	}
}

// WithErrorHandler receives errors from writing observable values to the
// file. Without one they go to the global error handler.
func WithErrorHandler(handler func(error)) options.Option[File] {
	return func(f *File) {
		f.onError = handler
	}
}

// WithPerm sets the mode used when the file has to be created.
func WithPerm(perm os.FileMode) options.Option[File] {
	return func(f *File) {
		f.perm = perm
	}
}

// Open loads path and starts watching it until ctx is done or Close is
// called. A missing file reads as empty and is created by the first update.
func Open(ctx context.Context, path string, opts ...options.Option[File]) (*File, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, ierrors.Wrapf(err, "failed to resolve %s", path)
	}

	f := options.Apply(&File{
		path:     absPath,
		perm:     0o644,
		dispatch: platform.DispatchOrRun,
		edits:    core.NewNotifier(),
		done:     make(chan struct{}),
	}, opts)
	f.binder = bind.New[string](f,
		bind.WithName[string]("file:"+filepath.Base(absPath)),
		bind.WithLogger[string](f.logger),
		bind.WithErrorHandler[string](f.onError),
	)

	contents, err := f.read()
	if err != nil {
		return nil, err
	}
	f.contents = contents

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, ierrors.Wrap(err, "failed to create watcher")
	}
	// The directory is watched so replacing the file by rename is seen.
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return nil, ierrors.Wrapf(err, "failed to watch %s", filepath.Dir(absPath))
	}
	f.watcher = watcher

	ctx, f.cancel = context.WithCancel(ctx)
	go f.watch(ctx)

	return f, nil
}

// Path returns the absolute path of the file.
func (f *File) Path() string {
	return f.path
}

// Binder returns the file's binding slot.
func (f *File) Binder() *bind.Binder[string] {
	return f.binder
}

// ObservingValue implements bind.Bindable. It returns the last contents
// read or written.
func (f *File) ObservingValue() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.contents
}

// UpdateValue implements bind.Bindable. It replaces the file atomically.
func (f *File) UpdateValue(value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if value == f.contents {
		return nil
	}
	if err := f.write(value); err != nil {
		return err
	}
	f.contents = value
	return nil
}

// OnNativeEdit implements bind.Interactive.
func (f *File) OnNativeEdit(handler func()) func() {
	return f.edits.AddListener(handler)
}

// Close stops watching and releases the binding.
func (f *File) Close() error {
	var err error
	f.closed.Do(func() {
		f.cancel()
		err = f.watcher.Close()
		<-f.done
		f.binder.Dispose()
	})
	return err
}

// Dispose implements core.Disposable.
func (f *File) Dispose() {
	if err := f.Close(); err != nil {
		f.logErrorf("close %s: %v", f.path, err)
	}
}

func (f *File) watch(ctx context.Context) {
	defer close(f.done)
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(evt.Name) != f.path {
				continue
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				f.reload()
			}
		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			f.logErrorf("watcher error: %v", err)
		}
	}
}

// reload reads the file and fires a native edit when its contents changed.
func (f *File) reload() {
	contents, err := f.read()
	if err != nil {
		f.logErrorf("%v", err)
		return
	}

	f.mu.Lock()
	if contents == f.contents {
		f.mu.Unlock()
		return
	}
	f.contents = contents
	f.mu.Unlock()

	if f.logger != nil {
		f.logger.LogDebugf("%s changed on disk (%d bytes)", f.path, len(contents))
	}
	f.dispatch(f.edits.Notify)
}

func (f *File) read() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if ierrors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", ierrors.Wrapf(err, "failed to read %s", f.path)
	}
	return string(data), nil
}

// write replaces the file through a temporary file and a rename, so the
// watcher never observes a half-written file.
func (f *File) write(value string) error {
	tmp, err := os.CreateTemp(filepath.Dir(f.path), "."+filepath.Base(f.path)+".*")
	if err != nil {
		return ierrors.Wrapf(err, "failed to create temp file for %s", f.path)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return ierrors.Wrapf(err, "failed to write %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return ierrors.Wrapf(err, "failed to close %s", tmpName)
	}
	if err := os.Chmod(tmpName, f.perm); err != nil {
		os.Remove(tmpName)
		return ierrors.Wrapf(err, "failed to chmod %s", tmpName)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return ierrors.Wrapf(err, "failed to replace %s", f.path)
	}
	return nil
}

func (f *File) logErrorf(format string, args ...any) {
	if f.logger != nil {
		f.logger.LogErrorf(format, args...)
	}
}
