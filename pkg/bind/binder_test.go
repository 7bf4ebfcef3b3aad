package bind

import (
	"strings"
	"testing"

	"github.com/go-drift/bindable/pkg/core"
	"github.com/go-drift/bindable/pkg/errors"
)

// field is an interactive participant standing in for a text control.
type field struct {
	text     string
	updates  int
	handlers []func()
	hooks    int
	binder   *Binder[string]
}

func newField(initial string) *field {
	f := &field{text: initial}
	f.binder = New[string](f)
	return f
}

func (f *field) ObservingValue() string { return f.text }

func (f *field) UpdateValue(v string) error {
	f.updates++
	f.text = v
	return nil
}

func (f *field) OnNativeEdit(handler func()) func() {
	f.hooks++
	f.handlers = append(f.handlers, handler)
	idx := len(f.handlers) - 1
	return func() { f.handlers[idx] = nil }
}

// typeText simulates the user typing into the control.
func (f *field) typeText(v string) {
	f.text = v
	for _, h := range f.handlers {
		if h != nil {
			h()
		}
	}
}

// spyObservable records Set calls on top of a core.Observable.
type spyObservable[T any] struct {
	*core.Observable[T]
	sets []T
}

func (s *spyObservable[T]) Set(v T) {
	s.sets = append(s.sets, v)
	s.Observable.Set(v)
}

func newSpy[T comparable](initial T) *spyObservable[T] {
	return &spyObservable[T]{Observable: core.NewObservable(initial)}
}

func TestBind_InitialSync(t *testing.T) {
	f := newField("")
	obs := core.NewObservable("gopher")

	if err := f.binder.Bind(obs); err != nil {
		t.Fatalf("Bind returned %v", err)
	}

	if f.ObservingValue() != "gopher" {
		t.Errorf("Expected participant value %q, got %q", "gopher", f.ObservingValue())
	}
	if !f.binder.IsBound() {
		t.Error("Expected binder to be bound")
	}
}

func TestBind_AbsentValueLeavesParticipantUntouched(t *testing.T) {
	f := newField("typed before bind")
	obs := core.NewEmptyObservable[string]()

	if err := f.binder.Bind(obs); err != nil {
		t.Fatalf("Bind returned %v", err)
	}

	if f.text != "typed before bind" || f.updates != 0 {
		t.Errorf("Expected native state untouched, got %q after %d updates", f.text, f.updates)
	}
}

func TestBind_ForwardPropagation(t *testing.T) {
	f := newField("")
	obs := core.NewObservable("a")
	f.binder.Bind(obs)

	obs.Set("b")

	if f.text != "b" {
		t.Errorf("Expected %q, got %q", "b", f.text)
	}
}

func TestValueChanged_SkipsEqualValue(t *testing.T) {
	f := newField("")
	obs := newSpy("same")
	f.binder.Bind(obs)

	f.typeText("same")

	if len(obs.sets) != 0 {
		t.Errorf("Expected no Set calls, got %v", obs.sets)
	}
}

func TestValueChanged_PushesDifferentValueOnce(t *testing.T) {
	f := newField("")
	obs := newSpy("old")
	f.binder.Bind(obs)

	f.typeText("new")

	if len(obs.sets) != 1 || obs.sets[0] != "new" {
		t.Errorf("Expected exactly one Set(%q), got %v", "new", obs.sets)
	}
	if v, _ := obs.Lookup(); v != "new" {
		t.Errorf("Expected observable %q, got %q", "new", v)
	}
}

func TestValueChanged_PushesIntoAbsentObservable(t *testing.T) {
	f := newField("draft")
	obs := core.NewEmptyObservable[string]()
	f.binder.Bind(obs)

	if !f.binder.ValueChanged() {
		t.Error("Expected a push into an empty observable")
	}
	if v, ok := obs.Lookup(); !ok || v != "draft" {
		t.Errorf("Expected (draft, true), got (%q, %v)", v, ok)
	}
}

func TestBind_RoundTripTerminates(t *testing.T) {
	f := newField("")
	obs := core.NewObservable("x")
	f.binder.Bind(obs)

	// A control that reports programmatic writes as edits would loop
	// without the equality gate.
	obs.AddListener(func(string) { f.typeText(f.text) })

	obs.Set("y")

	if f.text != "y" {
		t.Errorf("Expected %q, got %q", "y", f.text)
	}
}

func TestBind_RebindReplaces(t *testing.T) {
	f := newField("")
	a := core.NewObservable("a1")
	b := core.NewObservable("b1")

	f.binder.Bind(a)
	f.binder.Bind(b)

	if f.text != "b1" {
		t.Errorf("Expected initial sync from B, got %q", f.text)
	}

	a.Set("a2")
	if f.text != "b1" {
		t.Errorf("Changes to A should no longer reach the participant, got %q", f.text)
	}
	if a.ListenerCount() != 0 {
		t.Errorf("Expected A to have no listeners, got %d", a.ListenerCount())
	}

	b.Set("b2")
	if f.text != "b2" {
		t.Errorf("Expected %q, got %q", "b2", f.text)
	}

	f.typeText("edited")
	if v, _ := a.Lookup(); v != "a2" {
		t.Errorf("Reverse path should target B only, A holds %q", v)
	}
	if v, _ := b.Lookup(); v != "edited" {
		t.Errorf("Expected B to hold %q, got %q", "edited", v)
	}
}

func TestBind_RebindHooksNativeEditsOnce(t *testing.T) {
	f := newField("")
	obs := newSpy("start")

	f.binder.Bind(core.NewObservable("first"))
	f.binder.Bind(core.NewObservable("second"))
	f.binder.Bind(obs)

	if f.hooks != 1 {
		t.Errorf("Expected one native edit hook, got %d", f.hooks)
	}

	f.typeText("typed")
	if len(obs.sets) != 1 {
		t.Errorf("Expected one Set per edit, got %d", len(obs.sets))
	}
}

func TestBind_SharedObservableFanOut(t *testing.T) {
	first := newField("")
	second := newField("")
	obs := core.NewObservable("shared")

	first.binder.Bind(obs)
	second.binder.Bind(obs)

	first.typeText("from first")

	if second.text != "from first" {
		t.Errorf("Expected second participant to follow, got %q", second.text)
	}
	if first.text != "from first" {
		t.Errorf("Expected first participant to keep its edit, got %q", first.text)
	}
}

// foldString compares case-insensitively.
type foldString string

func (s foldString) Equal(other foldString) bool {
	return strings.EqualFold(string(s), string(other))
}

type foldField struct {
	value  foldString
	binder *Binder[foldString]
}

func (f *foldField) ObservingValue() foldString { return f.value }

func (f *foldField) UpdateValue(v foldString) error {
	f.value = v
	return nil
}

func TestValueChanged_UsesTypeEquality(t *testing.T) {
	f := &foldField{}
	f.binder = New[foldString](f)
	obs := &spyObservable[foldString]{Observable: core.NewObservableWithEquality[foldString]("Hello", foldString.Equal)}
	f.binder.Bind(obs)

	f.value = "HELLO"
	if f.binder.ValueChanged() {
		t.Error("Expected case-insensitive equal value to be deduplicated")
	}
	if len(obs.sets) != 0 {
		t.Errorf("Expected no Set calls, got %v", obs.sets)
	}

	f.value = "World"
	if !f.binder.ValueChanged() {
		t.Error("Expected a different value to be pushed")
	}
}

func TestNewWithEqual(t *testing.T) {
	var got []int
	p := Funcs[[]int]{
		Get: func() []int { return got },
		Set: func(v []int) error { got = v; return nil },
	}
	sameLen := func(a, b []int) bool { return len(a) == len(b) }
	b := NewWithEqual[[]int](p, sameLen)
	obs := core.NewObservableWithEquality([]int{1, 2}, sameLen)

	if err := b.Bind(obs); err != nil {
		t.Fatalf("Bind returned %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Expected initial sync, got %v", got)
	}

	got = []int{9, 9}
	if b.ValueChanged() {
		t.Error("Expected equal-length slice to be deduplicated")
	}
}

// gauge rejects negative values, like a control with a bounded range.
type gauge struct {
	value  int
	binder *Binder[int]
}

func (g *gauge) ObservingValue() int { return g.value }

func (g *gauge) UpdateValue(v int) error {
	if v < 0 {
		return &errors.TypeMismatchError{Participant: "*bind.gauge", Value: v, Reason: "negative"}
	}
	g.value = v
	return nil
}

func TestBind_InitialPullTypeMismatch(t *testing.T) {
	g := &gauge{value: 1}
	g.binder = New[int](g)
	obs := core.NewObservable(-1)

	err := g.binder.Bind(obs)
	if !errors.Is(err, errors.ErrTypeMismatch) {
		t.Fatalf("Expected type mismatch, got %v", err)
	}
	if g.value != 1 {
		t.Errorf("Expected participant untouched, got %d", g.value)
	}

	obs.Set(5)
	if g.value != 5 {
		t.Errorf("Expected binding to stay live after failed pull, got %d", g.value)
	}
}

func TestBind_ForwardErrorGoesToHandler(t *testing.T) {
	g := &gauge{}
	var reported []error
	g.binder = New[int](g, WithErrorHandler[int](func(err error) {
		reported = append(reported, err)
	}))
	obs := core.NewObservable(3)
	g.binder.Bind(obs)

	obs.Set(-4)

	if len(reported) != 1 {
		t.Fatalf("Expected 1 reported error, got %d", len(reported))
	}
	if errors.KindOf(reported[0]) != errors.KindTypeMismatch {
		t.Errorf("Expected type mismatch kind, got %v", errors.KindOf(reported[0]))
	}
	var bindErr *errors.BindError
	if !errors.As(reported[0], &bindErr) || bindErr.Binder != g.binder.ID() {
		t.Errorf("Expected BindError carrying binder ID, got %v", reported[0])
	}
	if g.value != 3 {
		t.Errorf("Expected participant to keep 3, got %d", g.value)
	}
	if v, _ := obs.Lookup(); v != -4 {
		t.Errorf("Observable should be unaffected by participant failure, got %d", v)
	}
}

func TestBind_ForwardErrorReportedGlobally(t *testing.T) {
	var captured *errors.BindError
	old := errors.DefaultHandler
	errors.SetHandler(&recordingHandler{onError: func(err *errors.BindError) { captured = err }})
	defer errors.SetHandler(old)

	g := &gauge{}
	g.binder = New[int](g)
	obs := core.NewObservable(0)
	g.binder.Bind(obs)
	obs.Set(-1)

	if captured == nil || captured.Kind != errors.KindTypeMismatch {
		t.Errorf("Expected a reported type mismatch, got %v", captured)
	}
}

func TestBind_NilObservable(t *testing.T) {
	f := newField("")
	if err := f.binder.Bind(nil); !errors.Is(err, ErrNilObservable) {
		t.Errorf("Expected ErrNilObservable, got %v", err)
	}
	if f.binder.IsBound() {
		t.Error("Binder should stay unbound")
	}
}

func TestBind_TypedNilObservable(t *testing.T) {
	f := newField("")
	var obs *core.Observable[string]
	if err := f.binder.Bind(obs); !errors.Is(err, ErrNilObservable) {
		t.Errorf("Expected ErrNilObservable, got %v", err)
	}
	if f.binder.IsBound() {
		t.Error("Binder should stay unbound")
	}
}

// fragile panics on a chosen value.
type fragile struct {
	value  int
	breaks int
}

func (p *fragile) ObservingValue() int { return p.value }

func (p *fragile) UpdateValue(v int) error {
	if v == p.breaks {
		panic("fragile: cannot take value")
	}
	p.value = v
	return nil
}

func TestBind_ForwardPanicIsContained(t *testing.T) {
	var panics []*errors.PanicError
	old := errors.DefaultHandler
	errors.SetHandler(&recordingHandler{onPanic: func(err *errors.PanicError) { panics = append(panics, err) }})
	defer errors.SetHandler(old)

	obs := core.NewObservable(1)
	broken := &fragile{breaks: 7}
	if err := New[int](broken).Bind(obs); err != nil {
		t.Fatalf("Bind returned %v", err)
	}
	g := &gauge{}
	g.binder = New[int](g)
	g.binder.Bind(obs)

	obs.Set(7)

	if len(panics) != 1 || panics[0].Op != "bind.forward" {
		t.Fatalf("Expected one bind.forward panic, got %v", panics)
	}
	if g.value != 7 {
		t.Errorf("Expected later listener to still receive 7, got %d", g.value)
	}
	if broken.value != 1 {
		t.Errorf("Expected panicking participant to keep 1, got %d", broken.value)
	}

	obs.Set(8)
	if broken.value != 8 || g.value != 8 {
		t.Errorf("Expected both participants at 8, got %d and %d", broken.value, g.value)
	}
}

func TestBind_ForwardErrorWithHandlerNotReportedGlobally(t *testing.T) {
	var global []*errors.BindError
	old := errors.DefaultHandler
	errors.SetHandler(&recordingHandler{onError: func(err *errors.BindError) { global = append(global, err) }})
	defer errors.SetHandler(old)

	var local []error
	g := &gauge{}
	g.binder = New[int](g, WithErrorHandler[int](func(err error) { local = append(local, err) }))
	obs := core.NewObservable(0)
	g.binder.Bind(obs)
	obs.Set(-1)

	if len(local) != 1 || len(global) != 0 {
		t.Errorf("Expected only the binder handler to see the error, got local=%d global=%d", len(local), len(global))
	}
}

func TestBinder_UnboundSlot(t *testing.T) {
	f := newField("local")

	if _, ok := f.binder.Value(); ok {
		t.Error("Expected unbound slot to hold no value")
	}
	f.binder.SetValue("kept")
	if v, ok := f.binder.Value(); !ok || v != "kept" {
		t.Errorf("Expected (kept, true), got (%q, %v)", v, ok)
	}
	if f.binder.Observable() != f.binder.Observable() {
		t.Error("Expected the lazily created slot to be reused")
	}
}

func TestBinder_RegisterDoesNotSync(t *testing.T) {
	f := newField("native")
	obs := core.NewObservable("held")

	f.binder.Register(obs)

	if f.text != "native" {
		t.Errorf("Register should not pull, got %q", f.text)
	}
	if obs.ListenerCount() != 0 {
		t.Errorf("Register should not subscribe, got %d listeners", obs.ListenerCount())
	}
	if v, _ := f.binder.Value(); v != "held" {
		t.Errorf("Expected slot value %q, got %q", "held", v)
	}
}

func TestBinder_ClearValue(t *testing.T) {
	f := newField("")
	obs := core.NewObservable("v")
	f.binder.Bind(obs)

	if !f.binder.ClearValue() {
		t.Fatal("Expected core.Observable to support Clear")
	}
	if _, ok := obs.Lookup(); ok {
		t.Error("Expected observable to be empty")
	}
}

func TestBinder_Dispose(t *testing.T) {
	f := newField("")
	obs := newSpy("v")
	f.binder.Bind(obs)

	f.binder.Dispose()
	f.binder.Dispose()

	obs.Set("after")
	if f.text != "v" {
		t.Errorf("Expected no forward push after dispose, got %q", f.text)
	}
	sets := len(obs.sets)
	f.typeText("edit")
	if len(obs.sets) != sets {
		t.Error("Expected no reverse push after dispose")
	}
	if err := f.binder.Bind(obs); !errors.Is(err, ErrDisposed) {
		t.Errorf("Expected ErrDisposed, got %v", err)
	}
}

func TestBindScoped(t *testing.T) {
	scope := &core.StateBase{}
	f := newField("")
	obs := core.NewObservable("scoped")

	if err := BindScoped(scope, f.binder, obs); err != nil {
		t.Fatalf("BindScoped returned %v", err)
	}
	if f.text != "scoped" {
		t.Errorf("Expected %q, got %q", "scoped", f.text)
	}

	scope.Dispose()

	if obs.ListenerCount() != 0 {
		t.Errorf("Expected subscription released with scope, got %d", obs.ListenerCount())
	}
}

func TestFuncsParticipantWithoutNativeSignal(t *testing.T) {
	value := 0
	p := Funcs[int]{
		Get: func() int { return value },
		Set: func(v int) error { value = v; return nil },
	}
	b := New[int](p)
	obs := core.NewObservable(7)
	b.Bind(obs)

	value = 8
	if !b.ValueChanged() {
		t.Error("Expected direct ValueChanged to push")
	}
	if obs.Value() != 8 {
		t.Errorf("Expected 8, got %d", obs.Value())
	}
}

type recordingHandler struct {
	onError func(*errors.BindError)
	onPanic func(*errors.PanicError)
}

func (h *recordingHandler) HandleError(err *errors.BindError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *recordingHandler) HandlePanic(err *errors.PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}
