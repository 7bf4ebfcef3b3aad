package errors

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestBindErrorString(t *testing.T) {
	err := &BindError{
		Op:   "bind.Bind",
		Kind: KindBind,
		Err:  &ParseError{Source: "switch", DataType: "bool", Got: "invalid"},
	}
	got := err.Error()
	if got == "" {
		t.Error("expected non-empty error string")
	}
}

func TestBindErrorWithBinder(t *testing.T) {
	err := &BindError{
		Op:     "bind.forward",
		Kind:   KindTypeMismatch,
		Binder: "7a1c",
		Err:    &TypeMismatchError{Participant: "*platform.SliderView", Value: 2.5},
	}
	got := err.Error()
	want := "binder=7a1c"
	if !strings.Contains(got, want) {
		t.Errorf("error string %q should contain %q", got, want)
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindTypeMismatch, "type_mismatch"},
		{KindBind, "bind"},
		{KindPlatform, "platform"},
		{KindParsing, "parsing"},
		{KindPanic, "panic"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestTypeMismatchMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("update slider: %w", &TypeMismatchError{
		Participant: "*platform.SliderView",
		Value:       7.0,
		Reason:      "outside [0, 1]",
	})
	if !Is(err, ErrTypeMismatch) {
		t.Error("wrapped TypeMismatchError should match ErrTypeMismatch")
	}
	if KindOf(err) != KindTypeMismatch {
		t.Errorf("KindOf = %v, want %v", KindOf(err), KindTypeMismatch)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindUnknown},
		{"plain", New("boom"), KindUnknown},
		{"parse", &ParseError{Source: "textinput", DataType: "string", Got: 1}, KindParsing},
		{"bind error kind", &BindError{Kind: KindPlatform, Err: New("bridge down")}, KindPlatform},
	}
	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("%s: KindOf = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestWrap(t *testing.T) {
	if Wrap("bind.Bind", "id", nil) != nil {
		t.Error("Wrap(nil) should return nil")
	}

	wrapped := Wrap("bind.forward", "id", New("disk full"))
	if wrapped.Kind != KindBind {
		t.Errorf("Kind = %v, want %v", wrapped.Kind, KindBind)
	}
	if wrapped.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}

	mismatch := Wrap("bind.forward", "id", &TypeMismatchError{Participant: "p", Value: 1})
	if mismatch.Kind != KindTypeMismatch {
		t.Errorf("Kind = %v, want %v", mismatch.Kind, KindTypeMismatch)
	}

	if again := Wrap("other", "id", mismatch); again != mismatch {
		t.Error("Wrap should return an existing BindError unchanged")
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{
		Value:     "test panic",
		Timestamp: time.Now(),
	}
	got := err.Error()
	want := "panic: test panic"
	if got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

func TestPanicErrorStringWithOp(t *testing.T) {
	err := &PanicError{
		Op:        "bind.forward",
		Value:     "test panic",
		Timestamp: time.Now(),
	}
	got := err.Error()
	want := "panic in bind.forward: test panic"
	if got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

func TestReport(t *testing.T) {
	var capturedErr *BindError
	handler := &testHandler{
		onError: func(err *BindError) {
			capturedErr = err
		},
	}

	oldHandler := DefaultHandler
	SetHandler(handler)
	defer SetHandler(oldHandler)

	Report(&BindError{
		Op:   "test.op",
		Kind: KindBind,
		Err:  New("boom"),
	})

	if capturedErr == nil {
		t.Fatal("expected error to be captured")
	}
	if capturedErr.Op != "test.op" {
		t.Errorf("Op = %q, want %q", capturedErr.Op, "test.op")
	}
	if capturedErr.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestRecover(t *testing.T) {
	var capturedPanic *PanicError
	handler := &testHandler{
		onPanic: func(err *PanicError) {
			capturedPanic = err
		},
	}

	oldHandler := DefaultHandler
	SetHandler(handler)
	defer SetHandler(oldHandler)

	func() {
		defer Recover("test.recover")
		panic("intentional test panic")
	}()

	if capturedPanic == nil {
		t.Fatal("expected panic to be recovered and captured")
	}
	if capturedPanic.Value != "intentional test panic" {
		t.Errorf("Value = %v, want %q", capturedPanic.Value, "intentional test panic")
	}
	if capturedPanic.Op != "test.recover" {
		t.Errorf("Op = %q, want %q", capturedPanic.Op, "test.recover")
	}
}

func TestRecoverWithCallback(t *testing.T) {
	oldHandler := DefaultHandler
	SetHandler(&testHandler{})
	defer SetHandler(oldHandler)

	var got any
	func() {
		defer RecoverWithCallback("test.callback", func(r any) { got = r })
		panic(42)
	}()

	if got != 42 {
		t.Errorf("callback got %v, want 42", got)
	}
}

func TestCaptureStack(t *testing.T) {
	stack := CaptureStack()
	if stack == "" {
		t.Error("expected non-empty stack trace")
	}
	if !strings.Contains(stack, "testing") && !strings.Contains(stack, "runtime") {
		t.Errorf("stack trace should contain testing or runtime frames, got: %s", stack)
	}
}

func TestSetHandlerNil(t *testing.T) {
	oldHandler := DefaultHandler
	defer SetHandler(oldHandler)

	SetHandler(nil)
	if DefaultHandler == nil {
		t.Error("SetHandler(nil) should set default LogHandler, not nil")
	}
	if _, ok := DefaultHandler.(*LogHandler); !ok {
		t.Errorf("SetHandler(nil) should set LogHandler, got %T", DefaultHandler)
	}
}

type testHandler struct {
	onError func(*BindError)
	onPanic func(*PanicError)
}

func (h *testHandler) HandleError(err *BindError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *testHandler) HandlePanic(err *PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}
