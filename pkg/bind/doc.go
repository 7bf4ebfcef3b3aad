// Package bind implements two-way binding between an observable value and a
// participant that can report and adopt values of the same type.
//
// A participant implements Bindable: ObservingValue reads its native state
// and UpdateValue writes into it. Participants that know when a user edited
// them also implement Interactive, which lets the binder hear those edits.
//
// Each participant holds its own Binder as a field. The binder is the
// participant's binding slot: it remembers the one Observable the participant
// is bound to and runs propagation in both directions.
//
//	type nameField struct {
//	    text   string
//	    binder *bind.Binder[string]
//	}
//
//	func newNameField() *nameField {
//	    f := &nameField{}
//	    f.binder = bind.New[string](f)
//	    return f
//	}
//
//	func (f *nameField) ObservingValue() string         { return f.text }
//	func (f *nameField) UpdateValue(v string) error     { f.text = v; return nil }
//
//	name := core.NewObservable("gopher")
//	err := f.binder.Bind(name) // f.text == "gopher"
//
// Bind hooks native edits once, stores the observable, pulls its current
// value into the participant when one is present, and subscribes to future
// changes. A native edit calls ValueChanged, which pushes the participant's
// value back only when it differs from the observable's value under the
// binder's equality. That equality gate is what stops the
// observable -> participant -> observable round trip from looping.
//
// Binders are not safe for concurrent use. Drive them from the goroutine that
// owns the participant (the UI loop); hop there with platform.Dispatch.
package bind
