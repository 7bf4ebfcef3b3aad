// Package platform provides native-control participants for bindings.
//
// Each view mirrors a control owned by the host UI toolkit. The Go side
// writes into the control through a Host; the host reports user edits back
// through ViewRegistry.HandleValueChanged, which updates the view and fires
// its native edit signal. Every view implements bind.Interactive, so a
// bind.Binder hears those edits and pushes them to the bound observable.
//
//	registry := platform.NewViewRegistry(host)
//	view, _ := registry.Create("switch", map[string]any{"value": false})
//	sw := view.(*platform.SwitchView)
//
//	enabled := core.NewObservable(true)
//	sw.Binder().Bind(enabled) // native switch turns on
//
//	// host reports the user toggling the switch off
//	registry.HandleValueChanged(sw.ViewID(), false) // enabled.Value() == false
//
// Views are updated from the UI thread. Code running elsewhere should hop
// onto it with Dispatch.
package platform
