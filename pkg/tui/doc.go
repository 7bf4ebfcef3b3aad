// Package tui provides terminal participants built on bubbletea.
//
// TextInput binds strings and Toggle binds bools. Both report key presses
// that change their value as native edits. Form lays them out, moves focus
// between them, and runs DispatchMsg callbacks so other goroutines can hop
// onto the UI loop through platform.RegisterDispatch.
package tui
