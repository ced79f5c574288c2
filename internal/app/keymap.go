package app

import (
	"unicode"

	"golang.org/x/mobile/event/key"
)

const modMask = key.ModShift | key.ModControl | key.ModAlt | key.ModMeta

// KeyShortcut describes a keyboard combination that triggers an action.
// Either Rune or Code is set.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// Keymap binds shortcuts to named actions.
type Keymap struct {
	actions  map[string]func() bool
	bindings map[KeyShortcut]string
	order    []string
}

// NewKeymap returns an empty Keymap.
func NewKeymap() *Keymap {
	return &Keymap{
		actions:  make(map[string]func() bool),
		bindings: make(map[KeyShortcut]string),
	}
}

// Register binds keys to the action name. fn reports whether the action
// changed anything worth repainting.
func (k *Keymap) Register(name string, fn func() bool, keys ...KeyShortcut) {
	if _, ok := k.actions[name]; !ok {
		k.order = append(k.order, name)
	}
	k.actions[name] = fn
	for _, sc := range keys {
		if sc.Rune != 0 {
			sc.Rune = unicode.ToLower(sc.Rune)
		}
		k.bindings[sc] = name
	}
}

// Lookup resolves a key event to an action name. Physical codes win over
// runes; a rune match also tolerates Shift, which some layouts need to type
// the rune at all.
func (k *Keymap) Lookup(e key.Event) (string, bool) {
	mods := e.Modifiers & modMask
	if e.Code != key.CodeUnknown {
		if name, ok := k.bindings[KeyShortcut{Code: e.Code, Modifiers: mods}]; ok {
			return name, true
		}
	}
	if e.Rune <= 0 {
		return "", false
	}
	r := unicode.ToLower(e.Rune)
	if name, ok := k.bindings[KeyShortcut{Rune: r, Modifiers: mods}]; ok {
		return name, true
	}
	name, ok := k.bindings[KeyShortcut{Rune: r, Modifiers: mods &^ key.ModShift}]
	return name, ok
}

// Trigger runs the named action.
func (k *Keymap) Trigger(name string) bool {
	fn, ok := k.actions[name]
	if !ok {
		return false
	}
	return fn()
}

// Actions lists the registered action names in registration order.
func (k *Keymap) Actions() []string {
	return append([]string(nil), k.order...)
}
