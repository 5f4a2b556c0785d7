package config

import (
	"fmt"
	"sort"
	"strings"
)

// Action names one escape command.
type Action string

// Escape commands, in help order.
const (
	ActionShell      Action = "shell"
	ActionMail       Action = "mail"
	ActionEditor     Action = "editor"
	ActionAlternate  Action = "alternate"
	ActionLastTag    Action = "last_tag"
	ActionShowTags   Action = "show_tags"
	ActionNextOpen   Action = "next_open"
	ActionQuit       Action = "quit"
	ActionScreenshot Action = "screenshot"
	ActionRedraw     Action = "redraw"
	ActionLock       Action = "lock"
	ActionScrollUp   Action = "scroll_up"
	ActionScrollDown Action = "scroll_down"
)

var actionOrder = []Action{
	ActionShell, ActionMail, ActionEditor,
	ActionAlternate, ActionLastTag, ActionShowTags, ActionNextOpen,
	ActionQuit, ActionScreenshot, ActionRedraw, ActionLock,
	ActionScrollUp, ActionScrollDown,
}

var actionDescriptions = map[Action]string{
	ActionShell:      "Run the shell in an empty slot",
	ActionMail:       "Run the mail client in an empty slot",
	ActionEditor:     "Run the editor in an empty slot",
	ActionAlternate:  "Toggle the other bank of this tag",
	ActionLastTag:    "Return to the last tag",
	ActionShowTags:   "Show the tag indicator",
	ActionNextOpen:   "Show the next running slot",
	ActionQuit:       "Quit",
	ActionScreenshot: "Save a screenshot",
	ActionRedraw:     "Redraw the screen",
	ActionLock:       "Lock input until the passcode is typed",
	ActionScrollUp:   "Scroll history back half a screen",
	ActionScrollDown: "Scroll history forward half a screen",
}

// Actions returns every escape command in help order.
func Actions() []Action {
	return append([]Action(nil), actionOrder...)
}

// Description returns the help text of an action.
func (a Action) Description() string {
	return actionDescriptions[a]
}

func defaultCommands() map[string][]string {
	return map[string][]string{
		string(ActionShell):      {"c"},
		string(ActionMail):       {"m"},
		string(ActionEditor):     {"e"},
		string(ActionAlternate):  {"j", "k"},
		string(ActionLastTag):    {"o"},
		string(ActionShowTags):   {"p"},
		string(ActionNextOpen):   {"tab"},
		string(ActionQuit):       {"ctrl+q"},
		string(ActionScreenshot): {"s"},
		string(ActionRedraw):     {"y"},
		string(ActionLock):       {"ctrl+l"},
		string(ActionScrollUp):   {","},
		string(ActionScrollDown): {"."},
	}
}

var namedKeys = map[string]byte{
	"tab":       '\t',
	"enter":     '\r',
	"esc":       0x1b,
	"escape":    0x1b,
	"space":     ' ',
	"backspace": 0x7f,
}

// ParseKey converts a key name to the byte the console sends for it.
// Accepted forms are a single character, a named key (tab, enter, esc,
// space, backspace) and ctrl+<letter>.
func ParseKey(name string) (byte, error) {
	if len(name) == 1 {
		return name[0], nil
	}
	lower := strings.ToLower(name)
	if b, ok := namedKeys[lower]; ok {
		return b, nil
	}
	if rest, ok := strings.CutPrefix(lower, "ctrl+"); ok && len(rest) == 1 {
		c := rest[0]
		switch {
		case c >= 'a' && c <= 'z':
			return c - 'a' + 1, nil
		case c == '[':
			return 0x1b, nil
		case c == '@' || c == ' ':
			return 0, nil
		}
	}
	return 0, fmt.Errorf("unknown key %q", name)
}

// KeyName is the inverse of ParseKey, used for display.
func KeyName(b byte) string {
	switch b {
	case '\t':
		return "Tab"
	case '\r':
		return "Enter"
	case 0x1b:
		return "Esc"
	case ' ':
		return "Space"
	case 0x7f:
		return "Backspace"
	}
	if b >= 1 && b <= 26 {
		return "Ctrl+" + string(rune('A'+b-1))
	}
	return string(rune(b))
}

// CommandTable resolves the byte following the escape key to an action.
type CommandTable struct {
	escape  byte
	byKey   map[byte]Action
	byValue map[Action][]byte
}

// NewCommandTable builds the table from the user's configuration. Unknown
// actions and unparsable keys are reported as errors.
func NewCommandTable(cfg *UserConfig) (*CommandTable, error) {
	escape, err := ParseKey(cfg.Input.Escape)
	if err != nil {
		return nil, fmt.Errorf("escape key: %w", err)
	}
	ct := &CommandTable{
		escape:  escape,
		byKey:   make(map[byte]Action),
		byValue: make(map[Action][]byte),
	}

	names := make([]string, 0, len(cfg.Input.Commands))
	for name := range cfg.Input.Commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		action := Action(name)
		if _, ok := actionDescriptions[action]; !ok {
			return nil, fmt.Errorf("unknown command %q", name)
		}
		for _, key := range cfg.Input.Commands[name] {
			b, err := ParseKey(key)
			if err != nil {
				return nil, fmt.Errorf("command %s: %w", name, err)
			}
			if prev, dup := ct.byKey[b]; dup && prev != action {
				return nil, fmt.Errorf("key %s bound to both %s and %s", KeyName(b), prev, action)
			}
			ct.byKey[b] = action
			ct.byValue[action] = append(ct.byValue[action], b)
		}
	}
	return ct, nil
}

// Escape returns the escape byte.
func (ct *CommandTable) Escape() byte { return ct.escape }

// Lookup returns the action bound to b.
func (ct *CommandTable) Lookup(b byte) (Action, bool) {
	a, ok := ct.byKey[b]
	return a, ok
}

// Keys returns the display form of the keys bound to an action.
func (ct *CommandTable) Keys(a Action) string {
	keys := ct.byValue[a]
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = KeyName(k)
	}
	return strings.Join(names, ", ")
}

// Keybinding represents a single help entry
type Keybinding struct {
	Key         string
	Description string
}

// GetKeybindings returns the help entries for every bound action, prefixed
// with the escape key, followed by the tag label entry.
func GetKeybindings(ct *CommandTable, labels string) []Keybinding {
	prefix := KeyName(ct.escape) + " "
	var out []Keybinding
	for _, a := range actionOrder {
		keys := ct.Keys(a)
		if keys == "" {
			continue
		}
		out = append(out, Keybinding{Key: prefix + keys, Description: a.Description()})
	}
	out = append(out, Keybinding{Key: prefix + "<tag>", Description: "Show tag (" + labels + ")"})
	return out
}
