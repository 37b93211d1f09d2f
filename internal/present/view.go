// Package present holds the view model of a rendered page and writes it to
// JSON or to a terminal.
package present

// State is the display state of a page.
type State string

const (
	// StatePrompt asks the user for input before anything is fetched.
	StatePrompt State = "prompt"
	// StateEmpty means the fetch ran but produced no rows.
	StateEmpty   State = "empty"
	StateSuccess State = "success"
	// StateError means the page could not be built, e.g. a missing watchlist.
	StateError State = "error"
)

// Level is the severity of a notice.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a message shown above the page content.
type Notice struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Notices collects messages while a page renders. A *Notices can be handed to
// the fetch layer as its warning sink.
type Notices []Notice

func (n *Notices) add(l Level, msg string) { *n = append(*n, Notice{Level: l, Text: msg}) }

func (n *Notices) Info(msg string)    { n.add(LevelInfo, msg) }
func (n *Notices) Success(msg string) { n.add(LevelSuccess, msg) }
func (n *Notices) Warn(msg string)    { n.add(LevelWarning, msg) }
func (n *Notices) Error(msg string)   { n.add(LevelError, msg) }

// Has reports whether any notice has level l.
func (n Notices) Has(l Level) bool {
	for _, x := range n {
		if x.Level == l {
			return true
		}
	}
	return false
}

// View is one rendered page. It is rebuilt from scratch on every render.
type View struct {
	Page    string  `json:"page"`
	Title   string  `json:"title"`
	State   State   `json:"state"`
	Notices Notices `json:"notices"`
	Grid    *Grid   `json:"grid,omitempty"`
	Charts  []Chart `json:"charts,omitempty"`
}
