package trace

import (
	"fmt"
	"strings"
)

// Level is the verbosity of tracing.
type Level uint8

const (
	LevelOff    Level = iota // nothing
	LevelError               // only KindError events
	LevelPhase               // + ScopeDriver
	LevelDetail              // + ScopeFile
	LevelDebug               // + ScopeToken
)

var levelNames = [...]string{
	LevelOff:    "off",
	LevelError:  "error",
	LevelPhase:  "phase",
	LevelDetail: "detail",
	LevelDebug:  "debug",
}

// widest scope each level lets through; 0 - никакой
var levelScope = [...]Scope{
	LevelPhase:  ScopeDriver,
	LevelDetail: ScopeFile,
	LevelDebug:  ScopeToken,
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts off|error|phase|detail|debug; the empty string means off.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LevelOff, nil
	}
	for l, name := range levelNames {
		if name == s {
			return Level(l), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level %q (expected off|error|phase|detail|debug)", s)
}

// ShouldEmit reports whether an event of kind at scope passes l.
// Errors pass every level except off.
func (l Level) ShouldEmit(kind Kind, scope Scope) bool {
	switch {
	case l == LevelOff:
		return false
	case kind == KindError:
		return true
	case int(l) >= len(levelScope):
		return true
	}
	return scope <= levelScope[l]
}
