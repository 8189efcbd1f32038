package core

import (
	"fmt"
	"sync"
)

// Severity of a diagnostic event
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// EventID identifies a registered diagnostic event
type EventID int

// NoEvent is the zero value of an unregistered event slot
const NoEvent EventID = -1

// Event is a registered diagnostic message
type Event struct {
	ID       EventID
	Severity Severity
	Message  string
}

// EventRegistry holds diagnostic events raised at shade time. Events are
// registered during update and only looked up afterwards.
type EventRegistry struct {
	mu     sync.RWMutex
	events []Event
}

// NewEventRegistry creates an empty registry
func NewEventRegistry() *EventRegistry {
	return &EventRegistry{}
}

// Events is the process-wide registry shared by all material classes
var Events = NewEventRegistry()

// Create registers a new event and returns its id
func (r *EventRegistry) Create(severity Severity, message string) EventID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := EventID(len(r.events))
	r.events = append(r.events, Event{ID: id, Severity: severity, Message: message})
	return id
}

// Lookup returns the event registered under id
func (r *EventRegistry) Lookup(id EventID) (Event, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id < 0 || int(id) >= len(r.events) {
		return Event{}, false
	}
	return r.events[id], true
}

// Len returns the number of registered events
func (r *EventRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.events)
}

// Log writes event id through logger at a level matching its severity
func (r *EventRegistry) Log(logger Logger, source string, id EventID) {
	event, ok := r.Lookup(id)
	if !ok {
		logger.Errorf("%s: unknown event %d", source, id)
		return
	}
	LogSeverity(logger, event.Severity, "%s: %s", source, event.Message)
}

// LogSeverity writes a formatted message at the level matching severity.
// Fatal messages are written at error level with a "fatal:" marker.
func LogSeverity(logger Logger, severity Severity, format string, args ...any) {
	switch severity {
	case SeverityDebug:
		logger.Debugf(format, args...)
	case SeverityInfo:
		logger.Infof(format, args...)
	case SeverityWarn:
		logger.Warnf(format, args...)
	case SeverityFatal:
		logger.Errorf("fatal: "+format, args...)
	default:
		logger.Errorf(format, args...)
	}
}

// EventDef describes one event of a class table
type EventDef struct {
	Key      string
	Severity Severity
	Message  string
}

// ClassEvents is the event table of one material class. The first caller of
// Register writes it; every later caller, from any goroutine, sees the same ids.
type ClassEvents struct {
	once sync.Once
	ids  map[string]EventID
	defs []EventDef
}

// NewClassEvents declares a class table. Nothing is registered until Register.
func NewClassEvents(defs ...EventDef) *ClassEvents {
	return &ClassEvents{defs: defs}
}

// Register writes the table into reg exactly once
func (c *ClassEvents) Register(reg *EventRegistry) {
	c.once.Do(func() {
		c.ids = make(map[string]EventID, len(c.defs))
		for _, def := range c.defs {
			c.ids[def.Key] = reg.Create(def.Severity, def.Message)
		}
	})
}

// ID returns the id registered for key, or NoEvent before Register ran
func (c *ClassEvents) ID(key string) EventID {
	if c.ids == nil {
		return NoEvent
	}
	if id, ok := c.ids[key]; ok {
		return id
	}
	return NoEvent
}
