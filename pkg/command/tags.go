package command

import (
	"reflect"
	"sync"
)

// A Tag records a descriptive attribute for a handler and returns the handler
// unchanged, so tags stack in any order without altering call behavior:
//
//	ping := command.Desc("Check bot latency")(command.Alias("p")(pingCmd))
//
// Metadata lives in a side table keyed by the handler's code pointer, so each
// registered handler must be a distinct function. Applying the same tag twice
// overwrites the earlier value.
type Tag func(HandlerFunc) HandlerFunc

type metadata struct {
	desc          string
	usage         string
	usageOptional bool
	usageReply    bool
	aliases       []string
}

var (
	tagsMu sync.Mutex
	tags   = make(map[uintptr]*metadata)
)

// Desc sets the description on a handler.
func Desc(desc string) Tag {
	return func(fn HandlerFunc) HandlerFunc {
		tagFor(fn).desc = desc
		return fn
	}
}

// Usage sets the argument usage hint on a handler. optional marks the
// arguments as optional; reply marks the command as accepting a replied-to
// message instead of inline arguments.
func Usage(usage string, optional, reply bool) Tag {
	return func(fn HandlerFunc) HandlerFunc {
		m := tagFor(fn)
		m.usage = usage
		m.usageOptional = optional
		m.usageReply = reply
		return fn
	}
}

// Alias sets the alias list on a handler.
func Alias(aliases ...string) Tag {
	return func(fn HandlerFunc) HandlerFunc {
		tagFor(fn).aliases = aliases
		return fn
	}
}

func fnKey(fn HandlerFunc) uintptr {
	return reflect.ValueOf(fn).Pointer()
}

// tagFor returns the mutable metadata record for fn, creating it on first use.
func tagFor(fn HandlerFunc) *metadata {
	tagsMu.Lock()
	defer tagsMu.Unlock()
	m, ok := tags[fnKey(fn)]
	if !ok {
		m = &metadata{}
		tags[fnKey(fn)] = m
	}
	return m
}

// metadataFor returns a copy of fn's recorded metadata, or zero values when
// nothing was tagged.
func metadataFor(fn HandlerFunc) metadata {
	tagsMu.Lock()
	defer tagsMu.Unlock()
	if m, ok := tags[fnKey(fn)]; ok {
		return *m
	}
	return metadata{}
}
