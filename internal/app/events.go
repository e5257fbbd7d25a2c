package app

import (
	"bytes"
	"encoding/json"

	"go.trai.ch/dexmgr/internal/core/domain"
	"go.trai.ch/zerr"
)

// EventType names the kind of a watch input event.
type EventType string

const (
	// EventLoad reports dex files loaded by a package.
	EventLoad EventType = "load"
	// EventInstalled reports a package installed for a user.
	EventInstalled EventType = "installed"
)

// Event is one JSON line of watch input.
//
//	{"type":"load","package":"com.example","user":0,"isa":"arm64","paths":["/data/user/0/com.example/code.dex"]}
//	{"type":"installed","user":10,"app":{"name":"com.example","sourceDir":"/data/app/com.example/base.apk",...}}
type Event struct {
	Type EventType `json:"type"`
	LoadEvent
	App *domain.AppInfo `json:"app,omitempty"`
}

// DecodeEvent parses and validates one line of watch input.
func DecodeEvent(line []byte) (Event, error) {
	var event Event
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&event); err != nil {
		return Event{}, zerr.Wrap(err, domain.ErrInvalidLoadEvent.Error())
	}

	switch event.Type {
	case EventLoad:
		if event.Package == "" {
			return Event{}, invalidEvent("load event without package")
		}
		if event.ISA == "" {
			return Event{}, invalidEvent("load event without isa")
		}
		if len(event.Paths) == 0 {
			return Event{}, invalidEvent("load event without paths")
		}
	case EventInstalled:
		if event.App == nil || event.App.PackageName == "" {
			return Event{}, invalidEvent("installed event without app")
		}
	default:
		return Event{}, zerr.With(invalidEvent("unknown event type"), "type", string(event.Type))
	}
	return event, nil
}

func invalidEvent(msg string) error {
	return zerr.Wrap(domain.ErrInvalidLoadEvent, msg)
}
