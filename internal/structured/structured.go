// Package structured locates the embedded JSON-LD block of a page and exposes
// its members without runtime type inspection of decoded values: every shape
// is classified from the raw JSON token kind.
package structured

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Kind classifies the located structured data.
type Kind int

// Structured data shapes.
const (
	KindAbsent Kind = iota // no valid block, or the first one is not an object
	KindObject             // a single JSON object
	KindList               // a JSON array; its first element is used
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindList:
		return "list"
	default:
		return "absent"
	}
}

// Data is the located structured-data block.
type Data struct {
	kind   Kind
	object Object
}

// Absent is the zero Data.
var Absent = Data{}

// Kind reports which shape the block had.
func (d Data) Kind() Kind {
	return d.kind
}

// Object returns the mapping to read fields from. For KindList it is the
// first element of the array.
func (d Data) Object() (Object, bool) {
	if d.kind == KindAbsent {
		return nil, false
	}
	return d.object, true
}

// Locate returns the first syntactically valid block when it is an object, or
// an array whose first element is an object. Malformed blocks are skipped; a
// valid block of any other shape ends the search with Absent.
func Locate(blocks []string) Data {
	for _, block := range blocks {
		raw := bytes.TrimSpace([]byte(block))
		if !json.Valid(raw) {
			continue
		}
		return parseBlock(raw)
	}
	return Absent
}

func parseBlock(raw []byte) Data {
	switch tokenKind(raw) {
	case '{':
		obj, ok := decodeObject(raw)
		if !ok {
			return Absent
		}
		return Data{kind: KindObject, object: obj}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil || len(items) == 0 {
			return Absent
		}
		obj, ok := decodeObject(items[0])
		if !ok {
			return Absent
		}
		return Data{kind: KindList, object: obj}
	default:
		return Absent
	}
}

// Object is a decoded JSON object with members left raw until read.
type Object map[string]json.RawMessage

// Text returns the trimmed member value when it is a non-empty JSON string.
func (o Object) Text(key string) (string, bool) {
	raw, ok := o[key]
	if !ok || tokenKind(raw) != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// FirstText returns the first non-empty string member among keys.
func (o Object) FirstText(keys ...string) (string, bool) {
	for _, k := range keys {
		if s, ok := o.Text(k); ok {
			return s, true
		}
	}
	return "", false
}

// Entity reads a member that may be a string, an object, or an array of either.
// Arrays resolve to their first element.
func (o Object) Entity(key string) Entity {
	raw, ok := o[key]
	if !ok {
		return Entity{}
	}
	return decodeEntity(raw)
}

// EntityKind classifies an Entity.
type EntityKind int

// Entity shapes.
const (
	EntityNone EntityKind = iota
	EntityString
	EntityObject
)

// Entity is a member such as author or publisher.
type Entity struct {
	kind   EntityKind
	text   string
	object Object
}

// Kind reports the entity shape.
func (e Entity) Kind() EntityKind {
	return e.kind
}

// Text returns the value for EntityString.
func (e Entity) Text() (string, bool) {
	if e.kind != EntityString {
		return "", false
	}
	return e.text, true
}

// Object returns the value for EntityObject.
func (e Entity) Object() (Object, bool) {
	if e.kind != EntityObject {
		return nil, false
	}
	return e.object, true
}

func decodeEntity(raw json.RawMessage) Entity {
	raw = bytes.TrimSpace(raw)
	switch tokenKind(raw) {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Entity{}
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return Entity{}
		}
		return Entity{kind: EntityString, text: s}
	case '{':
		obj, ok := decodeObject(raw)
		if !ok {
			return Entity{}
		}
		return Entity{kind: EntityObject, object: obj}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil || len(items) == 0 {
			return Entity{}
		}
		first := bytes.TrimSpace(items[0])
		if tokenKind(first) == '[' {
			return Entity{}
		}
		return decodeEntity(first)
	default:
		return Entity{}
	}
}

func decodeObject(raw []byte) (Object, bool) {
	if tokenKind(bytes.TrimSpace(raw)) != '{' {
		return nil, false
	}
	var obj Object
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}
	return obj, true
}

// tokenKind returns the first byte of a trimmed JSON value, or 0.
func tokenKind(raw []byte) byte {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	return raw[0]
}
