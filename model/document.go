package model

import "strings"

// Document is a flexible map representing a JSON document.
// The "_id" attribute is the only required field: a non-empty string that is
// unique within its index. All other fields are schemaless and accessed by
// their string keys, e.g. doc["title"].
type Document map[string]interface{}

// GetID returns the external id stored under the "_id" key.
func (d Document) GetID() (string, bool) {
	if id, ok := d["_id"]; ok {
		if str, sok := id.(string); sok && str != "" {
			return str, true
		}
	}
	return "", false
}

// Lookup resolves a dot-notation path ("a.b.c") against the document.
// A missing segment or a non-object intermediate resolves to nil, which
// callers treat the same way as JSON null.
func (d Document) Lookup(path string) interface{} {
	var curr interface{} = map[string]interface{}(d)
	for _, key := range strings.Split(path, ".") {
		obj, ok := curr.(map[string]interface{})
		if !ok {
			return nil
		}
		curr = obj[key]
	}
	return curr
}
