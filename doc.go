// FILE: lixenwraith/dataobject/doc.go

// Package dataobject provides a mutable, path-addressable record for
// semi-structured data such as configuration blobs and API payloads.
//
// Features:
//   - Dot-path addressing ("a.b.c") for get, set, has and remove
//   - Auto-vivification of missing intermediate records on write
//   - Strict and Soft read modes to tell "unset" from "set but empty"
//   - Deep merge, flatten, collapse, filter, map, transform and projection
//   - Insertion-ordered records; JSON, YAML, TOML and MessagePack codecs
//   - JSON Patch and Merge Patch, expression filters, digests and diffs
//   - Builder for layering defaults, documents, environment and arguments
//
// Quick Start:
//
//	obj, err := dataobject.Of(map[string]any{
//	    "server": map[string]any{"host": "localhost"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	obj.Set("server.port", 8080)
//	host := obj.GetDefault("server.host", "0.0.0.0")
//	tls := obj.GetMode("server.tls", false, dataobject.Soft)
//
// Path Semantics:
//
// Reads never fail: a missing or non-descendable segment yields the default.
// Writes create missing intermediate records and replace scalars that stand
// in the way. A nested DataObject met during a walk receives the rest of the
// path. Has and Remove try the whole path as a literal top-level key first,
// so keys that contain a dot stay reachable.
//
// Construction:
//
// Of rejects input whose top-level keys are exactly "0".."n-1": a
// DataObject models a record, not a list. Nested values may be lists.
//
// Thread Safety:
// A DataObject performs no locking. Guard shared instances externally.
package dataobject
