// Package graph provides the persisted JSON format for pedigree documents.
//
// This package defines the canonical wire format for saved pedigrees, used
// for document files, the HTTP API, caching and the live websocket feed.
//
// # Architecture
//
// The package sits at the serialization boundary between the in-memory
// document and external files:
//
//   - [File], [Node], [Edge]: Serialization types (this package)
//   - pkg/pedigree.Document: Internal document representation
//
// Use [FromDocument]/[ToDocument] to convert between them, and [Decode] or
// [Read] to parse untrusted input with full validation.
//
// # Format
//
// Documents use a node-link JSON format with an explicit version:
//
//	{
//	  "version": 1,
//	  "nodes": [{
//	    "id": "node_0", "type": "male",
//	    "position": {"x": 100, "y": 100},
//	    "data": {"label": "Male", "isAffected": false, "isCarrier": false,
//	             "isDeceased": false, "isProband": true},
//	    "style": {"width": 50, "height": 50}
//	  }],
//	  "edges": [{
//	    "id": "edge_1", "source": "node_0", "sourceHandle": "b",
//	    "target": "node_2", "targetHandle": "t", "type": "smoothstep",
//	    "style": {"strokeWidth": 2, "stroke": "#333333", "strokeDasharray": "5,5"}
//	  }],
//	  "viewport": {"x": 0, "y": 0, "zoom": 1}
//	}
//
// Edge type "consanguineous" marks a double line; a non-empty dash array
// marks an uncertain relationship. Selection state is never written.
//
// Common operations:
//
//	doc, _ := graph.ReadFile("family.json")    // File → Document
//	graph.WriteFile(doc, "family.json")        // Document → File
//	data, _ := graph.Marshal(doc)              // Document → []byte
//	doc, _ = graph.Decode(data)                // []byte → Document
//
// # Defaults
//
// Omitted fields take defaults on read: version 1, handles b→t, stroke
// width 2, stroke #333333, viewport {0, 0, 1}. Node sizes are recomputed
// from the kind so that hand-edited files cannot distort symbols.
//
// # Errors
//
// All errors carry a code from pkg/errors:
//
//	INVALID_FORMAT       input is not JSON
//	INVALID_STRUCTURE    nodes or edges missing or not arrays
//	UNSUPPORTED_VERSION  version newer than [Version]
//	INVALID_DOCUMENT     bad field values, duplicate ids, dangling edges,
//	                     more than one proband
//	IO_ERROR             file or stream failures
package graph
