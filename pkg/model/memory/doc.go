// Package memory implements model.Store over in-process documents.
//
// A document lists forms by id; each form carries its instance data, an
// optional OpenAPI 3 schema object used to derive violations, and optional
// explicit violations:
//
//	forms:
//	  person:
//	    data:
//	      name: Ada
//	      phones: ["555-0100", "555-0199"]
//	    schema:
//	      type: object
//	      required: [email]
//	    violations:
//	      - path: /name
//	        message: already taken
//
// Values are addressed by slash separated paths; array members use their
// zero-based index as a segment ("/phones/1").
package memory
