// Package object implements the object model: reference objects created by
// new, value-semantics structs, schemaless object maps, and property access
// on all three.
//
// An Object value is a pointer to a separate payload slot, so copies of an
// object handle alias one body and property writes are visible through every
// copy. Struct and ObjectMap values carry their body directly and are
// replaced on write, leaving other handles that shared the old body as they
// were.
//
// Declared properties come from a phpcore.ClassLookup, normally the
// *class.Registry of a runtime engine. Writing an undeclared property fails
// unless the class allows dynamic properties; stdClass always does.
package object
