// Package codec converts arena values to and from JSON and CBOR.
//
// Arrays keep their insertion order in both directions. A list (keys 0..n-1
// in order) encodes as a JSON array, any other array as a JSON object with
// string keys. Objects, structs and object maps encode as JSON objects.
//
// Decoding maps JSON objects to arrays when Options.Assoc is set and to
// object maps otherwise. Integral numbers that fit in 64 bits become ints,
// everything else a float. Object keys are kept as string keys; "1" does not
// become the integer key 1.
package codec
