// Package class holds the class registry the object model reads from.
//
// Definitions are collected with a Builder and frozen by Build, which
// checks that parents and interfaces exist, rejects inheritance cycles and
// precomputes inherited property lists. The resulting Registry is
// read-only and shared by every request of an engine.
package class
