// Package dag provides a small, generic directed graph keyed by string IDs,
// used to order modules inside an application and applications inside a
// system.
//
// Unlike a plain map-backed graph, every node remembers the position at which
// it was added. Iteration, cycle reports and topological sorting all use that
// position to break ties, so the same input always yields the same order. The
// resulting order becomes the literal command sequence sent to operational
// tooling and has to be reproducible.
package dag
