/*
Package resolver derives start and stop orders from the connections of a
deployment.

Inside an application, module A must start before module B when A has a
toposort-eligible connection into one of B's slots. Across the system,
application A must start before application B when a system connection whose
upstream endpoint belongs to A delivers to an endpoint of B.

Both graphs are built on the deterministic dag package and sorted with
Kahn's algorithm, so equal inputs always produce equal orders. A remaining
cycle is a fatal configuration error reported as model.ErrCyclicDependency.
Stop order is always the exact reverse of start order.
*/
package resolver
