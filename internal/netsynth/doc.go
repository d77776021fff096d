/*
Package netsynth turns system connections that cross application boundaries
into adapter modules with concrete transport addresses.

Synthesis runs in two phases. AllocateAddresses walks the system connections
that cross applications, sorted by upstream endpoint name, and hands out one
address per connection.
Synthesize then runs once per application: the sending side gets a
QueueToNetwork adapter that the internal module's output slot is redirected
to, and every receiving side gets a NetworkToQueue adapter feeding the
internal input slot. Afterwards no module connection refers to another
application.

VerifyClosure is a separate pass that reports endpoints no system connection
resolves (as warnings) and module connections that leave the application
(as errors).
*/
package netsynth
