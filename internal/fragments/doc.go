/*
Package fragments wires every fragment producer of the deployment to the
aggregating application.

For each producer outside the aggregator the connector declares a request
input and a fragment output endpoint in the producer's application, the
matching endpoints in the aggregator, and two Sender connections on the
System. The request path is flagged as non-dependency so producers start
before the aggregator without forming a cycle. Queue names are allocated up front in a separate, sorted phase so the
result does not depend on application or producer insertion order.

Connect is idempotent: endpoints are declared strictly, so re-declaring an
identical endpoint is a no-op, and system connections are only added when
absent.
*/
package fragments
