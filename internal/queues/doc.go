// Package queues infers the concrete queues of one application from its
// module connections.
//
// Every connection `A.out -> B.in` needs a queue. Connections that share an
// endpoint share the queue, so the engine collapses them into one QueueSpec
// and hands each module exactly one attachment per slot and direction. The
// result depends only on module and slot insertion order, which makes Infer
// idempotent and its output stable for diffing.
package queues
