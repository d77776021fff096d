/*
Package slotid provides a structured representation of the two-part
references used throughout a deployment description.

Inside an application a reference names a module slot, `module.slot`.
At the system level the same shape names an application endpoint,
`app.endpoint`. Both are parsed and formatted here so every pass agrees
on what a valid reference looks like.
*/
package slotid
