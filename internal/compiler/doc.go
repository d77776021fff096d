/*
Package compiler runs the compilation passes in their fixed order over a
private copy of the input System:

 1. required-connection check
 2. fragment-producer connection
 3. network address allocation and adapter synthesis
 4. endpoint closure verification
 5. application and module dependency resolution
 6. queue inference and command assembly

Compile either returns a complete Plan or an error and nothing else. Dangling
endpoints do not fail compilation; they are collected on Plan.Warnings.
*/
package compiler
