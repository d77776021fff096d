/*
Package commands assembles the per-application command data and the
system-level descriptors handed to run control.

Each application walks a small state machine driven by seven verbs:

	init   Uninitialized -> Initialized
	conf   Initialized   -> Configured
	start  Configured    -> Running
	stop   Running       -> Configured
	pause  Running       -> Paused
	resume Paused        -> Running
	scrap  Configured    -> Initialized

Scrapped and Terminated are reported by the runtime and never entered by a
verb. scrap returns to Initialized so an application can be re-configured
without a reboot.

AssembleApp validates the application (connection targets, start-order
cycles, queue conflicts) before it produces any command, so a failing
application never yields partial command data.
*/
package commands
