// Package hardware is the base package for the serial bus side of the
// adapter. Its sub-packages contain everything needed to run bus
// transactions without any host transport attached.
//
// The iec package is the protocol engine proper. The bus package defines the
// line model the engine drives, with the simbus and drive packages providing
// a simulated bus and a simulated device for testing and for the workbench
// modes of the main program. The dispatch package sits above the engine and
// runs the host-facing command state machine.
package hardware
