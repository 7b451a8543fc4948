// Package engine contains the simulation: the ledger, the workforce roster, the project
// lifecycle, corporate events and the calendar that drives them.
//
// ARCHITECTURAL RULE: subsystems never call back into the integration layer.
// They append notifications to the EventLog; whoever drives the Engine drains it.
package engine
