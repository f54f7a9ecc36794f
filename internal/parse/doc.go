// Package parse extracts values from GDB console output.
//
// The GDB console is meant for humans: there is no framing, no structured
// acknowledgement, and the shape of a reply depends on the command that
// produced it. This package scrapes the handful of patterns the flashing
// protocol depends on:
//
//   - memory write confirmations: "(0x200b76a8 to 0x200c76a8)"
//   - value history lines from call/print: "$12 = 8228421"
//
// These patterns are an external contract with the GDB version in use, not
// something this package can guarantee across tool upgrades. Integration
// setups should pin the GDB version they were validated against.
package parse
