// Package gate draws static CMOS logic gates from the MOS generator.
//
// Every gate exposes inputs A, B and C (as many as it has), output Y and
// supplies VDD and VSS. Inputs carry both the poly finger and the local
// interconnect of its gate contact; the output and supplies are on local
// interconnect.
package gate
