// Package route draws wires. A Grid describes periodic routing tracks; a
// Router accumulates Traces, each a chain of rectangles on the routing
// metals joined by vias, into one scratch cell.
package route
