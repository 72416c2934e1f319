// Package pdk generates process primitives from a validated rule deck:
// contact and via arrays, and MOS transistor stacks.
//
// A Pdk is created once per run and shared by pointer. Generated contact
// cells are memoized by their parameters; equal parameters always yield
// the same *layout.Cell.
package pdk
