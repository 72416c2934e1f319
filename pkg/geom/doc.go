// Package geom defines the integer geometry used by the layout engine.
// Every coordinate is an exact integer in database units (nanometers for
// sky130) so that repeated placement never accumulates rounding error.
package geom
