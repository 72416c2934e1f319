// Package array composes cells into one-dimensional arrays and
// two-dimensional grids. Grids are validated in full before anything is
// placed: every occupied entry of a row shares the row's height and every
// occupied entry of a column shares the column's width.
package array
