package geom

// The Offset functions return the translation that moves r into a
// placement relationship with ref. They never mutate their inputs.

// OffsetRightOf places r to the right of ref with space between them.
func OffsetRightOf(r, ref Rect, space Int) Point {
	return Pt(ref.Right()+space-r.Left(), 0)
}

// OffsetLeftOf places r to the left of ref with space between them.
func OffsetLeftOf(r, ref Rect, space Int) Point {
	return Pt(ref.Left()-space-r.Right(), 0)
}

// OffsetAbove places r above ref with space between them.
func OffsetAbove(r, ref Rect, space Int) Point {
	return Pt(0, ref.Top()+space-r.Bottom())
}

// OffsetBeneath places r below ref with space between them.
func OffsetBeneath(r, ref Rect, space Int) Point {
	return Pt(0, ref.Bottom()-space-r.Top())
}

func OffsetAlignLeft(r, ref Rect) Point   { return Pt(ref.Left()-r.Left(), 0) }
func OffsetAlignRight(r, ref Rect) Point  { return Pt(ref.Right()-r.Right(), 0) }
func OffsetAlignTop(r, ref Rect) Point    { return Pt(0, ref.Top()-r.Top()) }
func OffsetAlignBottom(r, ref Rect) Point { return Pt(0, ref.Bottom()-r.Bottom()) }

// OffsetCentersGridded moves the center of r onto the center of ref,
// rounding each component of the offset to grid.
func OffsetCentersGridded(r, ref Rect, grid Int) Point {
	return Point{
		X: OffsetCentersHorizontallyGridded(r, ref, grid).X,
		Y: OffsetCentersVerticallyGridded(r, ref, grid).Y,
	}
}

// OffsetCentersHorizontallyGridded aligns the X centers only.
func OffsetCentersHorizontallyGridded(r, ref Rect, grid Int) Point {
	return Pt(Round(ref.Center().X-r.Center().X, grid), 0)
}

// OffsetCentersVerticallyGridded aligns the Y centers only.
func OffsetCentersVerticallyGridded(r, ref Rect, grid Int) Point {
	return Pt(0, Round(ref.Center().Y-r.Center().Y, grid))
}
