package parallel

// bandsPerWorker oversubscribes the pool so that stealing can balance
// rows of uneven cost.
const bandsPerWorker = 4

// Band is a half-open range of rows [Y0, Y1).
type Band struct {
	Y0, Y1 int
}

// Rows returns the number of rows in the band.
func (b Band) Rows() int {
	return b.Y1 - b.Y0
}

// Bands splits [y0, y1) into at most n contiguous bands of near-equal
// height. Earlier bands get the extra rows. An empty range yields nil.
func Bands(y0, y1, n int) []Band {
	rows := y1 - y0
	if rows <= 0 {
		return nil
	}
	n = min(max(n, 1), rows)

	bands := make([]Band, n)
	base, extra := rows/n, rows%n
	y := y0
	for i := range bands {
		h := base
		if i < extra {
			h++
		}
		bands[i] = Band{Y0: y, Y1: y + h}
		y += h
	}
	return bands
}

// ForBands runs fn once per band of [y0, y1) and waits for all of them.
// Bands never overlap, so fn may write per-row state without locking.
func (p *WorkerPool) ForBands(y0, y1 int, fn func(Band)) {
	bands := Bands(y0, y1, p.workers*bandsPerWorker)
	work := make([]func(), len(bands))
	for i, b := range bands {
		work[i] = func() { fn(b) }
	}
	p.ExecuteAll(work)
}
