package installer

import (
	"time"

	"github.com/ralt/sdkpkg/internal/monitor"
)

const (
	firstUpdateDelay = 2 * time.Second
	updateInterval   = time.Second
)

// downloadProgress reports download progress on a duty cycle: ticks as
// bytes arrive, and a description with the rate and the time left at most
// once per updateInterval after firstUpdateDelay
type downloadProgress struct {
	mon  monitor.Monitor
	desc string
	size int64
	now  func() time.Time

	start   time.Time
	next    time.Time
	inc     int64
	nextInc int64
}

func newDownloadProgress(mon monitor.Monitor, desc string, size int64, now func() time.Time) *downloadProgress {
	start := now()
	inc := size / numMonitorInc
	return &downloadProgress{
		mon:     mon,
		desc:    desc,
		size:    size,
		now:     now,
		start:   start,
		next:    start.Add(firstUpdateDelay),
		inc:     inc,
		nextInc: inc,
	}
}

func (p *downloadProgress) update(total int64) {
	for p.inc > 0 && total >= p.nextInc {
		p.mon.IncProgress(1)
		p.nextInc += p.inc
	}

	t := p.now()
	if !t.After(p.next) {
		return
	}
	delta := t.Sub(p.start)
	if total > 0 && delta > 0 && p.size > 0 {
		percent := 100 * total / p.size
		speed := float64(total) / delta.Seconds() / 1024
		left := 0
		if speed > 1e-3 {
			left = int(float64(p.size-total) / 1024 / speed)
		}
		unit := "seconds"
		if left > 120 {
			unit = "minutes"
			left /= 60
		}
		p.mon.SetDescription("%s (%d%%, %.0f KiB/s, %d %s left)", p.desc, percent, speed, left, unit)
	}
	p.next = t.Add(updateInterval)
}
