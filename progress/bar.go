package progress

import (
	"fmt"
	"math"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/term"

	"github.com/Danpythonman/llm-tokenizer/format"
)

type Stats struct {
	rate      int64
	value     int64
	remaining time.Duration
}

// Bar counts completed units of work, such as learned merges, toward
// maxValue. Set may be called from any goroutine.
type Bar struct {
	message      string
	messageWidth int

	maxValue     int64
	initialValue int64
	currentValue atomic.Int64

	started time.Time

	stats   Stats
	statted time.Time
}

func NewBar(message string, maxValue, initialValue int64) *Bar {
	b := &Bar{
		message:      message,
		messageWidth: -1,
		maxValue:     maxValue,
		initialValue: initialValue,
		started:      time.Now(),
	}

	b.Set(initialValue)
	return b
}

// formatDuration limits the rendering of a time.Duration to 2 units
func formatDuration(d time.Duration) string {
	if d >= 100*time.Hour {
		return "99h+"
	}

	if d >= time.Hour {
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}

	return d.Round(time.Second).String()
}

func (b *Bar) String() string {
	termWidth, _, err := term.GetSize(int(os.Stderr.Fd()))
	if err != nil {
		termWidth = defaultTermWidth
	}

	var pre, mid, suf strings.Builder

	if b.message != "" {
		message := strings.TrimSpace(b.message)
		if b.messageWidth > 0 && len(message) > b.messageWidth {
			message = message[:b.messageWidth]
		}

		fmt.Fprintf(&pre, "%s", message)
		if b.messageWidth-pre.Len() >= 0 {
			pre.WriteString(strings.Repeat(" ", b.messageWidth-pre.Len()))
		}

		pre.WriteString(" ")
	}

	current := b.currentValue.Load()
	fmt.Fprintf(&pre, "%3.0f%% ", math.Floor(b.percent()))

	fmt.Fprintf(&suf, "(%s/%s", format.HumanNumber(uint64(current)), format.HumanNumber(uint64(b.maxValue)))

	stats := b.Stats()
	if stats.value > b.initialValue && stats.value < b.maxValue {
		fmt.Fprintf(&suf, ", %s/s", format.HumanNumber(uint64(stats.rate)))
	}

	fmt.Fprintf(&suf, ")")

	elapsed := time.Since(b.started)
	var timing string
	if stats.value > b.initialValue && stats.value < b.maxValue {
		timing = fmt.Sprintf("[%s:%s]", formatDuration(elapsed), formatDuration(stats.remaining))
	}

	// 32 is the maximum width for the stats on the right of the bar
	if n := 32 - suf.Len() - len(timing); n > 0 {
		suf.WriteString(strings.Repeat(" ", n))
	}

	suf.WriteString(timing)

	// add 3 extra spaces: 2 boundary characters and 1 space at the end
	f := termWidth - pre.Len() - suf.Len() - 3
	n := int(float64(f) * b.percent() / 100)

	if f > 0 {
		mid.WriteString("▕")
		mid.WriteString(strings.Repeat("█", n))
		if f-n > 0 {
			mid.WriteString(strings.Repeat(" ", f-n))
		}
		mid.WriteString("▏")
	}

	return pre.String() + mid.String() + suf.String()
}

// Set records value as done, clamped to the bar's maximum.
func (b *Bar) Set(value int64) {
	b.currentValue.Store(min(value, b.maxValue))
}

func (b *Bar) percent() float64 {
	if b.maxValue > 0 {
		return float64(b.currentValue.Load()) / float64(b.maxValue) * 100
	}

	return 0
}

// Stats samples the rate of progress at most once a second.
func (b *Bar) Stats() Stats {
	if time.Since(b.statted) < time.Second {
		return b.stats
	}

	current := b.currentValue.Load()
	switch {
	case b.statted.IsZero():
		b.stats = Stats{value: b.initialValue}
	case current >= b.maxValue:
		b.stats = Stats{value: b.maxValue}
	default:
		rate := current - b.stats.value
		remaining := time.Duration(math.MaxInt64)
		if rate > 0 {
			remaining = time.Second * time.Duration(float64(b.maxValue-current)/float64(rate))
		}

		b.stats = Stats{
			value:     current,
			rate:      rate,
			remaining: remaining,
		}
	}

	b.statted = time.Now()

	return b.stats
}
