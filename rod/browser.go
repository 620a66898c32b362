package rod

import (
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultRecycleAfter is the number of rendered pages after which the
// browser process is replaced. Long-lived Chrome processes grow steadily.
const DefaultRecycleAfter = 75

// browser owns one headless Chrome process and swaps it for a fresh one
// every recycleAfter pages.
type browser struct {
	mu           sync.Mutex
	current      *rod.Browser
	launcher     *launcher.Launcher
	rendered     int
	recycleAfter int
}

func newBrowser(recycleAfter int) (*browser, error) {
	b := &browser{recycleAfter: recycleAfter}
	if err := b.launch(); err != nil {
		return nil, err
	}
	return b, nil
}

// acquire returns the browser to render the next page on. A launch
// failure during recycling keeps the old process.
func (b *browser) acquire() *rod.Browser {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.recycleAfter > 0 && b.rendered >= b.recycleAfter {
		old, oldLauncher := b.current, b.launcher
		if err := b.launch(); err == nil {
			_ = old.Close()
			oldLauncher.Kill()
			b.rendered = 0
		}
	}
	b.rendered++
	return b.current
}

func (b *browser) pid() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.launcher == nil {
		return 0
	}
	return b.launcher.PID()
}

func (b *browser) close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var err error
	if b.current != nil {
		err = b.current.Close()
		b.current = nil
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher = nil
	}
	return err
}

// launch must be called with mu held (or before b is shared).
func (b *browser) launch() error {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	rb := rod.New().ControlURL(u)
	if err := rb.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	b.current = rb
	b.launcher = l
	return nil
}
