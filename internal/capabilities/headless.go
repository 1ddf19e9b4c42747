package capabilities

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"
)

// ErrInvalidArgument is returned by backends for out-of-range input.
var ErrInvalidArgument = errors.New("invalid argument")

// Action is one call recorded by the headless backend.
type Action struct {
	Domain string
	Name   string
	Args   []any
	At     time.Time
}

func (a Action) String() string {
	return fmt.Sprintf("%s.%s%v", a.Domain, a.Name, a.Args)
}

// Headless implements every capability without touching the host. Calls are
// logged and recorded in memory.
type Headless struct {
	logger *slog.Logger

	mu      sync.Mutex
	actions []Action
	width   int
	height  int
	volume  float64
	url     string
	status  string
}

// NewHeadless creates a headless backend with a 1920x1080 virtual screen.
func NewHeadless(logger *slog.Logger) *Headless {
	if logger == nil {
		logger = slog.Default()
	}
	return &Headless{
		logger: logger.WithGroup("headless"),
		width:  1920,
		height: 1080,
		volume: 1,
		url:    "about:blank",
	}
}

// Set returns a Set backed entirely by h.
func (h *Headless) Set() Set {
	return Set{
		Input:     h,
		Screen:    h,
		Audio:     h,
		WebDriver: h,
		Interface: h,
	}
}

// Actions returns a copy of the recorded calls.
func (h *Headless) Actions() []Action {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Action, len(h.actions))
	copy(out, h.actions)
	return out
}

// Status returns the last text passed to SetStatus.
func (h *Headless) Status() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

func (h *Headless) record(ctx context.Context, domain, name string, args ...any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	h.actions = append(h.actions, Action{Domain: domain, Name: name, Args: args, At: time.Now()})
	h.mu.Unlock()
	h.logger.Debug("Capability call", "domain", domain, "name", name, "args", args)
	return nil
}

func (h *Headless) KeyPress(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidArgument)
	}
	return h.record(ctx, NameInput, "key_press", key)
}

func (h *Headless) TypeText(ctx context.Context, text string) error {
	return h.record(ctx, NameInput, "type_text", text)
}

func (h *Headless) MouseMove(ctx context.Context, x, y int) error {
	h.mu.Lock()
	w, ht := h.width, h.height
	h.mu.Unlock()
	if x < 0 || y < 0 || x >= w || y >= ht {
		return fmt.Errorf("%w: point (%d, %d) outside %dx%d", ErrInvalidArgument, x, y, w, ht)
	}
	return h.record(ctx, NameInput, "mouse_move", x, y)
}

func (h *Headless) Click(ctx context.Context, button string) error {
	switch button {
	case "left", "right", "middle":
	default:
		return fmt.Errorf("%w: unknown button %q", ErrInvalidArgument, button)
	}
	return h.record(ctx, NameInput, "click", button)
}

func (h *Headless) Size(ctx context.Context) (int, int, error) {
	if err := h.record(ctx, NameScreen, "size"); err != nil {
		return 0, 0, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.width, h.height, nil
}

func (h *Headless) Capture(ctx context.Context, path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidArgument)
	}
	return h.record(ctx, NameScreen, "capture", path)
}

func (h *Headless) Play(ctx context.Context, path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidArgument)
	}
	return h.record(ctx, NameAudio, "play", path)
}

func (h *Headless) SetVolume(ctx context.Context, volume float64) error {
	if volume < 0 || volume > 1 {
		return fmt.Errorf("%w: volume %v not in [0, 1]", ErrInvalidArgument, volume)
	}
	if err := h.record(ctx, NameAudio, "set_volume", volume); err != nil {
		return err
	}
	h.mu.Lock()
	h.volume = volume
	h.mu.Unlock()
	return nil
}

func (h *Headless) Navigate(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" {
		return fmt.Errorf("%w: bad url %q", ErrInvalidArgument, rawURL)
	}
	if err := h.record(ctx, NameWebDriver, "navigate", u.String()); err != nil {
		return err
	}
	h.mu.Lock()
	h.url = u.String()
	h.mu.Unlock()
	return nil
}

func (h *Headless) CurrentURL(ctx context.Context) (string, error) {
	if err := h.record(ctx, NameWebDriver, "current_url"); err != nil {
		return "", err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.url, nil
}

func (h *Headless) Close(ctx context.Context) error {
	if err := h.record(ctx, NameWebDriver, "close"); err != nil {
		return err
	}
	h.mu.Lock()
	h.url = "about:blank"
	h.mu.Unlock()
	return nil
}

func (h *Headless) Notify(ctx context.Context, title, message string) error {
	return h.record(ctx, NameInterface, "notify", title, message)
}

func (h *Headless) SetStatus(ctx context.Context, text string) error {
	if err := h.record(ctx, NameInterface, "set_status", text); err != nil {
		return err
	}
	h.mu.Lock()
	h.status = text
	h.mu.Unlock()
	return nil
}
