// Package browser launches the Chromium instance pages are rendered in.
package browser

import (
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Config controls how the browser is launched.
type Config struct {
	ProxyURL string
	// Headless hides the browser window. The CLI clears it for --showui.
	Headless bool
}

// Browser wraps a rod.Browser and the launcher that started it.
type Browser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	proxyURL string
}

// New launches a browser and connects to it.
func New(cfg Config) (*Browser, error) {
	l := launcher.New().Headless(cfg.Headless)
	if cfg.ProxyURL != "" {
		l = l.Proxy(cfg.ProxyURL)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &Browser{
		browser:  b,
		launcher: l,
		proxyURL: cfg.ProxyURL,
	}, nil
}

// ProxyURL returns the proxy the browser was launched with.
func (b *Browser) ProxyURL() string {
	return b.proxyURL
}

// NewPage opens a blank tab.
func (b *Browser) NewPage() (*rod.Page, error) {
	page, err := b.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	return page, nil
}

// Close closes the browser and kills the launched process.
func (b *Browser) Close() error {
	var err error
	if b.browser != nil {
		err = b.browser.Close()
	}
	if b.launcher != nil {
		b.launcher.Kill()
	}
	return err
}
