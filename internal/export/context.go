// Package export walks a contents tree against a tabular data source and
// streams the resulting Realm Works export document.
package export

import (
	"fmt"

	"github.com/realmforge/rwgen/internal/structure"
)

// Context carries the per-run collaborators and the warning sink. A fresh
// Context is built for every Generate call, so warnings never leak
// between runs.
type Context struct {
	Domains *structure.DomainRegistry
	Assets  *AssetResolver

	// Progress, when set, is called once per emitted body row so a host
	// UI can repaint. done counts rows processed so far.
	Progress func(done, total int)

	warnings []string
	seen     map[string]struct{}
}

func NewContext(domains *structure.DomainRegistry, assets *AssetResolver) *Context {
	return &Context{
		Domains: domains,
		Assets:  assets,
		seen:    map[string]struct{}{},
	}
}

// Warnf records a generation-data warning. Warnings are never fatal;
// identical messages are stored once.
func (c *Context) Warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if _, dup := c.seen[msg]; dup {
		return
	}
	c.seen[msg] = struct{}{}
	c.warnings = append(c.warnings, msg)
}

// Warnings returns the collected messages in first-seen order.
func (c *Context) Warnings() []string {
	return append([]string(nil), c.warnings...)
}

func (c *Context) progress(done, total int) {
	if c.Progress != nil {
		c.Progress(done, total)
	}
}
