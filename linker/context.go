package linker

import "sync"

// Context is a class-lookup scope: a boot context has no parent, and any
// number of child contexts may be layered on top of it or each other.
// find walks from the context itself up through its parent chain
// (spec.md §4.8, "find_loaded_class... walks up the context chain until
// found or exhausted"); a guarded map stands in for the
// readers-writer-guarded lookup table the original keeps per context.
type Context struct {
	parent *Context

	mu      sync.RWMutex
	classes map[string]*Class
}

// NewBootContext returns a context with no parent.
func NewBootContext() *Context {
	return &Context{classes: make(map[string]*Class)}
}

// NewChildContext returns a context chained beneath parent; parent == nil
// is equivalent to chaining beneath a fresh boot context.
func NewChildContext(parent *Context) *Context {
	if parent == nil {
		parent = NewBootContext()
	}
	return &Context{parent: parent, classes: make(map[string]*Class)}
}

// find looks up descriptor in c and, on miss, each ancestor in turn.
func (c *Context) find(descriptor string) *Class {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		ctx.mu.RLock()
		cls, ok := ctx.classes[descriptor]
		ctx.mu.RUnlock()
		if ok {
			return cls
		}
	}
	return nil
}

// publish inserts cls under descriptor in c itself (not an ancestor),
// performing the compare-and-swap spec.md §4.8 describes: if another
// resolution already published the same descriptor first, cls is
// discarded and the winner is returned. golang.org/x/sync/singleflight
// already collapses concurrent resolutions of the same (file, class id)
// onto one loader, so the race this guards against is narrower than the
// original's — two distinct loaders racing to publish the same descriptor
// from different class ids, e.g. via two panda files declaring the same
// type — but the CAS is kept regardless since publish is reachable outside
// the singleflight-keyed path too (resolve's recursive base/interface
// calls share the caller's resolving map but not its singleflight key).
func (c *Context) publish(descriptor string, cls *Class) *Class {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.classes[descriptor]; ok {
		return existing
	}
	c.classes[descriptor] = cls
	return cls
}
