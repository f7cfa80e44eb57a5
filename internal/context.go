package internal

// Context is a value provided by an owner to itself and its descendants.
type Context struct {
	rt *Runtime

	defaultValue any
}

func (r *Runtime) NewContext(defaultValue any) *Context {
	return &Context{
		rt:           r,
		defaultValue: defaultValue,
	}
}

// Value looks the context up from the current owner to the root,
// falling back to the default value.
func (c *Context) Value() any {
	for owner := c.rt.CurrentOwner(); owner != nil; owner = owner.parent {
		if v, ok := owner.context[c]; ok {
			return v
		}
	}

	return c.defaultValue
}

// Set provides value on the current owner. No-op outside of an owner.
func (c *Context) Set(value any) {
	owner := c.rt.CurrentOwner()
	if owner == nil {
		c.rt.logger.Debug("context set skipped, no current owner")
		return
	}

	owner.context[c] = value
}
