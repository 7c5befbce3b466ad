package dyn

// Collection operations mutate the list or map representation in place.
// All of them check immutability first and leave state unchanged on failure.
// Elements passed as containers are unwrapped to raw values before storage;
// retrieval wraps back into containers where the API returns one.

// AddElement appends an element to the list representation.
func (c *Container) AddElement(element any) error {
	if c.immutable {
		return newImmutableViolation("addElement on")
	}
	if !c.IsList() {
		return newUnsupported("addElement", "a list")
	}
	list, err := c.ListValue()
	if err != nil {
		return err
	}
	c.setRep(TagList, append(list, unwrap(element)))
	return nil
}

// RemoveElement deletes the first occurrence of an element from the list
// representation. Removing an element that is not present is a no-op.
func (c *Container) RemoveElement(element any) error {
	if c.immutable {
		return newImmutableViolation("removeElement on")
	}
	if !c.IsList() {
		return newUnsupported("removeElement", "a list")
	}
	list, err := c.ListValue()
	if err != nil {
		return err
	}
	target := unwrap(element)
	for i, elem := range list {
		if valueEqual(elem, target) {
			c.setRep(TagList, append(list[:i], list[i+1:]...))
			return nil
		}
	}
	return nil
}

// PutKeyValue stores a key-value pair in the map representation.
func (c *Container) PutKeyValue(key string, value any) error {
	if c.immutable {
		return newImmutableViolation("putKeyValue on")
	}
	if !c.IsMap() {
		return newUnsupported("putKeyValue", "a map")
	}
	m, err := c.MapValue()
	if err != nil {
		return err
	}
	m[key] = unwrap(value)
	return nil
}

// GetKey returns the map representation's value for a key, wrapped in a new
// container. A missing key yields a container holding nil.
func (c *Container) GetKey(key string) (*Container, error) {
	if !c.IsMap() {
		return nil, newUnsupported("getKey", "a map")
	}
	m, err := c.MapValue()
	if err != nil {
		return nil, err
	}
	return Of(m[key]), nil
}

// Clear empties the list or map representation.
func (c *Container) Clear() error {
	if c.immutable {
		return newImmutableViolation("clear")
	}
	switch {
	case c.IsList():
		c.setRep(TagList, []any{})
		return nil
	case c.IsMap():
		c.setRep(TagMap, map[string]any{})
		return nil
	}
	return newUnsupported("clear", "a list or map")
}

// Size returns the element count of the list or map representation, or the
// length of the string representation.
func (c *Container) Size() (int, error) {
	switch {
	case c.IsList():
		list, err := c.ListValue()
		if err != nil {
			return 0, err
		}
		return len(list), nil
	case c.IsMap():
		m, err := c.MapValue()
		if err != nil {
			return 0, err
		}
		return len(m), nil
	case c.IsString():
		s, err := c.StringValue()
		if err != nil {
			return 0, err
		}
		return len(s), nil
	}
	return 0, newUnsupported("size", "a list, map, or string")
}

// IsEmpty reports whether the list or map representation has no elements.
func (c *Container) IsEmpty() (bool, error) {
	switch {
	case c.IsList():
		list, err := c.ListValue()
		if err != nil {
			return false, err
		}
		return len(list) == 0, nil
	case c.IsMap():
		m, err := c.MapValue()
		if err != nil {
			return false, err
		}
		return len(m) == 0, nil
	}
	return false, newUnsupported("isEmpty", "a list or map")
}

// Elements returns the list representation's elements, each wrapped in a
// container.
func (c *Container) Elements() ([]*Container, error) {
	if !c.IsList() {
		return nil, newUnsupported("elements", "a list")
	}
	list, err := c.ListValue()
	if err != nil {
		return nil, err
	}
	out := make([]*Container, len(list))
	for i, elem := range list {
		out[i] = Of(elem)
	}
	return out, nil
}
