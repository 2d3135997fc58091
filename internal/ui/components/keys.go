package components

import "charm.land/bubbles/v2/key"

// Bindings shared by the menu and the selectors.
var (
	keyUp    = key.NewBinding(key.WithKeys("up", "k"))
	keyDown  = key.NewBinding(key.WithKeys("down", "j"))
	keyLeft  = key.NewBinding(key.WithKeys("left", "h"))
	keyRight = key.NewBinding(key.WithKeys("right", "l"))
	keyEnter = key.NewBinding(key.WithKeys("enter"))
)
