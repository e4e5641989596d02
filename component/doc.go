// Package component is the lifecycle layer: everything the service opens
// at startup implements Component and is driven by a Registry.
package component
