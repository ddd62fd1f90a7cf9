// Package di provides a small lazy service container with typed tokens.
package di

import (
	"fmt"
	"sync"
)

// ServiceRegistry resolves registered services by name.
type ServiceRegistry interface {
	Get(name string) any
}

// Container is a ServiceRegistry that also accepts registrations.
type Container interface {
	ServiceRegistry
	Register(name string, service any)
	RegisterFactory(name string, factory func(ServiceRegistry) any)
	Has(name string) bool
}

type container struct {
	mu        sync.Mutex
	instances map[string]any
	factories map[string]func(ServiceRegistry) any
	resolving map[string]bool
}

// NewContainer creates an empty container.
func NewContainer() Container {
	return &container{
		instances: make(map[string]any),
		factories: make(map[string]func(ServiceRegistry) any),
		resolving: make(map[string]bool),
	}
}

// Register stores an already built service.
func (c *container) Register(name string, service any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.instances[name] = service
}

// RegisterFactory stores a factory invoked once on first Get.
func (c *container) RegisterFactory(name string, factory func(ServiceRegistry) any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.instances, name)
	c.factories[name] = factory
}

// Has reports whether name has an instance or a factory.
func (c *container) Has(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, inst := c.instances[name]
	_, fac := c.factories[name]
	return inst || fac
}

// Get resolves name, building it through its factory when needed.
// Panics on unknown names and on dependency cycles.
func (c *container) Get(name string) any {
	c.mu.Lock()
	if svc, ok := c.instances[name]; ok {
		c.mu.Unlock()
		return svc
	}
	factory, ok := c.factories[name]
	if !ok {
		c.mu.Unlock()
		panic(fmt.Sprintf("di: service %q not registered", name))
	}
	if c.resolving[name] {
		c.mu.Unlock()
		panic(fmt.Sprintf("di: dependency cycle resolving %q", name))
	}
	c.resolving[name] = true
	c.mu.Unlock()

	// factories may call Get, so the lock is released while building
	svc := factory(c)

	c.mu.Lock()
	delete(c.resolving, name)
	c.instances[name] = svc
	c.mu.Unlock()

	return svc
}

// Token is a typed service name.
type Token[T any] struct {
	name string
}

// NewToken creates a token for services of type T.
func NewToken[T any](name string) Token[T] {
	return Token[T]{name: name}
}

// Name returns the registry key.
func (t Token[T]) Name() string {
	return t.name
}

// RegisterToken registers a typed factory under the token name.
func RegisterToken[T any](c Container, token Token[T], factory func(ServiceRegistry) T) {
	c.RegisterFactory(token.name, func(sr ServiceRegistry) any {
		return factory(sr)
	})
}

// GetToken resolves a typed service.
func GetToken[T any](sr ServiceRegistry, token Token[T]) T {
	svc, ok := sr.Get(token.name).(T)
	if !ok {
		panic(fmt.Sprintf("di: service %q has unexpected type", token.name))
	}
	return svc
}
