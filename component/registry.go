// Package component builds the typed objects servlets and templates work
// with, either by adapting the request or resource, or by plain
// construction followed by Init.
package component

import (
	"errors"
	"fmt"
	"sync"

	"bedrock/models"
	"bedrock/request"

	"go.uber.org/zap"
)

var (
	ErrUnknownComponent = errors.New("unknown component")
	ErrNoConstructor    = errors.New("component has no constructor")
	ErrNotAdaptable     = errors.New("adaptation returned no component")
	ErrNoRequest        = errors.New("no component request")
)

// Component is initialised from bindings after construction.
type Component interface {
	Init(bindings Bindings) error
}

// Adaptable names a context a component can be adapted from.
type Adaptable int

const (
	FromRequest Adaptable = iota
	FromResource
)

func (a Adaptable) String() string {
	switch a {
	case FromRequest:
		return "request"
	case FromResource:
		return "resource"
	default:
		return fmt.Sprintf("Adaptable(%d)", int(a))
	}
}

// Definition tells the registry how to build one kind of component.
type Definition struct {
	Name string

	// New is the no-argument constructor; Init is called on its result.
	New func() Component

	// Adaptables lists the contexts the component adapts from. Adaptation
	// takes precedence over New.
	Adaptables    []Adaptable
	AdaptRequest  func(req *request.ComponentRequest) (Component, error)
	AdaptResource func(resource *models.Resource) (Component, error)
}

func (d Definition) adaptableFrom(a Adaptable) bool {
	for _, adaptable := range d.Adaptables {
		if adaptable == a {
			return true
		}
	}
	return false
}

// InstantiationError reports a failed construction of a named component.
type InstantiationError struct {
	Name string
	Err  error
}

func (e *InstantiationError) Error() string {
	return fmt.Sprintf("error instantiating component %s: %v", e.Name, e.Err)
}

func (e *InstantiationError) Unwrap() error {
	return e.Err
}

// Registry maps component names to definitions. Definitions are registered
// at startup.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]Definition
	logger      *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		definitions: make(map[string]Definition),
		logger:      logger.With(zap.String("component", "registry")),
	}
}

func (r *Registry) Register(def Definition) error {
	if def.Name == "" {
		return errors.New("component definition needs a name")
	}
	if def.adaptableFrom(FromRequest) && def.AdaptRequest == nil {
		return fmt.Errorf("component %s is adaptable from request but has no adapter", def.Name)
	}
	if def.adaptableFrom(FromResource) && def.AdaptResource == nil {
		return fmt.Errorf("component %s is adaptable from resource but has no adapter", def.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.definitions[def.Name]; ok {
		return fmt.Errorf("component %s is already registered", def.Name)
	}
	r.definitions[def.Name] = def
	return nil
}

func (r *Registry) MustRegister(defs ...Definition) {
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			panic(err)
		}
	}
}

func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.definitions[name]
	return ok
}

// Get builds the named component for req. Every failure is logged and
// returned as an *InstantiationError.
func (r *Registry) Get(req *request.ComponentRequest, name string) (Component, error) {
	component, err := r.get(req, name)
	if err != nil {
		fields := []zap.Field{zap.String("name", name), zap.Error(err)}
		if req != nil {
			fields = append(fields, zap.String("request_id", req.ID()))
		}
		r.logger.Error("error instantiating component", fields...)
		return nil, &InstantiationError{Name: name, Err: err}
	}

	return component, nil
}

func (r *Registry) get(req *request.ComponentRequest, name string) (Component, error) {
	if req == nil {
		return nil, ErrNoRequest
	}

	r.mu.RLock()
	def, ok := r.definitions[name]
	r.mu.RUnlock()

	if !ok {
		return nil, ErrUnknownComponent
	}

	return r.build(req, def)
}

func (r *Registry) build(req *request.ComponentRequest, def Definition) (Component, error) {
	if def.adaptableFrom(FromRequest) {
		return adapted(def.AdaptRequest(req))
	}
	if def.adaptableFrom(FromResource) && req.Exists() {
		return adapted(def.AdaptResource(req.Resource()))
	}

	instance, err := construct(def)
	if err != nil {
		return nil, err
	}

	if err := instance.Init(NewBindings(req, r.logger)); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	return instance, nil
}

func adapted(component Component, err error) (Component, error) {
	if err != nil {
		return nil, err
	}
	if component == nil {
		return nil, ErrNotAdaptable
	}
	return component, nil
}

func construct(def Definition) (instance Component, err error) {
	if def.New == nil {
		return nil, ErrNoConstructor
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			instance, err = nil, fmt.Errorf("constructor panicked: %v", recovered)
		}
	}()

	instance = def.New()
	if instance == nil {
		return nil, errors.New("constructor returned nil")
	}
	return instance, nil
}

// Get builds the named component and asserts it is a T.
func Get[T Component](r *Registry, req *request.ComponentRequest, name string) (T, error) {
	var zero T

	component, err := r.Get(req, name)
	if err != nil {
		return zero, err
	}

	typed, ok := component.(T)
	if !ok {
		return zero, &InstantiationError{
			Name: name,
			Err:  fmt.Errorf("unexpected component type %T", component),
		}
	}
	return typed, nil
}
