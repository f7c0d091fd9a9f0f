// Package tags provides the page-rendering helpers templates call into.
package tags

import (
	"errors"
	"fmt"
	"html/template"
	"sync"

	"bedrock/request"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

var (
	ErrMissingTarget      = errors.New("className or instanceName is required")
	ErrUnknownClass       = errors.New("unknown class")
	ErrNoComponentRequest = errors.New("page has no component request")
)

// ClassConstructor builds an object for the current component request.
type ClassConstructor func(req *request.ComponentRequest) (interface{}, error)

// Classes maps class names to constructors, filled at startup.
type Classes struct {
	mu           sync.RWMutex
	constructors map[string]ClassConstructor
}

func NewClasses() *Classes {
	return &Classes{constructors: make(map[string]ClassConstructor)}
}

func (c *Classes) Register(name string, constructor ClassConstructor) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.constructors[name]; ok {
		return fmt.Errorf("class %s is already registered", name)
	}
	c.constructors[name] = constructor
	return nil
}

func (c *Classes) New(name string, req *request.ComponentRequest) (interface{}, error) {
	c.mu.RLock()
	constructor, ok := c.constructors[name]
	c.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownClass, name)
	}
	return constructor(req)
}

// TagError wraps any failure while processing a tag.
type TagError struct {
	Tag string
	Err error
}

func (e *TagError) Error() string {
	return fmt.Sprintf("%s: %v", e.Tag, e.Err)
}

func (e *TagError) Unwrap() error {
	return e.Err
}

// Library holds what every tag invocation shares: the class registry and
// the logger.
type Library struct {
	classes *Classes
	logger  *zap.Logger
}

func NewLibrary(classes *Classes, logger *zap.Logger) *Library {
	return &Library{
		classes: classes,
		logger:  logger.With(zap.String("component", "tags")),
	}
}

// SerializeJSONTag writes an object as JSON. ClassName is checked first;
// Name only applies when ClassName is used. An InstanceName absent from
// the scope serializes as null.
type SerializeJSONTag struct {
	ClassName    string
	InstanceName string
	Name         string
	Scope        string
}

// SerializeJSON renders tag into pc.Out.
func (l *Library) SerializeJSON(pc *PageContext, tag SerializeJSONTag) error {
	data, err := l.serializeJSON(pc, tag)
	if err != nil {
		return err
	}

	if _, err := pc.Out.Write(data); err != nil {
		l.logger.Error("error writing JSON", zap.Error(err))
		return &TagError{Tag: "serializeJSON", Err: err}
	}
	return nil
}

func (l *Library) serializeJSON(pc *PageContext, tag SerializeJSONTag) ([]byte, error) {
	if tag.ClassName == "" && tag.InstanceName == "" {
		return nil, ErrMissingTarget
	}
	scope, err := ParseScope(tag.Scope)
	if err != nil {
		return nil, err
	}

	object, err := l.resolve(pc, tag, scope)
	if err != nil {
		return nil, l.fail(tag, err)
	}

	data, err := json.Marshal(object)
	if err != nil {
		return nil, l.fail(tag, err)
	}
	return data, nil
}

func (l *Library) fail(tag SerializeJSONTag, err error) error {
	l.logger.Error("error serializing JSON",
		zap.String("class_name", tag.ClassName),
		zap.String("instance_name", tag.InstanceName),
		zap.Error(err))
	return &TagError{Tag: "serializeJSON", Err: err}
}

func (l *Library) resolve(pc *PageContext, tag SerializeJSONTag, scope Scope) (interface{}, error) {
	if tag.ClassName == "" {
		l.logger.Debug("serializing JSON for instance", zap.String("instance_name", tag.InstanceName))

		object, _ := pc.Attribute(tag.InstanceName, scope)
		return object, nil
	}

	l.logger.Debug("serializing JSON for class", zap.String("class_name", tag.ClassName))

	req := pc.ComponentRequest()
	if req == nil {
		return nil, ErrNoComponentRequest
	}

	object, err := l.classes.New(tag.ClassName, req)
	if err != nil {
		return nil, err
	}

	if tag.Name != "" {
		if err := pc.SetAttribute(tag.Name, object, scope); err != nil {
			return nil, err
		}
	}
	return object, nil
}

// FuncMap exposes the tag to html/template:
//
//	{{ serializeJSON .PageContext "className" "instanceName" "name" }}
//
// The JSON is returned rather than written, so the template places it.
func (l *Library) FuncMap() template.FuncMap {
	return template.FuncMap{
		"serializeJSON": func(pc *PageContext, className, instanceName, name string) (template.JS, error) {
			data, err := l.serializeJSON(pc, SerializeJSONTag{
				ClassName:    className,
				InstanceName: instanceName,
				Name:         name,
			})
			if err != nil {
				return "", err
			}
			return template.JS(data), nil
		},
	}
}
