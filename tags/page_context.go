package tags

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"bedrock/request"
)

// ATTR_COMPONENT_REQUEST is the page attribute holding the current
// *request.ComponentRequest.
const ATTR_COMPONENT_REQUEST = "componentRequest"

var ErrInvalidScope = errors.New("invalid scope")

type Scope int

const (
	PageScope Scope = iota
	RequestScope
	SessionScope
	ApplicationScope
)

func (s Scope) String() string {
	switch s {
	case PageScope:
		return "page"
	case RequestScope:
		return "request"
	case SessionScope:
		return "session"
	case ApplicationScope:
		return "application"
	default:
		return fmt.Sprintf("Scope(%d)", int(s))
	}
}

// ParseScope maps a scope attribute value to a Scope. Empty means page.
func ParseScope(name string) (Scope, error) {
	switch name {
	case "", "page":
		return PageScope, nil
	case "request":
		return RequestScope, nil
	case "session":
		return SessionScope, nil
	case "application":
		return ApplicationScope, nil
	default:
		return PageScope, fmt.Errorf("%w: %q", ErrInvalidScope, name)
	}
}

// Attributes is a concurrency-safe attribute table, used for the scopes
// that outlive a page.
type Attributes struct {
	mu     sync.RWMutex
	values map[string]interface{}
}

func NewAttributes() *Attributes {
	return &Attributes{values: make(map[string]interface{})}
}

func (a *Attributes) Get(name string) (interface{}, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	value, ok := a.values[name]
	return value, ok
}

func (a *Attributes) Set(name string, value interface{}) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.values[name] = value
}

// PageContext is the state of one page render: where output goes, the
// component request being served, and the attribute scopes.
type PageContext struct {
	Out         io.Writer
	Request     *request.ComponentRequest
	page        map[string]interface{}
	session     *Attributes
	application *Attributes
}

// NewPageContext creates a page context writing to out. session and
// application may be nil, in which case fresh tables are used.
func NewPageContext(out io.Writer, req *request.ComponentRequest, session, application *Attributes) *PageContext {
	if session == nil {
		session = NewAttributes()
	}
	if application == nil {
		application = NewAttributes()
	}

	pc := &PageContext{
		Out:         out,
		Request:     req,
		page:        make(map[string]interface{}),
		session:     session,
		application: application,
	}
	if req != nil {
		pc.page[ATTR_COMPONENT_REQUEST] = req
	}
	return pc
}

func (pc *PageContext) Attribute(name string, scope Scope) (interface{}, bool) {
	switch scope {
	case PageScope:
		value, ok := pc.page[name]
		return value, ok
	case RequestScope:
		if pc.Request == nil {
			return nil, false
		}
		return pc.Request.Attribute(name)
	case SessionScope:
		return pc.session.Get(name)
	case ApplicationScope:
		return pc.application.Get(name)
	default:
		return nil, false
	}
}

func (pc *PageContext) SetAttribute(name string, value interface{}, scope Scope) error {
	switch scope {
	case PageScope:
		pc.page[name] = value
	case RequestScope:
		if pc.Request == nil {
			return errors.New("request scope is unavailable without a component request")
		}
		pc.Request.SetAttribute(name, value)
	case SessionScope:
		pc.session.Set(name, value)
	case ApplicationScope:
		pc.application.Set(name, value)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidScope, scope)
	}
	return nil
}

// ComponentRequest returns the request stored at page scope.
func (pc *PageContext) ComponentRequest() *request.ComponentRequest {
	req, _ := pc.page[ATTR_COMPONENT_REQUEST].(*request.ComponentRequest)
	return req
}
