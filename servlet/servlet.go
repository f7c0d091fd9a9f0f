// Package servlet dispatches HTTP calls to per-verb hooks of a component
// servlet, wrapping each call in a request.ComponentRequest.
package servlet

import (
	"errors"
	"fmt"
	"net/http"

	"bedrock/component"
	"bedrock/request"
)

var ErrMethodNotImplemented = errors.New("method not implemented")

// ComponentServlet handles the four verbs a content servlet serves.
// Embed Base and override the hooks the servlet supports.
type ComponentServlet interface {
	ProcessDelete(req *request.ComponentRequest) error
	ProcessGet(req *request.ComponentRequest) error
	ProcessPost(req *request.ComponentRequest) error
	ProcessPut(req *request.ComponentRequest) error
}

// StatusError carries an HTTP status back to the dispatcher.
type StatusError struct {
	Status  int
	Message string
	Err     error
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

func Errorf(status int, format string, args ...interface{}) *StatusError {
	return &StatusError{Status: status, Message: fmt.Sprintf(format, args...)}
}

// Base answers every verb with ErrMethodNotImplemented.
type Base struct {
	Components *component.Registry
}

func (Base) ProcessDelete(*request.ComponentRequest) error { return ErrMethodNotImplemented }
func (Base) ProcessGet(*request.ComponentRequest) error    { return ErrMethodNotImplemented }
func (Base) ProcessPost(*request.ComponentRequest) error   { return ErrMethodNotImplemented }
func (Base) ProcessPut(*request.ComponentRequest) error    { return ErrMethodNotImplemented }

// GetComponent builds the named component for req. Construction failures
// surface as a 500 StatusError wrapping the component.InstantiationError.
func (b Base) GetComponent(req *request.ComponentRequest, name string) (component.Component, error) {
	if b.Components == nil {
		return nil, &StatusError{
			Status:  http.StatusInternalServerError,
			Message: "servlet has no component registry",
		}
	}

	c, err := b.Components.Get(req, name)
	if err != nil {
		return nil, &StatusError{
			Status:  http.StatusInternalServerError,
			Message: "error instantiating component",
			Err:     err,
		}
	}
	return c, nil
}

// WriteJSON writes v as the JSON response body.
func WriteJSON(req *request.ComponentRequest, status int, v interface{}) error {
	req.Gin().JSON(status, v)
	return nil
}

// MethodLister is implemented by servlets that advertise their verbs in
// the Allow header of 405 responses.
type MethodLister interface {
	AllowedMethods() []string
}

func hook(s ComponentServlet, method string) (func(*request.ComponentRequest) error, bool) {
	switch method {
	case http.MethodDelete:
		return s.ProcessDelete, true
	case http.MethodGet:
		return s.ProcessGet, true
	case http.MethodPost:
		return s.ProcessPost, true
	case http.MethodPut:
		return s.ProcessPut, true
	default:
		return nil, false
	}
}
