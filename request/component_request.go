// Package request wraps an incoming HTTP call together with the content
// resource it addresses.
package request

import (
	"context"
	"net/http"

	"bedrock/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ComponentRequest is created once per incoming call and discarded when the
// call ends.
type ComponentRequest struct {
	id       string
	ctx      *gin.Context
	path     PathInfo
	resource *models.Resource
}

// New wraps c. resource may be nil when the path does not resolve.
func New(c *gin.Context, path PathInfo, resource *models.Resource) *ComponentRequest {
	id := c.GetHeader("X-Request-Id")
	if id == "" {
		id = uuid.NewString()
	}

	return &ComponentRequest{
		id:       id,
		ctx:      c,
		path:     path,
		resource: resource,
	}
}

func (r *ComponentRequest) ID() string {
	return r.id
}

func (r *ComponentRequest) Context() context.Context {
	return r.ctx.Request.Context()
}

func (r *ComponentRequest) Gin() *gin.Context {
	return r.ctx
}

func (r *ComponentRequest) Request() *http.Request {
	return r.ctx.Request
}

func (r *ComponentRequest) Response() gin.ResponseWriter {
	return r.ctx.Writer
}

func (r *ComponentRequest) Method() string {
	return r.ctx.Request.Method
}

func (r *ComponentRequest) Path() PathInfo {
	return r.path
}

// Resource returns the resolved content resource, or nil.
func (r *ComponentRequest) Resource() *models.Resource {
	return r.resource
}

func (r *ComponentRequest) Exists() bool {
	return r.resource != nil
}

// Properties of the resolved resource; never nil.
func (r *ComponentRequest) Properties() map[string]interface{} {
	if r.resource == nil || r.resource.Properties == nil {
		return map[string]interface{}{}
	}
	return r.resource.Properties
}

// Parameter returns the first query or form value for name.
func (r *ComponentRequest) Parameter(name string) string {
	if value, ok := r.ctx.GetQuery(name); ok {
		return value
	}
	return r.ctx.PostForm(name)
}

func (r *ComponentRequest) ParameterValues(name string) []string {
	if values, ok := r.ctx.GetQueryArray(name); ok {
		return values
	}
	return r.ctx.PostFormArray(name)
}

// Param returns a route parameter.
func (r *ComponentRequest) Param(name string) string {
	return r.ctx.Param(name)
}

// Attribute returns a request-scoped attribute. Attributes live in the gin
// context keys and go through its lock.
func (r *ComponentRequest) Attribute(name string) (interface{}, bool) {
	return r.ctx.Get(name)
}

func (r *ComponentRequest) SetAttribute(name string, value interface{}) {
	r.ctx.Set(name, value)
}
