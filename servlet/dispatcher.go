package servlet

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"bedrock/db"
	"bedrock/models"
	"bedrock/request"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Resolver finds the resource a request path addresses.
type Resolver interface {
	GetByPath(ctx context.Context, path string) (*models.Resource, error)
}

type Dispatcher struct {
	resolver Resolver
	logger   *zap.Logger
}

// NewDispatcher returns a dispatcher. resolver may be nil for servlets that
// are not bound to content.
func NewDispatcher(resolver Resolver, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		resolver: resolver,
		logger:   logger.With(zap.String("component", "servlet")),
	}
}

// Handle adapts s to gin. The resource path comes from the URL path.
func (d *Dispatcher) Handle(s ComponentServlet) gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		process, ok := hook(s, method)
		if !ok {
			d.methodNotImplemented(c, s)
			return
		}

		req, err := d.newRequest(c)
		if err != nil {
			d.writeError(c, s, err)
			return
		}

		if err := process(req); err != nil {
			d.writeError(c, s, err)
		}
	}
}

func (d *Dispatcher) newRequest(c *gin.Context) (*request.ComponentRequest, error) {
	path := request.ParsePath(c.Request.URL.Path)

	var resource *models.Resource
	if d.resolver != nil {
		resolved, err := d.resolver.GetByPath(c.Request.Context(), path.ResourcePath)
		switch {
		case errors.Is(err, db.ErrNotFound):
		case err != nil:
			return nil, &StatusError{
				Status:  http.StatusInternalServerError,
				Message: "error resolving resource",
				Err:     err,
			}
		default:
			resource = resolved
		}
	}

	return request.New(c, path, resource), nil
}

func (d *Dispatcher) writeError(c *gin.Context, s ComponentServlet, err error) {
	if errors.Is(err, ErrMethodNotImplemented) {
		d.methodNotImplemented(c, s)
		return
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Status >= http.StatusInternalServerError {
			d.logger.Error("servlet error",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
		}
		c.AbortWithStatusJSON(statusErr.Status, gin.H{"message": statusErr.Message})
		return
	}

	d.logger.Error("servlet error",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": http.StatusText(http.StatusInternalServerError)})
}

func (d *Dispatcher) methodNotImplemented(c *gin.Context, s ComponentServlet) {
	if lister, ok := s.(MethodLister); ok {
		c.Header("Allow", strings.Join(lister.AllowedMethods(), ", "))
	}
	c.AbortWithStatusJSON(http.StatusMethodNotAllowed, gin.H{
		"message": "method " + c.Request.Method + " not implemented",
	})
}

// Mount routes every verb on relativePath to s.
func (d *Dispatcher) Mount(routes gin.IRoutes, relativePath string, s ComponentServlet) {
	routes.Any(relativePath, d.Handle(s))
}
