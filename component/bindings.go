package component

import (
	"bedrock/models"
	"bedrock/request"

	"go.uber.org/zap"
)

const (
	BindingRequest    = "request"
	BindingResource   = "resource"
	BindingProperties = "properties"
	BindingLogger     = "logger"
)

// Bindings is the named-value table handed to Component.Init.
type Bindings map[string]interface{}

func NewBindings(req *request.ComponentRequest, logger *zap.Logger) Bindings {
	return Bindings{
		BindingRequest:    req,
		BindingResource:   req.Resource(),
		BindingProperties: req.Properties(),
		BindingLogger:     logger,
	}
}

func (b Bindings) Request() *request.ComponentRequest {
	req, _ := b[BindingRequest].(*request.ComponentRequest)
	return req
}

func (b Bindings) Resource() *models.Resource {
	resource, _ := b[BindingResource].(*models.Resource)
	return resource
}

func (b Bindings) Properties() map[string]interface{} {
	properties, _ := b[BindingProperties].(map[string]interface{})
	return properties
}

func (b Bindings) Logger() *zap.Logger {
	if logger, ok := b[BindingLogger].(*zap.Logger); ok && logger != nil {
		return logger
	}
	return zap.NewNop()
}
