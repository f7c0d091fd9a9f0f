package service

import (
	"strings"

	"bedrock/component"
	"bedrock/models"
	"bedrock/request"
	"bedrock/tags"
)

const (
	PAGE_RESOURCE_TYPE       = "bedrock/page"
	BREADCRUMB_RESOURCE_TYPE = "bedrock/breadcrumb"
)

// PageModel is the default JSON view of a content page.
type PageModel struct {
	Path         string                 `json:"path"`
	Name         string                 `json:"name"`
	Title        string                 `json:"title"`
	ResourceType string                 `json:"resource_type"`
	LastModified models.Date            `json:"last_modified"`
	Selectors    []string               `json:"selectors,omitempty"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

func (p *PageModel) Init(bindings component.Bindings) error {
	resource := bindings.Resource()
	if resource == nil {
		return nil
	}

	p.Path = resource.Path
	p.Name = resource.Name()
	p.Title = resource.Title
	if p.Title == "" {
		p.Title = p.Name
	}
	p.ResourceType = resource.ResourceType
	p.LastModified = resource.LastModified
	p.Properties = bindings.Properties()

	if req := bindings.Request(); req != nil {
		p.Selectors = req.Path().Selectors
	}
	return nil
}

type Crumb struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Breadcrumb lists the ancestors of the requested path, root first.
type Breadcrumb struct {
	Crumbs []Crumb `json:"crumbs"`
}

func (b *Breadcrumb) Init(component.Bindings) error {
	return nil
}

func breadcrumbFromRequest(req *request.ComponentRequest) (component.Component, error) {
	b := &Breadcrumb{Crumbs: []Crumb{}}

	path := ""
	for _, segment := range strings.Split(strings.Trim(req.Path().ResourcePath, "/"), "/") {
		if segment == "" {
			continue
		}
		path += "/" + segment
		b.Crumbs = append(b.Crumbs, Crumb{Name: segment, Path: path})
	}
	return b, nil
}

// RegisterComponents adds the built-in components and their template
// classes.
func RegisterComponents(registry *component.Registry, classes *tags.Classes) error {
	definitions := []component.Definition{
		{
			Name: PAGE_RESOURCE_TYPE,
			New:  func() component.Component { return &PageModel{} },
		},
		{
			Name:         BREADCRUMB_RESOURCE_TYPE,
			Adaptables:   []component.Adaptable{component.FromRequest},
			AdaptRequest: breadcrumbFromRequest,
		},
	}
	for _, def := range definitions {
		if err := registry.Register(def); err != nil {
			return err
		}
	}

	constructors := map[string]tags.ClassConstructor{
		"bedrock.PageModel": func(req *request.ComponentRequest) (interface{}, error) {
			return component.Get[*PageModel](registry, req, PAGE_RESOURCE_TYPE)
		},
		"bedrock.Breadcrumb": func(req *request.ComponentRequest) (interface{}, error) {
			return component.Get[*Breadcrumb](registry, req, BREADCRUMB_RESOURCE_TYPE)
		},
	}
	for name, constructor := range constructors {
		if err := classes.Register(name, constructor); err != nil {
			return err
		}
	}

	return nil
}
