package service

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"bedrock/db"
	"bedrock/models"
	"bedrock/request"
	"bedrock/servlet"
	"bedrock/tags"

	"github.com/gin-gonic/gin"
)

// SEARCH_SELECTOR turns a GET into a search below the addressed path:
// /content/site.search.json?type=bedrock/page&q=news
const SEARCH_SELECTOR = "search"

//go:embed templates/*.html
var templateFiles embed.FS

// ContentServlet serves the content tree. GET renders a resource as JSON
// or HTML, PUT stores one, POST merges properties and DELETE removes it.
type ContentServlet struct {
	servlet.Base
	resources   db.ResourceManager
	library     *tags.Library
	application *tags.Attributes
	templates   *template.Template
}

func NewContentServlet(base servlet.Base, resources db.ResourceManager, library *tags.Library) (*ContentServlet, error) {
	templates, err := template.New("content").Funcs(library.FuncMap()).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &ContentServlet{
		Base:        base,
		resources:   resources,
		library:     library,
		application: tags.NewAttributes(),
		templates:   templates,
	}, nil
}

func (s *ContentServlet) AllowedMethods() []string {
	return []string{http.MethodDelete, http.MethodGet, http.MethodPost, http.MethodPut}
}

func (s *ContentServlet) ProcessGet(req *request.ComponentRequest) error {
	if req.Path().HasSelector(SEARCH_SELECTOR) {
		return s.search(req)
	}

	if !req.Exists() {
		return servlet.Errorf(http.StatusNotFound, "resource with path: '%v' not found", req.Path().ResourcePath)
	}

	switch req.Path().Extension {
	case "", "json":
		return s.renderJSON(req)
	case "html":
		return s.renderHTML(req)
	default:
		return servlet.Errorf(http.StatusNotFound, "no renderer for extension '%v'", req.Path().Extension)
	}
}

func (s *ContentServlet) search(req *request.ComponentRequest) error {
	if ext := req.Path().Extension; ext != "json" {
		return servlet.Errorf(http.StatusNotFound, "no search renderer for extension '%v'", ext)
	}

	resourceType := req.Parameter("type")
	text := req.Parameter("q")
	if resourceType == "" && text == "" {
		return servlet.Errorf(http.StatusBadRequest, "at least one query parameter is required for search")
	}

	found, err := s.resources.Search(req.Context(), resourceType, text)
	if err != nil {
		return err
	}

	root := req.Path().ResourcePath
	results := make([]*models.Resource, 0, len(found))
	for _, resource := range found {
		if resource.Path == root || strings.HasPrefix(resource.Path, root+"/") {
			results = append(results, resource)
		}
	}

	return servlet.WriteJSON(req, http.StatusOK, results)
}

func (s *ContentServlet) renderJSON(req *request.ComponentRequest) error {
	resourceType := req.Resource().ResourceType

	if s.Components == nil || !s.Components.Has(resourceType) {
		return servlet.WriteJSON(req, http.StatusOK, req.Resource())
	}

	model, err := s.GetComponent(req, resourceType)
	if err != nil {
		return err
	}
	return servlet.WriteJSON(req, http.StatusOK, model)
}

func (s *ContentServlet) renderHTML(req *request.ComponentRequest) error {
	var out bytes.Buffer
	pc := tags.NewPageContext(&out, req, nil, s.application)

	title := req.Resource().Title
	if title == "" {
		title = req.Resource().Name()
	}

	err := s.templates.ExecuteTemplate(&out, "page.html", gin.H{
		"Title":       title,
		"PageContext": pc,
	})
	if err != nil {
		return err
	}

	req.Gin().Data(http.StatusOK, "text/html; charset=utf-8", out.Bytes())
	return nil
}

func (s *ContentServlet) ProcessPut(req *request.ComponentRequest) error {
	var resource models.Resource
	if err := req.Gin().ShouldBindJSON(&resource); err != nil {
		return &servlet.StatusError{Status: http.StatusBadRequest, Message: err.Error(), Err: err}
	}

	if resource.Path != req.Path().ResourcePath {
		return servlet.Errorf(http.StatusBadRequest, "resource path '%v' does not match request path '%v'",
			resource.Path, req.Path().ResourcePath)
	}
	resource.LastModified = models.Today()

	id, err := s.resources.Create(req.Context(), &resource)
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if req.Exists() {
		status = http.StatusOK
	}
	return servlet.WriteJSON(req, status, gin.H{"status": "created", "id": id})
}

func (s *ContentServlet) ProcessPost(req *request.ComponentRequest) error {
	var properties map[string]interface{}
	if err := req.Gin().ShouldBindJSON(&properties); err != nil {
		return &servlet.StatusError{Status: http.StatusBadRequest, Message: err.Error(), Err: err}
	}

	err := s.resources.Update(req.Context(), req.Path().ResourcePath, properties)
	if err != nil {
		return notFound(err)
	}

	return servlet.WriteJSON(req, http.StatusOK, gin.H{"status": "updated"})
}

func (s *ContentServlet) ProcessDelete(req *request.ComponentRequest) error {
	err := s.resources.Delete(req.Context(), req.Path().ResourcePath)
	if err != nil {
		return notFound(err)
	}

	return servlet.WriteJSON(req, http.StatusOK, gin.H{"status": "deleted"})
}

func notFound(err error) error {
	if errors.Is(err, db.ErrNotFound) {
		return &servlet.StatusError{Status: http.StatusNotFound, Message: err.Error(), Err: err}
	}
	return err
}
