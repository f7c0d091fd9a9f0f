package service

import (
	"net/http"

	"bedrock/db"
	"bedrock/request"
	"bedrock/servlet"
)

// StoreServlet reports how many resources and resource types the content
// repository holds.
type StoreServlet struct {
	servlet.Base
	resources db.ResourceManager
}

func NewStoreServlet(resources db.ResourceManager) *StoreServlet {
	return &StoreServlet{resources: resources}
}

func (s *StoreServlet) AllowedMethods() []string {
	return []string{http.MethodGet}
}

func (s *StoreServlet) ProcessGet(req *request.ComponentRequest) error {
	store, err := s.resources.Store(req.Context())
	if err != nil {
		return err
	}

	return servlet.WriteJSON(req, http.StatusOK, store)
}
