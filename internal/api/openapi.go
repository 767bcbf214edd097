package api

import (
	_ "embed"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openAPIYAML []byte

var openAPIDoc = sync.OnceValues(func() (map[string]any, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(openAPIYAML, &doc); err != nil {
		return nil, fmt.Errorf("parsing openapi document: %w", err)
	}
	return doc, nil
})

// OpenAPI returns the API description as a generic document.
func OpenAPI() (map[string]any, error) {
	return openAPIDoc()
}

func (s *Server) openAPIJSON(c *gin.Context) {
	doc, err := OpenAPI()
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (s *Server) openAPIYAML(c *gin.Context) {
	c.Data(http.StatusOK, "application/yaml", openAPIYAML)
}
