package tags

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bedrock/models"
	"bedrock/request"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type navigation struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func newComponentRequest() *request.ComponentRequest {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/content/home.html", nil)
	return request.New(c, request.ParsePath("/content/home.html"), &models.Resource{
		Path:       "/content/home",
		Properties: map[string]interface{}{"jcr:title": "Home"},
	})
}

func newLibrary(t *testing.T) *Library {
	t.Helper()

	classes := NewClasses()
	require.NoError(t, classes.Register("site.Navigation", func(req *request.ComponentRequest) (interface{}, error) {
		title, _ := req.Properties()["jcr:title"].(string)
		return &navigation{Title: title, Items: []string{"news", "about"}}, nil
	}))
	require.NoError(t, classes.Register("site.Broken", func(*request.ComponentRequest) (interface{}, error) {
		return nil, errors.New("no navigation root")
	}))
	require.NoError(t, classes.Register("site.Unencodable", func(*request.ComponentRequest) (interface{}, error) {
		return map[string]interface{}{"ch": make(chan int)}, nil
	}))

	return NewLibrary(classes, zap.NewNop())
}

func TestSerializeJSON_InstanceName(t *testing.T) {
	lib := newLibrary(t)
	var out bytes.Buffer
	pc := NewPageContext(&out, newComponentRequest(), nil, nil)
	require.NoError(t, pc.SetAttribute("model", map[string]string{"title": "Home", "template": "page"}, PageScope))

	err := lib.SerializeJSON(pc, SerializeJSONTag{InstanceName: "model"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Home","template":"page"}`, out.String())
}

func TestSerializeJSON_MissingInstanceWritesNull(t *testing.T) {
	lib := newLibrary(t)

	for _, scope := range []string{"", "request", "session", "application"} {
		var out bytes.Buffer
		pc := NewPageContext(&out, newComponentRequest(), nil, nil)

		require.NoError(t, lib.SerializeJSON(pc, SerializeJSONTag{InstanceName: "absent", Scope: scope}))
		assert.Equal(t, "null", out.String(), "scope %q", scope)
	}

	var out bytes.Buffer
	pc := NewPageContext(&out, nil, nil, nil)
	require.NoError(t, lib.SerializeJSON(pc, SerializeJSONTag{InstanceName: "absent", Scope: "request"}))
	assert.Equal(t, "null", out.String())
}

func TestSerializeJSON_ClassNameWithoutComponentRequest(t *testing.T) {
	lib := newLibrary(t)
	var out bytes.Buffer
	pc := NewPageContext(&out, nil, nil, nil)

	err := lib.SerializeJSON(pc, SerializeJSONTag{ClassName: "site.Navigation", Name: "nav"})
	var tagErr *TagError
	require.True(t, errors.As(err, &tagErr), "got %v", err)
	assert.ErrorIs(t, err, ErrNoComponentRequest)
	assert.Zero(t, out.Len())

	_, ok := pc.Attribute("nav", PageScope)
	assert.False(t, ok)
}

func TestSerializeJSON_ClassNameStoresInstance(t *testing.T) {
	lib := newLibrary(t)
	var out bytes.Buffer
	pc := NewPageContext(&out, newComponentRequest(), nil, nil)

	err := lib.SerializeJSON(pc, SerializeJSONTag{ClassName: "site.Navigation", Name: "nav", Scope: "request"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Home","items":["news","about"]}`, out.String())

	stored, ok := pc.Attribute("nav", RequestScope)
	require.True(t, ok)
	assert.Equal(t, "Home", stored.(*navigation).Title)

	_, ok = pc.Attribute("nav", PageScope)
	assert.False(t, ok)
}

func TestSerializeJSON_ArgumentValidation(t *testing.T) {
	lib := newLibrary(t)
	pc := NewPageContext(failingWriter{}, nil, nil, nil)

	err := lib.SerializeJSON(pc, SerializeJSONTag{Name: "nav"})
	assert.ErrorIs(t, err, ErrMissingTarget)

	var tagErr *TagError
	assert.False(t, errors.As(err, &tagErr))

	err = lib.SerializeJSON(pc, SerializeJSONTag{InstanceName: "model", Scope: "galaxy"})
	assert.ErrorIs(t, err, ErrInvalidScope)
}

func TestSerializeJSON_FailuresAreTagErrors(t *testing.T) {
	lib := newLibrary(t)

	tests := []struct {
		name   string
		tag    SerializeJSONTag
		out    *bytes.Buffer
		target error
	}{
		{"unknown class", SerializeJSONTag{ClassName: "site.Missing"}, &bytes.Buffer{}, ErrUnknownClass},
		{"constructor error", SerializeJSONTag{ClassName: "site.Broken"}, &bytes.Buffer{}, nil},
		{"encoding error", SerializeJSONTag{ClassName: "site.Unencodable"}, &bytes.Buffer{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc := NewPageContext(tt.out, newComponentRequest(), nil, nil)

			err := lib.SerializeJSON(pc, tt.tag)
			var tagErr *TagError
			require.True(t, errors.As(err, &tagErr), "got %v", err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
			assert.Zero(t, tt.out.Len())
		})
	}

	pc := NewPageContext(failingWriter{}, newComponentRequest(), nil, nil)
	err := lib.SerializeJSON(pc, SerializeJSONTag{ClassName: "site.Navigation"})
	var tagErr *TagError
	assert.True(t, errors.As(err, &tagErr))
}

func TestFuncMap(t *testing.T) {
	lib := newLibrary(t)
	tmpl := template.Must(template.New("page").Funcs(lib.FuncMap()).Parse(
		`<script>var nav = {{ serializeJSON .PageContext "site.Navigation" "" "nav" }};</script>`))

	pc := NewPageContext(nil, newComponentRequest(), nil, nil)
	var out strings.Builder
	require.NoError(t, tmpl.Execute(&out, map[string]interface{}{"PageContext": pc}))

	assert.Equal(t, `<script>var nav = {"title":"Home","items":["news","about"]};</script>`, out.String())

	_, ok := pc.Attribute("nav", PageScope)
	assert.True(t, ok)
}

func TestPageContext_Scopes(t *testing.T) {
	application := NewAttributes()
	req := newComponentRequest()
	pc := NewPageContext(&bytes.Buffer{}, req, nil, application)

	assert.Same(t, req, pc.ComponentRequest())

	for _, scope := range []Scope{PageScope, RequestScope, SessionScope, ApplicationScope} {
		require.NoError(t, pc.SetAttribute("k", scope.String(), scope))
		value, ok := pc.Attribute("k", scope)
		require.True(t, ok)
		assert.Equal(t, scope.String(), value)
	}

	other := NewPageContext(&bytes.Buffer{}, newComponentRequest(), nil, application)
	value, ok := other.Attribute("k", ApplicationScope)
	require.True(t, ok)
	assert.Equal(t, "application", value)

	_, ok = other.Attribute("k", SessionScope)
	assert.False(t, ok)

	noRequest := NewPageContext(&bytes.Buffer{}, nil, nil, nil)
	assert.Error(t, noRequest.SetAttribute("k", 1, RequestScope))
	assert.Nil(t, noRequest.ComponentRequest())
}

func TestParseScope(t *testing.T) {
	for name, want := range map[string]Scope{
		"":            PageScope,
		"page":        PageScope,
		"request":     RequestScope,
		"session":     SessionScope,
		"application": ApplicationScope,
	} {
		got, err := ParseScope(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseScope("PAGE")
	assert.ErrorIs(t, err, ErrInvalidScope)
}
