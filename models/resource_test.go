package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	r := Resource{
		Path:         "/content/site/home",
		ResourceType: "site/page",
		LastModified: Date(time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)),
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"last_modified":"2024-03-09"`)

	var decoded Resource
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, time.Time(decoded.LastModified).Equal(time.Time(r.LastModified)))
}

func TestDate_UnmarshalInvalid(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"09/03/2024"`), &d))
	assert.NoError(t, json.Unmarshal([]byte(`null`), &d))
}

func TestResource_Accessors(t *testing.T) {
	r := &Resource{
		Path:       "/content/site/home",
		Properties: map[string]interface{}{"jcr:title": "Home"},
	}
	assert.Equal(t, "home", r.Name())
	assert.Equal(t, "Home", r.Property("jcr:title"))
	assert.Nil(t, r.Property("missing"))

	var nilResource *Resource
	assert.Nil(t, nilResource.Property("jcr:title"))
	assert.Equal(t, "", nilResource.Name())
}
