package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func destinationForm(t *testing.T, fields map[string]string, imageName string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if imageName != "" {
		fw, err := w.CreateFormFile("image", imageName)
		require.NoError(t, err)
		_, err = fw.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, "/api/destinations", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestDestinationCreateEndpoint(t *testing.T) {
	ta := newTestApp(t, false)

	req := destinationForm(t, map[string]string{
		"name":        "Angkor Wat",
		"location":    "Siem Reap",
		"description": "Temple complex",
	}, "angkor.jpg")
	resp, env := ta.do(t, req)

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Data created successfully.", env.Message)

	var data struct {
		ID       int64   `json:"id"`
		Name     string  `json:"name"`
		Image    *string `json:"image"`
		ImageURL *string `json:"image_url"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "Angkor Wat", data.Name)
	require.NotNil(t, data.Image)
	assert.NotEmpty(t, *data.Image)
	require.NotNil(t, data.ImageURL)
	assert.Equal(t, "/uploads/"+*data.Image, *data.ImageURL)
}

func TestDestinationCreateRejectsBadImageType(t *testing.T) {
	ta := newTestApp(t, false)

	req := destinationForm(t, map[string]string{
		"name":        "Angkor Wat",
		"location":    "Siem Reap",
		"description": "Temple complex",
	}, "malware.exe")
	resp, env := ta.do(t, req)

	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, []string{"The image field must be a file of type: jpeg, png, jpg, gif."}, env.Errors["image"])
}

func TestDestinationCreateValidation(t *testing.T) {
	ta := newTestApp(t, false)

	req := destinationForm(t, map[string]string{"name": "Angkor Wat"}, "")
	resp, env := ta.do(t, req)

	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, env.Errors, "location")
	assert.Contains(t, env.Errors, "description")
}

func TestDestinationNotFound(t *testing.T) {
	ta := newTestApp(t, false)

	req, err := http.NewRequest(http.MethodGet, "/api/destinations/999999", nil)
	require.NoError(t, err)
	resp, env := ta.do(t, req)

	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, env.Success)
	assert.Equal(t, "Data not found.", env.Message)
}

func TestDestinationListPaginatedEndpoint(t *testing.T) {
	ta := newTestApp(t, false)
	for i := 0; i < 12; i++ {
		resp, _ := ta.do(t, destinationForm(t, map[string]string{
			"name":        "Place",
			"location":    "Somewhere",
			"description": "seed",
		}, ""))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	req, err := http.NewRequest(http.MethodGet, "/api/destinations?page=1&limit=5", nil)
	require.NoError(t, err)
	resp, env := ta.do(t, req)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 5)

	var meta struct {
		Page       int `json:"page"`
		Limit      int `json:"limit"`
		Total      int `json:"total"`
		TotalPages int `json:"total_pages"`
	}
	require.NotNil(t, env.Meta, "page parameter must produce pagination metadata")
	require.NoError(t, json.Unmarshal(env.Meta, &meta))
	assert.Equal(t, 1, meta.Page)
	assert.Equal(t, 12, meta.Total)
	assert.Equal(t, 3, meta.TotalPages)

	// Without a page the list is bare.
	req, err = http.NewRequest(http.MethodGet, "/api/destinations?limit=5", nil)
	require.NoError(t, err)
	_, env = ta.do(t, req)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 5)
	assert.Nil(t, env.Meta)
}

func TestDestinationDeleteEndpoint(t *testing.T) {
	ta := newTestApp(t, false)

	resp, env := ta.do(t, destinationForm(t, map[string]string{
		"name":        "Angkor Wat",
		"location":    "Siem Reap",
		"description": "Temple complex",
	}, ""))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var data struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))

	target := fmt.Sprintf("/api/destinations/%d", data.ID)
	req, err := http.NewRequest(http.MethodDelete, target, nil)
	require.NoError(t, err)
	resp, env = ta.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Data deleted successfully.", env.Message)

	req, err = http.NewRequest(http.MethodGet, target, nil)
	require.NoError(t, err)
	resp, _ = ta.do(t, req)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCatalogProtectionFlag(t *testing.T) {
	ta := newTestApp(t, true)

	req, err := http.NewRequest(http.MethodGet, "/api/destinations", nil)
	require.NoError(t, err)
	resp, env := ta.do(t, req)

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Token is missing.", env.Message)

	tok := ta.register(t, "Alice", "alice@example.com", "secret123")
	resp, _ = ta.do(t, authedRequest(t, http.MethodGet, "/api/destinations", tok))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMessageCreateEndpoint(t *testing.T) {
	ta := newTestApp(t, false)

	req := jsonRequest(t, http.MethodPost, "/api/messages", map[string]string{
		"name":    "Visitor",
		"email":   "visitor@example.com",
		"message": "When is the best season to visit?",
	})
	resp, env := ta.do(t, req)

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Data created successfully.", env.Message)
}

func TestUsersRequireToken(t *testing.T) {
	ta := newTestApp(t, false)

	req, err := http.NewRequest(http.MethodGet, "/api/users", nil)
	require.NoError(t, err)
	resp, env := ta.do(t, req)

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Token is missing.", env.Message)

	tok := ta.register(t, "Alice", "alice@example.com", "secret123")
	resp, _ = ta.do(t, authedRequest(t, http.MethodGet, "/api/users", tok))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
