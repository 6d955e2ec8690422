package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanzi-archive/curator/internal/models"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func mockedClient(t *testing.T, token string) *Client {
	t.Helper()
	c := NewClient("http://backend", staticToken(token), 5*time.Second)
	httpmock.ActivateNonDefault(c.httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)
	return c
}

func TestClientAttachesBearerToken(t *testing.T) {
	c := mockedClient(t, "tok-123")

	var gotAuth string
	httpmock.RegisterResponder("GET", "http://backend/api/works",
		func(req *http.Request) (*http.Response, error) {
			gotAuth = req.Header.Get("Authorization")
			return httpmock.NewJsonResponse(200, []models.Work{})
		})

	_, err := c.ListWorks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestClientOmitsHeaderWhenUnauthenticated(t *testing.T) {
	c := mockedClient(t, "")

	var gotAuth string
	httpmock.RegisterResponder("GET", "http://backend/api/works",
		func(req *http.Request) (*http.Response, error) {
			gotAuth = req.Header.Get("Authorization")
			return httpmock.NewJsonResponse(200, []models.Work{})
		})

	_, err := c.ListWorks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClientDecodesErrorBodies(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"error field", 400, `{"error": "bad request"}`, "bad request"},
		{"message field", 500, `{"message": "boom"}`, "boom"},
		{"plain text", 502, "upstream gone", "upstream gone"},
		{"empty body", 503, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := mockedClient(t, "tok")
			httpmock.RegisterResponder("GET", "http://backend/api/works",
				httpmock.NewStringResponder(tt.status, tt.body))

			_, err := c.ListWorks(context.Background())
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
		})
	}
}

func TestIsUnauthorized(t *testing.T) {
	assert.True(t, IsUnauthorized(&APIError{StatusCode: 401}))
	assert.True(t, IsUnauthorized(&APIError{StatusCode: 403}))
	assert.False(t, IsUnauthorized(&APIError{StatusCode: 500}))
	assert.False(t, IsUnauthorized(context.Canceled))
}

func TestLogin(t *testing.T) {
	c := mockedClient(t, "")

	httpmock.RegisterResponder("POST", "http://backend/api/login",
		func(req *http.Request) (*http.Response, error) {
			var body map[string]string
			require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
			assert.Equal(t, "admin", body["username"])
			assert.Equal(t, "secret", body["password"])
			return httpmock.NewJsonResponse(200, models.Identity{
				Username: "admin",
				IsAdmin:  true,
				Token:    "tok-456",
			})
		})

	id, err := c.Login(context.Background(), "admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-456", id.Token)
	assert.True(t, id.IsAdmin)
}

func TestDetectSendsMultipart(t *testing.T) {
	c := mockedClient(t, "tok")

	httpmock.RegisterResponder("POST", "http://backend/api/ocr/detect",
		func(req *http.Request) (*http.Response, error) {
			require.NoError(t, req.ParseMultipartForm(1<<20))
			assert.Equal(t, "paddle", req.FormValue("ocrSource"))

			file, header, err := req.FormFile("calligraphy")
			require.NoError(t, err)
			defer file.Close()
			assert.Equal(t, "shufa.jpg", header.Filename)

			return httpmock.NewJsonResponse(200, map[string]any{
				"ocrResults": []models.Detection{
					{ID: "d1", Text: "永", Confidence: 95},
				},
			})
		})

	detections, err := c.Detect(context.Background(), strings.NewReader("image-bytes"), "shufa.jpg", "paddle")
	require.NoError(t, err)
	require.Len(t, detections, 1)
	assert.Equal(t, "永", detections[0].Text)
}

func TestUploadSendsMetadataAndAnnotations(t *testing.T) {
	c := mockedClient(t, "tok")

	httpmock.RegisterResponder("POST", "http://backend/api/upload",
		func(req *http.Request) (*http.Response, error) {
			require.NoError(t, req.ParseMultipartForm(1<<20))

			assert.Equal(t, "王羲之", req.FormValue("workAuthor"))
			assert.Equal(t, "晋代", req.FormValue("groupName"))
			assert.Equal(t, "true", req.FormValue("enableOCR"))

			var tags []string
			require.NoError(t, json.Unmarshal([]byte(req.FormValue("tags")), &tags))
			assert.Equal(t, []string{"行书"}, tags)

			var confirmed []models.ConfirmedAnnotation
			require.NoError(t, json.Unmarshal([]byte(req.FormValue("confirmedAnnotations")), &confirmed))
			require.Len(t, confirmed, 1)
			assert.Equal(t, "永", confirmed[0].Text)

			return httpmock.NewJsonResponse(200, models.UploadResult{FileID: "f1"})
		})

	result, err := c.Upload(context.Background(), UploadRequest{
		File:      strings.NewReader("image-bytes"),
		Filename:  "shufa.jpg",
		Author:    "王羲之",
		Tags:      []string{"行书"},
		GroupName: "晋代",
		EnableOCR: true,
		ConfirmedAnnotations: []models.ConfirmedAnnotation{
			{Detection: models.Detection{ID: "d1", Text: "永", Confidence: 95}, Confirmed: true},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "f1", result.FileID)
}

func TestUploadEncodesNilSlicesAsEmptyArrays(t *testing.T) {
	c := mockedClient(t, "tok")

	httpmock.RegisterResponder("POST", "http://backend/api/upload",
		func(req *http.Request) (*http.Response, error) {
			require.NoError(t, req.ParseMultipartForm(1<<20))
			assert.Equal(t, "[]", req.FormValue("tags"))
			assert.Equal(t, "[]", req.FormValue("confirmedAnnotations"))
			return httpmock.NewJsonResponse(200, models.UploadResult{FileID: "f1"})
		})

	_, err := c.Upload(context.Background(), UploadRequest{
		File:     strings.NewReader("x"),
		Filename: "a.jpg",
	})
	require.NoError(t, err)
}

func TestCropImageQuery(t *testing.T) {
	c := mockedClient(t, "tok")

	httpmock.RegisterResponder("GET", "http://backend/api/crop-image",
		func(req *http.Request) (*http.Response, error) {
			q := req.URL.Query()
			assert.Equal(t, "shufa.jpg", q.Get("filename"))
			assert.Equal(t, "10.5", q.Get("x"))
			assert.Equal(t, "20", q.Get("y"))
			assert.Equal(t, "100", q.Get("width"))
			assert.Equal(t, "120", q.Get("height"))
			return httpmock.NewStringResponse(200, "jpeg-bytes"), nil
		})

	data, err := c.CropImage(context.Background(), "shufa.jpg", 10.5, 20, 100, 120)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)
}

func TestUpdateHomepageFillsMissingKey(t *testing.T) {
	c := mockedClient(t, "tok")

	// some backends answer the PUT with an empty object
	httpmock.RegisterResponder("PUT", "http://backend/api/admin/homepage/hero_title",
		httpmock.NewStringResponder(200, `{}`))

	item, err := c.UpdateHomepage(context.Background(), "hero_title", "新标题")
	require.NoError(t, err)
	assert.Equal(t, "hero_title", item.ContentKey)
	assert.Equal(t, "新标题", item.ContentValue)
}
