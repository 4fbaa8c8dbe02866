package module

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Azure/aace/pkg/config"
	"github.com/Azure/aace/pkg/models"
)

func makeZip(t *testing.T, files map[string]string) []byte {
	buffer := &bytes.Buffer{}
	writer := zip.NewWriter(buffer)
	for name, content := range files {
		entry, err := writer.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := entry.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	return buffer.Bytes()
}

type staticUrls struct {
	url   string
	calls int
}

func (s *staticUrls) GetProjectFileUrl(_ context.Context, _, _ string) (string, error) {
	s.calls++
	return s.url, nil
}

func TestEnsureBundleFetchAndCache(t *testing.T) {
	config.ConfigGlobal = config.DefaultConfig()
	archive := makeZip(t, map[string]string{
		"project/train.py":     "print('train')",
		"project/requirements": "torch",
	})
	downloads := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		downloads++
		w.Write(archive)
	}))
	defer server.Close()

	urls := &staticUrls{url: server.URL}
	manager := NewCodeManager(t.TempDir(), urls, nil)
	version := &models.APIVersion{
		ProductName:     "prod",
		DeploymentName:  "dep",
		VersionName:     "v1",
		LastUpdatedTime: "2023-01-01T00:00:00Z",
	}

	dir, codeUrl, err := manager.EnsureBundle(context.Background(), "sub1", version)
	assert.Nil(t, err)
	assert.Equal(t, "", codeUrl)
	assert.Equal(t, 1, downloads)

	// the shared root is stripped
	content, err := os.ReadFile(filepath.Join(dir, "train.py"))
	assert.Nil(t, err)
	assert.Equal(t, "print('train')", string(content))

	// fresh copy, no refetch
	_, _, err = manager.EnsureBundle(context.Background(), "sub1", version)
	assert.Nil(t, err)
	assert.Equal(t, 1, downloads)

	// a newer version forces a refetch
	version.LastUpdatedTime = "2024-01-01T00:00:00Z"
	_, _, err = manager.EnsureBundle(context.Background(), "sub1", version)
	assert.Nil(t, err)
	assert.Equal(t, 2, downloads)
}

type recordingStager struct {
	uploads    int
	failUpload bool
}

func (s *recordingStager) UploadFile(string, string) error {
	s.uploads++
	if s.failUpload {
		return errors.New("bucket unavailable")
	}
	return nil
}

func (s *recordingStager) SignUrl(ossKey string, _ time.Duration) (string, error) {
	return "https://signed.example/" + ossKey, nil
}

func TestEnsureBundleStagesBeforeStamping(t *testing.T) {
	config.ConfigGlobal = config.DefaultConfig()
	archive := makeZip(t, map[string]string{"train.py": "print('train')"})
	downloads := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		downloads++
		w.Write(archive)
	}))
	defer server.Close()

	stager := &recordingStager{failUpload: true}
	manager := NewCodeManager(t.TempDir(), &staticUrls{url: server.URL}, stager)
	version := &models.APIVersion{
		ProductName:     "prod",
		DeploymentName:  "dep",
		VersionName:     "v1",
		LastUpdatedTime: "2023-01-01T00:00:00Z",
	}

	_, _, err := manager.EnsureBundle(context.Background(), "sub1", version)
	assert.NotNil(t, err)
	assert.Equal(t, 1, stager.uploads)

	// a failed staging must not leave a freshness stamp behind, the next
	// call retries the whole fetch instead of signing a missing object
	stager.failUpload = false
	_, codeUrl, err := manager.EnsureBundle(context.Background(), "sub1", version)
	assert.Nil(t, err)
	assert.Equal(t, 2, downloads)
	assert.Equal(t, 2, stager.uploads)
	assert.Equal(t, "https://signed.example/codes/prod/dep/v1.zip", codeUrl)

	// now stamped, the fresh path signs without refetching or restaging
	_, codeUrl, err = manager.EnsureBundle(context.Background(), "sub1", version)
	assert.Nil(t, err)
	assert.Equal(t, 2, downloads)
	assert.Equal(t, 2, stager.uploads)
	assert.NotEqual(t, "", codeUrl)
}

func TestEnsureBundleRejectsEscapingPaths(t *testing.T) {
	config.ConfigGlobal = config.DefaultConfig()
	archive := makeZip(t, map[string]string{
		"ok.txt":          "fine",
		"../escape/pwned": "nope",
	})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(archive)
	}))
	defer server.Close()

	manager := NewCodeManager(t.TempDir(), &staticUrls{url: server.URL}, nil)
	version := &models.APIVersion{
		ProductName:     "prod",
		DeploymentName:  "dep",
		VersionName:     "v1",
		LastUpdatedTime: "2023-01-01T00:00:00Z",
	}
	_, _, err := manager.EnsureBundle(context.Background(), "sub1", version)
	assert.NotNil(t, err)
}
