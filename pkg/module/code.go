package module

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Azure/aace/pkg/config"
	"github.com/Azure/aace/pkg/models"
)

const bundleStampFile = ".lastUpdated"

// codeUrlExpire how long a staged bundle's signed url stays valid, long
// enough for the platform to pick it up
const codeUrlExpire = 24 * time.Hour

// ProjectUrlGetter the control plane call that hands out a signed bundle url.
type ProjectUrlGetter interface {
	GetProjectFileUrl(ctx context.Context, subscriptionId, versionName string) (string, error)
}

// bundleStager the artifact bucket operations bundle staging needs.
type bundleStager interface {
	UploadFile(ossKey, localFile string) error
	SignUrl(ossKey string, expires time.Duration) (string, error)
}

// CodeManager local project bundle cache, keyed by product/deployment/version
// and refreshed only when the api version's LastUpdatedTime moves forward.
// With an artifact bucket configured the zip is also staged there so the job
// platform can fetch it by signed url.
type CodeManager struct {
	cacheDir  string
	urls      ProjectUrlGetter
	artifacts bundleStager
}

func NewCodeManager(cacheDir string, urls ProjectUrlGetter, artifacts bundleStager) *CodeManager {
	return &CodeManager{cacheDir: cacheDir, urls: urls, artifacts: artifacts}
}

// EnsureBundle make the version's project bundle available locally, fetching
// only when stale. Returns the local directory and, when an artifact bucket
// is configured, a signed url the platform can fetch the zip from.
func (m *CodeManager) EnsureBundle(ctx context.Context, subscriptionId string, version *models.APIVersion) (string, string, error) {
	dir := filepath.Join(m.cacheDir, version.ProductName, version.DeploymentName, version.VersionName)
	ossKey := fmt.Sprintf("codes/%s/%s/%s.zip", version.ProductName, version.DeploymentName, version.VersionName)

	if m.isFresh(dir, version.LastUpdatedTime) {
		return dir, m.signBundleUrl(ossKey), nil
	}

	signedUrl, err := m.urls.GetProjectFileUrl(ctx, subscriptionId, version.VersionName)
	if err != nil {
		return "", "", NewServerError("get project file url", err)
	}
	zipPath, err := m.download(ctx, signedUrl)
	if err != nil {
		return "", "", NewServerError("download project bundle", err)
	}
	defer os.Remove(zipPath)

	if err := os.RemoveAll(dir); err != nil {
		return "", "", err
	}
	if err := unzip(zipPath, dir); err != nil {
		return "", "", NewServerError("unpack project bundle", err)
	}
	if m.artifacts != nil {
		if err := m.artifacts.UploadFile(ossKey, zipPath); err != nil {
			return "", "", NewServerError("stage project bundle", err)
		}
	}

	// the stamp marks a fully usable copy, staging included
	if err := os.WriteFile(filepath.Join(dir, bundleStampFile), []byte(version.LastUpdatedTime), 0644); err != nil {
		return "", "", err
	}
	return dir, m.signBundleUrl(ossKey), nil
}

// isFresh the cached copy is usable when its stamp is at least as new as
// the version record. Timestamps are ISO-8601, string compare is enough.
func (m *CodeManager) isFresh(dir, lastUpdated string) bool {
	data, err := os.ReadFile(filepath.Join(dir, bundleStampFile))
	if err != nil {
		return false
	}
	return string(data) >= lastUpdated
}

func (m *CodeManager) signBundleUrl(ossKey string) string {
	if m.artifacts == nil {
		return ""
	}
	signedUrl, err := m.artifacts.SignUrl(ossKey, codeUrlExpire)
	if err != nil {
		return ""
	}
	return signedUrl
}

func (m *CodeManager) download(ctx context.Context, signedUrl string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, signedUrl, nil)
	if err != nil {
		return "", err
	}
	client := &http.Client{Timeout: config.HTTPTIMEOUT}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetch bundle: status %d", resp.StatusCode)
	}
	file, err := os.CreateTemp("", "bundle-*.zip")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", err
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return "", err
	}
	return file.Name(), nil
}

// unzip extract an archive, stripping a single shared root directory when
// present so the entry point scripts land at the top level.
func unzip(zipPath, destDir string) error {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	root := sharedRoot(reader.File)
	for _, entry := range reader.File {
		name := entry.Name
		if root != "" {
			name = strings.TrimPrefix(name, root)
		}
		if name == "" {
			continue
		}
		target := filepath.Join(destDir, filepath.Clean(name))
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("illegal archive path: %s", entry.Name)
		}
		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		src, err := entry.Open()
		if err != nil {
			return err
		}
		mode := entry.Mode()
		if mode&0777 == 0 {
			mode = 0644
		}
		dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
		if err != nil {
			src.Close()
			return err
		}
		_, err = io.Copy(dst, src)
		src.Close()
		dst.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func sharedRoot(entries []*zip.File) string {
	root := ""
	for _, entry := range entries {
		parts := strings.SplitN(entry.Name, "/", 2)
		if len(parts) < 2 {
			return ""
		}
		if root == "" {
			root = parts[0]
		} else if parts[0] != root {
			return ""
		}
	}
	if root == "" {
		return ""
	}
	return root + "/"
}
