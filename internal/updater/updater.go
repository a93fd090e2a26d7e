// Package updater checks GitHub for newer byebye releases and replaces the
// running binary with the release built for this OS and architecture.
package updater

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const (
	// Repo is the GitHub repository releases are published to.
	Repo = "HendryAvila/byebyeanxiety"

	// BinaryName is the executable inside each release archive.
	BinaryName = "byebye"

	checkTimeout = 10 * time.Second
)

// ErrUpToDate is returned by Update when no newer release exists.
var ErrUpToDate = errors.New("updater: already at the latest version")

// Release holds the relevant fields of a GitHub release.
type Release struct {
	TagName string  `json:"tag_name"`
	HTMLURL string  `json:"html_url"`
	Assets  []Asset `json:"assets"`
}

// Asset is a downloadable file of a release.
type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// Check is the outcome of comparing the running version with the latest
// release.
type Check struct {
	CurrentVersion  string
	LatestVersion   string
	UpdateAvailable bool
	ReleaseURL      string
}

// Updater talks to the GitHub releases API.
type Updater struct {
	// Endpoint is the latest-release URL.
	Endpoint string
	Client   *http.Client
	GOOS     string
	GOARCH   string
	// Executable returns the path of the binary to replace.
	Executable func() (string, error)
}

// New returns an Updater for the byebye repository and the current
// platform.
func New() *Updater {
	return &Updater{
		Endpoint:   "https://api.github.com/repos/" + Repo + "/releases/latest",
		Client:     &http.Client{Timeout: checkTimeout},
		GOOS:       runtime.GOOS,
		GOARCH:     runtime.GOARCH,
		Executable: os.Executable,
	}
}

func (u *Updater) latest(ctx context.Context, current string) (*Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.Endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("updater: build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", BinaryName+"/"+current)

	resp, err := u.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("updater: fetch latest release: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("updater: GitHub API returned %d", resp.StatusCode)
	}

	var rel Release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, fmt.Errorf("updater: decode release: %w", err)
	}
	return &rel, nil
}

// Check compares current with the latest release. Development builds
// never report an update.
func (u *Updater) Check(ctx context.Context, current string) (*Check, error) {
	c := &Check{CurrentVersion: normalizeVersion(current)}
	rel, err := u.latest(ctx, current)
	if err != nil {
		return c, err
	}
	c.LatestVersion = normalizeVersion(rel.TagName)
	c.ReleaseURL = rel.HTMLURL
	c.UpdateAvailable = isNewer(c.CurrentVersion, c.LatestVersion)
	return c, nil
}

// Update downloads the latest release and swaps it in for the running
// binary. It returns the installed version.
func (u *Updater) Update(ctx context.Context, current string) (string, error) {
	rel, err := u.latest(ctx, current)
	if err != nil {
		return "", err
	}
	latest := normalizeVersion(rel.TagName)
	if !isNewer(normalizeVersion(current), latest) {
		return "", ErrUpToDate
	}

	name := u.assetName(latest)
	var url string
	for _, a := range rel.Assets {
		if a.Name == name {
			url = a.BrowserDownloadURL
			break
		}
	}
	if url == "" {
		return "", fmt.Errorf("updater: no release asset for %s/%s (looking for %s)", u.GOOS, u.GOARCH, name)
	}

	archive, err := u.download(ctx, url)
	if err != nil {
		return "", err
	}
	bin, err := extractBinary(archive, name)
	if err != nil {
		return "", fmt.Errorf("updater: extract binary: %w", err)
	}
	if err := u.replace(bin); err != nil {
		return "", err
	}
	return latest, nil
}

func (u *Updater) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("updater: build download request: %w", err)
	}
	resp, err := u.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("updater: download: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("updater: download returned %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("updater: read download: %w", err)
	}
	return data, nil
}

// replace writes bin next to the executable and renames it over it. On
// Windows the running binary is moved aside to .old first.
func (u *Updater) replace(bin []byte) error {
	path, err := u.Executable()
	if err != nil {
		return fmt.Errorf("updater: find executable: %w", err)
	}
	if path, err = filepath.EvalSymlinks(path); err != nil {
		return fmt.Errorf("updater: resolve executable: %w", err)
	}

	tmp := path + ".new"
	if err := os.WriteFile(tmp, bin, 0o755); err != nil {
		return fmt.Errorf("updater: write new binary: %w", err)
	}
	if u.GOOS == "windows" {
		old := path + ".old"
		_ = os.Remove(old)
		if err := os.Rename(path, old); err != nil {
			_ = os.Remove(tmp)
			return fmt.Errorf("updater: move current binary aside: %w", err)
		}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("updater: replace binary: %w", err)
	}
	return nil
}

// assetName matches the GoReleaser archive name template.
func (u *Updater) assetName(version string) string {
	ext := "tar.gz"
	if u.GOOS == "windows" {
		ext = "zip"
	}
	return fmt.Sprintf("%s_%s_%s_%s.%s", BinaryName, version, u.GOOS, u.GOARCH, ext)
}

func isBinary(name string) bool {
	base := filepath.Base(name)
	return base == BinaryName || base == BinaryName+".exe"
}

func extractBinary(archive []byte, assetName string) ([]byte, error) {
	if strings.HasSuffix(assetName, ".zip") {
		return extractFromZip(archive)
	}
	return extractFromTarGz(archive)
}

func extractFromTarGz(archive []byte) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(archive))
	if err != nil {
		return nil, fmt.Errorf("open gzip: %w", err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read tar: %w", err)
		}
		if isBinary(hdr.Name) {
			return io.ReadAll(tr)
		}
	}
	return nil, fmt.Errorf("%s binary not found in archive", BinaryName)
}

func extractFromZip(archive []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	for _, f := range zr.File {
		if !isBinary(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		return data, err
	}
	return nil, fmt.Errorf("%s binary not found in archive", BinaryName)
}

func normalizeVersion(v string) string {
	return strings.TrimPrefix(v, "v")
}

// isNewer compares major.minor.patch numerically. "dev" is never older
// than anything.
func isNewer(current, latest string) bool {
	if current == "" || latest == "" || current == "dev" {
		return false
	}
	c, l := versionParts(current), versionParts(latest)
	for i := range c {
		if l[i] != c[i] {
			return l[i] > c[i]
		}
	}
	return false
}

func versionParts(v string) [3]int {
	var out [3]int
	for i, p := range strings.SplitN(v, ".", 3) {
		out[i] = leadingInt(p)
	}
	return out
}

// leadingInt parses the leading digits of s, so "3-rc1" is 3.
func leadingInt(s string) int {
	n := 0
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			break
		}
		n = n*10 + int(ch-'0')
	}
	return n
}
