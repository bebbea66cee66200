// Package updatecheck looks up the latest released version, caching the
// answer through the expiring store so the backend is asked at most
// once a day.
package updatecheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/mod/semver"

	"github.com/colonyops/pulse/internal/api"
	"github.com/colonyops/pulse/internal/core/kv"
)

const (
	cacheTTL       = 24 * time.Hour
	cacheNamespace = "update-check"
	cacheKey       = "latest"
)

// Overridable in tests.
var releaseURL = "https://api.github.com/repos/colonyops/pulse/releases/latest"

// ReleaseInfo holds cached release data returned by the release API.
type ReleaseInfo struct {
	TagName     string `json:"tag_name"`
	PublishedAt string `json:"published_at"`
}

// Result is returned when a newer version is available.
type Result struct {
	Current string
	Latest  string
}

// Check compares currentVersion to the latest release and returns a
// non-nil Result only when an update is available. Failures are logged
// and swallowed; an update check must never break the host.
func Check(ctx context.Context, client *api.Client, kvStore kv.KV, currentVersion string) (*Result, error) {
	if client == nil || kvStore == nil || currentVersion == "" || currentVersion == "dev" {
		return nil, nil
	}

	normalizedCurrent, ok := normalizeVersion(currentVersion)
	if !ok {
		log.Debug().Str("version", currentVersion).Msg("update check: invalid current version")
		return nil, nil
	}

	release, err := getLatestRelease(ctx, client, kvStore)
	if err != nil {
		log.Debug().Err(err).Msg("update check: failed to get latest release")
		return nil, nil
	}

	normalizedLatest, ok := normalizeVersion(release.TagName)
	if !ok {
		log.Debug().Str("tag", release.TagName).Msg("update check: invalid release tag")
		return nil, nil
	}

	if semver.Compare(normalizedCurrent, normalizedLatest) >= 0 {
		return nil, nil
	}

	return &Result{Current: normalizedCurrent, Latest: normalizedLatest}, nil
}

func getLatestRelease(ctx context.Context, client *api.Client, kvStore kv.KV) (ReleaseInfo, error) {
	cache := kv.Scoped[ReleaseInfo](kvStore, cacheNamespace)

	cached, ok, err := cache.Get(ctx, cacheKey)
	if err != nil {
		log.Debug().Err(err).Msg("update check: cache read failed")
	}
	if ok {
		return cached, nil
	}

	info, ferr := fetchRelease(ctx, client)
	if ferr != nil {
		return ReleaseInfo{}, ferr
	}

	if err := cache.SetTTL(ctx, cacheKey, info, cacheTTL); err != nil {
		log.Debug().Err(err).Msg("update check: failed to cache release")
	}

	return info, nil
}

func fetchRelease(ctx context.Context, client *api.Client) (ReleaseInfo, error) {
	hdr := http.Header{}
	hdr.Set("Accept", "application/vnd.github+json")
	hdr.Set("User-Agent", "pulse-update-checker")

	raw, err := client.Request(ctx, http.MethodGet, releaseURL, nil, hdr)
	if err != nil {
		return ReleaseInfo{}, fmt.Errorf("fetch latest release: %w", err)
	}

	var info ReleaseInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return ReleaseInfo{}, fmt.Errorf("decode latest release: %w", err)
	}

	if info.TagName == "" {
		return ReleaseInfo{}, fmt.Errorf("decode latest release: missing tag_name")
	}

	return info, nil
}

func normalizeVersion(version string) (string, bool) {
	if semver.IsValid(version) {
		return version, true
	}

	withPrefix := "v" + version
	if semver.IsValid(withPrefix) {
		return withPrefix, true
	}

	return "", false
}
