// Copyright 2025 Impresso Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"fmt"
	"strings"
)

// Scheme is the locator prefix identifying remote object-storage paths.
const Scheme = "s3://"

// IsRemote reports whether path is a remote object-storage locator.
func IsRemote(path string) bool {
	return strings.HasPrefix(path, Scheme)
}

// ParsePath splits an "s3://bucket/key" locator into bucket and key.
// The key may itself contain "/" separators; only the first one after the
// bucket name is significant. Returns an error wrapping ErrInvalidPath when
// the scheme prefix is missing or the locator carries no key.
func ParsePath(path string) (bucket, key string, err error) {
	if !strings.HasPrefix(path, Scheme) {
		return "", "", fmt.Errorf("%w: %q must start with %q", ErrInvalidPath, path, Scheme)
	}

	rest := strings.TrimPrefix(path, Scheme)
	bucket, key, found := strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q must be in the format s3://bucket/key", ErrInvalidPath, path)
	}

	return bucket, key, nil
}

// ParsePrefix splits an "s3://bucket/prefix" locator into bucket and prefix.
// Unlike ParsePath, the prefix may be empty, so "s3://bucket" addresses a
// whole bucket.
func ParsePrefix(path string) (bucket, prefix string, err error) {
	if !strings.HasPrefix(path, Scheme) {
		return "", "", fmt.Errorf("%w: %q must start with %q", ErrInvalidPath, path, Scheme)
	}

	rest := strings.TrimPrefix(path, Scheme)
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("%w: %q carries no bucket name", ErrInvalidPath, path)
	}

	return bucket, prefix, nil
}
