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


package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/impresso/impresso-text-embedder/storage"
)

// Uploader writes a local artifact to object storage, gated on a remote
// existence check so a previously produced artifact is never overwritten.
type Uploader struct {
	store     storage.ObjectStore
	credCheck func() error
	logger    *slog.Logger
}

// NewUploader creates an uploader. credCheck may be nil when the backend
// carries no credential configuration to verify (e.g. test doubles).
func NewUploader(store storage.ObjectStore, credCheck func() error) *Uploader {
	return &Uploader{
		store:     store,
		credCheck: credCheck,
		logger:    slog.Default().With("component", "uploader"),
	}
}

// Exists probes the remote locator. Errors other than "not found" wrap
// storage.ErrRemoteProbe and are fatal to the caller.
func (u *Uploader) Exists(ctx context.Context, locator string) (bool, error) {
	bucket, key, err := storage.ParsePath(locator)
	if err != nil {
		return false, err
	}
	return u.store.ObjectExists(ctx, bucket, key)
}

// Upload sends the local file to the remote locator unless the remote object
// already exists, in which case it logs and returns nil (idempotent no-op).
//
// Failure kinds are distinguishable via errors.Is: storage.ErrInvalidPath,
// storage.ErrRemoteProbe (existence check failed), storage.ErrLocalFileMissing,
// storage.ErrMissingCredentials, storage.ErrPartialCredentials, or a wrapped
// backend error.
func (u *Uploader) Upload(ctx context.Context, localPath, locator string) error {
	bucket, key, err := storage.ParsePath(locator)
	if err != nil {
		return err
	}

	exists, err := u.store.ObjectExists(ctx, bucket, key)
	if err != nil {
		return err
	}
	if exists {
		u.logger.Warn("remote object already exists, skipping upload",
			"bucket", bucket, "key", key)
		return nil
	}

	if u.credCheck != nil {
		if err := u.credCheck(); err != nil {
			return err
		}
	}

	f, err := os.Open(localPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", storage.ErrLocalFileMissing, localPath)
		}
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	u.logger.Info("uploading", "local", localPath, "bucket", bucket, "key", key)
	if err := u.store.PutObject(ctx, bucket, key, f); err != nil {
		return err
	}

	u.logger.Info("successfully uploaded", "local", localPath, "bucket", bucket, "key", key)
	return nil
}
