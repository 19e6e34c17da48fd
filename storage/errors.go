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

import "errors"

var (
	// ErrInvalidPath indicates a malformed storage locator.
	ErrInvalidPath = errors.New("invalid storage path")

	// ErrSourceUnavailable indicates that an input source cannot be opened.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrRemoteProbe indicates that an existence check failed for a reason
	// other than "not found".
	ErrRemoteProbe = errors.New("remote probe failed")

	// ErrLocalFileMissing indicates that the local file to upload does not exist.
	ErrLocalFileMissing = errors.New("local file missing")

	// ErrMissingCredentials indicates that no storage credentials are configured.
	ErrMissingCredentials = errors.New("credentials not available")

	// ErrPartialCredentials indicates that only part of the credential pair is configured.
	ErrPartialCredentials = errors.New("incomplete credentials provided")
)
