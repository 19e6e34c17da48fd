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


// Package storage provides the object-storage abstraction layer.
//
// It defines the ObjectStore interface that decouples the pipeline and the
// stamp mirror from any concrete backend, plus locator parsing and the
// sentinel errors shared by all backends.
//
// # Constructor Return Type Pattern
//
// Public constructors in implementation packages return the ObjectStore
// interface to enforce abstraction:
//
//	store, err := s3.NewStore(ctx, s3.ConfigFromEnv())  // returns storage.ObjectStore
//
// This keeps consumers swappable between the AWS-backed implementation and
// the in-memory test double in storage/mock.
//
// # Locators
//
// Remote paths are "s3://bucket/key" locators. ParsePath splits them and
// fails fast with ErrInvalidPath on malformed input; keys may contain
// further "/" separators.
package storage
