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


package stamp

import (
	"fmt"
	"log/slog"
	"os"
	"time"
)

// TruncateToMarker replaces the file's content with zero bytes while keeping
// it in place as a presence marker, and sets both its access and
// modification times to ts. A very large processed artifact can thus be
// replaced on disk by a sentinel that still carries meaningful mtime
// metadata for downstream mirroring logic.
func TruncateToMarker(path string, ts time.Time) error {
	if err := os.Truncate(path, 0); err != nil {
		return fmt.Errorf("truncate %s: %w", path, err)
	}
	if err := os.Chtimes(path, ts, ts); err != nil {
		return fmt.Errorf("set times on %s: %w", path, err)
	}

	slog.Info("truncated file to timestamp marker", "path", path, "ts", ts)
	return nil
}
