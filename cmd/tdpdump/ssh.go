// Copyright 2026 The Turbopb Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/melbahja/goph"
)

// fetchRemote downloads remotePath from hostSpec (a "user@host" string)
// over SSH into a local temp file and returns its path. Authentication
// goes through whatever keys are already loaded into the local SSH agent;
// host-key checking is skipped, since this is a development convenience
// for pulling down a capture, not a trust boundary.
func fetchRemote(hostSpec, remotePath string) (string, error) {
	user, addr, ok := strings.Cut(hostSpec, "@")
	if !ok {
		return "", fmt.Errorf("tdpdump: --host must be user@host, got %q", hostSpec)
	}

	auth, err := goph.UseAgent()
	if err != nil {
		return "", fmt.Errorf("tdpdump: ssh agent unavailable: %w", err)
	}

	client, err := goph.NewUnknown(user, addr, auth)
	if err != nil {
		return "", fmt.Errorf("tdpdump: could not dial %s: %w", hostSpec, err)
	}
	defer client.Close()

	local, err := os.CreateTemp("", "tdpdump-capture-*.bin")
	if err != nil {
		return "", err
	}
	local.Close()

	if err := client.Download(remotePath, local.Name()); err != nil {
		os.Remove(local.Name())
		return "", fmt.Errorf("tdpdump: could not fetch %s from %s: %w", remotePath, hostSpec, err)
	}
	return local.Name(), nil
}
