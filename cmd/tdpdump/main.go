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

// tdpdump decodes a captured binary record against a YAML-described
// layout and prints the resulting field tree, optionally fetching the
// capture from a remote host first.
package main

import (
	"flag"
	"fmt"
	"os"

	"al.essio.dev/pkg/shellescape"
	"github.com/google/uuid"
	"github.com/protocolbuffers/protoscope"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/turbopb/turbopb"
)

var (
	layoutPath = flag.String("layout", "", "path to a YAML layout description (required)")
	inPath     = flag.String("in", "", "path to a captured binary record")
	host       = flag.String("host", "", "user@host to fetch --remote from over SSH before decoding")
	remotePath = flag.String("remote", "", "remote path to fetch when --host is set")
	showWire   = flag.Bool("wire", false, "also print the raw wire bytes disassembled with protoscope")
	maxDepth   = flag.Int("max-depth", 0, "maximum sub-message nesting depth (0 uses the decoder default)")
	allowAlias = flag.Bool("alias", true, "allow decoded strings and bytes to alias the input buffer")
	forceColor = flag.Bool("color", false, "force-enable colored output even when stdout isn't a terminal")
)

func run() error {
	flag.Parse()
	if *layoutPath == "" {
		return fmt.Errorf("tdpdump: --layout is required")
	}

	runID := uuid.NewString()
	logf := func(format string, args ...any) {
		fmt.Fprintf(os.Stderr, "[%s] "+format+"\n", append([]any{runID}, args...)...)
	}

	capturePath := *inPath
	if *host != "" {
		if *remotePath == "" {
			return fmt.Errorf("tdpdump: --remote is required with --host")
		}
		logf("fetching %s from %s", *remotePath, *host)
		fetched, err := fetchRemote(*host, *remotePath)
		if err != nil {
			return err
		}
		defer os.Remove(fetched)
		capturePath = fetched
	}
	if capturePath == "" {
		return fmt.Errorf("tdpdump: --in is required (or --host and --remote)")
	}

	rawYAML, err := os.ReadFile(*layoutPath)
	if err != nil {
		return err
	}
	var raw yamlSchema
	if err := yaml.Unmarshal(rawYAML, &raw); err != nil {
		return fmt.Errorf("tdpdump: parsing %s: %w", *layoutPath, err)
	}
	sc, err := newSchema(&raw)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(capturePath)
	if err != nil {
		return err
	}

	opts := []turbopb.DecodeOption{turbopb.WithAllowAlias(*allowAlias)}
	if *maxDepth > 0 {
		opts = append(opts, turbopb.WithMaxDepth(*maxDepth))
	}

	logf("decoding %d bytes from %s against root %q", len(data), capturePath, sc.root)
	msg, err := turbopb.Decode(data, sc.layouts[sc.root], opts...)
	if err != nil {
		return fmt.Errorf("tdpdump: decode failed: %w", err)
	}

	color := *forceColor || term.IsTerminal(int(os.Stdout.Fd()))
	renderMessage(os.Stdout, msg, sc.root, sc, 0, color)

	if *showWire {
		fmt.Println()
		fmt.Println("wire bytes:")
		fmt.Println(protoscope.NewWriter(data, protoscope.WriterOptions{}).Write())
	}

	fmt.Fprintf(os.Stderr, "repro: %s\n", shellescape.QuoteCommand(os.Args))
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
