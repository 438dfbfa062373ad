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
	"strings"

	"github.com/turbopb/turbopb"
	"github.com/turbopb/turbopb/internal/tdp/compiler"
)

// yamlField is one field of a yamlMessage, as read from a layout file.
type yamlField struct {
	Number      uint32 `yaml:"number"`
	Name        string `yaml:"name"`
	Kind        string `yaml:"kind"`
	Cardinality string `yaml:"cardinality"`
	Offset      uint16 `yaml:"offset"`
	Hasbit      uint8  `yaml:"hasbit"`
	OneofOffset uint16 `yaml:"oneof_offset"`
	Submsg      string `yaml:"submsg"`
	Ceiling     string `yaml:"ceiling"`
}

// yamlMessage is one message type in a layout file.
type yamlMessage struct {
	Size   uint32      `yaml:"size"`
	Fields []yamlField `yaml:"fields"`
}

// yamlSchema is the top-level shape of a layout file: a named set of
// message types plus which one to decode the captured record as.
type yamlSchema struct {
	Messages map[string]*yamlMessage `yaml:"messages"`
	Root     string                  `yaml:"root"`
}

// schema is a yamlSchema with its messages compiled into Layouts, ready to
// decode against, alongside the field metadata render needs to print names.
type schema struct {
	specs   map[string]*yamlMessage
	layouts map[string]*turbopb.Layout
	root    string
}

// newSchema compiles raw into layouts. Message types may refer to each
// other (including themselves) by name through a field's submsg key,
// since every message's Layout shell is allocated before any of them are
// filled in, the same two-phase trick compiler.NewLayout/CompileInto
// supports directly.
func newSchema(raw *yamlSchema) (*schema, error) {
	if raw.Root == "" {
		return nil, fmt.Errorf("tdpdump: layout file has no root message")
	}
	if _, ok := raw.Messages[raw.Root]; !ok {
		return nil, fmt.Errorf("tdpdump: root message %q is not defined", raw.Root)
	}

	layouts := make(map[string]*turbopb.Layout, len(raw.Messages))
	for name, m := range raw.Messages {
		layouts[name] = compiler.NewLayout(m.Size)
	}

	for name, m := range raw.Messages {
		fields := make([]compiler.FieldSpec, 0, len(m.Fields))
		for _, f := range m.Fields {
			kind, err := parseKind(f.Kind)
			if err != nil {
				return nil, fmt.Errorf("tdpdump: message %q field %q: %w", name, f.Name, err)
			}
			card, err := parseCardinality(f.Cardinality)
			if err != nil {
				return nil, fmt.Errorf("tdpdump: message %q field %q: %w", name, f.Name, err)
			}

			var submsg *turbopb.Layout
			if f.Submsg != "" {
				var ok bool
				submsg, ok = layouts[f.Submsg]
				if !ok {
					return nil, fmt.Errorf("tdpdump: message %q field %q: unknown submsg %q", name, f.Name, f.Submsg)
				}
			}

			fields = append(fields, compiler.FieldSpec{
				Number:      f.Number,
				Kind:        kind,
				Cardinality: card,
				Offset:      f.Offset,
				Hasbit:      f.Hasbit,
				OneofOffset: f.OneofOffset,
				Submsg:      submsg,
				Ceiling:     parseCeiling(f.Ceiling),
			})
		}
		compiler.CompileInto(layouts[name], fields)
	}

	specs := make(map[string]*yamlMessage, len(raw.Messages))
	for name, m := range raw.Messages {
		specs[name] = m
	}

	return &schema{specs: specs, layouts: layouts, root: raw.Root}, nil
}

func parseKind(s string) (turbopb.Kind, error) {
	switch strings.ToLower(s) {
	case "bool":
		return turbopb.KindBool, nil
	case "int32":
		return turbopb.KindInt32, nil
	case "int64":
		return turbopb.KindInt64, nil
	case "uint32":
		return turbopb.KindUint32, nil
	case "uint64":
		return turbopb.KindUint64, nil
	case "sint32":
		return turbopb.KindSint32, nil
	case "sint64":
		return turbopb.KindSint64, nil
	case "fixed32":
		return turbopb.KindFixed32, nil
	case "fixed64":
		return turbopb.KindFixed64, nil
	case "sfixed32":
		return turbopb.KindSfixed32, nil
	case "sfixed64":
		return turbopb.KindSfixed64, nil
	case "float":
		return turbopb.KindFloat, nil
	case "double":
		return turbopb.KindDouble, nil
	case "string":
		return turbopb.KindString, nil
	case "bytes":
		return turbopb.KindBytes, nil
	case "message":
		return turbopb.KindMessage, nil
	default:
		return 0, fmt.Errorf("unknown kind %q", s)
	}
}

func parseCardinality(s string) (turbopb.Cardinality, error) {
	switch strings.ToLower(s) {
	case "", "singular":
		return turbopb.Singular, nil
	case "oneof":
		return turbopb.Oneof, nil
	case "repeated", "repeated_unpacked":
		return turbopb.RepeatedUnpacked, nil
	case "repeated_packed":
		return turbopb.RepeatedPacked, nil
	default:
		return 0, fmt.Errorf("unknown cardinality %q", s)
	}
}

func parseCeiling(s string) turbopb.Ceiling {
	switch strings.ToLower(s) {
	case "64":
		return turbopb.Ceiling64
	case "128":
		return turbopb.Ceiling128
	case "192":
		return turbopb.Ceiling192
	case "256":
		return turbopb.Ceiling256
	default:
		return turbopb.CeilingUnbounded
	}
}
