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
	"io"
	"strings"

	"github.com/turbopb/turbopb"
)

const (
	ansiReset = "\x1b[0m"
	ansiName  = "\x1b[36m"
)

// renderMessage prints msg's fields, named and typed per specName's entry
// in sc, recursing into nested messages.
func renderMessage(w io.Writer, msg *turbopb.Message, specName string, sc *schema, indent int, color bool) {
	spec := sc.specs[specName]
	for _, f := range spec.Fields {
		renderField(w, msg, f, sc, indent, color)
	}
}

func renderField(w io.Writer, msg *turbopb.Message, f yamlField, sc *schema, indent int, color bool) {
	pad := strings.Repeat("  ", indent)
	name := f.Name
	if color {
		name = ansiName + name + ansiReset
	}

	switch strings.ToLower(f.Cardinality) {
	case "repeated", "repeated_unpacked", "repeated_packed":
		renderRepeated(w, msg, f, sc, indent, color)
		return
	case "oneof":
		if msg.GetOneofCase(f.OneofOffset) != f.Number {
			return
		}
	default:
		if !msg.HasField(f.Hasbit) {
			return
		}
	}

	switch strings.ToLower(f.Kind) {
	case "bool":
		fmt.Fprintf(w, "%s%s: %v\n", pad, name, msg.GetBool(f.Offset))
	case "int32":
		fmt.Fprintf(w, "%s%s: %d\n", pad, name, msg.GetInt32(f.Offset))
	case "int64":
		fmt.Fprintf(w, "%s%s: %d\n", pad, name, msg.GetInt64(f.Offset))
	case "uint32":
		fmt.Fprintf(w, "%s%s: %d\n", pad, name, msg.GetUint32(f.Offset))
	case "uint64":
		fmt.Fprintf(w, "%s%s: %d\n", pad, name, msg.GetUint64(f.Offset))
	case "sint32":
		fmt.Fprintf(w, "%s%s: %d\n", pad, name, msg.GetSint32(f.Offset))
	case "sint64":
		fmt.Fprintf(w, "%s%s: %d\n", pad, name, msg.GetSint64(f.Offset))
	case "fixed32":
		fmt.Fprintf(w, "%s%s: %d\n", pad, name, msg.GetFixed32(f.Offset))
	case "fixed64":
		fmt.Fprintf(w, "%s%s: %d\n", pad, name, msg.GetFixed64(f.Offset))
	case "sfixed32":
		fmt.Fprintf(w, "%s%s: %d\n", pad, name, msg.GetSfixed32(f.Offset))
	case "sfixed64":
		fmt.Fprintf(w, "%s%s: %d\n", pad, name, msg.GetSfixed64(f.Offset))
	case "float":
		fmt.Fprintf(w, "%s%s: %v\n", pad, name, msg.GetFloat(f.Offset))
	case "double":
		fmt.Fprintf(w, "%s%s: %v\n", pad, name, msg.GetDouble(f.Offset))
	case "string":
		fmt.Fprintf(w, "%s%s: %q\n", pad, name, msg.GetString(f.Offset))
	case "bytes":
		fmt.Fprintf(w, "%s%s: % x\n", pad, name, msg.GetBytes(f.Offset))
	case "message":
		sub := msg.GetMessage(f.Offset, sc.layouts[f.Submsg])
		if sub == nil {
			return
		}
		fmt.Fprintf(w, "%s%s:\n", pad, name)
		renderMessage(w, sub, f.Submsg, sc, indent+1, color)
	}
}

func renderRepeated(w io.Writer, msg *turbopb.Message, f yamlField, sc *schema, indent int, color bool) {
	pad := strings.Repeat("  ", indent)
	name := f.Name
	if color {
		name = ansiName + name + ansiReset
	}

	switch strings.ToLower(f.Kind) {
	case "bool":
		printRepeated(w, pad, name, msg.GetRepeatedBool(f.Offset))
	case "int32":
		printRepeated(w, pad, name, msg.GetRepeatedInt32(f.Offset))
	case "int64":
		printRepeated(w, pad, name, msg.GetRepeatedInt64(f.Offset))
	case "uint32":
		printRepeated(w, pad, name, msg.GetRepeatedUint32(f.Offset))
	case "uint64":
		printRepeated(w, pad, name, msg.GetRepeatedUint64(f.Offset))
	case "float":
		printRepeated(w, pad, name, msg.GetRepeatedFloat(f.Offset))
	case "double":
		printRepeated(w, pad, name, msg.GetRepeatedDouble(f.Offset))
	case "string":
		printRepeated(w, pad, name, msg.GetRepeatedString(f.Offset))
	case "bytes":
		for _, b := range msg.GetRepeatedBytes(f.Offset) {
			fmt.Fprintf(w, "%s%s: % x\n", pad, name, b)
		}
	case "message":
		for _, sub := range msg.GetRepeatedMessage(f.Offset, sc.layouts[f.Submsg]) {
			fmt.Fprintf(w, "%s%s:\n", pad, name)
			renderMessage(w, sub, f.Submsg, sc, indent+1, color)
		}
	}
}

func printRepeated[T any](w io.Writer, pad, name string, vs []T) {
	for _, v := range vs {
		fmt.Fprintf(w, "%s%s: %v\n", pad, name, v)
	}
}
