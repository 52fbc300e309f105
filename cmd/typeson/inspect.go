/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"dirpx.dev/typeson/apis"
	"dirpx.dev/typeson/registry"
	"dirpx.dev/typeson/reviver"
)

type inspectOpts struct {
	from formatValue
}

func newInspectCmd(root *rootOpts) *cobra.Command {
	o := &inspectOpts{}
	cmd := &cobra.Command{
		Use:   "inspect [FILE]",
		Short: "Print the type annotations of a document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			}
			data, err := readInput(path, cmd.InOrStdin())
			if err != nil {
				return err
			}
			tree, err := decode(data, apis.Format(o.from))
			if err != nil {
				return err
			}
			return inspect(cmd.OutOrStdout(), root.engine.Registry(), tree)
		},
	}
	addInputFlags(cmd.Flags(), &o.from)
	return cmd
}

// inspect lists every annotated key path with its type chain, then the
// distinct type names and whether the registry can revive them.
func inspect(w io.Writer, reg apis.Registry, tree any) error {
	types, ok := reviver.Annotations(tree)
	if !ok {
		_, err := fmt.Fprintln(w, "no type annotations")
		return err
	}

	paths := make([]string, 0, len(types))
	for kp := range types {
		paths = append(paths, kp)
	}
	sort.Strings(paths)

	var seen []string
	for _, kp := range paths {
		chain := chainOf(types[kp])
		for _, name := range chain {
			if !contains(seen, name) {
				seen = append(seen, name)
			}
		}
		label := kp
		if label == "" {
			label = "(root)"
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\n", label, strings.Join(chain, " <- ")); err != nil {
			return err
		}
	}

	sort.Strings(seen)
	for _, name := range seen {
		status := "registered"
		switch _, ok := reg.Reviver(name); {
		case name == registry.CyclicTypeName:
			status = "reference"
		case !ok:
			status = "unregistered"
		}
		if _, err := fmt.Fprintf(w, "type %s\t%s\n", name, status); err != nil {
			return err
		}
	}
	return nil
}

func chainOf(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, n := range t {
			if s, ok := n.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
