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
	"strings"

	"github.com/spf13/cobra"

	"dirpx.dev/typeson/apis"
	"dirpx.dev/typeson/config"
	"dirpx.dev/typeson/wire"
)

type convertOpts struct {
	from   formatValue
	to     formatValue
	indent int
	output string
	zstd   bool
	raw    bool
}

func newConvertCmd(root *rootOpts) *cobra.Command {
	o := &convertOpts{}
	cmd := &cobra.Command{
		Use:   "convert [FILE]",
		Short: "Re-encode a document in another wire format",
		Long: `Reads an encapsulated document from FILE or stdin, revives it with the
registered presets and encapsulates it again in the output format.

  typeson convert -f json -t cbor --zstd -o doc.cbor.zst doc.json
  typeson convert -f cbor -t json --indent 2 doc.cbor.zst`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			}
			data, err := readInput(path, cmd.InOrStdin())
			if err != nil {
				return err
			}
			out, err := o.convert(root, data)
			if err != nil {
				return err
			}
			root.log.WithFields(map[string]any{"from": o.from, "to": o.to, "bytes": len(out)}).Debug("converted")
			return writeOutput(o.output, cmd.OutOrStdout(), out, o.zstd)
		},
	}
	fs := cmd.Flags()
	addInputFlags(fs, &o.from)
	o.to = formatValue(apis.FormatJSON)
	fs.VarP(&o.to, "to", "t", "output format: json or cbor")
	fs.IntVar(&o.indent, "indent", 0, "indent JSON output by this many spaces")
	fs.StringVarP(&o.output, "output", "o", "", "output file (default stdout)")
	fs.BoolVar(&o.zstd, "zstd", false, "compress the output with zstandard")
	fs.BoolVar(&o.raw, "raw", false, "re-encode the tree without reviving it")
	return cmd
}

func (o *convertOpts) convert(root *rootOpts, data []byte) ([]byte, error) {
	tree, err := decode(data, apis.Format(o.from))
	if err != nil {
		return nil, err
	}
	opts := []config.Option{
		config.WithFormat(apis.Format(o.to)),
		config.WithIndent(strings.Repeat(" ", o.indent)),
	}

	var out []byte
	if o.raw {
		codec, err := wire.For(config.NewConfig(opts...))
		if err != nil {
			return nil, err
		}
		out, err = codec.Marshal(tree)
		if err != nil {
			return nil, err
		}
	} else {
		v, err := root.engine.Revive(tree)
		if err != nil {
			return nil, err
		}
		out, err = root.engine.Marshal(v, opts...)
		if err != nil {
			return nil, err
		}
	}
	if apis.Format(o.to) != apis.FormatCBOR {
		out = append(out, '\n')
	}
	return out, nil
}
