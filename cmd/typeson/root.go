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
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"dirpx.dev/typeson"
	"dirpx.dev/typeson/config"
	"dirpx.dev/typeson/presets"
)

const defaultPreset = "builtin"

type rootOpts struct {
	cfgFile string
	presets []string
	debug   bool

	// set by the persistent pre-run
	engine *typeson.Typeson
	log    logrus.FieldLogger
}

func newRootCmd() *cobra.Command {
	o := &rootOpts{}
	cmd := &cobra.Command{
		Use:           "typeson",
		Short:         "Convert, inspect and validate type-annotated documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.init(cmd.ErrOrStderr())
		},
	}
	cmd.PersistentFlags().StringVar(&o.cfgFile, "config", "", "YAML configuration file")
	cmd.PersistentFlags().StringSliceVarP(&o.presets, "preset", "p", nil,
		"adapter preset to register, repeatable (default \"builtin\")")
	cmd.PersistentFlags().BoolVarP(&o.debug, "debug", "d", false, "turn on debug logging")
	cmd.DisableAutoGenTag = true

	cmd.AddCommand(newConvertCmd(o), newInspectCmd(o), newValidateCmd(o))
	return cmd
}

// init configures logging and assembles the engine. Presets named on the
// command line come after those of the configuration file.
func (o *rootOpts) init(stderr io.Writer) error {
	logger := logrus.New()
	logger.SetOutput(stderr)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if o.debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	o.log = logger
	opts := []config.Option{config.WithLogger(logger)}

	names := o.presets
	if o.cfgFile != "" {
		f, err := config.LoadFile(o.cfgFile)
		if err != nil {
			return err
		}
		opts = append(opts, f.Options()...)
		names = append(append([]string(nil), f.Presets...), names...)
	}
	if len(names) == 0 {
		names = []string{defaultPreset}
	}

	o.engine = typeson.New(opts...)
	for _, name := range names {
		p, ok := presets.ByName(name)
		if !ok {
			return errors.Errorf("unknown preset %q (known: %v)", name, presets.Names())
		}
		if err := o.engine.Register(p); err != nil {
			return errors.Wrapf(err, "register preset %q", name)
		}
		logger.WithField("preset", name).Debug("registered preset")
	}
	return nil
}
