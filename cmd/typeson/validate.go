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
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"dirpx.dev/typeson/apis"
	"dirpx.dev/typeson/config"
)

type validateOpts struct {
	from formatValue
	jobs int
}

func newValidateCmd(root *rootOpts) *cobra.Command {
	o := &validateOpts{}
	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check that documents revive with the registered presets",
		Long: `Revives every FILE with strict reference checking. Unregistered type
names and references that never resolve are reported per file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			errs := o.validate(root, args, cmd.InOrStdin())
			for i, path := range args {
				status := "ok"
				if errs[i] != nil {
					status = errs[i].Error()
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", path, status)
			}
			var merr *multierror.Error
			for i, err := range errs {
				if err != nil {
					merr = multierror.Append(merr, errors.Wrap(err, args[i]))
				}
			}
			return merr.ErrorOrNil()
		},
	}
	addInputFlags(cmd.Flags(), &o.from)
	cmd.Flags().IntVarP(&o.jobs, "jobs", "j", 4, "files validated concurrently")
	return cmd
}

// validate returns one error slot per path.
func (o *validateOpts) validate(root *rootOpts, paths []string, stdin io.Reader) []error {
	errs := make([]error, len(paths))
	var mu sync.Mutex
	g := new(errgroup.Group)
	if o.jobs > 0 {
		g.SetLimit(o.jobs)
	}
	for i, path := range paths {
		g.Go(func() error {
			err := validateFile(root, path, stdin, apis.Format(o.from))
			mu.Lock()
			errs[i] = err
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return errs
}

func validateFile(root *rootOpts, path string, stdin io.Reader, from apis.Format) error {
	data, err := readInput(path, stdin)
	if err != nil {
		return err
	}
	tree, err := decode(data, from)
	if err != nil {
		return err
	}
	_, err = root.engine.Revive(tree, config.WithStrictReferences(true))
	if err != nil {
		root.log.WithField("file", path).WithError(err).Debug("validation failed")
	}
	return err
}
