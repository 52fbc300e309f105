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

package apis

import (
	"github.com/pkg/errors"
)

var (
	// ErrSyncAsyncMismatch is returned by strict calls when a synchronous
	// call produced pending work, or an asynchronous call produced none.
	ErrSyncAsyncMismatch = errors.New("typeson: sync/async mismatch")
	// ErrUnregisteredType is returned when revival meets a type name with no reviver.
	ErrUnregisteredType = errors.New("typeson: unregistered type")
	// ErrUnresolvedReference is returned for cyclic markers whose target never
	// materialised, when StrictReferences is set.
	ErrUnresolvedReference = errors.New("typeson: unresolved reference")
)
