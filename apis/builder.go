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

// Builder composes the registry and engines used by one configuration.
// Implementations may migrate adapters from a previous registry, or ignore it.
type Builder interface {
	// BuildRegistry constructs a Registry. prev, if non-nil, is the registry
	// being replaced; ext is an optional extension payload whose meaning is
	// implementation-defined (the default builder accepts a Registrable).
	BuildRegistry(cfg Config, prev Registry, ext any) (Registry, error)
	// BuildEncapsulator constructs the encapsulation engine over reg.
	BuildEncapsulator(cfg Config, reg Registry) Encapsulator
	// BuildReviver constructs the revival engine over reg.
	BuildReviver(cfg Config, reg Registry) Reviver
}
