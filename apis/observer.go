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

// EventKind classifies an Observer notification.
type EventKind uint8

const (
	// EventVisit is emitted once a node has been handled without cloning.
	EventVisit EventKind = iota
	// EventCyclic is emitted when a node turns into a "#" back-reference.
	EventCyclic
	// EventTypeDetected is emitted when a detect-only adapter matched.
	EventTypeDetected
	// EventReplacing is emitted right before an adapter's replace runs.
	EventReplacing
	// EventClone is emitted when a container clone is created.
	EventClone
	// EventEndIterateOwn is emitted after own members have been walked.
	EventEndIterateOwn
	// EventEndIterateIn is emitted after forced member iteration.
	EventEndIterateIn
	// EventEndIterateUnsetNumeric is emitted after Hole slots have been walked.
	EventEndIterateUnsetNumeric
)

// Event describes one step of encapsulation.
type Event struct {
	Kind    EventKind
	KeyPath string
	Value   any
	// Type is the detected adapter name, or the JSON kind of Value.
	Type string
	// Cyclic reports whether identity tracking was active for this node.
	Cyclic bool
	// CyclicKeyPath is the target of a back-reference (EventCyclic).
	CyclicKeyPath string
	// Replaced holds the walked replacement when it differs from Value.
	Replaced any
	// Clone is the container clone (EventClone).
	Clone any
	// Awaiting reports that Value is a pending deferred.
	Awaiting bool
	// Resolving reports that the node belongs to a resolved deferred.
	Resolving bool
}

// Observer receives encapsulation events. It runs synchronously inside the
// walk and must not retain Value beyond the call unless it copies it.
type Observer func(Event)
