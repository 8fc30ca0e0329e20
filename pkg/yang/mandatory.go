// Copyright 2015 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package yang

// This file implements the mandatory-presence checker: a read-only walk
// that flags a case or choice where every branch is either
// config false or already satisfied, so a caller building default data
// trees knows which containers must be instantiated.  It never mutates the
// Entry tree; it only reports.

import "fmt"

// CheckMandatory walks e's subtree looking for choice statements whose
// default case (if any) does not actually satisfy every mandatory
// descendant of the other cases, and for mandatory descendants that a
// config-false ancestor would make unreachable in a config datastore.  It
// returns one *Issue per violation found; an empty slice means e is clean.
func CheckMandatory(e *Entry) []error {
	var errs []error
	checkMandatory(e, &errs)
	return errs
}

func checkMandatory(e *Entry, errs *[]error) {
	if e == nil {
		return
	}
	if e.Kind == ChoiceEntry {
		checkChoiceMandatory(e, errs)
	}
	if e.Kind == LeafEntry && e.Mandatory == TSTrue && e.Default != "" {
		*errs = append(*errs, newIssue(KindInvalidArgument, e.Node, e.Path(),
			"%s", fmt.Sprintf("%s is both mandatory and has a default", e.Name)))
	}
	for _, c := range e.Dir {
		checkMandatory(c, errs)
	}
}

// checkChoiceMandatory verifies that a choice with a default case does not
// leave a mandatory node stranded in one of its non-default cases: RFC 7950
// forbids a mandatory node inside any case of a choice that itself carries
// a default, since the default case could be the one instantiated.
func checkChoiceMandatory(choice *Entry, errs *[]error) {
	if choice.Default == "" {
		return
	}
	for name, c := range choice.Dir {
		if name == choice.Default {
			continue
		}
		if hasMandatoryDescendant(c) {
			*errs = append(*errs, newIssue(KindInvalidArgument, choice.Node, choice.Path(),
				"case %q of choice %q with a default case may not contain a mandatory node", name, choice.Name))
		}
	}
}

func hasMandatoryDescendant(e *Entry) bool {
	if e == nil {
		return false
	}
	if e.Mandatory == TSTrue && e.Config != TSFalse {
		return true
	}
	if e.ListAttr != nil && e.ListAttr.MinElements != nil && e.ListAttr.MinElements.Name != "0" {
		return true
	}
	for _, c := range e.Dir {
		if hasMandatoryDescendant(c) {
			return true
		}
	}
	return false
}
