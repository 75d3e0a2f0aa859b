/*
 * Copyright 2022 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package utils

import (
	"fmt"
)

// InvariantError occures when a pass finds the program in a state that no
// correct upstream pass could have produced. It is always raised with panic.
type InvariantError struct {
	Pass   string
	Reason string
}

func (self InvariantError) Error() string {
	if self.Pass == "" {
		return "invariant violation: " + self.Reason
	} else {
		return fmt.Sprintf("invariant violation in %s: %s", self.Pass, self.Reason)
	}
}

func EInvariant(pass string, reason string) InvariantError {
	return InvariantError{
		Pass:   pass,
		Reason: reason,
	}
}

// Fatalf aborts the current compilation with an InvariantError.
func Fatalf(pass string, format string, args ...interface{}) {
	panic(EInvariant(pass, fmt.Sprintf(format, args...)))
}

// Recover turns an InvariantError panic into an error value, and re-panics
// with anything else. It must be called directly by a deferred function.
func Recover(err *error, v interface{}) {
	if v == nil {
		return
	} else if e, ok := v.(InvariantError); ok {
		*err = e
	} else {
		panic(v)
	}
}
