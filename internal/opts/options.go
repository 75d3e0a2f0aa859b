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

package opts

import (
	"github.com/sirupsen/logrus"
)

type Options struct {
	Verify           bool
	SimplifyAfterSSA bool
	RemapBlocks      bool
	PruneDead        bool
	TypeCheck        bool
	Logger           *logrus.Entry
}

// Log returns the logger passes report to, falling back to the standard
// logger when none was set.
func (self *Options) Log() *logrus.Entry {
	if self.Logger != nil {
		return self.Logger
	} else {
		return logrus.NewEntry(logrus.StandardLogger())
	}
}

func GetDefaultOptions() Options {
	return Options{
		Verify:           Verify,
		SimplifyAfterSSA: SimplifyAfterSSA,
		RemapBlocks:      RemapBlocks,
		PruneDead:        PruneDead,
		TypeCheck:        TypeCheck,
	}
}
