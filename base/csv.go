// Copyright 2026 courserec Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package base

import (
	"bufio"
	"strings"

	"github.com/juju/errors"
)

const byteOrderMark = "\ufeff"

// ValidateId validates a course id. Id cannot be blank.
func ValidateId(text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.NotValidf("empty id")
	}
	return nil
}

// ReadLines parses the fields of each record of a csv stream. A quoted field may span
// several physical lines. The handler receives the record number and its fields;
// returning an error stops the scan and the error is passed through.
func ReadLines(sc *bufio.Scanner, sep rune, handler func(int, []string) error) error {
	recordCount := 0             // number of the current record
	fields := make([]string, 0)  // fields of the current record
	builder := strings.Builder{} // current field
	quoted := false              // whether the current position is inside quotes
	first := true
	for sc.Scan() {
		lineStr := sc.Text()
		if first {
			lineStr = strings.TrimPrefix(lineStr, byteOrderMark)
			first = false
		}
		line := []rune(strings.TrimSuffix(lineStr, "\r"))
		if quoted {
			builder.WriteRune('\n')
		}
		for i := 0; i < len(line); i++ {
			if line[i] == sep && !quoted {
				fields = append(fields, builder.String())
				builder.Reset()
			} else if line[i] == '"' {
				if quoted {
					if i+1 >= len(line) || line[i+1] != '"' {
						quoted = false
					} else {
						i++
						builder.WriteRune('"')
					}
				} else {
					quoted = true
				}
			} else {
				builder.WriteRune(line[i])
			}
		}
		if !quoted {
			fields = append(fields, builder.String())
			builder.Reset()
			// skip blank lines
			if len(fields) > 1 || fields[0] != "" {
				if err := handler(recordCount, fields); err != nil {
					return err
				}
				recordCount++
			}
			fields = []string{}
		}
	}
	if err := sc.Err(); err != nil {
		return errors.Trace(err)
	}
	if quoted {
		return errors.NotValidf("unterminated quoted field in record %d", recordCount)
	}
	return nil
}
