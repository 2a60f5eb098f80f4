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

package util

import (
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

func TestParseFloat(t *testing.T) {
	v, err := ParseFloat[float64](" 19.99 ")
	assert.NoError(t, err)
	assert.Equal(t, 19.99, v)
	f, err := ParseFloat[float32]("1.5")
	assert.NoError(t, err)
	assert.Equal(t, float32(1.5), f)
	_, err = ParseFloat[float64]("abc")
	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestParseInt(t *testing.T) {
	v, err := ParseInt[int]("2147")
	assert.NoError(t, err)
	assert.Equal(t, 2147, v)
	v, err = ParseInt[int]("120.0")
	assert.NoError(t, err)
	assert.Equal(t, 120, v)
	_, err = ParseInt[int]("1.5")
	assert.True(t, errors.Is(err, errors.NotValid))
	_, err = ParseInt[int]("")
	assert.True(t, errors.Is(err, errors.NotValid))
}
