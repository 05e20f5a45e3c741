/*
 *  Copyright IBM Corporation 2024
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *        http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 */

package dockerfile

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
)

// DefaultVerdictCacheSize is the number of dockerfile verdicts kept by default
const DefaultVerdictCacheSize = 4096

// VerdictCache memoizes CopiesCode by dockerfile content.
// It is safe for concurrent use. A nil cache computes every verdict.
type VerdictCache struct {
	verdicts *lru.Cache[string, bool]
}

// NewVerdictCache creates a cache holding up to size verdicts
func NewVerdictCache(size int) (*VerdictCache, error) {
	if size <= 0 {
		size = DefaultVerdictCacheSize
	}
	verdicts, err := lru.New[string, bool](size)
	if err != nil {
		return nil, err
	}
	return &VerdictCache{verdicts: verdicts}, nil
}

// CopiesCode returns the code presence verdict of the dockerfile at path
func (c *VerdictCache) CopiesCode(path string) (bool, error) {
	if c == nil {
		return CopiesCodeFile(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Debugf("Unable to read file %s : %s", path, err)
		return false, err
	}
	sum := sha256.Sum256(data)
	key := hex.EncodeToString(sum[:])
	if verdict, ok := c.verdicts.Get(key); ok {
		return verdict, nil
	}
	verdict, err := CopiesCode(bytes.NewReader(data))
	if err != nil {
		logrus.Debugf("Unable to parse file %s as Docker files : %s", path, err)
		return false, err
	}
	c.verdicts.Add(key, verdict)
	return verdict, nil
}

// Len returns the number of cached verdicts
func (c *VerdictCache) Len() int {
	if c == nil {
		return 0
	}
	return c.verdicts.Len()
}
