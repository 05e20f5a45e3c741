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

package compose

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/konveyor/claim/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
)

const (
	volumesKey = "volumes"
	devicesKey = "devices"
	targetKey  = "target"
	contextKey = "context"
)

// keys whose base value gets appended as a single nested element instead of being flattened
var nestedAppendKeys = map[string]bool{
	"dns":        true,
	"dns_search": true,
	"env_file":   true,
	"tmpfs":      true,
}

type extendsConfig struct {
	File    string `yaml:"file"`
	Service string `yaml:"service"`
}

// extender resolves the extends chains of the services of one compose file
type extender struct {
	path       string
	projectDir string
	env        map[string]string
	services   map[string]interface{}
	resolved   map[string]map[string]interface{}
	// visiting is shared between the extenders of every file of a chain
	visiting map[string]bool
}

func (e *extender) resolve(name string) (map[string]interface{}, error) {
	if e.resolved == nil {
		e.resolved = map[string]map[string]interface{}{}
	}
	if e.visiting == nil {
		e.visiting = map[string]bool{}
	}
	if service, ok := e.resolved[name]; ok {
		return service, nil
	}
	raw, ok := e.services[name]
	if !ok {
		return nil, &ExtensionError{Path: e.path, Service: name, Err: errors.New("the service does not exist")}
	}
	service := map[string]interface{}{}
	switch v := raw.(type) {
	case nil:
	case map[string]interface{}:
		service = v
	default:
		return nil, &ParseError{Path: e.path, Err: fmt.Errorf("expected the service %s to be a mapping. Actual type %T", name, raw)}
	}
	extends, ok := service[extendsKey]
	if !ok {
		e.resolved[name] = service
		return service, nil
	}

	absPath, err := filepath.Abs(e.path)
	if err != nil {
		absPath = e.path
	}
	chainKey := absPath + "#" + name
	if e.visiting[chainKey] {
		return nil, &ExtensionError{Path: e.path, Service: name, Err: errors.New("the extends chain is cyclic")}
	}
	e.visiting[chainKey] = true
	defer delete(e.visiting, chainKey)

	config := extendsConfig{}
	switch v := extends.(type) {
	case string:
		config.Service = v
	case map[string]interface{}:
		if err := common.GetObjFromInterface(v, &config); err != nil {
			return nil, &ExtensionError{Path: e.path, Service: name, Err: err}
		}
	default:
		return nil, &ExtensionError{Path: e.path, Service: name, Err: fmt.Errorf("unsupported extends of type %T", extends)}
	}
	if config.Service == "" {
		return nil, &ExtensionError{Path: e.path, Service: name, Err: errors.New("extends does not name a service")}
	}

	var base map[string]interface{}
	if config.File == "" {
		if config.Service == name {
			return nil, &ExtensionError{Path: e.path, Service: name, Err: errors.New("the service extends itself")}
		}
		if base, err = e.resolve(config.Service); err != nil {
			return nil, err
		}
	} else {
		if filepath.IsAbs(config.File) {
			return nil, &ExtensionError{Path: e.path, Service: name, Err: fmt.Errorf("absolute extends file %s is not supported", config.File)}
		}
		basePath := filepath.Join(e.projectDir, config.File)
		base, err = e.resolveExternal(basePath, config.Service)
		if err != nil {
			var extErr *ExtensionError
			if errors.As(err, &extErr) {
				return nil, err
			}
			return nil, &ExtensionError{Path: e.path, Service: name, Err: err}
		}
		base = rebaseBuild(base, filepath.Dir(basePath), e.projectDir)
	}
	merged := mergeServices(service, base)
	logrus.Debugf("Service %s of %s extends %s", name, e.path, config.Service)
	e.resolved[name] = merged
	return merged, nil
}

// resolveExternal resolves a service of another compose file, interpolated with the current env
func (e *extender) resolveExternal(path, name string) (map[string]interface{}, error) {
	doc, err := loadDocument(path, e.env)
	if err != nil {
		return nil, err
	}
	services, ok := doc[servicesKey].(map[string]interface{})
	if !ok {
		return nil, &ExtensionError{Path: path, Service: name, Err: errors.New("the file has no services")}
	}
	other := &extender{
		path:       path,
		projectDir: filepath.Dir(path),
		env:        e.env,
		services:   services,
		visiting:   e.visiting,
	}
	return other.resolve(name)
}

// rebaseBuild makes a relative build context of a service declared in fromDir relative to toDir
func rebaseBuild(service map[string]interface{}, fromDir, toDir string) map[string]interface{} {
	build, ok := service[buildKey]
	if !ok || fromDir == toDir {
		return service
	}
	rebase := func(context string) string {
		if isURL(context) || filepath.IsAbs(context) {
			return context
		}
		rel, err := filepath.Rel(toDir, filepath.Join(fromDir, context))
		if err != nil {
			logrus.Debugf("Unable to rebase the build context %s from %s to %s . Error: %q", context, fromDir, toDir, err)
			return context
		}
		return rel
	}
	out := make(map[string]interface{}, len(service))
	for k, v := range service {
		out[k] = v
	}
	switch v := build.(type) {
	case string:
		out[buildKey] = rebase(v)
	case map[string]interface{}:
		rebased := make(map[string]interface{}, len(v)+1)
		for k, item := range v {
			rebased[k] = item
		}
		context, _ := v[contextKey].(string)
		if context == "" {
			context = "."
		}
		rebased[contextKey] = rebase(context)
		out[buildKey] = rebased
	}
	return out
}

// mergeServices merges a base service into the service extending it. The extending service wins on conflicts.
func mergeServices(child, base map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(child)+len(base))
	for k, v := range child {
		if k == extendsKey {
			continue
		}
		merged[k] = v
	}
	for key, baseValue := range base {
		if key == extendsKey {
			continue
		}
		childValue, ok := merged[key]
		if !ok {
			merged[key] = baseValue
			continue
		}
		if nestedAppendKeys[key] {
			merged[key] = append(toList(childValue), baseValue)
			continue
		}
		switch c := childValue.(type) {
		case map[string]interface{}:
			if b, ok := baseValue.(map[string]interface{}); ok {
				merged[key] = mergeMaps(c, b)
			}
		case []interface{}:
			b, ok := baseValue.([]interface{})
			if !ok {
				continue
			}
			if key == volumesKey || key == devicesKey {
				merged[key] = mergeByTarget(c, b)
			} else {
				merged[key] = mergeLists(c, b)
			}
		}
	}
	return merged
}

func mergeMaps(child, base map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(child)+len(base))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range child {
		merged[k] = v
	}
	return merged
}

func mergeLists(child, base []interface{}) []interface{} {
	merged := append([]interface{}{}, child...)
	for _, item := range base {
		found := false
		for _, existing := range merged {
			if reflect.DeepEqual(existing, item) {
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, item)
		}
	}
	return merged
}

// mergeByTarget merges mount lists, keyed by the path inside the container
func mergeByTarget(child, base []interface{}) []interface{} {
	merged := append([]interface{}{}, child...)
	targets := map[string]bool{}
	for _, item := range child {
		targets[mountTarget(item)] = true
	}
	for _, item := range base {
		target := mountTarget(item)
		if targets[target] {
			continue
		}
		targets[target] = true
		merged = append(merged, item)
	}
	return merged
}

func mountTarget(mount interface{}) string {
	switch v := mount.(type) {
	case string:
		parts := strings.SplitN(v, ":", 3)
		if len(parts) == 1 {
			return v
		}
		return parts[1]
	case map[string]interface{}:
		return cast.ToString(v[targetKey])
	default:
		return fmt.Sprintf("%v", v)
	}
}

func toList(value interface{}) []interface{} {
	if list, ok := value.([]interface{}); ok {
		return append([]interface{}{}, list...)
	}
	return []interface{}{value}
}
