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
	"strings"

	"github.com/konveyor/claim/common"
	"github.com/konveyor/claim/types/microservice"
	"github.com/spf13/cast"
)

var urlPrefixes = []string{"git@", "github.com/"}

type buildConfig struct {
	Context    string `yaml:"context"`
	Dockerfile string `yaml:"dockerfile"`
}

// Normalize converts the collected services into containers.
// Relative build contexts are made relative to baseDir. Any unexpected shape fails the whole list.
func Normalize(services []RawService, baseDir string) ([]microservice.Container, error) {
	containers := make([]microservice.Container, 0, len(services))
	for _, service := range services {
		container, err := normalizeService(service, baseDir)
		if err != nil {
			return nil, &NormalizationError{Service: service.Name, Err: err}
		}
		containers = append(containers, container)
	}
	return containers, nil
}

func normalizeService(service RawService, baseDir string) (microservice.Container, error) {
	container := microservice.Container{ContainerName: service.Name}
	if image, ok := service.Config[imageKey]; ok && image != nil {
		switch image.(type) {
		case map[string]interface{}, []interface{}:
			return container, fmt.Errorf("expected the image to be a string. Actual type %T", image)
		}
		imageName, err := cast.ToStringE(image)
		if err != nil {
			return container, err
		}
		container.Image = stripImageTag(imageName)
	}
	if name, ok := service.Config[containerNameKey]; ok && name != nil {
		containerName, err := cast.ToStringE(name)
		if err != nil {
			return container, err
		}
		if containerName != "" {
			container.ContainerName = containerName
		}
	}
	build, ok := service.Config[buildKey]
	if !ok || build == nil {
		return container, nil
	}
	switch v := build.(type) {
	case string:
		b, err := resolveBuild(v, "", service.ProjectDir, baseDir)
		if err != nil {
			return container, err
		}
		container.Build = &b
	case map[string]interface{}:
		config := buildConfig{}
		if err := common.GetObjFromInterface(v, &config); err != nil {
			return container, err
		}
		if config.Context == "" {
			config.Context = "."
		}
		b, err := resolveBuild(config.Context, config.Dockerfile, service.ProjectDir, baseDir)
		if err != nil {
			return container, err
		}
		container.Build = &b
	default:
		return container, fmt.Errorf("expected the build to be a string or a mapping. Actual type %T", build)
	}
	return container, nil
}

func resolveBuild(context, dockerfile, projectDir, baseDir string) (microservice.Build, error) {
	if isURL(context) {
		return microservice.NewBuild(context, dockerfile, true, false), nil
	}
	if filepath.IsAbs(context) {
		return microservice.NewBuild(context, dockerfile, false, true), nil
	}
	rel, err := filepath.Rel(baseDir, filepath.Join(projectDir, context))
	if err != nil {
		return microservice.Build{}, fmt.Errorf("failed to make the build context %s relative to %s . Error: %w", context, baseDir, err)
	}
	return microservice.NewBuild(rel, dockerfile, false, false), nil
}

// stripImageTag removes the digest and the tag of an image reference.
// A registry port is not mistaken for a tag.
func stripImageTag(image string) string {
	if i := strings.Index(image, "@"); i >= 0 {
		image = image[:i]
	}
	i := strings.Index(image, ":")
	if i < 0 {
		return image
	}
	if strings.Contains(image[i:], "/") {
		lastSlash := strings.LastIndex(image, "/")
		if j := strings.LastIndex(image, ":"); j > lastSlash {
			return image[:j]
		}
		return image
	}
	return image[:i]
}

func isURL(context string) bool {
	if strings.Contains(context, "://") {
		return true
	}
	for _, prefix := range urlPrefixes {
		if strings.HasPrefix(context, prefix) {
			return true
		}
	}
	return false
}
