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
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCollectServicesWithIncludes(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"docker-compose.yml": `include:
  - infra/compose.yml
  - path:
      - api/compose.yml
      - worker/compose.yml
    project_directory: services
    env_file: services.env
services:
  web:
    image: "web:${TAG}"
    build: ./web
    ports:
      - "80:80"
`,
		".env":                  "TAG=1\n",
		"services/services.env": "API_TAG=3\n",
		"infra/compose.yml": `services:
  db:
    image: postgres:${PG:-15}
`,
		"api/compose.yml": `services:
  api:
    image: "api:${API_TAG}"
    build: ./api
`,
		"worker/compose.yml": `services:
  worker:
    build:
      context: ../worker-src
      dockerfile: Dockerfile.worker
      args:
        VERSION: "1"
`,
	})
	got, err := CollectServices(filepath.Join(root, "docker-compose.yml"), "", nil)
	if err != nil {
		t.Fatalf("failed to collect the services. Error: %q", err)
	}
	want := []RawService{
		{Name: "db", ProjectDir: filepath.Join(root, "infra"), Config: map[string]interface{}{"image": "postgres:15"}},
		{Name: "api", ProjectDir: filepath.Join(root, "services"), Config: map[string]interface{}{"image": "api:3", "build": "./api"}},
		{Name: "worker", ProjectDir: filepath.Join(root, "services"), Config: map[string]interface{}{
			"build": map[string]interface{}{
				"context":    "../worker-src",
				"dockerfile": "Dockerfile.worker",
				"args":       map[string]interface{}{"VERSION": "1"},
			},
		}},
		{Name: "web", ProjectDir: root, Config: map[string]interface{}{"image": "web:1", "build": "./web"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("services mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectServicesEnvFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"docker-compose.yml": "services:\n  web:\n    image: app:${TAG}\n  cache:\n",
		".env":               "TAG=1\n",
		"override.env":       "TAG=2\n",
	})
	got, err := CollectServices(filepath.Join(root, "docker-compose.yml"), "", []string{".env", "missing.env", "override.env"})
	if err != nil {
		t.Fatalf("failed to collect the services. Error: %q", err)
	}
	want := []RawService{
		{Name: "cache", ProjectDir: root, Config: map[string]interface{}{}},
		{Name: "web", ProjectDir: root, Config: map[string]interface{}{"image": "app:2"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("services mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectServicesParseErrors(t *testing.T) {
	testcases := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"only whitespace", "  \n"},
		{"empty mapping", "{}\n"},
		{"top level list", "- a\n- b\n"},
		{"invalid yaml", "services: [\n"},
		{"services is a list", "services:\n  - web\n"},
		{"service is a scalar", "services:\n  web: nginx\n"},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			root := t.TempDir()
			writeFiles(t, root, map[string]string{"docker-compose.yml": tc.content})
			_, err := CollectServices(filepath.Join(root, "docker-compose.yml"), "", nil)
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected a ParseError. Actual: %v", err)
			}
		})
	}
}

func TestCollectServicesIncludeErrors(t *testing.T) {
	testcases := []struct {
		name  string
		files map[string]string
	}{
		{
			name: "cyclic include",
			files: map[string]string{
				"docker-compose.yml": "include:\n  - b.yml\n",
				"b.yml":              "include:\n  - docker-compose.yml\nservices:\n  b:\n    image: b\n",
			},
		},
		{
			name:  "missing include",
			files: map[string]string{"docker-compose.yml": "include:\n  - missing.yml\n"},
		},
		{
			name:  "include is not a list",
			files: map[string]string{"docker-compose.yml": "include: other.yml\n"},
		},
		{
			name:  "include entry without a path",
			files: map[string]string{"docker-compose.yml": "include:\n  - project_directory: x\n"},
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			root := t.TempDir()
			writeFiles(t, root, tc.files)
			_, err := CollectServices(filepath.Join(root, "docker-compose.yml"), "", nil)
			var includeErr *IncludeError
			if !errors.As(err, &includeErr) {
				t.Fatalf("expected an IncludeError. Actual: %v", err)
			}
		})
	}
}

func TestMergeServices(t *testing.T) {
	t.Run("child wins on conflicting map keys", func(t *testing.T) {
		base := map[string]interface{}{"environment": map[string]interface{}{"A": "1", "B": "2"}}
		child := map[string]interface{}{"extends": "base", "environment": map[string]interface{}{"B": "3", "C": "4"}}
		want := map[string]interface{}{"environment": map[string]interface{}{"A": "1", "B": "3", "C": "4"}}
		if diff := cmp.Diff(want, mergeServices(child, base)); diff != "" {
			t.Fatalf("merged service mismatch (-want +got):\n%s", diff)
		}
	})
	t.Run("mounts merge by target", func(t *testing.T) {
		base := map[string]interface{}{
			"volumes": []interface{}{
				"./b:/data",
				"./cache:/cache",
				map[string]interface{}{"type": "volume", "source": "logs", "target": "/logs"},
			},
			"devices": []interface{}{"/dev/a:/dev/a"},
		}
		child := map[string]interface{}{
			"volumes": []interface{}{"./a:/data", "./logs:/logs:ro"},
			"devices": []interface{}{"/dev/b:/dev/a"},
		}
		want := map[string]interface{}{
			"volumes": []interface{}{"./a:/data", "./logs:/logs:ro", "./cache:/cache"},
			"devices": []interface{}{"/dev/b:/dev/a"},
		}
		if diff := cmp.Diff(want, mergeServices(child, base)); diff != "" {
			t.Fatalf("merged service mismatch (-want +got):\n%s", diff)
		}
	})
	t.Run("some keys append the base value as a nested list", func(t *testing.T) {
		base := map[string]interface{}{
			"dns":      []interface{}{"1.1.1.1"},
			"env_file": "base.env",
		}
		child := map[string]interface{}{
			"dns":      "8.8.8.8",
			"env_file": []interface{}{"child.env"},
		}
		want := map[string]interface{}{
			"dns":      []interface{}{"8.8.8.8", []interface{}{"1.1.1.1"}},
			"env_file": []interface{}{"child.env", "base.env"},
		}
		if diff := cmp.Diff(want, mergeServices(child, base)); diff != "" {
			t.Fatalf("merged service mismatch (-want +got):\n%s", diff)
		}
	})
	t.Run("lists are concatenated without duplicates and scalars fill gaps", func(t *testing.T) {
		base := map[string]interface{}{
			"image":   "base",
			"restart": "always",
			"ports":   []interface{}{"80:80", "443:443"},
		}
		child := map[string]interface{}{
			"image": "child",
			"ports": []interface{}{"80:80"},
		}
		want := map[string]interface{}{
			"image":   "child",
			"restart": "always",
			"ports":   []interface{}{"80:80", "443:443"},
		}
		if diff := cmp.Diff(want, mergeServices(child, base)); diff != "" {
			t.Fatalf("merged service mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]interface{}{"80:80"}, child["ports"]); diff != "" {
			t.Fatalf("the child service was modified (-want +got):\n%s", diff)
		}
	})
}

func TestExtendsChain(t *testing.T) {
	e := &extender{
		path:       "docker-compose.yml",
		projectDir: ".",
		services: map[string]interface{}{
			"a": map[string]interface{}{"image": "a", "environment": map[string]interface{}{"LEVEL": "a", "A": "1"}},
			"b": map[string]interface{}{"extends": "a", "environment": map[string]interface{}{"LEVEL": "b"}},
			"c": map[string]interface{}{"extends": map[string]interface{}{"service": "b"}, "container_name": "c"},
		},
	}
	got, err := e.resolve("c")
	if err != nil {
		t.Fatalf("failed to resolve the extends chain. Error: %q", err)
	}
	want := map[string]interface{}{
		"image":          "a",
		"container_name": "c",
		"environment":    map[string]interface{}{"LEVEL": "b", "A": "1"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("resolved service mismatch (-want +got):\n%s", diff)
	}
}

func TestExtendsFromAnotherFile(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"docker-compose.yml": `services:
  web:
    extends:
      file: common/base.yml
      service: app
    image: web:2
  worker:
    extends:
      file: common/base.yml
      service: worker
`,
		"common/base.yml": `services:
  app:
    build: ./app
    container_name: app
  worker:
    build:
      dockerfile: Dockerfile.worker
`,
	})
	got, err := CollectServices(filepath.Join(root, "docker-compose.yml"), "", nil)
	if err != nil {
		t.Fatalf("failed to collect the services. Error: %q", err)
	}
	want := []RawService{
		{Name: "web", ProjectDir: root, Config: map[string]interface{}{
			"image":          "web:2",
			"build":          filepath.Join("common", "app"),
			"container_name": "app",
		}},
		{Name: "worker", ProjectDir: root, Config: map[string]interface{}{
			"build": map[string]interface{}{"context": "common", "dockerfile": "Dockerfile.worker"},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("services mismatch (-want +got):\n%s", diff)
	}
}

func TestExtendsErrors(t *testing.T) {
	testcases := []struct {
		name    string
		content string
	}{
		{"missing base service", "services:\n  web:\n    extends: base\n"},
		{"absolute extends file", "services:\n  web:\n    extends:\n      file: /etc/compose.yml\n      service: base\n"},
		{"cyclic extends", "services:\n  a:\n    extends: b\n  b:\n    extends: a\n"},
		{"service extends itself", "services:\n  a:\n    extends: a\n"},
		{"extends without a service", "services:\n  a:\n    extends:\n      file: other.yml\n"},
		{"missing extends file", "services:\n  a:\n    extends:\n      file: other.yml\n      service: b\n"},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			root := t.TempDir()
			writeFiles(t, root, map[string]string{"docker-compose.yml": tc.content})
			_, err := CollectServices(filepath.Join(root, "docker-compose.yml"), "", nil)
			var extErr *ExtensionError
			if !errors.As(err, &extErr) {
				t.Fatalf("expected an ExtensionError. Actual: %v", err)
			}
		})
	}
}
