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


package lib

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/konveyor/claim/common"
	"github.com/konveyor/claim/types"
	"github.com/konveyor/claim/types/info"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// ReportKind is the kind of a report file
	ReportKind types.Kind = "MicroserviceReport"
	// YamlFormat writes the report file as yaml
	YamlFormat = "yaml"
	// JSONFormat writes the report file as json
	JSONFormat = "json"
	// CSVFormat writes one row per microservice
	CSVFormat = "csv"
)

var csvHeader = []string{"source", "commit", "composeFile", "outcome", "name", "context", "dockerfile", "confidence"}

// ReportFile is the file written by the detect, history and batch commands
type ReportFile struct {
	types.TypeMeta `yaml:",inline" json:",inline"`
	// Version is the version of the binary which wrote the file
	Version string   `yaml:"version" json:"version"`
	Reports []Report `yaml:"reports" json:"reports"`
}

// NewReportFile wraps the reports in a report file
func NewReportFile(reports []Report) ReportFile {
	return ReportFile{
		TypeMeta: types.TypeMeta{APIVersion: types.APIVersion, Kind: string(ReportKind)},
		Version:  info.GetVersion(),
		Reports:  reports,
	}
}

// Formats returns the supported output formats
func Formats() []string {
	return []string{YamlFormat, JSONFormat, CSVFormat}
}

// FormatFromPath guesses the output format from the extension of a path. It defaults to yaml.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSONFormat
	case ".csv":
		return CSVFormat
	}
	return YamlFormat
}

// WriteReports writes the reports in the given format
func WriteReports(w io.Writer, format string, reports []Report) error {
	switch strings.ToLower(format) {
	case YamlFormat, "yml", "":
		yamlBytes, err := common.ObjectToYamlBytes(NewReportFile(reports))
		if err != nil {
			return err
		}
		_, err = w.Write(yamlBytes)
		return err
	case JSONFormat:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(NewReportFile(reports))
	case CSVFormat:
		return writeCSV(w, reports)
	}
	return fmt.Errorf("unsupported output format '%s'. Valid formats are %s", format, strings.Join(Formats(), ", "))
}

func writeCSV(w io.Writer, reports []Report) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, report := range reports {
		commit := ""
		if report.Commit != nil {
			commit = report.Commit.Hash
		}
		prefix := []string{report.Source, commit, report.ComposeFile, string(report.Outcome)}
		if len(report.Microservices) == 0 {
			if err := writer.Write(append(prefix, "", "", "", "")); err != nil {
				return err
			}
			continue
		}
		for _, ms := range report.Microservices {
			row := append(append([]string{}, prefix...), ms.Name, ms.Build.Context, ms.Build.Dockerfile, ms.Confidence.String())
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteReportsToFile writes the reports to a file. An empty format is guessed from the extension.
func WriteReportsToFile(path, format string, reports []Report) error {
	if format == "" {
		format = FormatFromPath(path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, common.DefaultDirectoryPermission); err != nil {
			return errors.Wrapf(err, "failed to create the directory %s", dir)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, common.DefaultFilePermission)
	if err != nil {
		return errors.Wrapf(err, "failed to create the report file %s", path)
	}
	if err := WriteReports(f, format, reports); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to write the report file %s", path)
	}
	return f.Close()
}

// ReadReportFile reads a yaml or json report file
func ReadReportFile(path string) (ReportFile, error) {
	file := ReportFile{}
	var err error
	switch FormatFromPath(path) {
	case JSONFormat:
		err = common.ReadJSON(path, &file)
	case CSVFormat:
		return file, fmt.Errorf("the report file %s is a csv file. Only yaml and json report files can be read", path)
	default:
		err = common.ReadYaml(path, &file)
	}
	if err != nil {
		return file, errors.Wrapf(err, "failed to read the report file %s", path)
	}
	if file.Kind != string(ReportKind) {
		return file, fmt.Errorf("the file %s has the kind '%s'. Expected: %s", path, file.Kind, ReportKind)
	}
	if file.APIVersion != types.APIVersion {
		logrus.Warnf("The report file %s has the apiVersion %s . Expected: %s", path, file.APIVersion, types.APIVersion)
	}
	fileVersion := info.VersionInfo{Version: file.Version}
	fileVersion.IsSameVersion()
	return file, nil
}
