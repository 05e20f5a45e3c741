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

import "fmt"

// ParseError is returned when a compose file is not valid yaml, is empty or is not a mapping
type ParseError struct {
	Path string
	Err  error
}

// Error returns the error message
func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse the compose file at path %s . Error: %v", e.Path, e.Err)
}

// Unwrap returns the cause
func (e *ParseError) Unwrap() error { return e.Err }

// InterpolationError is returned when a string in a compose file cannot be interpolated
type InterpolationError struct {
	Path string
	Err  error
}

// Error returns the error message
func (e *InterpolationError) Error() string {
	return fmt.Sprintf("failed to interpolate the compose file at path %s . Error: %v", e.Path, e.Err)
}

// Unwrap returns the cause
func (e *InterpolationError) Unwrap() error { return e.Err }

// IncludeError is returned when an include entry is malformed, cyclic or cannot be resolved
type IncludeError struct {
	Path    string
	Include string
	Err     error
}

// Error returns the error message
func (e *IncludeError) Error() string {
	return fmt.Sprintf("failed to include '%s' from the compose file at path %s . Error: %v", e.Include, e.Path, e.Err)
}

// Unwrap returns the cause
func (e *IncludeError) Unwrap() error { return e.Err }

// ExtensionError is returned when the base service of an extends cannot be resolved
type ExtensionError struct {
	Path    string
	Service string
	Err     error
}

// Error returns the error message
func (e *ExtensionError) Error() string {
	return fmt.Sprintf("failed to resolve extends of the service '%s' in the compose file at path %s . Error: %v", e.Service, e.Path, e.Err)
}

// Unwrap returns the cause
func (e *ExtensionError) Unwrap() error { return e.Err }

// NormalizationError is returned when the image, build or container_name of a service has an unexpected shape
type NormalizationError struct {
	Service string
	Err     error
}

// Error returns the error message
func (e *NormalizationError) Error() string {
	return fmt.Sprintf("failed to normalize the service '%s' . Error: %v", e.Service, e.Err)
}

// Unwrap returns the cause
func (e *NormalizationError) Unwrap() error { return e.Err }
