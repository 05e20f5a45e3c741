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

package types

const (
	// AppName represents the full app name
	AppName string = "claim"
	// AppNameShort represents the short app name
	AppNameShort string = "claim"
	// GroupName is the group name use in this package
	GroupName = AppName + ".konveyor.io"
	// Version is the version of the files written by the app
	Version = "v1alpha1"
	// APIVersion is the apiVersion written into every report
	APIVersion = GroupName + "/" + Version
)

// TypeMeta stores apiversion and kind for resources
type TypeMeta struct {
	// APIVersion defines the versioned schema of this representation of an object.
	APIVersion string `yaml:"apiVersion,omitempty" json:"apiVersion,omitempty"`
	// Kind is a string value representing the resource this object represents.
	Kind string `yaml:"kind,omitempty" json:"kind,omitempty"`
}

// Kind stores the kind of the file
type Kind string
