// Mdlast
// Copyright (C) James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package store contains an in-memory object store for the rewriter and a
// loader that fills one from a yaml scene description.
package store

import (
	"fmt"
	"sort"

	"github.com/purpleidea/mdlast/lang/interfaces"
	"github.com/purpleidea/mdlast/lang/types"
	"github.com/purpleidea/mdlast/util/errwrap"
)

type record struct {
	name    string
	class   interfaces.ClassID
	version uint32
	data    interface{}
}

// Memory is a tag addressed store which keeps every record in a map. Tags are
// handed out in insertion order starting at one. It is not safe for
// concurrent use.
type Memory struct {
	records map[types.Tag]*record
	names   map[string]types.Tag
	next    types.Tag
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{
		records: make(map[types.Tag]*record),
		names:   make(map[string]types.Tag),
		next:    1,
	}
}

// classOf returns the class of a record value.
func classOf(data interface{}) (interfaces.ClassID, error) {
	switch data.(type) {
	case *interfaces.FunctionDefinition:
		return interfaces.ClassFunctionDefinition, nil
	case *interfaces.FunctionCall:
		return interfaces.ClassFunctionCall, nil
	case *interfaces.MaterialDefinition:
		return interfaces.ClassMaterialDefinition, nil
	case *interfaces.MaterialInstance:
		return interfaces.ClassMaterialInstance, nil
	case *interfaces.Texture:
		return interfaces.ClassTexture, nil
	case *interfaces.Image:
		return interfaces.ClassImage, nil
	case *interfaces.LightProfile:
		return interfaces.ClassLightProfile, nil
	case *interfaces.BSDFMeasurement:
		return interfaces.ClassBSDFMeasurement, nil
	}
	return interfaces.ClassNone, fmt.Errorf("unsupported record type: %T", data)
}

// Reserve allocates a tag for name without storing anything at it yet. This
// lets records refer to each other before they are all built. Reserving a
// name twice returns the same tag.
func (obj *Memory) Reserve(name string) types.Tag {
	if tag, exists := obj.names[name]; exists && name != "" {
		return tag
	}
	tag := obj.next
	obj.next++
	obj.records[tag] = &record{name: name}
	if name != "" {
		obj.names[name] = tag
	}
	return tag
}

// Add stores a record under name and returns its new tag. The name may be
// empty for anonymous records.
func (obj *Memory) Add(name string, data interface{}) (types.Tag, error) {
	if _, exists := obj.names[name]; exists && name != "" {
		return types.InvalidTag, fmt.Errorf("duplicate record name: %s", name)
	}
	tag := obj.Reserve(name)
	return tag, obj.Set(tag, data)
}

// Set stores a record at a tag that was returned by Reserve or Add, replacing
// what was there. The version of the tag is increased each time.
func (obj *Memory) Set(tag types.Tag, data interface{}) error {
	rec, exists := obj.records[tag]
	if !exists {
		return errwrap.Wrapf(interfaces.ErrNotFound, "can't set %s", tag)
	}
	class, err := classOf(data)
	if err != nil {
		return err
	}
	rec.class = class
	rec.data = data
	rec.version++
	return nil
}

// Lookup returns the tag of the named record.
func (obj *Memory) Lookup(name string) (types.Tag, bool) {
	tag, exists := obj.names[name]
	return tag, exists
}

// Names returns the sorted names of every record.
func (obj *Memory) Names() []string {
	names := []string{}
	for name := range obj.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClassID returns the class of the record at tag, or ClassNone.
func (obj *Memory) ClassID(tag types.Tag) interfaces.ClassID {
	if rec, exists := obj.records[tag]; exists {
		return rec.class
	}
	return interfaces.ClassNone
}

// TagName returns the name of the record at tag.
func (obj *Memory) TagName(tag types.Tag) string {
	if rec, exists := obj.records[tag]; exists {
		return rec.name
	}
	return ""
}

// TagVersion returns the version counter of the record at tag.
func (obj *Memory) TagVersion(tag types.Tag) uint32 {
	if rec, exists := obj.records[tag]; exists {
		return rec.version
	}
	return 0
}

func (obj *Memory) get(tag types.Tag, class interfaces.ClassID) (interface{}, error) {
	rec, exists := obj.records[tag]
	if !exists || rec.data == nil {
		return nil, errwrap.Wrapf(interfaces.ErrNotFound, "no %s at %s", class, tag)
	}
	if rec.class != class {
		return nil, errwrap.Wrapf(interfaces.ErrWrongClass, "record %q at %s is a %s, not a %s", rec.name, tag, rec.class, class)
	}
	return rec.data, nil
}

// FunctionDefinition returns the function definition at tag.
func (obj *Memory) FunctionDefinition(tag types.Tag) (*interfaces.FunctionDefinition, error) {
	data, err := obj.get(tag, interfaces.ClassFunctionDefinition)
	if err != nil {
		return nil, err
	}
	return data.(*interfaces.FunctionDefinition), nil
}

// FunctionCall returns the function call at tag.
func (obj *Memory) FunctionCall(tag types.Tag) (*interfaces.FunctionCall, error) {
	data, err := obj.get(tag, interfaces.ClassFunctionCall)
	if err != nil {
		return nil, err
	}
	return data.(*interfaces.FunctionCall), nil
}

// MaterialDefinition returns the material definition at tag.
func (obj *Memory) MaterialDefinition(tag types.Tag) (*interfaces.MaterialDefinition, error) {
	data, err := obj.get(tag, interfaces.ClassMaterialDefinition)
	if err != nil {
		return nil, err
	}
	return data.(*interfaces.MaterialDefinition), nil
}

// MaterialInstance returns the material instance at tag.
func (obj *Memory) MaterialInstance(tag types.Tag) (*interfaces.MaterialInstance, error) {
	data, err := obj.get(tag, interfaces.ClassMaterialInstance)
	if err != nil {
		return nil, err
	}
	return data.(*interfaces.MaterialInstance), nil
}

// Texture returns the texture at tag.
func (obj *Memory) Texture(tag types.Tag) (*interfaces.Texture, error) {
	data, err := obj.get(tag, interfaces.ClassTexture)
	if err != nil {
		return nil, err
	}
	return data.(*interfaces.Texture), nil
}

// Image returns the image at tag.
func (obj *Memory) Image(tag types.Tag) (*interfaces.Image, error) {
	data, err := obj.get(tag, interfaces.ClassImage)
	if err != nil {
		return nil, err
	}
	return data.(*interfaces.Image), nil
}

// LightProfile returns the light profile at tag.
func (obj *Memory) LightProfile(tag types.Tag) (*interfaces.LightProfile, error) {
	data, err := obj.get(tag, interfaces.ClassLightProfile)
	if err != nil {
		return nil, err
	}
	return data.(*interfaces.LightProfile), nil
}

// BSDFMeasurement returns the bsdf measurement at tag.
func (obj *Memory) BSDFMeasurement(tag types.Tag) (*interfaces.BSDFMeasurement, error) {
	data, err := obj.get(tag, interfaces.ClassBSDFMeasurement)
	if err != nil {
		return nil, err
	}
	return data.(*interfaces.BSDFMeasurement), nil
}

var _ interfaces.Store = &Memory{} // ensure it meets the interface
