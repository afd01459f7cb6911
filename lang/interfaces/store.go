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

// Package interfaces contains the contracts between the rewriter and the
// collaborators it consumes: the object store, the symbol table, and the sink
// for diagnostics.
package interfaces

import (
	"fmt"

	"github.com/purpleidea/mdlast/lang/ast"
	"github.com/purpleidea/mdlast/lang/ir"
	"github.com/purpleidea/mdlast/lang/types"
)

// ClassID identifies the class of the record stored at a tag.
type ClassID int

// These are the record classes.
const (
	ClassNone ClassID = iota
	ClassFunctionDefinition
	ClassFunctionCall
	ClassMaterialDefinition
	ClassMaterialInstance
	ClassTexture
	ClassImage
	ClassLightProfile
	ClassBSDFMeasurement
)

// String returns a short name for the class.
func (obj ClassID) String() string {
	switch obj {
	case ClassNone:
		return "none"
	case ClassFunctionDefinition:
		return "function_definition"
	case ClassFunctionCall:
		return "function_call"
	case ClassMaterialDefinition:
		return "material_definition"
	case ClassMaterialInstance:
		return "material_instance"
	case ClassTexture:
		return "texture"
	case ClassImage:
		return "image"
	case ClassLightProfile:
		return "light_profile"
	case ClassBSDFMeasurement:
		return "bsdf_measurement"
	}
	return fmt.Sprintf("ClassID(%d)", int(obj))
}

// FunctionDefinition is the stored record of a function.
type FunctionDefinition struct {
	// Name is the mangled name, including the parameter signature.
	Name string

	// OriginalName is the mangled name of the definition this one re-exports,
	// or empty if it isn't a re-export.
	OriginalName string

	Semantic       types.Semantic
	ParameterCount int
}

// FunctionCall is the stored record of a call of a function definition.
type FunctionCall struct {
	Definition types.Tag
	Args       *ir.ExprList
}

// MaterialDefinition is the stored record of a material, which is a user
// defined type as far as calls are concerned.
type MaterialDefinition struct {
	Name           string
	OriginalName   string
	ParameterCount int
}

// MaterialInstance is the stored record of an instance of a material.
type MaterialInstance struct {
	Definition types.Tag
	Args       *ir.ExprList
}

// Texture is the stored record of a texture.
type Texture struct {
	// Image is the tag of the backing image, it may be invalid.
	Image types.Tag

	// Gamma is the gamma override. Zero means no override.
	Gamma float32
}

// Image is the stored record of an image file.
type Image struct {
	OriginalFilename string
}

// LightProfile is the stored record of a light profile file.
type LightProfile struct {
	OriginalFilename string
}

// BSDFMeasurement is the stored record of a measured bsdf file.
type BSDFMeasurement struct {
	OriginalFilename string
}

// Store is the read-only view of the object store for one transaction. The
// records returned must not be modified. Lookups of a tag that holds another
// class of record return an error wrapping ErrWrongClass, and unknown tags one
// wrapping ErrNotFound.
type Store interface {
	// ClassID returns the class of the record at tag, or ClassNone.
	ClassID(tag types.Tag) ClassID

	// TagName returns the store name of the record at tag, if it has one.
	TagName(tag types.Tag) string

	// TagVersion returns the version counter of the record at tag. It
	// changes whenever the record changes.
	TagVersion(tag types.Tag) uint32

	FunctionDefinition(tag types.Tag) (*FunctionDefinition, error)
	FunctionCall(tag types.Tag) (*FunctionCall, error)
	MaterialDefinition(tag types.Tag) (*MaterialDefinition, error)
	MaterialInstance(tag types.Tag) (*MaterialInstance, error)
	Texture(tag types.Tag) (*Texture, error)
	Image(tag types.Tag) (*Image, error)
	LightProfile(tag types.Tag) (*LightProfile, error)
	BSDFMeasurement(tag types.Tag) (*BSDFMeasurement, error)
}

// SymbolTable interns names for the syntax tree. The ast package provides the
// usual implementation.
type SymbolTable interface {
	// Symbol returns the symbol for name, creating it on first use.
	Symbol(name string) *ast.Symbol

	// UserTypeSymbol returns the symbol of the user defined type name.
	UserTypeSymbol(name string) *ast.Symbol
}
