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

// Package resource resolves texture, light profile and bsdf measurement
// records in the object store to the file they were loaded from. When that is
// impossible it derives a stable identity from the store versions instead, so
// that equal stores always produce equal output.
package resource

import (
	"encoding/binary"
	"fmt"

	"github.com/purpleidea/mdlast/lang/ast"
	"github.com/purpleidea/mdlast/lang/interfaces"
	"github.com/purpleidea/mdlast/lang/types"
	"github.com/purpleidea/mdlast/prometheus"

	"golang.org/x/crypto/blake2b"
)

// Kind is the kind of resource that a tag is expected to hold.
type Kind int

// These are the resource kinds.
const (
	KindTexture Kind = iota
	KindLightProfile
	KindBSDFMeasurement
)

// String returns the name of the kind as used in messages.
func (obj Kind) String() string {
	switch obj {
	case KindTexture:
		return "texture"
	case KindLightProfile:
		return "light profile"
	case KindBSDFMeasurement:
		return "BSDF measurement"
	}
	return fmt.Sprintf("Kind(%d)", int(obj))
}

// class returns the store class that a record of this kind must have.
func (obj Kind) class() interfaces.ClassID {
	switch obj {
	case KindTexture:
		return interfaces.ClassTexture
	case KindLightProfile:
		return interfaces.ClassLightProfile
	case KindBSDFMeasurement:
		return interfaces.ClassBSDFMeasurement
	}
	return interfaces.ClassNone
}

// Result is what a resolution found. An empty Path means that the resource
// could not be resolved to a file.
type Result struct {
	Path string

	// Gamma is the classified gamma override of a texture. It is only
	// classified once the backing image was found.
	Gamma ast.GammaMode

	// Image is the backing image tag of a texture, which may be invalid.
	Image types.Tag

	// Matched is false if the record at the tag is not of the expected
	// kind.
	Matched bool
}

// Resolver looks up resource records. Data problems are reported to the Sink
// and never returned as errors.
type Resolver struct {
	Store interfaces.Store
	Sink  interfaces.Sink

	// Prometheus counts the emitted diagnostics. It may be nil.
	Prometheus *prometheus.Prometheus

	Debug bool
	Logf  func(format string, v ...interface{})
}

// Init validates the resolver.
func (obj *Resolver) Init() error {
	if obj.Store == nil {
		return fmt.Errorf("the Store is missing")
	}
	if obj.Sink == nil {
		return fmt.Errorf("the Sink is missing")
	}
	if obj.Logf == nil {
		obj.Logf = func(format string, v ...interface{}) {}
	}
	return nil
}

// Resolve returns the original filename of the resource at tag, which must
// hold a record of the given kind. Textures also report their gamma mode.
func (obj *Resolver) Resolve(tag types.Tag, kind Kind) *Result {
	result := &Result{Gamma: ast.GammaDefault}

	if class := obj.Store.ClassID(tag); class != kind.class() {
		obj.Emit(interfaces.SeverityError, interfaces.CategoryDatabase,
			"Incorrect type for %s resource %q.", kind, obj.Store.TagName(tag))
		return result
	}
	result.Matched = true

	switch kind {
	case KindTexture:
		texture, err := obj.Store.Texture(tag)
		if err != nil { // the class matched, so this is a broken store
			obj.Emit(interfaces.SeverityError, interfaces.CategoryDatabase, "%s", err.Error())
			return result
		}
		result.Image = texture.Image
		if !texture.Image.IsValid() {
			obj.Emit(interfaces.SeverityWarning, interfaces.CategoryResource,
				"No image for texture resource %q.", obj.Store.TagName(tag))
			return result
		}
		if obj.Store.ClassID(texture.Image) != interfaces.ClassImage {
			obj.Emit(interfaces.SeverityError, interfaces.CategoryDatabase,
				"Incorrect type for image resource %q.", obj.Store.TagName(texture.Image))
			return result
		}
		result.Gamma = ClassifyGamma(texture.Gamma)
		image, err := obj.Store.Image(texture.Image)
		if err != nil {
			obj.Emit(interfaces.SeverityError, interfaces.CategoryDatabase, "%s", err.Error())
			return result
		}
		result.Path = image.OriginalFilename

	case KindLightProfile:
		lp, err := obj.Store.LightProfile(tag)
		if err != nil {
			obj.Emit(interfaces.SeverityError, interfaces.CategoryDatabase, "%s", err.Error())
			return result
		}
		result.Path = lp.OriginalFilename

	case KindBSDFMeasurement:
		bm, err := obj.Store.BSDFMeasurement(tag)
		if err != nil {
			obj.Emit(interfaces.SeverityError, interfaces.CategoryDatabase, "%s", err.Error())
			return result
		}
		result.Path = bm.OriginalFilename
	}

	if result.Path == "" {
		obj.Emit(interfaces.SeverityWarning, interfaces.CategoryResource,
			"Empty filename for %s resource %q.", kind, obj.Store.TagName(tag))
	}

	if obj.Debug {
		obj.Logf("resolved %s %s to %q", kind, tag, result.Path)
	}
	return result
}

// Hash returns the content hash that stands in for the path of an unresolved
// resource. It only depends on the store versions of the record at tag and of
// its backing image, which is invalid for anything but textures.
func (obj *Resolver) Hash(tag types.Tag, kind Kind, image types.Tag) ast.Hash {
	var versions []uint32
	versions = append(versions, obj.Store.TagVersion(tag))
	if kind == KindTexture {
		var v uint32
		if image.IsValid() {
			v = obj.Store.TagVersion(image)
		}
		versions = append(versions, v)
	}
	return ContentHash(kind, versions...)
}

// Emit sends one diagnostic to the sink.
func (obj *Resolver) Emit(severity interfaces.Severity, category interfaces.Category, format string, v ...interface{}) {
	diag := &interfaces.Diagnostic{
		Severity: severity,
		Category: category,
		Message:  fmt.Sprintf(format, v...),
	}
	if obj.Debug {
		obj.Logf("diagnostic: %s", diag)
	}
	obj.Prometheus.UpdateDiagnosticsTotal(string(category))
	obj.Sink.Emit(diag)
}

// ClassifyGamma maps a gamma override to a gamma mode. The comparison is exact,
// so only the two values that the loaders store are recognized.
func ClassifyGamma(gamma float32) ast.GammaMode {
	switch gamma {
	case 1.0:
		return ast.GammaLinear
	case 2.2:
		return ast.GammaSRGB
	}
	return ast.GammaDefault
}

// ContentHash hashes the resource kind and the given versions with blake2b.
func ContentHash(kind Kind, versions ...uint32) ast.Hash {
	buf := make([]byte, 0, 4+4*len(versions))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(kind))
	for _, v := range versions {
		buf = binary.LittleEndian.AppendUint32(buf, v)
	}
	return ast.Hash(blake2b.Sum256(buf))
}
