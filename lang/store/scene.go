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

package store

import (
	"fmt"
	"math"
	"strings"

	"github.com/purpleidea/mdlast/lang/interfaces"
	"github.com/purpleidea/mdlast/lang/ir"
	"github.com/purpleidea/mdlast/lang/types"
	"github.com/purpleidea/mdlast/util/errwrap"

	"github.com/iancoleman/strcase"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

// Scene is a decoded scene file: a filled store, the user types it declares,
// the top level argument list, and the named expressions to rewrite.
type Scene struct {
	Store *Memory
	Types map[string]*types.Type
	Args  *ir.ExprList
	Exprs []*NamedExpr
}

// NamedExpr is one expression of a scene.
type NamedExpr struct {
	Name string
	Expr ir.Expr
}

// SceneConfig is the data structure of a scene file.
type SceneConfig struct {
	Types   []TypeConfig   `yaml:"types"`
	Records []RecordConfig `yaml:"records"`
	Args    []ArgConfig    `yaml:"args"`
	Exprs   []ArgConfig    `yaml:"exprs"`
}

// TypeConfig declares a user enum (with Enum) or struct (with Fields).
type TypeConfig struct {
	Name   string        `yaml:"name"`
	Enum   []EnumConfig  `yaml:"enum"`
	Fields []FieldConfig `yaml:"fields"`
}

// EnumConfig is one enumerator.
type EnumConfig struct {
	Name string `yaml:"name"`
	Code int    `yaml:"code"`
}

// FieldConfig is one struct field.
type FieldConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// RecordConfig is one store record. Which fields are used depends on Class.
type RecordConfig struct {
	Name  string `yaml:"name"`
	Class string `yaml:"class"`

	// function and material definitions
	Original string `yaml:"original"`
	Semantic string `yaml:"semantic"`
	Params   int    `yaml:"params"`

	// function calls and material instances
	Definition string      `yaml:"definition"`
	Args       []ArgConfig `yaml:"args"`

	// textures
	Image string  `yaml:"image"`
	Gamma float32 `yaml:"gamma"`

	// images, light profiles and bsdf measurements
	Filename string `yaml:"filename"`
}

// ArgConfig is an optionally named expression.
type ArgConfig struct {
	Name string     `yaml:"name"`
	Expr ExprConfig `yaml:"expr"`
}

// ExprConfig is an expression. At most one of Call, Definition, Parameter and
// Temporary may be set, otherwise it's a constant holding Value.
type ExprConfig struct {
	Type string `yaml:"type"`

	Value interface{} `yaml:"value"`

	// Call names a function call or material instance record.
	Call string `yaml:"call"`

	// Definition and Args make a direct call.
	Definition string      `yaml:"definition"`
	Args       []ArgConfig `yaml:"args"`

	Parameter *int `yaml:"parameter"`
	Temporary *int `yaml:"temporary"`
}

// Parse parses a data stream into the scene config structure.
func (obj *SceneConfig) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, obj); err != nil {
		return errwrap.Wrapf(err, "scene config: invalid yaml")
	}
	return nil
}

// LoadScene reads and decodes the scene file at path.
func LoadScene(fs afero.Fs, path string) (*Scene, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errwrap.Wrapf(err, "can't read scene %s", path)
	}
	return ParseScene(data)
}

// ParseScene decodes a scene. Every problem in the records is reported at
// once.
func ParseScene(data []byte) (*Scene, error) {
	config := &SceneConfig{}
	if err := config.Parse(data); err != nil {
		return nil, err
	}
	return config.NewScene()
}

// NewScene builds the scene that this config describes.
func (obj *SceneConfig) NewScene() (*Scene, error) {
	scene := &Scene{
		Store: NewMemory(),
		Types: make(map[string]*types.Type),
		Args:  ir.NewExprList(),
	}
	d := &decoder{scene: scene}

	var reterr error

	// user types first, in two passes so fields may refer to any of them
	for _, x := range obj.Types {
		if x.Name == "" {
			reterr = errwrap.Append(reterr, fmt.Errorf("user type without a name"))
			continue
		}
		if _, exists := scene.Types[x.Name]; exists {
			reterr = errwrap.Append(reterr, fmt.Errorf("duplicate user type: %s", x.Name))
			continue
		}
		if len(x.Enum) > 0 && len(x.Fields) > 0 {
			reterr = errwrap.Append(reterr, fmt.Errorf("user type %s is both an enum and a struct", x.Name))
			continue
		}
		if len(x.Enum) > 0 {
			values := []types.EnumConst{}
			for _, e := range x.Enum {
				values = append(values, types.EnumConst{Name: e.Name, Code: e.Code})
			}
			scene.Types[x.Name] = types.NewEnum(x.Name, values...)
			continue
		}
		scene.Types[x.Name] = types.NewStruct(x.Name)
	}
	for _, x := range obj.Types {
		typ, exists := scene.Types[x.Name]
		if !exists || typ.Kind != types.KindStruct {
			continue
		}
		typ.Fields = nil // a duplicate may have come through here already
		for _, f := range x.Fields {
			ft, err := d.parseType(f.Type)
			if err != nil {
				reterr = errwrap.Append(reterr, errwrap.Wrapf(err, "field %s of %s", f.Name, x.Name))
				continue
			}
			typ.Fields = append(typ.Fields, types.Field{Name: f.Name, Type: ft})
		}
	}

	// reserve every record so they can refer to each other in any order
	for _, x := range obj.Records {
		if x.Name == "" {
			reterr = errwrap.Append(reterr, fmt.Errorf("record without a name"))
			continue
		}
		if _, exists := scene.Store.Lookup(x.Name); exists {
			reterr = errwrap.Append(reterr, fmt.Errorf("duplicate record: %s", x.Name))
			continue
		}
		scene.Store.Reserve(x.Name)
	}
	for _, x := range obj.Records {
		if x.Name == "" {
			continue
		}
		if err := d.record(x); err != nil {
			reterr = errwrap.Append(reterr, errwrap.Wrapf(err, "record %s", x.Name))
		}
	}

	for i, x := range obj.Args {
		expr, err := d.expr(x.Expr)
		if err != nil {
			reterr = errwrap.Append(reterr, errwrap.Wrapf(err, "argument %d", i))
			continue
		}
		scene.Args.Add(x.Name, expr)
	}

	names := []string{}
	for i, x := range obj.Exprs {
		name := x.Name
		if name == "" {
			name = fmt.Sprintf("expr%d", i)
		}
		for _, n := range names {
			if n == name {
				reterr = errwrap.Append(reterr, fmt.Errorf("duplicate expression: %s", name))
			}
		}
		names = append(names, name)
		expr, err := d.expr(x.Expr)
		if err != nil {
			reterr = errwrap.Append(reterr, errwrap.Wrapf(err, "expression %s", name))
			continue
		}
		scene.Exprs = append(scene.Exprs, &NamedExpr{Name: name, Expr: expr})
	}

	if reterr != nil {
		return nil, reterr
	}
	return scene, nil
}

// Expr returns the named expression of the scene, or nil.
func (obj *Scene) Expr(name string) ir.Expr {
	for _, x := range obj.Exprs {
		if x.Name == name {
			return x.Expr
		}
	}
	return nil
}

type decoder struct {
	scene *Scene
}

func (obj *decoder) parseType(s string) (*types.Type, error) {
	if s == "" {
		return nil, fmt.Errorf("missing type")
	}
	typ := types.ParseType(s, func(name string) *types.Type {
		return obj.scene.Types[name]
	})
	if typ == nil {
		return nil, fmt.Errorf("unknown type: %s", s)
	}
	return typ, nil
}

// parseClass accepts the class names in any case style.
func parseClass(s string) (interfaces.ClassID, error) {
	key := strcase.ToSnake(strings.TrimSpace(s))
	for c := interfaces.ClassFunctionDefinition; c <= interfaces.ClassBSDFMeasurement; c++ {
		if c.String() == key {
			return c, nil
		}
	}
	return interfaces.ClassNone, fmt.Errorf("unknown class: %s", s)
}

func (obj *decoder) tag(name string) (types.Tag, error) {
	if name == "" {
		return types.InvalidTag, nil
	}
	tag, exists := obj.scene.Store.Lookup(name)
	if !exists {
		return types.InvalidTag, errwrap.Wrapf(interfaces.ErrNotFound, "unknown record %s", name)
	}
	return tag, nil
}

func (obj *decoder) args(args []ArgConfig) (*ir.ExprList, error) {
	list := ir.NewExprList()
	for i, x := range args {
		expr, err := obj.expr(x.Expr)
		if err != nil {
			return nil, errwrap.Wrapf(err, "argument %d", i)
		}
		list.Add(x.Name, expr)
	}
	return list, nil
}

func (obj *decoder) record(x RecordConfig) error {
	class, err := parseClass(x.Class)
	if err != nil {
		return err
	}
	tag, _ := obj.scene.Store.Lookup(x.Name)

	var data interface{}
	switch class {
	case interfaces.ClassFunctionDefinition:
		sema := types.SemUnknown
		if x.Semantic != "" {
			if sema, err = types.ParseSemantic(x.Semantic); err != nil {
				return err
			}
		}
		data = &interfaces.FunctionDefinition{
			Name:           x.Name,
			OriginalName:   x.Original,
			Semantic:       sema,
			ParameterCount: x.Params,
		}

	case interfaces.ClassMaterialDefinition:
		data = &interfaces.MaterialDefinition{
			Name:           x.Name,
			OriginalName:   x.Original,
			ParameterCount: x.Params,
		}

	case interfaces.ClassFunctionCall, interfaces.ClassMaterialInstance:
		def, err := obj.tag(x.Definition)
		if err != nil {
			return err
		}
		args, err := obj.args(x.Args)
		if err != nil {
			return err
		}
		if class == interfaces.ClassFunctionCall {
			data = &interfaces.FunctionCall{Definition: def, Args: args}
		} else {
			data = &interfaces.MaterialInstance{Definition: def, Args: args}
		}

	case interfaces.ClassTexture:
		image, err := obj.tag(x.Image)
		if err != nil {
			return err
		}
		data = &interfaces.Texture{Image: image, Gamma: x.Gamma}

	case interfaces.ClassImage:
		data = &interfaces.Image{OriginalFilename: x.Filename}
	case interfaces.ClassLightProfile:
		data = &interfaces.LightProfile{OriginalFilename: x.Filename}
	case interfaces.ClassBSDFMeasurement:
		data = &interfaces.BSDFMeasurement{OriginalFilename: x.Filename}
	}

	return obj.scene.Store.Set(tag, data)
}

func (obj *decoder) expr(x ExprConfig) (ir.Expr, error) {
	typ, err := obj.parseType(x.Type)
	if err != nil {
		return nil, err
	}

	count := 0
	for _, set := range []bool{x.Call != "", x.Definition != "", x.Parameter != nil, x.Temporary != nil} {
		if set {
			count++
		}
	}
	if count > 1 {
		return nil, fmt.Errorf("expression has more than one kind")
	}

	switch {
	case x.Call != "":
		tag, err := obj.tag(x.Call)
		if err != nil {
			return nil, err
		}
		return &ir.ExprCall{T: typ, Call: tag}, nil

	case x.Definition != "":
		tag, err := obj.tag(x.Definition)
		if err != nil {
			return nil, err
		}
		args, err := obj.args(x.Args)
		if err != nil {
			return nil, err
		}
		return &ir.ExprDirectCall{T: typ, Definition: tag, Args: args}, nil

	case x.Parameter != nil:
		return &ir.ExprParameter{T: typ, Index: *x.Parameter}, nil

	case x.Temporary != nil:
		return &ir.ExprTemporary{T: typ, Index: *x.Temporary}, nil
	}

	v, err := obj.value(typ, x.Value)
	if err != nil {
		return nil, err
	}
	return &ir.ExprConstant{V: v}, nil
}

// value decodes the yaml representation of a value of type typ.
func (obj *decoder) value(typ *types.Type, v interface{}) (types.Value, error) {
	t := typ.Skip()
	switch t.Kind {
	case types.KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("expected a bool, got %T", v)
		}
		return &types.BoolValue{V: b}, nil

	case types.KindInt:
		i, ok := v.(int)
		if !ok {
			return nil, fmt.Errorf("expected an int, got %T", v)
		}
		if i < math.MinInt32 || i > math.MaxInt32 {
			return nil, fmt.Errorf("int out of range: %d", i)
		}
		return &types.IntValue{V: int32(i)}, nil

	case types.KindFloat:
		f, err := toFloat(v)
		if err != nil {
			return nil, err
		}
		return &types.FloatValue{V: float32(f)}, nil

	case types.KindDouble:
		f, err := toFloat(v)
		if err != nil {
			return nil, err
		}
		return &types.DoubleValue{V: f}, nil

	case types.KindString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected a string, got %T", v)
		}
		return &types.StringValue{V: s}, nil

	case types.KindEnum:
		switch x := v.(type) {
		case string:
			for i, e := range t.Enum {
				if e.Name == x {
					return &types.EnumValue{T: typ, Index: i}, nil
				}
			}
			return nil, fmt.Errorf("enum %s has no value %s", t.Symbol, x)
		case int:
			if _, err := t.ValueName(x); err != nil {
				return nil, err
			}
			return &types.EnumValue{T: typ, Index: x}, nil
		}
		return nil, fmt.Errorf("expected an enum value name, got %T", v)

	case types.KindVector, types.KindMatrix:
		elems, err := obj.list(t.Val, v)
		if err != nil {
			return nil, err
		}
		if len(elems) != t.Size {
			return nil, fmt.Errorf("%s needs %d elements, got %d", t, t.Size, len(elems))
		}
		return &types.CompoundValue{T: typ, V: elems}, nil

	case types.KindColor:
		elems, err := obj.list(types.TypeFloat, v)
		if err != nil {
			return nil, err
		}
		if len(elems) != 3 {
			return nil, fmt.Errorf("color needs 3 elements, got %d", len(elems))
		}
		return &types.CompoundValue{T: typ, V: elems}, nil

	case types.KindStruct:
		l, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("expected a list of fields, got %T", v)
		}
		if len(l) != len(t.Fields) {
			return nil, fmt.Errorf("struct %s needs %d fields, got %d", t, len(t.Fields), len(l))
		}
		elems := []types.Value{}
		for i, x := range l {
			e, err := obj.value(t.Fields[i].Type, x)
			if err != nil {
				return nil, errwrap.Wrapf(err, "field %s", t.Fields[i].Name)
			}
			elems = append(elems, e)
		}
		return &types.CompoundValue{T: typ, V: elems}, nil

	case types.KindArray:
		elems, err := obj.list(t.Val, v)
		if err != nil {
			return nil, err
		}
		if t.IsImmediate() && len(elems) != t.Size {
			return nil, fmt.Errorf("%s needs %d elements, got %d", t, t.Size, len(elems))
		}
		return &types.ArrayValue{T: typ, V: elems}, nil

	case types.KindTexture, types.KindLightProfile, types.KindBSDFMeasurement:
		name := ""
		if v != nil {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("expected a record name, got %T", v)
			}
			name = s
		}
		tag, err := obj.tag(name)
		if err != nil {
			return nil, err
		}
		return &types.ResourceValue{T: typ, Tag: tag}, nil

	case types.KindBSDF, types.KindEDF, types.KindVDF:
		if v != nil {
			return nil, fmt.Errorf("%s constants are always invalid references", t)
		}
		return &types.InvalidDFValue{T: typ}, nil
	}

	return nil, fmt.Errorf("can't decode a value of type %s", typ)
}

func (obj *decoder) list(elem *types.Type, v interface{}) ([]types.Value, error) {
	l, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("expected a list, got %T", v)
	}
	elems := []types.Value{}
	for i, x := range l {
		e, err := obj.value(elem, x)
		if err != nil {
			return nil, errwrap.Wrapf(err, "element %d", i)
		}
		elems = append(elems, e)
	}
	return elems, nil
}

func toFloat(v interface{}) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	}
	return 0, fmt.Errorf("expected a number, got %T", v)
}
