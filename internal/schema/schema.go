// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package schema generates JSON Schema and Markdown documentation for plan
// files from the yaml and docdesc tags of the plan structs.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
)

const (
	// DraftURI is the JSON Schema dialect of generated documents.
	DraftURI = "https://json-schema.org/draft/2020-12/schema"
	defsRef  = "#/$defs/"
)

var (
	// ErrNotStruct is returned when a schema is requested for a non-struct type.
	ErrNotStruct = errors.New("expected struct type")
	// ErrWrite is returned when the schema cannot be written.
	ErrWrite = errors.New("failed to write schema")
)

// Field represents a property of an object in the schema.
type Field struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
	Items       *Field `json:"items,omitempty"`
	// Ref names the definition describing a struct value.
	Ref string `json:"ref,omitempty"`
}

// Object is a struct type rendered as a schema object.
type Object struct {
	Name        string
	Description string
	Fields      []Field
}

// Generator turns struct definitions into schema objects. Struct types found
// in fields are collected as named definitions, so recursive types are
// described once and referenced.
type Generator struct {
	defs  map[string]*Object
	order []string
}

// NewGenerator creates a new Generator.
func NewGenerator() *Generator {
	return &Generator{
		defs: make(map[string]*Object),
	}
}

// Generate extracts the root object for def and every struct it refers to.
func (g *Generator) Generate(def any, description string) (*Object, error) {
	t := reflect.TypeOf(def)
	if t == nil {
		return nil, ErrNotStruct
	}

	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	fields, err := g.extractFields(t)
	if err != nil {
		return nil, err
	}

	return &Object{
		Name:        defName(t),
		Description: description,
		Fields:      g.sortFields(fields),
	}, nil
}

// Definitions returns the struct types referenced by generated objects, in the
// order they were found.
func (g *Generator) Definitions() []*Object {
	result := make([]*Object, 0, len(g.order))
	for _, name := range g.order {
		result = append(result, g.defs[name])
	}

	return result
}

// JSONSchema builds a complete JSON Schema document with root as the top level
// object.
func (g *Generator) JSONSchema(title string, root *Object) map[string]any {
	doc := g.objectToProperty(root)
	doc["$schema"] = DraftURI
	doc["title"] = title

	if len(g.order) > 0 {
		defs := make(map[string]any, len(g.order))
		for _, obj := range g.Definitions() {
			defs[obj.Name] = g.objectToProperty(obj)
		}

		doc["$defs"] = defs
	}

	return doc
}

// extractFields extracts schema fields from a struct type using reflection.
func (g *Generator) extractFields(t reflect.Type) ([]Field, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w, got %s", ErrNotStruct, t.Kind())
	}

	var fields []Field

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if !field.IsExported() {
			continue
		}

		if field.Anonymous {
			embedded, err := g.extractFields(field.Type)
			if err != nil {
				return nil, err
			}

			fields = append(fields, embedded...)

			continue
		}

		schemaField, err := g.fieldToSchemaField(field)
		if err != nil {
			return nil, err
		}

		if schemaField != nil {
			fields = append(fields, *schemaField)
		}
	}

	return fields, nil
}

// fieldToSchemaField converts a reflect.StructField to a Field.
func (g *Generator) fieldToSchemaField(field reflect.StructField) (*Field, error) {
	yamlTag := field.Tag.Get("yaml")
	if yamlTag == "-" {
		return nil, nil
	}

	fieldName := field.Name

	if yamlTag != "" {
		parts := strings.Split(yamlTag, ",")
		if parts[0] != "" {
			fieldName = parts[0]
		}
	}

	result, err := g.typeToField(field.Type)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", field.Name, err)
	}

	result.Name = strings.ToLower(fieldName)
	result.Description = field.Tag.Get("docdesc")
	result.Required = !strings.Contains(yamlTag, "omitempty")

	return result, nil
}

// typeToField describes a value of type t, registering struct types as
// definitions.
func (g *Generator) typeToField(t reflect.Type) (*Field, error) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	f := &Field{Type: g.getSchemaType(t)}

	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		items, err := g.typeToField(t.Elem())
		if err != nil {
			return nil, err
		}

		f.Items = items
	case reflect.Struct:
		name := defName(t)
		f.Ref = name

		if _, ok := g.defs[name]; ok {
			break
		}

		// Register before extracting so self references resolve.
		obj := &Object{Name: name}
		g.defs[name] = obj
		g.order = append(g.order, name)

		fields, err := g.extractFields(t)
		if err != nil {
			return nil, err
		}

		obj.Fields = g.sortFields(fields)
	}

	return f, nil
}

// getSchemaType converts a Go type to a JSON schema type.
func (g *Generator) getSchemaType(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	case reflect.Ptr:
		return g.getSchemaType(t.Elem())
	default:
		return "string"
	}
}

// sortFields orders fields as name, others (lexically), steps.
func (g *Generator) sortFields(fields []Field) []Field {
	var nameField, stepsField *Field

	var otherFields []Field

	for i := range fields {
		field := &fields[i]
		switch field.Name {
		case "name":
			nameField = field
		case "steps":
			stepsField = field
		default:
			otherFields = append(otherFields, *field)
		}
	}

	sort.Slice(otherFields, func(i, j int) bool {
		return otherFields[i].Name < otherFields[j].Name
	})

	result := make([]Field, 0, len(fields))

	if nameField != nil {
		result = append(result, *nameField)
	}

	result = append(result, otherFields...)

	if stepsField != nil {
		result = append(result, *stepsField)
	}

	return result
}

func (g *Generator) objectToProperty(obj *Object) map[string]any {
	properties := make(map[string]any, len(obj.Fields))
	required := make([]string, 0, len(obj.Fields))

	for _, field := range obj.Fields {
		properties[field.Name] = g.fieldToProperty(field)

		if field.Required {
			required = append(required, field.Name)
		}
	}

	prop := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}

	if obj.Description != "" {
		prop["description"] = obj.Description
	}

	if len(required) > 0 {
		prop["required"] = required
	}

	return prop
}

// fieldToProperty converts a Field to a JSON schema property.
func (g *Generator) fieldToProperty(field Field) map[string]any {
	if field.Ref != "" {
		prop := map[string]any{"$ref": defsRef + field.Ref}
		if field.Description != "" {
			prop["description"] = field.Description
		}

		return prop
	}

	prop := map[string]any{
		"type": field.Type,
	}

	if field.Description != "" {
		prop["description"] = field.Description
	}

	if field.Type == "integer" {
		prop["minimum"] = 0
	}

	if field.Type == "array" && field.Items != nil {
		prop["items"] = g.fieldToProperty(*field.Items)
	}

	return prop
}

// WriteJSON writes the JSON Schema document for def.
func WriteJSON(w io.Writer, title, description string, def any) error {
	doc, err := document(title, description, def)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	return nil
}

// WriteYAML writes the JSON Schema document for def in YAML syntax.
func WriteYAML(w io.Writer, title, description string, def any) error {
	doc, err := document(title, description, def)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	return nil
}

// WriteMarkdown writes a table per object describing def and the types it uses.
func WriteMarkdown(w io.Writer, title, description string, def any) error {
	g := NewGenerator()

	root, err := g.Generate(def, description)
	if err != nil {
		return err
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n%s\n", title, description)

	for _, obj := range append([]*Object{root}, g.Definitions()...) {
		fmt.Fprintf(&sb, "\n## %s\n\n", obj.Name)
		sb.WriteString("| Field | Type | Required | Description |\n")
		sb.WriteString("|-------|------|----------|-------------|\n")

		for _, f := range obj.Fields {
			required := "no"
			if f.Required {
				required = "yes"
			}

			fmt.Fprintf(&sb, "| `%s` | %s | %s | %s |\n", f.Name, markdownType(f), required, f.Description)
		}
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	return nil
}

func document(title, description string, def any) (map[string]any, error) {
	g := NewGenerator()

	root, err := g.Generate(def, description)
	if err != nil {
		return nil, err
	}

	return g.JSONSchema(title, root), nil
}

func markdownType(f Field) string {
	switch {
	case f.Ref != "":
		return fmt.Sprintf("[%s](#%s)", f.Ref, f.Ref)
	case f.Items != nil:
		return markdownType(*f.Items) + " list"
	default:
		return f.Type
	}
}

func defName(t reflect.Type) string {
	return strings.ToLower(t.Name())
}
