// Package model defines the canonical component description handed from the
// parsing core to the emitters and the pipeline, plus the builder that
// normalizes raw extracted members into it.
package model

// ValueKind classifies a field's declared value type.
type ValueKind string

const (
	// KindString for string-valued fields
	KindString ValueKind = "string"
	// KindNumber for number-valued fields
	KindNumber ValueKind = "number"
	// KindBoolean for boolean-valued fields
	KindBoolean ValueKind = "boolean"
	// KindEnum for fields typed as a union of string literals
	KindEnum ValueKind = "enum"
	// KindUnknown for anything the extractor could not classify
	KindUnknown ValueKind = "unknown"
)

// Visibility of a field declaration. Private fields never reach the model.
type Visibility string

const (
	// Public visibility
	Public Visibility = "public"
	// Protected visibility
	Protected Visibility = "protected"
)

// FieldDescriptor is one annotated field resolved from the class chain.
type FieldDescriptor struct {
	Name        string     `json:"name"`
	BindingName string     `json:"bindingName,omitempty"` // empty when suppressed
	Kind        ValueKind  `json:"kind"`
	Reflects    bool       `json:"reflects,omitempty"`
	Default     string     `json:"default,omitempty"`
	Doc         string     `json:"doc,omitempty"`
	Visibility  Visibility `json:"visibility"`
	EnumValues  []string   `json:"enumValues,omitempty"`
}

// BindingDescriptor is the derived external representation of a field.
type BindingDescriptor struct {
	BindingName     string    `json:"bindingName"`
	SourceFieldName string    `json:"sourceFieldName"`
	Kind            ValueKind `json:"kind"`
	Reflects        bool      `json:"reflects,omitempty"`
	Default         string    `json:"default,omitempty"`
	Doc             string    `json:"doc,omitempty"`
	EnumValues      []string  `json:"enumValues,omitempty"`
}

// EventDescriptor is one declared or dispatched event.
type EventDescriptor struct {
	Name        string `json:"name"`
	HandlerName string `json:"handlerName"`
	DetailType  string `json:"detailType,omitempty"`
}

// ComponentModel is the sole handoff type between the parsing core and the
// emitters/pipeline. External collaborators may read it but not mutate it.
type ComponentModel struct {
	ClassName    string              `json:"className"`
	TagName      string              `json:"tagName"`
	FilePath     string              `json:"filePath"`
	ComponentDir string              `json:"componentDir"`
	ImportPath   string              `json:"importPath"`
	Fields       []FieldDescriptor   `json:"fields"`
	Bindings     []BindingDescriptor `json:"bindings"`
	Events       []EventDescriptor   `json:"events"`
}
