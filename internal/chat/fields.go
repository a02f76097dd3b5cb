package chat

import "strings"

// Field identifies one attribute of a job posting.
type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldSkills      Field = "skills"
	FieldPlus        Field = "plus"
	FieldLocation    Field = "location"
	FieldMode        Field = "mode"
	FieldSalary      Field = "salary"
)

// Fields lists every required field in collection order.
var Fields = []Field{
	FieldTitle,
	FieldDescription,
	FieldSkills,
	FieldPlus,
	FieldLocation,
	FieldMode,
	FieldSalary,
}

// FieldSet maps collected fields to the raw user text recorded for them.
type FieldSet map[Field]string

// Has reports whether f holds a non-empty value.
func (fs FieldSet) Has(f Field) bool {
	return strings.TrimSpace(fs[f]) != ""
}

// Complete reports whether every required field is present.
func (fs FieldSet) Complete() bool {
	for _, f := range Fields {
		if !fs.Has(f) {
			return false
		}
	}
	return true
}

// Missing returns the absent fields in collection order.
func (fs FieldSet) Missing() []Field {
	var missing []Field
	for _, f := range Fields {
		if !fs.Has(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

func (fs FieldSet) Clone() FieldSet {
	out := make(FieldSet, len(fs))
	for k, v := range fs {
		out[k] = v
	}
	return out
}

// Lines renders the set as "label: value" lines in collection order, using
// the labels of lang. Absent fields are skipped.
func (fs FieldSet) Lines(lang Language, prefix, sep string) []string {
	lines := make([]string, 0, len(Fields))
	for _, f := range Fields {
		if !fs.Has(f) {
			continue
		}
		lines = append(lines, prefix+Label(f, lang)+sep+fs[f])
	}
	return lines
}
