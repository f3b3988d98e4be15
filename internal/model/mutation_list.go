package model

import "encoding/json"

// MutationField is one entry of a record's pre-supplied mutation list. Feeds
// arrive either as a bare notation string or as a structured mutation row;
// exactly one of the two sides is set.
type MutationField struct {
	Notation string
	Entry    *Mutation
}

func FieldFromNotation(notation string) MutationField {
	return MutationField{Notation: notation}
}

func FieldFromMutation(m Mutation) MutationField {
	return MutationField{Entry: &m}
}

func (f *MutationField) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = MutationField{Notation: s}
		return nil
	}
	var m Mutation
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*f = MutationField{Entry: &m}
	return nil
}

func (f MutationField) MarshalJSON() ([]byte, error) {
	if f.Entry != nil {
		return json.Marshal(f.Entry)
	}
	return json.Marshal(f.Notation)
}

// MutationList distinguishes an absent mutation field, a well-formed list,
// and a malformed field. A malformed field marks the whole record as
// unparseable for signature purposes rather than failing the batch.
type MutationList struct {
	Entries []MutationField
	Invalid bool
}

func (l *MutationList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = MutationList{}
		return nil
	}
	var entries []MutationField
	if err := json.Unmarshal(data, &entries); err != nil {
		*l = MutationList{Invalid: true}
		return nil
	}
	*l = MutationList{Entries: entries}
	return nil
}

func (l MutationList) MarshalJSON() ([]byte, error) {
	if l.Invalid || l.Entries == nil {
		return []byte("null"), nil
	}
	return json.Marshal(l.Entries)
}
