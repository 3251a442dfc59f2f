package model

import "time"

// Field is a single extracted attribute paired with the confidence of the
// rule that produced it. Confidence 0 always means "not extracted"; a
// non-empty value always carries a confidence above zero.
type Field struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// NewField builds a Field, forcing confidence to zero for empty values.
func NewField(value string, confidence float64) Field {
	if value == "" {
		return Field{}
	}
	return Field{Value: value, Confidence: confidence}
}

// IsZero reports whether the field holds no extracted value.
func (f Field) IsZero() bool {
	return f.Value == ""
}

// ContactDraft is the structured result of extracting one business card.
// It has no persistence identity; one pipeline invocation owns it until the
// caller serializes or stores it.
type ContactDraft struct {
	FirstName        Field   `json:"firstName"`
	LastName         Field   `json:"lastName"`
	Nickname         Field   `json:"nickname"`
	Position         Field   `json:"position"`
	Phone            Field   `json:"phone"`
	AdditionalPhones []Field `json:"additionalPhones"`
	Email            Field   `json:"email"`
	Company          Field   `json:"company"`
	Website          Field   `json:"website"`
	Notes            Field   `json:"notes"`
}

// HasPhone reports whether the given canonical number is already recorded,
// either as the primary phone or among the additional ones.
func (d *ContactDraft) HasPhone(canonical string) bool {
	if d.Phone.Value == canonical {
		return true
	}
	for _, p := range d.AdditionalPhones {
		if p.Value == canonical {
			return true
		}
	}
	return false
}

// Contact is a stored contact: a draft plus persistence identity.
type Contact struct {
	ID         string       `json:"id"`
	Draft      ContactDraft `json:"draft"`
	IsFavorite bool         `json:"isFavorite"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}
